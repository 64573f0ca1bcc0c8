package routes

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/wkalt/tlmdict/access"
	"github.com/wkalt/tlmdict/copytable"
	"github.com/wkalt/tlmdict/links"
	"github.com/wkalt/tlmdict/util/httputil"
	"github.com/wkalt/tlmdict/util/log"
)

func newCopyTableHandler(h *access.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stream := mux.Vars(r)["stream"]
		message := mux.Vars(r)["message"]
		optimize := parseOptimize(r)
		log.Infow(ctx, "copy table request",
			"stream", stream,
			"message", message,
			"optimize", optimize,
		)
		table, err := h.CompileMessage(stream, message, optimize)
		switch {
		case errors.Is(err, copytable.UnresolvedVariableError{}),
			errors.Is(err, links.DuplicateAssignmentError{}),
			errors.Is(err, links.RateMismatchError{}):
			httputil.BadRequest(ctx, w, "failed to compile %s: %s", message, err)
			return
		case err != nil:
			httputil.NotFound(ctx, w, "failed to compile %s: %s", message, err)
			return
		}
		if err := withFingerprint(h, w); err != nil {
			httputil.InternalServerError(ctx, w, "failed to tag response: %s", err)
			return
		}
		if err := json.NewEncoder(w).Encode(table); err != nil {
			httputil.InternalServerError(ctx, w, "failed to encode response: %s", err)
			return
		}
	}
}
