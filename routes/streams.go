package routes

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/wkalt/tlmdict/access"
	"github.com/wkalt/tlmdict/util/httputil"
	"github.com/wkalt/tlmdict/util/log"
)

func newStreamsHandler(h *access.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log.Debugw(ctx, "streams request")
		if err := json.NewEncoder(w).Encode(h.DataStreamNames()); err != nil {
			httputil.InternalServerError(ctx, w, "failed to encode response: %s", err)
			return
		}
	}
}

func newStreamTablesHandler(h *access.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stream := mux.Vars(r)["stream"]
		optimize := parseOptimize(r)
		log.Infow(ctx, "copy tables request", "stream", stream, "optimize", optimize)
		if _, ok := h.Stream(stream); !ok {
			httputil.NotFound(ctx, w, "unknown stream %s", stream)
			return
		}
		tables, err := h.CompileStream(ctx, stream, optimize)
		if err != nil {
			httputil.BadRequest(ctx, w, "failed to compile stream %s: %s", stream, err)
			return
		}
		if err := withFingerprint(h, w); err != nil {
			httputil.InternalServerError(ctx, w, "failed to tag response: %s", err)
			return
		}
		if err := json.NewEncoder(w).Encode(tables); err != nil {
			httputil.InternalServerError(ctx, w, "failed to encode response: %s", err)
			return
		}
	}
}
