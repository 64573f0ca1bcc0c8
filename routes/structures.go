package routes

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/wkalt/tlmdict/access"
	"github.com/wkalt/tlmdict/util/httputil"
	"github.com/wkalt/tlmdict/util/log"
)

func newStructuresHandler(h *access.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log.Debugw(ctx, "structures request")
		if err := json.NewEncoder(w).Encode(h.Snapshot().Catalog().Structures()); err != nil {
			httputil.InternalServerError(ctx, w, "failed to encode response: %s", err)
			return
		}
	}
}

func newVariablesHandler(h *access.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		structure := mux.Vars(r)["structure"]
		log.Infow(ctx, "variables request", "structure", structure)
		if !h.Snapshot().Catalog().IsStructure(structure) {
			httputil.NotFound(ctx, w, "unknown structure %s", structure)
			return
		}
		variables, err := h.Variables(structure)
		if err != nil {
			httputil.BadRequest(ctx, w, "failed to flatten %s: %s", structure, err)
			return
		}
		if err := withFingerprint(h, w); err != nil {
			httputil.InternalServerError(ctx, w, "failed to tag response: %s", err)
			return
		}
		if err := json.NewEncoder(w).Encode(variables); err != nil {
			httputil.InternalServerError(ctx, w, "failed to encode response: %s", err)
			return
		}
	}
}
