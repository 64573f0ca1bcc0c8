package routes

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/wkalt/tlmdict/access"
	"github.com/wkalt/tlmdict/itos"
	"github.com/wkalt/tlmdict/util/httputil"
	"github.com/wkalt/tlmdict/util/log"
)

// EncodingResponse is the body of an encoding lookup.
type EncodingResponse struct {
	Type    string `json:"type"`
	Mode    string `json:"mode"`
	Encoded string `json:"encoded"`
}

func newEncodingHandler(h *access.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		typeName := mux.Vars(r)["type"]
		modeName := r.URL.Query().Get("mode")
		if modeName == "" {
			modeName = "TWO_CHAR"
		}
		log.Debugw(ctx, "encoding request", "type", typeName, "mode", modeName)
		mode, err := itos.ParseMode(modeName)
		if err != nil {
			httputil.BadRequest(ctx, w, "failed to parse mode: %s", err)
			return
		}
		encoded, err := h.EncodedType(typeName, mode)
		if err != nil {
			httputil.NotFound(ctx, w, "failed to encode %s: %s", typeName, err)
			return
		}
		resp := EncodingResponse{Type: typeName, Mode: mode.String(), Encoded: encoded}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			httputil.InternalServerError(ctx, w, "failed to encode response: %s", err)
			return
		}
	}
}
