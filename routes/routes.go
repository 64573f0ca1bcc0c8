package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wkalt/tlmdict/access"
	"github.com/wkalt/tlmdict/util/mw"
)

/*
routes builds the HTTP surface of the dictionary service: a read-only API
over the access facade for report generators and ground tooling. Handlers
never mutate anything; each request reads one immutable snapshot, so
concurrent requests need no coordination beyond the facade's own caching.
*/

////////////////////////////////////////////////////////////////////////////////

// MakeRoutes builds the router over an access handler.
func MakeRoutes(h *access.Handler, allowedOrigins []string) *mux.Router {
	r := mux.NewRouter()
	r.Use(mw.WithRequestID)
	r.Use(mw.WithCORSAllowedOrigins(allowedOrigins))
	r.HandleFunc("/streams", newStreamsHandler(h)).Methods("GET")
	r.HandleFunc("/streams/{stream}/copytables", newStreamTablesHandler(h)).Methods("GET")
	r.HandleFunc("/streams/{stream}/messages/{message}/copytable", newCopyTableHandler(h)).Methods("GET")
	r.HandleFunc("/structures", newStructuresHandler(h)).Methods("GET")
	r.HandleFunc("/structures/{structure}/variables", newVariablesHandler(h)).Methods("GET")
	r.HandleFunc("/encoding/{type}", newEncodingHandler(h)).Methods("GET")
	return r
}

// withFingerprint tags the response with the snapshot's layout fingerprint,
// so clients can detect when a dictionary edit has invalidated artifacts
// they hold.
func withFingerprint(h *access.Handler, w http.ResponseWriter) error {
	fp, err := h.Snapshot().Fingerprint()
	if err != nil {
		return fmt.Errorf("failed to fingerprint layout: %w", err)
	}
	w.Header().Set("Etag", strconv.FormatUint(fp, 16))
	return nil
}

func parseOptimize(req *http.Request) bool {
	return req.URL.Query().Get("optimize") != "false"
}
