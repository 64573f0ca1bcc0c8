package routes

import (
	"net/http/httptest"
	"testing"

	"github.com/wkalt/tlmdict/access"
)

func MakeTestRoutes(t *testing.T, h *access.Handler) (string, func()) {
	t.Helper()
	srv := httptest.NewServer(MakeRoutes(h, nil))
	return srv.URL, srv.Close
}
