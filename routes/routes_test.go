package routes_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/tlmdict/access"
	"github.com/wkalt/tlmdict/copytable"
	"github.com/wkalt/tlmdict/dict"
	"github.com/wkalt/tlmdict/links"
	"github.com/wkalt/tlmdict/routes"
)

func newTestHandler(t *testing.T) *access.Handler {
	t.Helper()
	catalog, err := dict.NewCatalog(dict.DefaultPrimitives(), []*dict.Structure{
		{
			Name:      "hk",
			MsgIDName: "HK_TLM_MID",
			Members: []dict.MemberSpec{
				{Name: "count", TypeName: "uint16"},
				{Name: "voltage", TypeName: "uint16"},
				{Name: "mode", TypeName: "uint8"},
			},
		},
	})
	require.NoError(t, err)
	h, err := access.NewHandler(access.NewSnapshot(catalog), []links.Stream{
		{
			Name: "realtime",
			Messages: []links.Message{
				{
					Name: "status", IDName: "STATUS_MID", ID: "0x0800", HeaderSize: 12, Rate: 1,
					Links: []links.Link{
						{Name: "l", Root: "hk", Rate: 1, Variables: []string{"count", "voltage"}},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	return h
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	request, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	return resp
}

func TestStreamsHandler(t *testing.T) {
	url, finish := routes.MakeTestRoutes(t, newTestHandler(t))
	defer finish()
	resp := get(t, url+"/streams")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var streams []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&streams))
	require.Equal(t, []string{"realtime"}, streams)
}

func TestCopyTableHandler(t *testing.T) {
	url, finish := routes.MakeTestRoutes(t, newTestHandler(t))
	defer finish()

	t.Run("compiles a message", func(t *testing.T) {
		resp := get(t, url+"/streams/realtime/messages/status/copytable")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotEmpty(t, resp.Header.Get("Etag"))
		var table copytable.Table
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&table))
		require.Equal(t, "status", table.Message)
		require.Len(t, table.Entries, 1)
		require.Equal(t, uint16(4), table.Entries[0].ByteCount)
	})
	t.Run("optimize=false disables coalescing", func(t *testing.T) {
		resp := get(t, url+"/streams/realtime/messages/status/copytable?optimize=false")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var table copytable.Table
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&table))
		require.Len(t, table.Entries, 2)
	})
	t.Run("unknown message", func(t *testing.T) {
		resp := get(t, url+"/streams/realtime/messages/nope/copytable")
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStreamTablesHandler(t *testing.T) {
	url, finish := routes.MakeTestRoutes(t, newTestHandler(t))
	defer finish()

	t.Run("compiles all messages", func(t *testing.T) {
		resp := get(t, url+"/streams/realtime/copytables")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var tables []copytable.Table
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tables))
		require.Len(t, tables, 1)
	})
	t.Run("unknown stream", func(t *testing.T) {
		resp := get(t, url+"/streams/nope/copytables")
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStructuresHandler(t *testing.T) {
	url, finish := routes.MakeTestRoutes(t, newTestHandler(t))
	defer finish()
	resp := get(t, url+"/structures")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var structures []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&structures))
	require.Equal(t, []string{"hk"}, structures)
}

func TestVariablesHandler(t *testing.T) {
	url, finish := routes.MakeTestRoutes(t, newTestHandler(t))
	defer finish()

	t.Run("flattens a structure", func(t *testing.T) {
		resp := get(t, url+"/structures/hk/variables")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var variables []access.Attributes
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&variables))
		require.Len(t, variables, 3)
		require.Equal(t, "count", variables[0].Name)
		require.Equal(t, 4, variables[2].ByteOffset)
	})
	t.Run("unknown structure", func(t *testing.T) {
		resp := get(t, url+"/structures/nope/variables")
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestEncodingHandler(t *testing.T) {
	url, finish := routes.MakeTestRoutes(t, newTestHandler(t))
	defer finish()

	cases := []struct {
		assertion string
		path      string
		encoded   string
	}{
		{"default mode", "/encoding/uint16", "U2"},
		{"big endian", "/encoding/uint32?mode=BIG_ENDIAN", "U1234"},
		{"little endian swap", "/encoding/double?mode=LITTLE_ENDIAN_SWAP", "F78563412"},
		{"structure passthrough", "/encoding/hk", "hk"},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			resp := get(t, url+c.path)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var body routes.EncodingResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, c.encoded, body.Encoded)
		})
	}

	t.Run("unknown type", func(t *testing.T) {
		resp := get(t, url+"/encoding/mystery")
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
	t.Run("bad mode", func(t *testing.T) {
		resp := get(t, url+"/encoding/uint16?mode=SIDEWAYS")
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
