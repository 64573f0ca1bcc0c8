package dictstore_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/tlmdict/dictstore"
)

func TestReadStreamConfig(t *testing.T) {
	input := `{
	  "streams": [
	    {
	      "name": "realtime",
	      "messages": [
	        {
	          "name": "hk",
	          "idName": "HK_MID",
	          "id": "0x089B",
	          "rate": 4,
	          "links": [
	            {"name": "fast", "root": "packet", "rate": 4, "variables": ["count"]}
	          ]
	        },
	        {"name": "raw", "idName": "RAW_MID", "id": "0x089C", "headerSize": 0, "rate": 1}
	      ]
	    }
	  ]
	}`
	streams, err := dictstore.ReadStreamConfig(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, streams, 1)
	require.Equal(t, "realtime", streams[0].Name)

	// Omitted headerSize gets the CCSDS default; explicit zero is honored.
	require.Equal(t, dictstore.DefaultHeaderSize, streams[0].Messages[0].HeaderSize)
	require.Equal(t, 0, streams[0].Messages[1].HeaderSize)
	require.Equal(t, []string{"count"}, streams[0].Messages[0].Links[0].Variables)
}

func TestReadStreamConfigErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"malformed json", `{"streams": [`},
		{
			"rate mismatch",
			`{"streams": [{"name": "s", "messages": [{"name": "m", "rate": 2,
			  "links": [{"name": "l", "root": "r", "rate": 3, "variables": ["v"]}]}]}]}`,
		},
		{
			"duplicate assignment",
			`{"streams": [{"name": "s", "messages": [{"name": "m", "rate": 1,
			  "links": [
			    {"name": "a", "root": "r", "rate": 1, "variables": ["v"]},
			    {"name": "b", "root": "r", "rate": 1, "variables": ["v"]}
			  ]}]}]}`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := dictstore.ReadStreamConfig(strings.NewReader(c.input))
			require.Error(t, err)
		})
	}
}

func TestReadStreamConfigFileMissing(t *testing.T) {
	_, err := dictstore.ReadStreamConfigFile("/nonexistent/streams.json")
	require.Error(t, err)
}
