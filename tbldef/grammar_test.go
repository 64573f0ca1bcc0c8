package tbldef_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/tlmdict/dict"
	"github.com/wkalt/tlmdict/tbldef"
)

func TestParseStructure(t *testing.T) {
	input := `
# housekeeping telemetry
struct hk_packet : telemetry "HK_TLM_MID" {
  uint16 count
  int16 temps[4]
  uint8 flags : 3
  uint8 mode : 5
}
`
	catalog, err := tbldef.Parse([]byte(input))
	require.NoError(t, err)
	def, ok := catalog.Structure("hk_packet")
	require.True(t, ok)
	require.Equal(t, dict.Telemetry, def.Kind)
	require.Equal(t, "HK_TLM_MID", def.MsgIDName)
	require.Equal(t, []dict.MemberSpec{
		{Name: "count", TypeName: "uint16"},
		{Name: "temps", TypeName: "int16", ArrayDim: 4},
		{Name: "flags", TypeName: "uint8", BitLength: 3},
		{Name: "mode", TypeName: "uint8", BitLength: 5},
	}, def.Members)
}

func TestParseUntaggedStructure(t *testing.T) {
	catalog, err := tbldef.Parse([]byte(`
struct point {
  double x
  double y
}
`))
	require.NoError(t, err)
	def, ok := catalog.Structure("point")
	require.True(t, ok)
	require.Equal(t, dict.Telemetry, def.Kind)
	require.Equal(t, "", def.MsgIDName)
}

func TestParseCommandStructure(t *testing.T) {
	catalog, err := tbldef.Parse([]byte(`
struct noop_cmd : command "NOOP_CC" {
  uint8 code
}
`))
	require.NoError(t, err)
	def, ok := catalog.Structure("noop_cmd")
	require.True(t, ok)
	require.Equal(t, dict.Command, def.Kind)
	require.Equal(t, "NOOP_CC", def.MsgIDName)
}

func TestParsePrimitiveDeclaration(t *testing.T) {
	catalog, err := tbldef.Parse([]byte(`
primitive uint24 3 unsigned

struct sample {
  uint24 reading
}
`))
	require.NoError(t, err)
	p, ok := catalog.Primitive("uint24")
	require.True(t, ok)
	require.Equal(t, dict.Primitive{Name: "uint24", Size: 3, Category: dict.UnsignedInt}, p)

	entries := catalog.Structures()
	require.Len(t, entries, 1)
}

func TestParseNestedStructures(t *testing.T) {
	catalog, err := tbldef.Parse([]byte(`
struct header {
  uint16 stream_id
  uint16 sequence
}

struct packet : telemetry "PKT_MID" {
  header hdr
  uint8 payload[8]
}
`))
	require.NoError(t, err)
	def, ok := catalog.Structure("packet")
	require.True(t, ok)
	require.Equal(t, "header", def.Members[0].TypeName)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"syntax error", "struct broken {"},
		{"unknown member type", "struct s { mystery m }"},
		{"unknown primitive category", "primitive weird 4 quantum"},
		{"zero primitive size", "primitive empty 0 unsigned"},
		{
			"structure cycle",
			"struct a { b inner }\nstruct b { a inner }",
		},
		{
			"duplicate definition",
			"struct s { uint8 x }\nstruct s { uint8 y }",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := tbldef.Parse([]byte(c.input))
			require.Error(t, err)
		})
	}
}
