package copytable_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/tlmdict/copytable"
)

func TestRender(t *testing.T) {
	table := &copytable.Table{
		Message: "hk",
		IDName:  "HK_TLM_MID",
		Entries: []copytable.Entry{
			{
				InputID: "S_TLM_MID", InputOffset: 0, ByteCount: 4,
				OutputID: "HK_TLM_MID", OutputOffset: 12,
				Root: "s", Variables: []string{"a", "b"},
			},
			{
				InputID: "S_TLM_MID", InputOffset: 8, ByteCount: 1,
				OutputID: "HK_TLM_MID", OutputOffset: 16,
				Root: "s", Variables: []string{"c"},
			},
		},
	}
	out := copytable.Render(table)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	require.Contains(t, lines[0], "Input")
	require.Contains(t, lines[1], "Message ID")
	require.Contains(t, lines[2], "{S_TLM_MID")
	require.Contains(t, lines[2], "/* s : a, b */")
	require.Contains(t, lines[3], "/* s : c */")

	// Every row but the last carries a trailing comma after the brace.
	require.Contains(t, lines[2], "},")
	require.NotContains(t, lines[3], "},")

	// Columns align: both body rows put their closing brace at the same
	// position.
	require.Equal(t, strings.Index(lines[2], "},"), strings.Index(lines[3], "}"))
}

func TestRenderEmptyTable(t *testing.T) {
	out := copytable.Render(&copytable.Table{Message: "empty"})
	require.Equal(t, 2, strings.Count(out, "\n"))
}
