package copytable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wkalt/tlmdict/util"
)

/*
Rendering of compiled tables in the housekeeping copy table source format:
aligned columns for input message ID, input offset, output message ID, output
offset, and byte count, each row trailed by a comment naming the variables it
copies. File-level boilerplate (includes, table file definitions) is owned by
the callers that emit files.
*/

////////////////////////////////////////////////////////////////////////////////

// Initial minimum column widths, matching the legacy generator.
var minWidths = [5]int{10, 6, 10, 6, 5} // nolint:gochecknoglobals

func columns(e Entry) [5]string {
	return [5]string{
		e.InputID,
		strconv.Itoa(int(e.InputOffset)),
		e.OutputID,
		strconv.Itoa(int(e.OutputOffset)),
		strconv.Itoa(int(e.ByteCount)),
	}
}

// Render formats the table's entries as aligned C initializer rows.
func Render(t *Table) string {
	widths := minWidths
	for _, e := range t.Entries {
		for i, col := range columns(e) {
			if len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	header := fmt.Sprintf("/* %%-%ds| %%-%ds| %%-%ds| %%-%ds| %%-%ds */\n",
		widths[0]+1, widths[1]+1, widths[2]+1, widths[3]+1, widths[4]+1)
	body := fmt.Sprintf("  {%%-%ds, %%%ds, %%-%ds, %%%ds, %%%ds}%%s  /* %%s : %%s */\n",
		widths[0]+1, widths[1]+1, widths[2]+1, widths[3]+1, widths[4]+1)

	var sb strings.Builder
	fmt.Fprintf(&sb, header, "Input", "Input", "Output", "Output", "Num")
	fmt.Fprintf(&sb, header, "Message ID", "Offset", "Message ID", "Offset", "Bytes")
	for i, e := range t.Entries {
		comma := util.When(i == len(t.Entries)-1, " ", ",")
		cols := columns(e)
		fmt.Fprintf(&sb, body,
			cols[0], cols[1], cols[2], cols[3], cols[4],
			comma, e.Root, strings.Join(e.Variables, ", "))
	}
	return sb.String()
}
