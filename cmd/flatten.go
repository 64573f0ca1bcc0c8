package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten [structure]",
	Short: "Print the flattened layout of a structure",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		handler := loadHandler(ctx)
		variables, err := handler.Variables(args[0])
		checkErr(err)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VARIABLE\tTYPE\tOFFSET\tSIZE\tBITS")
		for _, v := range variables {
			bits := ""
			if v.BitLength > 0 {
				bits = fmt.Sprintf("%d", v.BitLength)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", v.Name, v.Type, v.ByteOffset, v.ByteSize, bits)
		}
		checkErr(w.Flush())
	},
}

func init() {
	rootCmd.AddCommand(flattenCmd)
}
