package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wkalt/tlmdict/copytable"
)

var (
	copytableMessage  string
	copytableOptimize bool
)

var copytableCmd = &cobra.Command{
	Use:   "copytable [stream]",
	Short: "Compile and print copy tables for a data stream",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		handler := loadHandler(ctx)
		var tables []*copytable.Table
		if copytableMessage != "" {
			table, err := handler.CompileMessage(args[0], copytableMessage, copytableOptimize)
			checkErr(err)
			tables = []*copytable.Table{table}
		} else {
			var err error
			tables, err = handler.CompileStream(ctx, args[0], copytableOptimize)
			checkErr(err)
		}
		heading := color.New(color.FgGreen, color.Bold)
		for _, table := range tables {
			_, _ = heading.Printf("%s (%s = %s, header %d bytes, %d entries, %d bytes)\n",
				table.Message, table.IDName, table.ID, table.HeaderSize,
				len(table.Entries), table.TotalBytes())
			fmt.Print(copytable.Render(table))
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(copytableCmd)
	copytableCmd.PersistentFlags().StringVar(&copytableMessage, "message", "", "compile a single message")
	copytableCmd.PersistentFlags().BoolVar(&copytableOptimize, "optimize", true, "coalesce adjacent variables")
}
