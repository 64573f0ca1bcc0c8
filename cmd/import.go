package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/wkalt/tlmdict/dict"
	"github.com/wkalt/tlmdict/dictstore"
	"github.com/wkalt/tlmdict/tbldef"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import table definitions and stream configuration into a project database",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if databasePath == "" || defsPath == "" {
			bailf("--db and --defs are required")
		}
		data, err := os.ReadFile(defsPath)
		checkErr(err)
		catalog, err := tbldef.Parse(data)
		checkErr(err)
		store, err := dictstore.Open(databasePath)
		checkErr(err)
		defer store.Close()
		defaults := make(map[string]bool)
		for _, p := range dict.DefaultPrimitives() {
			defaults[p.Name] = true
		}
		for _, p := range catalog.Primitives() {
			if !defaults[p.Name] {
				checkErr(store.PutPrimitive(ctx, p))
			}
		}
		for i, name := range catalog.Structures() {
			def, _ := catalog.Structure(name)
			checkErr(store.PutStructure(ctx, i, def))
		}
		if streamsPath != "" {
			streams, err := dictstore.ReadStreamConfigFile(streamsPath)
			checkErr(err)
			for _, stream := range streams {
				checkErr(store.PutStream(ctx, stream))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
