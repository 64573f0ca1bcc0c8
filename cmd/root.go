package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wkalt/tlmdict/access"
	"github.com/wkalt/tlmdict/dict"
	"github.com/wkalt/tlmdict/dictstore"
	"github.com/wkalt/tlmdict/links"
	"github.com/wkalt/tlmdict/tbldef"
)

var (
	databasePath string
	defsPath     string
	streamsPath  string
)

var rootCmd = &cobra.Command{
	Use:   "tlmdict",
	Short: "telemetry dictionary layout and copy table tools",
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "project database path")
	rootCmd.PersistentFlags().StringVar(&defsPath, "defs", "", "table definition file path")
	rootCmd.PersistentFlags().StringVar(&streamsPath, "streams", "", "stream configuration JSON path")
}

func bailf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func checkErr(err error) {
	if err != nil {
		bailf("error: %v", err)
	}
}

// loadCatalog reads the catalog from whichever source was supplied: a table
// definition file or a project database.
func loadCatalog(ctx context.Context) *dict.Catalog {
	switch {
	case defsPath != "":
		data, err := os.ReadFile(defsPath)
		checkErr(err)
		catalog, err := tbldef.Parse(data)
		checkErr(err)
		return catalog
	case databasePath != "":
		store, err := dictstore.Open(databasePath)
		checkErr(err)
		defer store.Close()
		catalog, err := store.LoadCatalog(ctx)
		checkErr(err)
		return catalog
	default:
		bailf("one of --defs or --db is required")
		return nil
	}
}

// loadHandler builds an access handler from the supplied catalog and stream
// sources.
func loadHandler(ctx context.Context) *access.Handler {
	catalog := loadCatalog(ctx)
	var streams []links.Stream
	switch {
	case streamsPath != "":
		var err error
		streams, err = dictstore.ReadStreamConfigFile(streamsPath)
		checkErr(err)
	case databasePath != "":
		store, err := dictstore.Open(databasePath)
		checkErr(err)
		defer store.Close()
		streams, err = store.LoadStreams(ctx)
		checkErr(err)
	}
	handler, err := access.NewHandler(access.NewSnapshot(catalog), streams)
	checkErr(err)
	return handler
}
