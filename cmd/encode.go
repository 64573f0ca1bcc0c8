package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wkalt/tlmdict/itos"
)

var encodeMode string

var encodeCmd = &cobra.Command{
	Use:   "encode [type]",
	Short: "Print the ITOS encoding of a data type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		catalog := loadCatalog(ctx)
		mode, err := itos.ParseMode(encodeMode)
		checkErr(err)
		encoded, err := itos.EncodeTypeName(catalog, args[0], mode)
		checkErr(err)
		fmt.Println(encoded)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.PersistentFlags().StringVar(&encodeMode, "mode", "BIG_ENDIAN", "encoding mode")
}
