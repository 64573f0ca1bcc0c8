package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/wkalt/tlmdict/service"
)

var (
	servePort      int
	serveLogLevel  string
	serveOrigins   []string
	serveStreamCfg string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dictionary service",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if databasePath == "" {
			bailf("--db is required")
		}
		logLevel := slog.LevelInfo
		switch serveLogLevel {
		case "", "info":
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			bailf("invalid log level: %s", serveLogLevel)
		}
		svc := service.NewService()
		opts := []service.Option{
			service.WithDatabasePath(databasePath),
			service.WithPort(servePort),
			service.WithLogLevel(logLevel),
		}
		if serveStreamCfg != "" {
			opts = append(opts, service.WithStreamConfig(serveStreamCfg))
		}
		if len(serveOrigins) > 0 {
			opts = append(opts, service.WithAllowedOrigins(serveOrigins))
		}
		checkErr(svc.Start(ctx, opts...))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.PersistentFlags().IntVar(&servePort, "port", 8090, "port to listen on")
	serveCmd.PersistentFlags().StringVar(&serveLogLevel, "log-level", "info", "log level")
	serveCmd.PersistentFlags().StringSliceVar(&serveOrigins, "allowed-origins", nil, "CORS allowed origins")
	serveCmd.PersistentFlags().StringVar(&serveStreamCfg, "stream-config", "", "stream configuration JSON path")
}
