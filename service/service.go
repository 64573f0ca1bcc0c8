package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wkalt/tlmdict/access"
	"github.com/wkalt/tlmdict/dictstore"
	"github.com/wkalt/tlmdict/links"
	"github.com/wkalt/tlmdict/routes"
	"github.com/wkalt/tlmdict/util/log"
)

/*
This file is the main entrypoint for dictionary service startup. The service
loads the dictionary once from the project database, builds an immutable
snapshot, and serves the read API over it. Dictionary edits happen out of
band; pick them up by restarting or re-execing the service, never by
mutating the snapshot a request might be reading.
*/

////////////////////////////////////////////////////////////////////////////////

// Service is the dictionary HTTP service.
type Service struct{}

// NewService creates a new dictionary service.
func NewService() *Service {
	return &Service{}
}

// Start loads the dictionary and runs the server until interrupted.
func (s *Service) Start(ctx context.Context, options ...Option) error {
	opts := readOpts(options...)
	slog.SetLogLoggerLevel(opts.LogLevel)
	log.Debugf(ctx, "Debug logging enabled")

	log.Infof(ctx, "Opening project database at %s", opts.DatabasePath)
	store, err := dictstore.Open(opts.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open project database: %w", err)
	}
	defer store.Close()

	catalog, err := store.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	var streams []links.Stream
	if opts.StreamConfig != "" {
		streams, err = dictstore.ReadStreamConfigFile(opts.StreamConfig)
	} else {
		streams, err = store.LoadStreams(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load streams: %w", err)
	}

	snap := access.NewSnapshot(catalog)
	handler, err := access.NewHandler(snap, streams)
	if err != nil {
		return fmt.Errorf("failed to build access handler: %w", err)
	}
	fp, err := snap.Fingerprint()
	if err != nil {
		return fmt.Errorf("failed to fingerprint layout: %w", err)
	}
	log.Infow(ctx, "Dictionary loaded",
		"structures", len(catalog.Structures()),
		"streams", len(streams),
		"fingerprint", fmt.Sprintf("%x", fp),
	)

	r := routes.MakeRoutes(handler, opts.AllowedOrigins)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigint := make(chan os.Signal, 1)
	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT)
	signal.Notify(sigterm, syscall.SIGTERM)

	startErr := make(chan error)
	go func() {
		log.Infow(ctx, "Starting server", "port", opts.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			startErr <- err
		}
	}()

	select {
	case <-sigint:
		log.Infof(ctx, "Received SIGINT")
	case <-sigterm:
		log.Infof(ctx, "Received SIGTERM")
	case err := <-startErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Infof(ctx, "Allowing 10 seconds for existing connections to close")
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	errs := make(chan error)
	success := make(chan bool)
	go func() {
		if err := srv.Shutdown(ctx); err != nil {
			errs <- err
		} else {
			log.Infof(ctx, "Server stopped")
			success <- true
		}
	}()

	select {
	case <-sigint:
		return errors.New("forceful shutdown on second interrupt")
	case err := <-errs:
		return fmt.Errorf("server shutdown failed: %w", err)
	case <-success:
		return nil
	}
}

func readOpts(opts ...Option) *Options {
	options := Options{
		DatabasePath: "tlmdict.db",
		Port:         8090,
		LogLevel:     slog.LevelInfo,
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:8080",
		},
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &options
}
