package service

import "log/slog"

// Option is a functional option for the dictionary service.
type Option func(*Options)

// Options contains options for the dictionary service.
type Options struct {
	DatabasePath   string
	StreamConfig   string
	Port           int
	LogLevel       slog.Level
	AllowedOrigins []string
}

// WithDatabasePath sets the project database path.
func WithDatabasePath(path string) Option {
	return func(opts *Options) {
		opts.DatabasePath = path
	}
}

// WithStreamConfig sets a JSON stream configuration file to load instead of
// the stream tables in the project database.
func WithStreamConfig(path string) Option {
	return func(opts *Options) {
		opts.StreamConfig = path
	}
}

// WithPort sets the port to listen on.
func WithPort(port int) Option {
	return func(opts *Options) {
		opts.Port = port
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level slog.Level) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithAllowedOrigins sets the CORS allowed origins.
func WithAllowedOrigins(origins []string) Option {
	return func(opts *Options) {
		opts.AllowedOrigins = origins
	}
}
