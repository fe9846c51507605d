package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

// loggerKey is the context key for the logger.
const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}

	return Default()
}

// WithTable adds table context to the logger.
func WithTable(ctx context.Context, tableID string) context.Context {
	logger := FromContext(ctx)
	newLogger := logger.With().Str("table", tableID).Logger()
	return WithLogger(ctx, &newLogger)
}

// WithDataset adds dataset context to the logger.
func WithDataset(ctx context.Context, dataset string) context.Context {
	logger := FromContext(ctx)
	newLogger := logger.With().Str("dataset", dataset).Logger()
	return WithLogger(ctx, &newLogger)
}
