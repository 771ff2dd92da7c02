package settings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JaimeStill/docket/internal/confidence"
)

// Source reads the global settings record.
type Source interface {
	Find(ctx context.Context) (*Settings, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) (*Settings, error)

func (f SourceFunc) Find(ctx context.Context) (*Settings, error) {
	return f(ctx)
}

// Resolve returns the configured confidence threshold as a percentage.
//
// Any failure to produce a usable value (no source, missing record, store
// error, absent or out-of-range threshold) resolves to
// confidence.DefaultThreshold. Resolve never returns an error and reads the
// source exactly once per call.
func Resolve(ctx context.Context, src Source, logger *slog.Logger) (threshold float64) {
	if logger == nil {
		logger = slog.Default()
	}

	threshold = confidence.DefaultThreshold

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("threshold source panicked; using default", "panic", r, "threshold", confidence.DefaultThreshold)
			threshold = confidence.DefaultThreshold
		}
	}()

	if src == nil {
		return threshold
	}

	s, err := src.Find(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.Debug("settings record missing; using default threshold", "threshold", threshold)
		return threshold
	case err != nil:
		logger.Warn("threshold lookup failed; using default", "error", err, "threshold", threshold)
		return threshold
	case s == nil || s.ConfidenceThreshold == nil:
		logger.Debug("confidence threshold unset; using default", "threshold", threshold)
		return threshold
	}

	v := *s.ConfidenceThreshold
	if !confidence.ValidThreshold(v) {
		logger.Warn("stored confidence threshold out of range; using default", "value", v, "threshold", threshold)
		return threshold
	}

	return v
}
