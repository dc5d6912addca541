// Package fallback evaluates an ordered list of data providers until one
// yields a usable result. It backs every feature that degrades from a live
// backend to static data, and it never propagates a provider failure to the
// caller.
package fallback

import (
	"context"
	"log/slog"
)

// Provider produces one tier of results. A nil/empty slice counts as a
// miss even when err is nil.
type Provider[T any] func(ctx context.Context) ([]T, error)

// Named pairs a provider with a label for degrade logging.
type Named[T any] struct {
	Name    string
	Provide Provider[T]
}

// Resolve tries providers in order and returns the first successful,
// non-empty result. When every tier misses it returns an empty slice; the
// terminal tier is expected to be local static data that cannot fail.
func Resolve[T any](ctx context.Context, providers ...Named[T]) []T {
	for _, p := range providers {
		if ctx.Err() != nil {
			break
		}
		items, err := p.Provide(ctx)
		if err != nil {
			slog.Debug("fallback provider failed", "provider", p.Name, "error", err)
			continue
		}
		if len(items) == 0 {
			slog.Debug("fallback provider empty", "provider", p.Name)
			continue
		}
		return items
	}
	return []T{}
}
