// Package retry re-runs operations that lose an optimistic concurrency race.
package retry

import (
	"context"
	"errors"
	"fmt"
)

// OnConflict calls fn up to attempts times while it fails with an error
// matching conflict. Other errors and context cancellation stop immediately.
func OnConflict[T any](ctx context.Context, attempts int, conflict error, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, conflict) {
			return zero, err
		}
		lastErr = err
	}

	return zero, fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}

// Do is OnConflict for operations without a result.
func Do(ctx context.Context, attempts int, conflict error, fn func(ctx context.Context) error) error {
	_, err := OnConflict(ctx, attempts, conflict, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
