// Package retry wraps a single operation with bounded retry attempts and
// exponential backoff.
package retry

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// Config controls how many times an operation runs and how long the waits
// between attempts grow.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultConfig is the policy providers use for upstream calls.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  2.0,
	}
}

func (c Config) normalized() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 1.0
	}
	return c
}

// delay returns the wait after the given 1-based failed attempt.
func (c Config) delay(attempt int) time.Duration {
	return time.Duration(float64(c.BaseDelay) * math.Pow(c.Multiplier, float64(attempt-1)))
}

// Do runs op up to cfg.MaxAttempts times. The first attempt always runs.
// After a failure, shouldRetry decides whether another attempt is worth
// making; a non-retryable error propagates immediately. When attempts are
// exhausted the last error propagates unchanged. The backoff wait is
// context-aware: cancellation during a wait aborts with ctx.Err().
func Do[T any](ctx context.Context, cfg Config, shouldRetry func(error) bool, op func(context.Context) (T, error)) (T, error) {
	var zero T
	cfg = cfg.normalized()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if shouldRetry != nil && !shouldRetry(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := cfg.delay(attempt)
		slog.Debug("retrying after failure", "attempt", attempt, "wait", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
