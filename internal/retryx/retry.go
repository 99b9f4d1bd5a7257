// Package retryx provides a small retry policy used by the generation
// and transcription clients.
package retryx

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"intervue/internal/errors"
)

// Policy describes how an operation is retried. The zero value is not
// usable; construct one with NewPolicy and adjust fields as needed.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Exponential backoff schedule between attempts.
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64

	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries every error.
	Retryable func(error) bool

	// WaitFor, when set, can override the backoff wait for a given
	// error. Returning false falls back to the exponential schedule.
	// Used for model warmup responses that announce their own delay.
	WaitFor func(err error, attempt int) (time.Duration, bool)

	Logger *errors.Logger
}

// NewPolicy returns a policy with sensible defaults.
func NewPolicy(maxAttempts int, logger *errors.Logger) Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return Policy{
		MaxAttempts:     maxAttempts,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
		Logger:          logger,
	}
}

func (p Policy) newBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		bo.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}
	if p.Multiplier > 0 {
		bo.Multiplier = p.Multiplier
	}
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// Do runs fn until it succeeds, the error is not retryable, the
// context is cancelled, or attempts run out.
func (p Policy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoValue is like Do for operations that return a value.
func DoValue[T any](ctx context.Context, p Policy, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	bo := p.newBackOff()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if p.Logger != nil {
				p.Logger.Warn("Retrying operation",
					"operation", operation,
					"attempt", attempt,
					"max_attempts", maxAttempts,
					"error", lastErr.Error())
			}

			wait, ok := p.waitDuration(lastErr, attempt-1)
			if !ok {
				wait = bo.NextBackOff()
			}

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 1 && p.Logger != nil {
				p.Logger.Info("Operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt)
			}
			return result, nil
		}

		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			if p.Logger != nil {
				p.Logger.Debug("Error is not retryable, stopping retry attempts",
					"operation", operation,
					"error", err.Error())
			}
			return zero, err
		}
	}

	if p.Logger != nil {
		p.Logger.LogError(lastErr, "Operation failed after all retry attempts",
			"operation", operation,
			"total_attempts", maxAttempts)
	}

	return zero, fmt.Errorf("operation '%s' failed after %d attempts: %w", operation, maxAttempts, lastErr)
}

func (p Policy) waitDuration(err error, attempt int) (time.Duration, bool) {
	if p.WaitFor == nil {
		return 0, false
	}
	return p.WaitFor(err, attempt)
}
