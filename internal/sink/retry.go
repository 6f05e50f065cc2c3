package sink

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/examiner/internal/session"
)

// ErrPermanent marks a publish failure that retrying cannot fix.
var ErrPermanent = errors.New("permanent publish failure")

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig fits inside the few seconds the TUI waits for a
// publish.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 200 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2.0,
	}
}

// RetrySink is a decorator that retries transient errors with exponential
// backoff and jitter.
type RetrySink struct {
	inner  Sink
	config RetryConfig
}

// WithRetry wraps a Sink with retry logic.
func WithRetry(s Sink, cfg RetryConfig) *RetrySink {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetrySink{inner: s, config: cfg}
}

func (r *RetrySink) Publish(ctx context.Context, participant string, rec *session.Record) error {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		err := r.inner.Publish(ctx, participant, rec)
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return err
		}

		// Last attempt, return without sleeping.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}

	return lastErr
}

// shouldRetry treats everything except cancellation and permanent failures
// as transient.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !errors.Is(err, ErrPermanent)
}

// backoff computes the wait duration for the given attempt.
func (r *RetrySink) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
