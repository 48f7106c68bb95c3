package routestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// MaxRetries is the default number of attempts for retryable fetches.
const MaxRetries = 3

// RetryableError indicates a transient backend failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	msg := e.Message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, msg)
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// RetryStore retries fetches that fail with a RetryableError.
type RetryStore struct {
	Store
	Attempts int
	Backoff  func(attempt int) time.Duration
	log      *slog.Logger
}

// WithRetry wraps s so Fetch makes up to attempts tries.
func WithRetry(s Store, attempts int, log *slog.Logger) *RetryStore {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryStore{Store: s, Attempts: attempts, Backoff: Backoff, log: log}
}

func (r *RetryStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	var lastErr error
	for attempt := range r.Attempts {
		data, lastErr = r.Store.Fetch(ctx, name)
		if lastErr == nil || !IsRetryable(lastErr) {
			return data, lastErr
		}
		if attempt == r.Attempts-1 {
			break
		}
		r.log.Warn("retryable fetch error", "name", name, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(r.Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("fetch %s: %d attempts: %w", name, r.Attempts, lastErr)
}
