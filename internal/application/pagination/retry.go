package pagination

import (
	"context"
	"errors"
	"time"

	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// RetryPolicy retries transient upstream failures with linear backoff:
// the wait before attempt k+1 is k*Delay.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns 3 attempts spaced 1s, 2s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: time.Second}
}

// Do runs fn until it succeeds, fails with an AuthError, the context ends, or the
// attempts run out. Exhaustion is reported as an UpstreamError.
func (p RetryPolicy) Do(ctx context.Context, source string, onRetry func(attempt int, err error, wait time.Duration), fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var authErr *types.AuthError
		if errors.As(lastErr, &authErr) {
			return lastErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if attempt < attempts {
			wait := time.Duration(attempt) * p.Delay
			if onRetry != nil {
				onRetry(attempt, lastErr, wait)
			}
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}
	}

	return &types.UpstreamError{Source: source, Attempts: attempts, Err: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
