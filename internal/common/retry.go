package common

import (
	"context"
	"time"
)

// maxRetryDelay caps the doubling backoff.
const maxRetryDelay = 30 * time.Second

// Retry calls fn up to attempts+1 times, sleeping base, 2*base, 4*base... between
// failures. It stops early when ctx is done or when fn returns nil.
func Retry(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 0 {
		attempts = 0
	}
	delay := base
	var err error
	for i := 0; i <= attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
	return err
}
