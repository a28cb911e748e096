package retry

import (
	"context"
	"fmt"
	"time"
)

type Config struct {
	MaxAttempts int
	Delay       time.Duration
	MaxDelay    time.Duration // cap for exponential growth, 0 = uncapped
	Backoff     bool          // exponential backoff
}

// WithRetry runs fn up to MaxAttempts times, sleeping between attempts.
// With Backoff the delay doubles each attempt, capped at MaxDelay.
func WithRetry(ctx context.Context, config Config, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := fn(); err != nil {
			lastErr = err

			if attempt == config.MaxAttempts {
				return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, err)
			}

			delay := config.Delay
			if config.Backoff {
				delay = config.Delay << (attempt - 1)
				if config.MaxDelay > 0 && delay > config.MaxDelay {
					delay = config.MaxDelay
				}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
		return nil
	}

	return lastErr
}
