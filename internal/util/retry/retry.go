package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned (wrapped) when all attempts failed with retryable errors.
var ErrExhausted = errors.New("attempts exhausted")

// Config holds retry configuration.
type Config struct {
	MaxAttempts int
	Interval    time.Duration
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// Do executes the operation until it returns nil, returns a fatal error,
// the context is done, or MaxAttempts have been made. The interval is slept
// between attempts, never after the last one.
//
// The operation receives the zero-based attempt number.
func Do(ctx context.Context, operation func(attempt int) error, opts ...Option) error {
	cfg := &Config{
		MaxAttempts: 15,
		Interval:    2 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := operation(attempt)
		if err == nil {
			return nil
		}

		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if attempt < cfg.MaxAttempts-1 {
			timer := time.NewTimer(cfg.Interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, ctx.Err())
			case <-timer.C:
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, cfg.MaxAttempts, lastErr)
}

// WithMaxAttempts sets the total number of attempts, including the first one.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithInterval sets the delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// AttemptsFor returns how many attempts of the given interval fit into budget.
// At least one attempt is always made.
func AttemptsFor(budget, interval time.Duration) int {
	if interval <= 0 {
		return 1
	}
	n := int(budget / interval)
	if n < 1 {
		return 1
	}
	return n
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
