// Package retry wraps status queries with classified retries and exponential
// backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rescale/mcnotify/internal/status"
)

// ErrorType represents different classes of errors for retry strategy
type ErrorType int

const (
	// ErrorTypeSuccess indicates operation succeeded
	ErrorTypeSuccess ErrorType = iota
	// ErrorTypeNetwork indicates connection issues (refused, DNS, timeouts)
	ErrorTypeNetwork
	// ErrorTypeFatal indicates errors that will not go away by asking again
	// (malformed responses, cancellation)
	ErrorTypeFatal
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeSuccess:
		return "success"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Config holds retry parameters for Do
type Config struct {
	// MaxRetries is the number of extra attempts after the first failure.
	// Zero makes the first failure final.
	MaxRetries int
	// InitialDelay is the base delay for exponential backoff (default: 1s)
	InitialDelay time.Duration
	// MaxDelay is the maximum delay between retries (default: 30s)
	MaxDelay time.Duration
	// OnRetry is an optional callback invoked before each retry sleep
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// Classify determines the error type for retry strategy
func Classify(err error) ErrorType {
	switch {
	case err == nil:
		return ErrorTypeSuccess
	case errors.Is(err, context.Canceled):
		return ErrorTypeFatal
	case errors.Is(err, status.ErrConnection):
		return ErrorTypeNetwork
	default:
		return ErrorTypeFatal
	}
}

// Backoff returns exponential backoff duration with full jitter
//
// Formula: random(0, min(maxDelay, initialDelay * 2^attempt))
func Backoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	if attempt < 0 || initialDelay <= 0 {
		return 0
	}

	base := maxDelay
	if attempt < 31 {
		if exp := time.Duration(1<<uint(attempt)) * initialDelay; exp > 0 && exp < maxDelay {
			base = exp
		}
	}
	if base <= 0 {
		return 0
	}

	return time.Duration(rand.Int63n(int64(base)))
}

// Do runs op until it succeeds, fails with a non-network error, or runs out
// of retries. The context bounds both op and the sleeps between attempts.
func Do(ctx context.Context, config Config, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if Classify(err) != ErrorTypeNetwork {
			return err
		}
		if attempt == config.MaxRetries {
			break
		}

		delay := Backoff(attempt, config.InitialDelay, config.MaxDelay)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
			return fmt.Errorf("deadline too short for retry backoff: %w", err)
		}
		if config.OnRetry != nil {
			config.OnRetry(attempt+1, err, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("%w (last error: %v)", err, lastErr)
		}
	}

	if config.MaxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxRetries+1, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
