// Package utils provides small helpers shared by the client packages.
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig defines the configuration for retry logic using backoff/v4
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryConfig returns a standard retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   4,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     4 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// NewExponentialBackOff creates a backoff.ExponentialBackOff from RetryConfig
func (rc RetryConfig) NewExponentialBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = rc.InitialDelay
	b.MaxInterval = rc.MaxDelay
	if rc.Multiplier > 0 {
		b.Multiplier = rc.Multiplier
	}
	if !rc.Jitter {
		b.RandomizationFactor = 0
	}
	// Attempts are bounded by MaxRetries and the context instead.
	b.MaxElapsedTime = 0
	return b
}

// ExecuteWithRetryContext runs operation until it succeeds, returns a
// permanent error, MaxRetries retries have been spent or ctx is done.
// notify, if non-nil, is called before every wait.
func ExecuteWithRetryContext(ctx context.Context, operation func() error, config RetryConfig, notify func(err error, next time.Duration)) error {
	var b backoff.BackOff = config.NewExponentialBackOff()
	if config.MaxRetries >= 0 {
		b = backoff.WithMaxRetries(b, uint64(config.MaxRetries))
	}
	b = backoff.WithContext(b, ctx)

	operationWithContext := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		return operation()
	}

	if err := backoff.RetryNotify(operationWithContext, b, notify); err != nil {
		return fmt.Errorf("operation failed after retries: %w", err)
	}
	return nil
}

// Permanent marks err so that ExecuteWithRetryContext stops immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
