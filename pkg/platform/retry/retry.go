// Package retry runs storage calls with bounded exponential backoff.
// Only errors marked transient are retried; everything else returns at once.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"kyccore/pkg/platform/sentinel"
)

// Policy bounds retries for one call.
type Policy struct {
	// Attempts is the maximum number of retries after the first try.
	Attempts int
	// Timeout caps each individual attempt.
	Timeout         time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy retries twice with a short backoff and a 3s per-call timeout.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:        2,
		Timeout:         3 * time.Second,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, sentinel.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

// Do runs fn until it succeeds, fails permanently, or attempts run out.
// Each attempt gets its own timeout derived from ctx.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	attempts := max(p.Attempts, 0)

	op := func() error {
		callCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}
		err := fn(callCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts)), ctx))
}
