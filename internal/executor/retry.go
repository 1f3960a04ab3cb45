package executor

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type BackoffConfig struct {
	Initial    time.Duration `mapstructure:"initial"`
	Max        time.Duration `mapstructure:"max"`
	Multiplier float64       `mapstructure:"multiplier"`
	Jitter     float64       `mapstructure:"jitter"`
}

// RetryPolicy bounds the router retry loop. AttemptTimeout <= 0 leaves each
// attempt bounded only by the parent context.
type RetryPolicy struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	Backoff        BackoffConfig `mapstructure:"backoff"`
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		AttemptTimeout: 60 * time.Second,
		Backoff: BackoffConfig{
			Initial:    250 * time.Millisecond,
			Max:        2 * time.Second,
			Multiplier: 2,
			Jitter:     0.2,
		},
	}
}

func (p RetryPolicy) newBackOff() backoff.BackOff {
	if p.Backoff.Initial <= 0 {
		return &backoff.ZeroBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Backoff.Initial
	b.RandomizationFactor = p.Backoff.Jitter
	if p.Backoff.Multiplier >= 1 {
		b.Multiplier = p.Backoff.Multiplier
	}
	if p.Backoff.Max > 0 {
		b.MaxInterval = p.Backoff.Max
	}
	// attempts are counted by MaxAttempts, not elapsed time
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (p RetryPolicy) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.AttemptTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.AttemptTimeout)
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
