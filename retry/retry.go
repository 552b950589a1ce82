// Package retry wraps github.com/cenkalti/backoff/v5 into a plain
// error-returning Do, generalized from backoff.BackoffWrapper (which carried
// a bespoke operation/options/exec trio) into a single call callers thread a
// context and a func() error through.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Option configures a retry run.
type Option func(*config)

type config struct {
	initialInterval     time.Duration
	randomizationFactor float64
	multiplier          float64
	maxTries            uint
	notify              func(err error, wait time.Duration)
}

// WithInitialInterval sets the first retry delay (default 100ms).
func WithInitialInterval(d time.Duration) Option {
	return func(c *config) { c.initialInterval = d }
}

// WithMultiplier sets the exponential growth factor applied after each
// attempt (default 2.0).
func WithMultiplier(m float64) Option {
	return func(c *config) { c.multiplier = m }
}

// WithRandomizationFactor sets jitter as a fraction of the computed interval
// (default 0.5, matching backoff.NewExponentialBackOff's own default).
func WithRandomizationFactor(f float64) Option {
	return func(c *config) { c.randomizationFactor = f }
}

// WithMaxTries bounds the total attempt count, including the first
// (default 0, meaning unbounded — retry until ctx is cancelled).
func WithMaxTries(n uint) Option {
	return func(c *config) { c.maxTries = n }
}

// WithNotify is called once per failed attempt, before sleeping, with the
// error and the upcoming wait duration.
func WithNotify(fn func(err error, wait time.Duration)) Option {
	return func(c *config) { c.notify = fn }
}

// Do retries op until it returns a nil error, ctx is cancelled, or maxTries
// (if set) is exhausted. It returns the last error on exhaustion/cancellation.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	cfg := config{
		initialInterval:     100 * time.Millisecond,
		randomizationFactor: 0.5,
		multiplier:          2.0,
	}
	for _, o := range opts {
		o(&cfg)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = cfg.initialInterval
	eb.RandomizationFactor = cfg.randomizationFactor
	eb.Multiplier = cfg.multiplier

	retryOpts := []backoff.RetryOption{backoff.WithBackOff(eb)}
	if cfg.maxTries > 0 {
		retryOpts = append(retryOpts, backoff.WithMaxTries(cfg.maxTries))
	}
	if cfg.notify != nil {
		retryOpts = append(retryOpts, backoff.WithNotify(cfg.notify))
	}

	wrapped := func() (struct{}, error) {
		return struct{}{}, op()
	}

	_, err := backoff.Retry(ctx, wrapped, retryOpts...)
	return err
}
