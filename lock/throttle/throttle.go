// Package throttle implements the Throttling Lock (spec.md §4.5): a fixed-
// window counter-based rate limiter exposing the same lock.Provider
// interface as lock/cachelock, built on cachekit.Client.Increment instead of
// Add — acquiring never actually holds a resource, so Release is a no-op.
package throttle

import (
	"context"
	"fmt"
	"time"

	"infracore/cachekit"
	"infracore/clock"
	"infracore/errkind"
	"infracore/lock"
)

// Provider is a fixed-window rate limiter: at most maxHits successful
// acquires per window per lock name.
type Provider struct {
	client  cachekit.Client
	clk     clock.Clock
	maxHits int64
	window  time.Duration
}

// Option configures a Provider at construction time.
type Option func(*Provider)

// WithClock replaces the default wall-clock source.
func WithClock(clk clock.Clock) Option {
	return func(p *Provider) { p.clk = clk }
}

// New builds a Provider allowing at most maxHits acquires of a given name
// per window, counted via client's atomic Increment.
func New(client cachekit.Client, maxHits int64, window time.Duration, opts ...Option) *Provider {
	p := &Provider{client: client, clk: clock.New(), maxHits: maxHits, window: window}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// windowIndex buckets t into the current fixed window.
func (p *Provider) windowIndex(t time.Time) int64 { return t.UnixNano() / int64(p.window) }

func (p *Provider) bucketKey(name string, t time.Time) string {
	return fmt.Sprintf("%s:%d", name, p.windowIndex(t))
}

// windowBoundary returns the instant the window following idx begins.
func (p *Provider) windowBoundary(idx int64) time.Time {
	return time.Unix(0, (idx+1)*int64(p.window))
}

// Acquire implements spec.md §4.5's algorithm: increment the current
// window's bucket counter; succeed if the result is within maxHits,
// otherwise sleep until the next window boundary (clipped by
// acquireTimeout) and retry. timeUntilExpires is accepted to satisfy
// lock.Provider but unused: a throttle "lock" holds no resource, so there is
// nothing to lease.
func (p *Provider) Acquire(ctx context.Context, name string, _ time.Duration, acquireTimeout time.Duration) (lock.Handle, error) {
	deadline := p.clk.Now().Add(acquireTimeout)

	for {
		remaining := deadline.Sub(p.clk.Now())
		if remaining <= 0 {
			return nil, errkind.New(errkind.Timeout, "throttle: acquire timed out")
		}

		now := p.clk.Now()
		idx := p.windowIndex(now)
		count, err := p.client.Increment(ctx, p.bucketKey(name, now), 1, cachekit.TTL(p.window), true)
		if err != nil {
			return nil, err
		}
		if count <= p.maxHits {
			return &handle{name: name}, nil
		}

		wait := p.windowBoundary(idx).Sub(p.clk.Now())
		if wait > remaining {
			// Clipping to remaining (instead of the full window boundary)
			// means the next loop iteration's deadline check reports a
			// clean Timeout rather than retrying past acquireTimeout
			// (spec.md §8 scenario S8).
			wait = remaining
		}
		if wait <= 0 {
			continue
		}

		timer := p.clk.NewTimer(wait)
		select {
		case <-timer.C():
		case <-ctx.Done():
			timer.Stop()
			return nil, errkind.Wrap(errkind.Cancelled, ctx.Err(), "throttle: acquire cancelled")
		}
	}
}

// handle is the no-op lock.Handle a successful throttle Acquire returns.
type handle struct{ name string }

func (h *handle) Name() string { return h.name }

// Release is a no-op: a throttle acquire never held a resource to give back.
func (h *handle) Release(_ context.Context) error { return nil }

// Renew is a no-op for the same reason.
func (h *handle) Renew(_ context.Context, _ time.Duration) error { return nil }

var _ lock.Provider = (*Provider)(nil)
