package memory

import (
	"time"

	"infracore/clock"
)

// Option configures a Cache at construction time, following the teacher's
// functional-options pattern (compare codec.Option).
type Option func(*Cache)

// WithClock replaces the default wall-clock source; cachekit/memory's own
// tests run entirely against a clock.TestClock to fast-forward TTLs without
// sleeping.
func WithClock(clk clock.Clock) Option {
	return func(c *Cache) { c.clk = clk }
}

// WithJanitorInterval enables active expiration: a background goroutine
// sweeps expired scalar entries and list items every interval, in addition to
// the lazy expiration every read already performs. interval<=0 leaves active
// expiration disabled (the default).
func WithJanitorInterval(interval time.Duration) Option {
	return func(c *Cache) { c.janitorInterval = interval }
}
