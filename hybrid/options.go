package hybrid

import "time"

// Option configures a Hybrid at construction time.
type Option func(*Hybrid)

// WithOriginID overrides the default random origin stamp (grounded on
// redis/distributed.go's uuid.New().String() holder-value pattern). Mostly
// useful for deterministic tests.
func WithOriginID(id string) Option {
	return func(h *Hybrid) { h.originID = id }
}

// WithBusTag overrides the invalidation topic (default "hybrid:invalidate").
// Every Hybrid instance sharing a remote cache must agree on this tag.
func WithBusTag(tag string) Option {
	return func(h *Hybrid) { h.tag = tag }
}

// WithDefaultLocalTTL sets the bound applied when caching a remote hit
// locally and remote reports no expiry (spec.md §4.3 read path step 2).
func WithDefaultLocalTTL(d time.Duration) Option {
	return func(h *Hybrid) { h.defaultLocalTTL = d }
}
