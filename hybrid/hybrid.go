// Package hybrid composes a process-local cachekit.Client with a shared
// remote one over a bus.MessageBus invalidation channel (spec.md §4.3): reads
// prefer local, writes go to remote first and fan out an invalidation token
// so every other participating Hybrid drops its now-stale local copy.
package hybrid

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"infracore/bus"
	"infracore/cachekit"
)

// Hybrid is itself a cachekit.Client: callers use it exactly like any other
// provider and get local-tier speed with remote-tier sharing for free.
type Hybrid struct {
	local  cachekit.Client
	remote cachekit.Client
	bus    bus.MessageBus

	originID        string
	tag             string
	defaultLocalTTL time.Duration

	localHits       int64
	invalidateCalls int64

	cancel bus.CancelToken
}

// New wires local and remote together via messageBus. local is typically
// cachekit/memory's reference implementation; remote is any shared provider
// (e.g. providers/redis).
func New(local, remote cachekit.Client, messageBus bus.MessageBus, opts ...Option) (*Hybrid, error) {
	h := &Hybrid{
		local:           local,
		remote:          remote,
		bus:             messageBus,
		originID:        uuid.New().String(),
		tag:             "hybrid:invalidate",
		defaultLocalTTL: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}

	cancel, err := bus.Subscribe[Token](h.bus, h.tag, h.onInvalidation)
	if err != nil {
		return nil, err
	}
	h.cancel = cancel
	return h, nil
}

// Stats exposes the two counters spec.md §4.6 calls out for observability.
type Stats struct {
	LocalHits            int64
	InvalidateCacheCalls int64
}

func (h *Hybrid) Stats() Stats {
	return Stats{
		LocalHits:            atomic.LoadInt64(&h.localHits),
		InvalidateCacheCalls: atomic.LoadInt64(&h.invalidateCalls),
	}
}

// onInvalidation applies a peer's (or this instance's own, filtered out)
// mutation to the local tier.
func (h *Hybrid) onInvalidation(ctx context.Context, token Token) {
	if token.OriginID == h.originID {
		return
	}
	switch token.Kind {
	case invalidateKey:
		_, _ = h.local.Remove(ctx, token.Payload)
	case invalidatePrefix:
		_, _ = h.local.RemoveByPrefix(ctx, token.Payload)
	case invalidateAll:
		_, _ = h.local.RemoveAll(ctx, nil)
	}
	atomic.AddInt64(&h.invalidateCalls, 1)
}

func (h *Hybrid) publish(ctx context.Context, kind invalidationKind, payload string) {
	_ = h.bus.Publish(ctx, h.tag, Token{OriginID: h.originID, Kind: kind, Payload: payload}, 0)
}

// Get consults local first (spec.md §4.3 read path): present-or-null counts
// as a hit and short-circuits the remote round trip. On a local miss, remote
// is consulted and copied into local with its observed TTL, or the
// configured default when remote reports none.
func (h *Hybrid) Get(ctx context.Context, key string, typeTag any) (cachekit.Value, error) {
	lv, err := h.local.Get(ctx, key, typeTag)
	if err != nil {
		return cachekit.Value{}, err
	}
	if !lv.IsAbsent() {
		atomic.AddInt64(&h.localHits, 1)
		return lv, nil
	}

	rv, err := h.remote.Get(ctx, key, typeTag)
	if err != nil {
		return cachekit.Value{}, err
	}
	if rv.IsAbsent() {
		return rv, nil
	}

	ttl := cachekit.TTL(h.defaultLocalTTL)
	if d, ok, _ := h.remote.GetExpiration(ctx, key); ok {
		ttl = cachekit.TTL(d)
	}
	if raw, present := rv.Raw(); present {
		_, _ = h.local.Set(ctx, key, raw, ttl)
	} else if rv.IsNull() {
		_, _ = h.local.Set(ctx, key, nil, ttl)
	}
	return rv, nil
}

// GetAll reuses Get's read path per key; spec.md doesn't prescribe a
// different bulk strategy for the hybrid tier.
func (h *Hybrid) GetAll(ctx context.Context, keys []string, typeTag any) (map[string]cachekit.Value, error) {
	if keys == nil {
		return nil, cachekit.ErrNilCollection
	}
	out := make(map[string]cachekit.Value, len(keys))
	for _, k := range keys {
		v, err := h.Get(ctx, k, typeTag)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// Close cancels the invalidation subscription. local and remote are owned by
// the caller and outlive Close.
func (h *Hybrid) Close(_ context.Context) error {
	h.cancel.Cancel()
	return nil
}

var _ cachekit.Client = (*Hybrid)(nil)
