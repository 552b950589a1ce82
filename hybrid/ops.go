package hybrid

import (
	"context"
	"time"

	"infracore/cachekit"
)

// Add is deliberately remote-only: spec.md §4.3's write-path list (set,
// replace, replace_if_equal, remove, remove_if_equal, remove_all,
// remove_by_prefix, increment, set_if_higher/lower, list ops) omits add. Add
// backs the Cache Lock Provider's acquire primitive, which must observe a
// single shared cache, not a locally-optimistic copy — so it is never mixed
// into the local tier or invalidation fanout here.
func (h *Hybrid) Add(ctx context.Context, key string, value any, ttl cachekit.TTL) (bool, error) {
	return h.remote.Add(ctx, key, value, ttl)
}

func (h *Hybrid) Set(ctx context.Context, key string, value any, ttl cachekit.TTL) (bool, error) {
	ok, err := h.remote.Set(ctx, key, value, ttl)
	if err != nil {
		return false, err
	}
	if ok {
		_, _ = h.local.Set(ctx, key, value, ttl)
	} else {
		_, _ = h.local.Remove(ctx, key)
	}
	h.publish(ctx, invalidateKey, key)
	return ok, nil
}

func (h *Hybrid) Replace(ctx context.Context, key string, value any, ttl cachekit.TTL) (bool, error) {
	ok, err := h.remote.Replace(ctx, key, value, ttl)
	if err != nil {
		return false, err
	}
	if ok {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return ok, nil
}

func (h *Hybrid) ReplaceIfEqual(ctx context.Context, key string, expected, newValue any, ttl cachekit.TTL) (bool, error) {
	ok, err := h.remote.ReplaceIfEqual(ctx, key, expected, newValue, ttl)
	if err != nil {
		return false, err
	}
	if ok {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return ok, nil
}

func (h *Hybrid) Remove(ctx context.Context, key string) (bool, error) {
	ok, err := h.remote.Remove(ctx, key)
	if err != nil {
		return false, err
	}
	if ok {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return ok, nil
}

func (h *Hybrid) RemoveIfEqual(ctx context.Context, key string, expected any) (bool, error) {
	ok, err := h.remote.RemoveIfEqual(ctx, key, expected)
	if err != nil {
		return false, err
	}
	if ok {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return ok, nil
}

func (h *Hybrid) RemoveAll(ctx context.Context, keys []string) (int, error) {
	n, err := h.remote.RemoveAll(ctx, keys)
	if err != nil {
		return 0, err
	}
	if keys == nil {
		_, _ = h.local.RemoveAll(ctx, nil)
		h.publish(ctx, invalidateAll, "")
	} else if n > 0 {
		_, _ = h.local.RemoveAll(ctx, keys)
		h.publish(ctx, invalidateAll, "")
	}
	return n, nil
}

func (h *Hybrid) RemoveByPrefix(ctx context.Context, prefix string) (int, error) {
	n, err := h.remote.RemoveByPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		_, _ = h.local.RemoveByPrefix(ctx, prefix)
		h.publish(ctx, invalidatePrefix, prefix)
	}
	return n, nil
}

func (h *Hybrid) Increment(ctx context.Context, key string, amount int64, ttl cachekit.TTL, hasTTL bool) (int64, error) {
	n, err := h.remote.Increment(ctx, key, amount, ttl, hasTTL)
	if err != nil {
		return 0, err
	}
	_, _ = h.local.Remove(ctx, key)
	h.publish(ctx, invalidateKey, key)
	return n, nil
}

func (h *Hybrid) IncrementFloat(ctx context.Context, key string, amount float64, ttl cachekit.TTL, hasTTL bool) (float64, error) {
	n, err := h.remote.IncrementFloat(ctx, key, amount, ttl, hasTTL)
	if err != nil {
		return 0, err
	}
	_, _ = h.local.Remove(ctx, key)
	h.publish(ctx, invalidateKey, key)
	return n, nil
}

func (h *Hybrid) SetIfHigher(ctx context.Context, key string, amount int64, ttl cachekit.TTL) (int64, error) {
	diff, err := h.remote.SetIfHigher(ctx, key, amount, ttl)
	if err != nil {
		return 0, err
	}
	if diff != 0 {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return diff, nil
}

func (h *Hybrid) SetIfLower(ctx context.Context, key string, amount int64, ttl cachekit.TTL) (int64, error) {
	diff, err := h.remote.SetIfLower(ctx, key, amount, ttl)
	if err != nil {
		return 0, err
	}
	if diff != 0 {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return diff, nil
}

func (h *Hybrid) GetExpiration(ctx context.Context, key string) (time.Duration, bool, error) {
	return h.remote.GetExpiration(ctx, key)
}

func (h *Hybrid) GetAllExpiration(ctx context.Context, keys []string) (map[string]time.Duration, error) {
	return h.remote.GetAllExpiration(ctx, keys)
}

func (h *Hybrid) SetExpiration(ctx context.Context, key string, ttl cachekit.TTL) (bool, error) {
	ok, err := h.remote.SetExpiration(ctx, key, ttl)
	if err != nil {
		return false, err
	}
	if ok {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return ok, nil
}

func (h *Hybrid) SetAllExpiration(ctx context.Context, expirations map[string]*cachekit.TTL) error {
	if err := h.remote.SetAllExpiration(ctx, expirations); err != nil {
		return err
	}
	for key := range expirations {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return nil
}

func (h *Hybrid) ListAdd(ctx context.Context, key string, items []any, ttl cachekit.TTL) (int, error) {
	n, err := h.remote.ListAdd(ctx, key, items, ttl)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return n, nil
}

func (h *Hybrid) ListRemove(ctx context.Context, key string, items []any, ttl cachekit.TTL) (int, error) {
	n, err := h.remote.ListRemove(ctx, key, items, ttl)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		_, _ = h.local.Remove(ctx, key)
		h.publish(ctx, invalidateKey, key)
	}
	return n, nil
}

// GetList always reads through to remote: the local tier only ever caches
// scalar Get results (spec.md §4.3 describes the read path in terms of
// get(key), not list paging).
func (h *Hybrid) GetList(ctx context.Context, key string, page, pageSize int) ([]any, bool, error) {
	return h.remote.GetList(ctx, key, page, pageSize)
}

var _ cachekit.Client = (*Hybrid)(nil)
