package memory

import (
	"context"
	"time"

	"infracore/cachekit"
)

func (c *Cache) GetExpiration(_ context.Context, key string) (time.Duration, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	e, ok := c.data[key]
	if !ok {
		return 0, false, nil
	}
	if e.expired(now) {
		delete(c.data, key)
		return 0, false, nil
	}
	if e.expiresAt.IsZero() {
		return 0, false, nil
	}
	return e.expiresAt.Sub(now), true, nil
}

func (c *Cache) GetAllExpiration(_ context.Context, keys []string) (map[string]time.Duration, error) {
	if keys == nil {
		return nil, cachekit.ErrNilCollection
	}
	if err := cachekit.ValidateKeys(keys); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	out := make(map[string]time.Duration, len(keys))
	for _, k := range keys {
		e, ok := c.data[k]
		if !ok {
			continue
		}
		if e.expired(now) {
			delete(c.data, k)
			continue
		}
		if e.expiresAt.IsZero() {
			continue
		}
		out[k] = e.expiresAt.Sub(now)
	}
	return out, nil
}

func (c *Cache) SetExpiration(_ context.Context, key string, ttl cachekit.TTL) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	e, ok := c.data[key]
	if !ok || e.expired(now) {
		delete(c.data, key)
		return false, nil
	}
	deadline, expired := computeExpiry(c.clk, ttl)
	if expired {
		delete(c.data, key)
		return true, nil
	}
	e.expiresAt = deadline
	return true, nil
}

func (c *Cache) SetAllExpiration(_ context.Context, expirations map[string]*cachekit.TTL) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	for key, ttl := range expirations {
		e, ok := c.data[key]
		if !ok || e.expired(now) {
			delete(c.data, key)
			continue
		}
		if ttl == nil {
			e.expiresAt = time.Time{}
			continue
		}
		deadline, expired := computeExpiry(c.clk, *ttl)
		if expired {
			delete(c.data, key)
			continue
		}
		e.expiresAt = deadline
	}
	return nil
}
