package memory

import (
	"context"
	"time"

	"infracore/cachekit"
	"infracore/errkind"
)

// Increment implements the hasTTL quirk documented on cachekit.Client: when
// hasTTL is false the call never touches an existing key's expiry (it only
// supplies one when the key is being created), matching spec.md §4.1's "none
// preserves existing expiry" rule.
func (c *Cache) Increment(_ context.Context, key string, amount int64, ttl cachekit.TTL, hasTTL bool) (int64, error) {
	if key == "" {
		return 0, cachekit.ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	e, ok := c.data[key]
	if !ok || e.expired(now) {
		var deadline time.Time
		var expired bool
		if hasTTL {
			deadline, expired = computeExpiry(c.clk, ttl)
		}
		if expired {
			delete(c.data, key)
			return 0, nil
		}
		c.data[key] = newScalarEntry(amount, deadline)
		return amount, nil
	}

	cur, ok2 := e.value.(int64)
	if !ok2 {
		return 0, errkind.Newf(errkind.TypeMismatch, "cachekit/memory: key %q holds %T, not an int64 counter", key, e.value)
	}
	next := cur + amount
	if hasTTL {
		deadline, expired := computeExpiry(c.clk, ttl)
		if expired {
			delete(c.data, key)
			return 0, nil
		}
		e.value = next
		e.expiresAt = deadline
		return next, nil
	}
	e.value = next
	return next, nil
}

// IncrementFloat is Increment's float64-counter analogue.
func (c *Cache) IncrementFloat(_ context.Context, key string, amount float64, ttl cachekit.TTL, hasTTL bool) (float64, error) {
	if key == "" {
		return 0, cachekit.ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	e, ok := c.data[key]
	if !ok || e.expired(now) {
		var d time.Time
		var expired bool
		if hasTTL {
			d, expired = computeExpiry(c.clk, ttl)
		}
		if expired {
			delete(c.data, key)
			return 0, nil
		}
		c.data[key] = newScalarEntry(amount, d)
		return amount, nil
	}

	cur, ok2 := e.value.(float64)
	if !ok2 {
		return 0, errkind.Newf(errkind.TypeMismatch, "cachekit/memory: key %q holds %T, not a float64 counter", key, e.value)
	}
	next := cur + amount
	if hasTTL {
		deadline, expired := computeExpiry(c.clk, ttl)
		if expired {
			delete(c.data, key)
			return 0, nil
		}
		e.value = next
		e.expiresAt = deadline
		return next, nil
	}
	e.value = next
	return next, nil
}

// SetIfHigher applies amount only if it strictly exceeds the current value,
// returning the applied difference; see cachekit.Client's doc comment for the
// 0/-1 overloading this preserves (spec.md §9 Open Question (b)).
func (c *Cache) SetIfHigher(_ context.Context, key string, amount int64, ttl cachekit.TTL) (int64, error) {
	return c.setIfCmp(key, amount, ttl, func(cur, amount int64) bool { return amount > cur })
}

// SetIfLower is SetIfHigher's inverse.
func (c *Cache) SetIfLower(_ context.Context, key string, amount int64, ttl cachekit.TTL) (int64, error) {
	return c.setIfCmp(key, amount, ttl, func(cur, amount int64) bool { return amount < cur })
}

func (c *Cache) setIfCmp(key string, amount int64, ttl cachekit.TTL, beats func(cur, amount int64) bool) (int64, error) {
	if key == "" {
		return 0, cachekit.ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	deadline, expired := computeExpiry(c.clk, ttl)
	if expired {
		delete(c.data, key)
		return -1, nil
	}

	e, ok := c.data[key]
	if !ok || e.expired(now) {
		c.data[key] = newScalarEntry(amount, deadline)
		return amount, nil
	}

	cur, ok2 := e.value.(int64)
	if !ok2 {
		return 0, errkind.Newf(errkind.TypeMismatch, "cachekit/memory: key %q holds %T, not an int64 counter", key, e.value)
	}
	if !beats(cur, amount) {
		return 0, nil
	}
	diff := amount - cur
	if diff < 0 {
		diff = -diff
	}
	e.value = amount
	e.expiresAt = deadline
	return diff, nil
}
