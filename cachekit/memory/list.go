package memory

import (
	"context"

	"infracore/cachekit"
	"infracore/errkind"
)

// ListAdd inserts items into key's multiset, each carrying its own expiry
// (spec.md §4.1). A value already present and unexpired is left untouched; a
// stale (expired) duplicate is refreshed. Nils are skipped. A ttl that is
// already expired adds nothing and returns 0, leaving any existing list
// untouched (unlike Set, which removes the key in that case).
func (c *Cache) ListAdd(_ context.Context, key string, items []any, ttl cachekit.TTL) (int, error) {
	if key == "" {
		return 0, cachekit.ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	deadline, expired := computeExpiry(c.clk, ttl)
	if expired {
		return 0, nil
	}

	e, ok := c.data[key]
	if !ok || (e.expired(now) && !e.isList) {
		e = &entry{isList: true, listIndex: make(map[any]int)}
		c.data[key] = e
	}
	if !e.isList {
		return 0, errkind.New(errkind.TypeMismatch, "cachekit/memory: key holds a scalar, not a list")
	}
	if e.listIndex == nil {
		e.listIndex = make(map[any]int)
	}

	added := 0
	for _, v := range items {
		if v == nil {
			continue
		}
		if idx, exists := e.listIndex[v]; exists {
			if e.list[idx].expired(now) {
				e.list[idx].expiresAt = deadline
			}
			continue
		}
		e.listIndex[v] = len(e.list)
		e.list = append(e.list, &listItem{value: v, expiresAt: deadline})
		added++
	}
	return added, nil
}

// ListRemove removes members from key's multiset. ttl is accepted but
// ignored, per cachekit.Client's documented Open Question (a).
func (c *Cache) ListRemove(_ context.Context, key string, items []any, _ cachekit.TTL) (int, error) {
	if key == "" {
		return 0, cachekit.ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok || !e.isList {
		return 0, nil
	}

	removed := 0
	for _, v := range items {
		if v == nil {
			continue
		}
		idx, exists := e.listIndex[v]
		if !exists {
			continue
		}
		e.list = append(e.list[:idx], e.list[idx+1:]...)
		delete(e.listIndex, v)
		for i := idx; i < len(e.list); i++ {
			e.listIndex[e.list[i].value] = i
		}
		removed++
	}
	return removed, nil
}

// GetList returns the current, live members of key's multiset, optionally
// 1-based paged (pageSize<=0 returns the whole list). A list that is absent,
// or fully expired by the time of the read, is reaped and reported as absent.
func (c *Cache) GetList(_ context.Context, key string, page, pageSize int) ([]any, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	e, ok := c.data[key]
	if !ok || !e.isList {
		return nil, false, nil
	}
	if !reapList(e, now) {
		delete(c.data, key)
		return nil, false, nil
	}

	values := make([]any, len(e.list))
	for i, li := range e.list {
		values[i] = li.value
	}

	if pageSize <= 0 {
		return values, true, nil
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(values) {
		return []any{}, true, nil
	}
	end := start + pageSize
	if end > len(values) {
		end = len(values)
	}
	return values[start:end], true, nil
}
