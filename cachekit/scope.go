package cachekit

import (
	"context"
	"time"
)

// Scope wraps a Client and prefixes every key with prefix+":" (spec.md §4.1
// "Scoping"). Scopes compose: Scope(Scope(c, "a"), "b") behaves exactly like
// Scope(c, "a:b"), because the wrapper only ever prepends its own prefix to
// whatever key its caller already produced.
type Scope struct {
	inner  Client
	prefix string // already includes the trailing ':'
}

// NewScope builds a scoped view over inner. An empty name still yields a
// ":"-joined scope, matching spec.md's literal separator rule.
func NewScope(inner Client, name string) *Scope {
	return &Scope{inner: inner, prefix: name + ":"}
}

func (s *Scope) scopedKey(key string) string { return s.prefix + key }

func (s *Scope) Get(ctx context.Context, key string, typeTag any) (Value, error) {
	return s.inner.Get(ctx, s.scopedKey(key), typeTag)
}

func (s *Scope) GetAll(ctx context.Context, keys []string, typeTag any) (map[string]Value, error) {
	if keys == nil {
		return nil, ErrNilCollection
	}
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.scopedKey(k)
	}
	res, err := s.inner.GetAll(ctx, scoped, typeTag)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Value, len(keys))
	for i, k := range keys {
		out[k] = res[scoped[i]]
	}
	return out, nil
}

func (s *Scope) Set(ctx context.Context, key string, value any, ttl TTL) (bool, error) {
	return s.inner.Set(ctx, s.scopedKey(key), value, ttl)
}

func (s *Scope) Add(ctx context.Context, key string, value any, ttl TTL) (bool, error) {
	return s.inner.Add(ctx, s.scopedKey(key), value, ttl)
}

func (s *Scope) Replace(ctx context.Context, key string, value any, ttl TTL) (bool, error) {
	return s.inner.Replace(ctx, s.scopedKey(key), value, ttl)
}

func (s *Scope) ReplaceIfEqual(ctx context.Context, key string, expected, newValue any, ttl TTL) (bool, error) {
	return s.inner.ReplaceIfEqual(ctx, s.scopedKey(key), expected, newValue, ttl)
}

func (s *Scope) Remove(ctx context.Context, key string) (bool, error) {
	return s.inner.Remove(ctx, s.scopedKey(key))
}

func (s *Scope) RemoveIfEqual(ctx context.Context, key string, expected any) (bool, error) {
	return s.inner.RemoveIfEqual(ctx, s.scopedKey(key), expected)
}

// RemoveAll removes exactly the listed (scoped) keys, or - when keys is nil -
// every key within this scope, via RemoveByPrefix("").
func (s *Scope) RemoveAll(ctx context.Context, keys []string) (int, error) {
	if keys == nil {
		return s.RemoveByPrefix(ctx, "")
	}
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.scopedKey(k)
	}
	return s.inner.RemoveAll(ctx, scoped)
}

// RemoveByPrefix removes keys within this scope whose suffix starts with
// prefix, naturally constrained to the scope (spec.md invariant 4).
func (s *Scope) RemoveByPrefix(ctx context.Context, prefix string) (int, error) {
	return s.inner.RemoveByPrefix(ctx, s.prefix+prefix)
}

func (s *Scope) Increment(ctx context.Context, key string, amount int64, ttl TTL, hasTTL bool) (int64, error) {
	return s.inner.Increment(ctx, s.scopedKey(key), amount, ttl, hasTTL)
}

func (s *Scope) IncrementFloat(ctx context.Context, key string, amount float64, ttl TTL, hasTTL bool) (float64, error) {
	return s.inner.IncrementFloat(ctx, s.scopedKey(key), amount, ttl, hasTTL)
}

func (s *Scope) SetIfHigher(ctx context.Context, key string, amount int64, ttl TTL) (int64, error) {
	return s.inner.SetIfHigher(ctx, s.scopedKey(key), amount, ttl)
}

func (s *Scope) SetIfLower(ctx context.Context, key string, amount int64, ttl TTL) (int64, error) {
	return s.inner.SetIfLower(ctx, s.scopedKey(key), amount, ttl)
}

func (s *Scope) GetExpiration(ctx context.Context, key string) (time.Duration, bool, error) {
	return s.inner.GetExpiration(ctx, s.scopedKey(key))
}

func (s *Scope) GetAllExpiration(ctx context.Context, keys []string) (map[string]time.Duration, error) {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.scopedKey(k)
	}
	res, err := s.inner.GetAllExpiration(ctx, scoped)
	if err != nil {
		return nil, err
	}
	out := make(map[string]time.Duration, len(res))
	for i, k := range keys {
		if d, ok := res[scoped[i]]; ok {
			out[k] = d
		}
	}
	return out, nil
}

func (s *Scope) SetExpiration(ctx context.Context, key string, ttl TTL) (bool, error) {
	return s.inner.SetExpiration(ctx, s.scopedKey(key), ttl)
}

func (s *Scope) SetAllExpiration(ctx context.Context, expirations map[string]*TTL) error {
	scoped := make(map[string]*TTL, len(expirations))
	for k, v := range expirations {
		scoped[s.scopedKey(k)] = v
	}
	return s.inner.SetAllExpiration(ctx, scoped)
}

func (s *Scope) ListAdd(ctx context.Context, key string, items []any, ttl TTL) (int, error) {
	return s.inner.ListAdd(ctx, s.scopedKey(key), items, ttl)
}

func (s *Scope) ListRemove(ctx context.Context, key string, items []any, ttl TTL) (int, error) {
	return s.inner.ListRemove(ctx, s.scopedKey(key), items, ttl)
}

func (s *Scope) GetList(ctx context.Context, key string, page, pageSize int) ([]any, bool, error) {
	return s.inner.GetList(ctx, s.scopedKey(key), page, pageSize)
}

func (s *Scope) Close(ctx context.Context) error { return s.inner.Close(ctx) }

var _ Client = (*Scope)(nil)
