package redis

import (
	"context"
	"encoding/base64"
	"sort"
	"strconv"
	"time"

	"infracore/cachekit"
)

// Lists are unordered multisets with per-item expiry (spec.md's list_add
// contract), which doesn't map onto a redis List (ordered, no per-member
// TTL) or Set (no per-member metadata at all). A Hash does: field is the
// base64 of the item's encoded bytes (Hash fields must be strings), value is
// the item's absolute expiry as a Unix-nanosecond string, "0" meaning none.
func (c *Client) listKey(key string) string { return c.key(key) + ":list" }

func (c *Client) ListAdd(ctx context.Context, key string, items []any, ttl cachekit.TTL) (int, error) {
	if key == "" {
		return 0, cachekit.ErrInvalidKey
	}
	if len(items) == 0 {
		return 0, nil
	}

	d, expired := redisExpiry(ttl)
	var expiresAt int64
	if !expired && d > 0 {
		expiresAt = time.Now().Add(d).UnixNano()
	}

	seen := make(map[string]struct{}, len(items))
	fields := make(map[string]any)
	for _, it := range items {
		if it == nil || expired {
			continue
		}
		enc, err := c.encodeValue(it)
		if err != nil {
			return 0, err
		}
		f := base64.StdEncoding.EncodeToString(enc)
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		fields[f] = strconv.FormatInt(expiresAt, 10)
	}
	if len(fields) == 0 {
		return 0, nil
	}

	var added int64
	err := c.call(ctx, func() error {
		n, err := c.rdb.HSet(ctx, c.listKey(key), fields).Result()
		added = n
		return err
	})
	return int(added), err
}

func (c *Client) ListRemove(ctx context.Context, key string, items []any, _ cachekit.TTL) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	fields := make([]string, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		enc, err := c.encodeValue(it)
		if err != nil {
			return 0, err
		}
		fields = append(fields, base64.StdEncoding.EncodeToString(enc))
	}
	if len(fields) == 0 {
		return 0, nil
	}

	var removed int64
	err := c.call(ctx, func() error {
		n, err := c.rdb.HDel(ctx, c.listKey(key), fields...).Result()
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}
	c.reapListIfEmpty(ctx, key)
	return int(removed), nil
}

func (c *Client) GetList(ctx context.Context, key string, page, pageSize int) ([]any, bool, error) {
	var all map[string]string
	err := c.call(ctx, func() error {
		m, err := c.rdb.HGetAll(ctx, c.listKey(key)).Result()
		all = m
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if len(all) == 0 {
		return nil, false, nil
	}

	now := time.Now().UnixNano()
	var expired []string
	fields := make([]string, 0, len(all))
	for f, expiresAtStr := range all {
		expiresAt, _ := strconv.ParseInt(expiresAtStr, 10, 64)
		if expiresAt != 0 && expiresAt <= now {
			expired = append(expired, f)
			continue
		}
		fields = append(fields, f)
	}
	if len(expired) > 0 {
		_ = c.rdb.HDel(ctx, c.listKey(key), expired...).Err()
	}
	if len(fields) == 0 {
		_ = c.rdb.Del(ctx, c.listKey(key)).Err()
		return nil, false, nil
	}
	sort.Strings(fields)

	items := make([]any, 0, len(fields))
	for _, f := range fields {
		enc, err := base64.StdEncoding.DecodeString(f)
		if err != nil {
			continue
		}
		v, err := c.decodeValue(enc, new(any))
		if err != nil {
			return nil, false, err
		}
		raw, _ := v.Raw()
		items = append(items, raw)
	}

	if page <= 0 || pageSize <= 0 {
		return items, true, nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []any{}, true, nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], true, nil
}

func (c *Client) reapListIfEmpty(ctx context.Context, key string) {
	n, err := c.rdb.HLen(ctx, c.listKey(key)).Result()
	if err == nil && n == 0 {
		_ = c.rdb.Del(ctx, c.listKey(key)).Err()
	}
}
