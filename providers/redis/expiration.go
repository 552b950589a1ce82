package redis

import (
	"context"
	"time"

	"infracore/cachekit"
)

func (c *Client) GetExpiration(ctx context.Context, key string) (time.Duration, bool, error) {
	var ttl time.Duration
	err := c.call(ctx, func() error {
		d, err := c.rdb.PTTL(ctx, c.key(key)).Result()
		ttl = d
		return err
	})
	if err != nil {
		return 0, false, err
	}
	// go-redis reports -2 (key absent) and -1 (no expiry) as the raw negative
	// durations -2ns and -1ns; both mean "nothing to report".
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}

func (c *Client) GetAllExpiration(ctx context.Context, keys []string) (map[string]time.Duration, error) {
	if keys == nil {
		return nil, cachekit.ErrNilCollection
	}
	if err := cachekit.ValidateKeys(keys); err != nil {
		return nil, err
	}
	out := make(map[string]time.Duration, len(keys))
	for _, k := range keys {
		d, ok, err := c.GetExpiration(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = d
		}
	}
	return out, nil
}

func (c *Client) SetExpiration(ctx context.Context, key string, ttl cachekit.TTL) (bool, error) {
	if ttl == cachekit.NoExpiry {
		var ok bool
		err := c.call(ctx, func() error {
			res, err := c.rdb.Persist(ctx, c.key(key)).Result()
			ok = res
			return err
		})
		return ok, err
	}
	if ttl.Expired() {
		return c.Remove(ctx, key)
	}
	var ok bool
	err := c.call(ctx, func() error {
		res, err := c.rdb.Expire(ctx, c.key(key), ttl.Duration()).Result()
		ok = res
		return err
	})
	return ok, err
}

func (c *Client) SetAllExpiration(ctx context.Context, expirations map[string]*cachekit.TTL) error {
	for k, ttl := range expirations {
		if ttl == nil {
			if _, err := c.SetExpiration(ctx, k, cachekit.NoExpiry); err != nil {
				return err
			}
			continue
		}
		if _, err := c.SetExpiration(ctx, k, *ttl); err != nil {
			return err
		}
	}
	return nil
}
