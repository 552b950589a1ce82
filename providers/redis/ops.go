package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"infracore/cachekit"
)

// encodeValue turns a cachekit Set/Add/Replace argument into the wire bytes
// stored at the key: a one-byte marker, markerNull alone for a nil value,
// otherwise markerValue followed by the codec-wrapped serialized payload.
func (c *Client) encodeValue(value any) ([]byte, error) {
	if value == nil {
		return []byte{markerNull}, nil
	}
	raw, err := c.ser.Encode(value)
	if err != nil {
		return nil, err
	}
	enc, err := c.cdc.Encode(raw)
	if err != nil {
		return nil, err
	}
	return append([]byte{markerValue}, enc...), nil
}

// decodeValue is encodeValue's inverse, reconstructing a cachekit.Value.
func (c *Client) decodeValue(data []byte, typeTag any) (cachekit.Value, error) {
	if len(data) == 0 {
		return cachekit.AbsentValue(), nil
	}
	if data[0] == markerNull {
		return cachekit.NullValue(), nil
	}
	raw, err := c.cdc.Decode(data[1:])
	if err != nil {
		return cachekit.Value{}, err
	}
	decoded, err := c.ser.Decode(raw, typeTag)
	if err != nil {
		return cachekit.Value{}, err
	}
	return cachekit.PresentValue(decoded), nil
}

// redisExpiry converts a cachekit.TTL into the expiration argument go-redis
// expects: 0 means "no expiry" there, the same sentinel cachekit.NoExpiry plays.
func redisExpiry(ttl cachekit.TTL) (d time.Duration, expired bool) {
	if ttl == cachekit.NoExpiry {
		return 0, false
	}
	if ttl.Expired() {
		return 0, true
	}
	return ttl.Duration(), false
}

func (c *Client) Get(ctx context.Context, key string, typeTag any) (cachekit.Value, error) {
	if key == "" {
		return cachekit.Value{}, cachekit.ErrInvalidKey
	}
	var data []byte
	err := c.call(ctx, func() error {
		b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
		data = b
		return err
	})
	if err == goredis.Nil {
		return cachekit.AbsentValue(), nil
	}
	if err != nil {
		return cachekit.Value{}, err
	}
	return c.decodeValue(data, typeTag)
}

func (c *Client) GetAll(ctx context.Context, keys []string, typeTag any) (map[string]cachekit.Value, error) {
	if keys == nil {
		return nil, cachekit.ErrNilCollection
	}
	if err := cachekit.ValidateKeys(keys); err != nil {
		return nil, err
	}
	out := make(map[string]cachekit.Value, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	nsKeys := make([]string, len(keys))
	for i, k := range keys {
		nsKeys[i] = c.key(k)
	}

	var raw []any
	err := c.call(ctx, func() error {
		res, err := c.rdb.MGet(ctx, nsKeys...).Result()
		raw = res
		return err
	})
	if err != nil {
		return nil, err
	}

	for i, k := range keys {
		if raw[i] == nil {
			out[k] = cachekit.AbsentValue()
			continue
		}
		s, ok := raw[i].(string)
		if !ok {
			out[k] = cachekit.AbsentValue()
			continue
		}
		v, err := c.decodeValue([]byte(s), typeTag)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl cachekit.TTL) (bool, error) {
	if key == "" {
		return false, cachekit.ErrInvalidKey
	}
	d, expired := redisExpiry(ttl)
	if expired {
		_, err := c.Remove(ctx, key)
		return false, err
	}
	encoded, err := c.encodeValue(value)
	if err != nil {
		return false, err
	}
	err = c.call(ctx, func() error {
		return c.rdb.Set(ctx, c.key(key), encoded, d).Err()
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) Add(ctx context.Context, key string, value any, ttl cachekit.TTL) (bool, error) {
	if key == "" {
		return false, cachekit.ErrInvalidKey
	}
	d, expired := redisExpiry(ttl)
	if expired {
		return false, nil
	}
	encoded, err := c.encodeValue(value)
	if err != nil {
		return false, err
	}
	var ok bool
	err = c.call(ctx, func() error {
		res, err := c.rdb.SetNX(ctx, c.key(key), encoded, d).Result()
		ok = res
		return err
	})
	return ok, err
}

func (c *Client) Replace(ctx context.Context, key string, value any, ttl cachekit.TTL) (bool, error) {
	if key == "" {
		return false, cachekit.ErrInvalidKey
	}
	d, expired := redisExpiry(ttl)
	if expired {
		return c.Remove(ctx, key)
	}
	encoded, err := c.encodeValue(value)
	if err != nil {
		return false, err
	}
	var ok bool
	err = c.call(ctx, func() error {
		res, err := c.rdb.SetXX(ctx, c.key(key), encoded, d).Result()
		ok = res
		return err
	})
	return ok, err
}

// casReplaceScript compares the currently stored payload byte-for-byte
// against expected before overwriting, the same GET-then-conditional-mutate
// shape as the teacher's DistributedLock.Release Lua script (the teacher's
// redis/distributed.go, not carried into this module), generalized from delete-if-equal to
// replace-if-equal/delete-if-equal alike.
var casReplaceScript = goredis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur == ARGV[1] then
	if ARGV[3] == "1" then
		redis.call("DEL", KEYS[1])
	else
		redis.call("SET", KEYS[1], ARGV[2])
	end
	return 1
end
return 0
`)

func (c *Client) ReplaceIfEqual(ctx context.Context, key string, expected, newValue any, ttl cachekit.TTL) (bool, error) {
	if key == "" {
		return false, cachekit.ErrInvalidKey
	}
	expectedEnc, err := c.encodeValue(expected)
	if err != nil {
		return false, err
	}
	d, expired := redisExpiry(ttl)
	if expired {
		var ok bool
		err := c.call(ctx, func() error {
			res, err := casReplaceScript.Run(ctx, c.rdb, []string{c.key(key)}, string(expectedEnc), "", "1").Int64()
			ok = res == 1
			return err
		})
		return ok, err
	}
	newEnc, err := c.encodeValue(newValue)
	if err != nil {
		return false, err
	}
	var ok bool
	err = c.call(ctx, func() error {
		res, err := casReplaceScript.Run(ctx, c.rdb, []string{c.key(key)}, string(expectedEnc), string(newEnc), "0").Int64()
		ok = res == 1
		return err
	})
	if ok && d > 0 {
		_ = c.rdb.Expire(ctx, c.key(key), d).Err()
	}
	return ok, err
}

func (c *Client) Remove(ctx context.Context, key string) (bool, error) {
	var n int64
	err := c.call(ctx, func() error {
		res, err := c.rdb.Del(ctx, c.key(key)).Result()
		n = res
		return err
	})
	return n > 0, err
}

var casDeleteScript = goredis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

func (c *Client) RemoveIfEqual(ctx context.Context, key string, expected any) (bool, error) {
	expectedEnc, err := c.encodeValue(expected)
	if err != nil {
		return false, err
	}
	var ok bool
	err = c.call(ctx, func() error {
		res, err := casDeleteScript.Run(ctx, c.rdb, []string{c.key(key)}, string(expectedEnc)).Int64()
		ok = res == 1
		return err
	})
	return ok, err
}

func (c *Client) RemoveAll(ctx context.Context, keys []string) (int, error) {
	if keys == nil {
		return c.removeByScanMatch(ctx, c.ns+"*")
	}
	if err := cachekit.ValidateKeys(keys); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	nsKeys := make([]string, len(keys))
	for i, k := range keys {
		nsKeys[i] = c.key(k)
	}
	var n int64
	err := c.call(ctx, func() error {
		res, err := c.rdb.Del(ctx, nsKeys...).Result()
		n = res
		return err
	})
	return int(n), err
}

func (c *Client) RemoveByPrefix(ctx context.Context, prefix string) (int, error) {
	return c.removeByScanMatch(ctx, c.key(prefix)+"*")
}

func (c *Client) removeByScanMatch(ctx context.Context, match string) (int, error) {
	var removed int
	var cursor uint64
	for {
		var keys []string
		var next uint64
		err := c.call(ctx, func() error {
			ks, cur, err := c.rdb.Scan(ctx, cursor, match, 256).Result()
			keys, next = ks, cur
			return err
		})
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			var n int64
			err := c.call(ctx, func() error {
				res, err := c.rdb.Del(ctx, keys...).Result()
				n = res
				return err
			})
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return removed, nil
}

var _ cachekit.Client = (*Client)(nil)
