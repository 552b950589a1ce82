package redis

import (
	"context"
	"strconv"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"infracore/cachekit"
	"infracore/errkind"
)

// isNotAnInteger recognizes redis's WRONGTYPE/"not an integer" replies so
// Increment/IncrementFloat can report errkind.TypeMismatch instead of
// errkind.Transport for a counter op against an incompatible stored value.
func isNotAnInteger(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "not an integer") ||
		strings.Contains(msg, "not a valid float") ||
		strings.Contains(msg, "WRONGTYPE")
}

func (c *Client) Increment(ctx context.Context, key string, amount int64, ttl cachekit.TTL, hasTTL bool) (int64, error) {
	if key == "" {
		return 0, cachekit.ErrInvalidKey
	}
	if hasTTL && ttl.Expired() {
		_, err := c.Remove(ctx, key)
		return 0, err
	}
	var n int64
	err := c.call(ctx, func() error {
		res, err := c.rdb.IncrBy(ctx, c.key(key), amount).Result()
		n = res
		return err
	})
	if err != nil {
		if isNotAnInteger(err) {
			return 0, errkind.Wrap(errkind.TypeMismatch, err, "providers/redis: increment against a non-numeric value")
		}
		return 0, err
	}
	if hasTTL {
		if ttl != cachekit.NoExpiry {
			_ = c.rdb.Expire(ctx, c.key(key), ttl.Duration()).Err()
		} else {
			_ = c.rdb.Persist(ctx, c.key(key)).Err()
		}
	}
	return n, nil
}

func (c *Client) IncrementFloat(ctx context.Context, key string, amount float64, ttl cachekit.TTL, hasTTL bool) (float64, error) {
	if key == "" {
		return 0, cachekit.ErrInvalidKey
	}
	if hasTTL && ttl.Expired() {
		_, err := c.Remove(ctx, key)
		return 0, err
	}
	var n float64
	err := c.call(ctx, func() error {
		res, err := c.rdb.IncrByFloat(ctx, c.key(key), amount).Result()
		n = res
		return err
	})
	if err != nil {
		if isNotAnInteger(err) {
			return 0, errkind.Wrap(errkind.TypeMismatch, err, "providers/redis: increment against a non-numeric value")
		}
		return 0, err
	}
	if hasTTL {
		if ttl != cachekit.NoExpiry {
			_ = c.rdb.Expire(ctx, c.key(key), ttl.Duration()).Err()
		} else {
			_ = c.rdb.Persist(ctx, c.key(key)).Err()
		}
	}
	return n, nil
}

// setIfCmpScript atomically compares the stored integer counter (missing
// treated as 0) against ARGV[1], writing ARGV[1] only when beats(cur, amount)
// holds for the chosen direction (ARGV[2]: "gt" or "lt").
var setIfCmpScript = goredis.NewScript(`
local cur = redis.call("GET", KEYS[1])
local amount = tonumber(ARGV[1])
if cur == false then
	redis.call("SET", KEYS[1], amount)
	return amount
end
local curNum = tonumber(cur)
if curNum == nil then
	return -2
end
if ARGV[2] == "gt" then
	if amount > curNum then
		redis.call("SET", KEYS[1], amount)
		return amount - curNum
	end
else
	if amount < curNum then
		redis.call("SET", KEYS[1], amount)
		return curNum - amount
	end
end
return 0
`)

func (c *Client) SetIfHigher(ctx context.Context, key string, amount int64, ttl cachekit.TTL) (int64, error) {
	return c.setIfCmp(ctx, key, amount, ttl, "gt")
}

func (c *Client) SetIfLower(ctx context.Context, key string, amount int64, ttl cachekit.TTL) (int64, error) {
	return c.setIfCmp(ctx, key, amount, ttl, "lt")
}

func (c *Client) setIfCmp(ctx context.Context, key string, amount int64, ttl cachekit.TTL, dir string) (int64, error) {
	if key == "" {
		return 0, cachekit.ErrInvalidKey
	}
	if ttl.Expired() {
		_, err := c.Remove(ctx, key)
		return -1, err
	}
	var diff int64
	err := c.call(ctx, func() error {
		res, err := setIfCmpScript.Run(ctx, c.rdb, []string{c.key(key)}, strconv.FormatInt(amount, 10), dir).Int64()
		diff = res
		return err
	})
	if err != nil {
		return 0, err
	}
	if diff == -2 {
		return 0, errkind.New(errkind.TypeMismatch, "providers/redis: set_if_higher/lower against a non-numeric value")
	}
	if diff != 0 && ttl != cachekit.NoExpiry {
		_ = c.rdb.Expire(ctx, c.key(key), ttl.Duration()).Err()
	}
	return diff, nil
}
