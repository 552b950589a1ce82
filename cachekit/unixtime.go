package cachekit

import (
	"context"
	"time"
)

// SetIfHigherUnixMs stores t as epoch milliseconds via SetIfHigher, so that
// concurrent writers of a timestamp converge on the latest one monotonically
// (spec.md §4.1 "unix_time_{ms,sec} helpers"). Returns the same overloaded
// difference/-1 result as SetIfHigher.
func SetIfHigherUnixMs(ctx context.Context, c Client, key string, t time.Time, ttl TTL) (int64, error) {
	return c.SetIfHigher(ctx, key, t.UnixMilli(), ttl)
}

// SetIfHigherUnixSec is SetIfHigherUnixMs's whole-second analogue.
func SetIfHigherUnixSec(ctx context.Context, c Client, key string, t time.Time, ttl TTL) (int64, error) {
	return c.SetIfHigher(ctx, key, t.Unix(), ttl)
}

// GetUnixMs reads key as an epoch-millisecond counter and reports it as a
// time.Time. ok is false when the key is absent or null.
func GetUnixMs(ctx context.Context, c Client, key string) (t time.Time, ok bool, err error) {
	v, err := c.Get(ctx, key, new(int64))
	if err != nil || !v.IsPresent() {
		return time.Time{}, false, err
	}
	ms, present, err := As[int64](v)
	if err != nil || !present {
		return time.Time{}, false, err
	}
	return time.UnixMilli(ms), true, nil
}

// GetUnixSec is GetUnixMs's whole-second analogue.
func GetUnixSec(ctx context.Context, c Client, key string) (t time.Time, ok bool, err error) {
	v, err := c.Get(ctx, key, new(int64))
	if err != nil || !v.IsPresent() {
		return time.Time{}, false, err
	}
	sec, present, err := As[int64](v)
	if err != nil || !present {
		return time.Time{}, false, err
	}
	return time.Unix(sec, 0), true, nil
}
