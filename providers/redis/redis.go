// Package redis adapts cachekit.Client and bus.MessageBus onto
// github.com/redis/go-redis/v9, generalized from the teacher's bare
// RedisClient/DistributedLock/PubSubService trio (the teacher's redis/
// package, not carried into this module) into the full contracts those files
// only partially covered.
// Transient command failures are retried through infracore/retry before
// surfacing as errkind.Transport.
package redis

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"infracore/codec"
	"infracore/errkind"
	"infracore/retry"
	"infracore/serializer"
)

var logger = logrus.WithFields(logrus.Fields{"component": "providers/redis"})

const (
	markerValue byte = 'V'
	markerNull  byte = 'N'
)

// Client is a cachekit.Client backed by a single redis.Client connection.
// Keys are namespaced under ns so RemoveAll(nil)/RemoveByPrefix("") never
// reach outside the keyspace this Client owns.
type Client struct {
	rdb  *goredis.Client
	ns   string
	ser  serializer.Serializer
	cdc  *codec.Codec
	opts []retry.Option
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithNamespace prefixes every key this Client touches. Default: "infracore:cache:".
func WithNamespace(ns string) Option {
	return func(c *Client) { c.ns = ns }
}

// WithSerializer selects the value codec used to turn stored payloads back
// into Go values. Default: serializer.NewJSON().
func WithSerializer(s serializer.Serializer) Option {
	return func(c *Client) { c.ser = s }
}

// WithCodec installs a compression/encryption pipeline applied on top of the
// serializer's bytes. Default: identity (codec.New() with no options).
func WithCodec(cdc *codec.Codec) Option {
	return func(c *Client) { c.cdc = cdc }
}

// WithRetryOptions overrides the infracore/retry.Do options used to retry
// transient command failures. Default: three attempts, 50ms initial backoff.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(c *Client) { c.opts = opts }
}

// New wraps an already-constructed *redis.Client. Callers are responsible for
// dialing it (redis.NewClient, or a *miniredis.Miniredis-backed client in tests).
func New(rdb *goredis.Client, opts ...Option) *Client {
	c := &Client{
		rdb: rdb,
		ns:  "infracore:cache:",
		ser: serializer.NewJSON(),
		cdc: codec.New(),
		opts: []retry.Option{
			retry.WithInitialInterval(50 * time.Millisecond),
			retry.WithMaxTries(3),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) key(k string) string { return c.ns + k }

// call runs fn, retrying transient failures via infracore/retry and
// classifying anything left over as errkind.Transport. goredis.Nil (the
// "key absent" sentinel) is never retried and is returned to the caller
// unwrapped so ops.go can match it with errors.Is.
func (c *Client) call(ctx context.Context, fn func() error) error {
	err := retry.Do(ctx, func() error {
		if err := fn(); err != nil {
			if err == goredis.Nil {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, c.opts...)
	if err != nil && err != goredis.Nil {
		return errkind.Wrap(errkind.Transport, err, "providers/redis: command failed")
	}
	return err
}

// Close releases the underlying connection pool.
func (c *Client) Close(_ context.Context) error {
	return c.rdb.Close()
}
