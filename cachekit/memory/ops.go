package memory

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"infracore/cachekit"
	"infracore/errkind"
)

func (c *Cache) Get(_ context.Context, key string, _ any) (cachekit.Value, error) {
	if key == "" {
		return cachekit.Value{}, cachekit.ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key, c.clk.Now())
}

func (c *Cache) getLocked(key string, now time.Time) (cachekit.Value, error) {
	e, ok := c.data[key]
	if !ok {
		return cachekit.AbsentValue(), nil
	}
	if e.expired(now) {
		delete(c.data, key)
		logger.WithFields(logrus.Fields{"key": key}).Trace("key expired")
		return cachekit.AbsentValue(), nil
	}
	if e.isList {
		return cachekit.Value{}, errkind.New(errkind.TypeMismatch, "cachekit/memory: key holds a list, not a scalar")
	}
	if e.isNull {
		return cachekit.NullValue(), nil
	}
	return cachekit.PresentValue(e.value), nil
}

func (c *Cache) GetAll(_ context.Context, keys []string, _ any) (map[string]cachekit.Value, error) {
	if keys == nil {
		return nil, cachekit.ErrNilCollection
	}
	if err := cachekit.ValidateKeys(keys); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	out := make(map[string]cachekit.Value, len(keys))
	for _, k := range keys {
		v, err := c.getLocked(k, now)
		if err != nil {
			// A list hit inside a scalar bulk-get is reported as absent rather
			// than failing the whole batch.
			out[k] = cachekit.AbsentValue()
			continue
		}
		out[k] = v
	}
	return out, nil
}

func (c *Cache) Set(_ context.Context, key string, value any, ttl cachekit.TTL) (bool, error) {
	if key == "" {
		return false, cachekit.ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, expired := computeExpiry(c.clk, ttl)
	if expired {
		delete(c.data, key)
		return false, nil
	}
	c.data[key] = newScalarEntry(value, deadline)
	return true, nil
}

func (c *Cache) Add(_ context.Context, key string, value any, ttl cachekit.TTL) (bool, error) {
	if key == "" {
		return false, cachekit.ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	if e, ok := c.data[key]; ok && !e.expired(now) {
		return false, nil
	}
	deadline, expired := computeExpiry(c.clk, ttl)
	if expired {
		delete(c.data, key)
		return false, nil
	}
	c.data[key] = newScalarEntry(value, deadline)
	return true, nil
}

func (c *Cache) Replace(_ context.Context, key string, value any, ttl cachekit.TTL) (bool, error) {
	if key == "" {
		return false, cachekit.ErrInvalidKey
	}
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
	c.data[key] = newScalarEntry(value, deadline)
	return true, nil
}

func (c *Cache) ReplaceIfEqual(_ context.Context, key string, expected, newValue any, ttl cachekit.TTL) (bool, error) {
	if key == "" {
		return false, cachekit.ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	e, ok := c.data[key]
	if !ok || e.expired(now) || e.isList {
		delete(c.data, key)
		return false, nil
	}
	if !reflect.DeepEqual(e.value, expected) {
		return false, nil
	}
	deadline, expired := computeExpiry(c.clk, ttl)
	if expired {
		delete(c.data, key)
		return true, nil
	}
	c.data[key] = newScalarEntry(newValue, deadline)
	return true, nil
}

func (c *Cache) Remove(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; !ok {
		return false, nil
	}
	delete(c.data, key)
	return true, nil
}

func (c *Cache) RemoveIfEqual(_ context.Context, key string, expected any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	e, ok := c.data[key]
	if !ok || e.expired(now) || e.isList {
		return false, nil
	}
	if !reflect.DeepEqual(e.value, expected) {
		return false, nil
	}
	delete(c.data, key)
	return true, nil
}

func (c *Cache) RemoveAll(_ context.Context, keys []string) (int, error) {
	if keys != nil {
		if err := cachekit.ValidateKeys(keys); err != nil {
			return 0, err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if keys == nil {
		n := len(c.data)
		c.data = make(map[string]*entry)
		return n, nil
	}
	n := 0
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *Cache) RemoveByPrefix(_ context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

var _ cachekit.Client = (*Cache)(nil)
