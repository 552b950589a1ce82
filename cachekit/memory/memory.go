// Package memory is the in-process reference implementation of cachekit.Client
// (spec.md §5): a single map guarded by one mutex, combining tempuscache's
// map+doubly-checked-expiry design with a background janitor for active
// expiration, generalized to the full contract (counters, lists, bulk ops).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"infracore/clock"
)

var logger = logrus.WithFields(logrus.Fields{"component": "cachekit/memory"})

// Cache is the in-memory reference Client. Zero value is not usable; build one
// with New.
type Cache struct {
	mu     sync.Mutex
	data   map[string]*entry
	clk    clock.Clock
	stopCh chan struct{}
	stopWG sync.WaitGroup
	closed bool

	janitorInterval time.Duration
}

// New builds a Cache. With no options it never runs a background janitor and
// relies solely on lazy (read-time) expiration, matching tempuscache's
// interval<=0 "active cleanup disabled" behavior.
func New(opts ...Option) *Cache {
	c := &Cache{
		data:   make(map[string]*entry),
		clk:    clock.New(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.startJanitor()
	return c
}

// Close stops the background janitor, if any, and releases the Cache. Calls
// after the first are no-ops that return nil.
func (c *Cache) Close(_ context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stopCh)
	c.stopWG.Wait()
	return nil
}
