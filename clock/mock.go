package clock

import (
	"sync"
	"time"
)

// TestClock is a manually-advanced Clock for deterministic tests: TTL and lease
// expiry can be fast-forwarded without sleeping real wall-clock time.
type TestClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*testTimer
}

// NewTest returns a TestClock pinned at start.
func NewTest(start time.Time) *TestClock {
	return &TestClock{now: start}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and fires any waiter (After/NewTimer/Sleep)
// whose deadline has now elapsed.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	remaining := c.waiters[:0]
	fire := make([]*testTimer, 0)
	for _, w := range c.waiters {
		if !w.deadline.After(now) {
			fire = append(fire, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
	c.mu.Unlock()

	for _, w := range fire {
		w.fire(now)
	}
}

// Sleep blocks until a future Advance call crosses now+d.
func (c *TestClock) Sleep(d time.Duration) {
	<-c.After(d)
}

func (c *TestClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.registerWaiter(d, func(t time.Time) { ch <- t })
	return ch
}

func (c *TestClock) NewTimer(d time.Duration) Timer {
	t := &testTimer{ch: make(chan time.Time, 1), clock: c}
	c.mu.Lock()
	t.deadline = c.now.Add(d)
	c.waiters = append(c.waiters, t)
	c.mu.Unlock()
	return t
}

func (c *TestClock) registerWaiter(d time.Duration, notify func(time.Time)) {
	c.mu.Lock()
	deadline := c.now.Add(d)
	now := c.now
	c.mu.Unlock()

	if !deadline.After(now) {
		notify(now)
		return
	}

	t := &testTimer{deadline: deadline, notify: notify, clock: c}
	c.mu.Lock()
	c.waiters = append(c.waiters, t)
	c.mu.Unlock()
}

type testTimer struct {
	deadline time.Time
	ch       chan time.Time
	notify   func(time.Time)
	clock    *TestClock
	stopped  bool
}

func (t *testTimer) C() <-chan time.Time { return t.ch }

func (t *testTimer) fire(now time.Time) {
	if t.stopped {
		return
	}
	if t.notify != nil {
		t.notify(now)
		return
	}
	select {
	case t.ch <- now:
	default:
	}
}

func (t *testTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped
	t.stopped = true
	remaining := t.clock.waiters[:0]
	for _, w := range t.clock.waiters {
		if w != t {
			remaining = append(remaining, w)
		}
	}
	t.clock.waiters = remaining
	return wasActive
}

func (t *testTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	wasActive := !t.stopped
	t.stopped = false
	t.deadline = t.clock.now.Add(d)
	found := false
	for _, w := range t.clock.waiters {
		if w == t {
			found = true
			break
		}
	}
	if !found {
		t.clock.waiters = append(t.clock.waiters, t)
	}
	t.clock.mu.Unlock()
	return wasActive
}
