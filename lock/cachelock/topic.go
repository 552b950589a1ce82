package cachelock

import (
	"sync"

	"infracore/bus"
)

// topic is a close-and-replace broadcast channel: every Acquire waiter takes
// a snapshot of the current channel and selects on it, and broadcast closes
// that channel (waking everyone) then installs a fresh one for the next
// round. This is the condition-variable spec.md §4.4 describes, expressed
// with channels since that is how the teacher's own concurrency helpers
// (channel.OrDone/Or) are written — a closed channel as a wakeup signal.
type topic struct {
	mu     sync.Mutex
	ch     chan struct{}
	cancel bus.CancelToken
}

func newTopic() *topic {
	return &topic{ch: make(chan struct{})}
}

func (t *topic) snapshot() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ch
}

func (t *topic) broadcast() {
	t.mu.Lock()
	defer t.mu.Unlock()
	close(t.ch)
	t.ch = make(chan struct{})
}
