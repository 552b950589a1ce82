package memory

import (
	"time"

	"infracore/clock"
	"infracore/queue"
)

// Option configures a Queue at construction time, following the teacher's
// functional-options pattern (compare cachekit/memory.Option).
type Option func(*Queue)

// WithClock replaces the default wall-clock source.
func WithClock(clk clock.Clock) Option {
	return func(q *Queue) { q.clk = clk }
}

// WithWorkItemTimeout sets the lease duration a Dequeue grants (spec.md
// §3.4's work_item_timeout). Default: one minute.
func WithWorkItemTimeout(d time.Duration) Option {
	return func(q *Queue) { q.workItemTimeout = d }
}

// WithMaxAttempts sets the dequeue_count threshold past which an abandoned
// entry dead-letters instead of re-queuing (spec.md §3.4). Default: 3.
func WithMaxAttempts(n int) Option {
	return func(q *Queue) { q.maxAttempts = n }
}

// WithSweepInterval sets how often the lease sweeper scans for expired
// leases. Default: 100ms. Smaller values detect expiry sooner at the cost of
// more frequent lock acquisition.
func WithSweepInterval(d time.Duration) Option {
	return func(q *Queue) { q.sweepInterval = d }
}

// WithCloseGrace bounds how long Close waits for in-flight StartWorking
// handlers before returning anyway; handlers still running then are not
// cancelled. Default: 5s.
func WithCloseGrace(d time.Duration) Option {
	return func(q *Queue) { q.closeGrace = d }
}

// WithHooks installs the lifecycle hook registry (spec.md §9 "Events and
// hooks"). Hooks registered directly on the returned *queue.Hooks after
// construction still apply; this option is for pre-built registries.
func WithHooks(h *queue.Hooks) Option {
	return func(q *Queue) { q.hooks = h }
}

// Hooks returns the Queue's hook registry so callers can register callbacks
// without threading WithHooks through construction.
func (q *Queue) Hooks() *queue.Hooks { return q.hooks }
