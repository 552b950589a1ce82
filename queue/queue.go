// Package queue defines the reliable work-queue contract (spec.md §4.6):
// enqueue/dequeue with lease/renew/complete/abandon/dead-letter semantics,
// background worker dispatch, and observable lifecycle hooks. queue/memory
// provides the in-process reference implementation.
package queue

import (
	"context"
	"time"
)

// State is an entry's position in the state machine described by spec.md
// §3.4: queued -> working -> {completed | abandoned}; abandoned loops back
// to queued while attempts remain, otherwise to dead-lettered.
type State int

const (
	// Queued means the entry is waiting to be dequeued.
	Queued State = iota
	// Working means a lease is outstanding.
	Working
	// Completed is terminal: the handler resolved the entry successfully.
	Completed
	// Abandoned is terminal for the individual dequeue attempt; the entry
	// either cycles back to Queued (attempts remain) or becomes DeadLettered.
	Abandoned
	// DeadLettered is terminal: attempts are exhausted.
	DeadLettered
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Working:
		return "working"
	case Completed:
		return "completed"
	case Abandoned:
		return "abandoned"
	case DeadLettered:
		return "dead-lettered"
	default:
		return "unknown"
	}
}

// ID is the opaque handle returned by Enqueue (spec.md §3.4). It identifies
// the logical work item across its whole lifetime, including re-enqueues
// after an abandon.
type ID string

// LeaseToken is the opaque handle returned by Dequeue. spec.md §9 Open
// Question (c) requires that Complete/Abandon/RenewLock accept only the
// value Dequeue handed back, never the Enqueue-time ID — distinct Go types
// make passing the wrong one a compile error instead of a runtime one.
type LeaseToken string

// Entry is one work item as observed by a caller holding a lease on it
// (spec.md §3.4).
type Entry struct {
	ID             ID
	Lease          LeaseToken
	Data           any
	EnqueuedAt     time.Time
	DequeueCount   int
	LeaseExpiresAt time.Time
	State          State
}

// Stats mirrors the counters spec.md §4.6 requires: the first six are
// monotonic from queue creation, the last three are point-in-time depths.
type Stats struct {
	Enqueued        int64
	Dequeued        int64
	Completed       int64
	Abandoned       int64
	Errors          int64
	Timeouts        int64
	QueuedDepth     int64
	WorkingDepth    int64
	DeadletterDepth int64
}

// Handler processes one dequeued Entry. Returning a non-nil error causes the
// runtime to treat the entry as abandoned (unless it was already resolved)
// and increment Stats.Errors.
type Handler func(ctx context.Context, entry *Entry) error

// Queue is the contract every provider (the in-memory reference, a
// Service-Bus-style binding, ...) satisfies.
type Queue interface {
	// Enqueue stores data and returns its ID. If an EnqueuingHook vetoes the
	// operation, Enqueue returns ok=false without mutating any counters
	// (spec.md §9 "Events and hooks").
	Enqueue(ctx context.Context, data any) (id ID, ok bool, err error)

	// Dequeue waits up to timeout for a queued entry, leasing it for
	// work_item_timeout (configured at queue construction). A zero timeout
	// means "return immediately if nothing is queued". ok=false with a nil
	// error means the timeout elapsed with nothing available.
	Dequeue(ctx context.Context, timeout time.Duration) (entry *Entry, ok bool, err error)

	// Complete resolves entry as done. Fails with errkind.InvalidState if
	// entry is already terminal.
	Complete(ctx context.Context, entry *Entry) error
	// Abandon resolves this attempt as failed: the entry re-queues if
	// attempts remain, otherwise it is dead-lettered. Fails with
	// errkind.InvalidState if entry is already terminal.
	Abandon(ctx context.Context, entry *Entry) error
	// RenewLock extends entry's lease by work_item_timeout from now.
	RenewLock(ctx context.Context, entry *Entry) error

	// StartWorking launches a background dispatch loop: dequeue with an
	// internal polling timeout, invoke handler for each entry on its own
	// goroutine, honoring ctx for shutdown. If autoComplete is true, a
	// handler that returns nil without itself resolving the entry is
	// auto-completed. StartWorking returns once the loop has started; it
	// keeps running until ctx is cancelled.
	StartWorking(ctx context.Context, handler Handler, autoComplete bool) error

	// GetStats returns a point-in-time snapshot of the counters.
	GetStats(ctx context.Context) (Stats, error)
	// GetDeadletterItems returns the entries currently dead-lettered.
	GetDeadletterItems(ctx context.Context) ([]*Entry, error)
	// DeleteQueue discards all entries and resets every counter to zero.
	DeleteQueue(ctx context.Context) error

	// Close stops the background worker (if running), waits up to its
	// configured grace period for in-flight handlers to finish, then cancels
	// anything still outstanding (spec.md §5 "Resource lifecycle").
	Close(ctx context.Context) error
}
