package memory

import (
	"context"
	"sync/atomic"
	"time"

	"infracore/errkind"
	"infracore/queue"
)

// Enqueue stores data and returns its ID. An EnqueuingHook veto makes
// Enqueue return ok=false without mutating any counter or queue state
// (spec.md §9 "Events and hooks").
func (q *Queue) Enqueue(ctx context.Context, data any) (queue.ID, bool, error) {
	if q.hooks.FireEnqueuing(ctx, data) {
		return "", false, nil
	}

	it := &item{
		id:         newID(),
		data:       data,
		enqueuedAt: q.clk.Now(),
		state:      queue.Queued,
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return "", false, errkind.New(errkind.InvalidState, "queue: enqueue on a closed queue")
	}
	q.items[it.id] = it
	q.queued = append(q.queued, it.id)
	q.mu.Unlock()

	atomic.AddInt64(&q.enqueuedCount, 1)
	q.notify()
	q.hooks.FireEnqueued(ctx, q.snapshot(it))
	return it.id, true, nil
}

// Dequeue pops the oldest queued entry, if any, granting it a
// workItemTimeout lease. If none is available it waits up to timeout,
// waking immediately on any Enqueue or requeue rather than polling
// (spec.md §9 "Blocking dequeue").
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*queue.Entry, bool, error) {
	deadline := q.clk.Now().Add(timeout)

	for {
		if it, ok := q.tryDequeue(); ok {
			atomic.AddInt64(&q.dequeuedCount, 1)
			entry := q.snapshot(it)
			q.hooks.FireDequeued(ctx, entry)
			return entry, true, nil
		}

		remaining := deadline.Sub(q.clk.Now())
		if remaining <= 0 {
			return nil, false, nil
		}

		waitCh := q.notifySnapshot()
		timer := q.clk.NewTimer(remaining)
		select {
		case <-waitCh:
			timer.Stop()
		case <-timer.C():
			return nil, false, nil
		case <-q.stopCh:
			timer.Stop()
			return nil, false, nil
		case <-ctx.Done():
			timer.Stop()
			return nil, false, errkind.Wrap(errkind.Cancelled, ctx.Err(), "queue: dequeue cancelled")
		}
	}
}

// tryDequeue pops the head of the queued FIFO, if non-empty, and transitions
// it to Working.
func (q *Queue) tryDequeue() (*item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queued) == 0 {
		return nil, false
	}
	id := q.queued[0]
	q.queued = q.queued[1:]

	it, ok := q.items[id]
	if !ok {
		return nil, false
	}
	it.state = queue.Working
	it.dequeueCount++
	it.lease = newLeaseToken()
	it.leaseExpiresAt = q.clk.Now().Add(q.workItemTimeout)
	q.working[id] = it
	return it, true
}

// resolveEntry looks up the live item backing entry and verifies it is still
// Working under the lease entry was handed (spec.md §9 Open Question (c)):
// a stale or already-resolved lease fails with errkind.InvalidState rather
// than mutating state that's no longer this caller's to mutate.
func (q *Queue) resolveEntry(entry *queue.Entry) (*item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	it, ok := q.items[entry.ID]
	if !ok || it.state != queue.Working || it.lease != entry.Lease {
		return nil, errkind.New(errkind.InvalidState, "queue: entry is not an outstanding lease")
	}
	return it, nil
}

// Complete resolves entry as done.
func (q *Queue) Complete(ctx context.Context, entry *queue.Entry) error {
	q.mu.Lock()
	it, ok := q.items[entry.ID]
	if !ok || it.state != queue.Working || it.lease != entry.Lease {
		q.mu.Unlock()
		return errkind.New(errkind.InvalidState, "queue: entry is not an outstanding lease")
	}
	it.state = queue.Completed
	delete(q.working, it.id)
	q.mu.Unlock()

	atomic.AddInt64(&q.completedCount, 1)
	q.hooks.FireCompleted(ctx, q.snapshot(it))
	return nil
}

// Abandon resolves this lease attempt as failed: the entry re-queues if
// attempts remain, otherwise it dead-letters (spec.md §3.4/§4.6).
func (q *Queue) Abandon(ctx context.Context, entry *queue.Entry) error {
	it, err := q.abandonLocked(entry, false)
	if err != nil {
		return err
	}
	q.hooks.FireAbandoned(ctx, q.snapshot(it))
	return nil
}

// abandonLocked applies the shared abandon/requeue/dead-letter transition
// used by both the explicit Abandon call (viaTimeout=false, increments
// Stats.Abandoned) and the lease sweeper's server-initiated path
// (viaTimeout=true, increments Stats.Timeouts instead — spec.md scenario S3
// distinguishes the two).
func (q *Queue) abandonLocked(entry *queue.Entry, viaTimeout bool) (*item, error) {
	q.mu.Lock()
	it, ok := q.items[entry.ID]
	if !ok || it.state != queue.Working || it.lease != entry.Lease {
		q.mu.Unlock()
		return nil, errkind.New(errkind.InvalidState, "queue: entry is not an outstanding lease")
	}
	delete(q.working, it.id)

	if it.dequeueCount <= q.maxAttempts {
		it.state = queue.Queued
		it.lease = ""
		it.leaseExpiresAt = time.Time{}
		q.queued = append(q.queued, it.id)
	} else {
		it.state = queue.DeadLettered
		it.lease = ""
		q.deadletter = append(q.deadletter, it.id)
	}
	q.mu.Unlock()

	if viaTimeout {
		atomic.AddInt64(&q.timeoutsCount, 1)
	} else {
		atomic.AddInt64(&q.abandonedCount, 1)
	}
	if it.state == queue.Queued {
		q.notify()
	}
	return it, nil
}

// RenewLock extends entry's lease by workItemTimeout from now.
func (q *Queue) RenewLock(ctx context.Context, entry *queue.Entry) error {
	it, err := q.resolveEntry(entry)
	if err != nil {
		return err
	}

	q.mu.Lock()
	it.leaseExpiresAt = q.clk.Now().Add(q.workItemTimeout)
	q.mu.Unlock()

	q.hooks.FireLockRenewed(ctx, q.snapshot(it))
	return nil
}
