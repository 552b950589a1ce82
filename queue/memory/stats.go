package memory

import (
	"context"
	"sync/atomic"

	"infracore/queue"
)

func (q *Queue) incrementErrors() { atomic.AddInt64(&q.errorsCount, 1) }

// GetStats returns a point-in-time snapshot of the monotonic counters plus
// the current depths (spec.md §4.6).
func (q *Queue) GetStats(_ context.Context) (queue.Stats, error) {
	q.mu.Lock()
	queuedDepth := int64(len(q.queued))
	workingDepth := int64(len(q.working))
	deadletterDepth := int64(len(q.deadletter))
	q.mu.Unlock()

	return queue.Stats{
		Enqueued:        atomic.LoadInt64(&q.enqueuedCount),
		Dequeued:        atomic.LoadInt64(&q.dequeuedCount),
		Completed:       atomic.LoadInt64(&q.completedCount),
		Abandoned:       atomic.LoadInt64(&q.abandonedCount),
		Errors:          atomic.LoadInt64(&q.errorsCount),
		Timeouts:        atomic.LoadInt64(&q.timeoutsCount),
		QueuedDepth:     queuedDepth,
		WorkingDepth:    workingDepth,
		DeadletterDepth: deadletterDepth,
	}, nil
}

// GetDeadletterItems returns the entries currently dead-lettered, in the
// order they were moved there.
func (q *Queue) GetDeadletterItems(_ context.Context) ([]*queue.Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*queue.Entry, 0, len(q.deadletter))
	for _, id := range q.deadletter {
		if it, ok := q.items[id]; ok {
			out = append(out, q.snapshot(it))
		}
	}
	return out, nil
}

// DeleteQueue discards all entries and resets every counter to zero
// (spec.md §4.6's delete_queue()).
func (q *Queue) DeleteQueue(_ context.Context) error {
	q.mu.Lock()
	q.items = make(map[queue.ID]*item)
	q.queued = nil
	q.working = make(map[queue.ID]*item)
	q.deadletter = nil
	q.mu.Unlock()

	atomic.StoreInt64(&q.enqueuedCount, 0)
	atomic.StoreInt64(&q.dequeuedCount, 0)
	atomic.StoreInt64(&q.completedCount, 0)
	atomic.StoreInt64(&q.abandonedCount, 0)
	atomic.StoreInt64(&q.errorsCount, 0)
	atomic.StoreInt64(&q.timeoutsCount, 0)
	return nil
}
