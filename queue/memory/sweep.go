package memory

import (
	"context"

	"github.com/sirupsen/logrus"

	"infracore/queue"
)

// sweepLoop is the single background sweeper maintaining lease expiry
// (spec.md §5 "a monotonic wheel or a priority queue of deadlines maintained
// by a single sweeper"). It polls rather than scheduling a timer per lease,
// which keeps the design simple at the cost of up to sweepInterval of slop
// on expiry detection — acceptable since work_item_timeout is itself a
// coarse-grained lease, not a precision deadline.
func (q *Queue) sweepLoop() {
	defer q.bgWG.Done()

	ticker := q.clk.NewTimer(q.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.stopCh:
			return
		case <-ticker.C():
			q.sweepExpiredLeases()
			ticker.Reset(q.sweepInterval)
		}
	}
}

// sweepExpiredLeases finds every Working item whose lease has elapsed and
// abandons it via the server-initiated path (spec.md §3.4/§4.6: "when a
// lease expires server-side, the queue increments timeouts, treats the
// entry as abandoned, and, if attempts remain, re-enqueues; otherwise moves
// it to dead-letter").
func (q *Queue) sweepExpiredLeases() {
	now := q.clk.Now()

	q.mu.Lock()
	var expired []*queue.Entry
	for id, it := range q.working {
		if !it.leaseExpiresAt.After(now) {
			expired = append(expired, &queue.Entry{ID: id, Lease: it.lease})
		}
	}
	q.mu.Unlock()

	for _, entry := range expired {
		it, err := q.abandonLocked(entry, true)
		if err != nil {
			// Already resolved by the holder between the snapshot above and
			// now; nothing to do.
			continue
		}
		logger.WithFields(logrus.Fields{"id": string(it.id)}).Trace("lease expired, entry treated as abandoned")
		q.hooks.FireAbandoned(context.Background(), q.snapshot(it))
	}
}
