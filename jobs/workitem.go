package jobs

import (
	"context"

	"infracore/queue"
)

// WorkItemQueueJob is a Job whose Run wraps queue.Queue.StartWorking and
// blocks until ctx fires (spec.md §4.7): it exists so a queue's background
// worker can itself be driven by a Runner (typically in Continuous mode,
// though StartWorking already runs forever so Once is the natural fit).
type WorkItemQueueJob struct {
	Queue        queue.Queue
	Handler      queue.Handler
	AutoComplete bool
}

// NewWorkItemQueueJob builds a WorkItemQueueJob over q, dispatching each
// dequeued entry to handler.
func NewWorkItemQueueJob(q queue.Queue, handler queue.Handler, autoComplete bool) *WorkItemQueueJob {
	return &WorkItemQueueJob{Queue: q, Handler: handler, AutoComplete: autoComplete}
}

// Run starts the queue's background worker and blocks until ctx is
// cancelled, at which point it reports Cancelled.
func (j *WorkItemQueueJob) Run(ctx context.Context) Result {
	if err := j.Queue.StartWorking(ctx, j.Handler, j.AutoComplete); err != nil {
		return FailedResult(err)
	}
	<-ctx.Done()
	return CancelledResult()
}

var _ Job = (*WorkItemQueueJob)(nil)
