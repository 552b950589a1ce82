package memory

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"infracore/channel"
	"infracore/errkind"
	"infracore/queue"
)

// defaultPollTimeout bounds how long each StartWorking dequeue attempt
// blocks before checking ctx again, so shutdown is prompt even when the
// queue stays empty.
const defaultPollTimeout = time.Second

// StartWorking launches a background dispatch loop (spec.md §4.6): dequeue
// with an internal poll timeout, hand each entry to handler on its own
// goroutine, honoring ctx for shutdown. Handler errors increment
// Stats.Errors and abandon the entry unless it's already resolved;
// autoComplete completes a successfully-handled entry the handler didn't
// itself resolve.
func (q *Queue) StartWorking(ctx context.Context, handler queue.Handler, autoComplete bool) error {
	q.workerWG.Add(1)
	go func() {
		defer q.workerWG.Done()
		stop := channel.Or(ctx.Done(), q.stopCh)
		for {
			select {
			case <-stop:
				return
			default:
			}

			entry, ok, err := q.Dequeue(ctx, defaultPollTimeout)
			if err != nil {
				if errkind.Is(err, errkind.Cancelled) {
					return
				}
				continue
			}
			if !ok {
				continue
			}

			q.workerWG.Add(1)
			go q.dispatch(ctx, handler, entry, autoComplete)
		}
	}()
	return nil
}

// dispatch invokes handler for one entry and resolves it per autoComplete
// and the handler's outcome. Resolution errors are swallowed with
// errkind.InvalidState: that means the handler (or a racing lease-expiry
// sweep) already resolved the entry, which is an expected outcome here, not
// a dispatch failure.
func (q *Queue) dispatch(ctx context.Context, handler queue.Handler, entry *queue.Entry, autoComplete bool) {
	defer q.workerWG.Done()

	err := handler(ctx, entry)
	if err != nil {
		q.incrementErrors()
		if abandonErr := q.Abandon(ctx, entry); abandonErr != nil && !errkind.Is(abandonErr, errkind.InvalidState) {
			logger.WithFields(logrus.Fields{"id": string(entry.ID)}).WithError(abandonErr).Error("queue: failed to abandon entry after handler error")
		}
		return
	}

	if autoComplete {
		if completeErr := q.Complete(ctx, entry); completeErr != nil && !errkind.Is(completeErr, errkind.InvalidState) {
			logger.WithFields(logrus.Fields{"id": string(entry.ID)}).WithError(completeErr).Error("queue: failed to auto-complete entry")
		}
	}
}
