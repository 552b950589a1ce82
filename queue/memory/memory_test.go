package memory

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracore/errkind"
	"infracore/queue"
)

func TestQueue_EnqueueDequeueCompleteRoundTrip(t *testing.T) {
	q := New(WithWorkItemTimeout(time.Minute))
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	ctx := context.Background()

	id, ok, err := q.Enqueue(ctx, "payload")
	require.NoError(t, err)
	require.True(t, ok)

	entry, ok, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, "payload", entry.Data)
	assert.Equal(t, 1, entry.DequeueCount)

	require.NoError(t, q.Complete(ctx, entry))

	stats, err := q.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Enqueued)
	assert.EqualValues(t, 1, stats.Dequeued)
	assert.EqualValues(t, 1, stats.Completed)
	assert.EqualValues(t, 0, stats.QueuedDepth)
	assert.EqualValues(t, 0, stats.WorkingDepth)
}

func TestQueue_DequeueOnEmptyQueueTimesOut(t *testing.T) {
	q := New()
	t.Cleanup(func() { _ = q.Close(context.Background()) })

	_, ok, err := q.Dequeue(context.Background(), 30*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueue_DequeueWakesOnEnqueue(t *testing.T) {
	q := New()
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	ctx := context.Background()

	var entry *queue.Entry
	done := make(chan struct{})
	go func() {
		var ok bool
		entry, ok, _ = q.Dequeue(ctx, time.Second)
		if ok {
			close(done)
		}
	}()

	time.Sleep(20 * time.Millisecond)
	_, _, err := q.Enqueue(ctx, "woken")
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dequeue never woke on enqueue")
	}
	assert.Equal(t, "woken", entry.Data)
}

func TestQueue_CompleteOnTerminalEntryFails(t *testing.T) {
	q := New()
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	ctx := context.Background()

	_, _, _ = q.Enqueue(ctx, "x")
	entry, _, _ := q.Dequeue(ctx, time.Second)
	require.NoError(t, q.Complete(ctx, entry))

	err := q.Complete(ctx, entry)
	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.InvalidState))

	err = q.Abandon(ctx, entry)
	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.InvalidState))
}

// TestQueue_LeaseExpiryReassignment is spec.md scenario S3, run here with
// work_item_timeout = 150ms, max_attempts = 2. Worker A dequeues and never resolves; worker B
// should pick the same item up with dequeue_count=2 after the lease expires,
// and the expiry must be counted as a timeout, not an explicit abandon.
func TestQueue_LeaseExpiryReassignment(t *testing.T) {
	q := New(WithWorkItemTimeout(150*time.Millisecond), WithMaxAttempts(2), WithSweepInterval(20*time.Millisecond))
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	ctx := context.Background()

	_, _, err := q.Enqueue(ctx, "item")
	require.NoError(t, err)

	first, ok, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, first.DequeueCount)
	// Worker A never completes or abandons `first`; its lease lapses.

	second, ok, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.DequeueCount)

	require.NoError(t, q.Complete(ctx, second))

	stats, err := q.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Enqueued)
	assert.EqualValues(t, 2, stats.Dequeued)
	assert.EqualValues(t, 1, stats.Completed)
	assert.EqualValues(t, 1, stats.Timeouts)
	assert.EqualValues(t, 0, stats.Abandoned)
}

// TestQueue_DeadLetterAfterMaxAttempts is spec.md scenario S4: max_attempts
// = 1. Two explicit abandons on the same item should dead-letter it.
func TestQueue_DeadLetterAfterMaxAttempts(t *testing.T) {
	q := New(WithWorkItemTimeout(time.Minute), WithMaxAttempts(1))
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	ctx := context.Background()

	_, _, err := q.Enqueue(ctx, "item")
	require.NoError(t, err)

	e1, ok, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, q.Abandon(ctx, e1))

	e2, ok, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, e2.DequeueCount)
	require.NoError(t, q.Abandon(ctx, e2))

	stats, err := q.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Abandoned)
	assert.EqualValues(t, 1, stats.DeadletterDepth)

	items, err := q.GetDeadletterItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, queue.DeadLettered, items[0].State)
}

func TestQueue_EnqueuingHookCanVeto(t *testing.T) {
	q := New()
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	ctx := context.Background()

	q.Hooks().OnEnqueuing(func(_ context.Context, data any) bool {
		return data == "blocked"
	})

	_, ok, err := q.Enqueue(ctx, "blocked")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = q.Enqueue(ctx, "allowed")
	require.NoError(t, err)
	assert.True(t, ok)

	stats, _ := q.GetStats(ctx)
	assert.EqualValues(t, 1, stats.Enqueued)
}

func TestQueue_StartWorkingAutoCompletes(t *testing.T) {
	q := New()
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handled int32
	require.NoError(t, q.StartWorking(ctx, func(_ context.Context, entry *queue.Entry) error {
		atomic.AddInt32(&handled, 1)
		return nil
	}, true))

	_, _, err := q.Enqueue(context.Background(), "work")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&handled) == 1
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		stats, _ := q.GetStats(context.Background())
		return stats.Completed == 1
	}, time.Second, 5*time.Millisecond)
}

func TestQueue_StartWorkingAbandonsOnHandlerError(t *testing.T) {
	q := New(WithMaxAttempts(5))
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.StartWorking(ctx, func(_ context.Context, entry *queue.Entry) error {
		return assert.AnError
	}, true))

	_, _, err := q.Enqueue(context.Background(), "broken")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stats, _ := q.GetStats(context.Background())
		return stats.Errors == 1 && stats.Abandoned == 1
	}, time.Second, 5*time.Millisecond)
}

func TestQueue_DeleteQueueResetsEverything(t *testing.T) {
	q := New()
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	ctx := context.Background()

	_, _, _ = q.Enqueue(ctx, "x")
	require.NoError(t, q.DeleteQueue(ctx))

	stats, err := q.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Enqueued)
	assert.EqualValues(t, 0, stats.QueuedDepth)

	_, ok, err := q.Dequeue(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
}
