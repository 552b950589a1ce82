package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracore/bus"
	"infracore/clock"
)

type orderPlaced struct{ ID string }
type orderCancelled struct{ ID string }

func TestBus_FanoutDeliversToAllMatchingSubscribers(t *testing.T) {
	b := New()
	t.Cleanup(func() { _ = b.Close(context.Background()) })

	var mu sync.Mutex
	var got1, got2 []orderPlaced
	var wg sync.WaitGroup
	wg.Add(2)

	_, err := bus.Subscribe[orderPlaced](b, "orders", func(_ context.Context, m orderPlaced) {
		mu.Lock()
		got1 = append(got1, m)
		mu.Unlock()
		wg.Done()
	})
	require.NoError(t, err)

	_, err = bus.Subscribe[orderPlaced](b, "orders", func(_ context.Context, m orderPlaced) {
		mu.Lock()
		got2 = append(got2, m)
		mu.Unlock()
		wg.Done()
	})
	require.NoError(t, err)

	err = b.Publish(context.Background(), "orders", orderPlaced{ID: "o1"}, 0)
	require.NoError(t, err)

	waitOrTimeout(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []orderPlaced{{ID: "o1"}}, got1)
	assert.Equal(t, []orderPlaced{{ID: "o1"}}, got2)
}

func TestBus_TypedSubscriptionIgnoresOtherContracts(t *testing.T) {
	b := New()
	t.Cleanup(func() { _ = b.Close(context.Background()) })

	var mu sync.Mutex
	var placedCount, cancelledCount int
	var wg sync.WaitGroup
	wg.Add(1)

	_, err := bus.Subscribe[orderPlaced](b, "orders", func(_ context.Context, _ orderPlaced) {
		mu.Lock()
		placedCount++
		mu.Unlock()
		wg.Done()
	})
	require.NoError(t, err)

	_, err = bus.Subscribe[orderCancelled](b, "orders", func(_ context.Context, _ orderCancelled) {
		mu.Lock()
		cancelledCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "orders", orderPlaced{ID: "o1"}, 0))

	waitOrTimeout(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, placedCount)
	assert.Equal(t, 0, cancelledCount)
}

func TestBus_CancelStopsFurtherDelivery(t *testing.T) {
	b := New()
	t.Cleanup(func() { _ = b.Close(context.Background()) })

	var mu sync.Mutex
	count := 0

	token, err := bus.Subscribe[orderPlaced](b, "orders", func(_ context.Context, _ orderPlaced) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "orders", orderPlaced{ID: "o1"}, 0))
	time.Sleep(20 * time.Millisecond)

	token.Cancel()

	require.NoError(t, b.Publish(context.Background(), "orders", orderPlaced{ID: "o2"}, 0))
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestBus_DelayedPublishDeliversToLateJoiner(t *testing.T) {
	clk := clock.NewTest(time.Unix(0, 0))
	b := New(WithClock(clk))
	t.Cleanup(func() { _ = b.Close(context.Background()) })

	var wg sync.WaitGroup
	wg.Add(1)
	delivered := false

	require.NoError(t, b.Publish(context.Background(), "orders", orderPlaced{ID: "o1"}, time.Minute))

	// Subscriber joins after Publish but before the deadline: still delivered.
	_, err := bus.Subscribe[orderPlaced](b, "orders", func(_ context.Context, _ orderPlaced) {
		delivered = true
		wg.Done()
	})
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	waitOrTimeout(t, &wg)
	assert.True(t, delivered)
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}
