package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracore/bus"
)

type busEvent struct {
	Name string `json:"name"`
}

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewBus(rdb)
}

func TestBus_PublishSubscribeDelivers(t *testing.T) {
	b := newTestBus(t)
	defer b.Close(context.Background())

	var received atomic.Value
	token, err := bus.Subscribe[busEvent](b, "events", func(ctx context.Context, e busEvent) {
		received.Store(e)
	})
	require.NoError(t, err)
	defer token.Cancel()

	require.NoError(t, b.Publish(context.Background(), "events", busEvent{Name: "hello"}, 0))

	require.Eventually(t, func() bool {
		v, ok := received.Load().(busEvent)
		return ok && v.Name == "hello"
	}, time.Second, 5*time.Millisecond)
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	b := newTestBus(t)
	defer b.Close(context.Background())

	var calls atomic.Int32
	token, err := bus.Subscribe[busEvent](b, "events", func(ctx context.Context, e busEvent) {
		calls.Add(1)
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "events", busEvent{Name: "one"}, 0))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	token.Cancel()
	require.NoError(t, b.Publish(context.Background(), "events", busEvent{Name: "two"}, 0))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBus_DelayedPublish(t *testing.T) {
	b := newTestBus(t)
	defer b.Close(context.Background())

	var calls atomic.Int32
	token, err := bus.Subscribe[busEvent](b, "events", func(ctx context.Context, e busEvent) {
		calls.Add(1)
	})
	require.NoError(t, err)
	defer token.Cancel()

	require.NoError(t, b.Publish(context.Background(), "events", busEvent{Name: "later"}, 60*time.Millisecond))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}
