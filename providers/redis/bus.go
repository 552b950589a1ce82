package redis

import (
	"context"
	"reflect"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"infracore/bus"
	"infracore/errkind"
	"infracore/serializer"
)

// Bus is a bus.MessageBus backed by redis Pub/Sub, generalized from the
// teacher's PubSubService.PublishEvent/SubscribeToEvents (the teacher's
// redis/pubsub.go, not carried into this module), which only ever carried one handler per channel and blocked
// its caller inside the subscribe loop. Bus instead multiplexes any number of
// typed subscriptions per tag behind one underlying redis subscription,
// mirroring bus/memory's dispatch shape.
type Bus struct {
	rdb *goredis.Client
	ser serializer.Serializer

	mu     sync.Mutex
	tags   map[string]*tagSubscription
	closed bool
}

type tagSubscription struct {
	sub   *goredis.PubSub
	subs  map[int]*subscription
	nextID int
	cancel context.CancelFunc
}

type subscription struct {
	msgType reflect.Type
	handler bus.Handler
}

type cancelToken struct {
	b   *Bus
	tag string
	id  int
}

func (t *cancelToken) Cancel() {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	ts, ok := t.b.tags[t.tag]
	if !ok {
		return
	}
	delete(ts.subs, t.id)
	if len(ts.subs) == 0 {
		ts.cancel()
		_ = ts.sub.Close()
		delete(t.b.tags, t.tag)
	}
}

// NewBus wraps an already-dialed *redis.Client as a bus.MessageBus.
func NewBus(rdb *goredis.Client) *Bus {
	return &Bus{
		rdb:  rdb,
		ser:  serializer.NewJSON(),
		tags: make(map[string]*tagSubscription),
	}
}

// envelope is the wire shape published on a redis channel: the JSON-encoded
// payload plus a type name good enough for same-process round-tripping isn't
// possible over the wire (unlike bus/memory, which hands the live Go value to
// subscribers directly), so SubscribeRaw instead decodes into a fresh
// zero value of msgType and leaves exact-type matching to the caller.
type envelope struct {
	Payload []byte `json:"payload"`
}

// Publish JSON-encodes message and publishes it on tag. delay schedules the
// publish itself via a background timer rather than blocking the caller, the
// same semantics bus/memory's delayed delivery has (spec.md §4.2).
func (b *Bus) Publish(ctx context.Context, tag string, message any, delay time.Duration) error {
	raw, err := b.ser.Encode(message)
	if err != nil {
		return err
	}
	env := envelope{Payload: raw}
	encoded, err := b.ser.Encode(env)
	if err != nil {
		return err
	}

	publish := func() error {
		return b.rdb.Publish(context.Background(), tag, encoded).Err()
	}
	if delay <= 0 {
		if err := publish(); err != nil {
			return errkind.Wrap(errkind.Transport, err, "providers/redis: publish failed")
		}
		return nil
	}

	timer := time.NewTimer(delay)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			_ = publish()
		case <-ctx.Done():
		}
	}()
	return nil
}

// SubscribeRaw registers handler for every message published on tag whose
// decoded payload is assignable to msgType. The first subscriber on a tag
// opens the underlying redis subscription; the last cancelling it tears it
// down.
func (b *Bus) SubscribeRaw(tag string, msgType reflect.Type, handler bus.Handler) (bus.CancelToken, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errkind.New(errkind.InvalidState, "providers/redis: bus is closed")
	}

	ts, ok := b.tags[tag]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		ts = &tagSubscription{
			sub:    b.rdb.Subscribe(ctx, tag),
			subs:   make(map[int]*subscription),
			cancel: cancel,
		}
		b.tags[tag] = ts
		go b.dispatchLoop(ctx, tag, ts)
	}

	id := ts.nextID
	ts.nextID++
	ts.subs[id] = &subscription{msgType: msgType, handler: handler}
	return &cancelToken{b: b, tag: tag, id: id}, nil
}

func (b *Bus) dispatchLoop(ctx context.Context, tag string, ts *tagSubscription) {
	ch := ts.sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.dispatch(ctx, tag, ts, []byte(msg.Payload))
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, tag string, ts *tagSubscription, raw []byte) {
	var env envelope
	if _, err := b.ser.Decode(raw, &env); err != nil {
		logger.WithError(err).WithField("tag", tag).Error("dropping malformed message")
		return
	}

	b.mu.Lock()
	handlers := make([]*subscription, 0, len(ts.subs))
	for _, s := range ts.subs {
		handlers = append(handlers, s)
	}
	b.mu.Unlock()

	for _, s := range handlers {
		target := reflect.New(s.msgType).Interface()
		if _, err := b.ser.Decode(env.Payload, target); err != nil {
			continue
		}
		value := reflect.ValueOf(target).Elem().Interface()
		s.handler(ctx, value)
	}
}

// Close cancels every underlying redis subscription.
func (b *Bus) Close(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, ts := range b.tags {
		ts.cancel()
		_ = ts.sub.Close()
	}
	b.tags = make(map[string]*tagSubscription)
	return nil
}

var _ bus.MessageBus = (*Bus)(nil)
