// Package memory is the in-process reference Message Bus (spec.md §4.2): a
// subscriber registry keyed by tag, grounded on the teacher's
// redis/pubsub.go PubSubService shape (publish marshals and fans out,
// subscribe registers a handler loop) but generalized off a Redis channel
// onto a plain Go map+goroutine dispatcher, since the in-memory reference
// has no transport to marshal across.
package memory

import (
	"context"
	"reflect"
	"sync"
	"time"

	"infracore/bus"
	"infracore/clock"
)

// Bus is the in-memory reference MessageBus.
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]*subscription
	clk    clock.Clock
	wg     sync.WaitGroup
	closed bool
}

type subscription struct {
	tag     string
	msgType reflect.Type
	handler bus.Handler

	mu        sync.Mutex
	cancelled bool
}

func (s *subscription) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
}

func (s *subscription) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Option configures a Bus at construction time.
type Option func(*Bus)

// WithClock replaces the default wall-clock source, used by delayed publish.
func WithClock(clk clock.Clock) Option {
	return func(b *Bus) { b.clk = clk }
}

// New builds a Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		subs: make(map[string][]*subscription),
		clk:  clock.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) SubscribeRaw(tag string, msgType reflect.Type, handler bus.Handler) (bus.CancelToken, error) {
	sub := &subscription{tag: tag, msgType: msgType, handler: handler}

	b.mu.Lock()
	b.subs[tag] = append(b.subs[tag], sub)
	b.mu.Unlock()

	return sub, nil
}

func (b *Bus) Publish(ctx context.Context, tag string, message any, delay time.Duration) error {
	if delay <= 0 {
		b.dispatch(ctx, tag, message)
		return nil
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.wg.Add(1)
	b.mu.Unlock()

	timer := b.clk.NewTimer(delay)
	go func() {
		defer b.wg.Done()
		defer timer.Stop()
		select {
		case <-timer.C():
			// Subscriber list is read at fire time, not at Publish time, so a
			// subscription added after Publish but before the deadline still
			// receives the message (spec.md §4.2).
			b.dispatch(ctx, tag, message)
		case <-ctx.Done():
		}
	}()
	return nil
}

// dispatch snapshots the current subscriber list for tag and fans out to
// every match without blocking the caller on handler progress.
func (b *Bus) dispatch(ctx context.Context, tag string, message any) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	subs := make([]*subscription, len(b.subs[tag]))
	copy(subs, b.subs[tag])
	msgType := reflect.TypeOf(message)
	b.wg.Add(len(subs))
	b.mu.Unlock()

	for _, sub := range subs {
		sub := sub
		if sub.isCancelled() || (sub.msgType != nil && msgType != nil && !msgType.AssignableTo(sub.msgType)) {
			b.wg.Done()
			continue
		}
		go func() {
			defer b.wg.Done()
			sub.handler(ctx, message)
		}()
	}
}

// Close cancels every live subscription and waits for in-flight deliveries
// and pending delayed publishes to finish.
func (b *Bus) Close(_ context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	for _, subs := range b.subs {
		for _, s := range subs {
			s.Cancel()
		}
	}
	b.subs = make(map[string][]*subscription)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

var _ bus.MessageBus = (*Bus)(nil)
