// Package bus defines the Message Bus contract (spec.md §4.2): topic-fanout
// pub/sub with typed subscriptions and delayed delivery. bus/memory provides
// the in-process reference implementation; hybrid and lock/cachelock are both
// built on top of a MessageBus.
package bus

import (
	"context"
	"reflect"
	"time"
)

// Handler receives one delivered message. ctx is the bus's own context (not
// the publisher's), since delivery may happen well after Publish returns.
type Handler func(ctx context.Context, message any)

// CancelToken releases a subscription. Cancel is idempotent and synchronous:
// once it returns, no further deliveries reach the handler, though a
// delivery already in flight is not interrupted (spec.md §4.2).
type CancelToken interface {
	Cancel()
}

// MessageBus is the contract every provider (in-memory reference, a Redis
// binding, ...) satisfies.
type MessageBus interface {
	// Publish fans the message out to every live subscription on tag whose
	// registered type is assignable from message's type. A delay of zero
	// dispatches as soon as possible without blocking the caller; a positive
	// delay makes the message deliverable at now()+delay, evaluated against
	// whichever subscriptions are live at that time (spec.md §4.2).
	Publish(ctx context.Context, tag string, message any, delay time.Duration) error
	// SubscribeRaw registers handler for tag, delivering only messages whose
	// runtime type is assignable to msgType. Subscribe[T] is the ergonomic,
	// generic entry point most callers want.
	SubscribeRaw(tag string, msgType reflect.Type, handler Handler) (CancelToken, error)
	// Close cancels every live subscription and waits for in-flight
	// deliveries to finish.
	Close(ctx context.Context) error
}

// Subscribe is the generic counterpart to SubscribeRaw, mirroring how
// cachekit.Get[T] sits on top of Client.Get: Go interfaces cannot declare
// their own type parameters, so the type lives on this free function.
func Subscribe[T any](b MessageBus, tag string, handler func(context.Context, T)) (CancelToken, error) {
	var zero T
	msgType := reflect.TypeOf(zero)
	return b.SubscribeRaw(tag, msgType, func(ctx context.Context, message any) {
		if typed, ok := message.(T); ok {
			handler(ctx, typed)
		}
	})
}
