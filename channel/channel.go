// Package channel collects small generic channel-composition helpers used to
// stitch together worker loops and fan-in/fan-out pipelines elsewhere in this
// module (Or backs queue/memory's StartWorking shutdown select).
package channel

import (
	"context"
)

// Or merges any number of done-signal channels into one: the returned channel
// closes as soon as any input channel closes. Channels carry no payload here
// (struct{} costs nothing to allocate), only the fact of being closed.
func Or(channels ...<-chan struct{}) <-chan struct{} {
	switch len(channels) {
	case 0:
		// An untyped nil is assignable to chan/map/func/pointer/slice/interface,
		// so a nil channel is a valid (if uninteresting) zero value to return.
		return nil
	case 1:
		return channels[0]
	}

	orDone := make(chan struct{})
	go func() {
		defer close(orDone)

		switch len(channels) {
		case 2:
			select {
			case <-channels[0]:
			case <-channels[1]:
			}
		default:
			// Recurse on the remainder, folding orDone itself back in as one of
			// the waited-on channels so a close anywhere in the tail also
			// propagates up without needing an O(n) select.
			select {
			case <-channels[1]:
			case <-channels[2]:
			case <-Or(append(channels[3:], orDone)...):
			}
		}
	}()

	return orDone
}

// OrDone re-emits values from c onto the returned channel until c closes or
// ctx is cancelled, whichever comes first. It lets a range-over-channel loop
// double as a context-aware one.
func OrDone[T any](ctx context.Context, c <-chan T) <-chan T {
	valStream := make(chan T)
	go func() {
		defer close(valStream)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-c:
				if !ok {
					return
				}
				select {
				case valStream <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return valStream
}

// Tee duplicates every value read from in onto both returned channels,
// honoring ctx cancellation. Each output gets its own buffer slot so a slow
// reader on one side doesn't immediately stall delivery to the other.
func Tee[T any](ctx context.Context, in <-chan T) (<-chan T, <-chan T) {
	out1 := make(chan T, 1)
	out2 := make(chan T, 1)

	go func() {
		defer close(out1)
		defer close(out2)

		for {
			var v T
			var ok bool

			select {
			case <-ctx.Done():
				return
			case v, ok = <-in:
				if !ok {
					return
				}
			}

			o1, o2 := out1, out2
			for i := 0; i < 2; i++ {
				select {
				case <-ctx.Done():
					return
				case o1 <- v:
					o1 = nil // already delivered on this side
				case o2 <- v:
					o2 = nil
				}
			}
		}
	}()

	return out1, out2
}

// Bridge flattens a channel-of-channels into a single output channel,
// reading each inner stream to exhaustion (or ctx cancellation) before moving
// to the next.
func Bridge[T any](ctx context.Context, chanStream <-chan <-chan T) <-chan T {
	valStream := make(chan T)

	go func() {
		defer close(valStream)
		for {
			var stream <-chan T
			select {
			case maybeStream, ok := <-chanStream:
				if !ok {
					return
				}
				stream = maybeStream
			case <-ctx.Done():
				return
			}
			for val := range OrDone(ctx, stream) {
				valStream <- val
			}
		}
	}()

	return valStream
}
