package reactor

import (
	"context"
	"time"
)

// WithCancellation races aw against cancel, an Awaitable[struct{}] source
// (typically a Cancellation.Wait()). It returns (value, true, nil) if aw
// wins, or (zero, false, nil) if cancel fires first: an optional result
// translated as a present/absent bool rather than a pointer or (*T, error)
// pair. A ctx cancellation while the race is pending returns ctx.Err() with
// present=false and deregisters each side that implements Cancelable.
func WithCancellation[T any](ctx context.Context, aw Awaitable[T], cancel Awaitable[struct{}]) (T, bool, error) {
	var zero T

	if cancel.Ready() {
		return zero, false, nil
	}
	if aw.Ready() {
		v, err := aw.Resume()
		return v, true, err
	}

	wakeAw := make(waiter)
	aw.Suspend(wakeAw)
	wakeCancel := make(waiter)
	cancel.Suspend(wakeCancel)

	select {
	case <-wakeAw:
		if c, ok := cancel.(Cancelable); ok {
			c.Cancel(wakeCancel)
		}
		v, err := aw.Resume()
		return v, true, err
	case <-wakeCancel:
		if c, ok := aw.(Cancelable); ok {
			c.Cancel(wakeAw)
		}
		return zero, false, nil
	case <-ctx.Done():
		if c, ok := aw.(Cancelable); ok {
			c.Cancel(wakeAw)
		}
		if c, ok := cancel.(Cancelable); ok {
			c.Cancel(wakeCancel)
		}
		return zero, false, ctx.Err()
	}
}

// WithTimeout is WithCancellation(aw, r.Sleep(d)): a timeout is cancellation
// by a timer. r supplies the timerfd-backed sleep, so this function, unlike
// WithCancellation, needs a running Reactor.
func WithTimeout[T any](ctx context.Context, r *Reactor, aw Awaitable[T], d time.Duration) (T, bool, error) {
	return WithCancellation[T](ctx, aw, r.Sleep(d))
}
