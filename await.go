package reactor

import "context"

// Awaitable is the generic suspend/resume contract satisfied by Task[T],
// SharedTask[T], Event[T], the value returned by Cancellation.Wait, the
// timer returned by Reactor.Sleep, and the readiness adapters. Mutex.Acquire
// and Channel.Pop are not Awaitables: they take a ctx and block directly.
//
// Ready reports whether Resume can be called immediately, without
// suspending. Suspend registers a waiter to be woken (by closing it) once
// the awaitable becomes ready; it is only ever called when Ready returned
// false. Resume produces the awaitable's value, and is only ever called
// once, after either Ready returned true or the waiter registered by
// Suspend was closed.
type Awaitable[T any] interface {
	Ready() bool
	Suspend(w waiter)
	Resume() (T, error)
}

// Cancelable is implemented by awaitables that can deregister a waiter
// registered via Suspend. Await and WithCancellation use this to avoid
// leaking a waiter on the losing side of a race.
type Cancelable interface {
	Cancel(w waiter)
}

// Await runs the suspend/resume dance against aw, honoring ctx cancellation.
// Task.Await, SharedTask.Await, Cancellation.WaitContext and the Gather
// functions are built on it; WithCancellation runs the same dance itself,
// over two awaitables at once.
func Await[T any](ctx context.Context, aw Awaitable[T]) (T, error) {
	if aw.Ready() {
		return aw.Resume()
	}
	w := make(waiter)
	aw.Suspend(w)
	select {
	case <-w:
		return aw.Resume()
	case <-ctx.Done():
		if c, ok := aw.(Cancelable); ok {
			c.Cancel(w)
		}
		var zero T
		return zero, ctx.Err()
	}
}
