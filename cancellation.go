package reactor

import (
	"context"
	"sync/atomic"
)

// Cancellation is a one-shot, broadcast trigger: any number of tasks can
// await it, and Trigger wakes all of them, exactly once. Shaped like a
// fan-out promise specialised to a valueless signal.
type Cancellation struct {
	set  atomic.Bool
	cont multiContinuation
}

func NewCancellation() *Cancellation { return &Cancellation{} }

// Trigger fires the cancellation, waking every waiter. Idempotent: a second
// call is a no-op.
func (c *Cancellation) Trigger() {
	if c.set.CompareAndSwap(false, true) {
		c.cont.resumeAll()
	}
}

// IsSet reports whether Trigger has fired.
func (c *Cancellation) IsSet() bool { return c.set.Load() }

// Wait returns an Awaitable[struct{}] that resolves once Trigger fires,
// suitable for passing directly to WithCancellation as the cancel source.
func (c *Cancellation) Wait() Awaitable[struct{}] { return (*cancelWaiter)(c) }

type cancelWaiter Cancellation

func (w *cancelWaiter) Ready() bool        { return (*Cancellation)(w).IsSet() }
func (w *cancelWaiter) Suspend(ch waiter) {
	c := (*Cancellation)(w)
	c.cont.push(ch)
	if c.IsSet() {
		c.cont.resumeAll()
	}
}
func (w *cancelWaiter) Resume() (struct{}, error) { return struct{}{}, nil }
func (w *cancelWaiter) Cancel(ch waiter)   { (*Cancellation)(w).cont.erase(ch) }

// WaitContext blocks until Trigger fires or ctx is cancelled.
func (c *Cancellation) WaitContext(ctx context.Context) error {
	_, err := Await[struct{}](ctx, c.Wait())
	return err
}
