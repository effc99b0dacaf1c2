package reactor

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// SharedTask is a multi-owner task: unlike Task, any number of callers may
// Await it, all observing the same result, and the underlying goroutine
// starts eagerly on the first Await rather than being tied to one caller.
type SharedTask[T any] struct {
	fn   func(context.Context) (T, error)
	once sync.Once
	done chan struct{}
	res  resultCell[T]
	cont multiContinuation
	refs atomic.Int32
}

// NewSharedTask builds a SharedTask with an initial reference count of 1,
// representing the caller's own handle.
func NewSharedTask[T any](fn func(context.Context) (T, error)) *SharedTask[T] {
	t := &SharedTask[T]{fn: fn, done: make(chan struct{})}
	t.refs.Store(1)
	return t
}

// Clone returns a new handle to the same underlying task, incrementing the
// reference count. Destruction on refcount reaching zero has no direct Go
// analogue (the GC reclaims the struct once unreachable); Clone and Drop
// exist for observable refcount bookkeeping, not resource cleanup.
func (t *SharedTask[T]) Clone() *SharedTask[T] {
	t.refs.Add(1)
	return t
}

// Drop releases a handle, returning the post-decrement reference count.
func (t *SharedTask[T]) Drop() int32 {
	return t.refs.Add(-1)
}

func (t *SharedTask[T]) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.res.setFailure(&PanicError{Value: r, Stack: debug.Stack()})
		}
		close(t.done)
		t.cont.resumeAll()
	}()
	v, err := t.fn(ctx)
	if err != nil {
		t.res.setFailure(err)
	} else {
		t.res.setValue(v)
	}
}

// Start begins execution if it hasn't already.
func (t *SharedTask[T]) Start(ctx context.Context) {
	t.once.Do(func() { go t.run(ctx) })
}

func (t *SharedTask[T]) Ready() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *SharedTask[T]) Suspend(w waiter) {
	t.cont.push(w)
	t.Start(context.Background())
	if t.Ready() {
		// A concurrent awaiter may have already driven this task to
		// completion and fired the fan-out before our push landed; a
		// second resumeAll is harmless since each waiter is closed once.
		t.cont.resumeAll()
	}
}

func (t *SharedTask[T]) Resume() (T, error) {
	v, err, done := t.res.peek()
	if !done {
		var zero T
		return zero, ErrTaskNotDone
	}
	return v, err
}

// Await blocks until the shared task completes, starting it if this is the
// first awaiter anywhere.
func (t *SharedTask[T]) Await(ctx context.Context) (T, error) {
	return Await[T](ctx, t)
}
