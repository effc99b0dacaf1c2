package reactor

import (
	"context"
	"sync/atomic"
)

// Mutex is a cooperative, task-aware lock: Acquire suspends the caller
// instead of blocking the reactor goroutine, and Unlock wakes exactly one
// waiter. The handoff is advisory rather than a direct ownership transfer,
// since the lock is briefly unlocked before the woken waiter retries, so a
// concurrent Acquire can still steal it first; Acquire loops on wake until
// it actually wins the compare-and-swap.
type Mutex struct {
	locked atomic.Bool
	cont   multiContinuation
}

func NewMutex() *Mutex { return &Mutex{} }

// Guard represents lock ownership; Unlock releases it, waking one waiter.
// The explicit release call stands in for a destructor, since Go has none.
type Guard struct{ m *Mutex }

func (g *Guard) Unlock() {
	g.m.locked.Store(false)
	g.m.cont.resumeOne()
}

// Acquire blocks the caller until the lock is held, returning a Guard to
// release it, or an error if ctx is cancelled first.
func (m *Mutex) Acquire(ctx context.Context) (*Guard, error) {
	if m.locked.CompareAndSwap(false, true) {
		return &Guard{m: m}, nil
	}
	for {
		w := make(waiter)
		m.cont.push(w)
		// Re-check after registering: closes the race against an Unlock
		// that stored false and woke waiters before this push landed.
		if m.locked.CompareAndSwap(false, true) {
			m.cont.erase(w)
			return &Guard{m: m}, nil
		}
		select {
		case <-w:
			if m.locked.CompareAndSwap(false, true) {
				return &Guard{m: m}, nil
			}
			// Lost the race to another acquirer; loop and re-register.
		case <-ctx.Done():
			m.cont.erase(w)
			return nil, ctx.Err()
		}
	}
}

// TryAcquire attempts to take the lock without blocking.
func (m *Mutex) TryAcquire() (*Guard, bool) {
	if m.locked.CompareAndSwap(false, true) {
		return &Guard{m: m}, true
	}
	return nil, false
}
