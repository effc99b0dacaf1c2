package reactor

import "sync"

// waiter is the handle a suspended awaiter parks on; resuming it means
// closing the channel, the translation this package uses throughout in
// place of stackful coroutine transfer.
type waiter = chan struct{}

// continuation is the common interface satisfied by singleContinuation and
// multiContinuation, letting Event[T] and other callers pick a waiter policy
// (single vs fan-out) without duplicating the push/resume/erase contract.
type continuation interface {
	push(w waiter)
	resumeAll()
	erase(w waiter) bool
}

// singleContinuation holds at most one pending waiter. Used by Task[T],
// where only one logical owner awaits a given completion at a time
// (SharedTask uses multiContinuation instead).
type singleContinuation struct {
	mu sync.Mutex
	w  waiter
}

func (c *singleContinuation) push(w waiter) {
	c.mu.Lock()
	c.w = w
	c.mu.Unlock()
}

func (c *singleContinuation) resumeAll() {
	c.mu.Lock()
	w := c.w
	c.w = nil
	c.mu.Unlock()
	if w != nil {
		close(w)
	}
}

func (c *singleContinuation) erase(w waiter) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w == w {
		c.w = nil
		return true
	}
	return false
}

// multiContinuation holds an arbitrary number of pending waiters. Used by
// SharedTask, Cancellation, Event, Mutex and the queue-like channels.
type multiContinuation struct {
	mu sync.Mutex
	ws []waiter
}

func (c *multiContinuation) push(w waiter) {
	c.mu.Lock()
	c.ws = append(c.ws, w)
	c.mu.Unlock()
}

// resumeOne wakes the most recently registered waiter (LIFO), used by
// mutexes and queue-like channels: mutual exclusion only requires waking
// exactly one waiter, not any particular order.
func (c *multiContinuation) resumeOne() bool {
	c.mu.Lock()
	if len(c.ws) == 0 {
		c.mu.Unlock()
		return false
	}
	n := len(c.ws) - 1
	w := c.ws[n]
	c.ws = c.ws[:n]
	c.mu.Unlock()
	close(w)
	return true
}

func (c *multiContinuation) resumeAll() {
	c.mu.Lock()
	ws := c.ws
	c.ws = nil
	c.mu.Unlock()
	for _, w := range ws {
		close(w)
	}
}

func (c *multiContinuation) erase(w waiter) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, ww := range c.ws {
		if ww == w {
			c.ws = append(c.ws[:i], c.ws[i+1:]...)
			return true
		}
	}
	return false
}

func (c *multiContinuation) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ws)
}
