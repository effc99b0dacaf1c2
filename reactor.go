package reactor

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/joeycumines/logiface"
	"golang.org/x/sys/unix"
)

// Reactor owns the epoll instance, the wakeup eventfd, and (lazily) the
// signalfd. All of its internal state is touched only from the goroutine
// that calls Run, which Run pins with runtime.LockOSThread so that
// sigprocmask-based signal blocking (see signal_linux.go) stays valid for
// the process's lifetime of that goroutine.
//
// A Reactor is an ordinary constructed value rather than a package-level
// singleton: tests build as many as they need, isolated from each other.
type Reactor struct {
	state  atomicState
	poller *poller
	wake   *wakeFD
	logger *logiface.Logger[*logEvent]

	sigMu sync.Mutex
	sig   *signalFD

	subMu    sync.Mutex
	subQueue []submission

	closeOnce sync.Once
}

// submission is a request to run fn on the reactor goroutine, queued by
// submit when called from any other goroutine while Run is active.
type submission struct {
	fn     func() error
	result chan error
}

type options struct {
	logger *logiface.Logger[*logEvent]
}

// Option configures a Reactor at construction.
type Option func(*options)

// WithLogger injects a structured logger for reactor lifecycle events.
// Omitting it leaves logging disabled (logiface's Logger is safe to use at
// a disabled level without guard clauses).
func WithLogger(l *logiface.Logger[*logEvent]) Option {
	return func(o *options) { o.logger = l }
}

func resolveOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = discardLogger()
	}
	return o
}

// New constructs a Reactor with its own epoll instance and wakeup eventfd.
// The signalfd is created lazily, on the first AddSignalHandler call, since
// most reactors never need signal handling.
func New(opts ...Option) (*Reactor, error) {
	o := resolveOptions(opts)

	p, err := newPoller()
	if err != nil {
		return nil, err
	}
	w, err := newWakeFD()
	if err != nil {
		_ = p.close()
		return nil, err
	}
	r := &Reactor{poller: p, wake: w, logger: o.logger}
	if err := p.add(w.fd, ioRead, func(ioEvents) { w.drain() }); err != nil {
		_ = p.close()
		_ = w.close()
		return nil, err
	}
	return r, nil
}

// submit runs fn with exclusive access to the poller's registration state.
// poller.add/remove/wait must only ever execute on the reactor goroutine, so
// a caller on any other goroutine has fn queued and run there instead of
// touching the poller directly; submit then blocks until fn has run and
// returns its result. Before Run has started there is no reactor goroutine
// to funnel through, and nothing else can be touching the poller
// concurrently, so fn runs inline. Once Run has returned (or Close has been
// called), fn is not run and submit returns ErrClosed.
func (r *Reactor) submit(fn func() error) error {
	switch r.state.load() {
	case stateTerminated:
		return ErrClosed
	case stateRunning:
		// fall through to the queued path below.
	default:
		// No reactor goroutine is running yet; nothing else can race with
		// fn, so it's safe to run synchronously here.
		return fn()
	}

	s := submission{fn: fn, result: make(chan error, 1)}
	r.subMu.Lock()
	if r.state.load() == stateTerminated {
		r.subMu.Unlock()
		return ErrClosed
	}
	r.subQueue = append(r.subQueue, s)
	r.subMu.Unlock()

	r.wake.notify()
	return <-s.result
}

// drainSubmissions runs every request queued by submit since the last drain,
// on the reactor goroutine. Called at the top of Run's loop, before it may
// next block in poller.wait.
func (r *Reactor) drainSubmissions() {
	r.subMu.Lock()
	pending := r.subQueue
	r.subQueue = nil
	r.subMu.Unlock()

	for _, s := range pending {
		s.result <- s.fn()
	}
}

// failPendingSubmissions resolves every request still queued with err,
// without running it, so a submit call racing against reactor shutdown never
// blocks forever waiting for a drain that will never come.
func (r *Reactor) failPendingSubmissions(err error) {
	r.subMu.Lock()
	pending := r.subQueue
	r.subQueue = nil
	r.subMu.Unlock()

	for _, s := range pending {
		s.result <- err
	}
}

// addFD registers fd with the poller via submit, so the registration always
// happens on the reactor goroutine regardless of which goroutine calls it.
func (r *Reactor) addFD(fd int, want ioEvents, handler fdHandler) error {
	return r.submit(func() error { return r.poller.add(fd, want, handler) })
}

// removeFDInternal deregisters fd with the poller via submit.
func (r *Reactor) removeFDInternal(fd int) error {
	return r.submit(func() error { return r.poller.remove(fd) })
}

// Run drives task to completion: it starts task (if not already started),
// then blocks the calling goroutine in epoll_wait(-1), dispatching ready
// fds, timers and signals, until task finishes. The calling goroutine is
// pinned to its OS thread for the duration, required for signalfd
// correctness.
func Run[T any](ctx context.Context, r *Reactor, task *Task[T]) (T, error) {
	var zero T
	if !r.state.cas(stateCreated, stateRunning) {
		return zero, ErrAlreadyRunning
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer func() {
		r.state.store(stateTerminated)
		r.failPendingSubmissions(ErrClosed)
	}()

	r.logger.Debug().Log("reactor starting")

	finished := make(chan struct{})
	go func() {
		task.Await(ctx)
		// finished must be closed before the wake notify it rides in on:
		// once the reactor goroutine observes the eventfd readable and
		// drains it, it re-checks finished immediately, and must always
		// see it already closed, or it falls through into another
		// indefinite poller.wait with nothing left to wake it.
		close(finished)
		r.wake.notify()
	}()

	for {
		r.drainSubmissions()
		select {
		case <-finished:
			r.logger.Debug().Log("reactor stopping")
			return task.Resume()
		default:
		}
		if err := r.poller.wait(-1); err != nil {
			r.logger.Warning().Err(err).Log("poll error")
		}
	}
}

// Spawn starts fn concurrently with the caller, returning a Task handle the
// caller may later await. It doesn't require a Reactor: a Task's own
// goroutine is independent of reactor scheduling, which only comes into
// play for readiness, timer and signal awaitables.
func Spawn[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	t := NewTask(fn)
	t.Start(ctx)
	return t
}

// AddReader registers fd for read readiness, invoking handler from the
// reactor goroutine whenever it fires. Used internally by the readiness
// adapters in readiness.go; exported for callers building their own
// adapters atop the same registration shim.
func (r *Reactor) AddReader(fd int, handler func()) error {
	return r.addFD(fd, ioRead, func(ioEvents) { handler() })
}

// AddWriter registers fd for write readiness.
func (r *Reactor) AddWriter(fd int, handler func()) error {
	return r.addFD(fd, ioWrite, func(ioEvents) { handler() })
}

// RemoveFD deregisters fd. This must happen before the fd is closed or
// reused, and before its resume/completion is observed by whichever
// awaitable registered it.
func (r *Reactor) RemoveFD(fd int) error {
	return r.removeFDInternal(fd)
}

// AddSignalHandler routes delivery of sig to fn, dispatched synchronously
// on the reactor goroutine. Creates the signalfd on first use.
func (r *Reactor) AddSignalHandler(sig unix.Signal, fn func()) error {
	r.sigMu.Lock()
	defer r.sigMu.Unlock()
	if r.sig == nil {
		s, err := newSignalFD()
		if err != nil {
			return err
		}
		if err := r.addFD(s.fd, ioRead, func(ioEvents) { s.readAndDispatch() }); err != nil {
			_ = s.close()
			return err
		}
		r.sig = s
	}
	return r.sig.addHandler(sig, fn)
}

// RemoveSignalHandler stops routing sig through this reactor and restores
// the default disposition by unblocking it.
func (r *Reactor) RemoveSignalHandler(sig unix.Signal) error {
	r.sigMu.Lock()
	defer r.sigMu.Unlock()
	if r.sig == nil {
		return ErrNotRegistered
	}
	return r.sig.removeHandler(sig)
}

// Close releases the epoll instance, wakeup eventfd, and signalfd (if any).
// Safe to call more than once.
func (r *Reactor) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.state.store(stateTerminated)
		r.failPendingSubmissions(ErrClosed)
		if r.sig != nil {
			if e := r.sig.close(); e != nil && err == nil {
				err = e
			}
		}
		if e := r.wake.close(); e != nil && err == nil {
			err = e
		}
		if e := r.poller.close(); e != nil && err == nil {
			err = e
		}
	})
	return err
}

// Sleep returns an awaitable that resolves after d, backed by a timerfd
// registered with this reactor's poller rather than Go's own time.Timer.
func (r *Reactor) Sleep(d time.Duration) Awaitable[struct{}] {
	return &sleepAwaitable{r: r, d: d}
}

type sleepAwaitable struct {
	r      *Reactor
	d      time.Duration
	mu     sync.Mutex
	fired  bool
	cont   singleContinuation
	timer  *timerFD
	armed  bool
}

func (s *sleepAwaitable) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

func (s *sleepAwaitable) Suspend(w waiter) {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		close(w)
		return
	}
	s.cont.push(w)
	if !s.armed {
		s.armed = true
		t, err := newTimerFD()
		if err != nil {
			s.mu.Unlock()
			s.fire()
			return
		}
		s.timer = t
		d := s.d
		s.mu.Unlock()
		_ = t.arm(d)
		// The handler below fires from inside poller.wait, on the reactor
		// goroutine, so it deregisters via the poller directly rather than
		// through removeFDInternal: routing it through submit would block
		// the reactor goroutine waiting on itself to drain the request.
		_ = s.r.addFD(t.fd, ioRead, func(ioEvents) {
			t.drain()
			_ = s.r.poller.remove(t.fd)
			_ = t.close()
			s.fire()
		})
		return
	}
	s.mu.Unlock()
}

func (s *sleepAwaitable) fire() {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return
	}
	s.fired = true
	s.mu.Unlock()
	s.cont.resumeAll()
}

func (s *sleepAwaitable) Resume() (struct{}, error) { return struct{}{}, nil }

func (s *sleepAwaitable) Cancel(w waiter) {
	s.cont.erase(w)
	s.mu.Lock()
	t := s.timer
	s.mu.Unlock()
	if t != nil {
		_ = s.r.removeFDInternal(t.fd)
		_ = t.close()
	}
}
