package reactor

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// signalFD wraps a signalfd tracking a dynamic set of blocked signals, each
// mapped to a handler dispatched synchronously from the reactor goroutine
// when the fd becomes readable.
//
// Reliable process-wide signal blocking via sigprocmask requires the
// reactor goroutine to stay pinned to one OS thread (runtime.LockOSThread),
// since Go's scheduler is otherwise free to migrate it between threads with
// different signal masks; Reactor.Run does this before creating the
// signalFD.
type signalFD struct {
	mu       sync.Mutex
	fd       int
	mask     unix.Sigset_t
	handlers map[unix.Signal]func()
}

func newSignalFD() (*signalFD, error) {
	s := &signalFD{handlers: make(map[unix.Signal]func())}
	fd, err := unix.Signalfd(-1, &s.mask, unix.SFD_NONBLOCK|unix.SFD_CLOEXEC)
	if err != nil {
		return nil, newSyscallError("signalfd", err)
	}
	s.fd = fd
	return s, nil
}

func sigsetAdd(set *unix.Sigset_t, sig unix.Signal) {
	n := uint(sig) - 1
	set.Val[n/64] |= 1 << (n % 64)
}

func sigsetDel(set *unix.Sigset_t, sig unix.Signal) {
	n := uint(sig) - 1
	set.Val[n/64] &^= 1 << (n % 64)
}

// addHandler blocks sig via the process signal mask and routes its delivery
// to fn, replacing any previous handler for the same signal.
func (s *signalFD) addHandler(sig unix.Signal, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sigsetAdd(&s.mask, sig)
	s.handlers[sig] = fn
	return s.sync()
}

// removeHandler unblocks sig and stops routing it through this signalfd.
func (s *signalFD) removeHandler(sig unix.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handlers[sig]; !ok {
		return ErrNotRegistered
	}
	sigsetDel(&s.mask, sig)
	delete(s.handlers, sig)
	return s.sync()
}

// sync pushes the current mask to both the process signal mask and the
// signalfd itself; must be called with s.mu held.
func (s *signalFD) sync() error {
	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &s.mask, nil); err != nil {
		return newSyscallError("pthread_sigmask", err)
	}
	if _, err := unix.Signalfd(s.fd, &s.mask, unix.SFD_NONBLOCK|unix.SFD_CLOEXEC); err != nil {
		return newSyscallError("signalfd", err)
	}
	return nil
}

// readAndDispatch reads pending unix.SignalfdSiginfo records and invokes
// the matching handler for each, called from the reactor goroutine when the
// poller reports this fd readable.
func (s *signalFD) readAndDispatch() {
	const siginfoSize = 128
	var buf [16 * siginfoSize]byte
	n, err := unix.Read(s.fd, buf[:])
	if err != nil || n < siginfoSize {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for off := 0; off+siginfoSize <= n; off += siginfoSize {
		info := (*unix.SignalfdSiginfo)(unsafe.Pointer(&buf[off]))
		if fn, ok := s.handlers[unix.Signal(info.Signo)]; ok {
			fn()
		}
	}
}

func (s *signalFD) close() error { return unix.Close(s.fd) }
