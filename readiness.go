package reactor

import "golang.org/x/sys/unix"

// Read returns an awaitable that performs a single unix.Read(fd, buf) once
// fd becomes readable, registering interest with r and deregistering on
// cancel. Socket/file descriptor ownership (opening, setting O_NONBLOCK,
// closing) is the caller's: this is a thin readiness adapter, not a
// sockets library.
func (r *Reactor) Read(fd int, buf []byte) Awaitable[int] {
	return &readAwaitable{r: r, fd: fd, buf: buf}
}

type readAwaitable struct {
	r   *Reactor
	fd  int
	buf []byte
}

func (a *readAwaitable) Ready() bool { return false }

func (a *readAwaitable) Suspend(w waiter) {
	_ = a.r.AddReader(a.fd, func() { _ = a.r.poller.remove(a.fd); close(w) })
}

func (a *readAwaitable) Resume() (int, error) {
	_ = a.r.RemoveFD(a.fd)
	n, err := unix.Read(a.fd, a.buf)
	if err != nil {
		return 0, newSyscallError("read", err)
	}
	return n, nil
}

func (a *readAwaitable) Cancel(waiter) { _ = a.r.RemoveFD(a.fd) }

// Write returns an awaitable that performs a single unix.Write(fd, buf)
// once fd becomes writable.
func (r *Reactor) Write(fd int, buf []byte) Awaitable[int] {
	return &writeAwaitable{r: r, fd: fd, buf: buf}
}

type writeAwaitable struct {
	r   *Reactor
	fd  int
	buf []byte
}

func (a *writeAwaitable) Ready() bool { return false }

func (a *writeAwaitable) Suspend(w waiter) {
	_ = a.r.AddWriter(a.fd, func() { _ = a.r.poller.remove(a.fd); close(w) })
}

func (a *writeAwaitable) Resume() (int, error) {
	_ = a.r.RemoveFD(a.fd)
	n, err := unix.Write(a.fd, a.buf)
	if err != nil {
		return 0, newSyscallError("write", err)
	}
	return n, nil
}

func (a *writeAwaitable) Cancel(waiter) { _ = a.r.RemoveFD(a.fd) }

// Connect issues a non-blocking connect on fd towards sa and returns an
// awaitable resolving once it completes, fetching the final outcome via
// SO_ERROR. fd must already be in non-blocking mode. If connect succeeds or
// fails synchronously (anything but EINPROGRESS), the awaitable is ready
// immediately and no registration ever happens.
func (r *Reactor) Connect(fd int, sa unix.Sockaddr) Awaitable[struct{}] {
	a := &connectAwaitable{r: r, fd: fd}
	err := unix.Connect(fd, sa)
	if err == nil {
		a.done, a.err = true, nil
	} else if err != unix.EINPROGRESS {
		a.done, a.err = true, newSyscallError("connect", err)
	}
	return a
}

type connectAwaitable struct {
	r    *Reactor
	fd   int
	done bool
	err  error
}

func (a *connectAwaitable) Ready() bool { return a.done }

func (a *connectAwaitable) Suspend(w waiter) {
	_ = a.r.AddWriter(a.fd, func() { _ = a.r.poller.remove(a.fd); close(w) })
}

func (a *connectAwaitable) Resume() (struct{}, error) {
	if a.done {
		return struct{}{}, a.err
	}
	_ = a.r.RemoveFD(a.fd)
	errno, err := unix.GetsockoptInt(a.fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return struct{}{}, newSyscallError("getsockopt", err)
	}
	if errno != 0 {
		return struct{}{}, newSyscallError("connect", unix.Errno(errno))
	}
	return struct{}{}, nil
}

func (a *connectAwaitable) Cancel(waiter) { _ = a.r.RemoveFD(a.fd) }
