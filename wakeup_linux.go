package reactor

import "golang.org/x/sys/unix"

// wakeFD is an eventfd-backed poke mechanism used to break the reactor out
// of epoll_wait when work arrives from outside the reactor goroutine. A
// single eventfd is used in preference to a pipe's two descriptors.
type wakeFD struct{ fd int }

func newWakeFD() (*wakeFD, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, newSyscallError("eventfd", err)
	}
	return &wakeFD{fd: fd}, nil
}

// notify wakes one pending epoll_wait. Safe to call from any goroutine, any
// number of times between drains: eventfd coalesces writes into a single
// counter.
func (w *wakeFD) notify() {
	var buf [8]byte
	buf[7] = 1
	_, _ = unix.Write(w.fd, buf[:])
}

// drain clears the eventfd counter after the reactor wakes, so a subsequent
// notify is needed to wake it again.
func (w *wakeFD) drain() {
	var buf [8]byte
	for {
		_, err := unix.Read(w.fd, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *wakeFD) close() error { return unix.Close(w.fd) }
