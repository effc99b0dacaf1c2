package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// timerFD wraps a one-shot CLOCK_MONOTONIC timerfd, registered with the
// poller like any other reader fd rather than backed by Go's own
// time.Timer.
type timerFD struct{ fd int }

func newTimerFD() (*timerFD, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, newSyscallError("timerfd_create", err)
	}
	return &timerFD{fd: fd}, nil
}

// arm schedules the timer to fire once, after d. A non-positive d fires as
// soon as the reactor next polls.
func (t *timerFD) arm(d time.Duration) error {
	if d <= 0 {
		d = time.Nanosecond
	}
	spec := unix.ItimerSpec{
		Value: unix.NsecToTimespec(d.Nanoseconds()),
	}
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		return newSyscallError("timerfd_settime", err)
	}
	return nil
}

// drain consumes the 8-byte expiration counter timerfd delivers on fire,
// required before the fd will report readable again for a re-armed timer.
func (t *timerFD) drain() {
	var buf [8]byte
	_, _ = unix.Read(t.fd, buf[:])
}

func (t *timerFD) close() error { return unix.Close(t.fd) }
