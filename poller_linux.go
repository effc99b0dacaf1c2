package reactor

import (
	"golang.org/x/sys/unix"
)

// ioEvents is a small bitmask translating epoll's event bits into the
// read/write/error/hangup vocabulary the rest of this package reasons in.
type ioEvents uint32

const (
	ioRead ioEvents = 1 << iota
	ioWrite
	ioError
	ioHangup
)

func epollToEvents(e uint32) ioEvents {
	var out ioEvents
	if e&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
		out |= ioRead
	}
	if e&unix.EPOLLOUT != 0 {
		out |= ioWrite
	}
	if e&unix.EPOLLERR != 0 {
		out |= ioError
	}
	if e&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
		out |= ioHangup
	}
	return out
}

func eventsToEpoll(want ioEvents) uint32 {
	var e uint32
	if want&ioRead != 0 {
		e |= unix.EPOLLIN
	}
	if want&ioWrite != 0 {
		e |= unix.EPOLLOUT
	}
	return e
}

// fdHandler is invoked from the reactor goroutine when fd becomes ready for
// any of the events it was registered for.
type fdHandler func(ev ioEvents)

type fdRegistration struct {
	fd      int
	want    ioEvents
	handler fdHandler
}

// poller wraps an epoll instance. While Run is active, add/remove/wait are
// only called from the reactor goroutine: Reactor.submit is what enforces
// that for callers running on other goroutines, by funneling their requests
// through the reactor's own loop rather than touching regs directly. Before
// Run starts, New and submit call add/remove inline on the caller's
// goroutine, when no reactor goroutine exists to race with. Registrations
// are keyed by a map rather than a fixed-size direct-indexed array, trading
// a small lookup cost for no fd-count ceiling.
type poller struct {
	epfd int
	regs map[int]*fdRegistration
	buf  []unix.EpollEvent
}

func newPoller() (*poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, newSyscallError("epoll_create1", err)
	}
	return &poller{
		epfd: epfd,
		regs: make(map[int]*fdRegistration),
		buf:  make([]unix.EpollEvent, 128),
	}, nil
}

func (p *poller) add(fd int, want ioEvents, handler fdHandler) error {
	reg := &fdRegistration{fd: fd, want: want, handler: handler}
	ev := unix.EpollEvent{Events: eventsToEpoll(want), Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return newSyscallError("epoll_ctl_add", err)
	}
	p.regs[fd] = reg
	return nil
}

// remove deregisters fd before the caller may close or reuse it. Callers
// must deregister before resuming whatever awaitable depended on the fd.
func (p *poller) remove(fd int) error {
	if _, ok := p.regs[fd]; !ok {
		return ErrNotRegistered
	}
	delete(p.regs, fd)
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return newSyscallError("epoll_ctl_del", err)
	}
	return nil
}

// wait blocks in epoll_wait with the given millisecond timeout (-1 blocks
// indefinitely, the mode the reactor's main loop always uses) and dispatches
// each ready fd's handler synchronously, on the calling (reactor) goroutine.
func (p *poller) wait(timeoutMs int) error {
	n, err := unix.EpollWait(p.epfd, p.buf, timeoutMs)
	if err != nil {
		if isTemporary(err) {
			return nil
		}
		return newSyscallError("epoll_wait", err)
	}
	for i := 0; i < n; i++ {
		fd := int(p.buf[i].Fd)
		reg, ok := p.regs[fd]
		if !ok {
			continue
		}
		reg.handler(epollToEvents(p.buf[i].Events))
	}
	return nil
}

func (p *poller) close() error {
	return unix.Close(p.epfd)
}
