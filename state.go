package reactor

import "sync/atomic"

// loopState is the reactor's lifecycle, tracked with a CAS state machine.
// This runtime always blocks in epoll_wait(-1) rather than offering a
// channel-only fast path, so there is no second "awake but not polling"
// mode to track.
type loopState uint32

const (
	stateCreated loopState = iota
	stateRunning
	stateTerminating
	stateTerminated
)

func (s loopState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateRunning:
		return "running"
	case stateTerminating:
		return "terminating"
	case stateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

type atomicState struct{ v atomic.Uint32 }

func (s *atomicState) load() loopState { return loopState(s.v.Load()) }

func (s *atomicState) store(v loopState) { s.v.Store(uint32(v)) }

// cas attempts a transition, returning false if the current value didn't
// match from.
func (s *atomicState) cas(from, to loopState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
