package reactor

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrClosed is returned by operations attempted after the reactor has
	// been shut down.
	ErrClosed = errors.New("reactor: closed")
	// ErrAlreadyRunning is returned by Run if the reactor is already
	// executing its blocking loop on another goroutine.
	ErrAlreadyRunning = errors.New("reactor: already running")
	// ErrTaskNotDone is returned by Task.Resume and SharedTask.Resume when
	// called before the task's result cell has been written.
	ErrTaskNotDone = errors.New("reactor: task not done")
	// ErrNotRegistered is returned by RemoveFD/RemoveSignalHandler for a
	// descriptor or signal with no current registration.
	ErrNotRegistered = errors.New("reactor: fd not registered")
)

// SyscallError wraps a failed syscall with the operation name that failed,
// preserving the underlying errno for errors.Is(err, unix.EAGAIN) etc.
type SyscallError struct {
	Op  string
	Err error
}

func (e *SyscallError) Error() string { return fmt.Sprintf("reactor: %s: %v", e.Op, e.Err) }

func (e *SyscallError) Unwrap() error { return e.Err }

func newSyscallError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SyscallError{Op: op, Err: err}
}

// PanicError converts a recovered panic value into an error, stored as a
// task's failure rather than unwinding across the goroutine boundary.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("reactor: task panic: %v", e.Value) }

// isTemporary reports whether a syscall error indicates a retryable
// condition rather than a real failure.
func isTemporary(err error) bool {
	return errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN)
}
