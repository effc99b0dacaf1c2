// Package reactor is a single-goroutine cooperative I/O runtime: a reactor
// goroutine multiplexes epoll, timerfd and signalfd readiness onto a set of
// suspended Go goroutines ("tasks"), using structured concurrency
// combinators (Gather, WithCancellation, WithTimeout) and a small set of
// task-aware synchronization primitives (Mutex, Cancellation, Event,
// Queue/Stack/PriorityQueue channels) instead of raw goroutines and
// sync.Mutex.
//
// Go has no stackful coroutines, so this package translates "suspend a
// coroutine" into "park a goroutine on a channel receive" and "resume a
// coroutine" into "close that channel", done by whichever goroutine completes
// the awaited operation (the reactor goroutine, for fd and timer readiness;
// the task's own goroutine, when a Task finishes). The reactor
// itself still touches its epoll/timerfd/signalfd state from exactly one
// goroutine at a time, the goroutine that called Run, even though the tasks
// it schedules run concurrently.
package reactor
