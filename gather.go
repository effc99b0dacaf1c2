package reactor

import (
	"context"
	"sync"
)

// Slot holds one gathered result: a value or a failure, never both. Unlike
// a plain (T, error) pair, a Slot travels inside a GatherResultN struct so
// partial failure in one branch doesn't prevent inspecting the others.
type Slot[T any] struct {
	Value T
	Err   error
}

// awaitInto is the body of the detached goroutine each Gather function
// spawns per child awaitable: it awaits aw into slot and then marks one
// completion on wg, which stands in for a hand-rolled completion counter.
func awaitInto[T any](ctx context.Context, aw Awaitable[T], wg *sync.WaitGroup, slot *Slot[T]) {
	defer wg.Done()
	slot.Value, slot.Err = Await[T](ctx, aw)
}

// GatherResult2 is the tuple produced by Gather2.
type GatherResult2[A, B any] struct {
	A Slot[A]
	B Slot[B]
}

// Gather2 races two heterogeneous awaitables to completion concurrently,
// returning both results regardless of whether either failed.
func Gather2[A, B any](ctx context.Context, a Awaitable[A], b Awaitable[B]) GatherResult2[A, B] {
	var r GatherResult2[A, B]
	var wg sync.WaitGroup
	wg.Add(2)
	go awaitInto(ctx, a, &wg, &r.A)
	go awaitInto(ctx, b, &wg, &r.B)
	wg.Wait()
	return r
}

// GatherResult3 is the tuple produced by Gather3.
type GatherResult3[A, B, C any] struct {
	A Slot[A]
	B Slot[B]
	C Slot[C]
}

func Gather3[A, B, C any](ctx context.Context, a Awaitable[A], b Awaitable[B], c Awaitable[C]) GatherResult3[A, B, C] {
	var r GatherResult3[A, B, C]
	var wg sync.WaitGroup
	wg.Add(3)
	go awaitInto(ctx, a, &wg, &r.A)
	go awaitInto(ctx, b, &wg, &r.B)
	go awaitInto(ctx, c, &wg, &r.C)
	wg.Wait()
	return r
}

// GatherResult4 is the tuple produced by Gather4.
type GatherResult4[A, B, C, D any] struct {
	A Slot[A]
	B Slot[B]
	C Slot[C]
	D Slot[D]
}

func Gather4[A, B, C, D any](ctx context.Context, a Awaitable[A], b Awaitable[B], c Awaitable[C], d Awaitable[D]) GatherResult4[A, B, C, D] {
	var r GatherResult4[A, B, C, D]
	var wg sync.WaitGroup
	wg.Add(4)
	go awaitInto(ctx, a, &wg, &r.A)
	go awaitInto(ctx, b, &wg, &r.B)
	go awaitInto(ctx, c, &wg, &r.C)
	go awaitInto(ctx, d, &wg, &r.D)
	wg.Wait()
	return r
}

// GatherResult5 is the tuple produced by Gather5.
type GatherResult5[A, B, C, D, E any] struct {
	A Slot[A]
	B Slot[B]
	C Slot[C]
	D Slot[D]
	E Slot[E]
}

func Gather5[A, B, C, D, E any](ctx context.Context, a Awaitable[A], b Awaitable[B], c Awaitable[C], d Awaitable[D], e Awaitable[E]) GatherResult5[A, B, C, D, E] {
	var r GatherResult5[A, B, C, D, E]
	var wg sync.WaitGroup
	wg.Add(5)
	go awaitInto(ctx, a, &wg, &r.A)
	go awaitInto(ctx, b, &wg, &r.B)
	go awaitInto(ctx, c, &wg, &r.C)
	go awaitInto(ctx, d, &wg, &r.D)
	go awaitInto(ctx, e, &wg, &r.E)
	wg.Wait()
	return r
}

// GatherResult6 is the tuple produced by Gather6, the arity exercised by a
// six-way mixed gather over Tasks, a SharedTask and a cancellation wait.
type GatherResult6[A, B, C, D, E, F any] struct {
	A Slot[A]
	B Slot[B]
	C Slot[C]
	D Slot[D]
	E Slot[E]
	F Slot[F]
}

func Gather6[A, B, C, D, E, F any](ctx context.Context, a Awaitable[A], b Awaitable[B], c Awaitable[C], d Awaitable[D], e Awaitable[E], f Awaitable[F]) GatherResult6[A, B, C, D, E, F] {
	var r GatherResult6[A, B, C, D, E, F]
	var wg sync.WaitGroup
	wg.Add(6)
	go awaitInto(ctx, a, &wg, &r.A)
	go awaitInto(ctx, b, &wg, &r.B)
	go awaitInto(ctx, c, &wg, &r.C)
	go awaitInto(ctx, d, &wg, &r.D)
	go awaitInto(ctx, e, &wg, &r.E)
	go awaitInto(ctx, f, &wg, &r.F)
	wg.Wait()
	return r
}

// GatherSlice races an arbitrary number of homogeneous awaitables,
// returning one Slot per input in the same order, for the N-ary case the
// fixed-arity GatherN functions can't express.
func GatherSlice[T any](ctx context.Context, aws []Awaitable[T]) []Slot[T] {
	r := make([]Slot[T], len(aws))
	var wg sync.WaitGroup
	wg.Add(len(aws))
	for i, aw := range aws {
		go awaitInto(ctx, aw, &wg, &r[i])
	}
	wg.Wait()
	return r
}
