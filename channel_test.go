package reactor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)

	for _, want := range []int{1, 2, 3} {
		v, err := q.Pop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestStack_LIFOOrder(t *testing.T) {
	s := NewStack[int]()
	s.Push(1)
	s.Push(2)
	s.Push(3)

	for _, want := range []int{3, 2, 1} {
		v, err := s.Pop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestPriorityQueue_PopsSmallestFirst(t *testing.T) {
	pq := NewPriorityQueue[int](func(a, b int) bool { return a < b })
	for _, v := range []int{5, 1, 4, 2, 3} {
		pq.Push(v)
	}
	for _, want := range []int{1, 2, 3, 4, 5} {
		v, err := pq.Pop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestQueue_PopSuspendsUntilPush(t *testing.T) {
	q := NewQueue[int]()
	done := make(chan int)
	go func() {
		v, err := q.Pop(context.Background())
		assert.NoError(t, err)
		done <- v
	}()

	select {
	case <-done:
		t.Fatal("Pop returned before any Push")
	case <-time.After(20 * time.Millisecond):
	}

	q.Push(77)
	select {
	case v := <-done:
		assert.Equal(t, 77, v)
	case <-time.After(time.Second):
		t.Fatal("Pop never woke after Push")
	}
}

func TestQueue_PopCancellationDeregisters(t *testing.T) {
	q := NewQueue[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// A waiter left registered after cancellation would wrongly consume a
	// later Push meant for a different caller.
	q.Push(1)
	v, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
