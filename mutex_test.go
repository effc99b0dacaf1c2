package reactor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutex_MutualExclusion(t *testing.T) {
	m := NewMutex()
	var counter int
	var raced bool
	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			g, err := m.Acquire(context.Background())
			if err != nil {
				return
			}
			local := counter
			time.Sleep(time.Microsecond)
			counter = local + 1
			if counter != local+1 {
				raced = true
			}
			g.Unlock()
		}()
	}
	wg.Wait()
	assert.False(t, raced)
	assert.Equal(t, n, counter)
}

func TestMutex_AcquireBlocksUntilUnlock(t *testing.T) {
	m := NewMutex()
	g1, err := m.Acquire(context.Background())
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		g2, err := m.Acquire(context.Background())
		assert.NoError(t, err)
		close(acquired)
		g2.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire returned before first Unlock")
	case <-time.After(20 * time.Millisecond):
	}

	g1.Unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Acquire never woke after Unlock")
	}
}

func TestMutex_AcquireRespectsContextCancellation(t *testing.T) {
	m := NewMutex()
	g, err := m.Acquire(context.Background())
	require.NoError(t, err)
	defer g.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMutex_TryAcquire(t *testing.T) {
	m := NewMutex()
	g, ok := m.TryAcquire()
	require.True(t, ok)
	_, ok = m.TryAcquire()
	assert.False(t, ok)
	g.Unlock()
	g2, ok := m.TryAcquire()
	require.True(t, ok)
	g2.Unlock()
}
