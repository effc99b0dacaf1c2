package reactor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancellation_TriggerWakesAllWaiters(t *testing.T) {
	c := NewCancellation()
	const waiters = 5
	var wg sync.WaitGroup
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer wg.Done()
			err := c.WaitContext(context.Background())
			assert.NoError(t, err)
		}()
	}
	time.Sleep(10 * time.Millisecond)
	c.Trigger()
	wg.Wait()
	assert.True(t, c.IsSet())
}

func TestCancellation_TriggerIdempotent(t *testing.T) {
	c := NewCancellation()
	c.Trigger()
	c.Trigger()
	assert.True(t, c.IsSet())
}

func TestCancellation_AlreadySetWaitReturnsImmediately(t *testing.T) {
	c := NewCancellation()
	c.Trigger()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	err := c.WaitContext(ctx)
	require.NoError(t, err)
}
