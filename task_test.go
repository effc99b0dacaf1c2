package reactor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_AwaitReturnsValue(t *testing.T) {
	task := NewTask(func(ctx context.Context) (int, error) {
		return 42, nil
	})
	assert.False(t, task.Ready())

	v, err := task.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, task.Ready())
}

func TestTask_AwaitPropagatesFailure(t *testing.T) {
	wantErr := errors.New("boom")
	task := NewTask(func(ctx context.Context) (int, error) {
		return 0, wantErr
	})
	_, err := task.Await(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

func TestTask_LazyStart(t *testing.T) {
	started := make(chan struct{})
	task := NewTask(func(ctx context.Context) (int, error) {
		close(started)
		return 1, nil
	})

	select {
	case <-started:
		t.Fatal("task body ran before Await/Start was called")
	case <-time.After(20 * time.Millisecond):
	}

	_, err := task.Await(context.Background())
	require.NoError(t, err)
	select {
	case <-started:
	default:
		t.Fatal("task body never ran")
	}
}

func TestTask_PanicRecoveredAsFailure(t *testing.T) {
	task := NewTask(func(ctx context.Context) (int, error) {
		panic("kaboom")
	})
	_, err := task.Await(context.Background())
	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "kaboom", panicErr.Value)
}

func TestTask_ReferenceTypedResult(t *testing.T) {
	type thing struct{ n int }
	task := NewTask(func(ctx context.Context) (*thing, error) {
		return &thing{n: 7}, nil
	})
	v, err := task.Await(context.Background())
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 7, v.n)
}

func TestTask_AwaitContextCancellation(t *testing.T) {
	release := make(chan struct{})
	task := NewTask(func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := task.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)

	// The task itself keeps running to completion in the background; a
	// fresh Await (without timeout) observes its eventual result.
	v, err := task.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
