package reactor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGather2_BothSucceed(t *testing.T) {
	ctx := context.Background()
	a := NewTask(func(context.Context) (int, error) { return 1, nil })
	b := NewTask(func(context.Context) (string, error) { return "two", nil })

	r := Gather2[int, string](ctx, a, b)
	assert.NoError(t, r.A.Err)
	assert.Equal(t, 1, r.A.Value)
	assert.NoError(t, r.B.Err)
	assert.Equal(t, "two", r.B.Value)
}

func TestGather2_PartialFailureDoesNotSuppressOtherResult(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("b failed")
	a := NewTask(func(context.Context) (int, error) { return 5, nil })
	b := NewTask(func(context.Context) (string, error) { return "", wantErr })

	r := Gather2[int, string](ctx, a, b)
	assert.NoError(t, r.A.Err)
	assert.Equal(t, 5, r.A.Value)
	assert.ErrorIs(t, r.B.Err, wantErr)
}

// TestGather6_MixedAwaitableKinds exercises a six-way gather over plain
// Tasks, a SharedTask and a cancellation-wait, matching the spread of
// awaitable kinds the combinators are meant to compose over uniformly.
func TestGather6_MixedAwaitableKinds(t *testing.T) {
	ctx := context.Background()
	cancel := NewCancellation()
	cancel.Trigger()

	shared := NewSharedTask(func(context.Context) (int, error) { return 10, nil })

	r := Gather6[int, int, int, int, int, struct{}](
		ctx,
		NewTask(func(context.Context) (int, error) { return 1, nil }),
		NewTask(func(context.Context) (int, error) { return 2, nil }),
		NewTask(func(context.Context) (int, error) { return 3, nil }),
		NewTask(func(context.Context) (int, error) { return 4, nil }),
		shared,
		cancel.Wait(),
	)

	assert.Equal(t, 1, r.A.Value)
	assert.Equal(t, 2, r.B.Value)
	assert.Equal(t, 3, r.C.Value)
	assert.Equal(t, 4, r.D.Value)
	assert.Equal(t, 10, r.E.Value)
	assert.NoError(t, r.F.Err)
}

func TestGatherSlice_HomogeneousNAry(t *testing.T) {
	ctx := context.Background()
	aws := make([]Awaitable[int], 5)
	for i := range aws {
		i := i
		aws[i] = NewTask(func(context.Context) (int, error) { return i * i, nil })
	}
	results := GatherSlice[int](ctx, aws)
	for i, s := range results {
		assert.NoError(t, s.Err)
		assert.Equal(t, i*i, s.Value)
	}
}
