package result

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_ResolveOnce(t *testing.T) {
	f := NewFuture()
	first := NoResponse("a", 1, nil)
	go f.Resolve(first)

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, got)

	f.Resolve(NoResponse("b", 2, nil))
	f.Fail(errors.New("late"))
	got, err = f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestFuture_Rejected(t *testing.T) {
	boom := errors.New("boom")
	_, err := Rejected(boom).Await(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFuture_AwaitHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewFuture().Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
