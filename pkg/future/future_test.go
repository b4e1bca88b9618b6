package future_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/actionbridge/pkg/future"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories(t *testing.T) {
	factories := map[string]future.Factory{
		"New":    future.New,
		"Inline": future.Inline,
	}

	for name, factory := range factories {
		t.Run(name+"/Resolve", func(t *testing.T) {
			f := factory(func(resolve func(any), reject func(error)) {
				resolve(42)
			})
			v, err := f.Await(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 42, v)
		})

		t.Run(name+"/Reject", func(t *testing.T) {
			boom := errors.New("boom")
			f := factory(func(resolve func(any), reject func(error)) {
				reject(boom)
			})
			_, err := f.Await(context.Background())
			assert.ErrorIs(t, err, boom)
		})

		t.Run(name+"/SettlesOnce", func(t *testing.T) {
			f := factory(func(resolve func(any), reject func(error)) {
				resolve("first")
				reject(errors.New("ignored"))
				resolve("ignored")
			})
			v, err := f.Await(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "first", v)
		})

		t.Run(name+"/Panic", func(t *testing.T) {
			f := factory(func(resolve func(any), reject func(error)) {
				panic("bad resolver")
			})
			_, err := f.Await(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "bad resolver")
		})
	}
}

func TestAwait_ContextDone(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	f := future.New(func(resolve func(any), reject func(error)) {
		<-release
		resolve("late")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSettled(t *testing.T) {
	v, err := future.Resolved("ok").Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	boom := errors.New("boom")
	_, err = future.Rejected(boom).Await(context.Background())
	assert.ErrorIs(t, err, boom)
}
