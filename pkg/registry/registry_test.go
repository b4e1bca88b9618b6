package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/aretw0/actionbridge/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Execute(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register("echo", func(ctx context.Context, args any) (any, error) {
		return args, nil
	})
	reg.RegisterMethod("echo", "upper", func(ctx context.Context, args any) (any, error) {
		return "UPPER", nil
	})

	ctx := context.Background()

	v, err := reg.Execute(ctx, "echo", "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	v, err = reg.Execute(ctx, "echo", "upper", "hi")
	require.NoError(t, err)
	assert.Equal(t, "UPPER", v)
}

func TestRegistry_NotFound(t *testing.T) {
	reg := registry.NewRegistry()
	reg.RegisterMethod("router", "get", func(ctx context.Context, args any) (any, error) { return nil, nil })

	_, err := reg.Execute(context.Background(), "missing", "", nil)
	assert.ErrorIs(t, err, domain.ErrExecutorNotFound)

	_, err = reg.Execute(context.Background(), "router", "patch", nil)
	assert.ErrorIs(t, err, domain.ErrExecutorNotFound)

	// Only methods registered: the bare executor is not callable.
	assert.False(t, reg.Has("router", ""))
	assert.True(t, reg.Has("router", "get"))
}

func TestRegistry_ErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	reg := registry.NewRegistry()
	reg.Register("fail", func(ctx context.Context, args any) (any, error) { return nil, boom })

	_, err := reg.Execute(context.Background(), "fail", "", nil)
	assert.Equal(t, boom, err)
}

func TestRegistry_Names(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register("b", func(ctx context.Context, args any) (any, error) { return nil, nil })
	reg.RegisterMethod("a", "x", func(ctx context.Context, args any) (any, error) { return nil, nil })

	assert.Equal(t, []string{"a", "b"}, reg.Names())
}
