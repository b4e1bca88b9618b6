package dispatch_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/actionbridge/pkg/dispatch"
	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/aretw0/actionbridge/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortcut_ForcesMethod(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	var overrides []*domain.OverrideEvent
	hooks := domain.Hooks{
		OnMethodOverride: func(_ context.Context, e *domain.OverrideEvent) {
			overrides = append(overrides, e)
		},
	}
	d, rec := newSample(dispatch.WithLogger(logger), dispatch.WithHooks(hooks))

	post := d.Shortcut(domain.MethodPost)
	v, err := post(context.Background(), map[string]any{
		"method": "get",
		"path":   "/object",
		"body":   map[string]any{"foo": "bar"},
	})
	require.NoError(t, err, "a method mismatch must never fail the dispatch")

	require.Equal(t, 1, rec.count())
	assert.Equal(t, "POST", rec.reqs[0].Method)

	resp := v.(domain.Response)
	assert.Equal(t, domain.MethodPost, resp.Request.Method)

	require.Len(t, overrides, 1)
	assert.Equal(t, domain.Method("get"), overrides[0].Declared)
	assert.Equal(t, domain.MethodPost, overrides[0].Enforced)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "declared=get")
	assert.Contains(t, logs.String(), "enforced=post")
}

func TestShortcut_NoWarningWithoutMismatch(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	d, _ := newSample(dispatch.WithLogger(logger))

	get := d.Shortcut(domain.MethodGet)

	// No embedded method.
	v, err := get(context.Background(), map[string]any{"path": "/object/1"})
	require.NoError(t, err)
	assert.Equal(t, domain.Action{Method: "get", Path: "/object/1"}, v.(domain.Response).Request)

	// Same verb in another case.
	_, err = get(context.Background(), map[string]any{"method": "GET", "path": "/object/1"})
	require.NoError(t, err)

	assert.NotContains(t, logs.String(), "WARN")
}

func TestShortcut_InvalidArgs(t *testing.T) {
	d, rec := newSample()

	_, err := d.Shortcut(domain.MethodGet)(context.Background(), nil)
	assert.Error(t, err)

	_, err = d.Shortcut(domain.MethodGet)(context.Background(), "not an object")
	assert.Error(t, err)

	assert.Equal(t, 0, rec.count())
}

func TestRegister(t *testing.T) {
	d, _ := newSample()
	reg := registry.NewRegistry()
	d.Register(reg, "router")

	assert.True(t, reg.Has("router", ""))
	for _, m := range domain.Methods {
		assert.True(t, reg.Has("router", string(m)), "missing shortcut %s", m)
	}

	v, err := reg.Execute(context.Background(), "router", "put", map[string]any{
		"path": "/object/3",
		"body": map[string]any{"a": 1.0},
	})
	require.NoError(t, err)
	body := v.(domain.Response).Body.(map[string]any)
	assert.Equal(t, "3", body["id"])
	assert.Equal(t, map[string]any{"a": 1.0}, body["data"])
}

func TestDecodeAction(t *testing.T) {
	action, err := dispatch.DecodeAction(map[string]any{
		"method":  "post",
		"path":    "/x",
		"headers": map[string]any{"X-Num": 5},
		"body":    []any{1.0, 2.0},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Action{
		Method:  "post",
		Path:    "/x",
		Headers: map[string]string{"X-Num": "5"},
		Body:    []any{1.0, 2.0},
	}, action)

	same, err := dispatch.DecodeAction(action)
	require.NoError(t, err)
	assert.Equal(t, action, same)

	tagged, err := dispatch.DecodeAction(map[string]any{"method": "get", "path": "/x", "tag": "a"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tag": "a"}, tagged.Extra)
}
