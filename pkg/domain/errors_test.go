package domain_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseError_MessageIsBody(t *testing.T) {
	err := &domain.ResponseError{Status: 500, Body: map[string]any{"reason": "x"}}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(err.Error()), &decoded))
	assert.Equal(t, map[string]any{"reason": "x"}, decoded)
	assert.Equal(t, 500, err.StatusCode())
}

func TestResponseError_FallbackMessage(t *testing.T) {
	err := &domain.ResponseError{Status: 404}
	assert.Equal(t, "request failed with status 404", err.Error())
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &domain.TransportError{Method: "GET", Path: "/x", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "GET /x: boom", err.Error())
}

func TestHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.Hooks{
		OnDispatch: func(context.Context, *domain.DispatchEvent) { calls = append(calls, "a") },
	}
	b := domain.Hooks{
		OnDispatch:       func(context.Context, *domain.DispatchEvent) { calls = append(calls, "b") },
		OnMethodOverride: func(context.Context, *domain.OverrideEvent) { calls = append(calls, "override") },
	}

	merged := a.Merge(b)
	merged.OnDispatch(context.Background(), &domain.DispatchEvent{})
	merged.OnMethodOverride(context.Background(), &domain.OverrideEvent{})

	assert.Equal(t, []string{"a", "b", "override"}, calls)
	assert.Nil(t, merged.OnRequestHandled)
}
