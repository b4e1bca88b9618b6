package mcp

import (
	"context"
	"encoding/json"
	"testing"

	bridgehttp "github.com/aretw0/actionbridge/pkg/adapters/http"
	"github.com/aretw0/actionbridge/pkg/script"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	engine := script.New()
	engine.AddExecutor("echo", func(_ context.Context, args any) (any, error) {
		return args, nil
	})
	return NewServer(bridgehttp.NewHandler(engine), engine, "test")
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestHandleEvaluate(t *testing.T) {
	s := newTestServer()

	res, err := s.handleEvaluate(context.Background(), call(map[string]any{
		"script": `{"$exec":"echo","$args":{"$data":"/id"}}`,
		"data":   `{"id":7}`,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `7`, text(t, res))
}

func TestHandleEvaluate_Invalid(t *testing.T) {
	s := newTestServer()

	res, err := s.handleEvaluate(context.Background(), call(map[string]any{
		"script": `{"$exec":"echo","extra":true}`,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "status 400")
	assert.Contains(t, text(t, res), "script is invalid")
}

func TestHandleEvaluate_BadArguments(t *testing.T) {
	s := newTestServer()

	res, err := s.handleEvaluate(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), `"script" is required`)

	res, err = s.handleEvaluate(context.Background(), call(map[string]any{"script": "{"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "not valid JSON")
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer()

	res, err := s.handleValidate(context.Background(), call(map[string]any{"script": `{"$exec":"echo"}`}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":true}`, text(t, res))

	res, err = s.handleValidate(context.Background(), call(map[string]any{"script": `{"$exec":"nope"}`}))
	require.NoError(t, err)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, "script is invalid", resp.Error)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "/$exec", resp.Errors[0].DataPath)
}
