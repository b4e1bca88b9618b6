package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	bridgehttp "github.com/aretw0/actionbridge/pkg/adapters/http"
	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/aretw0/actionbridge/pkg/script"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ValidateResponse is the result of the validate_script tool.
type ValidateResponse struct {
	Valid  bool           `json:"valid"`
	Error  string         `json:"error,omitempty"`
	Errors []script.Issue `json:"errors,omitempty"`
}

// Server exposes script evaluation as MCP tools.
// Evaluation goes through the same request handler as the HTTP endpoint, so
// outcomes match.
type Server struct {
	handler   *bridgehttp.Handler
	engine    bridgehttp.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(handler *bridgehttp.Handler, engine bridgehttp.Engine, version string, opts ...Option) *Server {
	s := &Server{
		handler:   handler,
		engine:    engine,
		mcpServer: server.NewMCPServer("actionbridge-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("evaluate_script",
		mcp.WithDescription("Evaluate a script. Router instructions are dispatched to the host application."),
		mcp.WithString("script", mcp.Required(), mcp.Description("JSON encoded script")),
		mcp.WithString("data", mcp.Description("JSON encoded data referenced by $data (optional)")),
	), s.handleEvaluate)

	s.mcpServer.AddTool(mcp.NewTool("validate_script",
		mcp.WithDescription("Validate a script without evaluating it."),
		mcp.WithString("script", mcp.Required(), mcp.Description("JSON encoded script")),
	), s.handleValidate)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("actionbridge://openapi", "HTTP API description",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		doc, err := bridgehttp.LoadSpec(ctx, "")
		if err != nil {
			return nil, err
		}
		jsonBytes, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode api description: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "actionbridge://openapi",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := decodeArg(request, "script", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := decodeArg(request, "data", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := s.handler.Handle(ctx, bridgehttp.Payload{Script: src, Data: data})
	jsonBytes, err := json.Marshal(out.Body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	if out.Status != http.StatusOK {
		s.logger.DebugContext(ctx, "MCP evaluate_script failed", "status", out.Status)
		return mcp.NewToolResultError(fmt.Sprintf("status %d: %s", out.Status, jsonBytes)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := decodeArg(request, "script", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := ValidateResponse{Valid: true}
	if err := s.engine.Validate(src); err != nil {
		resp.Valid = false
		resp.Error = domain.ErrInvalidScript.Error()
		var il script.IssueLister
		if errors.As(err, &il) {
			resp.Errors = il.IssueList()
		}
	}

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// decodeArg reads a JSON encoded string argument.
func decodeArg(request mcp.CallToolRequest, name string, required bool) (any, error) {
	raw, ok := request.GetArguments()[name].(string)
	if !ok || raw == "" {
		if required {
			return nil, fmt.Errorf("argument %q is required", name)
		}
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("argument %q is not valid JSON: %w", name, err)
	}
	return v, nil
}
