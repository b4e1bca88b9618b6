package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/actionbridge/pkg/registry"
	"github.com/go-openapi/jsonpointer"
	"golang.org/x/sync/errgroup"
)

// Instruction keywords.
const (
	KeyExec   = "$exec"
	KeyMethod = "$method"
	KeyArgs   = "$args"
	KeyData   = "$data"

	macroPrefix = "$$"
)

// Engine validates and evaluates scripts, calling registered executors for
// every $exec instruction.
// Object members are evaluated concurrently, array items in order.
type Engine struct {
	executors *registry.Registry
	strict    bool
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStrict rejects unknown properties next to instruction keywords.
// Strict mode is on by default.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithRegistry makes the engine resolve executors from reg.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.executors = reg
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine with an empty executor registry unless one is supplied.
func New(opts ...Option) *Engine {
	e := &Engine{strict: true}
	for _, opt := range opts {
		opt(e)
	}
	if e.executors == nil {
		e.executors = registry.NewRegistry()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// AddExecutor registers fn as the executor called by {"$exec": name}.
func (e *Engine) AddExecutor(name string, fn registry.ExecutorFunc) {
	e.executors.Register(name, fn)
}

// AddExecutorMethod registers fn for {"$exec": name, "$method": method}.
func (e *Engine) AddExecutorMethod(name, method string, fn registry.ExecutorFunc) {
	e.executors.RegisterMethod(name, method, fn)
}

// Registry exposes the executor registry.
func (e *Engine) Registry() *registry.Registry {
	return e.executors
}

// Strict reports whether the engine runs in strict mode.
func (e *Engine) Strict() bool {
	return e.strict
}

// Validate checks script against the grammar and the registered executors.
// It returns nil or a *ValidationError listing every issue found.
func (e *Engine) Validate(script any) error {
	_, issues := e.prepare(script)
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Evaluate runs script against data.
// Invalid scripts fail with a *ValidationError before any executor runs.
// Executor errors are returned unchanged.
func (e *Engine) Evaluate(ctx context.Context, script any, data any) (any, error) {
	expanded, issues := e.prepare(script)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return e.eval(ctx, expanded, data)
}

func (e *Engine) prepare(script any) (any, []Issue) {
	v := &validator{engine: e}
	expanded := v.expand(script, "")
	v.check(expanded, "")
	return expanded, v.issues
}

func (e *Engine) eval(ctx context.Context, node any, data any) (any, error) {
	switch n := node.(type) {
	case []any:
		return e.evalSequence(ctx, n, data)
	case map[string]any:
		if _, ok := n[KeyExec]; ok {
			return e.evalExec(ctx, n, data)
		}
		if ptr, ok := n[KeyData]; ok {
			return resolveData(ptr.(string), data)
		}
		return e.evalParallel(ctx, n, data)
	default:
		return node, nil
	}
}

func (e *Engine) evalSequence(ctx context.Context, items []any, data any) (any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		v, err := e.eval(ctx, item, data)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Engine) evalParallel(ctx context.Context, obj map[string]any, data any) (any, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	values := make([]any, len(keys))

	var g errgroup.Group
	for i, k := range keys {
		g.Go(func() error {
			v, err := e.eval(ctx, obj[k], data)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(keys))
	for i, k := range keys {
		out[k] = values[i]
	}
	return out, nil
}

func (e *Engine) evalExec(ctx context.Context, instr map[string]any, data any) (any, error) {
	name := instr[KeyExec].(string)
	method, _ := instr[KeyMethod].(string)

	var args any
	if raw, ok := instr[KeyArgs]; ok {
		v, err := e.eval(ctx, raw, data)
		if err != nil {
			return nil, err
		}
		args = v
	}

	e.logger.DebugContext(ctx, "executing instruction", "executor", name, "method", method)
	return e.executors.Execute(ctx, name, method, args)
}

func resolveData(ptr string, data any) (any, error) {
	p, err := jsonpointer.New(ptr)
	if err != nil {
		return nil, dataError(ptr, err)
	}
	v, _, err := p.Get(data)
	if err != nil {
		return nil, dataError(ptr, err)
	}
	return v, nil
}

func dataError(ptr string, err error) error {
	msg := fmt.Sprintf("data not found at %q", ptr)
	return &EvaluationError{
		Status:  http.StatusBadRequest,
		Message: msg,
		Issues:  []Issue{{Keyword: KeyData, DataPath: ptr, Message: fmt.Sprintf("%s: %v", msg, err)}},
	}
}
