package actionbridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	bridgehttp "github.com/aretw0/actionbridge/pkg/adapters/http"
	"github.com/aretw0/actionbridge/pkg/dispatch"
	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/aretw0/actionbridge/pkg/future"
	"github.com/aretw0/actionbridge/pkg/policy"
	"github.com/aretw0/actionbridge/pkg/script"
)

// DefaultExecutor is the name under which the router executor is registered.
const DefaultExecutor = "router"

var errNoApp = errors.New("actionbridge: a host application or a transport is required")

// Bridge connects a script engine to a host application: router instructions
// in a script become in-process HTTP requests against the app.
// A Bridge is read-only after New and safe for concurrent use.
type Bridge struct {
	app        http.Handler
	executor   string
	basePath   string
	policyName string
	custom     policy.Func
	futures    future.Factory
	engineOpts []script.Option
	transport  http.RoundTripper
	hooks      domain.Hooks
	logger     *slog.Logger

	engine     *script.Engine
	dispatcher *dispatch.Dispatcher
	handler    *bridgehttp.Handler
}

// Option defines a functional option for configuring the Bridge.
type Option func(*Bridge)

// WithExecutorName sets the executor name scripts use (default "router").
func WithExecutorName(name string) Option {
	return func(b *Bridge) {
		b.executor = name
	}
}

// WithBasePath sets the prefix prepended to every action path.
func WithBasePath(prefix string) Option {
	return func(b *Bridge) {
		b.basePath = prefix
	}
}

// WithEngineOptions passes options to the script engine. Strict mode is on
// unless script.WithStrict(false) is given.
func WithEngineOptions(opts ...script.Option) Option {
	return func(b *Bridge) {
		b.engineOpts = append(b.engineOpts, opts...)
	}
}

// WithFutureFactory sets how dispatch futures are constructed.
func WithFutureFactory(f future.Factory) Option {
	return func(b *Bridge) {
		b.futures = f
	}
}

// WithPolicy selects a built-in response policy by token: "default" or "body".
func WithPolicy(name string) Option {
	return func(b *Bridge) {
		b.policyName = name
	}
}

// WithCustomPolicy sets a caller supplied response policy. It wins over WithPolicy.
func WithCustomPolicy(fn policy.Func) Option {
	return func(b *Bridge) {
		b.custom = fn
	}
}

// WithTransport replaces the in-process transport, e.g. to reach a remote app.
func WithTransport(rt http.RoundTripper) Option {
	return func(b *Bridge) {
		b.transport = rt
	}
}

// WithHooks registers observability hooks. Repeated calls are merged.
func WithHooks(hooks domain.Hooks) Option {
	return func(b *Bridge) {
		b.hooks = b.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// New wires a script engine, a dispatcher and a request handler around app.
func New(app http.Handler, opts ...Option) (*Bridge, error) {
	b := &Bridge{
		app:      app,
		executor: DefaultExecutor,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if b.transport == nil {
		if app == nil {
			return nil, errNoApp
		}
		b.transport = dispatch.InProcess{Handler: app}
	}
	if strings.TrimSpace(b.executor) == "" {
		return nil, errors.New("actionbridge: executor name must not be empty")
	}

	normalize, err := policy.Resolve(b.policyName, b.custom)
	if err != nil {
		return nil, err
	}

	dispatchOpts := []dispatch.Option{
		dispatch.WithBasePath(b.basePath),
		dispatch.WithPolicy(normalize),
		dispatch.WithLogger(b.logger),
		dispatch.WithHooks(b.hooks),
	}
	if b.futures != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithFutureFactory(b.futures))
	}
	b.dispatcher = dispatch.New(b.transport, dispatchOpts...)

	b.engine = script.New(append([]script.Option{script.WithLogger(b.logger)}, b.engineOpts...)...)
	b.dispatcher.Register(b.engine.Registry(), b.executor)

	b.handler = bridgehttp.NewHandler(b.engine,
		bridgehttp.WithLogger(b.logger),
		bridgehttp.WithHooks(b.hooks),
	)

	b.logger.Debug("bridge ready", "executor", b.executor, "base_path", b.basePath)
	return b, nil
}

// ServeHTTP accepts {"script", "data"} and answers with the evaluation outcome.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.handler.ServeHTTP(w, r)
}

// Handle evaluates one payload without going through HTTP encoding.
func (b *Bridge) Handle(ctx context.Context, p bridgehttp.Payload) bridgehttp.Outcome {
	return b.handler.Handle(ctx, p)
}

// Router returns the full HTTP surface: the evaluation endpoint, health and
// info routes, and the host application mounted at "/".
func (b *Bridge) Router(opts ...bridgehttp.RouterOption) (http.Handler, error) {
	base := []bridgehttp.RouterOption{
		bridgehttp.WithRouterLogger(b.logger),
		bridgehttp.WithVersion(Version),
	}
	if b.app != nil {
		base = append(base, bridgehttp.WithApp(b.app))
	}
	return bridgehttp.NewRouter(b.handler, append(base, opts...)...)
}

// Engine exposes the script engine, e.g. to register more executors.
func (b *Bridge) Engine() *script.Engine { return b.engine }

// Dispatcher exposes the dispatcher behind the router executor.
func (b *Bridge) Dispatcher() *dispatch.Dispatcher { return b.dispatcher }

// Handler exposes the request handler.
func (b *Bridge) Handler() *bridgehttp.Handler { return b.handler }

// ExecutorName returns the name the router executor is registered under.
func (b *Bridge) ExecutorName() string { return b.executor }
