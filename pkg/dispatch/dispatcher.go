package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/aretw0/actionbridge/pkg/future"
	"github.com/aretw0/actionbridge/pkg/policy"
	"github.com/aretw0/actionbridge/pkg/registry"
)

// Dispatcher turns action descriptors into HTTP calls against the host
// application and normalizes the answers.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	transport http.RoundTripper
	basePath  string
	normalize policy.Func
	futures   future.Factory
	logger    *slog.Logger
	hooks     domain.Hooks
}

// Option defines a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithBasePath sets the prefix prepended to every action path.
func WithBasePath(prefix string) Option {
	return func(d *Dispatcher) {
		d.basePath = prefix
	}
}

// WithPolicy sets the normalization applied to every response.
func WithPolicy(fn policy.Func) Option {
	return func(d *Dispatcher) {
		d.normalize = fn
	}
}

// WithFutureFactory sets how dispatch futures are constructed.
func WithFutureFactory(f future.Factory) Option {
	return func(d *Dispatcher) {
		d.futures = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// New creates a Dispatcher sending requests through transport.
// Use InProcess{Handler: app} to target a host application without a socket.
func New(transport http.RoundTripper, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport: transport,
		normalize: policy.Default,
		futures:   future.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Dispatch issues one request for action and returns a future that settles
// with the normalized result, or with the transport or policy error.
func (d *Dispatcher) Dispatch(ctx context.Context, action domain.Action) future.Future {
	return d.futures(func(resolve func(any), reject func(error)) {
		v, err := d.roundTrip(ctx, action)
		if err != nil {
			reject(err)
			return
		}
		resolve(v)
	})
}

// Execute is the general executor: the method comes from the action itself.
func (d *Dispatcher) Execute(ctx context.Context, args any) (any, error) {
	action, err := DecodeAction(args)
	if err != nil {
		return nil, err
	}
	return d.Dispatch(ctx, action).Await(ctx)
}

// Register installs the general executor under name and one shortcut per
// method under name.<method>.
func (d *Dispatcher) Register(reg *registry.Registry, name string) {
	reg.Register(name, d.Execute)
	for _, m := range domain.Methods {
		reg.RegisterMethod(name, string(m), d.Shortcut(m))
	}
}

func (d *Dispatcher) roundTrip(ctx context.Context, action domain.Action) (any, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}

	// The dispatch runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	req, err := d.newRequest(ctx, action)
	if err != nil {
		return nil, &domain.ActionError{Err: err}
	}

	start := time.Now()
	if d.hooks.OnDispatch != nil {
		d.hooks.OnDispatch(ctx, &domain.DispatchEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventDispatch},
			Action:    action,
		})
	}
	d.logger.DebugContext(ctx, "dispatching action", "method", req.Method, "path", req.URL.RequestURI())

	resp, err := d.transport.RoundTrip(req)
	if err != nil {
		d.done(ctx, action, start, 0, err)
		d.logger.WarnContext(ctx, "dispatch failed", "method", req.Method, "path", req.URL.RequestURI(), "error", err)
		return nil, err
	}

	raw, err := readResponse(resp)
	if err != nil {
		err = &domain.TransportError{Method: req.Method, Path: req.URL.RequestURI(), Err: err}
		d.done(ctx, action, start, resp.StatusCode, err)
		return nil, err
	}
	d.done(ctx, action, start, raw.StatusCode, nil)

	return d.normalize(raw, action)
}

func (d *Dispatcher) done(ctx context.Context, action domain.Action, start time.Time, status int, err error) {
	elapsed := time.Since(start)
	d.logger.DebugContext(ctx, "action dispatched",
		"method", action.Method.Verb(),
		"path", action.Path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
	)
	if d.hooks.OnDispatchDone != nil {
		d.hooks.OnDispatchDone(ctx, &domain.DispatchEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDispatchDone},
			Action:    action,
			Status:    status,
			Duration:  elapsed,
			Err:       err,
		})
	}
}

func (d *Dispatcher) newRequest(ctx context.Context, action domain.Action) (*http.Request, error) {
	body, contentType, err := encodeBody(action.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, action.Method.Verb(), d.basePath+action.Path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for name, value := range action.Headers {
		req.Header.Set(name, value)
	}
	return req, nil
}

// encodeBody serializes an action body. Strings and byte slices are sent as
// they are; everything else is JSON.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(b), "text/plain; charset=utf-8", nil
	case []byte:
		return bytes.NewReader(b), "application/octet-stream", nil
	case json.RawMessage:
		return bytes.NewReader(b), "application/json", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("encode action body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func readResponse(resp *http.Response) (*domain.RawResponse, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &domain.RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       decodeBody(resp.Header.Get("Content-Type"), data),
	}, nil
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		out[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return out
}

// decodeBody parses JSON payloads; other non-empty payloads are kept as text.
func decodeBody(contentType string, data []byte) any {
	if len(data) == 0 {
		return nil
	}
	if isJSON(contentType) {
		var v any
		if err := json.Unmarshal(data, &v); err == nil {
			return v
		}
	}
	return string(data)
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
