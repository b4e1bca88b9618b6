package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/aretw0/actionbridge/pkg/script"
)

// Engine validates and evaluates scripts on behalf of the handler.
type Engine interface {
	Validate(script any) error
	Evaluate(ctx context.Context, script any, data any) (any, error)
}

// Payload is the inbound evaluation request.
type Payload struct {
	Script any `json:"script"`
	Data   any `json:"data,omitempty"`
}

// Outcome is the HTTP answer to one Payload.
type Outcome struct {
	Status int
	Body   any
}

// ErrorBody is the JSON shape of every failed outcome.
type ErrorBody struct {
	Error  string         `json:"error"`
	Errors []script.Issue `json:"errors,omitempty"`
}

const (
	msgInvalidBody  = "request body is invalid"
	msgBodyTooLarge = "request body is too large"
)

// DefaultMaxBodySize bounds inbound payloads unless WithMaxBodySize says otherwise.
const DefaultMaxBodySize int64 = 1 << 20

// Handler is the front door: it validates a script, evaluates it, and maps the
// result to an HTTP status and body. It keeps no per-request state.
type Handler struct {
	engine  Engine
	logger  *slog.Logger
	hooks   domain.Hooks
	maxBody int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithHooks registers observability hooks. Only OnRequestHandled is used.
func WithHooks(hooks domain.Hooks) HandlerOption {
	return func(h *Handler) {
		h.hooks = hooks
	}
}

// WithMaxBodySize rejects request bodies larger than n bytes with 413.
// Zero or less disables the limit.
func WithMaxBodySize(n int64) HandlerOption {
	return func(h *Handler) {
		h.maxBody = n
	}
}

// NewHandler creates a Handler driving engine.
func NewHandler(engine Engine, opts ...HandlerOption) *Handler {
	h := &Handler{engine: engine, maxBody: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h
}

// Handle runs one evaluation request.
//
//   - invalid script: 400 {"error": "script is invalid", "errors": [...]}
//   - evaluation success: 200 with the evaluated value
//   - evaluation failure: the error's own status when it has one, 400 when it
//     carries issues, 500 otherwise; body {"error", "errors"}
func (h *Handler) Handle(ctx context.Context, p Payload) Outcome {
	start := time.Now()

	if err := h.engine.Validate(p.Script); err != nil {
		out := Outcome{
			Status: http.StatusBadRequest,
			Body:   ErrorBody{Error: domain.ErrInvalidScript.Error(), Errors: issuesOf(err)},
		}
		h.logger.InfoContext(ctx, "script rejected", "issues", len(issuesOf(err)), "error", err)
		h.report(ctx, domain.OutcomeRejected, out.Status, start)
		return out
	}

	value, err := h.engine.Evaluate(ctx, p.Script, p.Data)
	if err != nil {
		out := Outcome{
			Status: StatusOf(err),
			Body:   ErrorBody{Error: err.Error(), Errors: issuesOf(err)},
		}
		h.logger.WarnContext(ctx, "script evaluation failed", "status", out.Status, "error", err)
		h.report(ctx, domain.OutcomeErrored, out.Status, start)
		return out
	}

	h.report(ctx, domain.OutcomeFulfilled, http.StatusOK, start)
	return Outcome{Status: http.StatusOK, Body: value}
}

// ServeHTTP decodes a JSON Payload and writes the Outcome as JSON.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var p Payload
	if err := json.NewDecoder(body).Decode(&p); err != nil {
		status, msg := http.StatusBadRequest, msgInvalidBody
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status, msg = http.StatusRequestEntityTooLarge, msgBodyTooLarge
		}
		h.logger.InfoContext(r.Context(), "request body rejected", "status", status, "error", err)
		h.report(r.Context(), domain.OutcomeRejected, status, time.Now())
		writeJSON(r.Context(), h.logger, w, status, ErrorBody{Error: msg})
		return
	}

	out := h.Handle(r.Context(), p)
	writeJSON(r.Context(), h.logger, w, out.Status, out.Body)
}

func (h *Handler) report(ctx context.Context, outcome domain.Outcome, status int, start time.Time) {
	if h.hooks.OnRequestHandled == nil {
		return
	}
	h.hooks.OnRequestHandled(ctx, &domain.RequestEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRequestHandled},
		Outcome:   outcome,
		Status:    status,
		Elapsed:   time.Since(start),
	})
}

// StatusOf maps an evaluation error to an HTTP status.
// A StatusCode outside 100-599 is ignored.
func StatusOf(err error) int {
	var sc domain.StatusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 100 && code <= 599 {
			return code
		}
	}
	var il script.IssueLister
	if errors.As(err, &il) && il.IssueList() != nil {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func issuesOf(err error) []script.Issue {
	var il script.IssueLister
	if errors.As(err, &il) {
		return il.IssueList()
	}
	return nil
}

func writeJSON(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ErrorContext(ctx, "response encode failed", "error", err)
	}
}
