package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch       EventType = "dispatch"
	EventDispatchDone   EventType = "dispatch_done"
	EventMethodOverride EventType = "method_override"
	EventRequestHandled EventType = "request_handled"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// DispatchEvent describes one action sent to the host application.
// Status, Duration and Err are only set on EventDispatchDone.
type DispatchEvent struct {
	EventBase
	Action   Action        `json:"action"`
	Status   int           `json:"status,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// OverrideEvent is emitted when a shortcut replaces the method embedded in an action.
type OverrideEvent struct {
	EventBase
	Declared Method `json:"declared"`
	Enforced Method `json:"enforced"`
	Path     string `json:"path"`
}

// Outcome is the terminal state of one inbound evaluation request.
type Outcome string

const (
	OutcomeFulfilled Outcome = "fulfilled"
	OutcomeRejected  Outcome = "rejected"
	OutcomeErrored   Outcome = "errored"
)

// RequestEvent reports how the request handler finished.
type RequestEvent struct {
	EventBase
	Outcome Outcome       `json:"outcome"`
	Status  int           `json:"status"`
	Elapsed time.Duration `json:"elapsed"`
}

// Hooks defines callbacks for bridge observability.
// Nil callbacks are skipped.
type Hooks struct {
	OnDispatch       func(context.Context, *DispatchEvent)
	OnDispatchDone   func(context.Context, *DispatchEvent)
	OnMethodOverride func(context.Context, *OverrideEvent)
	OnRequestHandled func(context.Context, *RequestEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnDispatch:       chain(h.OnDispatch, other.OnDispatch),
		OnDispatchDone:   chain(h.OnDispatchDone, other.OnDispatchDone),
		OnMethodOverride: chain(h.OnMethodOverride, other.OnMethodOverride),
		OnRequestHandled: chain(h.OnRequestHandled, other.OnRequestHandled),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
