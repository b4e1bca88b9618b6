package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidScript is the message reported when a script fails validation.
var ErrInvalidScript = errors.New("script is invalid")

// ErrMissingMethod is returned when an action reaches dispatch without a method.
var ErrMissingMethod = errors.New("action method is required")

// ErrUnknownMethod is returned for methods outside the supported set.
var ErrUnknownMethod = errors.New("unknown action method")

// ErrEmptyPath is returned when an action has no path.
var ErrEmptyPath = errors.New("action path must not be empty")

// ErrUnknownPolicy is returned when a policy token does not name a built-in policy.
var ErrUnknownPolicy = errors.New("unknown response policy")

// ErrExecutorNotFound is returned when a script references an unregistered executor.
var ErrExecutorNotFound = errors.New("executor not found")

// StatusCoder is implemented by errors that know which HTTP status they map to.
type StatusCoder interface {
	StatusCode() int
}

// ActionError reports an action descriptor that cannot be dispatched.
type ActionError struct {
	Err error
}

func (e *ActionError) Error() string { return e.Err.Error() }

func (e *ActionError) Unwrap() error { return e.Err }

// StatusCode implements StatusCoder.
func (e *ActionError) StatusCode() int { return http.StatusBadRequest }

// TransportError reports that the host application failed before producing a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError is raised by the body-only policy for responses with status >= 300.
// Its message is the JSON-encoded response body.
type ResponseError struct {
	Status int
	Body   any
}

func (e *ResponseError) Error() string {
	if e.Body == nil {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	data, err := json.Marshal(e.Body)
	if err != nil {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return string(data)
}

// StatusCode implements StatusCoder.
func (e *ResponseError) StatusCode() int { return e.Status }
