// Package policy decides what a script observes for a dispatched action:
// a value, or an error.
package policy

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/actionbridge/pkg/domain"
)

// Func turns a raw host response for action into the value (or error) handed
// back to the evaluation engine.
type Func func(resp *domain.RawResponse, action domain.Action) (any, error)

// Built-in policy tokens.
const (
	NameDefault = "default"
	NameBody    = "body"
)

// Default projects the response to {statusCode, headers, body} and attaches the
// originating action as request. It never fails, whatever the status code.
func Default(resp *domain.RawResponse, action domain.Action) (any, error) {
	return domain.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Request:    action,
	}, nil
}

// BodyOnly returns the response body for statuses below 300 and a
// *domain.ResponseError carrying the status otherwise.
func BodyOnly(resp *domain.RawResponse, _ domain.Action) (any, error) {
	if resp.StatusCode < http.StatusMultipleChoices {
		return resp.Body, nil
	}
	return nil, &domain.ResponseError{Status: resp.StatusCode, Body: resp.Body}
}

// Resolve picks the policy once at configuration time.
// A non-nil custom function wins; otherwise name selects a built-in, and an
// empty name means Default.
func Resolve(name string, custom Func) (Func, error) {
	if custom != nil {
		return custom, nil
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameDefault:
		return Default, nil
	case NameBody:
		return BodyOnly, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPolicy, name)
}
