package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// Method is an HTTP verb an action may use.
// Scripts may spell it in any case; Verb returns the wire form.
type Method string

// Supported methods. The lower-case spelling matches the shortcut names
// scripts use (e.g. "$$router.get").
const (
	MethodGet    Method = "get"
	MethodPost   Method = "post"
	MethodPut    Method = "put"
	MethodDelete Method = "delete"
)

// Methods lists every supported method in shortcut-table order.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete}

// Verb returns the upper-case HTTP verb.
func (m Method) Verb() string {
	return strings.ToUpper(string(m))
}

// Valid reports whether m is one of the supported methods, ignoring case.
func (m Method) Valid() bool {
	switch Method(strings.ToLower(string(m))) {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// Same reports whether two methods name the same verb.
func (m Method) Same(other Method) bool {
	return strings.EqualFold(string(m), string(other))
}

// ParseMethod validates s and returns it as a Method, keeping the caller's spelling.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
	return m, nil
}

// Action describes one HTTP call a script wants executed against the host application.
// Empty Headers and Body are omitted when serialized so the echoed descriptor
// matches what the script supplied. Extra keeps any other argument keys; they
// are never sent to the host but are echoed back alongside the descriptor.
type Action struct {
	Method  Method            `json:"method" mapstructure:"method"`
	Path    string            `json:"path" mapstructure:"path"`
	Headers map[string]string `json:"headers,omitempty" mapstructure:"headers"`
	Body    any               `json:"body,omitempty" mapstructure:"body"`
	Extra   map[string]any    `json:"-" mapstructure:",remain"`
}

// MarshalJSON writes the descriptor fields merged over Extra.
func (a Action) MarshalJSON() ([]byte, error) {
	type plain Action
	if len(a.Extra) == 0 {
		return json.Marshal(plain(a))
	}
	out := maps.Clone(a.Extra)
	out["method"] = a.Method
	out["path"] = a.Path
	delete(out, "headers")
	delete(out, "body")
	if len(a.Headers) > 0 {
		out["headers"] = a.Headers
	}
	if a.Body != nil {
		out["body"] = a.Body
	}
	return json.Marshal(out)
}

// Validate checks the invariants dispatch relies on.
func (a Action) Validate() error {
	if a.Method == "" {
		return &ActionError{Err: ErrMissingMethod}
	}
	if !a.Method.Valid() {
		return &ActionError{Err: fmt.Errorf("%w: %q", ErrUnknownMethod, a.Method)}
	}
	if a.Path == "" {
		return &ActionError{Err: ErrEmptyPath}
	}
	return nil
}

// WithMethod returns a copy of a with its method replaced.
// Headers and Extra are copied so the caller's maps are never shared with the dispatch.
func (a Action) WithMethod(m Method) Action {
	out := a
	out.Method = m
	out.Headers = maps.Clone(a.Headers)
	out.Extra = maps.Clone(a.Extra)
	return out
}
