package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/aretw0/actionbridge/pkg/domain"
)

var (
	errNoHandler = errors.New("no host handler configured")
	errNoArgs    = errors.New("action arguments are required")
)

// InProcess is an http.RoundTripper that serves requests by calling the host
// application's ServeHTTP directly. No socket is opened.
//
// A panic inside the handler is reported as a *domain.TransportError: the
// host failed before producing a response.
type InProcess struct {
	Handler http.Handler
}

var _ http.RoundTripper = InProcess{}

// RoundTrip implements http.RoundTripper.
func (t InProcess) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	target := req.URL.RequestURI()
	if t.Handler == nil {
		return nil, &domain.TransportError{Method: req.Method, Path: target, Err: errNoHandler}
	}

	defer func() {
		if rec := recover(); rec != nil {
			resp = nil
			err = &domain.TransportError{
				Method: req.Method,
				Path:   target,
				Err:    fmt.Errorf("host handler panicked: %v", rec),
			}
		}
	}()

	rec := httptest.NewRecorder()
	t.Handler.ServeHTTP(rec, serverRequest(req))
	return rec.Result(), nil
}

// serverRequest turns an outgoing client request into what a server handler expects.
// Like http.Server, it starts from a fresh context so route state left by the
// caller's router never reaches the host mux.
// Only the request id is carried over.
func serverRequest(req *http.Request) *http.Request {
	ctx := context.Background()
	if id := domain.RequestID(req.Context()); id != "" {
		ctx = domain.WithRequestID(ctx, id)
	}
	in := req.Clone(ctx)
	in.RequestURI = req.URL.RequestURI()
	if in.Host == "" {
		in.Host = "actionbridge.local"
	}
	if in.RemoteAddr == "" {
		in.RemoteAddr = "127.0.0.1:0"
	}
	if in.Body == nil {
		in.Body = http.NoBody
	}
	return in
}
