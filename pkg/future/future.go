// Package future provides the settle-once result type dispatches are delivered through.
//
// The dispatcher never constructs a Future directly; it asks a Factory for one.
// Hosts that need a different scheduling model (inline execution, a worker pool,
// instrumentation) inject their own Factory.
package future

import (
	"context"
	"fmt"
	"sync"
)

// Future is a value that becomes available once.
type Future interface {
	// Await blocks until the future settles or ctx is done.
	// A done ctx only stops the wait; the underlying work keeps running.
	Await(ctx context.Context) (any, error)
}

// Resolver performs the work behind a future and settles it exactly once.
// Calls after the first settle are ignored.
type Resolver func(resolve func(any), reject func(error))

// Factory builds a Future from a Resolver.
type Factory func(Resolver) Future

// promise is the default Future: a channel closed on settle.
type promise struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

func newPromise() *promise {
	return &promise{done: make(chan struct{})}
}

func (p *promise) resolve(v any) {
	p.once.Do(func() {
		p.value = v
		close(p.done)
	})
}

func (p *promise) reject(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

func (p *promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run executes the resolver, turning a panic into a rejection so a
// misbehaving resolver can never leave the future pending.
func (p *promise) run(r Resolver) {
	defer func() {
		if rec := recover(); rec != nil {
			p.reject(fmt.Errorf("future: resolver panicked: %v", rec))
		}
	}()
	r(p.resolve, p.reject)
}

// New runs r on its own goroutine. It is the default Factory.
func New(r Resolver) Future {
	p := newPromise()
	go p.run(r)
	return p
}

// Inline runs r on the caller's goroutine before returning.
// Useful where spawning goroutines per dispatch is undesirable.
func Inline(r Resolver) Future {
	p := newPromise()
	p.run(r)
	return p
}

// Resolved returns a future already settled with v.
func Resolved(v any) Future {
	p := newPromise()
	p.resolve(v)
	return p
}

// Rejected returns a future already settled with err.
func Rejected(err error) Future {
	p := newPromise()
	p.reject(err)
	return p
}
