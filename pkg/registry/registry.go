package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/actionbridge/pkg/domain"
)

// ExecutorFunc defines the signature for an executor implementation.
// It receives a context and the already-evaluated arguments of an $exec
// instruction, and returns a result or error.
type ExecutorFunc func(ctx context.Context, args any) (any, error)

type executor struct {
	call    ExecutorFunc
	methods map[string]ExecutorFunc
}

// Registry manages the available executors.
// An executor may be callable by itself, expose named methods, or both.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]*executor
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]*executor),
	}
}

// Register installs fn as the direct call of the executor name.
// If a call with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn ExecutorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entry(name).call = fn
}

// RegisterMethod installs fn as method of the executor name.
func (r *Registry) RegisterMethod(name, method string, fn ExecutorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entry(name)
	if e.methods == nil {
		e.methods = make(map[string]ExecutorFunc)
	}
	e.methods[method] = fn
}

func (r *Registry) entry(name string) *executor {
	e, ok := r.executors[name]
	if !ok {
		e = &executor{}
		r.executors[name] = e
	}
	return e
}

// Lookup returns the function behind name, or behind name.method when method is set.
func (r *Registry) Lookup(name, method string) (ExecutorFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.executors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrExecutorNotFound, name)
	}
	if method == "" {
		if e.call == nil {
			return nil, fmt.Errorf("%w: %s is not callable without a method", domain.ErrExecutorNotFound, name)
		}
		return e.call, nil
	}
	fn, ok := e.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", domain.ErrExecutorNotFound, name, method)
	}
	return fn, nil
}

// Has reports whether name (or name.method) is registered.
func (r *Registry) Has(name, method string) bool {
	_, err := r.Lookup(name, method)
	return err == nil
}

// Execute looks up an executor and runs it.
// Returns an error if the executor is not found; the executor's own error is
// returned unchanged.
func (r *Registry) Execute(ctx context.Context, name, method string, args any) (any, error) {
	fn, err := r.Lookup(name, method)
	if err != nil {
		return nil, err
	}
	return fn(ctx, args)
}

// Names returns the registered executor names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.executors))
	for name := range r.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
