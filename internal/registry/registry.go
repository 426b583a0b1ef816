// Package registry implements the component registry: named, typed beans
// built from context-file definitions through the catalog. Registries can
// chain to a parent; lookups that miss locally fall through to the parent,
// mirroring the primary/parent split of the portal's startup sequence.
package registry

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/evdngsl/beanbridge/internal/bean"
)

var (
	// ErrNoSuchBean is returned when a name has no binding in the registry
	// or any of its ancestors. Callers must be able to distinguish this
	// from construction failures.
	ErrNoSuchBean = errors.New("no such bean")
	// ErrDuplicateBean is returned when two definitions share a name.
	ErrDuplicateBean = errors.New("duplicate bean name")
	// ErrUnknownType is returned when a definition's type id has no
	// catalog registration.
	ErrUnknownType = errors.New("unknown bean type")
	// ErrClosed is returned for lookups after Close.
	ErrClosed = errors.New("registry is closed")
)

// Initializer beans get a post-construction hook after their properties
// are injected. An error fails the bean, and with it the registry build.
type Initializer interface {
	InitBean() error
}

// Disposable beans get a teardown hook when the registry closes.
// io.Closer is honoured the same way.
type Disposable interface {
	Destroy() error
}

// Registry holds bean definitions and their instances.
type Registry struct {
	parent *Registry

	mu         sync.RWMutex
	defs       map[string]*bean.Definition
	order      []string // definition order, preserved for deterministic iteration
	singletons map[string]any
	created    []string // singleton creation order, for reverse-order disposal
	closed     bool
}

// New creates an empty registry. parent may be nil.
func New(parent *Registry) *Registry {
	return &Registry{
		parent:     parent,
		defs:       make(map[string]*bean.Definition),
		singletons: make(map[string]any),
	}
}

// Parent returns the parent registry, or nil.
func (r *Registry) Parent() *Registry { return r.parent }

// Add registers a definition. The definition is validated structurally;
// its type id is checked later, at Refresh. Duplicate names are rejected
// even across context files - the build must fail rather than let one
// file silently shadow another.
func (r *Registry) Add(d bean.Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[d.Name]; exists {
		return fmt.Errorf("%w: %q (from %s)", ErrDuplicateBean, d.Name, d.Source)
	}
	def := d
	r.defs[d.Name] = &def
	r.order = append(r.order, d.Name)
	return nil
}

// Refresh builds the registry: every definition's type must resolve
// through the catalog and every singleton is constructed eagerly, so a
// single bad definition fails the whole build. Prototype-scoped beans are
// constructed once here to validate them, then discarded.
func (r *Registry) Refresh() error {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	r.mu.RUnlock()

	for _, name := range names {
		if _, err := r.Bean(name); err != nil {
			return fmt.Errorf("building bean %q: %w", name, err)
		}
	}
	return nil
}

// Definition returns the definition bound to name, searching ancestors.
func (r *Registry) Definition(name string) (*bean.Definition, bool) {
	r.mu.RLock()
	d, ok := r.defs[name]
	r.mu.RUnlock()
	if ok {
		return d, true
	}
	if r.parent != nil {
		return r.parent.Definition(name)
	}
	return nil, false
}

// Names returns the names defined in this registry only, in definition
// order. Use Manager for chain-wide enumeration.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// TypeOf returns the instance type a lookup of name would produce
// (a pointer to the catalog struct type).
func (r *Registry) TypeOf(name string) (reflect.Type, error) {
	d, ok := r.Definition(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchBean, name)
	}
	st, ok := typeFor(d.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q (bean %q)", ErrUnknownType, d.Type, name)
	}
	return reflect.PointerTo(st), nil
}

// Bean returns the instance bound to name. Singletons are shared across
// calls; prototypes are constructed fresh each time. Misses fall through
// to the parent registry; a full miss returns ErrNoSuchBean.
func (r *Registry) Bean(name string) (any, error) {
	return r.lookup(name, nil)
}

// lookup resolves name, carrying the construction chain for cycle
// detection. The chain belongs to a single resolution and is never shared
// across goroutines; concurrent lookups of the same bean each build their
// own chain and race only on the singleton store, which keeps the first
// instance.
func (r *Registry) lookup(name string, chain map[string]bool) (any, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	if obj, ok := r.singletons[name]; ok {
		r.mu.Unlock()
		return obj, nil
	}
	d, ok := r.defs[name]
	r.mu.Unlock()

	if !ok {
		if r.parent != nil {
			return r.parent.lookup(name, chain)
		}
		return nil, fmt.Errorf("%w: %q", ErrNoSuchBean, name)
	}

	return r.construct(d, chain)
}

// Close disposes singletons in reverse creation order. Beans implementing
// Disposable or io.Closer get their teardown hook; the first error is
// remembered but disposal continues for the remaining beans.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	created := r.created
	singletons := r.singletons
	r.created = nil
	r.singletons = make(map[string]any)
	r.mu.Unlock()

	var firstErr error
	for i := len(created) - 1; i >= 0; i-- {
		obj := singletons[created[i]]
		var err error
		switch v := obj.(type) {
		case Disposable:
			err = v.Destroy()
		case io.Closer:
			err = v.Close()
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("disposing bean %q: %w", created[i], err)
		}
	}
	return firstErr
}
