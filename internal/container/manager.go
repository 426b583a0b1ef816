// Package container provides the Manager, the portal-facing lookup surface
// over the component registries. It owns a primary registry chained to the
// parent registry produced by the context loader, filters type-scoped
// lookups by plugin install state, and caches those lookups until a plugin
// install state change invalidates them.
package container

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/evdngsl/beanbridge/internal/bean"
	"github.com/evdngsl/beanbridge/internal/plugin"
	"github.com/evdngsl/beanbridge/internal/registry"
)

// InstallStates answers whether a named plugin is currently installed.
// plugin.Service satisfies this; tests use a map-backed fake.
type InstallStates interface {
	Installed(name string) bool
}

// Manager is the lookup facade over the primary/parent registry pair.
type Manager struct {
	primary *registry.Registry
	parent  *registry.Registry
	plugins InstallStates

	mu     sync.RWMutex
	byType map[reflect.Type][]any
	gen    uint64 // bumped on every invalidation; guards against caching a stale collect
}

// New creates a Manager over parent, with a fresh empty primary registry
// chained to it. plugins may be nil, in which case every prefixed bean is
// treated as disabled (no plugin system means nothing is installed).
func New(parent *registry.Registry, plugins InstallStates) *Manager {
	return &Manager{
		primary: registry.New(parent),
		parent:  parent,
		plugins: plugins,
		byType:  make(map[reflect.Type][]any),
	}
}

// Primary returns the primary registry, for application-level additions.
func (m *Manager) Primary() *registry.Registry { return m.primary }

// Parent returns the parent registry populated by the context loader.
func (m *Manager) Parent() *registry.Registry { return m.parent }

// Bean returns the instance bound to name, searching the primary registry
// and then the parent. Returns registry.ErrNoSuchBean when the name has no
// binding anywhere in the chain.
func (m *Manager) Bean(name string) (any, error) {
	return m.primary.Bean(name)
}

// Typed returns the bean bound to name asserted to T.
func Typed[T any](m *Manager, name string) (T, error) {
	var zero T
	obj, err := m.Bean(name)
	if err != nil {
		return zero, err
	}
	v, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("bean %q is %T, not %s", name, obj, reflect.TypeOf((*T)(nil)).Elem())
	}
	return v, nil
}

// BeanEnabled reports whether name belongs to an installed plugin per the
// prefix convention. Beans with no prefix are always enabled.
func (m *Manager) BeanEnabled(name string) bool {
	owner := bean.Owner(name)
	return owner == "" || m.installed(owner)
}

// BeansOf returns every bean in the chain whose instance type is
// assignable to t, excluding beans owned by plugins that are not
// installed. Results are cached per type; the cache is discarded wholesale
// on any plugin install state change.
//
// The returned slice is a copy - callers may mutate it freely.
func (m *Manager) BeansOf(t reflect.Type) ([]any, error) {
	m.mu.RLock()
	cached, ok := m.byType[t]
	gen := m.gen
	m.mu.RUnlock()
	if ok {
		return append([]any(nil), cached...), nil
	}

	list, err := m.collect(t)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// A plugin event may have fired while collecting; the list is still
	// correct for this caller but must not outlive the invalidation.
	if m.gen == gen {
		m.byType[t] = append([]any(nil), list...)
	}
	m.mu.Unlock()
	return list, nil
}

// OfType returns every enabled bean assignable to T.
func OfType[T any](m *Manager) ([]T, error) {
	list, err := m.BeansOf(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(list))
	for _, obj := range list {
		out = append(out, obj.(T))
	}
	return out, nil
}

// collect walks the chain (parent first, then primary) and materialises
// the enabled beans assignable to t.
func (m *Manager) collect(t reflect.Type) ([]any, error) {
	var names []string
	if m.parent != nil {
		names = append(names, m.parent.Names()...)
	}
	names = append(names, m.primary.Names()...)

	seen := make(map[string]bool, len(names))
	var list []any
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		bt, err := m.primary.TypeOf(name)
		if err != nil {
			return nil, err
		}
		if !bt.AssignableTo(t) {
			continue
		}
		if !m.BeanEnabled(name) {
			continue
		}
		obj, err := m.primary.Bean(name)
		if err != nil {
			return nil, err
		}
		list = append(list, obj)
	}
	return list, nil
}

func (m *Manager) installed(name string) bool {
	return m.plugins != nil && m.plugins.Installed(name)
}

// HandlePluginEvent implements plugin.Listener. Any install state change
// discards the whole type-lookup cache - cached lists are never patched in
// place, so a stale partial view cannot survive.
func (m *Manager) HandlePluginEvent(e plugin.Event) {
	if e.Type != plugin.EventInstalled && e.Type != plugin.EventUninstalled {
		return
	}
	m.mu.Lock()
	m.byType = make(map[reflect.Type][]any)
	m.gen++
	m.mu.Unlock()
}

// Shutdown closes the primary and parent registries.
func (m *Manager) Shutdown() error {
	err := m.primary.Close()
	if m.parent != nil {
		if perr := m.parent.Close(); err == nil {
			err = perr
		}
	}
	return err
}

var _ plugin.Listener = (*Manager)(nil)
