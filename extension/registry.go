// registry.go holds the global extension table.
//
// Kept apart from extension.go so the mutable global state stays in one
// place. Each extension package (core, contexts, plugins, bridge) calls
// Register from its init(), so the table is complete before main() runs
// and before cobra sees any command.
//
// Registration order is preserved: it determines the order extensions are
// initialised and shut down in, and keeps the beanbridge command listing
// stable across runs.

package extension

import "sync"

var (
	mu       sync.RWMutex
	registry = make(map[string]Extension)
	order    []string // registration order, drives init and command listing
)

// Register adds an extension under its Name. Called from init() functions;
// a duplicate name panics.
//
// A duplicate can only come from a coding mistake (two extensions claiming
// the same name, or one package registering twice), never from user input,
// so there is no caller that could sensibly handle an error return.
// Panicking at init time surfaces the mistake on the first run of any
// command, the same way database/sql.Register treats duplicate drivers.
func Register(e Extension) {
	mu.Lock()
	defer mu.Unlock()

	name := e.Name()
	if _, exists := registry[name]; exists {
		panic("extension already registered: " + name)
	}

	registry[name] = e
	order = append(order, name)
}

// All returns the registered extensions in registration order.
func All() []Extension {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]Extension, 0, len(order))
	for _, name := range order {
		exts = append(exts, registry[name])
	}
	return exts
}

// Get returns the extension registered under name, or nil.
func Get(name string) Extension {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Names returns the registered extension names in registration order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, len(order))
	copy(names, order)
	return names
}
