// Package catalog maps the string type ids used in context files to
// compiled Go types. Components self-register during init(), before
// main() runs, so XML definitions can be instantiated by id.
//
// Design: The catalog uses panic-on-duplicate following database/sql.Register
// conventions. Registration happens at init time; duplicates are programmer
// errors, not runtime conditions, and should fail fast and loudly.
//
// Two kinds of entries exist:
//   - component types: concrete structs the registry can instantiate
//   - interfaces: contracts the bridge republishes components under, since
//     Go reflection cannot enumerate the interfaces a type implements
package catalog

import (
	"reflect"
	"sync"
)

var (
	mu         sync.RWMutex
	types      = make(map[string]reflect.Type)
	interfaces = make(map[string]reflect.Type)
	order      []string // preserve registration order for deterministic listings
)

// RegisterType associates a type id with the concrete component type of
// prototype. Pass a pointer to the zero value, e.g.:
//
//	catalog.RegisterType("workflow.TaskService", (*TaskService)(nil))
//
// Panics if prototype is not a pointer to struct, or the id is taken.
func RegisterType(id string, prototype any) {
	t := reflect.TypeOf(prototype)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		panic("catalog: RegisterType requires a pointer to struct, got " + reflect.TypeOf(prototype).String())
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := types[id]; exists {
		panic("catalog: type already registered: " + id)
	}
	types[id] = t.Elem()
	order = append(order, id)
}

// RegisterInterface associates an id with an interface type. Pass a nil
// pointer to the interface, e.g.:
//
//	catalog.RegisterInterface("core.Notifier", (*Notifier)(nil))
//
// Panics if iface is not a pointer to interface, or the id is taken.
func RegisterInterface(id string, iface any) {
	t := reflect.TypeOf(iface)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Interface {
		panic("catalog: RegisterInterface requires a pointer to interface")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := interfaces[id]; exists {
		panic("catalog: interface already registered: " + id)
	}
	interfaces[id] = t.Elem()
}

// TypeOf returns the struct type registered under id.
func TypeOf(id string) (reflect.Type, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := types[id]
	return t, ok
}

// TypeIDs returns all registered type ids in registration order.
func TypeIDs() []string {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]string, len(order))
	copy(ids, order)
	return ids
}

// Interfaces returns a snapshot of the registered interfaces.
func Interfaces() map[string]reflect.Type {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]reflect.Type, len(interfaces))
	for id, t := range interfaces {
		out[id] = t
	}
	return out
}
