// build.go constructs bean instances from definitions.
//
// Separated from registry.go to isolate the reflection machinery: catalog
// type resolution, property injection, and the construction hooks. The
// lookup/lifecycle surface stays in registry.go.

package registry

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/evdngsl/beanbridge/internal/bean"
	"github.com/evdngsl/beanbridge/internal/catalog"
)

// typeFor resolves a catalog type id to its struct type.
func typeFor(id string) (reflect.Type, bool) {
	return catalog.TypeOf(id)
}

// construct builds an instance for d, injecting declared properties and
// running the Initializer hook. Singletons are stored for reuse.
//
// chain is the set of names currently under construction in this
// resolution: a name met twice means the definitions reference each other.
// The chain is per call, so two goroutines building the same bean at once
// do not see each other as a cycle.
func (r *Registry) construct(d *bean.Definition, chain map[string]bool) (any, error) {
	st, ok := typeFor(d.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}

	if chain[d.Name] {
		return nil, fmt.Errorf("%w: circular reference through %q", bean.ErrInvalidDefinition, d.Name)
	}
	if chain == nil {
		chain = make(map[string]bool)
	}
	chain[d.Name] = true
	defer delete(chain, d.Name)

	ptr := reflect.New(st)
	elem := ptr.Elem()

	for _, p := range d.Properties {
		if err := r.injectProperty(elem, p, chain); err != nil {
			return nil, fmt.Errorf("bean %q: %w", d.Name, err)
		}
	}

	obj := ptr.Interface()
	if init, ok := obj.(Initializer); ok {
		if err := init.InitBean(); err != nil {
			return nil, fmt.Errorf("bean %q init: %w", d.Name, err)
		}
	}

	if d.EffectiveScope() == bean.ScopeSingleton {
		r.mu.Lock()
		// Another lookup may have finished first; keep the stored instance.
		if existing, ok := r.singletons[d.Name]; ok {
			r.mu.Unlock()
			return existing, nil
		}
		r.singletons[d.Name] = obj
		r.created = append(r.created, d.Name)
		r.mu.Unlock()
	}
	return obj, nil
}

// injectProperty sets one declared property on the struct value. Refs are
// resolved against this registry, so they may land in the parent chain.
func (r *Registry) injectProperty(elem reflect.Value, p bean.Property, chain map[string]bool) error {
	field := elem.FieldByName(p.Name)
	if !field.IsValid() {
		return fmt.Errorf("%w: no field %q on %s", bean.ErrInvalidDefinition, p.Name, elem.Type())
	}
	if !field.CanSet() {
		return fmt.Errorf("%w: field %q on %s is not settable", bean.ErrInvalidDefinition, p.Name, elem.Type())
	}

	if p.Ref != "" {
		dep, err := r.lookup(p.Ref, chain)
		if err != nil {
			return fmt.Errorf("resolving ref %q for property %q: %w", p.Ref, p.Name, err)
		}
		dv := reflect.ValueOf(dep)
		if !dv.Type().AssignableTo(field.Type()) {
			return fmt.Errorf("%w: ref %q (%s) not assignable to property %q (%s)",
				bean.ErrInvalidDefinition, p.Ref, dv.Type(), p.Name, field.Type())
		}
		field.Set(dv)
		return nil
	}

	return setLiteral(field, p.Name, p.Value)
}

// setLiteral converts a literal string to the field's type. The supported
// set matches what context files actually need: strings, booleans,
// numbers, and durations.
func setLiteral(field reflect.Value, name, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: property %q: %q is not a bool", bean.ErrInvalidDefinition, name, value)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%w: property %q: %q is not a duration", bean.ErrInvalidDefinition, name, value)
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || field.OverflowInt(n) {
			return fmt.Errorf("%w: property %q: %q is not a valid %s", bean.ErrInvalidDefinition, name, value, field.Kind())
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil || field.OverflowUint(n) {
			return fmt.Errorf("%w: property %q: %q is not a valid %s", bean.ErrInvalidDefinition, name, value, field.Kind())
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: property %q: %q is not a float", bean.ErrInvalidDefinition, name, value)
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("%w: property %q: literal values cannot populate %s fields",
			bean.ErrInvalidDefinition, name, field.Kind())
	}
	return nil
}
