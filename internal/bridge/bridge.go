// Package bridge republishes registry beans into a dig container so code
// written against the newer injection container can resolve them. Each
// bean becomes a named provider for its concrete type, plus one provider
// per catalog interface it implements (Go reflection cannot enumerate
// implemented interfaces, so the catalog's declared set is the universe).
//
// Lifecycle stays with the first container: providers delegate creation
// to the registry, and disposal happens when the registry closes. The
// bridge only adds member injection for `inject`-tagged fields, the
// second container's injection-point contract.
package bridge

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/dig"

	"github.com/evdngsl/beanbridge/internal/catalog"
	"github.com/evdngsl/beanbridge/internal/registry"
)

// TagInject is the struct tag marking an injection point. An empty tag
// value means by-type resolution; a non-empty value names the bean.
const TagInject = "inject"

// InjectionPoint is one `inject`-tagged field on a bean's struct type.
type InjectionPoint struct {
	Field string
	Ref   string // bean name; empty means by-type
	Type  reflect.Type
}

// Iface is one catalog interface a bean is republished under.
type Iface struct {
	ID   string
	Type reflect.Type
}

// Registration describes how one bean is exposed to the second container.
type Registration struct {
	Name       string
	Type       reflect.Type // instance type, a pointer to the catalog struct
	Interfaces []Iface
	Points     []InjectionPoint
}

// Bridge republishes one registry into dig containers.
type Bridge struct {
	reg *registry.Registry
}

// New creates a Bridge over the parent registry produced by the loader.
func New(reg *registry.Registry) *Bridge {
	return &Bridge{reg: reg}
}

// Plan computes the registrations without touching any container.
func (b *Bridge) Plan() ([]Registration, error) {
	ifaces := catalog.Interfaces()
	ids := make([]string, 0, len(ifaces))
	for id := range ifaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var plan []Registration
	for _, name := range b.reg.Names() {
		typ, err := b.reg.TypeOf(name)
		if err != nil {
			return nil, fmt.Errorf("planning bean %q: %w", name, err)
		}

		r := Registration{Name: name, Type: typ}
		for _, id := range ids {
			if typ.Implements(ifaces[id]) {
				r.Interfaces = append(r.Interfaces, Iface{ID: id, Type: ifaces[id]})
			}
		}
		r.Points = injectionPoints(typ)
		plan = append(plan, r)
	}
	return plan, nil
}

// Apply registers every planned bean with the container. Providers are
// named after the bean, so two beans of the same type coexist and callers
// select with a `name:"..."` tag on a dig.In parameter struct.
func (b *Bridge) Apply(c *dig.Container) error {
	plan, err := b.Plan()
	if err != nil {
		return err
	}

	for _, r := range plan {
		ctor := b.constructor(r)
		if err := c.Provide(ctor, dig.Name(r.Name)); err != nil {
			return fmt.Errorf("providing bean %q: %w", r.Name, err)
		}
		for _, iface := range r.Interfaces {
			target := reflect.New(iface.Type).Interface()
			if err := c.Provide(ctor, dig.Name(r.Name), dig.As(target)); err != nil {
				return fmt.Errorf("providing bean %q as %s: %w", r.Name, iface.ID, err)
			}
		}
	}
	return nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// constructor builds a dig-compatible func() (T, error) for the bean at
// runtime. The concrete T is only known via reflection, so the function
// itself is assembled with reflect.MakeFunc.
func (b *Bridge) constructor(r Registration) any {
	fnType := reflect.FuncOf(nil, []reflect.Type{r.Type, errType}, false)
	fn := reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		obj, err := b.produce(r)

		out := reflect.New(r.Type).Elem()
		outErr := reflect.New(errType).Elem()
		if err != nil {
			outErr.Set(reflect.ValueOf(err))
		} else {
			out.Set(reflect.ValueOf(obj))
		}
		return []reflect.Value{out, outErr}
	})
	return fn.Interface()
}

// produce delegates creation to the registry, then fills any still-unset
// injection points. Points the context file already satisfied via
// property refs are left alone.
func (b *Bridge) produce(r Registration) (any, error) {
	obj, err := b.reg.Bean(r.Name)
	if err != nil {
		return nil, err
	}

	elem := reflect.ValueOf(obj).Elem()
	for _, p := range r.Points {
		field := elem.FieldByName(p.Field)
		if !field.IsZero() {
			continue
		}
		dep, err := b.resolve(p)
		if err != nil {
			return nil, fmt.Errorf("bean %q field %s: %w", r.Name, p.Field, err)
		}
		field.Set(reflect.ValueOf(dep))
	}
	return obj, nil
}

// resolve finds the dependency for one injection point. Named points go
// straight to the registry; by-type points require exactly one assignable
// bean in the registry.
func (b *Bridge) resolve(p InjectionPoint) (any, error) {
	if p.Ref != "" {
		return b.reg.Bean(p.Ref)
	}

	var match string
	for _, name := range b.reg.Names() {
		typ, err := b.reg.TypeOf(name)
		if err != nil {
			return nil, err
		}
		if !typ.AssignableTo(p.Type) {
			continue
		}
		if match != "" {
			return nil, fmt.Errorf("ambiguous by-type injection: both %q and %q satisfy %s", match, name, p.Type)
		}
		match = name
	}
	if match == "" {
		return nil, fmt.Errorf("%w: no bean satisfies %s", registry.ErrNoSuchBean, p.Type)
	}
	return b.reg.Bean(match)
}

// injectionPoints scans the struct behind typ for `inject`-tagged fields.
// Unexported tagged fields cannot be set and are skipped.
func injectionPoints(typ reflect.Type) []InjectionPoint {
	st := typ.Elem()
	var points []InjectionPoint
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		ref, ok := f.Tag.Lookup(TagInject)
		if !ok || !f.IsExported() {
			continue
		}
		points = append(points, InjectionPoint{Field: f.Name, Ref: ref, Type: f.Type})
	}
	return points
}
