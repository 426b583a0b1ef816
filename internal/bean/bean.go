// Package bean defines the component definition model loaded from XML
// context files. A Definition describes a named, typed component and the
// properties to inject into it; the registry turns definitions into live
// instances through the catalog.
package bean

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDefinition indicates a structurally invalid bean declaration.
	// Callers should treat this as fatal for the whole registry build, unlike
	// file-level parse errors which are isolated per file.
	ErrInvalidDefinition = errors.New("invalid bean definition")
)

// Scope controls instance lifecycle for a definition.
type Scope string

const (
	// ScopeSingleton beans are created once and shared. This is the default.
	ScopeSingleton Scope = "singleton"
	// ScopePrototype beans are created fresh on every lookup.
	ScopePrototype Scope = "prototype"
)

// Property is a single injection declared on a bean: either a literal
// value converted to the target field's type, or a reference to another
// bean by name. Exactly one of Value and Ref must be set.
type Property struct {
	Name  string
	Value string
	Ref   string

	// HasValue distinguishes value="" from an absent value attribute.
	HasValue bool
}

// Definition is one bean declaration from a context file.
type Definition struct {
	Name       string
	Type       string // catalog type id
	Scope      Scope
	Properties []Property
	Source     string // context file this definition was loaded from
}

// Validate checks structural validity of a definition. It does not check
// that the type id is known to the catalog - that happens at registry
// build time, where unknown types fail the whole build.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: bean in %s has no name", ErrInvalidDefinition, d.Source)
	}
	if strings.TrimSpace(d.Type) == "" {
		return fmt.Errorf("%w: bean %q has no type", ErrInvalidDefinition, d.Name)
	}
	switch d.Scope {
	case "", ScopeSingleton, ScopePrototype:
	default:
		return fmt.Errorf("%w: bean %q has unknown scope %q", ErrInvalidDefinition, d.Name, d.Scope)
	}
	for _, p := range d.Properties {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: bean %q has a property with no name", ErrInvalidDefinition, d.Name)
		}
		if p.HasValue && p.Ref != "" {
			return fmt.Errorf("%w: bean %q property %q sets both value and ref", ErrInvalidDefinition, d.Name, p.Name)
		}
		if !p.HasValue && p.Ref == "" {
			return fmt.Errorf("%w: bean %q property %q sets neither value nor ref", ErrInvalidDefinition, d.Name, p.Name)
		}
	}
	return nil
}

// EffectiveScope returns the scope with the singleton default applied.
func (d *Definition) EffectiveScope() Scope {
	if d.Scope == "" {
		return ScopeSingleton
	}
	return d.Scope
}

// Owner returns the plugin that owns this bean per the name prefix
// convention: the substring before the first '.'. Beans with no prefix
// (no '.' or a leading '.') belong to the core and return "".
func Owner(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return ""
}
