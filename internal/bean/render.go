// render.go produces a canonical text form of a set of definitions.
//
// Used by "beanbridge context diff" to compare two conf directories: both
// sides are rendered to the same stable text layout (sorted by name, one
// line per property) so the diff shows semantic changes rather than XML
// formatting noise.

package bean

import (
	"fmt"
	"sort"
	"strings"
)

// Render returns the canonical text form of defs, sorted by bean name.
func Render(defs []Definition) string {
	sorted := make([]Definition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	for _, d := range sorted {
		fmt.Fprintf(&b, "bean %s type=%s scope=%s\n", d.Name, d.Type, d.EffectiveScope())
		props := make([]Property, len(d.Properties))
		copy(props, d.Properties)
		sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
		for _, p := range props {
			if p.Ref != "" {
				fmt.Fprintf(&b, "  property %s ref=%s\n", p.Name, p.Ref)
			} else {
				fmt.Fprintf(&b, "  property %s value=%q\n", p.Name, p.Value)
			}
		}
	}
	return b.String()
}
