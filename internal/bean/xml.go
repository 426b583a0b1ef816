// xml.go decodes *_context.xml files into definitions.
//
// Separated from bean.go to isolate the wire format from the model. The
// format is deliberately small: a <beans> root with <bean> children, each
// carrying name/type/scope attributes and <property> elements.
//
// Example:
//
//	<beans>
//	  <bean name="workflow.taskService" type="workflow.TaskService">
//	    <property name="QueueSize" value="16"/>
//	    <property name="Store" ref="core.stateStore"/>
//	  </bean>
//	</beans>

package bean

import (
	"encoding/xml"
	"fmt"
	"os"
)

// xmlFile mirrors the on-disk context file structure.
type xmlFile struct {
	XMLName xml.Name  `xml:"beans"`
	Beans   []xmlBean `xml:"bean"`
}

type xmlBean struct {
	Name       string        `xml:"name,attr"`
	Type       string        `xml:"type,attr"`
	Scope      string        `xml:"scope,attr"`
	Properties []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name  string  `xml:"name,attr"`
	Value *string `xml:"value,attr"`
	Ref   string  `xml:"ref,attr"`
}

// Parse decodes a context document. Definitions are returned in document
// order with Source set to the given label. A decode failure is a
// file-level error; definition-level validation is left to the caller so
// the two failure classes stay distinct.
func Parse(data []byte, source string) ([]Definition, error) {
	var f xmlFile
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse context file %s: %w", source, err)
	}

	defs := make([]Definition, 0, len(f.Beans))
	for _, b := range f.Beans {
		d := Definition{
			Name:   b.Name,
			Type:   b.Type,
			Scope:  Scope(b.Scope),
			Source: source,
		}
		for _, p := range b.Properties {
			prop := Property{Name: p.Name, Ref: p.Ref}
			if p.Value != nil {
				prop.Value = *p.Value
				prop.HasValue = true
			}
			d.Properties = append(d.Properties, prop)
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// ParseFile reads and decodes a context file from disk.
func ParseFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context file %s: %w", path, err)
	}
	return Parse(data, path)
}
