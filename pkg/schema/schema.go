// Package schema is the generator's view of a FHIR type: the fields,
// cardinalities, choice alternatives, reference targets, required bindings
// and invariants fhirgen needs to emit a model type. It is produced from
// StructureDefinition snapshots (see Convert).
package schema

import (
	"strings"
)

// Kind classifies a TypeDef.
type Kind string

// Type kinds.
const (
	KindPrimitive Kind = "primitive-type"
	KindComplex   Kind = "complex-type"
	KindResource  Kind = "resource"
	KindBackbone  Kind = "backbone"
)

// Base types every generated type builds on.
const (
	BaseElement         = "Element"
	BaseBackboneElement = "BackboneElement"
	BaseResource        = "Resource"
	BaseDomainResource  = "DomainResource"
)

// TypeDef describes one generated type. Backbone elements are TypeDefs of
// their own, named by element path ("CarePlan.activity") and listed
// flattened in the Backbones of their root type.
type TypeDef struct {
	Name        string
	URL         string
	Kind        Kind
	Base        string
	Supertype   string // complex type this one specializes, e.g. Duration -> Quantity
	Abstract    bool
	Fields      []*FieldDef
	Constraints []Constraint
	Backbones   []*TypeDef
}

// Field returns the field with the given name, or nil.
func (t *TypeDef) Field(name string) *FieldDef {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// IsResource reports whether t is a resource type.
func (t *TypeDef) IsResource() bool {
	return t.Kind == KindResource
}

// All returns t followed by its backbone types.
func (t *TypeDef) All() []*TypeDef {
	return append([]*TypeDef{t}, t.Backbones...)
}

// FieldDef describes one declared field.
type FieldDef struct {
	// Name is the element name; a choice element "value[x]" is "value".
	Name string
	Path string

	// Types lists the admissible type names. Backbone fields name the
	// backbone TypeDef.
	Types []string
	Min   int
	Max   string

	// Targets lists the resource kinds a Reference may point at.
	Targets []string
	Binding *Binding
	Choice  bool
}

// IsList reports whether the field repeats.
func (f *FieldDef) IsList() bool {
	return f.Max != "" && f.Max != "0" && f.Max != "1"
}

// Required reports whether the field has a minimum cardinality above zero.
func (f *FieldDef) Required() bool {
	return f.Min > 0
}

// HasType reports whether name is one of the field's types.
func (f *FieldDef) HasType(name string) bool {
	for _, t := range f.Types {
		if t == name {
			return true
		}
	}
	return false
}

// Binding is a required terminology binding. Codes is filled from the
// loaded terminology when the value set can be expanded.
type Binding struct {
	Name     string
	Strength string
	ValueSet string
	Codes    []string
}

// Constraint is an invariant declared on a type or backbone element.
type Constraint struct {
	Key        string
	Severity   string
	Human      string
	Expression string
	Location   string
}

// IsWarning reports whether the constraint is advisory.
func (c Constraint) IsWarning() bool {
	return c.Severity == "warning"
}

// BindingName derives a binding name from its value set URL, e.g.
// "http://hl7.org/fhir/ValueSet/device-status|4.0.1" -> "device-status".
func BindingName(valueSet string) string {
	if i := strings.IndexByte(valueSet, '|'); i >= 0 {
		valueSet = valueSet[:i]
	}
	if i := strings.LastIndexByte(valueSet, '/'); i >= 0 {
		valueSet = valueSet[i+1:]
	}
	return valueSet
}
