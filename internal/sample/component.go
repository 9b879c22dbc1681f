// Package sample holds a few model types written in the shape fhirgen
// emits. They exercise the runtime end to end in tests without depending on
// a generated resource catalogue.
package sample

import (
	"slices"

	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// ComponentStatusBinding restricts Component.status.
var ComponentStatusBinding = &element.Binding{
	Name:     "ComponentStatus",
	Strength: element.BindingRequired,
	ValueSet: "http://example.org/fhir/ValueSet/component-status",
	Codes:    []string{"A", "B"},
}

// ComponentValueTypes are the alternatives of Component.value[x].
var ComponentValueTypes = []string{"Quantity", "CodeableConcept"}

// Component is a backbone element with a required coded status, a required
// choice value and free text notes.
type Component struct {
	datatype.BackboneElement
	status *datatype.Code
	value  element.Node
	note   []*datatype.String
	hash   uint64
}

var componentInfo = &element.TypeInfo{
	Name: "Component",
	Kind: element.KindBackbone,
	Fields: datatype.BackboneFields(
		element.FieldInfo{Name: "status", Types: []string{"code"}, Required: true, Binding: ComponentStatusBinding},
		element.FieldInfo{Name: "value", Kind: element.FieldChoice, Types: ComponentValueTypes, Required: true},
		element.FieldInfo{Name: "note", Kind: element.FieldList, Types: []string{"string"}},
	),
}

func (c *Component) Status() *datatype.Code      { return c.status }
func (c *Component) Value() element.Node         { return c.value }
func (c *Component) Note() []*datatype.String    { return slices.Clone(c.note) }
func (c *Component) TypeName() string            { return "Component" }
func (c *Component) HasValue() bool              { return false }
func (c *Component) Hash() uint64                { return c.hash }
func (c *Component) TypeInfo() *element.TypeInfo { return componentInfo }

// ValueQuantity returns value[x] when it is a Quantity.
func (c *Component) ValueQuantity() (*datatype.Quantity, bool) {
	return element.As[*datatype.Quantity](c.value)
}

// ValueCodeableConcept returns value[x] when it is a CodeableConcept.
func (c *Component) ValueCodeableConcept() (*datatype.CodeableConcept, bool) {
	return element.As[*datatype.CodeableConcept](c.value)
}

func (c *Component) HasChildren() bool {
	return c.HasExtensions() || c.status != nil || c.value != nil || len(c.note) > 0
}

func (c *Component) Accept(name string, index int, v element.Visitor) {
	element.Accept(c, name, index, v, func(v element.Visitor) {
		c.AcceptExtensions(v)
		element.Child(v, "status", c.status)
		element.Child(v, "value", c.value)
		element.List(v, "note", c.note)
	})
}

func (c *Component) Equal(other element.Node) bool {
	o, ok := other.(*Component)
	if !ok || o == nil {
		return false
	}
	return c.EqualBackbone(&o.BackboneElement) &&
		element.Equal(c.status, o.status) &&
		element.Equal(c.value, o.value) &&
		element.EqualList(c.note, o.note)
}

func (c *Component) computeHash() uint64 {
	h := element.NewHasher("Component")
	c.HashBackbone(h)
	h.Node(c.status)
	h.Node(c.value)
	element.HashList(h, c.note)
	return h.Sum()
}

func (c *Component) Check(ch *validate.Checker) {
	c.CheckBackbone(ch)
	validate.List(ch, "note", c.note, "string")
	ch.Required("status", c.status)
	ch.Choice("value", c.value, true, ComponentValueTypes...)
	ch.Binding("status", c.status, ComponentStatusBinding)
}

func (c *Component) ToBuilder() *ComponentBuilder {
	b := &ComponentBuilder{status: c.status, value: c.value, note: slices.Clone(c.note)}
	b.FromBackbone(&c.BackboneElement)
	return b
}

// ComponentBuilder builds a Component.
type ComponentBuilder struct {
	datatype.BackboneElementBuilder
	status *datatype.Code
	value  element.Node
	note   []*datatype.String
}

func NewComponentBuilder() *ComponentBuilder {
	return &ComponentBuilder{}
}

func (b *ComponentBuilder) ID(id string) *ComponentBuilder {
	b.SetID(id)
	return b
}

func (b *ComponentBuilder) Extension(ext ...*datatype.Extension) *ComponentBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *ComponentBuilder) ModifierExtension(ext ...*datatype.Extension) *ComponentBuilder {
	b.AddModifierExtension(ext...)
	return b
}

func (b *ComponentBuilder) Status(v *datatype.Code) *ComponentBuilder {
	b.status = v
	return b
}

// Value sets value[x] to any node; Build checks the alternative.
func (b *ComponentBuilder) Value(v element.Node) *ComponentBuilder {
	if element.IsNil(v) {
		v = nil
	}
	b.value = v
	return b
}

func (b *ComponentBuilder) ValueQuantity(v *datatype.Quantity) *ComponentBuilder {
	b.value = element.NodeOf(v)
	return b
}

func (b *ComponentBuilder) ValueCodeableConcept(v *datatype.CodeableConcept) *ComponentBuilder {
	b.value = element.NodeOf(v)
	return b
}

func (b *ComponentBuilder) Note(v ...*datatype.String) *ComponentBuilder {
	b.note = append(b.note, v...)
	return b
}

func (b *ComponentBuilder) ReplaceNote(v []*datatype.String) *ComponentBuilder {
	b.note = datatype.ReplaceList(&b.ElementBuilder, "note", v)
	return b
}

func (b *ComponentBuilder) Build(opts ...validate.Option) (*Component, error) {
	c := &Component{
		BackboneElement: b.Backbone(),
		status:          b.status,
		value:           b.value,
		note:            slices.Clone(b.note),
	}
	if err := validate.Run(c, b.Options(opts)...); err != nil {
		return nil, err
	}
	c.hash = c.computeHash()
	return c, nil
}
