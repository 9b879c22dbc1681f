package datatype

import (
	"github.com/gofhir/model/pkg/constraint"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// Extension is an additional content element identified by a URL. Its value
// is an open choice of any datatype.
type Extension struct {
	Element
	url   string
	value element.Node
	hash  uint64
}

// ext-1: Must have either extensions or value[x], not both.
var ext1 = constraint.Constraint{
	Key:        "ext-1",
	Severity:   constraint.SeverityError,
	Human:      "Must have either extensions or value[x], not both",
	Expression: "extension.exists() != value.exists()",
	Predicate: func(n element.Node) bool {
		e := n.(*Extension)
		return e.Element.HasExtensions() != (e.value != nil)
	},
}

var extensionInfo = &element.TypeInfo{
	Name: "Extension",
	Kind: element.KindComplex,
	Fields: ElementFields(
		element.FieldInfo{Name: "value", Kind: element.FieldChoice, Types: []string{"Element"}},
	),
}

// URL identifies the meaning of the extension.
func (e *Extension) URL() string { return e.url }

// Value returns the value, or nil for a complex extension.
func (e *Extension) Value() element.Node { return e.value }

// TypeName implements element.Node.
func (e *Extension) TypeName() string { return "Extension" }

// HasValue implements element.Node.
func (e *Extension) HasValue() bool { return false }

// HasChildren implements element.Node.
func (e *Extension) HasChildren() bool {
	return e.HasExtensions() || e.value != nil
}

// Attributes implements element.Attributed.
func (e *Extension) Attributes() []element.Attribute {
	return []element.Attribute{{Name: "url", Value: e.url}}
}

// TypeInfo implements element.Described.
func (e *Extension) TypeInfo() *element.TypeInfo { return extensionInfo }

// Accept implements element.Node.
func (e *Extension) Accept(name string, index int, v element.Visitor) {
	element.Accept(e, name, index, v, func(v element.Visitor) {
		e.AcceptExtensions(v)
		element.Child(v, "value", e.value)
	})
}

// Equal implements element.Node.
func (e *Extension) Equal(other element.Node) bool {
	o, ok := other.(*Extension)
	if !ok || o == nil {
		return false
	}
	return e.EqualElement(&o.Element) && e.url == o.url && element.Equal(e.value, o.value)
}

// Hash implements element.Node.
func (e *Extension) Hash() uint64 { return e.hash }

func (e *Extension) computeHash() uint64 {
	h := element.NewHasher("Extension")
	e.HashElement(h)
	h.String(e.url)
	h.Node(e.value)
	return h.Sum()
}

// Check implements validate.Checkable.
func (e *Extension) Check(c *validate.Checker) {
	e.CheckElement(c)
	c.RequiredValue("url", e.url != "")
	c.Choice("value", e.value, false, "Element")
	if e.url != "" {
		c.URI("url", e.url)
	}
	c.Invariant(ext1, e)
}

// ToBuilder returns a builder seeded with e's fields.
func (e *Extension) ToBuilder() *ExtensionBuilder {
	b := &ExtensionBuilder{url: e.url, value: e.value}
	b.From(&e.Element)
	return b
}

// ExtensionBuilder builds an Extension.
type ExtensionBuilder struct {
	ElementBuilder
	url   string
	value element.Node
}

// NewExtensionBuilder creates a builder for an extension with the given URL.
func NewExtensionBuilder(url string) *ExtensionBuilder {
	return &ExtensionBuilder{url: url}
}

// ID sets the element id.
func (b *ExtensionBuilder) ID(id string) *ExtensionBuilder {
	b.SetID(id)
	return b
}

// Extension appends nested extensions.
func (b *ExtensionBuilder) Extension(ext ...*Extension) *ExtensionBuilder {
	b.AddExtension(ext...)
	return b
}

// ReplaceExtension replaces the nested extensions.
func (b *ExtensionBuilder) ReplaceExtension(ext []*Extension) *ExtensionBuilder {
	b.ResetExtension(ext)
	return b
}

// URL sets the extension URL.
func (b *ExtensionBuilder) URL(url string) *ExtensionBuilder {
	b.url = url
	return b
}

// Value sets the value. A nil pointer clears it.
func (b *ExtensionBuilder) Value(v element.Node) *ExtensionBuilder {
	if element.IsNil(v) {
		v = nil
	}
	b.value = v
	return b
}

// Build validates the extension and returns it.
func (b *ExtensionBuilder) Build(opts ...validate.Option) (*Extension, error) {
	e := &Extension{
		Element: b.Element(),
		url:     b.url,
		value:   b.value,
	}
	if err := validate.Run(e, b.Options(opts)...); err != nil {
		return nil, err
	}
	e.hash = e.computeHash()
	return e, nil
}
