package datatype

import (
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// Reference points from one resource to another. Allowed target kinds are
// declared by the field that holds it, not by the Reference itself.
type Reference struct {
	Element
	reference  *String
	typ        *Uri
	identifier *Identifier
	display    *String
	hash       uint64
}

var referenceInfo = &element.TypeInfo{
	Name: "Reference",
	Kind: element.KindComplex,
	Fields: ElementFields(
		element.FieldInfo{Name: "reference", Types: []string{"string"}},
		element.FieldInfo{Name: "type", Types: []string{"uri"}},
		element.FieldInfo{Name: "identifier", Types: []string{"Identifier"}},
		element.FieldInfo{Name: "display", Types: []string{"string"}},
	),
}

func (r *Reference) Reference() *String      { return r.reference }
func (r *Reference) Type() *Uri              { return r.typ }
func (r *Reference) Identifier() *Identifier { return r.identifier }
func (r *Reference) Display() *String        { return r.display }

// Literal implements element.Referent.
func (r *Reference) Literal() string {
	if r.reference == nil {
		return ""
	}
	return r.reference.value
}

// TargetType implements element.Referent.
func (r *Reference) TargetType() string {
	if r.typ == nil {
		return ""
	}
	return r.typ.value
}

// TypeName implements element.Node.
func (r *Reference) TypeName() string { return "Reference" }

// HasValue implements element.Node.
func (r *Reference) HasValue() bool { return false }

// HasChildren implements element.Node.
func (r *Reference) HasChildren() bool {
	return r.HasExtensions() || r.reference != nil || r.typ != nil || r.identifier != nil || r.display != nil
}

// TypeInfo implements element.Described.
func (r *Reference) TypeInfo() *element.TypeInfo { return referenceInfo }

// Accept implements element.Node.
func (r *Reference) Accept(name string, index int, v element.Visitor) {
	element.Accept(r, name, index, v, func(v element.Visitor) {
		r.AcceptExtensions(v)
		element.Child(v, "reference", r.reference)
		element.Child(v, "type", r.typ)
		element.Child(v, "identifier", r.identifier)
		element.Child(v, "display", r.display)
	})
}

// Equal implements element.Node.
func (r *Reference) Equal(other element.Node) bool {
	o, ok := other.(*Reference)
	if !ok || o == nil {
		return false
	}
	return r.EqualElement(&o.Element) &&
		element.Equal(r.reference, o.reference) &&
		element.Equal(r.typ, o.typ) &&
		element.Equal(r.identifier, o.identifier) &&
		element.Equal(r.display, o.display)
}

// Hash implements element.Node.
func (r *Reference) Hash() uint64 { return r.hash }

func (r *Reference) computeHash() uint64 {
	h := element.NewHasher("Reference")
	r.HashElement(h)
	h.Node(r.reference)
	h.Node(r.typ)
	h.Node(r.identifier)
	h.Node(r.display)
	return h.Sum()
}

// Check implements validate.Checkable.
func (r *Reference) Check(c *validate.Checker) {
	r.CheckElement(c)
}

// ToBuilder returns a builder seeded with r's fields.
func (r *Reference) ToBuilder() *ReferenceBuilder {
	b := &ReferenceBuilder{
		reference:  r.reference,
		typ:        r.typ,
		identifier: r.identifier,
		display:    r.display,
	}
	b.From(&r.Element)
	return b
}

// ReferenceBuilder builds a Reference.
type ReferenceBuilder struct {
	ElementBuilder
	reference  *String
	typ        *Uri
	identifier *Identifier
	display    *String
}

// NewReferenceBuilder creates a ReferenceBuilder.
func NewReferenceBuilder() *ReferenceBuilder {
	return &ReferenceBuilder{}
}

// NewReference is a shorthand for a literal reference ("Patient/123").
func NewReference(literal string) *Reference {
	r, _ := NewReferenceBuilder().Reference(NewString(literal)).Build(validate.WithValidation(false))
	return r
}

func (b *ReferenceBuilder) ID(id string) *ReferenceBuilder {
	b.SetID(id)
	return b
}

func (b *ReferenceBuilder) Extension(ext ...*Extension) *ReferenceBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *ReferenceBuilder) ReplaceExtension(ext []*Extension) *ReferenceBuilder {
	b.ResetExtension(ext)
	return b
}

// Reference sets the literal reference.
func (b *ReferenceBuilder) Reference(v *String) *ReferenceBuilder {
	b.reference = v
	return b
}

// Type sets the explicit target type tag.
func (b *ReferenceBuilder) Type(v *Uri) *ReferenceBuilder {
	b.typ = v
	return b
}

func (b *ReferenceBuilder) Identifier(v *Identifier) *ReferenceBuilder {
	b.identifier = v
	return b
}

func (b *ReferenceBuilder) Display(v *String) *ReferenceBuilder {
	b.display = v
	return b
}

// Build validates the reference and returns it.
func (b *ReferenceBuilder) Build(opts ...validate.Option) (*Reference, error) {
	r := &Reference{
		Element:    b.Element(),
		reference:  b.reference,
		typ:        b.typ,
		identifier: b.identifier,
		display:    b.display,
	}
	if err := validate.Run(r, b.Options(opts)...); err != nil {
		return nil, err
	}
	r.hash = r.computeHash()
	return r, nil
}
