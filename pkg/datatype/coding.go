package datatype

import (
	"slices"

	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// Coding is a reference to a code defined by a terminology system.
type Coding struct {
	Element
	system       *Uri
	version      *String
	code         *Code
	display      *String
	userSelected *Boolean
	hash         uint64
}

var codingInfo = &element.TypeInfo{
	Name: "Coding",
	Kind: element.KindComplex,
	Fields: ElementFields(
		element.FieldInfo{Name: "system", Types: []string{"uri"}},
		element.FieldInfo{Name: "version", Types: []string{"string"}},
		element.FieldInfo{Name: "code", Types: []string{"code"}},
		element.FieldInfo{Name: "display", Types: []string{"string"}},
		element.FieldInfo{Name: "userSelected", Types: []string{"boolean"}},
	),
}

func (c *Coding) System() *Uri           { return c.system }
func (c *Coding) Version() *String       { return c.version }
func (c *Coding) Code() *Code            { return c.code }
func (c *Coding) Display() *String       { return c.display }
func (c *Coding) UserSelected() *Boolean { return c.userSelected }

// TypeName implements element.Node.
func (c *Coding) TypeName() string { return "Coding" }

// HasValue implements element.Node.
func (c *Coding) HasValue() bool { return false }

// HasChildren implements element.Node.
func (c *Coding) HasChildren() bool {
	return c.HasExtensions() || c.system != nil || c.version != nil || c.code != nil ||
		c.display != nil || c.userSelected != nil
}

// TypeInfo implements element.Described.
func (c *Coding) TypeInfo() *element.TypeInfo { return codingInfo }

// Codes implements element.Coded.
func (c *Coding) Codes() []element.CodeValue {
	if c.code == nil || !c.code.set {
		return nil
	}
	cv := element.CodeValue{Code: c.code.value}
	if c.system != nil {
		cv.System = c.system.value
	}
	return []element.CodeValue{cv}
}

// Accept implements element.Node.
func (c *Coding) Accept(name string, index int, v element.Visitor) {
	element.Accept(c, name, index, v, func(v element.Visitor) {
		c.AcceptExtensions(v)
		element.Child(v, "system", c.system)
		element.Child(v, "version", c.version)
		element.Child(v, "code", c.code)
		element.Child(v, "display", c.display)
		element.Child(v, "userSelected", c.userSelected)
	})
}

// Equal implements element.Node.
func (c *Coding) Equal(other element.Node) bool {
	o, ok := other.(*Coding)
	if !ok || o == nil {
		return false
	}
	return c.EqualElement(&o.Element) &&
		element.Equal(c.system, o.system) &&
		element.Equal(c.version, o.version) &&
		element.Equal(c.code, o.code) &&
		element.Equal(c.display, o.display) &&
		element.Equal(c.userSelected, o.userSelected)
}

// Hash implements element.Node.
func (c *Coding) Hash() uint64 { return c.hash }

func (c *Coding) computeHash() uint64 {
	h := element.NewHasher("Coding")
	c.HashElement(h)
	h.Node(c.system)
	h.Node(c.version)
	h.Node(c.code)
	h.Node(c.display)
	h.Node(c.userSelected)
	return h.Sum()
}

// Check implements validate.Checkable.
func (c *Coding) Check(ch *validate.Checker) {
	c.CheckElement(ch)
}

// ToBuilder returns a builder seeded with c's fields.
func (c *Coding) ToBuilder() *CodingBuilder {
	b := &CodingBuilder{
		system:       c.system,
		version:      c.version,
		code:         c.code,
		display:      c.display,
		userSelected: c.userSelected,
	}
	b.From(&c.Element)
	return b
}

// CodingBuilder builds a Coding.
type CodingBuilder struct {
	ElementBuilder
	system       *Uri
	version      *String
	code         *Code
	display      *String
	userSelected *Boolean
}

// NewCodingBuilder creates a CodingBuilder.
func NewCodingBuilder() *CodingBuilder {
	return &CodingBuilder{}
}

// NewCoding is a shorthand for a system/code pair with an optional display.
func NewCoding(system, code, display string) *Coding {
	b := NewCodingBuilder().Code(NewCode(code))
	if system != "" {
		b.System(NewUri(system))
	}
	if display != "" {
		b.Display(NewString(display))
	}
	c, _ := b.Build(validate.WithValidation(false))
	return c
}

func (b *CodingBuilder) ID(id string) *CodingBuilder {
	b.SetID(id)
	return b
}

func (b *CodingBuilder) Extension(ext ...*Extension) *CodingBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *CodingBuilder) ReplaceExtension(ext []*Extension) *CodingBuilder {
	b.ResetExtension(ext)
	return b
}

func (b *CodingBuilder) System(v *Uri) *CodingBuilder {
	b.system = v
	return b
}

func (b *CodingBuilder) Version(v *String) *CodingBuilder {
	b.version = v
	return b
}

func (b *CodingBuilder) Code(v *Code) *CodingBuilder {
	b.code = v
	return b
}

func (b *CodingBuilder) Display(v *String) *CodingBuilder {
	b.display = v
	return b
}

func (b *CodingBuilder) UserSelected(v *Boolean) *CodingBuilder {
	b.userSelected = v
	return b
}

// Build validates the coding and returns it.
func (b *CodingBuilder) Build(opts ...validate.Option) (*Coding, error) {
	c := &Coding{
		Element:      b.Element(),
		system:       b.system,
		version:      b.version,
		code:         b.code,
		display:      b.display,
		userSelected: b.userSelected,
	}
	if err := validate.Run(c, b.Options(opts)...); err != nil {
		return nil, err
	}
	c.hash = c.computeHash()
	return c, nil
}

// CodeableConcept is a concept given by codings and/or text.
type CodeableConcept struct {
	Element
	coding []*Coding
	text   *String
	hash   uint64
}

var codeableConceptInfo = &element.TypeInfo{
	Name: "CodeableConcept",
	Kind: element.KindComplex,
	Fields: ElementFields(
		element.FieldInfo{Name: "coding", Kind: element.FieldList, Types: []string{"Coding"}},
		element.FieldInfo{Name: "text", Types: []string{"string"}},
	),
}

// Coding returns a copy of the codings.
func (c *CodeableConcept) Coding() []*Coding { return slices.Clone(c.coding) }

// Text returns the plain text representation.
func (c *CodeableConcept) Text() *String { return c.text }

// TypeName implements element.Node.
func (c *CodeableConcept) TypeName() string { return "CodeableConcept" }

// HasValue implements element.Node.
func (c *CodeableConcept) HasValue() bool { return false }

// HasChildren implements element.Node.
func (c *CodeableConcept) HasChildren() bool {
	return c.HasExtensions() || len(c.coding) > 0 || c.text != nil
}

// TypeInfo implements element.Described.
func (c *CodeableConcept) TypeInfo() *element.TypeInfo { return codeableConceptInfo }

// Codes implements element.Coded: the codes of every coding.
func (c *CodeableConcept) Codes() []element.CodeValue {
	var out []element.CodeValue
	for _, cd := range c.coding {
		if cd != nil {
			out = append(out, cd.Codes()...)
		}
	}
	return out
}

// Accept implements element.Node.
func (c *CodeableConcept) Accept(name string, index int, v element.Visitor) {
	element.Accept(c, name, index, v, func(v element.Visitor) {
		c.AcceptExtensions(v)
		element.List(v, "coding", c.coding)
		element.Child(v, "text", c.text)
	})
}

// Equal implements element.Node.
func (c *CodeableConcept) Equal(other element.Node) bool {
	o, ok := other.(*CodeableConcept)
	if !ok || o == nil {
		return false
	}
	return c.EqualElement(&o.Element) && element.EqualList(c.coding, o.coding) && element.Equal(c.text, o.text)
}

// Hash implements element.Node.
func (c *CodeableConcept) Hash() uint64 { return c.hash }

func (c *CodeableConcept) computeHash() uint64 {
	h := element.NewHasher("CodeableConcept")
	c.HashElement(h)
	element.HashList(h, c.coding)
	h.Node(c.text)
	return h.Sum()
}

// Check implements validate.Checkable.
func (c *CodeableConcept) Check(ch *validate.Checker) {
	c.CheckElement(ch)
	validate.List(ch, "coding", c.coding, "Coding")
}

// ToBuilder returns a builder seeded with c's fields.
func (c *CodeableConcept) ToBuilder() *CodeableConceptBuilder {
	b := &CodeableConceptBuilder{coding: slices.Clone(c.coding), text: c.text}
	b.From(&c.Element)
	return b
}

// CodeableConceptBuilder builds a CodeableConcept.
type CodeableConceptBuilder struct {
	ElementBuilder
	coding []*Coding
	text   *String
}

// NewCodeableConceptBuilder creates a CodeableConceptBuilder.
func NewCodeableConceptBuilder() *CodeableConceptBuilder {
	return &CodeableConceptBuilder{}
}

func (b *CodeableConceptBuilder) ID(id string) *CodeableConceptBuilder {
	b.SetID(id)
	return b
}

func (b *CodeableConceptBuilder) Extension(ext ...*Extension) *CodeableConceptBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *CodeableConceptBuilder) ReplaceExtension(ext []*Extension) *CodeableConceptBuilder {
	b.ResetExtension(ext)
	return b
}

// Coding appends codings.
func (b *CodeableConceptBuilder) Coding(v ...*Coding) *CodeableConceptBuilder {
	b.coding = append(b.coding, v...)
	return b
}

// ReplaceCoding replaces the codings.
func (b *CodeableConceptBuilder) ReplaceCoding(v []*Coding) *CodeableConceptBuilder {
	b.coding = ReplaceList(&b.ElementBuilder, "coding", v)
	return b
}

func (b *CodeableConceptBuilder) Text(v *String) *CodeableConceptBuilder {
	b.text = v
	return b
}

// Build validates the concept and returns it.
func (b *CodeableConceptBuilder) Build(opts ...validate.Option) (*CodeableConcept, error) {
	c := &CodeableConcept{
		Element: b.Element(),
		coding:  slices.Clone(b.coding),
		text:    b.text,
	}
	if err := validate.Run(c, b.Options(opts)...); err != nil {
		return nil, err
	}
	c.hash = c.computeHash()
	return c, nil
}
