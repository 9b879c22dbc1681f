package datatype

import (
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// primitive is the shared state of the primitive datatypes: an optional
// value plus the id and extensions every element carries.
type primitive[V comparable] struct {
	Element
	value V
	set   bool
	hash  uint64
}

// Value returns the value, or the zero value when absent.
func (p *primitive[V]) Value() V { return p.value }

// Get returns the value and whether it is present.
func (p *primitive[V]) Get() (V, bool) { return p.value, p.set }

// HasValue implements element.Node.
func (p *primitive[V]) HasValue() bool { return p.set }

// HasChildren implements element.Node.
func (p *primitive[V]) HasChildren() bool { return p.HasExtensions() }

// Hash implements element.Node.
func (p *primitive[V]) Hash() uint64 { return p.hash }

func (p *primitive[V]) equal(o *primitive[V]) bool {
	return p.set == o.set && p.value == o.value && p.EqualElement(&o.Element)
}

// anyValue returns the value for element.Primitive.
func (p *primitive[V]) anyValue() any {
	if !p.set {
		return nil
	}
	return p.value
}

// seal computes the hash of a primitive from its type and value.
func seal(n element.Primitive, e *Element) uint64 {
	h := element.NewHasher(n.TypeName())
	e.HashElement(h)
	switch v := n.PrimitiveValue().(type) {
	case nil:
		h.Bool(false)
	case bool:
		h.Bool(true)
		h.Bool(v)
	case int32:
		h.Bool(true)
		h.Int(int64(v))
	case string:
		h.Bool(true)
		h.String(v)
	case element.Number:
		h.Bool(true)
		h.String(string(v))
	}
	return h.Sum()
}

func primitiveInfo(name string) *element.TypeInfo {
	return &element.TypeInfo{Name: name, Kind: element.KindPrimitive, Fields: ElementFields()}
}

// PrimitiveBuilder builds a primitive of type P holding a V. The concrete
// builders (StringBuilder, CodeBuilder, ...) are instantiations of it.
type PrimitiveBuilder[V any, P validate.Checkable] struct {
	ElementBuilder
	value V
	set   bool
	build func(Element, V, bool) P
}

// Value sets the value.
func (b *PrimitiveBuilder[V, P]) Value(v V) *PrimitiveBuilder[V, P] {
	b.value, b.set = v, true
	return b
}

// ClearValue removes the value, leaving only id and extensions.
func (b *PrimitiveBuilder[V, P]) ClearValue() *PrimitiveBuilder[V, P] {
	var zero V
	b.value, b.set = zero, false
	return b
}

// ID sets the element id.
func (b *PrimitiveBuilder[V, P]) ID(id string) *PrimitiveBuilder[V, P] {
	b.SetID(id)
	return b
}

// Extension appends extensions.
func (b *PrimitiveBuilder[V, P]) Extension(ext ...*Extension) *PrimitiveBuilder[V, P] {
	b.AddExtension(ext...)
	return b
}

// ReplaceExtension replaces the extensions.
func (b *PrimitiveBuilder[V, P]) ReplaceExtension(ext []*Extension) *PrimitiveBuilder[V, P] {
	b.ResetExtension(ext)
	return b
}

// Build validates the value format and returns the primitive.
func (b *PrimitiveBuilder[V, P]) Build(opts ...validate.Option) (P, error) {
	p := b.build(b.Element(), b.value, b.set)
	if err := validate.Run(p, b.Options(opts)...); err != nil {
		var zero P
		return zero, err
	}
	return p, nil
}

func newPrimitiveBuilder[V comparable, P validate.Checkable](p *primitive[V], build func(Element, V, bool) P) *PrimitiveBuilder[V, P] {
	b := &PrimitiveBuilder[V, P]{build: build}
	if p != nil {
		b.value, b.set = p.value, p.set
		b.From(&p.Element)
	}
	return b
}

// --- boolean ---

// Boolean is the FHIR boolean primitive.
type Boolean struct{ primitive[bool] }

// BooleanBuilder builds a Boolean.
type BooleanBuilder = PrimitiveBuilder[bool, *Boolean]

var booleanInfo = primitiveInfo("boolean")

func makeBoolean(e Element, v bool, set bool) *Boolean {
	p := &Boolean{primitive[bool]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewBoolean returns a boolean without validation.
func NewBoolean(v bool) *Boolean { return makeBoolean(Element{}, v, true) }

// NewBooleanBuilder creates a BooleanBuilder.
func NewBooleanBuilder() *BooleanBuilder { return newPrimitiveBuilder[bool](nil, makeBoolean) }

// ToBuilder returns a builder seeded with p's fields.
func (p *Boolean) ToBuilder() *BooleanBuilder { return newPrimitiveBuilder(&p.primitive, makeBoolean) }

func (p *Boolean) TypeName() string            { return "boolean" }
func (p *Boolean) PrimitiveValue() any         { return p.anyValue() }
func (p *Boolean) TypeInfo() *element.TypeInfo { return booleanInfo }
func (p *Boolean) Check(c *validate.Checker)   { p.CheckElement(c) }
func (p *Boolean) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Equal implements element.Node.
func (p *Boolean) Equal(other element.Node) bool {
	o, ok := other.(*Boolean)
	return ok && o != nil && p.equal(&o.primitive)
}

// --- integer ---

// Integer is the FHIR integer primitive, a signed 32-bit value.
type Integer struct{ primitive[int32] }

// IntegerBuilder builds an Integer.
type IntegerBuilder = PrimitiveBuilder[int32, *Integer]

var integerInfo = primitiveInfo("integer")

func makeInteger(e Element, v int32, set bool) *Integer {
	p := &Integer{primitive[int32]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewInteger returns an integer without validation.
func NewInteger(v int32) *Integer { return makeInteger(Element{}, v, true) }

// NewIntegerBuilder creates an IntegerBuilder.
func NewIntegerBuilder() *IntegerBuilder { return newPrimitiveBuilder[int32](nil, makeInteger) }

// ToBuilder returns a builder seeded with p's fields.
func (p *Integer) ToBuilder() *IntegerBuilder { return newPrimitiveBuilder(&p.primitive, makeInteger) }

func (p *Integer) TypeName() string            { return "integer" }
func (p *Integer) PrimitiveValue() any         { return p.anyValue() }
func (p *Integer) TypeInfo() *element.TypeInfo { return integerInfo }
func (p *Integer) Check(c *validate.Checker)   { p.CheckElement(c) }
func (p *Integer) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Equal implements element.Node.
func (p *Integer) Equal(other element.Node) bool {
	o, ok := other.(*Integer)
	return ok && o != nil && p.equal(&o.primitive)
}

// --- string-valued primitives ---

// String is the FHIR string primitive.
type String struct{ primitive[string] }

// StringBuilder builds a String.
type StringBuilder = PrimitiveBuilder[string, *String]

var stringInfo = primitiveInfo("string")

func makeString(e Element, v string, set bool) *String {
	p := &String{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewString returns a string without validation.
func NewString(v string) *String { return makeString(Element{}, v, true) }

// NewStringBuilder creates a StringBuilder.
func NewStringBuilder() *StringBuilder { return newPrimitiveBuilder[string](nil, makeString) }

// ToBuilder returns a builder seeded with p's fields.
func (p *String) ToBuilder() *StringBuilder { return newPrimitiveBuilder(&p.primitive, makeString) }

func (p *String) TypeName() string            { return "string" }
func (p *String) PrimitiveValue() any         { return p.anyValue() }
func (p *String) TypeInfo() *element.TypeInfo { return stringInfo }
func (p *String) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *String) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.String("value", p.value)
	}
}

// Equal implements element.Node.
func (p *String) Equal(other element.Node) bool {
	o, ok := other.(*String)
	return ok && o != nil && p.equal(&o.primitive)
}

// Code is the FHIR code primitive: a token from a defined set.
type Code struct{ primitive[string] }

// CodeBuilder builds a Code.
type CodeBuilder = PrimitiveBuilder[string, *Code]

var codeInfo = primitiveInfo("code")

func makeCode(e Element, v string, set bool) *Code {
	p := &Code{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewCode returns a code without validation.
func NewCode(v string) *Code { return makeCode(Element{}, v, true) }

// NewCodeBuilder creates a CodeBuilder.
func NewCodeBuilder() *CodeBuilder { return newPrimitiveBuilder[string](nil, makeCode) }

// ToBuilder returns a builder seeded with p's fields.
func (p *Code) ToBuilder() *CodeBuilder { return newPrimitiveBuilder(&p.primitive, makeCode) }

func (p *Code) TypeName() string            { return "code" }
func (p *Code) PrimitiveValue() any         { return p.anyValue() }
func (p *Code) TypeInfo() *element.TypeInfo { return codeInfo }
func (p *Code) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Codes implements element.Coded.
func (p *Code) Codes() []element.CodeValue {
	if !p.set {
		return nil
	}
	return []element.CodeValue{{Code: p.value}}
}

// Check implements validate.Checkable.
func (p *Code) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.Code("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Code) Equal(other element.Node) bool {
	o, ok := other.(*Code)
	return ok && o != nil && p.equal(&o.primitive)
}

// Id is the FHIR id primitive.
type Id struct{ primitive[string] }

// IdBuilder builds an Id.
type IdBuilder = PrimitiveBuilder[string, *Id]

var idInfo = primitiveInfo("id")

func makeId(e Element, v string, set bool) *Id {
	p := &Id{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewId returns an id without validation.
func NewId(v string) *Id { return makeId(Element{}, v, true) }

// NewIdBuilder creates an IdBuilder.
func NewIdBuilder() *IdBuilder { return newPrimitiveBuilder[string](nil, makeId) }

// ToBuilder returns a builder seeded with p's fields.
func (p *Id) ToBuilder() *IdBuilder { return newPrimitiveBuilder(&p.primitive, makeId) }

func (p *Id) TypeName() string            { return "id" }
func (p *Id) PrimitiveValue() any         { return p.anyValue() }
func (p *Id) TypeInfo() *element.TypeInfo { return idInfo }
func (p *Id) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Id) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.ID("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Id) Equal(other element.Node) bool {
	o, ok := other.(*Id)
	return ok && o != nil && p.equal(&o.primitive)
}

// Uri is the FHIR uri primitive.
type Uri struct{ primitive[string] }

// UriBuilder builds a Uri.
type UriBuilder = PrimitiveBuilder[string, *Uri]

var uriInfo = primitiveInfo("uri")

func makeUri(e Element, v string, set bool) *Uri {
	p := &Uri{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewUri returns a uri without validation.
func NewUri(v string) *Uri { return makeUri(Element{}, v, true) }

// NewUriBuilder creates a UriBuilder.
func NewUriBuilder() *UriBuilder { return newPrimitiveBuilder[string](nil, makeUri) }

// ToBuilder returns a builder seeded with p's fields.
func (p *Uri) ToBuilder() *UriBuilder { return newPrimitiveBuilder(&p.primitive, makeUri) }

func (p *Uri) TypeName() string            { return "uri" }
func (p *Uri) PrimitiveValue() any         { return p.anyValue() }
func (p *Uri) TypeInfo() *element.TypeInfo { return uriInfo }
func (p *Uri) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Uri) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.URI("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Uri) Equal(other element.Node) bool {
	o, ok := other.(*Uri)
	return ok && o != nil && p.equal(&o.primitive)
}

// Canonical is a uri that refers to a resource by its canonical URL,
// optionally with a "|version" suffix.
type Canonical struct{ primitive[string] }

// CanonicalBuilder builds a Canonical.
type CanonicalBuilder = PrimitiveBuilder[string, *Canonical]

var canonicalInfo = primitiveInfo("canonical")

func makeCanonical(e Element, v string, set bool) *Canonical {
	p := &Canonical{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewCanonical returns a canonical without validation.
func NewCanonical(v string) *Canonical { return makeCanonical(Element{}, v, true) }

// NewCanonicalBuilder creates a CanonicalBuilder.
func NewCanonicalBuilder() *CanonicalBuilder {
	return newPrimitiveBuilder[string](nil, makeCanonical)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *Canonical) ToBuilder() *CanonicalBuilder {
	return newPrimitiveBuilder(&p.primitive, makeCanonical)
}

func (p *Canonical) TypeName() string            { return "canonical" }
func (p *Canonical) PrimitiveValue() any         { return p.anyValue() }
func (p *Canonical) TypeInfo() *element.TypeInfo { return canonicalInfo }
func (p *Canonical) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Canonical) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.URI("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Canonical) Equal(other element.Node) bool {
	o, ok := other.(*Canonical)
	return ok && o != nil && p.equal(&o.primitive)
}

// Markdown is a string that may contain markdown syntax.
type Markdown struct{ primitive[string] }

// MarkdownBuilder builds a Markdown.
type MarkdownBuilder = PrimitiveBuilder[string, *Markdown]

var markdownInfo = primitiveInfo("markdown")

func makeMarkdown(e Element, v string, set bool) *Markdown {
	p := &Markdown{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewMarkdown returns a markdown value without validation.
func NewMarkdown(v string) *Markdown { return makeMarkdown(Element{}, v, true) }

// NewMarkdownBuilder creates a MarkdownBuilder.
func NewMarkdownBuilder() *MarkdownBuilder {
	return newPrimitiveBuilder[string](nil, makeMarkdown)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *Markdown) ToBuilder() *MarkdownBuilder {
	return newPrimitiveBuilder(&p.primitive, makeMarkdown)
}

func (p *Markdown) TypeName() string            { return "markdown" }
func (p *Markdown) PrimitiveValue() any         { return p.anyValue() }
func (p *Markdown) TypeInfo() *element.TypeInfo { return markdownInfo }
func (p *Markdown) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Markdown) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.String("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Markdown) Equal(other element.Node) bool {
	o, ok := other.(*Markdown)
	return ok && o != nil && p.equal(&o.primitive)
}

// --- date and time ---

// DateTime is the FHIR dateTime primitive, kept in its lexical form since
// partial dates (2024, 2024-02) are valid.
type DateTime struct{ primitive[string] }

// DateTimeBuilder builds a DateTime.
type DateTimeBuilder = PrimitiveBuilder[string, *DateTime]

var dateTimeInfo = primitiveInfo("dateTime")

func makeDateTime(e Element, v string, set bool) *DateTime {
	p := &DateTime{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewDateTime returns a dateTime without validation.
func NewDateTime(v string) *DateTime { return makeDateTime(Element{}, v, true) }

// NewDateTimeBuilder creates a DateTimeBuilder.
func NewDateTimeBuilder() *DateTimeBuilder {
	return newPrimitiveBuilder[string](nil, makeDateTime)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *DateTime) ToBuilder() *DateTimeBuilder {
	return newPrimitiveBuilder(&p.primitive, makeDateTime)
}

func (p *DateTime) TypeName() string            { return "dateTime" }
func (p *DateTime) PrimitiveValue() any         { return p.anyValue() }
func (p *DateTime) TypeInfo() *element.TypeInfo { return dateTimeInfo }
func (p *DateTime) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *DateTime) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.DateTime("value", p.value)
	}
}

// Equal implements element.Node.
func (p *DateTime) Equal(other element.Node) bool {
	o, ok := other.(*DateTime)
	return ok && o != nil && p.equal(&o.primitive)
}

// Date is the FHIR date primitive.
type Date struct{ primitive[string] }

// DateBuilder builds a Date.
type DateBuilder = PrimitiveBuilder[string, *Date]

var dateInfo = primitiveInfo("date")

func makeDate(e Element, v string, set bool) *Date {
	p := &Date{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewDate returns a date without validation.
func NewDate(v string) *Date { return makeDate(Element{}, v, true) }

// NewDateBuilder creates a DateBuilder.
func NewDateBuilder() *DateBuilder { return newPrimitiveBuilder[string](nil, makeDate) }

// ToBuilder returns a builder seeded with p's fields.
func (p *Date) ToBuilder() *DateBuilder { return newPrimitiveBuilder(&p.primitive, makeDate) }

func (p *Date) TypeName() string            { return "date" }
func (p *Date) PrimitiveValue() any         { return p.anyValue() }
func (p *Date) TypeInfo() *element.TypeInfo { return dateInfo }
func (p *Date) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Date) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.Date("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Date) Equal(other element.Node) bool {
	o, ok := other.(*Date)
	return ok && o != nil && p.equal(&o.primitive)
}

// Instant is the FHIR instant primitive: a dateTime with at least seconds
// and a timezone.
type Instant struct{ primitive[string] }

// InstantBuilder builds an Instant.
type InstantBuilder = PrimitiveBuilder[string, *Instant]

var instantInfo = primitiveInfo("instant")

func makeInstant(e Element, v string, set bool) *Instant {
	p := &Instant{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewInstant returns an instant without validation.
func NewInstant(v string) *Instant { return makeInstant(Element{}, v, true) }

// NewInstantBuilder creates an InstantBuilder.
func NewInstantBuilder() *InstantBuilder { return newPrimitiveBuilder[string](nil, makeInstant) }

// ToBuilder returns a builder seeded with p's fields.
func (p *Instant) ToBuilder() *InstantBuilder { return newPrimitiveBuilder(&p.primitive, makeInstant) }

func (p *Instant) TypeName() string            { return "instant" }
func (p *Instant) PrimitiveValue() any         { return p.anyValue() }
func (p *Instant) TypeInfo() *element.TypeInfo { return instantInfo }
func (p *Instant) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Instant) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.Instant("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Instant) Equal(other element.Node) bool {
	o, ok := other.(*Instant)
	return ok && o != nil && p.equal(&o.primitive)
}

// Xhtml holds the limited XHTML of a narrative div.
type Xhtml struct{ primitive[string] }

// XhtmlBuilder builds an Xhtml.
type XhtmlBuilder = PrimitiveBuilder[string, *Xhtml]

var xhtmlInfo = primitiveInfo("xhtml")

func makeXhtml(e Element, v string, set bool) *Xhtml {
	p := &Xhtml{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewXhtml returns an xhtml value without validation.
func NewXhtml(v string) *Xhtml { return makeXhtml(Element{}, v, true) }

// NewXhtmlBuilder creates an XhtmlBuilder.
func NewXhtmlBuilder() *XhtmlBuilder { return newPrimitiveBuilder[string](nil, makeXhtml) }

// ToBuilder returns a builder seeded with p's fields.
func (p *Xhtml) ToBuilder() *XhtmlBuilder { return newPrimitiveBuilder(&p.primitive, makeXhtml) }

func (p *Xhtml) TypeName() string            { return "xhtml" }
func (p *Xhtml) PrimitiveValue() any         { return p.anyValue() }
func (p *Xhtml) TypeInfo() *element.TypeInfo { return xhtmlInfo }
func (p *Xhtml) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Xhtml) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.Xhtml("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Xhtml) Equal(other element.Node) bool {
	o, ok := other.(*Xhtml)
	return ok && o != nil && p.equal(&o.primitive)
}
