package datatype

import (
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// The primitives below narrow integer, uri or string. Each keeps its own
// type so choice alternatives and JSON keys name the declared primitive.

// PositiveInt is the FHIR positiveInt primitive: an integer of at least 1.
type PositiveInt struct{ primitive[int32] }

// PositiveIntBuilder builds a PositiveInt.
type PositiveIntBuilder = PrimitiveBuilder[int32, *PositiveInt]

var positiveIntInfo = primitiveInfo("positiveInt")

func makePositiveInt(e Element, v int32, set bool) *PositiveInt {
	p := &PositiveInt{primitive[int32]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewPositiveInt returns a positiveInt without validation.
func NewPositiveInt(v int32) *PositiveInt { return makePositiveInt(Element{}, v, true) }

// NewPositiveIntBuilder creates a PositiveIntBuilder.
func NewPositiveIntBuilder() *PositiveIntBuilder {
	return newPrimitiveBuilder[int32](nil, makePositiveInt)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *PositiveInt) ToBuilder() *PositiveIntBuilder {
	return newPrimitiveBuilder(&p.primitive, makePositiveInt)
}

func (p *PositiveInt) TypeName() string            { return "positiveInt" }
func (p *PositiveInt) PrimitiveValue() any         { return p.anyValue() }
func (p *PositiveInt) TypeInfo() *element.TypeInfo { return positiveIntInfo }
func (p *PositiveInt) Supertypes() []string        { return []string{"integer"} }
func (p *PositiveInt) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *PositiveInt) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.PositiveInt("value", p.value)
	}
}

// Equal implements element.Node.
func (p *PositiveInt) Equal(other element.Node) bool {
	o, ok := other.(*PositiveInt)
	return ok && o != nil && p.equal(&o.primitive)
}

// UnsignedInt is the FHIR unsignedInt primitive: a non-negative integer.
type UnsignedInt struct{ primitive[int32] }

// UnsignedIntBuilder builds a UnsignedInt.
type UnsignedIntBuilder = PrimitiveBuilder[int32, *UnsignedInt]

var unsignedIntInfo = primitiveInfo("unsignedInt")

func makeUnsignedInt(e Element, v int32, set bool) *UnsignedInt {
	p := &UnsignedInt{primitive[int32]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewUnsignedInt returns a unsignedInt without validation.
func NewUnsignedInt(v int32) *UnsignedInt { return makeUnsignedInt(Element{}, v, true) }

// NewUnsignedIntBuilder creates a UnsignedIntBuilder.
func NewUnsignedIntBuilder() *UnsignedIntBuilder {
	return newPrimitiveBuilder[int32](nil, makeUnsignedInt)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *UnsignedInt) ToBuilder() *UnsignedIntBuilder {
	return newPrimitiveBuilder(&p.primitive, makeUnsignedInt)
}

func (p *UnsignedInt) TypeName() string            { return "unsignedInt" }
func (p *UnsignedInt) PrimitiveValue() any         { return p.anyValue() }
func (p *UnsignedInt) TypeInfo() *element.TypeInfo { return unsignedIntInfo }
func (p *UnsignedInt) Supertypes() []string        { return []string{"integer"} }
func (p *UnsignedInt) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *UnsignedInt) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.UnsignedInt("value", p.value)
	}
}

// Equal implements element.Node.
func (p *UnsignedInt) Equal(other element.Node) bool {
	o, ok := other.(*UnsignedInt)
	return ok && o != nil && p.equal(&o.primitive)
}

// Url is a uri that is a literal network address.
type Url struct{ primitive[string] }

// UrlBuilder builds a Url.
type UrlBuilder = PrimitiveBuilder[string, *Url]

var urlInfo = primitiveInfo("url")

func makeUrl(e Element, v string, set bool) *Url {
	p := &Url{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewUrl returns a url without validation.
func NewUrl(v string) *Url { return makeUrl(Element{}, v, true) }

// NewUrlBuilder creates a UrlBuilder.
func NewUrlBuilder() *UrlBuilder {
	return newPrimitiveBuilder[string](nil, makeUrl)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *Url) ToBuilder() *UrlBuilder {
	return newPrimitiveBuilder(&p.primitive, makeUrl)
}

func (p *Url) TypeName() string            { return "url" }
func (p *Url) PrimitiveValue() any         { return p.anyValue() }
func (p *Url) TypeInfo() *element.TypeInfo { return urlInfo }
func (p *Url) Supertypes() []string        { return []string{"uri"} }
func (p *Url) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Url) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.URI("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Url) Equal(other element.Node) bool {
	o, ok := other.(*Url)
	return ok && o != nil && p.equal(&o.primitive)
}

// Oid is a uri holding an OID in urn:oid: form.
type Oid struct{ primitive[string] }

// OidBuilder builds a Oid.
type OidBuilder = PrimitiveBuilder[string, *Oid]

var oidInfo = primitiveInfo("oid")

func makeOid(e Element, v string, set bool) *Oid {
	p := &Oid{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewOid returns a oid without validation.
func NewOid(v string) *Oid { return makeOid(Element{}, v, true) }

// NewOidBuilder creates a OidBuilder.
func NewOidBuilder() *OidBuilder {
	return newPrimitiveBuilder[string](nil, makeOid)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *Oid) ToBuilder() *OidBuilder {
	return newPrimitiveBuilder(&p.primitive, makeOid)
}

func (p *Oid) TypeName() string            { return "oid" }
func (p *Oid) PrimitiveValue() any         { return p.anyValue() }
func (p *Oid) TypeInfo() *element.TypeInfo { return oidInfo }
func (p *Oid) Supertypes() []string        { return []string{"uri"} }
func (p *Oid) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Oid) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.OID("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Oid) Equal(other element.Node) bool {
	o, ok := other.(*Oid)
	return ok && o != nil && p.equal(&o.primitive)
}

// Uuid is a uri holding a UUID in urn:uuid: form.
type Uuid struct{ primitive[string] }

// UuidBuilder builds a Uuid.
type UuidBuilder = PrimitiveBuilder[string, *Uuid]

var uuidInfo = primitiveInfo("uuid")

func makeUuid(e Element, v string, set bool) *Uuid {
	p := &Uuid{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewUuid returns a uuid without validation.
func NewUuid(v string) *Uuid { return makeUuid(Element{}, v, true) }

// NewUuidBuilder creates a UuidBuilder.
func NewUuidBuilder() *UuidBuilder {
	return newPrimitiveBuilder[string](nil, makeUuid)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *Uuid) ToBuilder() *UuidBuilder {
	return newPrimitiveBuilder(&p.primitive, makeUuid)
}

func (p *Uuid) TypeName() string            { return "uuid" }
func (p *Uuid) PrimitiveValue() any         { return p.anyValue() }
func (p *Uuid) TypeInfo() *element.TypeInfo { return uuidInfo }
func (p *Uuid) Supertypes() []string        { return []string{"uri"} }
func (p *Uuid) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Uuid) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.UUID("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Uuid) Equal(other element.Node) bool {
	o, ok := other.(*Uuid)
	return ok && o != nil && p.equal(&o.primitive)
}

// Time is a time of day without a date or timezone.
type Time struct{ primitive[string] }

// TimeBuilder builds a Time.
type TimeBuilder = PrimitiveBuilder[string, *Time]

var timeInfo = primitiveInfo("time")

func makeTime(e Element, v string, set bool) *Time {
	p := &Time{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewTime returns a time without validation.
func NewTime(v string) *Time { return makeTime(Element{}, v, true) }

// NewTimeBuilder creates a TimeBuilder.
func NewTimeBuilder() *TimeBuilder {
	return newPrimitiveBuilder[string](nil, makeTime)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *Time) ToBuilder() *TimeBuilder {
	return newPrimitiveBuilder(&p.primitive, makeTime)
}

func (p *Time) TypeName() string            { return "time" }
func (p *Time) PrimitiveValue() any         { return p.anyValue() }
func (p *Time) TypeInfo() *element.TypeInfo { return timeInfo }
func (p *Time) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Time) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.Time("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Time) Equal(other element.Node) bool {
	o, ok := other.(*Time)
	return ok && o != nil && p.equal(&o.primitive)
}

// Base64Binary is base64 encoded content, kept encoded.
type Base64Binary struct{ primitive[string] }

// Base64BinaryBuilder builds a Base64Binary.
type Base64BinaryBuilder = PrimitiveBuilder[string, *Base64Binary]

var base64BinaryInfo = primitiveInfo("base64Binary")

func makeBase64Binary(e Element, v string, set bool) *Base64Binary {
	p := &Base64Binary{primitive[string]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewBase64Binary returns a base64Binary without validation.
func NewBase64Binary(v string) *Base64Binary { return makeBase64Binary(Element{}, v, true) }

// NewBase64BinaryBuilder creates a Base64BinaryBuilder.
func NewBase64BinaryBuilder() *Base64BinaryBuilder {
	return newPrimitiveBuilder[string](nil, makeBase64Binary)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *Base64Binary) ToBuilder() *Base64BinaryBuilder {
	return newPrimitiveBuilder(&p.primitive, makeBase64Binary)
}

func (p *Base64Binary) TypeName() string            { return "base64Binary" }
func (p *Base64Binary) PrimitiveValue() any         { return p.anyValue() }
func (p *Base64Binary) TypeInfo() *element.TypeInfo { return base64BinaryInfo }
func (p *Base64Binary) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// Check implements validate.Checkable.
func (p *Base64Binary) Check(c *validate.Checker) {
	p.CheckElement(c)
	if p.set {
		c.Base64Binary("value", p.value)
	}
}

// Equal implements element.Node.
func (p *Base64Binary) Equal(other element.Node) bool {
	o, ok := other.(*Base64Binary)
	return ok && o != nil && p.equal(&o.primitive)
}
