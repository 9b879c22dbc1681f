package datatype

import (
	"github.com/gofhir/model/pkg/constraint"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// QuantityComparatorBinding is the required binding of Quantity.comparator.
var QuantityComparatorBinding = &element.Binding{
	Name:     "QuantityComparator",
	Strength: element.BindingRequired,
	ValueSet: "http://hl7.org/fhir/ValueSet/quantity-comparator|4.0.1",
	Codes:    []string{"<", "<=", ">=", ">"},
}

// qty-3: If a code for the unit is present, the system SHALL also be present.
var qty3 = constraint.Constraint{
	Key:        "qty-3",
	Severity:   constraint.SeverityError,
	Human:      "If a code for the unit is present, the system SHALL also be present",
	Expression: "code.empty() or system.exists()",
	Predicate: func(n element.Node) bool {
		q := measureOf(n)
		return q == nil || q.code == nil || q.system != nil
	},
}

// measure holds the fields shared by Quantity and its profiles.
type measure struct {
	Element
	value      *Decimal
	comparator *Code
	unit       *String
	system     *Uri
	code       *Code
	hash       uint64
}

func measureOf(n element.Node) *measure {
	switch q := n.(type) {
	case *Quantity:
		return &q.measure
	case *Duration:
		return &q.measure
	}
	return nil
}

func measureFields() []element.FieldInfo {
	return ElementFields(
		element.FieldInfo{Name: "value", Types: []string{"decimal"}},
		element.FieldInfo{Name: "comparator", Types: []string{"code"}, Binding: QuantityComparatorBinding},
		element.FieldInfo{Name: "unit", Types: []string{"string"}},
		element.FieldInfo{Name: "system", Types: []string{"uri"}},
		element.FieldInfo{Name: "code", Types: []string{"code"}},
	)
}

var (
	quantityInfo = &element.TypeInfo{Name: "Quantity", Kind: element.KindComplex, Fields: measureFields()}
	durationInfo = &element.TypeInfo{Name: "Duration", Kind: element.KindComplex, Fields: measureFields()}
)

func (q *measure) Value() *Decimal   { return q.value }
func (q *measure) Comparator() *Code { return q.comparator }
func (q *measure) Unit() *String     { return q.unit }
func (q *measure) System() *Uri      { return q.system }
func (q *measure) Code() *Code       { return q.code }
func (q *measure) HasValue() bool    { return false }
func (q *measure) Hash() uint64      { return q.hash }

// HasChildren implements element.Node.
func (q *measure) HasChildren() bool {
	return q.HasExtensions() || q.value != nil || q.comparator != nil || q.unit != nil ||
		q.system != nil || q.code != nil
}

// Codes implements element.Coded with the unit code.
func (q *measure) Codes() []element.CodeValue {
	if q.code == nil || !q.code.set {
		return nil
	}
	cv := element.CodeValue{Code: q.code.value}
	if q.system != nil {
		cv.System = q.system.value
	}
	return []element.CodeValue{cv}
}

func (q *measure) children(v element.Visitor) {
	q.AcceptExtensions(v)
	element.Child(v, "value", q.value)
	element.Child(v, "comparator", q.comparator)
	element.Child(v, "unit", q.unit)
	element.Child(v, "system", q.system)
	element.Child(v, "code", q.code)
}

func (q *measure) equal(o *measure) bool {
	return q.EqualElement(&o.Element) &&
		element.Equal(q.value, o.value) &&
		element.Equal(q.comparator, o.comparator) &&
		element.Equal(q.unit, o.unit) &&
		element.Equal(q.system, o.system) &&
		element.Equal(q.code, o.code)
}

func (q *measure) computeHash(typeName string) uint64 {
	h := element.NewHasher(typeName)
	q.HashElement(h)
	h.Node(q.value)
	h.Node(q.comparator)
	h.Node(q.unit)
	h.Node(q.system)
	h.Node(q.code)
	return h.Sum()
}

func (q *measure) check(c *validate.Checker, self element.Node) {
	q.CheckElement(c)
	c.Binding("comparator", q.comparator, QuantityComparatorBinding)
	c.Invariant(qty3, self)
}

// Quantity is a measured amount.
type Quantity struct{ measure }

// TypeName implements element.Node.
func (q *Quantity) TypeName() string { return "Quantity" }

// TypeInfo implements element.Described.
func (q *Quantity) TypeInfo() *element.TypeInfo { return quantityInfo }

// Accept implements element.Node.
func (q *Quantity) Accept(name string, index int, v element.Visitor) {
	element.Accept(q, name, index, v, q.children)
}

// Equal implements element.Node.
func (q *Quantity) Equal(other element.Node) bool {
	o, ok := other.(*Quantity)
	return ok && o != nil && q.equal(&o.measure)
}

// Check implements validate.Checkable.
func (q *Quantity) Check(c *validate.Checker) { q.check(c, q) }

// ToBuilder returns a builder seeded with q's fields.
func (q *Quantity) ToBuilder() *QuantityBuilder {
	return &QuantityBuilder{measureBuilder: seedMeasure(&q.measure)}
}

// Duration is a Quantity profile for lengths of time. It can stand in for a
// Quantity.
type Duration struct{ measure }

// TypeName implements element.Node.
func (d *Duration) TypeName() string { return "Duration" }

// Supertypes implements element.Subtype.
func (d *Duration) Supertypes() []string { return []string{"Quantity"} }

// TypeInfo implements element.Described.
func (d *Duration) TypeInfo() *element.TypeInfo { return durationInfo }

// Accept implements element.Node.
func (d *Duration) Accept(name string, index int, v element.Visitor) {
	element.Accept(d, name, index, v, d.children)
}

// Equal implements element.Node.
func (d *Duration) Equal(other element.Node) bool {
	o, ok := other.(*Duration)
	return ok && o != nil && d.equal(&o.measure)
}

// Check implements validate.Checkable.
func (d *Duration) Check(c *validate.Checker) { d.check(c, d) }

// ToBuilder returns a builder seeded with d's fields.
func (d *Duration) ToBuilder() *DurationBuilder {
	return &DurationBuilder{measureBuilder: seedMeasure(&d.measure)}
}

type measureBuilder struct {
	ElementBuilder
	value      *Decimal
	comparator *Code
	unit       *String
	system     *Uri
	code       *Code
}

func seedMeasure(q *measure) measureBuilder {
	b := measureBuilder{
		value:      q.value,
		comparator: q.comparator,
		unit:       q.unit,
		system:     q.system,
		code:       q.code,
	}
	b.From(&q.Element)
	return b
}

func (b *measureBuilder) measure() measure {
	return measure{
		Element:    b.Element(),
		value:      b.value,
		comparator: b.comparator,
		unit:       b.unit,
		system:     b.system,
		code:       b.code,
	}
}

// QuantityBuilder builds a Quantity.
type QuantityBuilder struct{ measureBuilder }

// NewQuantityBuilder creates a QuantityBuilder.
func NewQuantityBuilder() *QuantityBuilder { return &QuantityBuilder{} }

func (b *QuantityBuilder) ID(id string) *QuantityBuilder {
	b.SetID(id)
	return b
}

func (b *QuantityBuilder) Extension(ext ...*Extension) *QuantityBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *QuantityBuilder) ReplaceExtension(ext []*Extension) *QuantityBuilder {
	b.ResetExtension(ext)
	return b
}

func (b *QuantityBuilder) Value(v *Decimal) *QuantityBuilder {
	b.value = v
	return b
}

func (b *QuantityBuilder) Comparator(v *Code) *QuantityBuilder {
	b.comparator = v
	return b
}

func (b *QuantityBuilder) Unit(v *String) *QuantityBuilder {
	b.unit = v
	return b
}

func (b *QuantityBuilder) System(v *Uri) *QuantityBuilder {
	b.system = v
	return b
}

func (b *QuantityBuilder) Code(v *Code) *QuantityBuilder {
	b.code = v
	return b
}

// Build validates the quantity and returns it.
func (b *QuantityBuilder) Build(opts ...validate.Option) (*Quantity, error) {
	q := &Quantity{b.measure()}
	if err := validate.Run(q, b.Options(opts)...); err != nil {
		return nil, err
	}
	q.hash = q.computeHash("Quantity")
	return q, nil
}

// DurationBuilder builds a Duration.
type DurationBuilder struct{ measureBuilder }

// NewDurationBuilder creates a DurationBuilder.
func NewDurationBuilder() *DurationBuilder { return &DurationBuilder{} }

func (b *DurationBuilder) ID(id string) *DurationBuilder {
	b.SetID(id)
	return b
}

func (b *DurationBuilder) Extension(ext ...*Extension) *DurationBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *DurationBuilder) ReplaceExtension(ext []*Extension) *DurationBuilder {
	b.ResetExtension(ext)
	return b
}

func (b *DurationBuilder) Value(v *Decimal) *DurationBuilder {
	b.value = v
	return b
}

func (b *DurationBuilder) Comparator(v *Code) *DurationBuilder {
	b.comparator = v
	return b
}

func (b *DurationBuilder) Unit(v *String) *DurationBuilder {
	b.unit = v
	return b
}

func (b *DurationBuilder) System(v *Uri) *DurationBuilder {
	b.system = v
	return b
}

func (b *DurationBuilder) Code(v *Code) *DurationBuilder {
	b.code = v
	return b
}

// Build validates the duration and returns it.
func (b *DurationBuilder) Build(opts ...validate.Option) (*Duration, error) {
	q := &Duration{b.measure()}
	if err := validate.Run(q, b.Options(opts)...); err != nil {
		return nil, err
	}
	q.hash = q.computeHash("Duration")
	return q, nil
}
