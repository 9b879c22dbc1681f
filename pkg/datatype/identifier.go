package datatype

import (
	"github.com/gofhir/model/pkg/constraint"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// IdentifierUseBinding is the required binding of Identifier.use.
var IdentifierUseBinding = &element.Binding{
	Name:     "IdentifierUse",
	Strength: element.BindingRequired,
	ValueSet: "http://hl7.org/fhir/ValueSet/identifier-use|4.0.1",
	Codes:    []string{"usual", "official", "temp", "secondary", "old"},
}

// Identifier is a business identifier of a resource.
type Identifier struct {
	Element
	use      *Code
	typ      *CodeableConcept
	system   *Uri
	value    *String
	period   *Period
	assigner *Reference
	hash     uint64
}

var identifierInfo = &element.TypeInfo{
	Name: "Identifier",
	Kind: element.KindComplex,
	Fields: ElementFields(
		element.FieldInfo{Name: "use", Types: []string{"code"}, Binding: IdentifierUseBinding},
		element.FieldInfo{Name: "type", Types: []string{"CodeableConcept"}},
		element.FieldInfo{Name: "system", Types: []string{"uri"}},
		element.FieldInfo{Name: "value", Types: []string{"string"}},
		element.FieldInfo{Name: "period", Types: []string{"Period"}},
		element.FieldInfo{Name: "assigner", Types: []string{"Reference"}, Targets: []string{"Organization"}},
	),
}

func (i *Identifier) Use() *Code                  { return i.use }
func (i *Identifier) Type() *CodeableConcept      { return i.typ }
func (i *Identifier) System() *Uri                { return i.system }
func (i *Identifier) Value() *String              { return i.value }
func (i *Identifier) Period() *Period             { return i.period }
func (i *Identifier) Assigner() *Reference        { return i.assigner }
func (i *Identifier) TypeName() string            { return "Identifier" }
func (i *Identifier) HasValue() bool              { return false }
func (i *Identifier) Hash() uint64                { return i.hash }
func (i *Identifier) TypeInfo() *element.TypeInfo { return identifierInfo }

// HasChildren implements element.Node.
func (i *Identifier) HasChildren() bool {
	return i.HasExtensions() || i.use != nil || i.typ != nil || i.system != nil ||
		i.value != nil || i.period != nil || i.assigner != nil
}

// Accept implements element.Node.
func (i *Identifier) Accept(name string, index int, v element.Visitor) {
	element.Accept(i, name, index, v, func(v element.Visitor) {
		i.AcceptExtensions(v)
		element.Child(v, "use", i.use)
		element.Child(v, "type", i.typ)
		element.Child(v, "system", i.system)
		element.Child(v, "value", i.value)
		element.Child(v, "period", i.period)
		element.Child(v, "assigner", i.assigner)
	})
}

// Equal implements element.Node.
func (i *Identifier) Equal(other element.Node) bool {
	o, ok := other.(*Identifier)
	if !ok || o == nil {
		return false
	}
	return i.EqualElement(&o.Element) &&
		element.Equal(i.use, o.use) &&
		element.Equal(i.typ, o.typ) &&
		element.Equal(i.system, o.system) &&
		element.Equal(i.value, o.value) &&
		element.Equal(i.period, o.period) &&
		element.Equal(i.assigner, o.assigner)
}

func (i *Identifier) computeHash() uint64 {
	h := element.NewHasher("Identifier")
	i.HashElement(h)
	h.Node(i.use)
	h.Node(i.typ)
	h.Node(i.system)
	h.Node(i.value)
	h.Node(i.period)
	h.Node(i.assigner)
	return h.Sum()
}

// Check implements validate.Checkable.
func (i *Identifier) Check(c *validate.Checker) {
	i.CheckElement(c)
	c.Reference("assigner", i.assigner, "Organization")
	c.Binding("use", i.use, IdentifierUseBinding)
}

// ToBuilder returns a builder seeded with i's fields.
func (i *Identifier) ToBuilder() *IdentifierBuilder {
	b := &IdentifierBuilder{
		use:      i.use,
		typ:      i.typ,
		system:   i.system,
		value:    i.value,
		period:   i.period,
		assigner: i.assigner,
	}
	b.From(&i.Element)
	return b
}

// IdentifierBuilder builds an Identifier.
type IdentifierBuilder struct {
	ElementBuilder
	use      *Code
	typ      *CodeableConcept
	system   *Uri
	value    *String
	period   *Period
	assigner *Reference
}

// NewIdentifierBuilder creates an IdentifierBuilder.
func NewIdentifierBuilder() *IdentifierBuilder {
	return &IdentifierBuilder{}
}

func (b *IdentifierBuilder) ID(id string) *IdentifierBuilder {
	b.SetID(id)
	return b
}

func (b *IdentifierBuilder) Extension(ext ...*Extension) *IdentifierBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *IdentifierBuilder) ReplaceExtension(ext []*Extension) *IdentifierBuilder {
	b.ResetExtension(ext)
	return b
}

func (b *IdentifierBuilder) Use(v *Code) *IdentifierBuilder {
	b.use = v
	return b
}

func (b *IdentifierBuilder) Type(v *CodeableConcept) *IdentifierBuilder {
	b.typ = v
	return b
}

func (b *IdentifierBuilder) System(v *Uri) *IdentifierBuilder {
	b.system = v
	return b
}

func (b *IdentifierBuilder) Value(v *String) *IdentifierBuilder {
	b.value = v
	return b
}

func (b *IdentifierBuilder) Period(v *Period) *IdentifierBuilder {
	b.period = v
	return b
}

func (b *IdentifierBuilder) Assigner(v *Reference) *IdentifierBuilder {
	b.assigner = v
	return b
}

// Build validates the identifier and returns it.
func (b *IdentifierBuilder) Build(opts ...validate.Option) (*Identifier, error) {
	i := &Identifier{
		Element:  b.Element(),
		use:      b.use,
		typ:      b.typ,
		system:   b.system,
		value:    b.value,
		period:   b.period,
		assigner: b.assigner,
	}
	if err := validate.Run(i, b.Options(opts)...); err != nil {
		return nil, err
	}
	i.hash = i.computeHash()
	return i, nil
}

// per-1: If present, start SHALL have a lower value than end.
var per1 = constraint.Constraint{
	Key:        "per-1",
	Severity:   constraint.SeverityError,
	Human:      "If present, start SHALL have a lower value than end",
	Expression: "start.hasValue().not() or end.hasValue().not() or (start <= end)",
}

// Period is a time range bounded by start and/or end.
type Period struct {
	Element
	start *DateTime
	end   *DateTime
	hash  uint64
}

var periodInfo = &element.TypeInfo{
	Name: "Period",
	Kind: element.KindComplex,
	Fields: ElementFields(
		element.FieldInfo{Name: "start", Types: []string{"dateTime"}},
		element.FieldInfo{Name: "end", Types: []string{"dateTime"}},
	),
}

func (p *Period) Start() *DateTime            { return p.start }
func (p *Period) End() *DateTime              { return p.end }
func (p *Period) TypeName() string            { return "Period" }
func (p *Period) HasValue() bool              { return false }
func (p *Period) Hash() uint64                { return p.hash }
func (p *Period) TypeInfo() *element.TypeInfo { return periodInfo }

// HasChildren implements element.Node.
func (p *Period) HasChildren() bool {
	return p.HasExtensions() || p.start != nil || p.end != nil
}

// Accept implements element.Node.
func (p *Period) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, func(v element.Visitor) {
		p.AcceptExtensions(v)
		element.Child(v, "start", p.start)
		element.Child(v, "end", p.end)
	})
}

// Equal implements element.Node.
func (p *Period) Equal(other element.Node) bool {
	o, ok := other.(*Period)
	if !ok || o == nil {
		return false
	}
	return p.EqualElement(&o.Element) && element.Equal(p.start, o.start) && element.Equal(p.end, o.end)
}

func (p *Period) computeHash() uint64 {
	h := element.NewHasher("Period")
	p.HashElement(h)
	h.Node(p.start)
	h.Node(p.end)
	return h.Sum()
}

// Check implements validate.Checkable.
func (p *Period) Check(c *validate.Checker) {
	p.CheckElement(c)
	c.Invariant(per1, p)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *Period) ToBuilder() *PeriodBuilder {
	b := &PeriodBuilder{start: p.start, end: p.end}
	b.From(&p.Element)
	return b
}

// PeriodBuilder builds a Period.
type PeriodBuilder struct {
	ElementBuilder
	start *DateTime
	end   *DateTime
}

// NewPeriodBuilder creates a PeriodBuilder.
func NewPeriodBuilder() *PeriodBuilder {
	return &PeriodBuilder{}
}

func (b *PeriodBuilder) ID(id string) *PeriodBuilder {
	b.SetID(id)
	return b
}

func (b *PeriodBuilder) Extension(ext ...*Extension) *PeriodBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *PeriodBuilder) ReplaceExtension(ext []*Extension) *PeriodBuilder {
	b.ResetExtension(ext)
	return b
}

func (b *PeriodBuilder) Start(v *DateTime) *PeriodBuilder {
	b.start = v
	return b
}

func (b *PeriodBuilder) End(v *DateTime) *PeriodBuilder {
	b.end = v
	return b
}

// Build validates the period and returns it.
func (b *PeriodBuilder) Build(opts ...validate.Option) (*Period, error) {
	p := &Period{Element: b.Element(), start: b.start, end: b.end}
	if err := validate.Run(p, b.Options(opts)...); err != nil {
		return nil, err
	}
	p.hash = p.computeHash()
	return p, nil
}
