package datatype

import (
	"github.com/shopspring/decimal"

	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/validate"
)

// Decimal is the FHIR decimal primitive. The exponent is kept, so 1.50 and
// 1.5 are different values that serialize as written.
type Decimal struct{ primitive[decimal.Decimal] }

// DecimalBuilder builds a Decimal.
type DecimalBuilder = PrimitiveBuilder[decimal.Decimal, *Decimal]

var decimalInfo = primitiveInfo("decimal")

func makeDecimal(e Element, v decimal.Decimal, set bool) *Decimal {
	p := &Decimal{primitive[decimal.Decimal]{Element: e, value: v, set: set}}
	p.hash = seal(p, &p.Element)
	return p
}

// NewDecimal returns a decimal without validation.
func NewDecimal(v decimal.Decimal) *Decimal { return makeDecimal(Element{}, v, true) }

// ParseDecimal parses the lexical form of a decimal.
func ParseDecimal(s string) (*Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, issue.Issues{issue.New(issue.DiagPrimitiveInvalidValue, map[string]any{
			"field":     "value",
			"type":      "decimal",
			"primitive": "decimal",
			"error":     err.Error(),
		})}
	}
	return NewDecimal(d), nil
}

// NewDecimalBuilder creates a DecimalBuilder.
func NewDecimalBuilder() *DecimalBuilder {
	return newPrimitiveBuilder[decimal.Decimal](nil, makeDecimal)
}

// ToBuilder returns a builder seeded with p's fields.
func (p *Decimal) ToBuilder() *DecimalBuilder {
	return newPrimitiveBuilder(&p.primitive, makeDecimal)
}

func (p *Decimal) TypeName() string            { return "decimal" }
func (p *Decimal) TypeInfo() *element.TypeInfo { return decimalInfo }
func (p *Decimal) Check(c *validate.Checker)   { p.CheckElement(c) }
func (p *Decimal) Accept(name string, index int, v element.Visitor) {
	element.Accept(p, name, index, v, p.AcceptExtensions)
}

// PrimitiveValue returns the lexical form as an element.Number.
func (p *Decimal) PrimitiveValue() any {
	if !p.set {
		return nil
	}
	return lexical(p.value)
}

// Equal implements element.Node.
func (p *Decimal) Equal(other element.Node) bool {
	o, ok := other.(*Decimal)
	if !ok || o == nil || p.set != o.set || !p.EqualElement(&o.Element) {
		return false
	}
	return !p.set || (p.value.Cmp(o.value) == 0 && p.value.Exponent() == o.value.Exponent())
}

// lexical renders d keeping trailing zeros of the fraction.
func lexical(d decimal.Decimal) element.Number {
	if exp := d.Exponent(); exp < 0 {
		return element.Number(d.StringFixed(-exp))
	}
	return element.Number(d.String())
}
