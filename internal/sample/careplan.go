package sample

import (
	"slices"

	"github.com/gofhir/model/pkg/constraint"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// CarePlanActivityReferenceTargets are the kinds CarePlan.activity.reference
// may point to.
var CarePlanActivityReferenceTargets = []string{
	"Appointment", "CommunicationRequest", "DeviceRequest", "MedicationRequest", "NutritionOrder",
	"Task", "ServiceRequest", "VisionPrescription", "RequestGroup",
}

// CarePlanActivityStatusBinding is the required binding of
// CarePlan.activity.detail.status.
var CarePlanActivityStatusBinding = &element.Binding{
	Name:     "CarePlanActivityStatus",
	Strength: element.BindingRequired,
	ValueSet: "http://hl7.org/fhir/ValueSet/care-plan-activity-status|4.0.1",
	Codes: []string{
		"not-started", "scheduled", "in-progress", "on-hold", "completed",
		"cancelled", "stopped", "unknown", "entered-in-error",
	},
}

// CarePlanActivityDetailProductTypes are the alternatives of product[x].
var CarePlanActivityDetailProductTypes = []string{"CodeableConcept", "Reference"}

// cpl-3: Provide a reference or detail, not both.
var cpl3 = constraint.Constraint{
	Key:        "cpl-3",
	Severity:   constraint.SeverityError,
	Human:      "Provide a reference or detail, not both",
	Expression: "detail.empty() or reference.empty()",
	Location:   "CarePlan.activity",
	Predicate: func(n element.Node) bool {
		a := n.(*CarePlanActivity)
		return a.detail == nil || a.reference == nil
	},
}

// CarePlanActivity is an action planned as part of a care plan.
type CarePlanActivity struct {
	datatype.BackboneElement
	outcomeReference []*datatype.Reference
	progress         []*datatype.Annotation
	reference        *datatype.Reference
	detail           *CarePlanActivityDetail
	hash             uint64
}

var carePlanActivityInfo = &element.TypeInfo{
	Name: "CarePlan.activity",
	Kind: element.KindBackbone,
	Fields: datatype.BackboneFields(
		element.FieldInfo{Name: "outcomeReference", Kind: element.FieldList, Types: []string{"Reference"}, Targets: []string{"Resource"}},
		element.FieldInfo{Name: "progress", Kind: element.FieldList, Types: []string{"Annotation"}},
		element.FieldInfo{Name: "reference", Types: []string{"Reference"}, Targets: CarePlanActivityReferenceTargets},
		element.FieldInfo{Name: "detail", Types: []string{"CarePlan.activity.detail"}},
	),
}

func (a *CarePlanActivity) OutcomeReference() []*datatype.Reference { return slices.Clone(a.outcomeReference) }
func (a *CarePlanActivity) Progress() []*datatype.Annotation        { return slices.Clone(a.progress) }
func (a *CarePlanActivity) Reference() *datatype.Reference          { return a.reference }
func (a *CarePlanActivity) Detail() *CarePlanActivityDetail         { return a.detail }
func (a *CarePlanActivity) TypeName() string                        { return "CarePlan.activity" }
func (a *CarePlanActivity) HasValue() bool                          { return false }
func (a *CarePlanActivity) Hash() uint64                            { return a.hash }
func (a *CarePlanActivity) TypeInfo() *element.TypeInfo             { return carePlanActivityInfo }

func (a *CarePlanActivity) HasChildren() bool {
	return a.HasExtensions() || len(a.outcomeReference) > 0 || len(a.progress) > 0 || a.reference != nil || a.detail != nil
}

func (a *CarePlanActivity) Accept(name string, index int, v element.Visitor) {
	element.Accept(a, name, index, v, func(v element.Visitor) {
		a.AcceptExtensions(v)
		element.List(v, "outcomeReference", a.outcomeReference)
		element.List(v, "progress", a.progress)
		element.Child(v, "reference", a.reference)
		element.Child(v, "detail", a.detail)
	})
}

func (a *CarePlanActivity) Equal(other element.Node) bool {
	o, ok := other.(*CarePlanActivity)
	if !ok || o == nil {
		return false
	}
	return a.EqualBackbone(&o.BackboneElement) &&
		element.EqualList(a.outcomeReference, o.outcomeReference) &&
		element.EqualList(a.progress, o.progress) &&
		element.Equal(a.reference, o.reference) &&
		element.Equal(a.detail, o.detail)
}

func (a *CarePlanActivity) computeHash() uint64 {
	h := element.NewHasher("CarePlan.activity")
	a.HashBackbone(h)
	element.HashList(h, a.outcomeReference)
	element.HashList(h, a.progress)
	h.Node(a.reference)
	h.Node(a.detail)
	return h.Sum()
}

func (a *CarePlanActivity) Check(c *validate.Checker) {
	a.CheckBackbone(c)
	validate.List(c, "outcomeReference", a.outcomeReference, "Reference")
	validate.List(c, "progress", a.progress, "Annotation")
	validate.References(c, "outcomeReference", a.outcomeReference, "Resource")
	c.Reference("reference", a.reference, CarePlanActivityReferenceTargets...)
	c.Invariant(cpl3, a)
}

func (a *CarePlanActivity) ToBuilder() *CarePlanActivityBuilder {
	b := &CarePlanActivityBuilder{
		outcomeReference: slices.Clone(a.outcomeReference),
		progress:         slices.Clone(a.progress),
		reference:        a.reference,
		detail:           a.detail,
	}
	b.FromBackbone(&a.BackboneElement)
	return b
}

// CarePlanActivityBuilder builds a CarePlanActivity.
type CarePlanActivityBuilder struct {
	datatype.BackboneElementBuilder
	outcomeReference []*datatype.Reference
	progress         []*datatype.Annotation
	reference        *datatype.Reference
	detail           *CarePlanActivityDetail
}

func NewCarePlanActivityBuilder() *CarePlanActivityBuilder {
	return &CarePlanActivityBuilder{}
}

func (b *CarePlanActivityBuilder) ID(id string) *CarePlanActivityBuilder {
	b.SetID(id)
	return b
}

func (b *CarePlanActivityBuilder) Extension(ext ...*datatype.Extension) *CarePlanActivityBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *CarePlanActivityBuilder) ModifierExtension(ext ...*datatype.Extension) *CarePlanActivityBuilder {
	b.AddModifierExtension(ext...)
	return b
}

func (b *CarePlanActivityBuilder) OutcomeReference(v ...*datatype.Reference) *CarePlanActivityBuilder {
	b.outcomeReference = append(b.outcomeReference, v...)
	return b
}

func (b *CarePlanActivityBuilder) ReplaceOutcomeReference(v []*datatype.Reference) *CarePlanActivityBuilder {
	b.outcomeReference = datatype.ReplaceList(&b.ElementBuilder, "outcomeReference", v)
	return b
}

func (b *CarePlanActivityBuilder) Progress(v ...*datatype.Annotation) *CarePlanActivityBuilder {
	b.progress = append(b.progress, v...)
	return b
}

func (b *CarePlanActivityBuilder) ReplaceProgress(v []*datatype.Annotation) *CarePlanActivityBuilder {
	b.progress = datatype.ReplaceList(&b.ElementBuilder, "progress", v)
	return b
}

func (b *CarePlanActivityBuilder) Reference(v *datatype.Reference) *CarePlanActivityBuilder {
	b.reference = v
	return b
}

func (b *CarePlanActivityBuilder) Detail(v *CarePlanActivityDetail) *CarePlanActivityBuilder {
	b.detail = v
	return b
}

func (b *CarePlanActivityBuilder) Build(opts ...validate.Option) (*CarePlanActivity, error) {
	a := &CarePlanActivity{
		BackboneElement:  b.Backbone(),
		outcomeReference: slices.Clone(b.outcomeReference),
		progress:         slices.Clone(b.progress),
		reference:        b.reference,
		detail:           b.detail,
	}
	if err := validate.Run(a, b.Options(opts)...); err != nil {
		return nil, err
	}
	a.hash = a.computeHash()
	return a, nil
}

// CarePlanActivityDetail describes an activity inline when no request
// resource is referenced.
type CarePlanActivityDetail struct {
	datatype.BackboneElement
	kind         *datatype.Code
	code         *datatype.CodeableConcept
	status       *datatype.Code
	doNotPerform *datatype.Boolean
	product      element.Node
	description  *datatype.String
	hash         uint64
}

var carePlanActivityDetailInfo = &element.TypeInfo{
	Name: "CarePlan.activity.detail",
	Kind: element.KindBackbone,
	Fields: datatype.BackboneFields(
		element.FieldInfo{Name: "kind", Types: []string{"code"}},
		element.FieldInfo{Name: "code", Types: []string{"CodeableConcept"}},
		element.FieldInfo{Name: "status", Types: []string{"code"}, Required: true, Binding: CarePlanActivityStatusBinding},
		element.FieldInfo{Name: "doNotPerform", Types: []string{"boolean"}},
		element.FieldInfo{Name: "product", Kind: element.FieldChoice, Types: CarePlanActivityDetailProductTypes, Targets: []string{"Medication", "Substance"}},
		element.FieldInfo{Name: "description", Types: []string{"string"}},
	),
}

func (d *CarePlanActivityDetail) Kind() *datatype.Code            { return d.kind }
func (d *CarePlanActivityDetail) Code() *datatype.CodeableConcept { return d.code }
func (d *CarePlanActivityDetail) Status() *datatype.Code          { return d.status }
func (d *CarePlanActivityDetail) DoNotPerform() *datatype.Boolean { return d.doNotPerform }
func (d *CarePlanActivityDetail) Product() element.Node           { return d.product }
func (d *CarePlanActivityDetail) Description() *datatype.String   { return d.description }
func (d *CarePlanActivityDetail) TypeName() string                { return "CarePlan.activity.detail" }
func (d *CarePlanActivityDetail) HasValue() bool                  { return false }
func (d *CarePlanActivityDetail) Hash() uint64                    { return d.hash }
func (d *CarePlanActivityDetail) TypeInfo() *element.TypeInfo     { return carePlanActivityDetailInfo }

func (d *CarePlanActivityDetail) ProductCodeableConcept() (*datatype.CodeableConcept, bool) {
	return element.As[*datatype.CodeableConcept](d.product)
}

func (d *CarePlanActivityDetail) ProductReference() (*datatype.Reference, bool) {
	return element.As[*datatype.Reference](d.product)
}

func (d *CarePlanActivityDetail) HasChildren() bool {
	return d.HasExtensions() || d.kind != nil || d.code != nil || d.status != nil ||
		d.doNotPerform != nil || d.product != nil || d.description != nil
}

func (d *CarePlanActivityDetail) Accept(name string, index int, v element.Visitor) {
	element.Accept(d, name, index, v, func(v element.Visitor) {
		d.AcceptExtensions(v)
		element.Child(v, "kind", d.kind)
		element.Child(v, "code", d.code)
		element.Child(v, "status", d.status)
		element.Child(v, "doNotPerform", d.doNotPerform)
		element.Child(v, "product", d.product)
		element.Child(v, "description", d.description)
	})
}

func (d *CarePlanActivityDetail) Equal(other element.Node) bool {
	o, ok := other.(*CarePlanActivityDetail)
	if !ok || o == nil {
		return false
	}
	return d.EqualBackbone(&o.BackboneElement) &&
		element.Equal(d.kind, o.kind) &&
		element.Equal(d.code, o.code) &&
		element.Equal(d.status, o.status) &&
		element.Equal(d.doNotPerform, o.doNotPerform) &&
		element.Equal(d.product, o.product) &&
		element.Equal(d.description, o.description)
}

func (d *CarePlanActivityDetail) computeHash() uint64 {
	h := element.NewHasher("CarePlan.activity.detail")
	d.HashBackbone(h)
	h.Node(d.kind)
	h.Node(d.code)
	h.Node(d.status)
	h.Node(d.doNotPerform)
	h.Node(d.product)
	h.Node(d.description)
	return h.Sum()
}

func (d *CarePlanActivityDetail) Check(c *validate.Checker) {
	d.CheckBackbone(c)
	c.Required("status", d.status)
	c.Choice("product", d.product, false, CarePlanActivityDetailProductTypes...)
	c.Reference("product", d.product, "Medication", "Substance")
	c.Binding("status", d.status, CarePlanActivityStatusBinding)
}

func (d *CarePlanActivityDetail) ToBuilder() *CarePlanActivityDetailBuilder {
	b := &CarePlanActivityDetailBuilder{
		kind:         d.kind,
		code:         d.code,
		status:       d.status,
		doNotPerform: d.doNotPerform,
		product:      d.product,
		description:  d.description,
	}
	b.FromBackbone(&d.BackboneElement)
	return b
}

// CarePlanActivityDetailBuilder builds a CarePlanActivityDetail.
type CarePlanActivityDetailBuilder struct {
	datatype.BackboneElementBuilder
	kind         *datatype.Code
	code         *datatype.CodeableConcept
	status       *datatype.Code
	doNotPerform *datatype.Boolean
	product      element.Node
	description  *datatype.String
}

func NewCarePlanActivityDetailBuilder() *CarePlanActivityDetailBuilder {
	return &CarePlanActivityDetailBuilder{}
}

func (b *CarePlanActivityDetailBuilder) ID(id string) *CarePlanActivityDetailBuilder {
	b.SetID(id)
	return b
}

func (b *CarePlanActivityDetailBuilder) Extension(ext ...*datatype.Extension) *CarePlanActivityDetailBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *CarePlanActivityDetailBuilder) ModifierExtension(ext ...*datatype.Extension) *CarePlanActivityDetailBuilder {
	b.AddModifierExtension(ext...)
	return b
}

func (b *CarePlanActivityDetailBuilder) Kind(v *datatype.Code) *CarePlanActivityDetailBuilder {
	b.kind = v
	return b
}

func (b *CarePlanActivityDetailBuilder) Code(v *datatype.CodeableConcept) *CarePlanActivityDetailBuilder {
	b.code = v
	return b
}

func (b *CarePlanActivityDetailBuilder) Status(v *datatype.Code) *CarePlanActivityDetailBuilder {
	b.status = v
	return b
}

func (b *CarePlanActivityDetailBuilder) DoNotPerform(v *datatype.Boolean) *CarePlanActivityDetailBuilder {
	b.doNotPerform = v
	return b
}

func (b *CarePlanActivityDetailBuilder) Product(v element.Node) *CarePlanActivityDetailBuilder {
	if element.IsNil(v) {
		v = nil
	}
	b.product = v
	return b
}

func (b *CarePlanActivityDetailBuilder) ProductCodeableConcept(v *datatype.CodeableConcept) *CarePlanActivityDetailBuilder {
	b.product = element.NodeOf(v)
	return b
}

func (b *CarePlanActivityDetailBuilder) ProductReference(v *datatype.Reference) *CarePlanActivityDetailBuilder {
	b.product = element.NodeOf(v)
	return b
}

func (b *CarePlanActivityDetailBuilder) Description(v *datatype.String) *CarePlanActivityDetailBuilder {
	b.description = v
	return b
}

func (b *CarePlanActivityDetailBuilder) Build(opts ...validate.Option) (*CarePlanActivityDetail, error) {
	d := &CarePlanActivityDetail{
		BackboneElement: b.Backbone(),
		kind:            b.kind,
		code:            b.code,
		status:          b.status,
		doNotPerform:    b.doNotPerform,
		product:         b.product,
		description:     b.description,
	}
	if err := validate.Run(d, b.Options(opts)...); err != nil {
		return nil, err
	}
	d.hash = d.computeHash()
	return d, nil
}
