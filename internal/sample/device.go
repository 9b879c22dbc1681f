package sample

import (
	"slices"

	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// DeviceStatusBinding is the required binding of Device.status.
var DeviceStatusBinding = &element.Binding{
	Name:     "FHIRDeviceStatus",
	Strength: element.BindingRequired,
	ValueSet: "http://hl7.org/fhir/ValueSet/device-status|4.0.1",
	Codes:    []string{"active", "inactive", "entered-in-error", "unknown"},
}

// Device is a trimmed R4 Device: identity, status, owner and notes.
type Device struct {
	datatype.DomainResource
	identifier []*datatype.Identifier
	status     *datatype.Code
	owner      *datatype.Reference
	note       []*datatype.Annotation
	hash       uint64
}

var deviceInfo = &element.TypeInfo{
	Name: "Device",
	Kind: element.KindResource,
	Fields: datatype.DomainFields(
		element.FieldInfo{Name: "identifier", Kind: element.FieldList, Types: []string{"Identifier"}},
		element.FieldInfo{Name: "status", Types: []string{"code"}, Binding: DeviceStatusBinding},
		element.FieldInfo{Name: "owner", Types: []string{"Reference"}, Targets: []string{"Organization"}},
		element.FieldInfo{Name: "note", Kind: element.FieldList, Types: []string{"Annotation"}},
	),
}

func (d *Device) Identifier() []*datatype.Identifier { return slices.Clone(d.identifier) }
func (d *Device) Status() *datatype.Code             { return d.status }
func (d *Device) Owner() *datatype.Reference         { return d.owner }
func (d *Device) Note() []*datatype.Annotation       { return slices.Clone(d.note) }
func (d *Device) TypeName() string                   { return "Device" }
func (d *Device) ResourceType() string               { return "Device" }
func (d *Device) Hash() uint64                       { return d.hash }
func (d *Device) TypeInfo() *element.TypeInfo        { return deviceInfo }

func (d *Device) HasChildren() bool {
	return d.HasDomainChildren() || len(d.identifier) > 0 || d.status != nil || d.owner != nil || len(d.note) > 0
}

func (d *Device) Accept(name string, index int, v element.Visitor) {
	element.Accept(d, name, index, v, func(v element.Visitor) {
		d.AcceptDomain(v)
		element.List(v, "identifier", d.identifier)
		element.Child(v, "status", d.status)
		element.Child(v, "owner", d.owner)
		element.List(v, "note", d.note)
	})
}

func (d *Device) Equal(other element.Node) bool {
	o, ok := other.(*Device)
	if !ok || o == nil {
		return false
	}
	return d.EqualDomain(&o.DomainResource) &&
		element.EqualList(d.identifier, o.identifier) &&
		element.Equal(d.status, o.status) &&
		element.Equal(d.owner, o.owner) &&
		element.EqualList(d.note, o.note)
}

func (d *Device) computeHash() uint64 {
	h := element.NewHasher("Device")
	d.HashDomain(h)
	element.HashList(h, d.identifier)
	h.Node(d.status)
	h.Node(d.owner)
	element.HashList(h, d.note)
	return h.Sum()
}

func (d *Device) Check(c *validate.Checker) {
	d.CheckDomain(c, d)
	validate.List(c, "identifier", d.identifier, "Identifier")
	validate.List(c, "note", d.note, "Annotation")
	c.Reference("owner", d.owner, "Organization")
	c.Binding("status", d.status, DeviceStatusBinding)
}

func (d *Device) ToBuilder() *DeviceBuilder {
	b := &DeviceBuilder{
		identifier: slices.Clone(d.identifier),
		status:     d.status,
		owner:      d.owner,
		note:       slices.Clone(d.note),
	}
	b.FromDomain(&d.DomainResource)
	return b
}

// DeviceBuilder builds a Device.
type DeviceBuilder struct {
	datatype.DomainResourceBuilder
	identifier []*datatype.Identifier
	status     *datatype.Code
	owner      *datatype.Reference
	note       []*datatype.Annotation
}

func NewDeviceBuilder() *DeviceBuilder {
	return &DeviceBuilder{}
}

func (b *DeviceBuilder) ID(id string) *DeviceBuilder {
	b.SetID(id)
	return b
}

func (b *DeviceBuilder) Meta(v *datatype.Meta) *DeviceBuilder {
	b.SetMeta(v)
	return b
}

func (b *DeviceBuilder) ImplicitRules(v *datatype.Uri) *DeviceBuilder {
	b.SetImplicitRules(v)
	return b
}

func (b *DeviceBuilder) Language(v *datatype.Code) *DeviceBuilder {
	b.SetLanguage(v)
	return b
}

func (b *DeviceBuilder) Text(v *datatype.Narrative) *DeviceBuilder {
	b.SetText(v)
	return b
}

func (b *DeviceBuilder) Contained(v ...element.Resource) *DeviceBuilder {
	b.AddContained(v...)
	return b
}

func (b *DeviceBuilder) Extension(ext ...*datatype.Extension) *DeviceBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *DeviceBuilder) ModifierExtension(ext ...*datatype.Extension) *DeviceBuilder {
	b.AddModifierExtension(ext...)
	return b
}

func (b *DeviceBuilder) Identifier(v ...*datatype.Identifier) *DeviceBuilder {
	b.identifier = append(b.identifier, v...)
	return b
}

func (b *DeviceBuilder) ReplaceIdentifier(v []*datatype.Identifier) *DeviceBuilder {
	b.identifier = datatype.ReplaceList(&b.ElementBuilder, "identifier", v)
	return b
}

func (b *DeviceBuilder) Status(v *datatype.Code) *DeviceBuilder {
	b.status = v
	return b
}

func (b *DeviceBuilder) Owner(v *datatype.Reference) *DeviceBuilder {
	b.owner = v
	return b
}

func (b *DeviceBuilder) Note(v ...*datatype.Annotation) *DeviceBuilder {
	b.note = append(b.note, v...)
	return b
}

func (b *DeviceBuilder) ReplaceNote(v []*datatype.Annotation) *DeviceBuilder {
	b.note = datatype.ReplaceList(&b.ElementBuilder, "note", v)
	return b
}

func (b *DeviceBuilder) Build(opts ...validate.Option) (*Device, error) {
	d := &Device{
		DomainResource: b.Domain(),
		identifier:     slices.Clone(b.identifier),
		status:         b.status,
		owner:          b.owner,
		note:           slices.Clone(b.note),
	}
	if err := validate.Run(d, b.Options(opts)...); err != nil {
		return nil, err
	}
	d.hash = d.computeHash()
	return d, nil
}
