package datatype

import (
	"slices"

	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// Meta is the metadata about a resource maintained by the server.
type Meta struct {
	Element
	versionID   *Id
	lastUpdated *Instant
	source      *Uri
	profile     []*Canonical
	security    []*Coding
	tag         []*Coding
	hash        uint64
}

var metaInfo = &element.TypeInfo{
	Name: "Meta",
	Kind: element.KindComplex,
	Fields: ElementFields(
		element.FieldInfo{Name: "versionId", Types: []string{"id"}},
		element.FieldInfo{Name: "lastUpdated", Types: []string{"instant"}},
		element.FieldInfo{Name: "source", Types: []string{"uri"}},
		element.FieldInfo{Name: "profile", Kind: element.FieldList, Types: []string{"canonical"}},
		element.FieldInfo{Name: "security", Kind: element.FieldList, Types: []string{"Coding"}},
		element.FieldInfo{Name: "tag", Kind: element.FieldList, Types: []string{"Coding"}},
	),
}

func (m *Meta) VersionID() *Id              { return m.versionID }
func (m *Meta) LastUpdated() *Instant       { return m.lastUpdated }
func (m *Meta) Source() *Uri                { return m.source }
func (m *Meta) Profile() []*Canonical       { return slices.Clone(m.profile) }
func (m *Meta) Security() []*Coding         { return slices.Clone(m.security) }
func (m *Meta) Tag() []*Coding              { return slices.Clone(m.tag) }
func (m *Meta) TypeName() string            { return "Meta" }
func (m *Meta) HasValue() bool              { return false }
func (m *Meta) Hash() uint64                { return m.hash }
func (m *Meta) TypeInfo() *element.TypeInfo { return metaInfo }

// HasChildren implements element.Node.
func (m *Meta) HasChildren() bool {
	return m.HasExtensions() || m.versionID != nil || m.lastUpdated != nil || m.source != nil ||
		len(m.profile) > 0 || len(m.security) > 0 || len(m.tag) > 0
}

// Accept implements element.Node.
func (m *Meta) Accept(name string, index int, v element.Visitor) {
	element.Accept(m, name, index, v, func(v element.Visitor) {
		m.AcceptExtensions(v)
		element.Child(v, "versionId", m.versionID)
		element.Child(v, "lastUpdated", m.lastUpdated)
		element.Child(v, "source", m.source)
		element.List(v, "profile", m.profile)
		element.List(v, "security", m.security)
		element.List(v, "tag", m.tag)
	})
}

// Equal implements element.Node.
func (m *Meta) Equal(other element.Node) bool {
	o, ok := other.(*Meta)
	if !ok || o == nil {
		return false
	}
	return m.EqualElement(&o.Element) &&
		element.Equal(m.versionID, o.versionID) &&
		element.Equal(m.lastUpdated, o.lastUpdated) &&
		element.Equal(m.source, o.source) &&
		element.EqualList(m.profile, o.profile) &&
		element.EqualList(m.security, o.security) &&
		element.EqualList(m.tag, o.tag)
}

func (m *Meta) computeHash() uint64 {
	h := element.NewHasher("Meta")
	m.HashElement(h)
	h.Node(m.versionID)
	h.Node(m.lastUpdated)
	h.Node(m.source)
	element.HashList(h, m.profile)
	element.HashList(h, m.security)
	element.HashList(h, m.tag)
	return h.Sum()
}

// Check implements validate.Checkable.
func (m *Meta) Check(c *validate.Checker) {
	m.CheckElement(c)
	validate.List(c, "profile", m.profile, "canonical")
	validate.List(c, "security", m.security, "Coding")
	validate.List(c, "tag", m.tag, "Coding")
}

// ToBuilder returns a builder seeded with m's fields.
func (m *Meta) ToBuilder() *MetaBuilder {
	b := &MetaBuilder{
		versionID:   m.versionID,
		lastUpdated: m.lastUpdated,
		source:      m.source,
		profile:     slices.Clone(m.profile),
		security:    slices.Clone(m.security),
		tag:         slices.Clone(m.tag),
	}
	b.From(&m.Element)
	return b
}

// MetaBuilder builds a Meta.
type MetaBuilder struct {
	ElementBuilder
	versionID   *Id
	lastUpdated *Instant
	source      *Uri
	profile     []*Canonical
	security    []*Coding
	tag         []*Coding
}

// NewMetaBuilder creates a MetaBuilder.
func NewMetaBuilder() *MetaBuilder {
	return &MetaBuilder{}
}

func (b *MetaBuilder) ID(id string) *MetaBuilder {
	b.SetID(id)
	return b
}

func (b *MetaBuilder) Extension(ext ...*Extension) *MetaBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *MetaBuilder) ReplaceExtension(ext []*Extension) *MetaBuilder {
	b.ResetExtension(ext)
	return b
}

func (b *MetaBuilder) VersionID(v *Id) *MetaBuilder {
	b.versionID = v
	return b
}

func (b *MetaBuilder) LastUpdated(v *Instant) *MetaBuilder {
	b.lastUpdated = v
	return b
}

func (b *MetaBuilder) Source(v *Uri) *MetaBuilder {
	b.source = v
	return b
}

// Profile appends profile canonicals.
func (b *MetaBuilder) Profile(v ...*Canonical) *MetaBuilder {
	b.profile = append(b.profile, v...)
	return b
}

// ReplaceProfile replaces the profiles.
func (b *MetaBuilder) ReplaceProfile(v []*Canonical) *MetaBuilder {
	b.profile = ReplaceList(&b.ElementBuilder, "profile", v)
	return b
}

// Security appends security labels.
func (b *MetaBuilder) Security(v ...*Coding) *MetaBuilder {
	b.security = append(b.security, v...)
	return b
}

// ReplaceSecurity replaces the security labels.
func (b *MetaBuilder) ReplaceSecurity(v []*Coding) *MetaBuilder {
	b.security = ReplaceList(&b.ElementBuilder, "security", v)
	return b
}

// Tag appends tags.
func (b *MetaBuilder) Tag(v ...*Coding) *MetaBuilder {
	b.tag = append(b.tag, v...)
	return b
}

// ReplaceTag replaces the tags.
func (b *MetaBuilder) ReplaceTag(v []*Coding) *MetaBuilder {
	b.tag = ReplaceList(&b.ElementBuilder, "tag", v)
	return b
}

// Build validates the meta and returns it.
func (b *MetaBuilder) Build(opts ...validate.Option) (*Meta, error) {
	m := &Meta{
		Element:     b.Element(),
		versionID:   b.versionID,
		lastUpdated: b.lastUpdated,
		source:      b.source,
		profile:     slices.Clone(b.profile),
		security:    slices.Clone(b.security),
		tag:         slices.Clone(b.tag),
	}
	if err := validate.Run(m, b.Options(opts)...); err != nil {
		return nil, err
	}
	m.hash = m.computeHash()
	return m, nil
}

// NarrativeStatusBinding is the required binding of Narrative.status.
var NarrativeStatusBinding = &element.Binding{
	Name:     "NarrativeStatus",
	Strength: element.BindingRequired,
	ValueSet: "http://hl7.org/fhir/ValueSet/narrative-status|4.0.1",
	Codes:    []string{"generated", "extensions", "additional", "empty"},
}

// Narrative is the human-readable summary of a resource.
type Narrative struct {
	Element
	status *Code
	div    *Xhtml
	hash   uint64
}

var narrativeInfo = &element.TypeInfo{
	Name: "Narrative",
	Kind: element.KindComplex,
	Fields: ElementFields(
		element.FieldInfo{Name: "status", Types: []string{"code"}, Required: true, Binding: NarrativeStatusBinding},
		element.FieldInfo{Name: "div", Types: []string{"xhtml"}, Required: true},
	),
}

func (n *Narrative) Status() *Code               { return n.status }
func (n *Narrative) Div() *Xhtml                 { return n.div }
func (n *Narrative) TypeName() string            { return "Narrative" }
func (n *Narrative) HasValue() bool              { return false }
func (n *Narrative) Hash() uint64                { return n.hash }
func (n *Narrative) TypeInfo() *element.TypeInfo { return narrativeInfo }

// HasChildren implements element.Node.
func (n *Narrative) HasChildren() bool {
	return n.HasExtensions() || n.status != nil || n.div != nil
}

// Accept implements element.Node.
func (n *Narrative) Accept(name string, index int, v element.Visitor) {
	element.Accept(n, name, index, v, func(v element.Visitor) {
		n.AcceptExtensions(v)
		element.Child(v, "status", n.status)
		element.Child(v, "div", n.div)
	})
}

// Equal implements element.Node.
func (n *Narrative) Equal(other element.Node) bool {
	o, ok := other.(*Narrative)
	if !ok || o == nil {
		return false
	}
	return n.EqualElement(&o.Element) && element.Equal(n.status, o.status) && element.Equal(n.div, o.div)
}

func (n *Narrative) computeHash() uint64 {
	h := element.NewHasher("Narrative")
	n.HashElement(h)
	h.Node(n.status)
	h.Node(n.div)
	return h.Sum()
}

// Check implements validate.Checkable.
func (n *Narrative) Check(c *validate.Checker) {
	n.CheckElement(c)
	c.Required("status", n.status)
	c.Required("div", n.div)
	c.Binding("status", n.status, NarrativeStatusBinding)
}

// ToBuilder returns a builder seeded with n's fields.
func (n *Narrative) ToBuilder() *NarrativeBuilder {
	b := &NarrativeBuilder{status: n.status, div: n.div}
	b.From(&n.Element)
	return b
}

// NarrativeBuilder builds a Narrative.
type NarrativeBuilder struct {
	ElementBuilder
	status *Code
	div    *Xhtml
}

// NewNarrativeBuilder creates a NarrativeBuilder.
func NewNarrativeBuilder() *NarrativeBuilder {
	return &NarrativeBuilder{}
}

func (b *NarrativeBuilder) ID(id string) *NarrativeBuilder {
	b.SetID(id)
	return b
}

func (b *NarrativeBuilder) Extension(ext ...*Extension) *NarrativeBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *NarrativeBuilder) ReplaceExtension(ext []*Extension) *NarrativeBuilder {
	b.ResetExtension(ext)
	return b
}

func (b *NarrativeBuilder) Status(v *Code) *NarrativeBuilder {
	b.status = v
	return b
}

func (b *NarrativeBuilder) Div(v *Xhtml) *NarrativeBuilder {
	b.div = v
	return b
}

// Build validates the narrative and returns it.
func (b *NarrativeBuilder) Build(opts ...validate.Option) (*Narrative, error) {
	n := &Narrative{Element: b.Element(), status: b.status, div: b.div}
	if err := validate.Run(n, b.Options(opts)...); err != nil {
		return nil, err
	}
	n.hash = n.computeHash()
	return n, nil
}
