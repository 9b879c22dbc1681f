package datatype

import (
	"slices"

	"github.com/gofhir/model/pkg/constraint"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// DomainResource carries the fields shared by every domain resource. The
// logical id lives in the embedded Element and is serialized right after
// resourceType.
type DomainResource struct {
	BackboneElement
	meta          *Meta
	implicitRules *Uri
	language      *Code
	text          *Narrative
	contained     []element.Resource
}

// domain is implemented by every resource built on DomainResource.
type domain interface {
	Domain() *DomainResource
}

// dom-2: If the resource is contained in another resource, it SHALL NOT
// contain nested Resources.
var dom2 = constraint.Constraint{
	Key:        "dom-2",
	Severity:   constraint.SeverityError,
	Human:      "If the resource is contained in another resource, it SHALL NOT contain nested Resources",
	Expression: "contained.contained.empty()",
	Predicate: func(n element.Node) bool {
		for _, r := range containedOf(n) {
			if len(containedOf(r)) > 0 {
				return false
			}
		}
		return true
	},
}

// dom-4: If a resource is contained in another resource, it SHALL NOT have
// a meta.versionId or a meta.lastUpdated.
var dom4 = constraint.Constraint{
	Key:        "dom-4",
	Severity:   constraint.SeverityError,
	Human:      "If a resource is contained in another resource, it SHALL NOT have a meta.versionId or a meta.lastUpdated",
	Expression: "contained.meta.versionId.empty() and contained.meta.lastUpdated.empty()",
	Predicate: func(n element.Node) bool {
		for _, r := range containedOf(n) {
			d, ok := r.(domain)
			if !ok {
				continue
			}
			if m := d.Domain().meta; m != nil && (m.versionID != nil || m.lastUpdated != nil) {
				return false
			}
		}
		return true
	},
}

func containedOf(n element.Node) []element.Resource {
	if d, ok := n.(domain); ok && !element.IsNil(n) {
		return d.Domain().contained
	}
	return nil
}

// DomainFields returns the field metadata every domain resource starts with.
func DomainFields(fields ...element.FieldInfo) []element.FieldInfo {
	base := []element.FieldInfo{
		{Name: "meta", Types: []string{"Meta"}},
		{Name: "implicitRules", Types: []string{"uri"}},
		{Name: "language", Types: []string{"code"}},
		{Name: "text", Types: []string{"Narrative"}},
		{Name: "contained", Kind: element.FieldList, Types: []string{"Resource"}},
		extensionField,
		modifierExtensionField,
	}
	return append(base, fields...)
}

// Domain returns r itself; resources embedding DomainResource expose their
// shared fields through it.
func (r *DomainResource) Domain() *DomainResource { return r }

func (r *DomainResource) Meta() *Meta         { return r.meta }
func (r *DomainResource) ImplicitRules() *Uri { return r.implicitRules }
func (r *DomainResource) Language() *Code     { return r.language }
func (r *DomainResource) Text() *Narrative    { return r.text }

// Contained returns a copy of the contained resources.
func (r *DomainResource) Contained() []element.Resource { return slices.Clone(r.contained) }

// HasValue implements element.Node.
func (r *DomainResource) HasValue() bool { return false }

// HasDomainChildren reports whether any shared field holds content.
func (r *DomainResource) HasDomainChildren() bool {
	return r.HasExtensions() || r.meta != nil || r.implicitRules != nil ||
		r.language != nil || r.text != nil || len(r.contained) > 0
}

// AcceptDomain visits the shared fields in FHIR order; declared fields
// follow.
func (r *DomainResource) AcceptDomain(v element.Visitor) {
	element.Child(v, "meta", r.meta)
	element.Child(v, "implicitRules", r.implicitRules)
	element.Child(v, "language", r.language)
	element.Child(v, "text", r.text)
	element.List(v, "contained", r.contained)
	r.BackboneElement.AcceptExtensions(v)
}

// EqualDomain compares the shared fields.
func (r *DomainResource) EqualDomain(o *DomainResource) bool {
	return r.EqualBackbone(&o.BackboneElement) &&
		element.Equal(r.meta, o.meta) &&
		element.Equal(r.implicitRules, o.implicitRules) &&
		element.Equal(r.language, o.language) &&
		element.Equal(r.text, o.text) &&
		element.EqualList(r.contained, o.contained)
}

// HashDomain writes the shared fields.
func (r *DomainResource) HashDomain(h *element.Hasher) {
	r.HashBackbone(h)
	h.Node(r.meta)
	h.Node(r.implicitRules)
	h.Node(r.language)
	h.Node(r.text)
	element.HashList(h, r.contained)
}

// CheckDomain declares the rules shared by every domain resource. self is
// the concrete resource, used by the resource-level invariants.
func (r *DomainResource) CheckDomain(c *validate.Checker, self element.Resource) {
	r.CheckBackbone(c)
	validate.List(c, "contained", r.contained, "Resource")
	if r.id != "" {
		c.ID("id", r.id)
	}
	c.Invariant(dom2, self)
	c.Invariant(dom4, self)
}

// DomainResourceBuilder accumulates the shared fields of a resource.
type DomainResourceBuilder struct {
	BackboneElementBuilder
	meta          *Meta
	implicitRules *Uri
	language      *Code
	text          *Narrative
	contained     []element.Resource
}

func (b *DomainResourceBuilder) SetMeta(v *Meta)         { b.meta = v }
func (b *DomainResourceBuilder) SetImplicitRules(v *Uri) { b.implicitRules = v }
func (b *DomainResourceBuilder) SetLanguage(v *Code)     { b.language = v }
func (b *DomainResourceBuilder) SetText(v *Narrative)    { b.text = v }

// AddContained appends contained resources. Typed nil pointers are kept as
// nil entries for the list stage to report.
func (b *DomainResourceBuilder) AddContained(v ...element.Resource) {
	for _, r := range v {
		if element.IsNil(r) {
			r = nil
		}
		b.contained = append(b.contained, r)
	}
}

// ResetContained replaces the contained resources.
func (b *DomainResourceBuilder) ResetContained(v []element.Resource) {
	b.contained = ReplaceList(&b.ElementBuilder, "contained", v)
}

// Domain returns the accumulated state with the lists cloned.
func (b *DomainResourceBuilder) Domain() DomainResource {
	return DomainResource{
		BackboneElement: b.Backbone(),
		meta:            b.meta,
		implicitRules:   b.implicitRules,
		language:        b.language,
		text:            b.text,
		contained:       slices.Clone(b.contained),
	}
}

// FromDomain seeds the builder from a built resource.
func (b *DomainResourceBuilder) FromDomain(r *DomainResource) {
	b.FromBackbone(&r.BackboneElement)
	b.meta = r.meta
	b.implicitRules = r.implicitRules
	b.language = r.language
	b.text = r.text
	b.contained = slices.Clone(r.contained)
}
