// Package datatype holds the core FHIR datatypes the runtime needs: the
// Element and BackboneElement bases, the DomainResource base, Extension, the
// primitive types and the general purpose complex types.
//
// Every type follows the same lifecycle. A builder accumulates field values,
// Build validates them and returns an immutable instance, and ToBuilder
// seeds a fresh builder for copy-then-modify. Built instances may be shared
// freely across goroutines.
package datatype

import (
	"slices"

	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/validate"
)

// Element carries the id and extensions shared by every datatype. Concrete
// types embed it.
type Element struct {
	id        string
	extension []*Extension
}

// ID returns the element id, or "".
func (e *Element) ID() string {
	return e.id
}

// Extension returns a copy of the extensions.
func (e *Element) Extension() []*Extension {
	return slices.Clone(e.extension)
}

// HasExtensions reports whether any extension is present.
func (e *Element) HasExtensions() bool {
	return len(e.extension) > 0
}

// EqualElement compares id and extensions.
func (e *Element) EqualElement(o *Element) bool {
	return e.id == o.id && element.EqualList(e.extension, o.extension)
}

// HashElement writes id and extensions.
func (e *Element) HashElement(h *element.Hasher) {
	h.String(e.id)
	element.HashList(h, e.extension)
}

// AcceptExtensions visits the extensions; they precede the declared fields.
func (e *Element) AcceptExtensions(v element.Visitor) {
	element.List(v, "extension", e.extension)
}

// CheckElement declares the rules shared by every element.
func (e *Element) CheckElement(c *validate.Checker) {
	validate.List(c, "extension", e.extension, "Extension")
}

// ElementBuilder accumulates the id and extensions of an element, and the
// issues found by setters before Build runs.
type ElementBuilder struct {
	id        string
	extension []*Extension
	pending   issue.Issues
}

// SetID sets the element id.
func (b *ElementBuilder) SetID(id string) {
	b.id = id
}

// AddExtension appends extensions.
func (b *ElementBuilder) AddExtension(ext ...*Extension) {
	b.extension = append(b.extension, ext...)
}

// ResetExtension replaces the extensions.
func (b *ElementBuilder) ResetExtension(ext []*Extension) {
	b.extension = ReplaceList(b, "extension", ext)
}

// Element returns the accumulated state with the extension list cloned.
func (b *ElementBuilder) Element() Element {
	return Element{id: b.id, extension: slices.Clone(b.extension)}
}

// From seeds the builder from a built element.
func (b *ElementBuilder) From(e *Element) {
	b.id = e.id
	b.extension = slices.Clone(e.extension)
}

// Reject records a nil collection handed to a replace setter. Build reports
// it as a NullElement violation.
func (b *ElementBuilder) Reject(field string) {
	b.pending = append(b.pending, issue.New(issue.DiagListNilCollection, map[string]any{"field": field}))
}

// Options appends the pending issues to the caller's options.
func (b *ElementBuilder) Options(opts []validate.Option) []validate.Option {
	if len(b.pending) == 0 {
		return opts
	}
	out := make([]validate.Option, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, validate.WithPending(b.pending...))
}

// ReplaceList implements the replace setters: a nil collection is rejected
// and the list cleared, anything else is cloned and withdraws an earlier
// rejection of the same field. Nil entries are left for the list stage to
// report with their index.
func ReplaceList[T any](b *ElementBuilder, field string, list []T) []T {
	if list == nil {
		b.Reject(field)
		return nil
	}
	b.pending = slices.DeleteFunc(b.pending, func(iss issue.Issue) bool {
		return iss.Field == field && iss.MessageID == string(issue.DiagListNilCollection)
	})
	return slices.Clone(list)
}

// BackboneElement is the base of elements nested inside a resource. It adds
// modifier extensions.
type BackboneElement struct {
	Element
	modifierExtension []*Extension
}

// ModifierExtension returns a copy of the modifier extensions.
func (e *BackboneElement) ModifierExtension() []*Extension {
	return slices.Clone(e.modifierExtension)
}

// HasExtensions reports whether any extension or modifier extension is
// present.
func (e *BackboneElement) HasExtensions() bool {
	return e.Element.HasExtensions() || len(e.modifierExtension) > 0
}

// EqualBackbone compares id, extensions and modifier extensions.
func (e *BackboneElement) EqualBackbone(o *BackboneElement) bool {
	return e.EqualElement(&o.Element) && element.EqualList(e.modifierExtension, o.modifierExtension)
}

// HashBackbone writes id, extensions and modifier extensions.
func (e *BackboneElement) HashBackbone(h *element.Hasher) {
	e.HashElement(h)
	element.HashList(h, e.modifierExtension)
}

// AcceptExtensions visits extensions then modifier extensions.
func (e *BackboneElement) AcceptExtensions(v element.Visitor) {
	e.Element.AcceptExtensions(v)
	element.List(v, "modifierExtension", e.modifierExtension)
}

// CheckBackbone declares the rules shared by every backbone element.
func (e *BackboneElement) CheckBackbone(c *validate.Checker) {
	e.CheckElement(c)
	validate.List(c, "modifierExtension", e.modifierExtension, "Extension")
}

// BackboneElementBuilder adds modifier extensions to ElementBuilder.
type BackboneElementBuilder struct {
	ElementBuilder
	modifierExtension []*Extension
}

// AddModifierExtension appends modifier extensions.
func (b *BackboneElementBuilder) AddModifierExtension(ext ...*Extension) {
	b.modifierExtension = append(b.modifierExtension, ext...)
}

// ResetModifierExtension replaces the modifier extensions.
func (b *BackboneElementBuilder) ResetModifierExtension(ext []*Extension) {
	b.modifierExtension = ReplaceList(&b.ElementBuilder, "modifierExtension", ext)
}

// Backbone returns the accumulated state with the lists cloned.
func (b *BackboneElementBuilder) Backbone() BackboneElement {
	return BackboneElement{Element: b.Element(), modifierExtension: slices.Clone(b.modifierExtension)}
}

// FromBackbone seeds the builder from a built backbone element.
func (b *BackboneElementBuilder) FromBackbone(e *BackboneElement) {
	b.From(&e.Element)
	b.modifierExtension = slices.Clone(e.modifierExtension)
}

var (
	extensionField         = element.FieldInfo{Name: "extension", Kind: element.FieldList, Types: []string{"Extension"}}
	modifierExtensionField = element.FieldInfo{Name: "modifierExtension", Kind: element.FieldList, Types: []string{"Extension"}}
)

// ElementFields returns the field metadata every element starts with.
func ElementFields(fields ...element.FieldInfo) []element.FieldInfo {
	return append([]element.FieldInfo{extensionField}, fields...)
}

// BackboneFields returns the field metadata every backbone element starts
// with.
func BackboneFields(fields ...element.FieldInfo) []element.FieldInfo {
	return append([]element.FieldInfo{extensionField, modifierExtensionField}, fields...)
}
