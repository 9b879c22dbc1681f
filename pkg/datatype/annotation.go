package datatype

import (
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/validate"
)

// AnnotationAuthorTypes are the alternatives of Annotation.author[x].
var AnnotationAuthorTypes = []string{"Reference", "string"}

// AnnotationAuthorTargets are the resource kinds authorReference may point to.
var AnnotationAuthorTargets = []string{"Practitioner", "Patient", "RelatedPerson", "Organization"}

// Annotation is a text note with its author and time.
type Annotation struct {
	Element
	author element.Node
	time   *DateTime
	text   *Markdown
	hash   uint64
}

var annotationInfo = &element.TypeInfo{
	Name: "Annotation",
	Kind: element.KindComplex,
	Fields: ElementFields(
		element.FieldInfo{Name: "author", Kind: element.FieldChoice, Types: AnnotationAuthorTypes, Targets: AnnotationAuthorTargets},
		element.FieldInfo{Name: "time", Types: []string{"dateTime"}},
		element.FieldInfo{Name: "text", Types: []string{"markdown"}, Required: true},
	),
}

// Author returns the author[x] slot.
func (a *Annotation) Author() element.Node { return a.author }

// AuthorReference returns the author when it is a Reference.
func (a *Annotation) AuthorReference() (*Reference, bool) { return element.As[*Reference](a.author) }

// AuthorString returns the author when it is a string.
func (a *Annotation) AuthorString() (*String, bool) { return element.As[*String](a.author) }

func (a *Annotation) Time() *DateTime             { return a.time }
func (a *Annotation) Text() *Markdown             { return a.text }
func (a *Annotation) TypeName() string            { return "Annotation" }
func (a *Annotation) HasValue() bool              { return false }
func (a *Annotation) Hash() uint64                { return a.hash }
func (a *Annotation) TypeInfo() *element.TypeInfo { return annotationInfo }

// HasChildren implements element.Node.
func (a *Annotation) HasChildren() bool {
	return a.HasExtensions() || a.author != nil || a.time != nil || a.text != nil
}

// Accept implements element.Node.
func (a *Annotation) Accept(name string, index int, v element.Visitor) {
	element.Accept(a, name, index, v, func(v element.Visitor) {
		a.AcceptExtensions(v)
		element.Child(v, "author", a.author)
		element.Child(v, "time", a.time)
		element.Child(v, "text", a.text)
	})
}

// Equal implements element.Node.
func (a *Annotation) Equal(other element.Node) bool {
	o, ok := other.(*Annotation)
	if !ok || o == nil {
		return false
	}
	return a.EqualElement(&o.Element) &&
		element.Equal(a.author, o.author) &&
		element.Equal(a.time, o.time) &&
		element.Equal(a.text, o.text)
}

func (a *Annotation) computeHash() uint64 {
	h := element.NewHasher("Annotation")
	a.HashElement(h)
	h.Node(a.author)
	h.Node(a.time)
	h.Node(a.text)
	return h.Sum()
}

// Check implements validate.Checkable.
func (a *Annotation) Check(c *validate.Checker) {
	a.CheckElement(c)
	c.Required("text", a.text)
	c.Choice("author", a.author, false, AnnotationAuthorTypes...)
	c.Reference("author", a.author, AnnotationAuthorTargets...)
}

// ToBuilder returns a builder seeded with a's fields.
func (a *Annotation) ToBuilder() *AnnotationBuilder {
	b := &AnnotationBuilder{author: a.author, time: a.time, text: a.text}
	b.From(&a.Element)
	return b
}

// AnnotationBuilder builds an Annotation.
type AnnotationBuilder struct {
	ElementBuilder
	author element.Node
	time   *DateTime
	text   *Markdown
}

// NewAnnotationBuilder creates an AnnotationBuilder.
func NewAnnotationBuilder() *AnnotationBuilder {
	return &AnnotationBuilder{}
}

func (b *AnnotationBuilder) ID(id string) *AnnotationBuilder {
	b.SetID(id)
	return b
}

func (b *AnnotationBuilder) Extension(ext ...*Extension) *AnnotationBuilder {
	b.AddExtension(ext...)
	return b
}

func (b *AnnotationBuilder) ReplaceExtension(ext []*Extension) *AnnotationBuilder {
	b.ResetExtension(ext)
	return b
}

// Author sets author[x] to any node; Build checks the alternative.
func (b *AnnotationBuilder) Author(v element.Node) *AnnotationBuilder {
	if element.IsNil(v) {
		v = nil
	}
	b.author = v
	return b
}

// AuthorReference sets author[x] to a Reference.
func (b *AnnotationBuilder) AuthorReference(v *Reference) *AnnotationBuilder {
	b.author = element.NodeOf(v)
	return b
}

// AuthorString sets author[x] to a string.
func (b *AnnotationBuilder) AuthorString(v *String) *AnnotationBuilder {
	b.author = element.NodeOf(v)
	return b
}

func (b *AnnotationBuilder) Time(v *DateTime) *AnnotationBuilder {
	b.time = v
	return b
}

func (b *AnnotationBuilder) Text(v *Markdown) *AnnotationBuilder {
	b.text = v
	return b
}

// Build validates the annotation and returns it.
func (b *AnnotationBuilder) Build(opts ...validate.Option) (*Annotation, error) {
	a := &Annotation{
		Element: b.Element(),
		author:  b.author,
		time:    b.time,
		text:    b.text,
	}
	if err := validate.Run(a, b.Options(opts)...); err != nil {
		return nil, err
	}
	a.hash = a.computeHash()
	return a, nil
}
