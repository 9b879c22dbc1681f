package element

// TypeKind classifies a type definition.
type TypeKind string

// Type kinds, following StructureDefinition.kind plus backbone elements.
const (
	KindPrimitive TypeKind = "primitive-type"
	KindComplex   TypeKind = "complex-type"
	KindBackbone  TypeKind = "backbone"
	KindResource  TypeKind = "resource"
)

// FieldKind classifies how a field stores its value.
type FieldKind int

// Field kinds.
const (
	FieldScalar FieldKind = iota
	FieldList
	FieldChoice
)

// BindingStrength mirrors ElementDefinition.binding.strength.
type BindingStrength string

// Binding strengths.
const (
	BindingRequired   BindingStrength = "required"
	BindingExtensible BindingStrength = "extensible"
	BindingPreferred  BindingStrength = "preferred"
	BindingExample    BindingStrength = "example"
)

// Binding ties a coded field to a value set. Codes is the expansion known at
// generation time, used when no terminology provider knows the value set.
type Binding struct {
	Name     string
	Strength BindingStrength
	ValueSet string
	Codes    []string
}

// FieldInfo describes one declared field.
type FieldInfo struct {
	Name     string
	Kind     FieldKind
	Types    []string // allowed types, one entry unless Kind is FieldChoice
	Required bool
	Targets  []string // allowed reference target kinds
	Binding  *Binding
}

// TypeInfo describes a type and its fields in declaration order.
type TypeInfo struct {
	Name   string
	Kind   TypeKind
	Fields []FieldInfo
}

// Field looks a field up by name.
func (ti *TypeInfo) Field(name string) (FieldInfo, bool) {
	if ti == nil {
		return FieldInfo{}, false
	}
	for _, f := range ti.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// Described is implemented by types that publish their metadata.
type Described interface {
	TypeInfo() *TypeInfo
}

// InfoOf returns n's metadata, or nil.
func InfoOf(n Node) *TypeInfo {
	if d, ok := n.(Described); ok && !IsNil(n) {
		return d.TypeInfo()
	}
	return nil
}
