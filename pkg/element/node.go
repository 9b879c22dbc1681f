// Package element defines the capabilities shared by every model type: the
// Node contract, the visitor protocol, structural equality and hashing, and
// the field metadata that generic consumers (serializers, validators) read.
//
// Concrete types live in generated packages and compose these capabilities
// directly; there is no type hierarchy to inherit from.
package element

import "reflect"

// NoIndex is passed as the index of a node that is not a list entry.
const NoIndex = -1

// Node is implemented by every structural unit of the model.
type Node interface {
	// TypeName returns the FHIR type code, e.g. "Quantity", "string" or
	// "CarePlan.activity" for backbone elements.
	TypeName() string

	// ID returns the intra-document identifier, or "" when absent.
	ID() string

	// HasValue reports whether a primitive value is present.
	HasValue() bool

	// HasChildren reports whether any extension or declared field holds
	// content.
	HasChildren() bool

	// Accept runs the visitor protocol for this node.
	Accept(name string, index int, v Visitor)

	// Equal reports whether other has the same concrete type and equal fields.
	Equal(other Node) bool

	// Hash returns the structural hash, consistent with Equal.
	Hash() uint64
}

// Resource is a Node with independent identity.
type Resource interface {
	Node
	ResourceType() string
}

// Number is the lexical form of a decimal value, kept verbatim so precision
// survives serialization.
type Number string

// Primitive is implemented by primitive datatypes.
type Primitive interface {
	Node

	// PrimitiveValue returns the value as bool, int32, string or Number, or
	// nil when the primitive only carries an id or extensions.
	PrimitiveValue() any
}

// Subtype is implemented by constrained types (e.g. Duration) that may stand
// in for their base types.
type Subtype interface {
	Supertypes() []string
}

// Referent is implemented by the Reference datatype.
type Referent interface {
	Node

	// Literal returns the literal reference ("Patient/123"), or "".
	Literal() string

	// TargetType returns the explicit type tag, or "".
	TargetType() string
}

// CodeValue is one system/code pair carried by a coded node.
type CodeValue struct {
	System string
	Code   string
}

// Coded is implemented by nodes that carry codes subject to bindings.
type Coded interface {
	Node
	Codes() []CodeValue
}

// Attribute is a plain name/value pair carried by a node that is not an
// element itself, such as Extension.url.
type Attribute struct {
	Name  string
	Value string
}

// Attributed is implemented by nodes with plain attributes. Serializers
// write them before the children.
type Attributed interface {
	Attributes() []Attribute
}

// HasContent reports whether n carries a value or any child content.
func HasContent(n Node) bool {
	if IsNil(n) {
		return false
	}
	return n.HasValue() || n.HasChildren()
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	rv := reflect.ValueOf(n)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// IsInstanceOf reports whether n can stand in for typeName: its own type,
// one of its supertypes, or an abstract base (Base, Element, Resource).
func IsInstanceOf(n Node, typeName string) bool {
	if IsNil(n) {
		return false
	}
	switch typeName {
	case "Base":
		return true
	case "Resource", "DomainResource":
		_, ok := n.(Resource)
		return ok
	case "Element", "BackboneElement":
		_, ok := n.(Resource)
		return !ok
	}
	if n.TypeName() == typeName {
		return true
	}
	if st, ok := n.(Subtype); ok {
		for _, s := range st.Supertypes() {
			if s == typeName {
				return true
			}
		}
	}
	return false
}

// IsInstanceOfAny reports whether n is an instance of any of the type names.
func IsInstanceOfAny(n Node, typeNames ...string) bool {
	for _, t := range typeNames {
		if IsInstanceOf(n, t) {
			return true
		}
	}
	return false
}

// NodeOf converts a possibly nil pointer to a Node, mapping nil to an untyped
// nil interface. Choice setters use it so an empty slot is always == nil.
func NodeOf[T any, P interface {
	*T
	Node
}](p P) Node {
	if p == nil {
		return nil
	}
	return p
}

// As narrows a choice slot to one alternative.
func As[T Node](n Node) (T, bool) {
	t, ok := n.(T)
	if !ok || IsNil(t) {
		var zero T
		return zero, false
	}
	return t, true
}

// Nodes converts a typed slice to a slice of Nodes.
func Nodes[T Node](list []T) []Node {
	if list == nil {
		return nil
	}
	out := make([]Node, len(list))
	for i, n := range list {
		out[i] = n
	}
	return out
}
