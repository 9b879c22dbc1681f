package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofhir/fhir/r4"

	"github.com/gofhir/model/pkg/reference"
)

// ErrNoSnapshot is returned for StructureDefinitions without a snapshot.
var ErrNoSnapshot = errors.New("structure definition has no snapshot")

// Fields carried by the runtime base types; they are not redeclared.
var inherited = map[string][]string{
	BaseElement:         {"id", "extension"},
	BaseBackboneElement: {"id", "extension", "modifierExtension"},
	BaseResource:        {"id", "meta", "implicitRules", "language"},
	BaseDomainResource:  {"id", "meta", "implicitRules", "language", "text", "contained", "extension", "modifierExtension"},
}

var bases = map[string]bool{
	BaseElement:         true,
	BaseBackboneElement: true,
	BaseResource:        true,
	BaseDomainResource:  true,
	"BackboneType":      true,
	"DataType":          true,
}

// Convert builds the TypeDef of a StructureDefinition from its snapshot.
// Sliced and prohibited elements are left out, as are invariants inherited
// from other definitions and invariants declared on leaf elements.
func Convert(sd *r4.StructureDefinition) (*TypeDef, error) {
	if sd == nil {
		return nil, errors.New("structure definition is nil")
	}
	name := deref(sd.Type)
	if name == "" {
		return nil, fmt.Errorf("structure definition %s has no type", deref(sd.Url))
	}
	if sd.Snapshot == nil || len(sd.Snapshot.Element) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoSnapshot)
	}

	root := &TypeDef{
		Name:     name,
		URL:      deref(sd.Url),
		Abstract: deref(sd.Abstract),
	}
	if k := sd.Kind; k != nil {
		root.Kind = Kind(*k)
	}
	if root.Kind != KindResource && root.Kind != KindComplex && root.Kind != KindPrimitive {
		return nil, fmt.Errorf("%s: unsupported kind %q", name, root.Kind)
	}

	elements := sd.Snapshot.Element
	root.Base = rootBase(root, elements)
	if parent := reference.TypeFromProfile(deref(sd.BaseDefinition)); root.Kind == KindComplex && parent != "" && !bases[parent] {
		root.Supertype = parent
	}

	owners := map[string]*TypeDef{name: root}
	for i := range elements {
		ed := &elements[i]
		path := deref(ed.Path)
		if path == name {
			root.Constraints = append(root.Constraints, constraints(ed, root.URL)...)
			continue
		}

		dot := strings.LastIndexByte(path, '.')
		if dot < 0 {
			continue
		}
		owner := owners[path[:dot]]
		if owner == nil || ed.SliceName != nil || deref(ed.Max) == "0" {
			continue
		}
		elemName := path[dot+1:]
		if isInherited(owner, elemName) {
			continue
		}

		f := &FieldDef{
			Name: strings.TrimSuffix(elemName, "[x]"),
			Path: path,
			Max:  deref(ed.Max),
		}
		f.Choice = f.Name != elemName
		if ed.Min != nil {
			f.Min = int(*ed.Min)
		}

		switch {
		case ed.ContentReference != nil:
			target := *ed.ContentReference
			if j := strings.IndexByte(target, '#'); j >= 0 {
				target = target[j+1:]
			}
			f.Types = []string{target}
		case isInline(ed):
			bb := &TypeDef{
				Name:        path,
				Kind:        KindBackbone,
				Base:        BaseBackboneElement,
				Constraints: constraints(ed, root.URL),
			}
			if deref(ed.Type[0].Code) == BaseElement {
				bb.Base = BaseElement
			}
			owners[path] = bb
			root.Backbones = append(root.Backbones, bb)
			f.Types = []string{path}
		default:
			for _, t := range ed.Type {
				code := typeCode(deref(t.Code))
				if code == "" || f.HasType(code) {
					continue
				}
				f.Types = append(f.Types, code)
				if code == "Reference" {
					f.Targets = reference.TypesFromProfiles(t.TargetProfile)
				}
			}
		}
		f.Binding = binding(ed)
		owner.Fields = append(owner.Fields, f)
	}
	return root, nil
}

func rootBase(t *TypeDef, elements []r4.ElementDefinition) string {
	has := func(name string) bool {
		for i := range elements {
			if deref(elements[i].Path) == t.Name+"."+name {
				return true
			}
		}
		return false
	}
	switch {
	case t.Kind == KindResource && has("contained"):
		return BaseDomainResource
	case t.Kind == KindResource:
		return BaseResource
	case has("modifierExtension"):
		return BaseBackboneElement
	default:
		return BaseElement
	}
}

// isInherited reports whether name is a field of owner's runtime base.
func isInherited(owner *TypeDef, name string) bool {
	for _, f := range inherited[owner.Base] {
		if f == name {
			return true
		}
	}
	return false
}

func isInline(ed *r4.ElementDefinition) bool {
	if len(ed.Type) != 1 {
		return false
	}
	code := deref(ed.Type[0].Code)
	return code == BaseBackboneElement || code == BaseElement
}

// typeCode maps FHIRPath system types ("http://hl7.org/fhirpath/System.String")
// to the primitive they back.
func typeCode(code string) string {
	const system = "http://hl7.org/fhirpath/System."
	if !strings.HasPrefix(code, system) {
		return code
	}
	code = strings.TrimPrefix(code, system)
	if code == "" {
		return ""
	}
	return strings.ToLower(code[:1]) + code[1:]
}

func binding(ed *r4.ElementDefinition) *Binding {
	b := ed.Binding
	if b == nil || b.Strength == nil || b.ValueSet == nil {
		return nil
	}
	if *b.Strength != r4.BindingStrengthRequired {
		return nil
	}
	return &Binding{
		Name:     BindingName(*b.ValueSet),
		Strength: string(*b.Strength),
		ValueSet: *b.ValueSet,
	}
}

// constraints keeps the invariants declared by the definition itself.
// ele-1 is enforced by the runtime for every element.
func constraints(ed *r4.ElementDefinition, url string) []Constraint {
	var out []Constraint
	for i := range ed.Constraint {
		c := &ed.Constraint[i]
		key := deref(c.Key)
		if key == "" || key == "ele-1" || deref(c.Expression) == "" {
			continue
		}
		if src := deref(c.Source); src != "" && src != url {
			continue
		}
		con := Constraint{
			Key:        key,
			Human:      deref(c.Human),
			Expression: deref(c.Expression),
			Location:   deref(ed.Path),
			Severity:   "error",
		}
		if c.Severity != nil {
			con.Severity = string(*c.Severity)
		}
		out = append(out, con)
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
