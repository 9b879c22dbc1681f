package codegen

import (
	"go/token"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// namer derives Go identifiers from FHIR names. A cases.Caser keeps state
// between calls, so every emitter owns its namer.
type namer struct {
	title cases.Caser
}

func newNamer() *namer {
	return &namer{title: cases.Title(language.English, cases.NoLower)}
}

// exported upper-cases the first letter and leaves the rest alone:
// "doNotPerform" -> "DoNotPerform".
func (n *namer) exported(name string) string {
	return n.title.String(name)
}

// typeName joins the segments of a backbone path:
// "CarePlan.activity.detail" -> "CarePlanActivityDetail".
func (n *namer) typeName(path string) string {
	var sb strings.Builder
	for _, seg := range strings.Split(path, ".") {
		sb.WriteString(n.exported(seg))
	}
	return sb.String()
}

// Methods the runtime bases and builders already define. A field whose
// accessor would shadow one of them gets a "Field" suffix.
var reservedMethods = map[string]bool{
	"Accept": true, "Check": true, "Contained": true, "Domain": true, "Equal": true,
	"Extension": true, "HasChildren": true, "HasExtensions": true, "HasValue": true,
	"Hash": true, "ID": true, "ImplicitRules": true, "Language": true, "Meta": true,
	"ModifierExtension": true, "ResourceType": true, "Supertypes": true, "Text": true,
	"ToBuilder": true, "TypeInfo": true, "TypeName": true,
	// builders
	"Backbone": true, "Build": true, "Element": true, "From": true, "FromBackbone": true,
	"FromDomain": true, "Options": true, "Reject": true,
}

// accessor returns the getter and setter name of a field.
func (n *namer) accessor(field string) string {
	name := n.exported(field)
	if reservedMethods[name] {
		name += "Field"
	}
	return name
}

// Unexported names every generated type declares for itself.
var reservedFields = map[string]bool{"hash": true, "computeHash": true}

// private returns the struct field name of a FHIR element.
func private(field string) string {
	if token.IsKeyword(field) || reservedFields[field] {
		return field + "_"
	}
	return field
}

// receiver picks a one-letter receiver that cannot collide with the names
// the generated method bodies use (b, h, o, v).
func receiver(path string) string {
	seg := path[strings.LastIndexByte(path, '.')+1:]
	r := strings.ToLower(seg[:1])
	switch r {
	case "b", "h", "o", "v":
		return "x"
	}
	if r < "a" || r > "z" {
		return "x"
	}
	return r
}

// lowerFirst turns an exported name into a package-private one.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// constraintVar names the variable holding an invariant:
// ("CarePlanActivity", "cpl-3") -> "carePlanActivityCpl3".
func (n *namer) constraintVar(typeName, key string) string {
	var sb strings.Builder
	sb.WriteString(lowerFirst(typeName))
	for _, part := range strings.FieldsFunc(key, func(r rune) bool { return r == '-' || r == '.' }) {
		sb.WriteString(n.exported(part))
	}
	return sb.String()
}

// fileName is the output file of a root type: "CarePlan" -> "careplan.go".
func fileName(typeName string) string {
	return strings.ToLower(typeName) + ".go"
}
