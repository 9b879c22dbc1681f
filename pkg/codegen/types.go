package codegen

import (
	"strings"

	"github.com/dave/jennifer/jen"
)

// Import paths of the runtime packages generated code builds on.
const (
	constraintPkg = "github.com/gofhir/model/pkg/constraint"
	datatypePkg   = "github.com/gofhir/model/pkg/datatype"
	elementPkg    = "github.com/gofhir/model/pkg/element"
	validatePkg   = "github.com/gofhir/model/pkg/validate"
)

// primitive maps a FHIR primitive to the runtime type representing it.
type primitive struct {
	goName  string // datatype.<goName>
	runtime string // TypeName() of that runtime type
}

// primitives covers every R4 primitive; each has its own runtime type so a
// value keeps its declared code through choice checks and JSON.
var primitives = map[string]primitive{
	"boolean":      {"Boolean", "boolean"},
	"integer":      {"Integer", "integer"},
	"positiveInt":  {"PositiveInt", "positiveInt"},
	"unsignedInt":  {"UnsignedInt", "unsignedInt"},
	"decimal":      {"Decimal", "decimal"},
	"string":       {"String", "string"},
	"time":         {"Time", "time"},
	"base64Binary": {"Base64Binary", "base64Binary"},
	"code":         {"Code", "code"},
	"id":           {"Id", "id"},
	"uri":          {"Uri", "uri"},
	"url":          {"Url", "url"},
	"oid":          {"Oid", "oid"},
	"uuid":         {"Uuid", "uuid"},
	"canonical":    {"Canonical", "canonical"},
	"markdown":     {"Markdown", "markdown"},
	"dateTime":     {"DateTime", "dateTime"},
	"date":         {"Date", "date"},
	"instant":      {"Instant", "instant"},
	"xhtml":        {"Xhtml", "xhtml"},
}

// runtimeDatatypes are the complex types the datatype package provides.
var runtimeDatatypes = map[string]bool{
	"Annotation":      true,
	"CodeableConcept": true,
	"Coding":          true,
	"Duration":        true,
	"Extension":       true,
	"Identifier":      true,
	"Meta":            true,
	"Narrative":       true,
	"Period":          true,
	"Quantity":        true,
	"Reference":       true,
}

func isResourceSlot(code string) bool {
	return code == "Resource" || code == "DomainResource"
}

func isBackbone(code string) bool {
	return strings.IndexByte(code, '.') > 0
}

// runtimeType is the TypeName the value of a code carries at runtime.
func runtimeType(code string) string {
	if p, ok := primitives[code]; ok {
		return p.runtime
	}
	return code
}

// provided reports whether code resolves without generating it.
func provided(code string) bool {
	_, ok := primitives[code]
	return ok || runtimeDatatypes[code] || isResourceSlot(code)
}

// goType renders the Go type holding one value of code. Complex types
// outside the runtime are expected in the generated package itself.
func (n *namer) goType(code string) *jen.Statement {
	switch {
	case isResourceSlot(code):
		return jen.Qual(elementPkg, "Resource")
	case runtimeDatatypes[code]:
		return jen.Op("*").Qual(datatypePkg, code)
	case isBackbone(code):
		return jen.Op("*").Id(n.typeName(code))
	}
	if p, ok := primitives[code]; ok {
		return jen.Op("*").Qual(datatypePkg, p.goName)
	}
	return jen.Op("*").Id(code)
}
