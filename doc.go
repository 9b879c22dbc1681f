// Package fhirmodel is the root of a FHIR object model for Go: immutable,
// structurally validated model types built through builders, plus the
// generator that emits them from FHIR packages.
//
// # Layout
//
//   - pkg/element: the Node contract, visitor protocol, equality and hashing
//   - pkg/datatype: primitives, the common complex datatypes, and the
//     Element, BackboneElement and DomainResource bases
//   - pkg/validate: the staged structural checker run by every Build
//   - pkg/reference, pkg/constraint, pkg/terminology: reference targets,
//     invariants and required bindings
//   - pkg/jsonenc: FHIR JSON output driven by the visitor protocol
//   - pkg/loader, pkg/registry, pkg/schema, pkg/codegen: package loading
//     and code generation, driven by cmd/fhirgen
//
// # Building values
//
//	status := datatype.NewCode("active")
//	device, err := model.NewDeviceBuilder().
//	    Status(status).
//	    Owner(datatype.NewReference("Organization/1")).
//	    Build()
//	if err != nil {
//	    var issues issue.Issues
//	    if errors.As(err, &issues) {
//	        for _, iss := range issues {
//	            fmt.Println(iss.Location(), iss.Diagnostics)
//	        }
//	    }
//	}
//
// Build runs the checks in a fixed order (list entries, required fields,
// choice types, reference targets, primitive formats, bindings,
// invariants, element content) and either returns an immutable value with
// its hash computed or an error describing what failed. ToBuilder starts a
// modified copy.
//
// # Versions
//
// R4, R4B and R5 are recognised; ParseVersion maps release names and
// version numbers to a FHIRVersion whose Packages fhirgen loads by default.
package fhirmodel
