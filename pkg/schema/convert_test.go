package schema

import (
	"testing"

	"github.com/gofhir/fhir/r4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type elem struct {
	path    string
	min     uint32
	max     string
	types   []string
	targets []string
	slice   string
	content string
	binding string
	cons    []r4.ElementDefinitionConstraint
}

func structureDefinition(typ string, kind r4.StructureDefinitionKind, base string, elems ...elem) *r4.StructureDefinition {
	sd := &r4.StructureDefinition{
		Url:            ptr("http://hl7.org/fhir/StructureDefinition/" + typ),
		Type:           ptr(typ),
		Kind:           &kind,
		BaseDefinition: ptr("http://hl7.org/fhir/StructureDefinition/" + base),
		Snapshot:       &r4.StructureDefinitionSnapshot{},
	}
	for _, e := range elems {
		ed := r4.ElementDefinition{
			Path:       ptr(e.path),
			Min:        ptr(e.min),
			Max:        ptr(e.max),
			Constraint: e.cons,
		}
		for i, code := range e.types {
			t := r4.ElementDefinitionType{Code: ptr(code)}
			if i == 0 {
				t.TargetProfile = e.targets
			}
			ed.Type = append(ed.Type, t)
		}
		if e.slice != "" {
			ed.SliceName = ptr(e.slice)
		}
		if e.content != "" {
			ed.ContentReference = ptr(e.content)
		}
		if e.binding != "" {
			ed.Binding = &r4.ElementDefinitionBinding{
				Strength: ptr(r4.BindingStrengthRequired),
				ValueSet: ptr(e.binding),
			}
		}
		sd.Snapshot.Element = append(sd.Snapshot.Element, ed)
	}
	return sd
}

func constraint(key, expr, source string) r4.ElementDefinitionConstraint {
	return r4.ElementDefinitionConstraint{
		Key:        ptr(key),
		Severity:   ptr(r4.ConstraintSeverityError),
		Human:      ptr(key + " human"),
		Expression: ptr(expr),
		Source:     ptr(source),
	}
}

const sdBase = "http://hl7.org/fhir/StructureDefinition/"

func carePlan() *r4.StructureDefinition {
	return structureDefinition("CarePlan", r4.StructureDefinitionKindResource, "DomainResource",
		elem{path: "CarePlan", max: "*", cons: []r4.ElementDefinitionConstraint{
			constraint("dom-2", "contained.contained.empty()", sdBase+"DomainResource"),
			constraint("ele-1", "hasValue() or (children().count() > id.count())", sdBase+"Element"),
		}},
		elem{path: "CarePlan.id", max: "1", types: []string{"http://hl7.org/fhirpath/System.String"}},
		elem{path: "CarePlan.meta", max: "1", types: []string{"Meta"}},
		elem{path: "CarePlan.contained", max: "*", types: []string{"Resource"}},
		elem{path: "CarePlan.extension", max: "*", types: []string{"Extension"}},
		elem{path: "CarePlan.modifierExtension", max: "*", types: []string{"Extension"}},
		elem{path: "CarePlan.status", min: 1, max: "1", types: []string{"code"}, binding: "http://hl7.org/fhir/ValueSet/request-status|4.0.1"},
		elem{path: "CarePlan.subject", min: 1, max: "1", types: []string{"Reference"}, targets: []string{sdBase + "Patient", sdBase + "Group"}},
		elem{path: "CarePlan.activity", max: "*", types: []string{"BackboneElement"}, cons: []r4.ElementDefinitionConstraint{
			constraint("cpl-3", "detail.empty() or reference.empty()", sdBase+"CarePlan"),
		}},
		elem{path: "CarePlan.activity.id", max: "1", types: []string{"string"}},
		elem{path: "CarePlan.activity.modifierExtension", max: "*", types: []string{"Extension"}},
		elem{path: "CarePlan.activity.reference", max: "1", types: []string{"Reference"}, targets: []string{sdBase + "Appointment"}},
		elem{path: "CarePlan.activity.detail", max: "1", types: []string{"BackboneElement"}},
		elem{path: "CarePlan.activity.detail.product[x]", max: "1", types: []string{"CodeableConcept", "Reference"}},
		elem{path: "CarePlan.activity.detail.product[x]", slice: "productReference", max: "1", types: []string{"Reference"}},
		elem{path: "CarePlan.activity.detail.scheduled[x]", max: "0", types: []string{"Timing"}},
		elem{path: "CarePlan.activity.subActivity", max: "*", content: "#CarePlan.activity"},
		elem{path: "CarePlan.note", max: "*", types: []string{"Annotation"}},
	)
}

func TestConvertResource(t *testing.T) {
	td, err := Convert(carePlan())
	require.NoError(t, err)

	assert.Equal(t, "CarePlan", td.Name)
	assert.Equal(t, KindResource, td.Kind)
	assert.Equal(t, BaseDomainResource, td.Base)
	assert.True(t, td.IsResource())

	var names []string
	for _, f := range td.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"status", "subject", "activity", "note"}, names, "inherited fields are not redeclared")

	status := td.Field("status")
	require.NotNil(t, status.Binding)
	assert.Equal(t, "request-status", status.Binding.Name)
	assert.True(t, status.Required())
	assert.False(t, status.IsList())

	subject := td.Field("subject")
	assert.Equal(t, []string{"Patient", "Group"}, subject.Targets)

	assert.True(t, td.Field("note").IsList())
	assert.Empty(t, td.Constraints, "inherited and ele-1 invariants are dropped")
}

func TestConvertBackbones(t *testing.T) {
	td, err := Convert(carePlan())
	require.NoError(t, err)
	require.Len(t, td.Backbones, 2)

	activity := td.Backbones[0]
	assert.Equal(t, "CarePlan.activity", activity.Name)
	assert.Equal(t, KindBackbone, activity.Kind)
	assert.Equal(t, []string{"CarePlan.activity"}, td.Field("activity").Types)
	require.Len(t, activity.Constraints, 1)
	assert.Equal(t, "cpl-3", activity.Constraints[0].Key)
	assert.Equal(t, "CarePlan.activity", activity.Constraints[0].Location)

	assert.Nil(t, activity.Field("modifierExtension"))
	assert.Equal(t, []string{"CarePlan.activity"}, activity.Field("subActivity").Types, "content reference")

	detail := td.Backbones[1]
	assert.Equal(t, "CarePlan.activity.detail", detail.Name)
	require.Len(t, detail.Fields, 1, "slices and prohibited elements are skipped")
	product := detail.Fields[0]
	assert.Equal(t, "product", product.Name)
	assert.True(t, product.Choice)
	assert.Equal(t, []string{"CodeableConcept", "Reference"}, product.Types)
	assert.Empty(t, product.Targets)

	assert.Len(t, td.All(), 3)
}

func TestConvertDatatype(t *testing.T) {
	kind := r4.StructureDefinitionKind("complex-type")
	sd := structureDefinition("Duration", kind, "Quantity",
		elem{path: "Duration", max: "*"},
		elem{path: "Duration.id", max: "1", types: []string{"http://hl7.org/fhirpath/System.String"}},
		elem{path: "Duration.extension", max: "*", types: []string{"Extension"}},
		elem{path: "Duration.value", max: "1", types: []string{"decimal"}},
		elem{path: "Duration.unit", max: "1", types: []string{"string"}},
	)
	td, err := Convert(sd)
	require.NoError(t, err)
	assert.Equal(t, BaseElement, td.Base)
	assert.Equal(t, "Quantity", td.Supertype)
	assert.Len(t, td.Fields, 2)
}

func TestConvertErrors(t *testing.T) {
	_, err := Convert(nil)
	assert.Error(t, err)

	sd := structureDefinition("Widget", r4.StructureDefinitionKindResource, "DomainResource")
	sd.Snapshot = nil
	_, err = Convert(sd)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	logical := structureDefinition("Widget", r4.StructureDefinitionKind("logical"), "Base", elem{path: "Widget", max: "*"})
	_, err = Convert(logical)
	assert.ErrorContains(t, err, "unsupported kind")
}

func TestTypeCode(t *testing.T) {
	assert.Equal(t, "string", typeCode("http://hl7.org/fhirpath/System.String"))
	assert.Equal(t, "dateTime", typeCode("http://hl7.org/fhirpath/System.DateTime"))
	assert.Equal(t, "Quantity", typeCode("Quantity"))
}

func TestBindingName(t *testing.T) {
	assert.Equal(t, "device-status", BindingName("http://hl7.org/fhir/ValueSet/device-status|4.0.1"))
	assert.Equal(t, "plain", BindingName("plain"))
}
