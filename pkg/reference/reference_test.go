package reference

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		form    Form
		typ     string
		id      string
		version string
		wantErr bool
		untyped bool
	}{
		{name: "empty", ref: "", form: FormEmpty, untyped: true},
		{name: "relative", ref: "Patient/123", form: FormRelative, typ: "Patient", id: "123"},
		{name: "relative with history", ref: "Procedure/example/_history/1", form: FormRelative, typ: "Procedure", id: "example", version: "1"},
		{name: "absolute", ref: "http://example.org/fhir/Organization/org-1", form: FormAbsolute, typ: "Organization", id: "org-1"},
		{name: "absolute with history", ref: "https://example.org/fhir/Patient/p1/_history/3", form: FormAbsolute, typ: "Patient", id: "p1", version: "3"},
		{name: "absolute without resource type", ref: "http://example.org/things/abc", form: FormAbsolute, untyped: true},
		{name: "conditional", ref: "Patient?identifier=http://sys|42", form: FormConditional, typ: "Patient"},
		{name: "conditional after id", ref: "Patient/x?y", form: FormConditional, typ: "Patient/x"},
		{name: "conditional without query", ref: "Observation?", form: FormConditional, typ: "Observation"},
		{name: "conditional without type", ref: "?identifier=42", form: FormConditional, wantErr: true, untyped: true},
		{name: "fragment", ref: "#org1", form: FormFragment, id: "org1", untyped: true},
		{name: "container fragment", ref: "#", form: FormFragment, untyped: true},
		{name: "urn uuid", ref: "urn:uuid:9d3f0c1e-1111-4c4c-9f9f-000000000000", form: FormURN, untyped: true},
		{name: "urn oid", ref: "urn:oid:1.2.840.10008", form: FormURN, untyped: true},
		{name: "other scheme", ref: "mailto:someone@example.org", form: FormOther, untyped: true},
		{name: "malformed relative", ref: "Patient/12 3", form: FormRelative, wantErr: true, untyped: true},
		{name: "malformed fragment", ref: "#a b", form: FormFragment, wantErr: true, untyped: true},
		{name: "malformed urn", ref: "urn:oid:abc", form: FormURN, wantErr: true, untyped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v; wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got.Form != tt.form {
				t.Errorf("Form = %s; want %s", got.Form, tt.form)
			}
			if got.ResourceType != tt.typ {
				t.Errorf("ResourceType = %q; want %q", got.ResourceType, tt.typ)
			}
			if tt.id != "" && got.ID != tt.id {
				t.Errorf("ID = %q; want %q", got.ID, tt.id)
			}
			if got.Version != tt.version {
				t.Errorf("Version = %q; want %q", got.Version, tt.version)
			}
			if got.Typed() == tt.untyped {
				t.Errorf("Typed() = %v; want %v", got.Typed(), !tt.untyped)
			}
		})
	}
}

func TestTypeFromProfile(t *testing.T) {
	tests := []struct {
		profile  string
		expected string
	}{
		{"http://hl7.org/fhir/StructureDefinition/Patient", "Patient"},
		{"http://hl7.org/fhir/StructureDefinition/Organization|4.0.1", "Organization"},
		{"http://hl7.org/fhir/StructureDefinition/Resource", "Resource"},
		{"http://example.org/fhir/StructureDefinition/MyPatient", "MyPatient"},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			if got := TypeFromProfile(tt.profile); got != tt.expected {
				t.Errorf("TypeFromProfile(%q) = %q; want %q", tt.profile, got, tt.expected)
			}
		})
	}
}

func TestTypesFromProfiles(t *testing.T) {
	got := TypesFromProfiles([]string{
		"http://hl7.org/fhir/StructureDefinition/Organization",
		"http://hl7.org/fhir/StructureDefinition/Patient",
		"http://hl7.org/fhir/StructureDefinition/Organization",
	})
	if len(got) != 2 || got[0] != "Organization" || got[1] != "Patient" {
		t.Errorf("TypesFromProfiles() = %v; want [Organization Patient]", got)
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		allowed []string
		want    bool
	}{
		{"member", "Organization", []string{"Organization"}, true},
		{"not member", "Patient", []string{"Organization"}, false},
		{"any", "Patient", nil, true},
		{"resource wildcard", "Patient", []string{"Organization", "Resource"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.kind, tt.allowed); got != tt.want {
				t.Errorf("Allowed(%q, %v) = %v; want %v", tt.kind, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestResourceTypes(t *testing.T) {
	if !IsResourceType("Patient") || !IsResourceType("CarePlan") {
		t.Error("core resource types must be known")
	}
	if IsResourceType("Quantity") || IsResourceType("patient") {
		t.Error("datatypes and miscased names are not resource types")
	}

	RegisterResourceTypes("ActorDefinition")
	if !IsResourceType("ActorDefinition") {
		t.Error("registered type should be known")
	}
}
