package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewCopiesStructuredFields(t *testing.T) {
	iss := New(DiagReferenceInvalidTarget, map[string]any{
		"type":    "Device",
		"field":   "owner",
		"allowed": []string{"Organization"},
		"actual":  "Patient",
	})

	if iss.Kind != KindReferenceTarget {
		t.Errorf("Kind = %q; want %q", iss.Kind, KindReferenceTarget)
	}
	if iss.Severity != SeverityError {
		t.Errorf("Severity = %q; want %q", iss.Severity, SeverityError)
	}
	if iss.Field != "owner" || iss.Type != "Device" || iss.Actual != "Patient" {
		t.Errorf("structured fields not copied: %+v", iss)
	}
	if len(iss.Allowed) != 1 || iss.Allowed[0] != "Organization" {
		t.Errorf("Allowed = %v; want [Organization]", iss.Allowed)
	}
	if iss.Index != NoIndex {
		t.Errorf("Index = %d; want NoIndex", iss.Index)
	}
	want := "Resource type found in reference: 'Patient' for element: 'owner' must be one of: Organization"
	if iss.Diagnostics != want {
		t.Errorf("Diagnostics = %q; want %q", iss.Diagnostics, want)
	}
}

func TestNewUnknownID(t *testing.T) {
	iss := New("NOT_A_DIAGNOSTIC", nil)
	if iss.Code != CodeProcessing || iss.Diagnostics != "NOT_A_DIAGNOSTIC" {
		t.Errorf("unexpected issue for unknown id: %+v", iss)
	}
}

func TestIssueLocation(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{"type and field", Issue{Type: "Device", Field: "status", Index: NoIndex}, "Device.status"},
		{"indexed", Issue{Type: "Component", Field: "notes", Index: 0}, "Component.notes[0]"},
		{"field only", Issue{Field: "value", Index: NoIndex}, "value"},
		{"path wins", Issue{Type: "Device", Field: "text", Path: "Device.note[1].text", Index: NoIndex}, "Device.note[1].text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.Location(); got != tt.want {
				t.Errorf("Location() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestIssuesError(t *testing.T) {
	var iss Issues
	for i := 0; i < 5; i++ {
		iss = append(iss, New(DiagListNullElement, map[string]any{"field": "notes", "index": i}))
	}

	msg := iss.Error()
	if !strings.Contains(msg, "notes[0]") {
		t.Errorf("Error() = %q; want first issue location", msg)
	}
	if !strings.HasSuffix(msg, "(total 5)") {
		t.Errorf("Error() = %q; want total suffix", msg)
	}
	if Issues(nil).Error() != "" {
		t.Error("empty Issues should render as empty string")
	}
}

func TestAsIssues(t *testing.T) {
	iss := Issues{New(DiagRequiredMissing, map[string]any{"field": "status"})}
	wrapped := fmt.Errorf("building Component: %w", iss)

	got, ok := AsIssues(wrapped)
	if !ok || len(got) != 1 || got[0].Field != "status" {
		t.Fatalf("AsIssues() = %v, %v", got, ok)
	}

	var one Issue
	if !errors.As(wrapped, &one) || one.Kind != KindMissingRequired {
		t.Errorf("errors.As to Issue failed: %+v", one)
	}

	single, ok := AsIssues(New(DiagEmptyLeaf, map[string]any{"type": "Coding"}))
	if !ok || len(single) != 1 || single[0].Kind != KindEmptyLeaf {
		t.Errorf("AsIssues(single) = %v, %v", single, ok)
	}

	if _, ok := AsIssues(errors.New("plain")); ok {
		t.Error("AsIssues should not match a plain error")
	}
}

func TestIssuesFilters(t *testing.T) {
	iss := Issues{
		New(DiagRequiredMissing, map[string]any{"field": "status"}),
		Warning(DiagConstraintFailed, map[string]any{"key": "dev-1", "human": "advice"}),
		New(DiagChoiceInvalidType, map[string]any{"field": "value", "actual": "string", "allowed": []string{"Quantity"}}),
	}

	if !iss.HasErrors() {
		t.Error("HasErrors() = false; want true")
	}
	if n := len(iss.Errors()); n != 2 {
		t.Errorf("Errors() = %d; want 2", n)
	}
	if n := len(iss.Warnings()); n != 1 {
		t.Errorf("Warnings() = %d; want 1", n)
	}
	if !iss.HasKind(KindChoice) || iss.HasKind(KindEmptyLeaf) {
		t.Error("HasKind() mismatch")
	}
	if n := len(iss.ByField("value")); n != 1 {
		t.Errorf("ByField(value) = %d; want 1", n)
	}
	if iss.Warnings().HasErrors() {
		t.Error("warnings alone must not count as errors")
	}
}

func TestFormatDiagnostic(t *testing.T) {
	got := FormatDiagnostic(DiagChoiceInvalidType, map[string]any{
		"field":   "value",
		"actual":  "string",
		"allowed": []string{"Quantity", "CodeableConcept"},
	})
	want := "Invalid type: string for choice element: 'value' must be one of: Quantity, CodeableConcept"
	if got != want {
		t.Errorf("FormatDiagnostic() = %q; want %q", got, want)
	}

	if tmpl, ok := GetDiagnosticTemplate(DiagEmptyLeaf); !ok || tmpl.ID != DiagEmptyLeaf {
		t.Errorf("GetDiagnosticTemplate() = %+v, %v", tmpl, ok)
	}
}
