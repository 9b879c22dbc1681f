package validate

import (
	"strings"
	"testing"

	"github.com/gofhir/model/pkg/issue"
)

func TestCheckString(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		controls bool
		wantDiag issue.DiagnosticID
	}{
		{"plain", "hello", true, ""},
		{"inner whitespace", " a\tb\r\n", true, ""},
		{"blank", "  \t", true, issue.DiagPrimitiveBlank},
		{"empty", "", true, issue.DiagPrimitiveBlank},
		{"control char", "a\x01b", true, issue.DiagPrimitiveControlChar},
		{"control char allowed", "a\x01b", false, ""},
		{"non-breaking space", "a\u00a0b", true, issue.DiagPrimitiveInvalidValue},
		{"too long", strings.Repeat("x", MaxStringLength+1), true, issue.DiagPrimitiveTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDiag(t, CheckString("value", tt.value, tt.controls), tt.wantDiag)
		})
	}
}

func TestCheckCode(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"A", true},
		{"in progress", true},
		{"", false},
		{" A", false},
		{"A ", false},
		{"in  progress", false},
		{"in\tprogress", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			want := issue.DiagPrimitiveInvalidCode
			if tt.valid {
				want = ""
			}
			assertDiag(t, CheckCode("value", tt.value), want)
		})
	}
}

func TestCheckID(t *testing.T) {
	valid := []string{"a", "123", "abc-DEF.1", strings.Repeat("a", 64)}
	invalid := []string{"", "a b", "a_b", "a/b", strings.Repeat("a", 65)}
	for _, v := range valid {
		assertDiag(t, CheckID("id", v), "")
	}
	for _, v := range invalid {
		assertDiag(t, CheckID("id", v), issue.DiagPrimitiveInvalidID)
	}
}

func TestCheckURI(t *testing.T) {
	assertDiag(t, CheckURI("value", "http://example.org/fhir"), "")
	assertDiag(t, CheckURI("value", "urn:oid:1.2.3"), "")
	assertDiag(t, CheckURI("value", "http://example.org/a b"), issue.DiagPrimitiveInvalidURI)
}

func TestCheckDateTime(t *testing.T) {
	valid := []string{"2024", "2024-02", "2024-02-29", "2024-02-29T10:15:00Z", "2024-02-29T10:15:00.123+05:30"}
	invalid := []string{"24", "2024-13", "2024-02-29T10:15", "2024-02-29T10:15:00", "yesterday"}
	for _, v := range valid {
		assertDiag(t, CheckDateTime("value", v), "")
	}
	for _, v := range invalid {
		assertDiag(t, CheckDateTime("value", v), issue.DiagPrimitiveInvalidDate)
	}

	assertDiag(t, CheckDate("value", "2024-02-29"), "")
	assertDiag(t, CheckDate("value", "2024-02-29T10:15:00Z"), issue.DiagPrimitiveInvalidDate)
}

func TestCheckInstant(t *testing.T) {
	assertDiag(t, CheckInstant("value", "2024-02-29T10:15:00.123Z"), "")
	assertDiag(t, CheckInstant("value", "2024-02-29T10:15:00-03:00"), "")
	assertDiag(t, CheckInstant("value", "2024-02-29"), issue.DiagPrimitiveInvalidDate)
	assertDiag(t, CheckInstant("value", "2024-02-29T10:15:00"), issue.DiagPrimitiveInvalidDate)
}

func TestCheckNarrowedPrimitives(t *testing.T) {
	assertDiag(t, CheckPositiveInt("size", 1), "")
	assertDiag(t, CheckPositiveInt("size", 0), issue.DiagPrimitiveInvalidValue)
	assertDiag(t, CheckUnsignedInt("size", 0), "")
	assertDiag(t, CheckUnsignedInt("size", -1), issue.DiagPrimitiveInvalidValue)

	assertDiag(t, CheckTime("value", "10:15:00"), "")
	assertDiag(t, CheckTime("value", "10:15:00.5"), "")
	assertDiag(t, CheckTime("value", "24:00:00"), issue.DiagPrimitiveInvalidDate)
	assertDiag(t, CheckTime("value", "10:15"), issue.DiagPrimitiveInvalidDate)

	assertDiag(t, CheckOID("value", "urn:oid:1.2.840.10008"), "")
	assertDiag(t, CheckOID("value", "urn:oid:1.02"), issue.DiagPrimitiveInvalidValue)
	assertDiag(t, CheckOID("value", "1.2.3"), issue.DiagPrimitiveInvalidValue)

	assertDiag(t, CheckUUID("value", "urn:uuid:9d3f0c1e-1111-4c4c-9f9f-000000000000"), "")
	assertDiag(t, CheckUUID("value", "urn:uuid:9D3F0C1E-1111-4C4C-9F9F-000000000000"), issue.DiagPrimitiveInvalidValue)

	assertDiag(t, CheckBase64Binary("data", "aGVsbG8="), "")
	assertDiag(t, CheckBase64Binary("data", "aGVs bG8="), "")
	assertDiag(t, CheckBase64Binary("data", "not base64!"), issue.DiagPrimitiveInvalidValue)
}

func TestCheckXhtml(t *testing.T) {
	assertDiag(t, CheckXhtml("div", `<div xmlns="http://www.w3.org/1999/xhtml">ok</div>`), "")
	assertDiag(t, CheckXhtml("div", " <div>x</div>\n"), "")
	assertDiag(t, CheckXhtml("div", "<p>x</p>"), issue.DiagPrimitiveInvalidValue)
}

func TestStageString(t *testing.T) {
	if StageList.String() != "list" || StageContent.String() != "content" || Stage(99).String() != "unknown" {
		t.Error("unexpected stage names")
	}
}

func assertDiag(t *testing.T, iss *issue.Issue, want issue.DiagnosticID) {
	t.Helper()
	if want == "" {
		if iss != nil {
			t.Errorf("unexpected issue: %v", iss)
		}
		return
	}
	if iss == nil {
		t.Errorf("expected %s", want)
		return
	}
	if iss.MessageID != string(want) || iss.Kind != issue.KindPrimitiveFormat {
		t.Errorf("got %s (%s); want %s", iss.MessageID, iss.Kind, want)
	}
}
