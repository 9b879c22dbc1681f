// Package issue defines the violations raised while building and validating
// model instances, aligned with FHIR OperationOutcome.
package issue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Severity represents the severity of a violation.
type Severity string

// Severity constants aligned with FHIR IssueSeverity.
const (
	SeverityFatal       Severity = "fatal"
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
)

// Code represents the OperationOutcome issue type of a violation.
type Code string

// Code constants aligned with FHIR IssueType.
const (
	CodeInvalid      Code = "invalid"
	CodeStructure    Code = "structure"
	CodeRequired     Code = "required"
	CodeValue        Code = "value"
	CodeInvariant    Code = "invariant"
	CodeCodeInvalid  Code = "code-invalid"
	CodeTooLong      Code = "too-long"
	CodeBusinessRule Code = "business-rule"
	CodeProcessing   Code = "processing"
)

// Kind classifies a violation by the rule that produced it.
type Kind string

// Violation kinds.
const (
	KindMissingRequired     Kind = "MissingRequired"
	KindChoice              Kind = "Choice"
	KindReferenceTarget     Kind = "ReferenceTarget"
	KindNullElement         Kind = "NullElement"
	KindWrongElementType    Kind = "WrongElementType"
	KindEmptyLeaf           Kind = "EmptyLeaf"
	KindCrossFieldInvariant Kind = "CrossFieldInvariant"
	KindPrimitiveFormat     Kind = "PrimitiveFormat"
	KindBinding             Kind = "Binding"
)

// NoIndex is the Index of an issue that does not concern a list entry.
const NoIndex = -1

// Issue is a single violation. It implements error so a lone violation can be
// returned or matched with errors.As.
type Issue struct {
	Kind     Kind
	Severity Severity
	Code     Code

	// Type is the name of the composite type whose rule failed.
	Type string

	// Field is the offending field, empty for whole-node rules.
	Field string

	// Index is the list position of the offending entry, or NoIndex.
	Index int

	// Allowed lists the permitted types or kinds for choice, list and
	// reference violations.
	Allowed []string

	// Actual is the offending type, kind or value.
	Actual string

	// Constraint is the key of a failed invariant (e.g. "cpl-3").
	Constraint string

	// Path is the full element path, set by deep validation.
	Path string

	// Diagnostics is the human-readable description.
	Diagnostics string

	// MessageID is the identifier from the diagnostic catalogue.
	MessageID string
}

// IsError reports whether the issue prevents construction.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError || i.Severity == SeverityFatal
}

// Location renders where the issue occurred, e.g. "Device.note[0]".
func (i Issue) Location() string {
	if i.Path != "" {
		return i.Path
	}
	var b strings.Builder
	b.WriteString(i.Type)
	if i.Field != "" {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(i.Field)
	}
	if i.Index >= 0 {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(i.Index))
		b.WriteByte(']')
	}
	return b.String()
}

// Error implements error.
func (i Issue) Error() string {
	if loc := i.Location(); loc != "" {
		return loc + ": " + i.Diagnostics
	}
	return i.Diagnostics
}

// Issues is a collection of violations that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Unwrap exposes every issue to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	errs := make([]error, len(iss))
	for i := range iss {
		errs[i] = iss[i]
	}
	return errs
}

// HasErrors reports whether any issue is error-level.
func (iss Issues) HasErrors() bool {
	for i := range iss {
		if iss[i].IsError() {
			return true
		}
	}
	return false
}

// Errors returns the error-level issues.
func (iss Issues) Errors() Issues {
	return iss.Filter(Issue.IsError)
}

// Warnings returns the warning-level issues.
func (iss Issues) Warnings() Issues {
	return iss.Filter(func(i Issue) bool { return i.Severity == SeverityWarning })
}

// HasKind reports whether any issue is of the given kind.
func (iss Issues) HasKind(k Kind) bool {
	for i := range iss {
		if iss[i].Kind == k {
			return true
		}
	}
	return false
}

// ByField returns the issues raised for a field.
func (iss Issues) ByField(field string) Issues {
	return iss.Filter(func(i Issue) bool { return i.Field == field })
}

// Filter returns the issues matching the predicate.
func (iss Issues) Filter(predicate func(Issue) bool) Issues {
	var out Issues
	for i := range iss {
		if predicate(iss[i]) {
			out = append(out, iss[i])
		}
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally. A lone
// Issue is returned as a single-element collection.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var one Issue
	if errors.As(err, &one) {
		return Issues{one}, true
	}
	return nil, false
}
