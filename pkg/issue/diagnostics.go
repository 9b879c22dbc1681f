package issue

import (
	"fmt"
	"strings"
)

// DiagnosticID identifies a specific diagnostic message.
type DiagnosticID string

// Diagnostic IDs for presence and list shape rules.
const (
	DiagRequiredMissing   DiagnosticID = "REQUIRED_MISSING"
	DiagRequiredEmptyList DiagnosticID = "REQUIRED_EMPTY_LIST"
	DiagListNullElement   DiagnosticID = "LIST_NULL_ELEMENT"
	DiagListNilCollection DiagnosticID = "LIST_NIL_COLLECTION"
	DiagListWrongType     DiagnosticID = "LIST_WRONG_TYPE"
	DiagEmptyLeaf         DiagnosticID = "EMPTY_LEAF"
)

// Diagnostic IDs for choice and reference rules.
const (
	DiagChoiceInvalidType      DiagnosticID = "CHOICE_INVALID_TYPE"
	DiagReferenceInvalidFormat DiagnosticID = "REFERENCE_INVALID_FORMAT"
	DiagReferenceInvalidTarget DiagnosticID = "REFERENCE_INVALID_TARGET"
	DiagReferenceTypeMismatch  DiagnosticID = "REFERENCE_TYPE_MISMATCH"
	DiagReferenceUnknownType   DiagnosticID = "REFERENCE_UNKNOWN_TYPE"
)

// Diagnostic IDs for invariants.
const (
	DiagConstraintFailed       DiagnosticID = "CONSTRAINT_FAILED"
	DiagConstraintCompileError DiagnosticID = "CONSTRAINT_COMPILE_ERROR"
	DiagConstraintEvalError    DiagnosticID = "CONSTRAINT_EVAL_ERROR"
)

// Diagnostic IDs for bindings.
const (
	DiagBindingRequired DiagnosticID = "BINDING_REQUIRED"
)

// Diagnostic IDs for primitive values.
const (
	DiagPrimitiveTooLong      DiagnosticID = "PRIMITIVE_TOO_LONG"
	DiagPrimitiveBlank        DiagnosticID = "PRIMITIVE_BLANK"
	DiagPrimitiveControlChar  DiagnosticID = "PRIMITIVE_CONTROL_CHAR"
	DiagPrimitiveInvalidCode  DiagnosticID = "PRIMITIVE_INVALID_CODE"
	DiagPrimitiveInvalidID    DiagnosticID = "PRIMITIVE_INVALID_ID"
	DiagPrimitiveInvalidURI   DiagnosticID = "PRIMITIVE_INVALID_URI"
	DiagPrimitiveInvalidDate  DiagnosticID = "PRIMITIVE_INVALID_DATE"
	DiagPrimitiveInvalidValue DiagnosticID = "PRIMITIVE_INVALID_VALUE"
)

// DiagnosticTemplate defines the structure for a diagnostic message.
type DiagnosticTemplate struct {
	ID       DiagnosticID
	Kind     Kind
	Severity Severity
	Code     Code
	Template string
}

// diagnosticTemplates maps diagnostic IDs to their templates.
// Templates use {placeholder} syntax for variable substitution.
var diagnosticTemplates = map[DiagnosticID]DiagnosticTemplate{
	DiagRequiredMissing: {
		Kind:     KindMissingRequired,
		Severity: SeverityError,
		Code:     CodeRequired,
		Template: "Missing required element: '{field}'",
	},
	DiagRequiredEmptyList: {
		Kind:     KindMissingRequired,
		Severity: SeverityError,
		Code:     CodeRequired,
		Template: "Missing required element: '{field}' must contain at least one entry",
	},
	DiagListNullElement: {
		Kind:     KindNullElement,
		Severity: SeverityError,
		Code:     CodeStructure,
		Template: "Repeating element '{field}' does not permit null elements (index {index})",
	},
	DiagListNilCollection: {
		Kind:     KindNullElement,
		Severity: SeverityError,
		Code:     CodeStructure,
		Template: "Repeating element '{field}' was replaced with a nil collection",
	},
	DiagListWrongType: {
		Kind:     KindWrongElementType,
		Severity: SeverityError,
		Code:     CodeStructure,
		Template: "Invalid type: {actual} for repeating element '{field}' (index {index}) must be: {allowed}",
	},
	DiagEmptyLeaf: {
		Kind:     KindEmptyLeaf,
		Severity: SeverityError,
		Code:     CodeInvariant,
		Template: "ele-1: All FHIR elements must have a @value or children ({type})",
	},
	DiagChoiceInvalidType: {
		Kind:     KindChoice,
		Severity: SeverityError,
		Code:     CodeStructure,
		Template: "Invalid type: {actual} for choice element: '{field}' must be one of: {allowed}",
	},
	DiagReferenceInvalidFormat: {
		Kind:     KindReferenceTarget,
		Severity: SeverityError,
		Code:     CodeInvalid,
		Template: "Invalid reference value or resource type not found: '{reference}' for element: '{field}'",
	},
	DiagReferenceInvalidTarget: {
		Kind:     KindReferenceTarget,
		Severity: SeverityError,
		Code:     CodeInvalid,
		Template: "Resource type found in reference: '{actual}' for element: '{field}' must be one of: {allowed}",
	},
	DiagReferenceTypeMismatch: {
		Kind:     KindReferenceTarget,
		Severity: SeverityError,
		Code:     CodeInvalid,
		Template: "Resource type found in Reference.type: '{tag}' for element: '{field}' does not match resource type found in reference value: '{actual}'",
	},
	DiagReferenceUnknownType: {
		Kind:     KindReferenceTarget,
		Severity: SeverityError,
		Code:     CodeInvalid,
		Template: "'{actual}' is not a valid resource type for element: '{field}'",
	},
	DiagConstraintFailed: {
		Kind:     KindCrossFieldInvariant,
		Severity: SeverityError,
		Code:     CodeInvariant,
		Template: "Constraint failed: {key}: '{human}'",
	},
	DiagConstraintCompileError: {
		Kind:     KindCrossFieldInvariant,
		Severity: SeverityWarning,
		Code:     CodeProcessing,
		Template: "Could not compile constraint '{key}': {error}",
	},
	DiagConstraintEvalError: {
		Kind:     KindCrossFieldInvariant,
		Severity: SeverityWarning,
		Code:     CodeProcessing,
		Template: "Could not evaluate constraint '{key}': {error}",
	},
	DiagBindingRequired: {
		Kind:     KindBinding,
		Severity: SeverityError,
		Code:     CodeCodeInvalid,
		Template: "Code '{code}' for element: '{field}' is not in the required value set '{valueSet}'",
	},
	DiagPrimitiveTooLong: {
		Kind:     KindPrimitiveFormat,
		Severity: SeverityError,
		Code:     CodeTooLong,
		Template: "Value for element: '{field}' exceeds the maximum length of {max}",
	},
	DiagPrimitiveBlank: {
		Kind:     KindPrimitiveFormat,
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Value for element: '{field}' must contain at least one non-whitespace character",
	},
	DiagPrimitiveControlChar: {
		Kind:     KindPrimitiveFormat,
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Value for element: '{field}' contains an illegal control character at position {pos}",
	},
	DiagPrimitiveInvalidCode: {
		Kind:     KindPrimitiveFormat,
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Invalid code value for element: '{field}': '{value}'",
	},
	DiagPrimitiveInvalidID: {
		Kind:     KindPrimitiveFormat,
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Invalid id value for element: '{field}': '{value}'",
	},
	DiagPrimitiveInvalidURI: {
		Kind:     KindPrimitiveFormat,
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Invalid uri value for element: '{field}': '{value}'",
	},
	DiagPrimitiveInvalidDate: {
		Kind:     KindPrimitiveFormat,
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Invalid {primitive} value for element: '{field}': '{value}'",
	},
	DiagPrimitiveInvalidValue: {
		Kind:     KindPrimitiveFormat,
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Invalid {primitive} value for element: '{field}': {error}",
	},
}

// FormatDiagnostic formats a diagnostic message with the given parameters.
func FormatDiagnostic(id DiagnosticID, params map[string]any) string {
	tmpl, ok := diagnosticTemplates[id]
	if !ok {
		return string(id)
	}
	return formatTemplate(tmpl.Template, params)
}

// GetDiagnosticTemplate returns the template for a diagnostic ID.
func GetDiagnosticTemplate(id DiagnosticID) (DiagnosticTemplate, bool) {
	tmpl, ok := diagnosticTemplates[id]
	if ok {
		tmpl.ID = id
	}
	return tmpl, ok
}

// formatTemplate replaces {placeholder} with values from params.
func formatTemplate(template string, params map[string]any) string {
	result := template
	for key, value := range params {
		placeholder := "{" + key + "}"
		if list, ok := value.([]string); ok {
			value = strings.Join(list, ", ")
		}
		result = strings.ReplaceAll(result, placeholder, fmt.Sprint(value))
	}
	return result
}

// New creates an issue from the catalogue. The "field", "type", "index",
// "allowed" and "actual" params are also copied onto the structured fields.
func New(id DiagnosticID, params map[string]any) Issue {
	iss := Issue{Index: NoIndex, MessageID: string(id)}
	tmpl, ok := diagnosticTemplates[id]
	if !ok {
		iss.Severity = SeverityError
		iss.Code = CodeProcessing
		iss.Diagnostics = string(id)
		return iss
	}
	iss.Kind = tmpl.Kind
	iss.Severity = tmpl.Severity
	iss.Code = tmpl.Code
	iss.Diagnostics = formatTemplate(tmpl.Template, params)

	if v, ok := params["field"].(string); ok {
		iss.Field = v
	}
	if v, ok := params["type"].(string); ok {
		iss.Type = v
	}
	if v, ok := params["index"].(int); ok {
		iss.Index = v
	}
	if v, ok := params["allowed"].([]string); ok {
		iss.Allowed = append([]string(nil), v...)
	}
	if v, ok := params["actual"].(string); ok {
		iss.Actual = v
	}
	if v, ok := params["key"].(string); ok {
		iss.Constraint = v
	}
	return iss
}

// Warning creates an issue from the catalogue downgraded to warning severity.
func Warning(id DiagnosticID, params map[string]any) Issue {
	iss := New(id, params)
	iss.Severity = SeverityWarning
	return iss
}
