package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gofhir/model/pkg/issue"
)

// MaxStringLength is the largest string value accepted (1 MiB).
const MaxStringLength = 1024 * 1024

// Lexical forms of the date types, from the R4 primitive StructureDefinitions.
var (
	dateTimePattern = regexp.MustCompile(`^([0-9]([0-9]([0-9][1-9]|[1-9]0)|[1-9]00)|[1-9]000)(-(0[1-9]|1[0-2])(-(0[1-9]|[1-2][0-9]|3[0-1])(T([01][0-9]|2[0-3]):[0-5][0-9]:([0-5][0-9]|60)(\.[0-9]+)?(Z|(\+|-)((0[0-9]|1[0-3]):[0-5][0-9]|14:00)))?)?)?$`)
	datePattern     = regexp.MustCompile(`^([0-9]([0-9]([0-9][1-9]|[1-9]0)|[1-9]00)|[1-9]000)(-(0[1-9]|1[0-2])(-(0[1-9]|[1-2][0-9]|3[0-1]))?)?$`)
	instantPattern  = regexp.MustCompile(`^([0-9]([0-9]([0-9][1-9]|[1-9]0)|[1-9]00)|[1-9]000)-(0[1-9]|1[0-2])-(0[1-9]|[1-2][0-9]|3[0-1])T([01][0-9]|2[0-3]):[0-5][0-9]:([0-5][0-9]|60)(\.[0-9]+)?(Z|(\+|-)((0[0-9]|1[0-3]):[0-5][0-9]|14:00))$`)
	idPattern       = regexp.MustCompile(`^[A-Za-z0-9\-.]{1,64}$`)
	timePattern     = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:([0-5][0-9]|60)(\.[0-9]+)?$`)
	oidPattern      = regexp.MustCompile(`^urn:oid:[0-2](\.(0|[1-9][0-9]*))+$`)
	uuidPattern     = regexp.MustCompile(`^urn:uuid:[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	base64Pattern   = regexp.MustCompile(`^(\s*([0-9a-zA-Z+/=]){4}\s*)+$`)
)

func primitiveIssue(id issue.DiagnosticID, params map[string]any) *issue.Issue {
	iss := issue.New(id, params)
	return &iss
}

// isControl reports characters below 0x20 other than tab, LF and CR.
func isControl(r rune) bool {
	return r < 0x20 && r != '\t' && r != '\n' && r != '\r'
}

// CheckString validates a string value: at most MaxStringLength bytes, at
// least one non-whitespace character, no whitespace other than space, tab,
// CR and LF, and, when controlChars is set, no other control characters.
func CheckString(field, s string, controlChars bool) *issue.Issue {
	if len(s) > MaxStringLength {
		return primitiveIssue(issue.DiagPrimitiveTooLong, map[string]any{"field": field, "max": MaxStringLength})
	}
	nonBlank := false
	for i, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		case isControl(r):
			if controlChars {
				return primitiveIssue(issue.DiagPrimitiveControlChar, map[string]any{"field": field, "pos": i})
			}
			nonBlank = true
		case unicode.IsSpace(r):
			return primitiveIssue(issue.DiagPrimitiveInvalidValue, map[string]any{
				"field":     field,
				"primitive": "string",
				"error":     "whitespace other than space, tab, CR or LF",
			})
		default:
			nonBlank = true
		}
	}
	if !nonBlank {
		return primitiveIssue(issue.DiagPrimitiveBlank, map[string]any{"field": field})
	}
	return nil
}

// CheckCode validates a code: non-empty, no leading or trailing whitespace,
// and single spaces only between tokens.
func CheckCode(field, s string) *issue.Issue {
	invalid := func() *issue.Issue {
		return primitiveIssue(issue.DiagPrimitiveInvalidCode, map[string]any{"field": field, "value": s})
	}
	if s == "" {
		return invalid()
	}
	prevSpace := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if r != ' ' || prevSpace {
				return invalid()
			}
			prevSpace = true
			continue
		}
		if isControl(r) {
			return invalid()
		}
		prevSpace = false
	}
	if prevSpace {
		return invalid()
	}
	return nil
}

// CheckID validates an id: 1 to 64 letters, digits, '-' or '.'.
func CheckID(field, s string) *issue.Issue {
	if !idPattern.MatchString(s) {
		return primitiveIssue(issue.DiagPrimitiveInvalidID, map[string]any{"field": field, "value": s})
	}
	return nil
}

// CheckURI validates a uri: no whitespace or control characters.
func CheckURI(field, s string) *issue.Issue {
	if len(s) > MaxStringLength {
		return primitiveIssue(issue.DiagPrimitiveTooLong, map[string]any{"field": field, "max": MaxStringLength})
	}
	for _, r := range s {
		if unicode.IsSpace(r) || isControl(r) {
			return primitiveIssue(issue.DiagPrimitiveInvalidURI, map[string]any{"field": field, "value": s})
		}
	}
	return nil
}

// CheckDateTime validates a dateTime. Partial dates are allowed; a time
// requires a timezone.
func CheckDateTime(field, s string) *issue.Issue {
	if !dateTimePattern.MatchString(s) {
		return primitiveIssue(issue.DiagPrimitiveInvalidDate, map[string]any{
			"field":     field,
			"primitive": "dateTime",
			"value":     s,
		})
	}
	return nil
}

// CheckDate validates a date (YYYY, YYYY-MM or YYYY-MM-DD).
func CheckDate(field, s string) *issue.Issue {
	if !datePattern.MatchString(s) {
		return primitiveIssue(issue.DiagPrimitiveInvalidDate, map[string]any{
			"field":     field,
			"primitive": "date",
			"value":     s,
		})
	}
	return nil
}

// CheckInstant validates an instant: a full date and time with timezone.
func CheckInstant(field, s string) *issue.Issue {
	if !instantPattern.MatchString(s) {
		return primitiveIssue(issue.DiagPrimitiveInvalidDate, map[string]any{
			"field":     field,
			"primitive": "instant",
			"value":     s,
		})
	}
	return nil
}

// CheckXhtml validates the outer shape of narrative XHTML: a single div
// element.
func CheckXhtml(field, s string) *issue.Issue {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "<div") || !strings.HasSuffix(t, "</div>") {
		return primitiveIssue(issue.DiagPrimitiveInvalidValue, map[string]any{
			"field":     field,
			"primitive": "xhtml",
			"error":     "content must be a single div element",
		})
	}
	return nil
}

func invalidValue(field, primitive, msg string) *issue.Issue {
	return primitiveIssue(issue.DiagPrimitiveInvalidValue, map[string]any{
		"field":     field,
		"primitive": primitive,
		"error":     msg,
	})
}

// CheckPositiveInt validates a positiveInt: at least 1.
func CheckPositiveInt(field string, v int32) *issue.Issue {
	if v < 1 {
		return invalidValue(field, "positiveInt", "value must be at least 1")
	}
	return nil
}

// CheckUnsignedInt validates an unsignedInt: not negative.
func CheckUnsignedInt(field string, v int32) *issue.Issue {
	if v < 0 {
		return invalidValue(field, "unsignedInt", "value must not be negative")
	}
	return nil
}

// CheckTime validates a time of day (hh:mm:ss with optional fraction).
func CheckTime(field, s string) *issue.Issue {
	if !timePattern.MatchString(s) {
		return primitiveIssue(issue.DiagPrimitiveInvalidDate, map[string]any{
			"field":     field,
			"primitive": "time",
			"value":     s,
		})
	}
	return nil
}

// CheckOID validates an oid in its urn:oid: form.
func CheckOID(field, s string) *issue.Issue {
	if !oidPattern.MatchString(s) {
		return invalidValue(field, "oid", "value must be urn:oid: followed by a dotted OID")
	}
	return nil
}

// CheckUUID validates a uuid in its lower case urn:uuid: form.
func CheckUUID(field, s string) *issue.Issue {
	if !uuidPattern.MatchString(s) {
		return invalidValue(field, "uuid", "value must be urn:uuid: followed by a lower case UUID")
	}
	return nil
}

// CheckBase64Binary validates base64 content. Whitespace between quads is
// tolerated.
func CheckBase64Binary(field, s string) *issue.Issue {
	if len(s) > MaxStringLength {
		return primitiveIssue(issue.DiagPrimitiveTooLong, map[string]any{"field": field, "max": MaxStringLength})
	}
	if !base64Pattern.MatchString(s) {
		return invalidValue(field, "base64Binary", "value is not base64 encoded")
	}
	return nil
}
