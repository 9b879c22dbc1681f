// Package reference parses FHIR reference literals and determines the
// resource type they point at, when it can be known locally.
package reference

import (
	"fmt"
	"regexp"
	"strings"
)

// Form classifies a reference literal.
type Form int

// Reference forms.
const (
	FormEmpty       Form = iota // no literal (identifier- or display-only reference)
	FormRelative                // Patient/123, Patient/123/_history/2
	FormAbsolute                // http://example.org/fhir/Patient/123
	FormConditional             // Patient?identifier=http://sys|42
	FormFragment                // #contained-id
	FormURN                     // urn:uuid:..., urn:oid:...
	FormOther                   // any other scheme
)

// String returns the name of the form.
func (f Form) String() string {
	switch f {
	case FormEmpty:
		return "empty"
	case FormRelative:
		return "relative"
	case FormAbsolute:
		return "absolute"
	case FormConditional:
		return "conditional"
	case FormFragment:
		return "fragment"
	case FormURN:
		return "urn"
	default:
		return "other"
	}
}

// Reference format patterns.
var (
	// Relative reference: ResourceType/id or ResourceType/id/_history/vid.
	relativeRefPattern = regexp.MustCompile(`^([A-Za-z]+)/([A-Za-z0-9\-.]+)(?:/_history/([A-Za-z0-9\-.]+))?$`)

	// Absolute URL reference (with optional _history/vid).
	absoluteRefPattern = regexp.MustCompile(`^https?://\S+/[A-Za-z]+/[A-Za-z0-9\-.]+(?:/_history/[A-Za-z0-9\-.]+)?$`)

	// Fragment reference (contained resource); "#" alone points at the container.
	fragmentRefPattern = regexp.MustCompile(`^#[A-Za-z0-9\-.]*$`)

	// urn:uuid accepts any non-empty suffix.
	urnUUIDPattern = regexp.MustCompile(`^urn:uuid:.+$`)
	urnOIDPattern  = regexp.MustCompile(`^urn:oid:[012](\.[1-9]\d*)+$`)
)

// Literal is a parsed reference literal.
type Literal struct {
	Raw  string
	Form Form

	// ResourceType is the target type when the literal names one, else "".
	ResourceType string
	ID           string
	Version      string
	Query        string
}

// Typed reports whether the literal determines its target type.
func (l Literal) Typed() bool {
	return l.ResourceType != ""
}

// Parse classifies a reference literal and extracts its target type. Only
// malformed relative, conditional, fragment and urn literals are errors;
// absolute URLs that do not name a known resource type parse as untyped.
func Parse(ref string) (Literal, error) {
	l := Literal{Raw: ref}
	switch {
	case ref == "":
		l.Form = FormEmpty
		return l, nil

	case strings.HasPrefix(ref, "#"):
		l.Form = FormFragment
		if !fragmentRefPattern.MatchString(ref) {
			return l, fmt.Errorf("invalid fragment reference %q", ref)
		}
		l.ID = ref[1:]
		return l, nil

	case strings.HasPrefix(ref, "urn:"):
		l.Form = FormURN
		if !urnUUIDPattern.MatchString(ref) && !urnOIDPattern.MatchString(ref) {
			return l, fmt.Errorf("invalid urn reference %q", ref)
		}
		return l, nil

	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		l.Form = FormAbsolute
		if absoluteRefPattern.MatchString(ref) {
			l.ResourceType, l.ID, l.Version = typeFromURL(ref)
		}
		return l, nil

	case hasScheme(ref):
		l.Form = FormOther
		return l, nil
	}

	// Everything before the first '?' is the type, valid or not; the caller
	// checks it against the known resource types.
	if i := strings.IndexByte(ref, '?'); i != -1 {
		l.Form = FormConditional
		if i == 0 {
			return l, fmt.Errorf("conditional reference %q has no resource type", ref)
		}
		l.ResourceType = ref[:i]
		l.Query = ref[i+1:]
		return l, nil
	}

	if m := relativeRefPattern.FindStringSubmatch(ref); m != nil {
		l.Form = FormRelative
		l.ResourceType = m[1]
		l.ID = m[2]
		l.Version = m[3]
		return l, nil
	}

	l.Form = FormRelative
	return l, fmt.Errorf("invalid reference format %q", ref)
}

// hasScheme reports whether ref starts with "scheme:" before any '/' or '?'.
func hasScheme(ref string) bool {
	i := strings.IndexAny(ref, ":/?")
	return i > 0 && ref[i] == ':'
}

// typeFromURL finds the last path segment that is a known resource type and
// returns it with the id and version that follow it.
func typeFromURL(ref string) (resourceType, id, version string) {
	if i := strings.Index(ref, "/_history/"); i != -1 {
		version = ref[i+len("/_history/"):]
		ref = ref[:i]
	}
	parts := strings.Split(ref, "/")
	for i := len(parts) - 2; i >= 0; i-- {
		if IsResourceType(parts[i]) {
			return parts[i], parts[i+1], version
		}
	}
	return "", "", ""
}

// TypeFromProfile extracts the resource type from a StructureDefinition
// canonical URL, e.g. http://hl7.org/fhir/StructureDefinition/Patient.
// A version suffix ("|4.0.1") is ignored.
func TypeFromProfile(profileURL string) string {
	if i := strings.IndexByte(profileURL, '|'); i != -1 {
		profileURL = profileURL[:i]
	}
	const basePrefix = "http://hl7.org/fhir/StructureDefinition/"
	if strings.HasPrefix(profileURL, basePrefix) {
		return strings.TrimPrefix(profileURL, basePrefix)
	}
	parts := strings.Split(profileURL, "/")
	return parts[len(parts)-1]
}

// TypesFromProfiles maps targetProfile URLs to distinct resource type names,
// preserving order.
func TypesFromProfiles(profiles []string) []string {
	seen := make(map[string]bool)
	var types []string
	for _, profile := range profiles {
		t := TypeFromProfile(profile)
		if t != "" && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types
}

// Allowed reports whether kind is among the allowed target kinds. An empty
// list and the "Resource" kind accept every type.
func Allowed(kind string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == kind || a == "Resource" {
			return true
		}
	}
	return false
}
