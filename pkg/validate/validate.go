// Package validate holds the checks every model type runs when it is built:
// required fields, list shape, choice alternatives, reference targets,
// primitive formats, required bindings, invariants and the ele-1 content rule.
//
// The Validate* functions are pure and return nil when the value passes. The
// Checker sequences them for one composite and collects the violations.
package validate

import (
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/reference"
)

// ValidateRequired fails when a required field is absent.
func ValidateRequired(field string, value element.Node) *issue.Issue {
	if !element.IsNil(value) {
		return nil
	}
	iss := issue.New(issue.DiagRequiredMissing, map[string]any{"field": field})
	return &iss
}

// ValidateNonEmptyList fails when a required list has no entries.
func ValidateNonEmptyList[T element.Node](field string, list []T) *issue.Issue {
	if len(list) > 0 {
		return nil
	}
	iss := issue.New(issue.DiagRequiredEmptyList, map[string]any{"field": field})
	return &iss
}

// ValidateList reports every nil entry and every entry that is not an
// instance of elementType. An empty elementType skips the type check.
func ValidateList[T element.Node](field string, list []T, elementType string) issue.Issues {
	var issues issue.Issues
	for i, n := range list {
		if element.IsNil(n) {
			issues = append(issues, issue.New(issue.DiagListNullElement, map[string]any{
				"field": field,
				"index": i,
			}))
			continue
		}
		if elementType != "" && !element.IsInstanceOf(n, elementType) {
			issues = append(issues, issue.New(issue.DiagListWrongType, map[string]any{
				"field":   field,
				"index":   i,
				"allowed": []string{elementType},
				"actual":  n.TypeName(),
			}))
		}
	}
	return issues
}

// ValidateChoice checks a choice slot against its alternatives. Subtypes of
// an allowed type are accepted.
func ValidateChoice(field string, value element.Node, required bool, allowed ...string) *issue.Issue {
	if element.IsNil(value) {
		if required {
			return ValidateRequired(field, value)
		}
		return nil
	}
	if element.IsInstanceOfAny(value, allowed...) {
		return nil
	}
	iss := issue.New(issue.DiagChoiceInvalidType, map[string]any{
		"field":   field,
		"allowed": allowed,
		"actual":  value.TypeName(),
	})
	return &iss
}

// ValidateReferenceTarget checks that a reference points at one of the
// allowed resource types. Values that are not references (other choice
// alternatives) and references whose target type cannot be determined
// locally (fragments, urns, identifier-only) pass.
func ValidateReferenceTarget(field string, index int, value element.Node, allowed []string) *issue.Issue {
	ref, ok := value.(element.Referent)
	if !ok || element.IsNil(value) {
		return nil
	}

	params := map[string]any{
		"field":   field,
		"index":   index,
		"allowed": allowed,
	}

	lit, err := reference.Parse(ref.Literal())
	if err != nil {
		if lit.Form != reference.FormRelative && lit.Form != reference.FormConditional {
			return nil
		}
		params["reference"] = lit.Raw
		params["actual"] = lit.Raw
		iss := issue.New(issue.DiagReferenceInvalidFormat, params)
		return &iss
	}

	tag := ref.TargetType()
	if tag != "" && lit.Typed() && tag != lit.ResourceType {
		params["tag"] = tag
		params["actual"] = lit.ResourceType
		iss := issue.New(issue.DiagReferenceTypeMismatch, params)
		return &iss
	}

	kind := lit.ResourceType
	if kind == "" {
		kind = tag
	}
	if kind == "" {
		return nil
	}
	params["actual"] = kind

	if !reference.IsResourceType(kind) {
		iss := issue.New(issue.DiagReferenceUnknownType, params)
		return &iss
	}
	if !reference.Allowed(kind, allowed) {
		iss := issue.New(issue.DiagReferenceInvalidTarget, params)
		return &iss
	}
	return nil
}

// ValidateHasContent enforces ele-1: an element must carry a value or
// children. Extensions count as children.
func ValidateHasContent(n element.Node) *issue.Issue {
	if element.IsNil(n) || element.HasContent(n) {
		return nil
	}
	iss := issue.New(issue.DiagEmptyLeaf, map[string]any{"type": n.TypeName()})
	return &iss
}
