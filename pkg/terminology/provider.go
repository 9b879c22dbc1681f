// Package terminology answers value-set membership questions for required
// bindings.
package terminology

import "context"

// Provider validates codes against code systems and value sets.
//
// The binding check asks ValidateCodeInValueSet first; when found is false
// the value set is unknown to the provider and the code list recorded in the
// element metadata decides instead. Provider errors are logged and treated
// the same way (fail-open).
type Provider interface {
	// ValidateCode checks if a code is valid in a given code system.
	ValidateCode(ctx context.Context, system, code string) (bool, error)

	// ValidateCodeInValueSet checks if a code is a member of a ValueSet.
	// An empty system matches any system included by the value set.
	ValidateCodeInValueSet(ctx context.Context, system, code, valueSetURL string) (valid bool, found bool, err error)
}

// StripVersion removes the "|version" suffix from a canonical URL.
func StripVersion(url string) string {
	for i := len(url) - 1; i >= 0; i-- {
		if url[i] == '|' {
			return url[:i]
		}
	}
	return url
}
