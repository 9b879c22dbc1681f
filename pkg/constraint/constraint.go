// Package constraint evaluates the cross-field invariants declared on model
// types, either as Go predicates or as FHIRPath expressions.
package constraint

import (
	"errors"
	"fmt"

	"github.com/gofhir/fhirpath"
	"github.com/gofhir/fhirpath/funcs"

	"github.com/gofhir/model/cache"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/jsonenc"
	"github.com/gofhir/model/pkg/logger"
)

// Severity of a constraint, as declared in ElementDefinition.constraint.
type Severity string

// Constraint severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Constraint is a declared invariant, e.g.
//
//	cpl-3: "Provide a reference or detail, not both"
//	       detail.empty() or reference.empty()
type Constraint struct {
	Key        string
	Severity   Severity
	Human      string
	Expression string

	// Location is the element path the constraint is declared on.
	Location string

	// Predicate, when set, is evaluated instead of Expression.
	Predicate func(element.Node) bool
}

// IsWarning reports whether a failure is advisory only.
func (c Constraint) IsWarning() bool {
	return c.Severity == SeverityWarning
}

// Errors returned by Engine.Evaluate. Both leave the constraint unresolved;
// callers treat it as passed.
var (
	ErrCompile  = errors.New("constraint: compile failed")
	ErrEvaluate = errors.New("constraint: evaluation failed")
)

// Engine evaluates constraints, caching compiled expressions. It is safe
// for concurrent use.
type Engine struct {
	exprs *cache.Cache[string, *fhirpath.Expression]
	log   *logger.Logger
}

// NewEngine creates an Engine whose expression cache holds cacheSize
// entries.
func NewEngine(cacheSize int) *Engine {
	funcs.SetTraceLogger(funcs.NullTraceLogger{})
	return &Engine{
		exprs: cache.New[string, *fhirpath.Expression](cacheSize),
		log:   logger.Default().Named("constraint"),
	}
}

var defaultEngine = NewEngine(cache.DefaultCapacity)

// Default returns the shared engine used when none is configured.
func Default() *Engine {
	return defaultEngine
}

// Evaluate reports whether n satisfies c. A constraint with neither a
// predicate nor an expression passes. On ErrCompile or ErrEvaluate the
// returned bool is true.
func (e *Engine) Evaluate(c Constraint, n element.Node) (bool, error) {
	if c.Predicate != nil {
		return c.Predicate(n), nil
	}
	if c.Expression == "" {
		return true, nil
	}

	expr, err := e.exprs.GetOrLoad(c.Expression, func() (*fhirpath.Expression, error) {
		return fhirpath.Compile(c.Expression)
	})
	if err != nil {
		e.log.Debug("compile %s (%s): %v", c.Key, c.Expression, err)
		return true, fmt.Errorf("%w: %s: %v", ErrCompile, c.Key, err)
	}

	data, err := jsonenc.Marshal(n)
	if err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrEvaluate, c.Key, err)
	}

	result, err := expr.Evaluate(data)
	if err != nil {
		e.log.Debug("evaluate %s on %s: %v", c.Key, n.TypeName(), err)
		return true, fmt.Errorf("%w: %s: %v", ErrEvaluate, c.Key, err)
	}
	return passed(result), nil
}

// CacheStats exposes the expression cache metrics.
func (e *Engine) CacheStats() cache.Stats {
	return e.exprs.Stats()
}

// passed applies invariant semantics to a result: an empty collection means
// the constraint does not apply, a single boolean decides, anything else is
// truthy.
func passed(result fhirpath.Collection) bool {
	if result.Empty() {
		return true
	}
	b, err := result.ToBoolean()
	if err != nil {
		return true
	}
	return b
}
