package validate

import (
	"errors"
	"slices"

	"github.com/gofhir/model/pkg/constraint"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/logger"
	"github.com/gofhir/model/pkg/terminology"
	"github.com/gofhir/model/pool"
)

// Stage orders the checks of one composite. Issues are reported in stage
// order no matter in which order a type's Check method calls the checker.
type Stage int

// Stages, in reporting order.
const (
	StageList Stage = iota
	StageRequired
	StageChoice
	StageReference
	StagePrimitive
	StageBinding
	StageInvariant
	StageContent
)

var stageNames = [...]string{"list", "required", "choice", "reference", "primitive", "binding", "invariant", "content"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Checkable is implemented by every model type. Check declares the type's
// rules against c; it must not retain c.
type Checkable interface {
	element.Node
	Check(c *Checker)
}

type staged struct {
	stage Stage
	issue issue.Issue
}

// Checker collects the violations of one composite. It is not safe for
// concurrent use.
type Checker struct {
	opts     *Options
	typeName string
	path     string

	found    []staged
	errors   int
	warnings int
	minErrAt Stage
	stage    Stage
}

// NewChecker creates a checker for a node of the given type.
func NewChecker(typeName string, opts *Options) *Checker {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Checker{opts: opts, typeName: typeName}
}

// Options returns the configuration of the run.
func (c *Checker) Options() *Options {
	return c.opts
}

// at enters a stage and reports whether checks in it can still change the
// outcome. Once MaxErrors errors are recorded at or before the current
// stage, anything found later would be cut off.
func (c *Checker) at(s Stage) bool {
	c.stage = s
	return !(c.opts.MaxErrors > 0 && c.errors >= c.opts.MaxErrors && c.minErrAt <= s)
}

// Report records an issue in the current stage. Warnings go to the warning
// handler unless strict mode is on.
func (c *Checker) Report(iss issue.Issue) {
	if iss.Type == "" {
		iss.Type = c.typeName
	}
	if c.path != "" && iss.Path == "" {
		iss.Path = pool.ElementPath(c.path, iss.Field, iss.Index)
	}
	if !iss.IsError() {
		if !c.opts.StrictMode {
			c.warnings++
			if c.opts.OnWarning != nil {
				c.opts.OnWarning(iss)
			}
			return
		}
		iss.Severity = issue.SeverityError
	}
	if c.errors == 0 || c.stage < c.minErrAt {
		c.minErrAt = c.stage
	}
	c.errors++
	c.found = append(c.found, staged{stage: c.stage, issue: iss})
}

func (c *Checker) report(iss *issue.Issue) {
	if iss != nil {
		c.Report(*iss)
	}
}

// Issues returns the recorded errors in stage order, capped at MaxErrors.
func (c *Checker) Issues() issue.Issues {
	if len(c.found) == 0 {
		return nil
	}
	sorted := slices.Clone(c.found)
	slices.SortStableFunc(sorted, func(a, b staged) int {
		return int(a.stage) - int(b.stage)
	})
	if limit := c.opts.MaxErrors; limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make(issue.Issues, len(sorted))
	for i, s := range sorted {
		out[i] = s.issue
	}
	return out
}

// Err returns the recorded errors as issue.Issues, or nil.
func (c *Checker) Err() error {
	if iss := c.Issues(); len(iss) > 0 {
		return iss
	}
	return nil
}

// --- Structural stages ---

// Required checks a required scalar field.
func (c *Checker) Required(field string, value element.Node) {
	if c.at(StageRequired) {
		c.report(ValidateRequired(field, value))
	}
}

// RequiredValue checks a required plain attribute such as Extension.url.
func (c *Checker) RequiredValue(field string, present bool) {
	if !present && c.at(StageRequired) {
		c.Report(issue.New(issue.DiagRequiredMissing, map[string]any{"field": field}))
	}
}

// List checks the entries of a list field.
func List[T element.Node](c *Checker, field string, list []T, elementType string) {
	if !c.at(StageList) {
		return
	}
	for _, iss := range ValidateList(field, list, elementType) {
		c.Report(iss)
	}
}

// RequiredList checks a list field that must have at least one entry, then
// its entries.
func RequiredList[T element.Node](c *Checker, field string, list []T, elementType string) {
	List(c, field, list, elementType)
	if c.at(StageRequired) {
		c.report(ValidateNonEmptyList(field, list))
	}
}

// Choice checks a choice slot.
func (c *Checker) Choice(field string, value element.Node, required bool, allowed ...string) {
	if !c.at(StageChoice) {
		return
	}
	if element.IsNil(value) && required {
		c.stage = StageRequired
	}
	c.report(ValidateChoice(field, value, required, allowed...))
}

// Reference checks the target of a reference field or of the Reference
// alternative of a choice slot.
func (c *Checker) Reference(field string, value element.Node, allowed ...string) {
	if c.opts.CheckReferenceTypes && c.at(StageReference) {
		c.report(ValidateReferenceTarget(field, element.NoIndex, value, allowed))
	}
}

// References checks every entry of a list of references.
func References[T element.Node](c *Checker, field string, list []T, allowed ...string) {
	if !c.opts.CheckReferenceTypes || !c.at(StageReference) {
		return
	}
	for i, n := range list {
		c.report(ValidateReferenceTarget(field, i, n, allowed))
	}
}

// Content enforces ele-1 on n.
func (c *Checker) Content(n element.Node) {
	if c.at(StageContent) {
		c.report(ValidateHasContent(n))
	}
}

// --- Primitive stage ---

// String checks a string value.
func (c *Checker) String(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckString(field, s, c.opts.CheckControlChars))
	}
}

// Code checks a code value.
func (c *Checker) Code(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckCode(field, s))
	}
}

// ID checks an id value.
func (c *Checker) ID(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckID(field, s))
	}
}

// URI checks a uri, url or canonical value.
func (c *Checker) URI(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckURI(field, s))
	}
}

// DateTime checks a dateTime value.
func (c *Checker) DateTime(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckDateTime(field, s))
	}
}

// Date checks a date value.
func (c *Checker) Date(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckDate(field, s))
	}
}

// Instant checks an instant value.
func (c *Checker) Instant(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckInstant(field, s))
	}
}

// Xhtml checks a narrative div.
func (c *Checker) Xhtml(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckXhtml(field, s))
	}
}

// PositiveInt checks a positiveInt value.
func (c *Checker) PositiveInt(field string, v int32) {
	if c.at(StagePrimitive) {
		c.report(CheckPositiveInt(field, v))
	}
}

// UnsignedInt checks an unsignedInt value.
func (c *Checker) UnsignedInt(field string, v int32) {
	if c.at(StagePrimitive) {
		c.report(CheckUnsignedInt(field, v))
	}
}

// Time checks a time value.
func (c *Checker) Time(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckTime(field, s))
	}
}

// OID checks an oid value.
func (c *Checker) OID(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckOID(field, s))
	}
}

// UUID checks a uuid value.
func (c *Checker) UUID(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckUUID(field, s))
	}
}

// Base64Binary checks a base64Binary value.
func (c *Checker) Base64Binary(field, s string) {
	if c.at(StagePrimitive) {
		c.report(CheckBase64Binary(field, s))
	}
}

// Invalid records a primitive value that failed to parse.
func (c *Checker) Invalid(field, primitive string, err error) {
	if c.at(StagePrimitive) {
		c.Report(issue.New(issue.DiagPrimitiveInvalidValue, map[string]any{
			"field":     field,
			"primitive": primitive,
			"error":     err.Error(),
		}))
	}
}

// --- Binding stage ---

// Binding checks a coded value against a required binding. Other strengths
// are advisory and not enforced.
func (c *Checker) Binding(field string, value element.Node, b *element.Binding) {
	if !c.opts.CheckBindings || !c.at(StageBinding) {
		return
	}
	c.binding(field, element.NoIndex, value, b)
}

// Bindings checks every entry of a coded list field.
func Bindings[T element.Node](c *Checker, field string, list []T, b *element.Binding) {
	if !c.opts.CheckBindings || !c.at(StageBinding) {
		return
	}
	for i, n := range list {
		c.binding(field, i, n, b)
	}
}

func (c *Checker) binding(field string, index int, value element.Node, b *element.Binding) {
	if b == nil || b.Strength != element.BindingRequired || element.IsNil(value) {
		return
	}
	coded, ok := value.(element.Coded)
	if !ok {
		return
	}
	codes := coded.Codes()
	if len(codes) == 0 {
		return
	}
	for _, cv := range codes {
		if c.memberOf(cv, b) {
			return
		}
	}
	c.Report(issue.New(issue.DiagBindingRequired, map[string]any{
		"field":    field,
		"index":    index,
		"code":     codes[0].Code,
		"actual":   codes[0].Code,
		"valueSet": b.ValueSet,
	}))
}

// memberOf asks the terminology provider first and falls back to the codes
// recorded in the binding. A value set known to neither accepts any code.
func (c *Checker) memberOf(cv element.CodeValue, b *element.Binding) bool {
	if p := c.opts.Terminology; p != nil && b.ValueSet != "" {
		valid, found, err := p.ValidateCodeInValueSet(c.opts.Context, cv.System, cv.Code, terminology.StripVersion(b.ValueSet))
		switch {
		case err != nil:
			logger.Default().Named("validate").Debug("terminology lookup %s in %s: %v", cv.Code, b.ValueSet, err)
		case found:
			return valid
		}
	}
	if len(b.Codes) == 0 {
		return true
	}
	return slices.Contains(b.Codes, cv.Code)
}

// --- Invariant stage ---

// Invariant evaluates a declared constraint against n. Constraints that
// cannot be compiled or evaluated are reported as warnings.
func (c *Checker) Invariant(con constraint.Constraint, n element.Node) {
	if !c.opts.CheckInvariants || !c.at(StageInvariant) {
		return
	}
	engine := c.opts.Engine
	if engine == nil {
		engine = constraint.Default()
	}

	ok, err := engine.Evaluate(con, n)
	if err != nil {
		id := issue.DiagConstraintEvalError
		if errors.Is(err, constraint.ErrCompile) {
			id = issue.DiagConstraintCompileError
		}
		c.Report(issue.New(id, map[string]any{"key": con.Key, "error": err.Error()}))
		return
	}
	if ok {
		return
	}

	iss := issue.New(issue.DiagConstraintFailed, map[string]any{
		"key":   con.Key,
		"human": con.Human,
	})
	if con.IsWarning() {
		iss.Severity = issue.SeverityWarning
	}
	c.Report(iss)
}
