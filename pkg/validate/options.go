package validate

import (
	"context"

	"github.com/gofhir/model/pkg/constraint"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/logger"
	"github.com/gofhir/model/pkg/terminology"
)

// Option configures a validation run.
type Option func(*Options)

// Options holds the configuration of a validation run.
type Options struct {
	// Enabled turns every check off when false; Build then only copies state.
	Enabled bool

	// Stage switches
	CheckReferenceTypes bool
	CheckControlChars   bool
	CheckBindings       bool
	CheckInvariants     bool

	// StrictMode reports warnings as errors.
	StrictMode bool

	// MaxErrors stops reporting after this many errors. 0 means unlimited.
	MaxErrors int

	// Collaborators
	Terminology terminology.Provider
	Engine      *constraint.Engine
	Context     context.Context

	// OnWarning receives issues that do not fail the run.
	OnWarning func(issue.Issue)

	// Metrics, when set, records every Run.
	Metrics *Metrics

	pending issue.Issues
}

// DefaultOptions returns the default configuration: every check enabled,
// all violations collected, warnings logged.
func DefaultOptions() *Options {
	return &Options{
		Enabled:             true,
		CheckReferenceTypes: true,
		CheckControlChars:   true,
		CheckBindings:       true,
		CheckInvariants:     true,
		MaxErrors:           0, // unlimited
		Context:             context.Background(),
		OnWarning: func(iss issue.Issue) {
			logger.Default().Named("validate").Warn("%s", iss.Error())
		},
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// --- Validation Options ---

// WithValidation turns validation on or off. With validation off, Build
// returns the instance without checking it.
func WithValidation(enable bool) Option {
	return func(o *Options) {
		o.Enabled = enable
	}
}

// WithReferenceTypeChecks enables the reference target stage.
func WithReferenceTypeChecks(enable bool) Option {
	return func(o *Options) {
		o.CheckReferenceTypes = enable
	}
}

// WithControlCharCheck enables rejection of control characters in strings.
func WithControlCharCheck(enable bool) Option {
	return func(o *Options) {
		o.CheckControlChars = enable
	}
}

// WithBindings enables required binding checks.
func WithBindings(enable bool) Option {
	return func(o *Options) {
		o.CheckBindings = enable
	}
}

// WithInvariants enables the cross-field invariant stage.
func WithInvariants(enable bool) Option {
	return func(o *Options) {
		o.CheckInvariants = enable
	}
}

// WithStrictMode treats warnings as errors.
func WithStrictMode(enable bool) Option {
	return func(o *Options) {
		o.StrictMode = enable
	}
}

// --- Reporting Options ---

// WithMaxErrors sets the maximum number of errors reported.
// Use 0 for unlimited.
func WithMaxErrors(max int) Option {
	return func(o *Options) {
		if max >= 0 {
			o.MaxErrors = max
		}
	}
}

// WithFailFast reports only the first error.
func WithFailFast() Option {
	return WithMaxErrors(1)
}

// WithWarningHandler replaces the default warning logger.
func WithWarningHandler(fn func(issue.Issue)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnWarning = fn
		}
	}
}

// WithMetrics records every Run in m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// --- Collaborators ---

// WithTerminology sets the provider asked about required bindings.
func WithTerminology(p terminology.Provider) Option {
	return func(o *Options) {
		o.Terminology = p
	}
}

// WithEngine sets the invariant engine. Defaults to constraint.Default().
func WithEngine(e *constraint.Engine) Option {
	return func(o *Options) {
		o.Engine = e
	}
}

// WithContext sets the context passed to the terminology provider.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Context = ctx
		}
	}
}

// WithPending adds issues detected before the run, such as a nil collection
// handed to a replace setter. They are reported with the list stage.
func WithPending(issues ...issue.Issue) Option {
	return func(o *Options) {
		o.pending = append(o.pending, issues...)
	}
}

// --- Presets ---

// FastOptions returns options that skip the stages needing collaborators.
func FastOptions() []Option {
	return []Option{
		WithInvariants(false),
		WithBindings(false),
		WithFailFast(),
	}
}

// StrictOptions returns options that enable every check and treat warnings
// as errors.
func StrictOptions() []Option {
	return []Option{
		WithReferenceTypeChecks(true),
		WithControlCharCheck(true),
		WithBindings(true),
		WithInvariants(true),
		WithStrictMode(true),
	}
}
