package constraint

import (
	"errors"
	"testing"

	"github.com/gofhir/fhirpath"

	"github.com/gofhir/model/pkg/element"
)

type stub struct {
	detail    bool
	reference bool
}

func (s *stub) TypeName() string                                 { return "Stub" }
func (s *stub) ID() string                                       { return "" }
func (s *stub) HasValue() bool                                   { return false }
func (s *stub) HasChildren() bool                                { return s.detail || s.reference }
func (s *stub) Accept(name string, index int, v element.Visitor) { element.Accept(s, name, index, v, nil) }
func (s *stub) Equal(o element.Node) bool {
	other, ok := o.(*stub)
	return ok && *other == *s
}
func (s *stub) Hash() uint64 { return 0 }

func TestEvaluatePredicate(t *testing.T) {
	cpl3 := Constraint{
		Key:      "cpl-3",
		Severity: SeverityError,
		Human:    "Provide a reference or detail, not both",
		Predicate: func(n element.Node) bool {
			s := n.(*stub)
			return !(s.detail && s.reference)
		},
	}

	tests := []struct {
		name string
		node *stub
		want bool
	}{
		{"neither", &stub{}, true},
		{"detail only", &stub{detail: true}, true},
		{"reference only", &stub{reference: true}, true},
		{"both", &stub{detail: true, reference: true}, false},
	}

	e := NewEngine(8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(cpl3, tt.node)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateEmptyExpression(t *testing.T) {
	ok, err := Default().Evaluate(Constraint{Key: "x-1"}, &stub{})
	if err != nil || !ok {
		t.Errorf("Evaluate() = %v, %v; want true, nil", ok, err)
	}
}

func TestEvaluateCompileError(t *testing.T) {
	e := NewEngine(8)
	c := Constraint{Key: "bad-1", Expression: "((("}

	ok, err := e.Evaluate(c, &stub{})
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("Evaluate() error = %v; want ErrCompile", err)
	}
	if !ok {
		t.Error("an uncompilable constraint should not fail the node")
	}

	// Failed compiles are not cached, so the second call misses again.
	_, _ = e.Evaluate(c, &stub{})
	if st := e.CacheStats(); st.Size != 0 || st.Misses != 2 {
		t.Errorf("CacheStats() = %+v", st)
	}
}

func TestPassedEmpty(t *testing.T) {
	if !passed(nil) {
		t.Error("empty result should pass")
	}
	if !passed(fhirpath.Collection{}) {
		t.Error("empty result should pass")
	}
}

func TestConstraintIsWarning(t *testing.T) {
	if !(Constraint{Severity: SeverityWarning}).IsWarning() {
		t.Error("warning severity should report IsWarning")
	}
	if (Constraint{Severity: SeverityError}).IsWarning() {
		t.Error("error severity should not report IsWarning")
	}
}
