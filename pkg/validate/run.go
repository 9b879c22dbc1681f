package validate

import (
	"time"

	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pool"
)

// Run validates a single node: its own rules plus ele-1 for elements.
// Children are not revisited; they were validated when they were built.
// It returns issue.Issues when any error is found, else nil.
func Run(n Checkable, opts ...Option) error {
	o := NewOptions(opts...)
	if !o.Enabled || element.IsNil(n) {
		return nil
	}
	start := time.Now()
	c := NewChecker(n.TypeName(), o)
	c.stage = StageList
	for _, iss := range o.pending {
		c.Report(iss)
	}
	check(c, n)
	err := c.Err()
	if o.Metrics != nil {
		o.Metrics.RecordBuild(n.TypeName(), time.Since(start), c.errors, c.warnings)
	}
	return err
}

func check(c *Checker, n element.Node) {
	if ck, ok := n.(Checkable); ok {
		ck.Check(c)
	}
	if _, ok := n.(element.Resource); !ok {
		c.Content(n)
	}
}

// Tree validates every node of the graph rooted at n, as if each were built
// again. Issues carry the full element path, e.g. "Device.note[0].text".
func Tree(n element.Node, opts ...Option) error {
	o := NewOptions(opts...)
	if !o.Enabled || element.IsNil(n) {
		return nil
	}
	tv := &treeVisitor{opts: o, path: pool.AcquirePathBuilder()}
	defer tv.path.Release()
	element.Walk(n, tv)
	if len(tv.issues) == 0 {
		return nil
	}
	return tv.issues
}

type treeVisitor struct {
	element.BaseVisitor
	opts   *Options
	path   *pool.PathBuilder
	issues issue.Issues
}

func (tv *treeVisitor) full() bool {
	return tv.opts.MaxErrors > 0 && len(tv.issues) >= tv.opts.MaxErrors
}

func (tv *treeVisitor) PreVisit(element.Node) bool {
	return !tv.full()
}

func (tv *treeVisitor) VisitStart(name string, index int, n element.Node) {
	tv.path.Push(name, index)
	c := NewChecker(n.TypeName(), tv.opts)
	c.path = tv.path.String()
	check(c, n)
	for _, iss := range c.Issues() {
		if tv.full() {
			return
		}
		tv.issues = append(tv.issues, iss)
	}
}

func (tv *treeVisitor) VisitEnd(string, int, element.Node) {
	tv.path.Pop()
}
