package element

// Visitor receives the traversal events of a node graph. For each node:
//
//	PreVisit            false prunes the subtree; no further events for it
//	VisitStart
//	Visit               false skips the children; VisitEnd still fires
//	  children in declaration order
//	VisitEnd
//	PostVisit
//
// VisitStart/VisitEnd and PreVisit/PostVisit always pair. Traversal is
// depth-first and pre-order on the calling goroutine.
type Visitor interface {
	PreVisit(n Node) bool
	VisitStart(name string, index int, n Node)
	Visit(name string, index int, n Node) bool
	VisitEnd(name string, index int, n Node)
	PostVisit(n Node)
}

// ListVisitor is optionally implemented by visitors that need list
// boundaries, e.g. to open and close a JSON array. The events surround the
// entries of every non-empty list field.
type ListVisitor interface {
	VisitListStart(name string, size int)
	VisitListEnd(name string, size int)
}

// Accept drives the protocol for n. children dispatches n's declared fields
// in order and is only invoked when the visitor permits descent.
func Accept(n Node, name string, index int, v Visitor, children func(Visitor)) {
	if !v.PreVisit(n) {
		return
	}
	v.VisitStart(name, index, n)
	if v.Visit(name, index, n) && children != nil {
		children(v)
	}
	v.VisitEnd(name, index, n)
	v.PostVisit(n)
}

// Child visits a single-valued field. Absent values are skipped.
func Child[T Node](v Visitor, name string, n T) {
	if IsNil(n) {
		return
	}
	n.Accept(name, NoIndex, v)
}

// List visits every entry of a list field with its zero-based index.
func List[T Node](v Visitor, name string, list []T) {
	if len(list) == 0 {
		return
	}
	lv, _ := v.(ListVisitor)
	if lv != nil {
		lv.VisitListStart(name, len(list))
	}
	for i, n := range list {
		if IsNil(n) {
			continue
		}
		n.Accept(name, i, v)
	}
	if lv != nil {
		lv.VisitListEnd(name, len(list))
	}
}

// Walk starts a traversal at a root node, named after its type.
func Walk(n Node, v Visitor) {
	if IsNil(n) {
		return
	}
	n.Accept(n.TypeName(), NoIndex, v)
}

// BaseVisitor is a no-op Visitor meant to be embedded. It descends into every
// node unless SkipChildren is set.
type BaseVisitor struct {
	SkipChildren bool
}

// PreVisit implements Visitor.
func (b *BaseVisitor) PreVisit(Node) bool { return true }

// VisitStart implements Visitor.
func (b *BaseVisitor) VisitStart(string, int, Node) {}

// Visit implements Visitor.
func (b *BaseVisitor) Visit(string, int, Node) bool { return !b.SkipChildren }

// VisitEnd implements Visitor.
func (b *BaseVisitor) VisitEnd(string, int, Node) {}

// PostVisit implements Visitor.
func (b *BaseVisitor) PostVisit(Node) {}

// collector gathers the nodes accepted by a predicate.
type collector struct {
	BaseVisitor
	match func(Node) bool
	found []Node
}

func (c *collector) VisitStart(_ string, _ int, n Node) {
	if c.match(n) {
		c.found = append(c.found, n)
	}
}

// Collect returns every node of the graph rooted at n, n included, for which
// match returns true, in traversal order.
func Collect(n Node, match func(Node) bool) []Node {
	c := &collector{match: match}
	Walk(n, c)
	return c.found
}
