package element

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"
	"testing"
)

// leaf and tree are minimal nodes used to exercise the protocol.
type leaf struct {
	value string
	hash  uint64
}

func newLeaf(v string) *leaf {
	h := NewHasher("leaf")
	h.String(v)
	return &leaf{value: v, hash: h.Sum()}
}

func (l *leaf) TypeName() string  { return "leaf" }
func (l *leaf) ID() string        { return "" }
func (l *leaf) HasValue() bool    { return l.value != "" }
func (l *leaf) HasChildren() bool { return false }
func (l *leaf) Hash() uint64      { return l.hash }
func (l *leaf) Supertypes() []string {
	return []string{"string"}
}

func (l *leaf) Accept(name string, index int, v Visitor) {
	Accept(l, name, index, v, nil)
}

func (l *leaf) Equal(other Node) bool {
	o, ok := other.(*leaf)
	return ok && o.value == l.value
}

type tree struct {
	label *leaf
	kids  []*tree
	items []*leaf
	hash  uint64
}

func newTree(label string, items []*leaf, kids ...*tree) *tree {
	t := &tree{label: newLeaf(label), kids: kids, items: items}
	h := NewHasher("tree")
	h.Node(t.label)
	HashList(h, t.kids)
	HashList(h, t.items)
	t.hash = h.Sum()
	return t
}

func (t *tree) TypeName() string  { return "tree" }
func (t *tree) ID() string        { return "" }
func (t *tree) HasValue() bool    { return false }
func (t *tree) HasChildren() bool { return t.label != nil || len(t.kids) > 0 || len(t.items) > 0 }
func (t *tree) Hash() uint64      { return t.hash }

func (t *tree) Accept(name string, index int, v Visitor) {
	Accept(t, name, index, v, func(v Visitor) {
		Child(v, "label", t.label)
		List(v, "kid", t.kids)
		List(v, "item", t.items)
	})
}

func (t *tree) Equal(other Node) bool {
	o, ok := other.(*tree)
	if !ok {
		return false
	}
	return Equal(t.label, o.label) && EqualList(t.kids, o.kids) && EqualList(t.items, o.items)
}

// recorder logs every event and can veto by label.
type recorder struct {
	events   []string
	prune    string
	skipKids string
	depth    int
	maxDepth int
}

func label(n Node) string {
	switch x := n.(type) {
	case *tree:
		return x.label.value
	case *leaf:
		return x.value
	}
	return "?"
}

func (r *recorder) PreVisit(n Node) bool {
	if label(n) == r.prune {
		return false
	}
	r.events = append(r.events, "pre:"+label(n))
	return true
}

func (r *recorder) VisitStart(name string, index int, n Node) {
	r.depth++
	r.maxDepth = max(r.maxDepth, r.depth)
	r.events = append(r.events, fmt.Sprintf("start:%s[%d]", name, index))
}

func (r *recorder) Visit(_ string, _ int, n Node) bool {
	return label(n) != r.skipKids
}

func (r *recorder) VisitEnd(name string, index int, _ Node) {
	r.depth--
	r.events = append(r.events, fmt.Sprintf("end:%s[%d]", name, index))
}

func (r *recorder) PostVisit(n Node) {
	r.events = append(r.events, "post:"+label(n))
}

func (r *recorder) VisitListStart(name string, size int) {
	r.events = append(r.events, fmt.Sprintf("list:%s/%d", name, size))
}

func (r *recorder) VisitListEnd(name string, _ int) {
	r.events = append(r.events, "/list:"+name)
}

func sample() *tree {
	return newTree("root", []*leaf{newLeaf("x"), newLeaf("y")},
		newTree("a", nil, newTree("a1", nil)),
		newTree("b", nil),
	)
}

func countPrefix(events []string, prefix string) int {
	n := 0
	for _, e := range events {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

func TestWalkPairsEvents(t *testing.T) {
	tests := []struct {
		name     string
		prune    string
		skipKids string
	}{
		{"full traversal", "", ""},
		{"prune subtree", "a", ""},
		{"skip children", "", "a"},
		{"skip root children", "", "root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{prune: tt.prune, skipKids: tt.skipKids}
			Walk(sample(), r)

			if s, e := countPrefix(r.events, "start:"), countPrefix(r.events, "end:"); s != e {
				t.Errorf("start/end mismatch: %d starts, %d ends", s, e)
			}
			if p, q := countPrefix(r.events, "pre:"), countPrefix(r.events, "post:"); p != q {
				t.Errorf("pre/post mismatch: %d pre, %d post", p, q)
			}
			if r.depth != 0 {
				t.Errorf("depth after walk = %d; want 0", r.depth)
			}
		})
	}
}

func TestWalkDeclarationOrder(t *testing.T) {
	r := &recorder{}
	Walk(sample(), r)

	want := []string{
		"pre:root", "start:tree[-1]",
		"pre:root", "start:label[-1]", "end:label[-1]", "post:root",
		"list:kid/2",
		"pre:a", "start:kid[0]",
		"pre:a", "start:label[-1]", "end:label[-1]", "post:a",
		"list:kid/1",
		"pre:a1", "start:kid[0]",
		"pre:a1", "start:label[-1]", "end:label[-1]", "post:a1",
		"end:kid[0]", "post:a1",
		"/list:kid",
		"end:kid[0]", "post:a",
		"pre:b", "start:kid[1]",
		"pre:b", "start:label[-1]", "end:label[-1]", "post:b",
		"end:kid[1]", "post:b",
		"/list:kid",
		"list:item/2",
		"pre:x", "start:item[0]", "end:item[0]", "post:x",
		"pre:y", "start:item[1]", "end:item[1]", "post:y",
		"/list:item",
		"end:tree[-1]", "post:root",
	}
	if got := strings.Join(r.events, " "); got != strings.Join(want, " ") {
		t.Errorf("events =\n%s\nwant\n%s", got, strings.Join(want, " "))
	}
}

func TestWalkSkipChildrenStillEnds(t *testing.T) {
	r := &recorder{skipKids: "a"}
	Walk(sample(), r)

	for _, e := range r.events {
		if e == "pre:a1" {
			t.Fatal("descendant of a skipped node was visited")
		}
	}
	joined := strings.Join(r.events, " ")
	if !strings.Contains(joined, "pre:a start:kid[0] end:kid[0] post:a") {
		t.Errorf("skipped node must still receive end and post events: %s", joined)
	}
}

func TestWalkPruneEmitsNothing(t *testing.T) {
	r := &recorder{prune: "b"}
	Walk(sample(), r)

	if strings.Contains(strings.Join(r.events, " "), "kid[1]") {
		t.Errorf("pruned node emitted events: %v", r.events)
	}
}

func TestBaseVisitorSkipChildren(t *testing.T) {
	type counting struct {
		BaseVisitor
	}
	v := &counting{BaseVisitor{SkipChildren: true}}
	if v.Visit("x", NoIndex, newLeaf("x")) {
		t.Error("Visit should report false when SkipChildren is set")
	}
	if !v.PreVisit(newLeaf("x")) {
		t.Error("PreVisit should always continue")
	}
}

func TestCollect(t *testing.T) {
	found := Collect(sample(), func(n Node) bool {
		_, ok := n.(*tree)
		return ok
	})
	var labels []string
	for _, n := range found {
		labels = append(labels, label(n))
	}
	if got := strings.Join(labels, ","); got != "root,a,a1,b" {
		t.Errorf("Collect() = %s; want root,a,a1,b", got)
	}
}

func TestIsNil(t *testing.T) {
	var typed *leaf
	tests := []struct {
		name string
		n    Node
		want bool
	}{
		{"untyped nil", nil, true},
		{"typed nil", typed, true},
		{"value", newLeaf("v"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNil(tt.n); got != tt.want {
				t.Errorf("IsNil() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestNodeOf(t *testing.T) {
	var typed *leaf
	if NodeOf(typed) != nil {
		t.Error("NodeOf(typed nil) should be an untyped nil")
	}
	if NodeOf(newLeaf("v")) == nil {
		t.Error("NodeOf(value) should not be nil")
	}
}

func TestIsInstanceOf(t *testing.T) {
	l := newLeaf("v")
	tests := []struct {
		typeName string
		want     bool
	}{
		{"leaf", true},
		{"string", true},
		{"Element", true},
		{"Base", true},
		{"Resource", false},
		{"tree", false},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			if got := IsInstanceOf(l, tt.typeName); got != tt.want {
				t.Errorf("IsInstanceOf(leaf, %q) = %v; want %v", tt.typeName, got, tt.want)
			}
		})
	}
	if !IsInstanceOfAny(l, "tree", "string") {
		t.Error("IsInstanceOfAny should match a supertype")
	}
	if IsInstanceOf(nil, "Base") {
		t.Error("nil is not an instance of anything")
	}
}

func TestHashAndEqual(t *testing.T) {
	a, b := sample(), sample()
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Error("identical graphs must be equal with equal hashes")
	}

	c := newTree("root", []*leaf{newLeaf("y"), newLeaf("x")},
		newTree("a", nil, newTree("a1", nil)),
		newTree("b", nil),
	)
	if a.Equal(c) {
		t.Error("list order must matter for equality")
	}
	if a.Hash() == c.Hash() {
		t.Error("reordered lists should hash differently")
	}

	h1, h2 := NewHasher("leaf"), NewHasher("tree")
	if h1.Sum() == h2.Sum() {
		t.Error("type name must seed the hash")
	}
}

func TestHasherStringBoundaries(t *testing.T) {
	h1 := NewHasher("t")
	h1.String("ab")
	h1.String("c")
	h2 := NewHasher("t")
	h2.String("a")
	h2.String("bc")
	if h1.Sum() == h2.Sum() {
		t.Error("length prefix should separate adjacent strings")
	}
}

func TestHasherIsFNV1a(t *testing.T) {
	h := NewHasher("leaf")
	h.Bool(true)
	h.Int(-1)

	want := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 4)
	want.Write(buf[:])
	want.Write([]byte("leaf"))
	want.Write([]byte{1})
	binary.LittleEndian.PutUint64(buf[:], ^uint64(0))
	want.Write(buf[:])

	if got := h.Sum(); got != want.Sum64() {
		t.Errorf("Sum() = %#x, want %#x", got, want.Sum64())
	}
	if h.Sum() != h.Sum() {
		t.Error("Sum must not consume the state")
	}
}

func TestEqualNilAware(t *testing.T) {
	var n1, n2 *leaf
	if !Equal(n1, n2) {
		t.Error("two absent values are equal")
	}
	if Equal(n1, newLeaf("x")) {
		t.Error("absent and present values differ")
	}
	if !EqualList([]*leaf{newLeaf("x")}, []*leaf{newLeaf("x")}) {
		t.Error("lists with equal entries are equal")
	}
	if EqualList([]*leaf{newLeaf("x")}, nil) {
		t.Error("lists of different length differ")
	}
}

func TestHasContent(t *testing.T) {
	if HasContent(&leaf{}) {
		t.Error("empty leaf has no content")
	}
	if !HasContent(newLeaf("v")) {
		t.Error("leaf with a value has content")
	}
	var typed *tree
	if HasContent(typed) {
		t.Error("nil has no content")
	}
}

func TestTypeInfoField(t *testing.T) {
	ti := &TypeInfo{Name: "Component", Fields: []FieldInfo{
		{Name: "status", Kind: FieldScalar, Types: []string{"code"}, Required: true},
		{Name: "value", Kind: FieldChoice, Types: []string{"Quantity", "CodeableConcept"}, Required: true},
	}}
	f, ok := ti.Field("value")
	if !ok || f.Kind != FieldChoice || len(f.Types) != 2 {
		t.Errorf("Field(value) = %+v, %v", f, ok)
	}
	if _, ok := ti.Field("missing"); ok {
		t.Error("Field(missing) should not be found")
	}
	var nilInfo *TypeInfo
	if _, ok := nilInfo.Field("value"); ok {
		t.Error("nil TypeInfo has no fields")
	}
}
