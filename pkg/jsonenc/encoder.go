// Package jsonenc serializes model graphs to FHIR JSON by walking them with
// the element visitor protocol.
package jsonenc

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"

	"github.com/gofhir/model/pkg/element"
)

// Marshal encodes n as FHIR JSON. Choice fields are named after the
// populated alternative ("valueQuantity"), primitives carry their id and
// extensions under "_name", and resources start with "resourceType".
func Marshal(n element.Node) ([]byte, error) {
	if element.IsNil(n) {
		return []byte("null"), nil
	}
	if p, ok := n.(element.Primitive); ok {
		return json.Marshal(jsonValue(p.PrimitiveValue()))
	}
	e := &encoder{}
	element.Walk(n, e)
	return json.Marshal(e.root)
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(n element.Node, prefix, indent string) ([]byte, error) {
	data, err := Marshal(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// object is a JSON object that keeps insertion order.
type object struct {
	keys []string
	vals map[string]any
}

func newObject() *object {
	return &object{vals: make(map[string]any)}
}

func (o *object) set(key string, v any) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

func (o *object) appendTo(key string, v any) {
	arr, _ := o.vals[key].([]any)
	o.set(key, append(arr, v))
}

func (o *object) empty() bool {
	return len(o.keys) == 0
}

// MarshalJSON implements json.Marshaler.
func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// primitiveList collects the values of a primitive list field and their
// parallel "_name" entries.
type primitiveList struct {
	vals    []any
	metas   []any
	anyMeta bool
}

type frame struct {
	obj   *object
	info  *element.TypeInfo
	key   string
	index int
	slot  int
	prim  bool
	lists map[string]*primitiveList
}

func (f *frame) list(key string) *primitiveList {
	if f.lists == nil {
		f.lists = make(map[string]*primitiveList)
	}
	pl, ok := f.lists[key]
	if !ok {
		pl = &primitiveList{}
		f.lists[key] = pl
	}
	return pl
}

type encoder struct {
	element.BaseVisitor
	stack []*frame
	root  *object
}

func (e *encoder) top() *frame {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

func (e *encoder) VisitStart(name string, index int, n element.Node) {
	parent := e.top()
	f := &frame{obj: newObject(), info: element.InfoOf(n), key: name, index: index}
	if parent != nil {
		f.key = fieldKey(parent.info, name, n)
	}

	if p, ok := n.(element.Primitive); ok && parent != nil {
		f.prim = true
		if id := n.ID(); id != "" {
			f.obj.set("id", id)
		}
		val := jsonValue(p.PrimitiveValue())
		if index == element.NoIndex {
			if val != nil {
				parent.obj.set(f.key, val)
			}
		} else {
			pl := parent.list(f.key)
			pl.vals = append(pl.vals, val)
			pl.metas = append(pl.metas, nil)
			f.slot = len(pl.vals) - 1
			parent.obj.set(f.key, pl.vals)
		}
		e.stack = append(e.stack, f)
		return
	}

	if r, ok := n.(element.Resource); ok {
		f.obj.set("resourceType", r.ResourceType())
	}
	if id := n.ID(); id != "" {
		f.obj.set("id", id)
	}
	if a, ok := n.(element.Attributed); ok {
		for _, attr := range a.Attributes() {
			if attr.Value != "" {
				f.obj.set(attr.Name, attr.Value)
			}
		}
	}
	switch {
	case parent == nil:
		e.root = f.obj
	case index == element.NoIndex:
		parent.obj.set(f.key, f.obj)
	default:
		parent.obj.appendTo(f.key, f.obj)
	}
	e.stack = append(e.stack, f)
}

func (e *encoder) VisitEnd(string, int, element.Node) {
	f := e.top()
	e.stack = e.stack[:len(e.stack)-1]
	if !f.prim || f.obj.empty() {
		return
	}
	parent := e.top()
	if f.index == element.NoIndex {
		parent.obj.set("_"+f.key, f.obj)
		return
	}
	pl := parent.list(f.key)
	pl.metas[f.slot] = f.obj
	pl.anyMeta = true
}

func (e *encoder) VisitListStart(string, int) {}

func (e *encoder) VisitListEnd(name string, _ int) {
	f := e.top()
	if f == nil || f.lists == nil {
		return
	}
	if pl, ok := f.lists[name]; ok && pl.anyMeta {
		f.obj.set("_"+name, pl.metas)
	}
}

// fieldKey names a field in JSON: choice fields get the type suffix.
func fieldKey(parent *element.TypeInfo, name string, n element.Node) string {
	if fi, ok := parent.Field(name); ok && fi.Kind == element.FieldChoice {
		return name + upperFirst(n.TypeName())
	}
	return name
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func jsonValue(v any) any {
	if num, ok := v.(element.Number); ok {
		return json.Number(num)
	}
	return v
}
