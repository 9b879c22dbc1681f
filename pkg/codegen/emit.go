package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/gofhir/model/pkg/schema"
)

// base describes the runtime type a generated type embeds and the helpers
// its methods delegate to.
type base struct {
	embed    string
	builder  string
	fields   string
	children string
	accept   string
	equal    string
	hash     string
	check    string
	from     string
	build    string
}

var bases = map[string]base{
	schema.BaseDomainResource: {
		embed: "DomainResource", builder: "DomainResourceBuilder", fields: "DomainFields",
		children: "HasDomainChildren", accept: "AcceptDomain", equal: "EqualDomain",
		hash: "HashDomain", check: "CheckDomain", from: "FromDomain", build: "Domain",
	},
	schema.BaseBackboneElement: {
		embed: "BackboneElement", builder: "BackboneElementBuilder", fields: "BackboneFields",
		children: "HasExtensions", accept: "AcceptExtensions", equal: "EqualBackbone",
		hash: "HashBackbone", check: "CheckBackbone", from: "FromBackbone", build: "Backbone",
	},
	schema.BaseElement: {
		embed: "Element", builder: "ElementBuilder", fields: "ElementFields",
		children: "HasExtensions", accept: "AcceptExtensions", equal: "EqualElement",
		hash: "HashElement", check: "CheckElement", from: "From", build: "Element",
	},
}

// typeSpec is a TypeDef resolved to Go names.
type typeSpec struct {
	def    *schema.TypeDef
	name   string
	recv   string
	base   base
	domain bool
	fields []*fieldSpec
}

type fieldSpec struct {
	def     *schema.FieldDef
	private string
	method  string
	list    bool
	choice  bool

	typesVar   string // choice alternatives
	targetsVar string // long reference target lists
	bindingVar string
}

func (n *namer) resolve(def *schema.TypeDef) *typeSpec {
	t := &typeSpec{
		def:    def,
		name:   n.typeName(def.Name),
		recv:   receiver(def.Name),
		base:   bases[def.Base],
		domain: def.Base == schema.BaseDomainResource,
	}
	for _, f := range def.Fields {
		fs := &fieldSpec{
			def:     f,
			private: private(f.Name),
			method:  n.accessor(f.Name),
			list:    f.IsList() && !f.Choice,
			choice:  f.Choice,
		}
		if fs.choice {
			fs.typesVar = t.name + fs.method + "Types"
		}
		if len(f.Targets) > 3 {
			fs.targetsVar = t.name + fs.method + "Targets"
		}
		if f.Binding != nil {
			fs.bindingVar = t.name + fs.method + "Binding"
		}
		t.fields = append(t.fields, fs)
	}
	return t
}

func (t *typeSpec) builderName() string { return t.name + "Builder" }
func (t *typeSpec) infoVar() string     { return lowerFirst(t.name) + "Info" }

func (t *typeSpec) checker() string {
	if t.recv == "c" {
		return "ch"
	}
	return "c"
}

// elem is the Go type of one value of the field.
func (f *fieldSpec) elem(n *namer) *jen.Statement {
	if f.choice {
		return jen.Qual(elementPkg, "Node")
	}
	return n.goType(f.def.Types[0])
}

// goType is the Go type of the struct field.
func (f *fieldSpec) goType(n *namer) *jen.Statement {
	if f.list {
		return jen.Index().Add(f.elem(n))
	}
	return f.elem(n)
}

// elementType is the type name list entries are checked against.
func (f *fieldSpec) elementType() string {
	return runtimeType(f.def.Types[0])
}

// isReference reports whether the field can hold a Reference with declared
// targets.
func (f *fieldSpec) isReference() bool {
	return len(f.def.Targets) > 0 && f.def.HasType("Reference")
}

func (f *fieldSpec) targets() []jen.Code {
	if f.targetsVar != "" {
		return []jen.Code{jen.Id(f.targetsVar).Op("...")}
	}
	return lits(f.def.Targets)
}

func (f *fieldSpec) targetsValue() jen.Code {
	if f.targetsVar != "" {
		return jen.Id(f.targetsVar)
	}
	return stringSlice(f.def.Targets)
}

// runtimeTypes are the choice alternatives as runtime type names.
func (f *fieldSpec) runtimeTypes() []string {
	var out []string
	seen := make(map[string]bool)
	for _, code := range f.def.Types {
		rt := runtimeType(code)
		if !seen[rt] {
			seen[rt] = true
			out = append(out, rt)
		}
	}
	return out
}

func lits(values []string) []jen.Code {
	out := make([]jen.Code, len(values))
	for i, v := range values {
		out[i] = jen.Lit(v)
	}
	return out
}

func stringSlice(values []string) *jen.Statement {
	return jen.Index().String().Values(lits(values)...)
}

// emitter renders the Go source of one root type and its backbones.
type emitter struct {
	*namer
	f *jen.File
}

func (e *emitter) emitRoot(def *schema.TypeDef) {
	for _, d := range def.All() {
		t := e.resolve(d)
		e.emitDecls(t)
		e.emitType(t)
		e.emitBuilder(t)
	}
}

// emitDecls writes the package-level bindings, choice alternatives, long
// target lists and invariants of t.
func (e *emitter) emitDecls(t *typeSpec) {
	for _, fs := range t.fields {
		if b := fs.def.Binding; b != nil {
			e.f.Commentf("%s is the required binding of %s.", fs.bindingVar, fs.def.Path)
			e.f.Var().Id(fs.bindingVar).Op("=").Op("&").Qual(elementPkg, "Binding").ValuesFunc(func(g *jen.Group) {
				g.Line().Id("Name").Op(":").Lit(b.Name)
				g.Line().Id("Strength").Op(":").Qual(elementPkg, "BindingRequired")
				g.Line().Id("ValueSet").Op(":").Lit(b.ValueSet)
				if len(b.Codes) > 0 {
					g.Line().Id("Codes").Op(":").Add(stringSlice(b.Codes))
				}
				g.Line()
			})
		}
		if fs.choice {
			e.f.Commentf("%s are the alternatives of %s[x].", fs.typesVar, fs.def.Path)
			e.f.Var().Id(fs.typesVar).Op("=").Add(stringSlice(fs.runtimeTypes()))
		}
		if fs.targetsVar != "" {
			e.f.Commentf("%s are the kinds %s may point to.", fs.targetsVar, fs.def.Path)
			e.f.Var().Id(fs.targetsVar).Op("=").Add(stringSlice(fs.def.Targets))
		}
	}
	for _, c := range t.def.Constraints {
		severity := "SeverityError"
		if c.IsWarning() {
			severity = "SeverityWarning"
		}
		e.f.Commentf("%s: %s", c.Key, c.Human)
		e.f.Var().Id(e.constraintVar(t.name, c.Key)).Op("=").Qual(constraintPkg, "Constraint").ValuesFunc(func(g *jen.Group) {
			g.Line().Id("Key").Op(":").Lit(c.Key)
			g.Line().Id("Severity").Op(":").Qual(constraintPkg, severity)
			g.Line().Id("Human").Op(":").Lit(c.Human)
			g.Line().Id("Expression").Op(":").Lit(c.Expression)
			g.Line().Id("Location").Op(":").Lit(c.Location)
			g.Line()
		})
	}
}

func (e *emitter) emitType(t *typeSpec) {
	r := t.recv
	self := func() *jen.Statement { return jen.Id(r).Op("*").Id(t.name) }
	field := func(fs *fieldSpec) *jen.Statement { return jen.Id(r).Dot(fs.private) }

	e.f.Commentf("%s is the %s type.", t.name, t.def.Name)
	e.f.Type().Id(t.name).StructFunc(func(g *jen.Group) {
		g.Qual(datatypePkg, t.base.embed)
		for _, fs := range t.fields {
			g.Id(fs.private).Add(fs.goType(e.namer))
		}
		g.Id("hash").Uint64()
	})

	kind := "KindBackbone"
	switch t.def.Kind {
	case schema.KindResource:
		kind = "KindResource"
	case schema.KindComplex:
		kind = "KindComplex"
	}
	e.f.Var().Id(t.infoVar()).Op("=").Op("&").Qual(elementPkg, "TypeInfo").ValuesFunc(func(g *jen.Group) {
		g.Line().Id("Name").Op(":").Lit(t.def.Name)
		g.Line().Id("Kind").Op(":").Qual(elementPkg, kind)
		g.Line().Id("Fields").Op(":").Qual(datatypePkg, t.base.fields).CallFunc(func(g *jen.Group) {
			for _, fs := range t.fields {
				g.Line().Add(e.fieldInfo(fs))
			}
			g.Line()
		})
		g.Line()
	})

	for _, fs := range t.fields {
		ret := fs.goType(e.namer)
		body := field(fs)
		if fs.list {
			body = jen.Qual("slices", "Clone").Call(field(fs))
		}
		e.f.Func().Params(self()).Id(fs.method).Params().Add(ret).Block(jen.Return(body))
	}
	e.f.Func().Params(self()).Id("TypeName").Params().String().Block(jen.Return(jen.Lit(t.def.Name)))
	if t.def.IsResource() {
		e.f.Func().Params(self()).Id("ResourceType").Params().String().Block(jen.Return(jen.Lit(t.def.Name)))
	} else {
		e.f.Func().Params(self()).Id("HasValue").Params().Bool().Block(jen.Return(jen.False()))
	}
	e.f.Func().Params(self()).Id("Hash").Params().Uint64().Block(jen.Return(jen.Id(r).Dot("hash")))
	e.f.Func().Params(self()).Id("TypeInfo").Params().Op("*").Qual(elementPkg, "TypeInfo").Block(jen.Return(jen.Id(t.infoVar())))
	if t.def.Supertype != "" {
		e.f.Func().Params(self()).Id("Supertypes").Params().Index().String().Block(
			jen.Return(stringSlice([]string{t.def.Supertype})),
		)
	}

	for _, fs := range t.fields {
		if !fs.choice {
			continue
		}
		for _, code := range fs.def.Types {
			alt := fs.method + e.exported(code)
			e.f.Commentf("%s returns %s[x] when it is a %s.", alt, fs.def.Name, code)
			e.f.Func().Params(self()).Id(alt).Params().Params(e.goType(code), jen.Bool()).Block(
				jen.Return(jen.Qual(elementPkg, "As").Types(e.goType(code)).Call(field(fs))),
			)
		}
	}

	children := jen.Id(r).Dot(t.base.children).Call()
	for _, fs := range t.fields {
		if fs.list {
			children.Op("||").Len(field(fs)).Op(">").Lit(0)
		} else {
			children.Op("||").Add(field(fs)).Op("!=").Nil()
		}
	}
	e.f.Func().Params(self()).Id("HasChildren").Params().Bool().Block(jen.Return(children))

	e.f.Func().Params(self()).Id("Accept").Params(
		jen.Id("name").String(), jen.Id("index").Int(), jen.Id("v").Qual(elementPkg, "Visitor"),
	).Block(
		jen.Qual(elementPkg, "Accept").Call(
			jen.Id(r), jen.Id("name"), jen.Id("index"), jen.Id("v"),
			jen.Func().Params(jen.Id("v").Qual(elementPkg, "Visitor")).BlockFunc(func(g *jen.Group) {
				g.Id(r).Dot(t.base.accept).Call(jen.Id("v"))
				for _, fs := range t.fields {
					fn := "Child"
					if fs.list {
						fn = "List"
					}
					g.Qual(elementPkg, fn).Call(jen.Id("v"), jen.Lit(fs.def.Name), field(fs))
				}
			}),
		),
	)

	equal := jen.Id(r).Dot(t.base.equal).Call(jen.Op("&").Id("o").Dot(t.base.embed))
	for _, fs := range t.fields {
		fn := "Equal"
		if fs.list {
			fn = "EqualList"
		}
		equal.Op("&&").Line().Qual(elementPkg, fn).Call(field(fs), jen.Id("o").Dot(fs.private))
	}
	e.f.Func().Params(self()).Id("Equal").Params(jen.Id("other").Qual(elementPkg, "Node")).Bool().Block(
		jen.List(jen.Id("o"), jen.Id("ok")).Op(":=").Id("other").Assert(jen.Op("*").Id(t.name)),
		jen.If(jen.Op("!").Id("ok").Op("||").Id("o").Op("==").Nil()).Block(jen.Return(jen.False())),
		jen.Return(equal),
	)

	e.f.Func().Params(self()).Id("computeHash").Params().Uint64().BlockFunc(func(g *jen.Group) {
		g.Id("h").Op(":=").Qual(elementPkg, "NewHasher").Call(jen.Lit(t.def.Name))
		g.Id(r).Dot(t.base.hash).Call(jen.Id("h"))
		for _, fs := range t.fields {
			if fs.list {
				g.Qual(elementPkg, "HashList").Call(jen.Id("h"), field(fs))
			} else {
				g.Id("h").Dot("Node").Call(field(fs))
			}
		}
		g.Return(jen.Id("h").Dot("Sum").Call())
	})

	e.emitCheck(t)

	e.f.Func().Params(self()).Id("ToBuilder").Params().Op("*").Id(t.builderName()).BlockFunc(func(g *jen.Group) {
		g.Id("b").Op(":=").Op("&").Id(t.builderName()).ValuesFunc(func(g *jen.Group) {
			for _, fs := range t.fields {
				g.Line().Id(fs.private).Op(":").Add(cloned(fs, field(fs)))
			}
			if len(t.fields) > 0 {
				g.Line()
			}
		})
		g.Id("b").Dot(t.base.from).Call(jen.Op("&").Id(r).Dot(t.base.embed))
		g.Return(jen.Id("b"))
	})
}

func cloned(fs *fieldSpec, v *jen.Statement) *jen.Statement {
	if fs.list {
		return jen.Qual("slices", "Clone").Call(v)
	}
	return v
}

func (e *emitter) fieldInfo(fs *fieldSpec) jen.Code {
	return jen.Qual(elementPkg, "FieldInfo").ValuesFunc(func(g *jen.Group) {
		g.Id("Name").Op(":").Lit(fs.def.Name)
		switch {
		case fs.choice:
			g.Id("Kind").Op(":").Qual(elementPkg, "FieldChoice")
			g.Id("Types").Op(":").Id(fs.typesVar)
		case fs.list:
			g.Id("Kind").Op(":").Qual(elementPkg, "FieldList")
			g.Id("Types").Op(":").Add(stringSlice(fs.def.Types))
		default:
			g.Id("Types").Op(":").Add(stringSlice(fs.def.Types))
		}
		if fs.def.Required() {
			g.Id("Required").Op(":").True()
		}
		if len(fs.def.Targets) > 0 {
			g.Id("Targets").Op(":").Add(fs.targetsValue())
		}
		if fs.bindingVar != "" {
			g.Id("Binding").Op(":").Id(fs.bindingVar)
		}
	})
}

// emitCheck writes the Check method. Calls follow the stage order the
// checker reports in: lists, required fields, choices, references,
// bindings, invariants.
func (e *emitter) emitCheck(t *typeSpec) {
	r, c := t.recv, t.checker()
	field := func(fs *fieldSpec) *jen.Statement { return jen.Id(r).Dot(fs.private) }

	e.f.Func().Params(jen.Id(r).Op("*").Id(t.name)).Id("Check").Params(
		jen.Id(c).Op("*").Qual(validatePkg, "Checker"),
	).BlockFunc(func(g *jen.Group) {
		if t.domain {
			g.Id(r).Dot(t.base.check).Call(jen.Id(c), jen.Id(r))
		} else {
			g.Id(r).Dot(t.base.check).Call(jen.Id(c))
		}
		for _, fs := range t.fields {
			if !fs.list {
				continue
			}
			fn := "List"
			if fs.def.Required() {
				fn = "RequiredList"
			}
			g.Qual(validatePkg, fn).Call(jen.Id(c), jen.Lit(fs.def.Name), field(fs), jen.Lit(fs.elementType()))
		}
		for _, fs := range t.fields {
			if fs.def.Required() && !fs.list && !fs.choice {
				g.Id(c).Dot("Required").Call(jen.Lit(fs.def.Name), field(fs))
			}
		}
		for _, fs := range t.fields {
			if fs.choice {
				g.Id(c).Dot("Choice").Call(jen.Lit(fs.def.Name), field(fs), jen.Lit(fs.def.Required()), jen.Id(fs.typesVar).Op("..."))
			}
		}
		for _, fs := range t.fields {
			if !fs.isReference() {
				continue
			}
			args := append([]jen.Code{jen.Lit(fs.def.Name), field(fs)}, fs.targets()...)
			if fs.list {
				g.Qual(validatePkg, "References").Call(append([]jen.Code{jen.Id(c)}, args...)...)
			} else {
				g.Id(c).Dot("Reference").Call(args...)
			}
		}
		for _, fs := range t.fields {
			if fs.bindingVar == "" {
				continue
			}
			if fs.list {
				g.Qual(validatePkg, "Bindings").Call(jen.Id(c), jen.Lit(fs.def.Name), field(fs), jen.Id(fs.bindingVar))
			} else {
				g.Id(c).Dot("Binding").Call(jen.Lit(fs.def.Name), field(fs), jen.Id(fs.bindingVar))
			}
		}
		for _, con := range t.def.Constraints {
			g.Id(c).Dot("Invariant").Call(jen.Id(e.constraintVar(t.name, con.Key)), jen.Id(r))
		}
	})
}

func (e *emitter) emitBuilder(t *typeSpec) {
	bt := t.builderName()
	self := func() *jen.Statement { return jen.Id("b").Op("*").Id(bt) }
	ret := func() *jen.Statement { return jen.Op("*").Id(bt) }
	setter := func(name string, params jen.Code, stmts ...jen.Code) {
		e.f.Func().Params(self()).Id(name).Params(params).Add(ret()).Block(append(stmts, jen.Return(jen.Id("b")))...)
	}

	e.f.Commentf("%s builds a %s.", bt, t.name)
	e.f.Type().Id(bt).StructFunc(func(g *jen.Group) {
		g.Qual(datatypePkg, t.base.builder)
		for _, fs := range t.fields {
			g.Id(fs.private).Add(fs.goType(e.namer))
		}
	})

	e.f.Func().Id("New" + bt).Params().Add(ret()).Block(jen.Return(jen.Op("&").Id(bt).Values()))

	setter("ID", jen.Id("id").String(), jen.Id("b").Dot("SetID").Call(jen.Id("id")))
	if t.domain {
		for _, m := range []struct{ name, typ string }{
			{"Meta", "Meta"}, {"ImplicitRules", "Uri"}, {"Language", "Code"}, {"Text", "Narrative"},
		} {
			setter(m.name, jen.Id("v").Op("*").Qual(datatypePkg, m.typ), jen.Id("b").Dot("Set"+m.name).Call(jen.Id("v")))
		}
		setter("Contained", jen.Id("v").Op("...").Qual(elementPkg, "Resource"),
			jen.Id("b").Dot("AddContained").Call(jen.Id("v").Op("...")))
	}
	extension := jen.Id("ext").Op("...").Op("*").Qual(datatypePkg, "Extension")
	setter("Extension", extension, jen.Id("b").Dot("AddExtension").Call(jen.Id("ext").Op("...")))
	setter("ReplaceExtension", jen.Id("ext").Index().Op("*").Qual(datatypePkg, "Extension"),
		jen.Id("b").Dot("ResetExtension").Call(jen.Id("ext")))
	if t.def.Base != schema.BaseElement {
		setter("ModifierExtension", jen.Id("ext").Op("...").Op("*").Qual(datatypePkg, "Extension"),
			jen.Id("b").Dot("AddModifierExtension").Call(jen.Id("ext").Op("...")))
	}

	for _, fs := range t.fields {
		target := jen.Id("b").Dot(fs.private)
		switch {
		case fs.list:
			setter(fs.method, jen.Id("v").Op("...").Add(fs.elem(e.namer)),
				jen.Id("b").Dot(fs.private).Op("=").Append(jen.Id("b").Dot(fs.private), jen.Id("v").Op("...")))
			setter("Replace"+fs.method, jen.Id("v").Add(fs.goType(e.namer)),
				jen.Id("b").Dot(fs.private).Op("=").Qual(datatypePkg, "ReplaceList").Call(
					jen.Op("&").Id("b").Dot("ElementBuilder"), jen.Lit(fs.def.Name), jen.Id("v"),
				))
		case fs.choice:
			e.f.Commentf("%s sets %s[x] to any node; Build checks the alternative.", fs.method, fs.def.Name)
			setter(fs.method, jen.Id("v").Qual(elementPkg, "Node"),
				jen.If(jen.Qual(elementPkg, "IsNil").Call(jen.Id("v"))).Block(jen.Id("v").Op("=").Nil()),
				target.Clone().Op("=").Id("v"))
			for _, code := range fs.def.Types {
				setter(fs.method+e.exported(code), jen.Id("v").Add(e.goType(code)),
					jen.Id("b").Dot(fs.private).Op("=").Qual(elementPkg, "NodeOf").Call(jen.Id("v")))
			}
		default:
			setter(fs.method, jen.Id("v").Add(fs.goType(e.namer)), target.Op("=").Id("v"))
		}
	}

	r := t.recv
	e.f.Commentf("Build validates the %s and returns it.", t.def.Name)
	e.f.Func().Params(self()).Id("Build").Params(
		jen.Id("opts").Op("...").Qual(validatePkg, "Option"),
	).Params(jen.Op("*").Id(t.name), jen.Error()).Block(
		jen.Id(r).Op(":=").Op("&").Id(t.name).ValuesFunc(func(g *jen.Group) {
			g.Line().Id(t.base.embed).Op(":").Id("b").Dot(t.base.build).Call()
			for _, fs := range t.fields {
				g.Line().Id(fs.private).Op(":").Add(cloned(fs, jen.Id("b").Dot(fs.private)))
			}
			g.Line()
		}),
		jen.If(
			jen.Err().Op(":=").Qual(validatePkg, "Run").Call(jen.Id(r), jen.Id("b").Dot("Options").Call(jen.Id("opts")).Op("...")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Id(r).Dot("hash").Op("=").Id(r).Dot("computeHash").Call(),
		jen.Return(jen.Id(r), jen.Nil()),
	)
}
