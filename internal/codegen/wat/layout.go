package wat

import (
	"github.com/sechmo/cool-wasm/internal/symbol"
	"github.com/sechmo/cool-wasm/internal/types"
)

func (g *Generator) emitImports() {
	g.module.Imports = []List{
		L("import", `"cool"`, `"abortTag"`, L("tag", abortTag, L("param", "i32"))),
		L("import", `"cool"`, `"outStringHelper"`, L("func", outStringFunc,
			L("param", g.valueType(g.names.String)),
			L("param", ref(lengthHelperTy)),
			L("param", ref(charAtHelperTy)))),
		L("import", `"cool"`, `"outIntHelper"`, L("func", outIntFunc, L("param", "i32"))),
	}
}

// emitTypes lays out the rec group. Classes come parents first so every
// subtype follows its supertype.
func (g *Generator) emitTypes(order []symbol.Symbol) {
	str := g.valueType(g.names.String)
	t := []List{
		L("type", charsArr, L("array", L("mut", "i8"))),
		L("type", newSignature, L("func", L("result", ref(g.n.class(g.names.Object))))),
		L("type", lengthHelperTy, L("func", L("param", str), L("result", "i32"))),
		L("type", charAtHelperTy, L("func", L("param", str), L("param", "i32"), L("result", "i32"))),
	}
	for _, cls := range order {
		for _, sig := range g.env.ClassMethods(cls, cls) {
			if sig.Origin == types.OriginNew {
				t = append(t, g.signatureType(sig))
			}
		}
		t = append(t, g.subtype(cls, g.n.vtableType(cls), g.vtableFields(cls)))
		t = append(t, g.subtype(cls, g.n.class(cls), g.structFields(cls)))
	}
	g.module.Types = t
}

func (g *Generator) signatureType(sig *types.MethodSignature) List {
	fn := L("func", L("param", g.valueType(sig.Intro)))
	for _, arg := range sig.Args {
		fn = append(fn, L("param", g.valueType(arg.Type)))
	}
	fn = append(fn, L("result", g.valueType(g.returnLayout(sig))))
	return L("type", sig.Names.Signature, fn)
}

// subtype declares name as an open struct type, extending the matching
// type of the parent class when there is one.
func (g *Generator) subtype(cls symbol.Symbol, name string, fields []Node) List {
	sub := L("sub")
	if parent, ok := g.classes.Parent(cls); ok {
		if name == g.n.class(cls) {
			sub = append(sub, Atom(g.n.class(parent)))
		} else {
			sub = append(sub, Atom(g.n.vtableType(parent)))
		}
	}
	sub = append(sub, L("struct", fields))
	return L("type", name, sub)
}

func (g *Generator) vtableFields(cls symbol.Symbol) []Node {
	fields := []Node{L("field", newField, ref(newSignature))}
	for _, sig := range g.env.ClassMethods(cls, cls) {
		fields = append(fields, L("field", field(sig.Name), ref(sig.Names.Signature)))
	}
	return fields
}

// structFields lists $#vt and then every attribute by slot, so a parent's
// fields are always a prefix of its children's.
func (g *Generator) structFields(cls symbol.Symbol) []Node {
	fields := []Node{L("field", vtField, ref(g.n.vtableType(cls)))}
	switch cls {
	case g.names.Int, g.names.Bool:
		return append(fields, L("field", valField, "i32"))
	case g.names.String:
		return append(fields, L("field", charsField, ref(charsArr)))
	}
	for _, at := range g.env.ClassAllAttrs(cls, cls) {
		fields = append(fields, L("field", field(at.Name), L("mut", g.valueType(g.attrLayout(at)))))
	}
	return fields
}

// vtableEntry is the function stored in the slot of sig in the vtable of
// cls. Inherited copy and type_name get a body per class.
func (g *Generator) vtableEntry(cls symbol.Symbol, sig *types.MethodSignature) string {
	if (sig.Name == g.names.Copy || sig.Name == g.names.TypeName) && sig.Definer == g.names.Object {
		return g.n.perClass(cls, sig.Name)
	}
	return sig.Names.Implementation
}

func (g *Generator) emitVtables(order []symbol.Symbol) {
	for _, cls := range order {
		vt := L("struct.new", g.n.vtableType(cls), L("ref.func", g.n.newVirtual(cls)))
		for _, sig := range g.env.ClassMethods(cls, cls) {
			vt = append(vt, L("ref.func", g.vtableEntry(cls, sig)))
		}
		g.module.Globals = append(g.module.Globals,
			L("global", g.n.vtableGlobal(cls), ref(g.n.vtableType(cls)), vt))
	}
}
