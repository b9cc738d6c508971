package wat

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/symbol"
	"github.com/sechmo/cool-wasm/internal/types"
)

// emitClass emits every function owned by cls.
func (g *Generator) emitClass(cls symbol.Symbol) {
	g.current = cls
	g.scope.Enter()
	defer g.scope.MustExit()
	for _, at := range g.env.ClassAllAttrs(cls, cls) {
		g.scope.MustAdd(at.Name, Binding{Origin: BindClass, Type: at.Type})
	}

	g.emitNew(cls)
	g.emitNewVirtual(cls)
	if !g.names.IsPrimitive(cls) {
		g.emitInit(cls)
	}

	for _, sig := range g.env.ClassMethods(cls, cls) {
		if sig.Definer == g.names.Object && (sig.Name == g.names.Copy || sig.Name == g.names.TypeName) {
			if sig.Name == g.names.Copy {
				g.emitCopy(cls)
			} else {
				g.emitTypeName(cls)
			}
		}
	}
	for _, sig := range g.env.ClassMethods(cls, cls) {
		if sig.Origin == types.OriginNew {
			g.emitGeneric(cls, sig)
		}
	}

	if g.classes.IsBasic(cls) {
		return
	}
	for _, feat := range g.classes.Class(cls).Features {
		if m, ok := feat.(*ast.Method); ok {
			g.emitMethod(cls, m)
		}
	}
}

// emitInit runs the parent initialiser and then the initialisers of the
// attributes declared by cls, in declaration order.
func (g *Generator) emitInit(cls symbol.Symbol) {
	f := newFn(g.n.initFunc(cls))
	f.param(selfLocal, g.valueType(cls))
	if parent, ok := g.classes.Parent(cls); ok {
		f.op("call", g.n.initFunc(parent), get(selfLocal))
	}

	if !g.classes.IsBasic(cls) {
		for _, feat := range g.classes.Class(cls).Features {
			attr, ok := feat.(*ast.Attribute)
			if !ok || ast.IsNoExpr(attr.Init) {
				continue
			}
			at := g.env.ClassAttrType(cls, attr.Name, cls)
			f.op("local.get", selfLocal)
			g.genAs(f, attr.Init, g.attrLayout(at))
			f.op("struct.set", g.n.class(cls), field(attr.Name))
		}
	}
	g.addFunc(f.list())
}

// emitMethod emits the implementation of m in cls. An override receives
// the receiver typed at the introducing class and narrows it.
func (g *Generator) emitMethod(cls symbol.Symbol, m *ast.Method) {
	sig := g.env.ClassMethodSignature(cls, m.Name, cls)
	if sig == nil || sig.Definer != cls {
		panic(fmt.Sprintf("wat: method %s.%s has no signature", cls, m.Name))
	}

	f := newFn(sig.Names.Implementation).typed(sig.Names.Signature)
	if sig.Intro == cls {
		f.param(selfLocal, g.valueType(cls))
	} else {
		f.param(recvParam, g.valueType(sig.Intro))
		f.local(selfLocal, g.valueType(cls))
		f.op("local.set", selfLocal, L("ref.cast", g.valueType(cls), get(recvParam)))
	}

	g.scope.Enter()
	defer g.scope.MustExit()
	for _, formal := range m.Formals {
		f.param(local(formal.Name), g.valueType(formal.TypeDecl))
		g.scope.MustAdd(formal.Name, Binding{Origin: BindLocal, Type: formal.TypeDecl})
	}
	ret := g.returnLayout(sig)
	f.result(g.valueType(ret))
	g.genAs(f, m.Body, ret)
	g.addFunc(f.list())
}
