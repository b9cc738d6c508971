package wat

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// genExpr emits e and returns the class whose reference type is on the
// stack. That class may be a supertype of the static type of e when a
// method returning SELF_TYPE was called; genAs narrows it.
func (g *Generator) genExpr(f *fnBuilder, e ast.Expr) symbol.Symbol {
	switch e := e.(type) {
	case *ast.IntConst:
		v, err := ParseInt(e.Token)
		if err != nil {
			panic(fmt.Sprintf("wat: %v", err))
		}
		f.op("global.get", g.pool.IntGlobal(v))
		return g.names.Int
	case *ast.StringConst:
		f.op("global.get", g.pool.StringGlobal(e.Value))
		return g.names.String
	case *ast.BoolConst:
		if e.Value {
			f.op("global.get", boolTrueGlobal)
		} else {
			f.op("global.get", boolFalseGlobal)
		}
		return g.names.Bool
	case *ast.ObjectExpr:
		return g.genObject(f, e)
	case *ast.AssignExpr:
		return g.genAssign(f, e)
	case *ast.NewExpr:
		return g.genNew(f, e)
	case *ast.DispatchExpr:
		return g.genDispatch(f, e)
	case *ast.StaticDispatchExpr:
		return g.genStaticDispatch(f, e)
	case *ast.CondExpr:
		return g.genCond(f, e)
	case *ast.LoopExpr:
		return g.genLoop(f, e)
	case *ast.BlockExpr:
		return g.genBlock(f, e)
	case *ast.BinaryExpr:
		return g.genBinary(f, e)
	case *ast.UnaryExpr:
		return g.genUnary(f, e)
	case *ast.LetExpr:
		return g.genLet(f, e)
	case *ast.CaseExpr:
		return g.genCase(f, e)
	}
	panic(fmt.Sprintf("wat: cannot generate %T", e))
}

// genAs emits e as a value of class want.
func (g *Generator) genAs(f *fnBuilder, e ast.Expr, want symbol.Symbol) {
	g.coerce(f, g.genExpr(f, e), want)
}

func (g *Generator) coerce(f *fnBuilder, have, want symbol.Symbol) {
	if g.classes.IsSubclass(have, want, g.current) {
		return
	}
	f.op("ref.cast", g.valueType(want))
}

func (g *Generator) lookup(name symbol.Symbol) Binding {
	b, ok := g.scope.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("wat: identifier %s is not bound", name))
	}
	return b
}

func (g *Generator) genObject(f *fnBuilder, e *ast.ObjectExpr) symbol.Symbol {
	if e.Name == g.names.Self {
		f.op("local.get", selfLocal)
		return g.current
	}
	b := g.lookup(e.Name)
	if b.Origin == BindClass {
		at := g.env.ClassAttrType(g.current, e.Name, g.current)
		f.op("local.get", selfLocal)
		f.op("struct.get", g.n.class(g.current), field(e.Name))
		return g.attrLayout(at)
	}
	f.op("local.get", local(e.Name))
	return g.layout(b.Type)
}

func (g *Generator) genAssign(f *fnBuilder, e *ast.AssignExpr) symbol.Symbol {
	b := g.lookup(e.Name)
	if b.Origin == BindLocal {
		want := g.layout(b.Type)
		g.genAs(f, e.Value, want)
		f.op("local.tee", local(e.Name))
		f.assigned[e.Name] = true
		return want
	}

	want := g.attrLayout(g.env.ClassAttrType(g.current, e.Name, g.current))
	g.genAs(f, e.Value, want)
	tmp := f.temp(g.valueType(want))
	f.op("local.set", tmp)
	f.op("struct.set", g.n.class(g.current), field(e.Name), get(selfLocal), get(tmp))
	f.op("local.get", tmp)
	return want
}

func (g *Generator) genNew(f *fnBuilder, e *ast.NewExpr) symbol.Symbol {
	if e.TypeName != g.names.SelfType {
		f.op("call", g.n.newFunc(e.TypeName))
		return e.TypeName
	}
	f.op("local.get", selfLocal)
	f.op("struct.get", g.n.class(g.current), vtField)
	f.op("struct.get", g.n.vtableType(g.current), newField)
	f.op("call_ref", newSignature)
	return g.names.Object
}

func (g *Generator) genBlock(f *fnBuilder, e *ast.BlockExpr) symbol.Symbol {
	if len(e.Body) == 0 {
		f.op("ref.null", g.n.class(g.names.Object))
		return g.names.Object
	}
	var last symbol.Symbol
	for i, ex := range e.Body {
		last = g.genExpr(f, ex)
		if i < len(e.Body)-1 {
			f.op("drop")
		}
	}
	return last
}

// unbox emits e as a raw i32 of the basic class cls.
func (g *Generator) unbox(f *fnBuilder, e ast.Expr, cls symbol.Symbol) {
	g.genAs(f, e, cls)
	f.op("call", g.n.toI32(cls))
}

func (g *Generator) box(f *fnBuilder, cls symbol.Symbol) symbol.Symbol {
	f.op("call", g.n.fromI32(cls))
	return cls
}
