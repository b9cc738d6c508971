package wat

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/symbol"
	"github.com/sechmo/cool-wasm/internal/types"
)

func (g *Generator) signature(cls, meth symbol.Symbol) *types.MethodSignature {
	sig := g.env.ClassMethodSignature(cls, meth, g.current)
	if sig == nil {
		panic(fmt.Sprintf("wat: class %s has no method %s", cls, meth))
	}
	return sig
}

// genCall evaluates the arguments left to right, then the receiver, and
// calls target with the receiver first.
func (g *Generator) genCall(f *fnBuilder, sig *types.MethodSignature, recv ast.Expr, args []ast.Expr, target string) symbol.Symbol {
	tmps := make([]string, len(args))
	for i, arg := range args {
		g.genAs(f, arg, sig.Args[i].Type)
		tmps[i] = f.temp(g.valueType(sig.Args[i].Type))
		f.op("local.set", tmps[i])
	}
	g.genAs(f, recv, sig.Intro)
	for _, tmp := range tmps {
		f.op("local.get", tmp)
	}
	f.op("call", target)
	return g.returnLayout(sig)
}

func (g *Generator) genDispatch(f *fnBuilder, e *ast.DispatchExpr) symbol.Symbol {
	sig := g.signature(e.Receiver.Type(), e.Method)
	return g.genCall(f, sig, e.Receiver, e.Args, sig.Names.Generic)
}

// genStaticDispatch calls the implementation seen from the target class.
// copy and type_name always go through the trampoline.
func (g *Generator) genStaticDispatch(f *fnBuilder, e *ast.StaticDispatchExpr) symbol.Symbol {
	sig := g.signature(e.Target, e.Method)
	target := sig.Names.Implementation
	if e.Method == g.names.Copy || e.Method == g.names.TypeName {
		target = sig.Names.Generic
	}
	return g.genCall(f, sig, e.Receiver, e.Args, target)
}

func (g *Generator) genPredicate(f *fnBuilder, pred ast.Expr) {
	g.unbox(f, pred, g.names.Bool)
}

func (g *Generator) genCond(f *fnBuilder, e *ast.CondExpr) symbol.Symbol {
	want := g.layout(e.Type())
	g.genPredicate(f, e.Pred)
	then := f.capture(func() { g.genAs(f, e.Then, want) })
	els := f.capture(func() { g.genAs(f, e.Else, want) })
	f.op("if", L("result", g.valueType(want)), L("then", then), L("else", els))
	return want
}

func (g *Generator) genLoop(f *fnBuilder, e *ast.LoopExpr) symbol.Symbol {
	exit := f.label("break")
	next := f.label("loop")
	body := f.capture(func() {
		g.genPredicate(f, e.Pred)
		f.op("i32.eqz")
		f.op("br_if", exit)
		g.genExpr(f, e.Body)
		f.op("drop")
		f.op("br", next)
	})
	f.op("block", exit, L("loop", next, body))
	f.op("ref.null", g.n.class(g.names.Object))
	return g.names.Object
}
