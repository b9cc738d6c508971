package wat

import (
	"fmt"
	"sort"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// A let or case body runs in a lifted function of its own. The function
// receives self and every local visible at the lifting point as explicit
// parameters. Locals that the body assigns are returned after the value
// and stored back by the caller, so the enclosing function observes them.

type liftParam struct {
	name symbol.Symbol
	typ  symbol.Symbol
}

// liftParams lists the visible locals. A newly bound name takes the slot
// of the local it shadows, or is appended.
func (g *Generator) liftParams(bound, typ symbol.Symbol) []liftParam {
	var out []liftParam
	replaced := false
	for _, e := range g.scope.Visible() {
		if e.Value.Origin != BindLocal {
			continue
		}
		if !bound.IsZero() && e.Key == bound {
			out = append(out, liftParam{name: bound, typ: typ})
			replaced = true
			continue
		}
		out = append(out, liftParam{name: e.Key, typ: e.Value.Type})
	}
	if !bound.IsZero() && !replaced {
		out = append(out, liftParam{name: bound, typ: typ})
	}
	return out
}

func (g *Generator) liftName(kind string) string {
	name := fmt.Sprintf("$%s.%s.%d", g.current, kind, g.lifted)
	g.lifted++
	return name
}

// liftedFn starts a lifted function taking self, then extra, then params.
func (g *Generator) liftedFn(name string, params []liftParam, extra ...List) *fnBuilder {
	f := newFn(name)
	f.param(selfLocal, g.valueType(g.current))
	for _, p := range extra {
		f.params = append(f.params, p)
	}
	for _, p := range params {
		f.param(local(p.name), g.valueType(g.layout(p.typ)))
	}
	return f
}

// finishLifted declares the results of f and appends the write-back of
// every forwarded local f assigned, except bound which is local to f.
func (g *Generator) finishLifted(f *fnBuilder, params []liftParam, value, bound symbol.Symbol) []liftParam {
	f.result(g.valueType(value))
	var back []liftParam
	for _, p := range params {
		if p.name == bound || !f.assigned[p.name] {
			continue
		}
		back = append(back, p)
		f.result(g.valueType(g.layout(p.typ)))
		f.op("local.get", local(p.name))
	}
	return back
}

// callLifted calls name, whose arguments are already on the stack, and
// stores the returned locals, leaving the value.
func (g *Generator) callLifted(f *fnBuilder, name string, back []liftParam) {
	f.op("call", name)
	for i := len(back) - 1; i >= 0; i-- {
		f.op("local.set", local(back[i].name))
		f.assigned[back[i].name] = true
	}
}

func (g *Generator) genLet(f *fnBuilder, e *ast.LetExpr) symbol.Symbol {
	declared := g.layout(e.TypeDecl)
	if ast.IsNoExpr(e.Init) {
		f.emit(g.defaultValue(e.TypeDecl))
	} else {
		g.genAs(f, e.Init, declared)
	}
	init := f.temp(g.valueType(declared))
	f.op("local.set", init)

	params := g.liftParams(e.Name, e.TypeDecl)
	name := g.liftName("let")
	value := g.layout(e.Type())

	g.scope.Enter()
	g.scope.MustAdd(e.Name, Binding{Origin: BindLocal, Type: e.TypeDecl})
	lf := g.liftedFn(name, params)
	g.genAs(lf, e.Body, value)
	back := g.finishLifted(lf, params, value, e.Name)
	g.scope.MustExit()
	g.addFunc(lf.list())

	f.op("local.get", selfLocal)
	for _, p := range params {
		if p.name == e.Name {
			f.op("local.get", init)
		} else {
			f.op("local.get", local(p.name))
		}
	}
	g.callLifted(f, name, back)
	return value
}

// caseOrder sorts branches deepest guard first so the first matching test
// is the closest ancestor of the runtime class. Ties keep source order.
func (g *Generator) caseOrder(branches []*ast.Branch) []*ast.Branch {
	out := append([]*ast.Branch(nil), branches...)
	sort.SliceStable(out, func(i, j int) bool {
		return g.classes.Depth(out[i].TypeDecl) > g.classes.Depth(out[j].TypeDecl)
	})
	return out
}

func (g *Generator) genCase(f *fnBuilder, e *ast.CaseExpr) symbol.Symbol {
	obj := g.names.Object
	g.genAs(f, e.Scrutinee, obj)
	scrut := f.temp(g.valueType(obj))
	f.op("local.set", scrut)

	value := g.layout(e.Type())
	params := g.liftParams(symbol.Symbol{}, symbol.Symbol{})
	name := g.liftName("case")
	cf := g.liftedFn(name, params, L("param", scrutParam, g.valueType(obj)))

	done := cf.label("matched")
	cascade := []Node{L("result", g.valueType(value))}
	for i, br := range g.caseOrder(e.Branches) {
		branch := fmt.Sprintf("%s.branch.%d", name, i)
		bparams := g.liftParams(br.Name, br.TypeDecl)

		g.scope.Enter()
		g.scope.MustAdd(br.Name, Binding{Origin: BindLocal, Type: br.TypeDecl})
		bf := g.liftedFn(branch, bparams)
		g.genAs(bf, br.Body, value)
		back := g.finishLifted(bf, bparams, value, br.Name)
		g.scope.MustExit()
		g.addFunc(bf.list())

		guard := ref(g.n.class(br.TypeDecl))
		call := cf.capture(func() {
			cf.op("local.get", selfLocal)
			for _, p := range bparams {
				if p.name == br.Name {
					cf.op("ref.cast", guard, get(scrutParam))
				} else {
					cf.op("local.get", local(p.name))
				}
			}
			g.callLifted(cf, branch, back)
			cf.op("br", done)
		})
		cascade = append(cascade, L("if", L("ref.test", guard, get(scrutParam)), L("then", call)))
	}
	cascade = append(cascade, L("throw", abortTag, L("i32.const", AbortNoBranch)))
	cf.op("block", done, cascade)
	back := g.finishLifted(cf, params, value, symbol.Symbol{})
	g.addFunc(cf.list())

	f.op("local.get", selfLocal)
	f.op("local.get", scrut)
	for _, p := range params {
		f.op("local.get", local(p.name))
	}
	g.callLifted(f, name, back)
	return value
}
