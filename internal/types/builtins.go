package types

import (
	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// BasicClassesFile is the pseudo filename attached to builtin classes.
const BasicClassesFile = "<basic classes>"

// basicClasses returns the builtin class declarations in installation
// order: Object, IO, Int, Bool, String.
func basicClasses(n *Names) []*ast.Class {
	loc := diag.Span{Filename: BasicClassesFile}
	none := func() ast.Expr { return ast.NewNoExpr(loc) }
	method := func(name symbol.Symbol, ret symbol.Symbol, formals ...*ast.Formal) ast.Feature {
		return ast.NewMethod(name, formals, ret, none(), loc)
	}
	formal := func(name, typ symbol.Symbol) *ast.Formal {
		return ast.NewFormal(name, typ, loc)
	}
	attr := func(name, typ symbol.Symbol) ast.Feature {
		return ast.NewAttribute(name, typ, none(), loc)
	}

	return []*ast.Class{
		ast.NewClass(n.Object, n.NoClass, []ast.Feature{
			method(n.Abort, n.Object),
			method(n.TypeName, n.String),
			method(n.Copy, n.SelfType),
		}, loc),
		ast.NewClass(n.IO, n.Object, []ast.Feature{
			method(n.OutString, n.SelfType, formal(n.Arg, n.String)),
			method(n.OutInt, n.SelfType, formal(n.Arg, n.Int)),
			method(n.InString, n.String),
			method(n.InInt, n.Int),
		}, loc),
		ast.NewClass(n.Int, n.Object, []ast.Feature{
			attr(n.Val, n.PrimSlot),
		}, loc),
		ast.NewClass(n.Bool, n.Object, []ast.Feature{
			attr(n.Val, n.PrimSlot),
		}, loc),
		ast.NewClass(n.String, n.Object, []ast.Feature{
			attr(n.Val, n.Int),
			attr(n.StrField, n.PrimSlot),
			method(n.Length, n.Int),
			method(n.Concat, n.String, formal(n.Arg, n.String)),
			method(n.Substr, n.String, formal(n.Arg, n.Int), formal(n.Arg2, n.Int)),
		}, loc),
	}
}
