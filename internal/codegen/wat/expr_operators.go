package wat

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

var binaryInstr = map[ast.BinaryOp]string{
	ast.OpPlus: "i32.add",
	ast.OpSub:  "i32.sub",
	ast.OpMul:  "i32.mul",
	ast.OpDiv:  "i32.div_s",
	ast.OpLt:   "i32.lt_s",
	ast.OpLeq:  "i32.le_s",
}

func (g *Generator) genBinary(f *fnBuilder, e *ast.BinaryExpr) symbol.Symbol {
	if e.Op == ast.OpEq {
		return g.genEquals(f, e)
	}
	instr, ok := binaryInstr[e.Op]
	if !ok {
		panic(fmt.Sprintf("wat: unknown binary operator %v", e.Op))
	}
	g.unbox(f, e.Left, g.names.Int)
	g.unbox(f, e.Right, g.names.Int)
	f.op(instr)
	if e.Op.IsArithmetic() {
		return g.box(f, g.names.Int)
	}
	return g.box(f, g.names.Bool)
}

// genEquals compares basic values by value and everything else through
// the object helper, which also handles boxed values behind Object.
func (g *Generator) genEquals(f *fnBuilder, e *ast.BinaryExpr) symbol.Symbol {
	switch t := e.Left.Type(); t {
	case g.names.Int, g.names.Bool:
		g.unbox(f, e.Left, t)
		g.unbox(f, e.Right, t)
		f.op("i32.eq")
	case g.names.String:
		g.genAs(f, e.Left, t)
		g.genAs(f, e.Right, t)
		f.op("call", equalsHelper)
	default:
		g.genExpr(f, e.Left)
		g.genExpr(f, e.Right)
		f.op("call", objEqHelper)
	}
	return g.box(f, g.names.Bool)
}

func (g *Generator) genUnary(f *fnBuilder, e *ast.UnaryExpr) symbol.Symbol {
	switch e.Op {
	case ast.OpNeg:
		f.op("i32.const", 0)
		g.unbox(f, e.Operand, g.names.Int)
		f.op("i32.sub")
		return g.box(f, g.names.Int)
	case ast.OpComp:
		g.unbox(f, e.Operand, g.names.Bool)
		f.op("i32.eqz")
	case ast.OpIsVoid:
		g.genExpr(f, e.Operand)
		f.op("ref.is_null")
	default:
		panic(fmt.Sprintf("wat: unknown unary operator %v", e.Op))
	}
	return g.box(f, g.names.Bool)
}
