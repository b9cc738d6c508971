package ast

import (
	"strconv"

	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// Builder constructs trees from plain strings, interning names into its
// tables. Every node gets the builder's current file and line.
type Builder struct {
	Syms *symbol.Tables
	File string
	line int
}

// NewBuilder returns a builder positioned at line 1 of file.
func NewBuilder(syms *symbol.Tables, file string) *Builder {
	return &Builder{Syms: syms, File: file, line: 1}
}

// Line moves the builder to line n and returns it.
func (b *Builder) Line(n int) *Builder {
	b.line = n
	return b
}

func (b *Builder) span() diag.Span {
	return diag.Span{Filename: b.File, Line: b.line}
}

// ID interns an identifier.
func (b *Builder) ID(name string) symbol.Symbol { return b.Syms.IDs.Intern(name) }

func (b *Builder) optID(name string) symbol.Symbol {
	if name == "" {
		return symbol.Symbol{}
	}
	return b.ID(name)
}

// Program wraps classes into a program.
func (b *Builder) Program(classes ...*Class) *Program {
	return NewProgram(classes, b.span())
}

// Class declares a class; an empty parent means no inherits clause.
func (b *Builder) Class(name, parent string, features ...Feature) *Class {
	return NewClass(b.ID(name), b.optID(parent), features, b.span())
}

// Method declares a method.
func (b *Builder) Method(name string, formals []*Formal, ret string, body Expr) *Method {
	return NewMethod(b.ID(name), formals, b.ID(ret), body, b.span())
}

// Formals builds a formal list from name/type pairs.
func (b *Builder) Formals(pairs ...string) []*Formal {
	out := make([]*Formal, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, NewFormal(b.ID(pairs[i]), b.ID(pairs[i+1]), b.span()))
	}
	return out
}

// Attr declares an attribute; a nil init means no initializer.
func (b *Builder) Attr(name, typ string, init Expr) *Attribute {
	if init == nil {
		init = b.NoExpr()
	}
	return NewAttribute(b.ID(name), b.ID(typ), init, b.span())
}

// NoExpr returns an absent expression.
func (b *Builder) NoExpr() *NoExpr { return NewNoExpr(b.span()) }

// Int returns an integer literal.
func (b *Builder) Int(v int) *IntConst {
	return NewIntConst(b.Syms.Ints.Intern(strconv.Itoa(v)), b.span())
}

// Str returns a string literal.
func (b *Builder) Str(s string) *StringConst {
	return NewStringConst(b.Syms.Strings.Intern(s), b.span())
}

// Bool returns a boolean literal.
func (b *Builder) Bool(v bool) *BoolConst { return NewBoolConst(v, b.span()) }

// Obj references a variable.
func (b *Builder) Obj(name string) *ObjectExpr { return NewObjectExpr(b.ID(name), b.span()) }

// New instantiates a class.
func (b *Builder) New(typ string) *NewExpr { return NewNewExpr(b.ID(typ), b.span()) }

// Block sequences expressions.
func (b *Builder) Block(body ...Expr) *BlockExpr { return NewBlockExpr(body, b.span()) }

// Assign stores value into name.
func (b *Builder) Assign(name string, value Expr) *AssignExpr {
	return NewAssignExpr(b.ID(name), value, b.span())
}

// Dispatch calls method on recv.
func (b *Builder) Dispatch(recv Expr, method string, args ...Expr) *DispatchExpr {
	return NewDispatchExpr(recv, b.ID(method), args, b.span())
}

// Call calls method on self.
func (b *Builder) Call(method string, args ...Expr) *DispatchExpr {
	return b.Dispatch(b.Obj("self"), method, args...)
}

// Static calls target's method on recv.
func (b *Builder) Static(recv Expr, target, method string, args ...Expr) *StaticDispatchExpr {
	return NewStaticDispatchExpr(recv, b.ID(target), b.ID(method), args, b.span())
}

// If builds a conditional.
func (b *Builder) If(pred, then, els Expr) *CondExpr { return NewCondExpr(pred, then, els, b.span()) }

// While builds a loop.
func (b *Builder) While(pred, body Expr) *LoopExpr { return NewLoopExpr(pred, body, b.span()) }

// Let binds name in body; a nil init means no initializer.
func (b *Builder) Let(name, typ string, init, body Expr) *LetExpr {
	if init == nil {
		init = b.NoExpr()
	}
	return NewLetExpr(b.ID(name), b.ID(typ), init, body, b.span())
}

// Case builds a case expression.
func (b *Builder) Case(scrutinee Expr, branches ...*Branch) *CaseExpr {
	return NewCaseExpr(scrutinee, branches, b.span())
}

// Branch builds a case branch.
func (b *Builder) Branch(name, typ string, body Expr) *Branch {
	return NewBranch(b.ID(name), b.ID(typ), body, b.span())
}

// Binary applies op.
func (b *Builder) Binary(op BinaryOp, left, right Expr) *BinaryExpr {
	return NewBinaryExpr(op, left, right, b.span())
}

// Plus adds two expressions.
func (b *Builder) Plus(left, right Expr) *BinaryExpr { return b.Binary(OpPlus, left, right) }

// Eq compares two expressions.
func (b *Builder) Eq(left, right Expr) *BinaryExpr { return b.Binary(OpEq, left, right) }

// Lt compares two integers.
func (b *Builder) Lt(left, right Expr) *BinaryExpr { return b.Binary(OpLt, left, right) }

// Unary applies op.
func (b *Builder) Unary(op UnaryOp, operand Expr) *UnaryExpr {
	return NewUnaryExpr(op, operand, b.span())
}
