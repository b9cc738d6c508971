// Package ast defines the class, feature and expression nodes consumed by
// the semantic checker and the code generator.
//
// The tree is built once (by a decoder or by hand in tests) and is
// structurally immutable afterwards. The type checker only annotates
// expressions through SetType.
package ast

import (
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// Node represents any AST node with an associated source span.
type Node interface {
	Span() diag.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	// Type returns the static type recorded by the checker, or the zero
	// symbol before checking.
	Type() symbol.Symbol
	SetType(symbol.Symbol)
	exprNode()
}

// Feature is a class member: a method or an attribute.
type Feature interface {
	Node
	FeatureName() symbol.Symbol
	featureNode()
}

// typed carries the static type annotation shared by every expression.
type typed struct {
	typ symbol.Symbol
}

// Type returns the annotated static type.
func (t *typed) Type() symbol.Symbol { return t.typ }

// SetType records the static type.
func (t *typed) SetType(s symbol.Symbol) { t.typ = s }

// Program is the root of the tree.
type Program struct {
	Classes []*Class
	span    diag.Span
}

// Span returns the program span.
func (p *Program) Span() diag.Span { return p.span }

// NewProgram constructs a program node.
func NewProgram(classes []*Class, span diag.Span) *Program {
	return &Program{Classes: classes, span: span}
}

// Class is a class declaration. Parent is the zero symbol when the
// declaration names no parent.
type Class struct {
	Name     symbol.Symbol
	Parent   symbol.Symbol
	Features []Feature
	span     diag.Span
}

// Span returns the declaration span.
func (c *Class) Span() diag.Span { return c.span }

// NewClass constructs a class declaration node.
func NewClass(name, parent symbol.Symbol, features []Feature, span diag.Span) *Class {
	return &Class{
		Name:     name,
		Parent:   parent,
		Features: features,
		span:     span,
	}
}

// Method is a method declaration.
type Method struct {
	Name       symbol.Symbol
	Formals    []*Formal
	ReturnType symbol.Symbol
	Body       Expr
	span       diag.Span
}

// Span returns the declaration span.
func (m *Method) Span() diag.Span { return m.span }

// FeatureName returns the method name.
func (m *Method) FeatureName() symbol.Symbol { return m.Name }

// NewMethod constructs a method declaration node.
func NewMethod(name symbol.Symbol, formals []*Formal, ret symbol.Symbol, body Expr, span diag.Span) *Method {
	return &Method{
		Name:       name,
		Formals:    formals,
		ReturnType: ret,
		Body:       body,
		span:       span,
	}
}

func (*Method) featureNode() {}

// Attribute is an attribute declaration. Init is a *NoExpr when absent.
type Attribute struct {
	Name     symbol.Symbol
	TypeDecl symbol.Symbol
	Init     Expr
	span     diag.Span
}

// Span returns the declaration span.
func (a *Attribute) Span() diag.Span { return a.span }

// FeatureName returns the attribute name.
func (a *Attribute) FeatureName() symbol.Symbol { return a.Name }

// NewAttribute constructs an attribute declaration node.
func NewAttribute(name, typeDecl symbol.Symbol, init Expr, span diag.Span) *Attribute {
	return &Attribute{
		Name:     name,
		TypeDecl: typeDecl,
		Init:     init,
		span:     span,
	}
}

func (*Attribute) featureNode() {}

// Formal is a method parameter.
type Formal struct {
	Name     symbol.Symbol
	TypeDecl symbol.Symbol
	span     diag.Span
}

// Span returns the parameter span.
func (f *Formal) Span() diag.Span { return f.span }

// NewFormal constructs a formal parameter node.
func NewFormal(name, typeDecl symbol.Symbol, span diag.Span) *Formal {
	return &Formal{Name: name, TypeDecl: typeDecl, span: span}
}

// Branch is one arm of a case expression.
type Branch struct {
	Name     symbol.Symbol
	TypeDecl symbol.Symbol
	Body     Expr
	span     diag.Span
}

// Span returns the branch span.
func (b *Branch) Span() diag.Span { return b.span }

// NewBranch constructs a case branch node.
func NewBranch(name, typeDecl symbol.Symbol, body Expr, span diag.Span) *Branch {
	return &Branch{
		Name:     name,
		TypeDecl: typeDecl,
		Body:     body,
		span:     span,
	}
}
