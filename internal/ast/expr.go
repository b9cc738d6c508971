package ast

import (
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// NoExpr stands for an absent initializer.
type NoExpr struct {
	typed
	span diag.Span
}

// Span returns the expression span.
func (e *NoExpr) Span() diag.Span { return e.span }

// NewNoExpr constructs an empty expression placeholder.
func NewNoExpr(span diag.Span) *NoExpr { return &NoExpr{span: span} }

func (*NoExpr) exprNode() {}

// IsNoExpr reports whether e is the absent-expression placeholder.
func IsNoExpr(e Expr) bool {
	_, ok := e.(*NoExpr)
	return e == nil || ok
}

// BlockExpr evaluates its expressions in order and yields the last one.
type BlockExpr struct {
	typed
	Body []Expr
	span diag.Span
}

// Span returns the block span.
func (e *BlockExpr) Span() diag.Span { return e.span }

// NewBlockExpr constructs a block expression node.
func NewBlockExpr(body []Expr, span diag.Span) *BlockExpr {
	return &BlockExpr{Body: body, span: span}
}

func (*BlockExpr) exprNode() {}

// AssignExpr stores Value into the variable Name.
type AssignExpr struct {
	typed
	Name  symbol.Symbol
	Value Expr
	span  diag.Span
}

// Span returns the expression span.
func (e *AssignExpr) Span() diag.Span { return e.span }

// NewAssignExpr constructs an assignment node.
func NewAssignExpr(name symbol.Symbol, value Expr, span diag.Span) *AssignExpr {
	return &AssignExpr{Name: name, Value: value, span: span}
}

func (*AssignExpr) exprNode() {}

// DispatchExpr is a dynamic call Receiver.Method(Args).
type DispatchExpr struct {
	typed
	Receiver Expr
	Method   symbol.Symbol
	Args     []Expr
	span     diag.Span
}

// Span returns the expression span.
func (e *DispatchExpr) Span() diag.Span { return e.span }

// NewDispatchExpr constructs a dynamic dispatch node.
func NewDispatchExpr(recv Expr, method symbol.Symbol, args []Expr, span diag.Span) *DispatchExpr {
	return &DispatchExpr{
		Receiver: recv,
		Method:   method,
		Args:     args,
		span:     span,
	}
}

func (*DispatchExpr) exprNode() {}

// StaticDispatchExpr is a call Receiver@Target.Method(Args) bound to the
// implementation visible in Target.
type StaticDispatchExpr struct {
	typed
	Receiver Expr
	Target   symbol.Symbol
	Method   symbol.Symbol
	Args     []Expr
	span     diag.Span
}

// Span returns the expression span.
func (e *StaticDispatchExpr) Span() diag.Span { return e.span }

// NewStaticDispatchExpr constructs a static dispatch node.
func NewStaticDispatchExpr(recv Expr, target, method symbol.Symbol, args []Expr, span diag.Span) *StaticDispatchExpr {
	return &StaticDispatchExpr{
		Receiver: recv,
		Target:   target,
		Method:   method,
		Args:     args,
		span:     span,
	}
}

func (*StaticDispatchExpr) exprNode() {}

// CondExpr is if Pred then Then else Else fi.
type CondExpr struct {
	typed
	Pred Expr
	Then Expr
	Else Expr
	span diag.Span
}

// Span returns the expression span.
func (e *CondExpr) Span() diag.Span { return e.span }

// NewCondExpr constructs a conditional node.
func NewCondExpr(pred, then, els Expr, span diag.Span) *CondExpr {
	return &CondExpr{Pred: pred, Then: then, Else: els, span: span}
}

func (*CondExpr) exprNode() {}

// LoopExpr is while Pred loop Body pool.
type LoopExpr struct {
	typed
	Pred Expr
	Body Expr
	span diag.Span
}

// Span returns the expression span.
func (e *LoopExpr) Span() diag.Span { return e.span }

// NewLoopExpr constructs a loop node.
func NewLoopExpr(pred, body Expr, span diag.Span) *LoopExpr {
	return &LoopExpr{Pred: pred, Body: body, span: span}
}

func (*LoopExpr) exprNode() {}

// CaseExpr selects a branch by the runtime class of Scrutinee.
type CaseExpr struct {
	typed
	Scrutinee Expr
	Branches  []*Branch
	span      diag.Span
}

// Span returns the expression span.
func (e *CaseExpr) Span() diag.Span { return e.span }

// NewCaseExpr constructs a case node.
func NewCaseExpr(scrutinee Expr, branches []*Branch, span diag.Span) *CaseExpr {
	return &CaseExpr{Scrutinee: scrutinee, Branches: branches, span: span}
}

func (*CaseExpr) exprNode() {}

// LetExpr binds a single variable. Multi-binding lets are nested LetExprs.
type LetExpr struct {
	typed
	Name     symbol.Symbol
	TypeDecl symbol.Symbol
	Init     Expr
	Body     Expr
	span     diag.Span
}

// Span returns the expression span.
func (e *LetExpr) Span() diag.Span { return e.span }

// NewLetExpr constructs a let node.
func NewLetExpr(name, typeDecl symbol.Symbol, init, body Expr, span diag.Span) *LetExpr {
	return &LetExpr{
		Name:     name,
		TypeDecl: typeDecl,
		Init:     init,
		Body:     body,
		span:     span,
	}
}

func (*LetExpr) exprNode() {}

// BinaryOp enumerates the binary operators.
type BinaryOp int

const (
	OpPlus BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpLt
	OpLeq
	OpEq
)

var binaryOpNames = [...]string{
	OpPlus: "plus",
	OpSub:  "sub",
	OpMul:  "mul",
	OpDiv:  "divide",
	OpLt:   "lt",
	OpLeq:  "leq",
	OpEq:   "eq",
}

var binaryOpSymbols = [...]string{
	OpPlus: "+",
	OpSub:  "-",
	OpMul:  "*",
	OpDiv:  "/",
	OpLt:   "<",
	OpLeq:  "<=",
	OpEq:   "=",
}

// String returns the dump tag of the operator ("plus", "lt", ...).
func (op BinaryOp) String() string { return binaryOpNames[op] }

// Symbol returns the source spelling of the operator.
func (op BinaryOp) Symbol() string { return binaryOpSymbols[op] }

// IsArithmetic reports whether op yields an Int.
func (op BinaryOp) IsArithmetic() bool { return op <= OpDiv }

// BinaryExpr applies Op to Left and Right.
type BinaryExpr struct {
	typed
	Op    BinaryOp
	Left  Expr
	Right Expr
	span  diag.Span
}

// Span returns the expression span.
func (e *BinaryExpr) Span() diag.Span { return e.span }

// NewBinaryExpr constructs a binary operator node.
func NewBinaryExpr(op BinaryOp, left, right Expr, span diag.Span) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right, span: span}
}

func (*BinaryExpr) exprNode() {}

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpComp
	OpIsVoid
)

var unaryOpNames = [...]string{
	OpNeg:    "neg",
	OpComp:   "comp",
	OpIsVoid: "isvoid",
}

// String returns the dump tag of the operator.
func (op UnaryOp) String() string { return unaryOpNames[op] }

// UnaryExpr applies Op to Operand.
type UnaryExpr struct {
	typed
	Op      UnaryOp
	Operand Expr
	span    diag.Span
}

// Span returns the expression span.
func (e *UnaryExpr) Span() diag.Span { return e.span }

// NewUnaryExpr constructs a unary operator node.
func NewUnaryExpr(op UnaryOp, operand Expr, span diag.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, span: span}
}

func (*UnaryExpr) exprNode() {}

// IntConst is an integer literal. Token is interned in the integer table.
type IntConst struct {
	typed
	Token symbol.Symbol
	span  diag.Span
}

// Span returns the literal span.
func (e *IntConst) Span() diag.Span { return e.span }

// NewIntConst constructs an integer literal node.
func NewIntConst(token symbol.Symbol, span diag.Span) *IntConst {
	return &IntConst{Token: token, span: span}
}

func (*IntConst) exprNode() {}

// StringConst is a string literal. Value is interned in the string table.
type StringConst struct {
	typed
	Value symbol.Symbol
	span  diag.Span
}

// Span returns the literal span.
func (e *StringConst) Span() diag.Span { return e.span }

// NewStringConst constructs a string literal node.
func NewStringConst(value symbol.Symbol, span diag.Span) *StringConst {
	return &StringConst{Value: value, span: span}
}

func (*StringConst) exprNode() {}

// BoolConst is true or false.
type BoolConst struct {
	typed
	Value bool
	span  diag.Span
}

// Span returns the literal span.
func (e *BoolConst) Span() diag.Span { return e.span }

// NewBoolConst constructs a boolean literal node.
func NewBoolConst(value bool, span diag.Span) *BoolConst {
	return &BoolConst{Value: value, span: span}
}

func (*BoolConst) exprNode() {}

// NewExpr allocates a fresh instance of TypeName.
type NewExpr struct {
	typed
	TypeName symbol.Symbol
	span     diag.Span
}

// Span returns the expression span.
func (e *NewExpr) Span() diag.Span { return e.span }

// NewNewExpr constructs an instantiation node.
func NewNewExpr(typeName symbol.Symbol, span diag.Span) *NewExpr {
	return &NewExpr{TypeName: typeName, span: span}
}

func (*NewExpr) exprNode() {}

// ObjectExpr is a reference to a variable, attribute or self.
type ObjectExpr struct {
	typed
	Name symbol.Symbol
	span diag.Span
}

// Span returns the expression span.
func (e *ObjectExpr) Span() diag.Span { return e.span }

// NewObjectExpr constructs an identifier reference node.
func NewObjectExpr(name symbol.Symbol, span diag.Span) *ObjectExpr {
	return &ObjectExpr{Name: name, span: span}
}

func (*ObjectExpr) exprNode() {}
