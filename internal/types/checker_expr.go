package types

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// checkExpr types e and every sub-expression, returning the type of e.
func (c *Checker) checkExpr(e ast.Expr) symbol.Symbol {
	n := c.names
	switch x := e.(type) {
	case nil:
		return n.NoType
	case *ast.NoExpr:
		return set(x, n.NoType)
	case *ast.BlockExpr:
		return c.checkBlock(x)
	case *ast.AssignExpr:
		return c.checkAssign(x)
	case *ast.DispatchExpr:
		return c.checkDispatch(x)
	case *ast.StaticDispatchExpr:
		return c.checkStaticDispatch(x)
	case *ast.CondExpr:
		return c.checkCond(x)
	case *ast.LoopExpr:
		return c.checkLoop(x)
	case *ast.CaseExpr:
		return c.checkCase(x)
	case *ast.LetExpr:
		return c.checkLet(x)
	case *ast.BinaryExpr:
		return c.checkBinary(x)
	case *ast.UnaryExpr:
		return c.checkUnary(x)
	case *ast.IntConst:
		return set(x, n.Int)
	case *ast.StringConst:
		return set(x, n.String)
	case *ast.BoolConst:
		return set(x, n.Bool)
	case *ast.NewExpr:
		if x.TypeName != n.SelfType && !c.classes.ClassExists(x.TypeName) {
			c.reportError(diag.CodeTypeUndefinedClass,
				fmt.Sprintf("cannot create an object of undefined type %s", x.TypeName), x.Span())
			return set(x, n.ErrType)
		}
		return set(x, x.TypeName)
	case *ast.ObjectExpr:
		t, ok := c.objects.Lookup(x.Name)
		if !ok {
			c.reportError(diag.CodeTypeUndefinedIdentifier,
				fmt.Sprintf("undefined variable %s", x.Name), x.Span())
			return set(x, n.ErrType)
		}
		return set(x, t)
	}
	panic(fmt.Sprintf("types: unexpected expression %T", e))
}

// checkBlock types a block as its last expression. The grammar requires at
// least one expression; a hand-built empty block is typed Object, matching
// the void value codegen pushes for it.
func (c *Checker) checkBlock(b *ast.BlockExpr) symbol.Symbol {
	last := c.names.Object
	for _, e := range b.Body {
		last = c.checkExpr(e)
	}
	return set(b, last)
}

func (c *Checker) checkAssign(a *ast.AssignExpr) symbol.Symbol {
	n := c.names
	valueType := c.checkExpr(a.Value)

	if a.Name == n.Self {
		c.reportError(diag.CodeTypeReservedName,
			fmt.Sprintf("invalid assignment to reserved name %s", n.Self), a.Span())
		return set(a, n.ErrType)
	}

	expected, ok := c.objects.Lookup(a.Name)
	if !ok {
		c.reportError(diag.CodeTypeCannotAssign,
			fmt.Sprintf("invalid assignment to undefined variable %s", a.Name), a.Span())
		return set(a, n.ErrType)
	}

	if !c.classes.IsSubclass(valueType, expected, c.current) {
		c.reportError(diag.CodeTypeCannotAssign,
			fmt.Sprintf("invalid assignment expression of type %s on variable of type %s", valueType, expected),
			a.Span())
		return set(a, n.ErrType)
	}

	return set(a, valueType)
}

func (c *Checker) checkArgs(args []ast.Expr) []symbol.Symbol {
	out := make([]symbol.Symbol, len(args))
	for i, arg := range args {
		out[i] = c.checkExpr(arg)
	}
	return out
}

// checkCall validates the arguments of a call to sig and returns the
// result type, substituting the receiver type for a SELF_TYPE return.
func (c *Checker) checkCall(sig *MethodSignature, owner, recvType symbol.Symbol, args []ast.Expr, argTypes []symbol.Symbol, span diag.Span) symbol.Symbol {
	if len(args) != len(sig.Args) {
		plural := "s"
		if len(sig.Args) == 1 {
			plural = ""
		}
		c.reportError(diag.CodeTypeArgumentCount,
			fmt.Sprintf("invalid method %s.%s call: expected %d argument%s but got %d",
				owner, sig.Name, len(sig.Args), plural, len(args)),
			span)
	} else {
		for i, arg := range args {
			formal := sig.Args[i]
			if !c.classes.IsSubclass(argTypes[i], formal.Type, c.current) {
				c.reportError(diag.CodeTypeMismatch,
					fmt.Sprintf("invalid argument #%d[%s]: expected expression of type %s but got an expression of type %s",
						i, formal.Name, formal.Type, argTypes[i]),
					arg.Span())
			}
		}
	}

	if sig.Return == c.names.SelfType {
		return recvType
	}
	return sig.Return
}

func (c *Checker) checkDispatch(d *ast.DispatchExpr) symbol.Symbol {
	n := c.names
	recvType := c.checkExpr(d.Receiver)
	argTypes := c.checkArgs(d.Args)

	if recvType == n.ErrType {
		return set(d, n.ErrType)
	}

	sig := c.env.ClassMethodSignature(recvType, d.Method, c.current)
	if sig == nil {
		c.reportError(diag.CodeTypeUndefinedMethod,
			fmt.Sprintf("invalid method call on undefined method %s for class %s", d.Method, recvType),
			d.Span())
		return set(d, n.ErrType)
	}

	return set(d, c.checkCall(sig, recvType, recvType, d.Args, argTypes, d.Span()))
}

func (c *Checker) checkStaticDispatch(d *ast.StaticDispatchExpr) symbol.Symbol {
	n := c.names
	recvType := c.checkExpr(d.Receiver)
	argTypes := c.checkArgs(d.Args)

	if d.Target == n.SelfType {
		c.reportError(diag.CodeTypeInvalidOperation,
			fmt.Sprintf("invalid static dispatch: cannot dispatch from type %s", n.SelfType), d.Span())
		return set(d, n.ErrType)
	}

	if !c.classes.ClassExists(d.Target) {
		c.reportError(diag.CodeTypeUndefinedClass,
			fmt.Sprintf("invalid static dispatch: undefined class %s", d.Target), d.Span())
		return set(d, n.ErrType)
	}

	if !c.classes.IsSubclass(recvType, d.Target, c.current) {
		c.reportError(diag.CodeTypeMismatch,
			fmt.Sprintf("invalid static dispatch: caller of type %s is not a subclass of %s", recvType, d.Target),
			d.Span())
	}

	sig := c.env.ClassMethodSignature(d.Target, d.Method, c.current)
	if sig == nil {
		c.reportError(diag.CodeTypeUndefinedMethod,
			fmt.Sprintf("invalid method call on undefined method %s for class %s", d.Method, d.Target),
			d.Span())
		return set(d, n.ErrType)
	}

	return set(d, c.checkCall(sig, d.Target, recvType, d.Args, argTypes, d.Span()))
}

func (c *Checker) checkPredicate(pred ast.Expr, span diag.Span) {
	t := c.checkExpr(pred)
	if t != c.names.Bool && t != c.names.ErrType {
		c.reportError(diag.CodeTypeMismatch,
			fmt.Sprintf("predicate should be of type %s but there is an expression of type %s instead", c.names.Bool, t),
			span)
	}
}

func (c *Checker) checkCond(e *ast.CondExpr) symbol.Symbol {
	c.checkPredicate(e.Pred, e.Span())
	thenType := c.checkExpr(e.Then)
	elseType := c.checkExpr(e.Else)
	return set(e, c.classes.LeastUpperBound(thenType, elseType, c.current))
}

func (c *Checker) checkLoop(e *ast.LoopExpr) symbol.Symbol {
	c.checkPredicate(e.Pred, e.Span())
	c.checkExpr(e.Body)
	return set(e, c.names.Object)
}

func (c *Checker) checkCase(e *ast.CaseExpr) symbol.Symbol {
	n := c.names
	c.checkExpr(e.Scrutinee)

	result := n.NoType
	first := true
	seen := make(map[symbol.Symbol]bool)
	for _, br := range e.Branches {
		if seen[br.TypeDecl] {
			c.reportError(diag.CodeTypeDuplicateBranch,
				fmt.Sprintf("duplicate type case check for type %s", br.TypeDecl), br.Span())
			continue
		}
		seen[br.TypeDecl] = true

		switch {
		case br.TypeDecl == n.SelfType:
			c.reportError(diag.CodeTypeInvalidOperation,
				fmt.Sprintf("case branch %s cannot be declared with type %s", br.Name, n.SelfType), br.Span())
		case !c.classes.ClassExists(br.TypeDecl):
			c.reportError(diag.CodeTypeUndefinedClass,
				fmt.Sprintf("case branch %s is declared with undefined type %s", br.Name, br.TypeDecl), br.Span())
		}

		c.objects.Enter()
		if br.Name == n.Self {
			c.reportError(diag.CodeTypeReservedName,
				fmt.Sprintf("invalid reserved variable name in case branch: %s", n.Self), br.Span())
		} else {
			c.objects.MustAdd(br.Name, br.TypeDecl)
		}
		bodyType := c.checkExpr(br.Body)
		c.objects.MustExit()

		if first {
			first = false
			result = bodyType
		} else {
			result = c.classes.LeastUpperBound(result, bodyType, c.current)
		}
	}

	return set(e, result)
}

func (c *Checker) checkLet(e *ast.LetExpr) symbol.Symbol {
	n := c.names
	initType := c.checkExpr(e.Init)

	if !c.env.typeDefined(e.TypeDecl) {
		c.reportError(diag.CodeTypeUndefinedClass,
			fmt.Sprintf("variable %s in let is declared with undefined type %s", e.Name, e.TypeDecl), e.Span())
	} else if !ast.IsNoExpr(e.Init) && !c.classes.IsSubclass(initType, e.TypeDecl, c.current) {
		c.reportError(diag.CodeTypeMismatch,
			fmt.Sprintf("invalid initialization expression of type %s for variable %s of type %s", initType, e.Name, e.TypeDecl),
			e.Span())
	}

	c.objects.Enter()
	if e.Name == n.Self {
		c.reportError(diag.CodeTypeReservedName,
			fmt.Sprintf("invalid reserved variable name in let: %s", n.Self), e.Span())
	} else {
		c.objects.MustAdd(e.Name, e.TypeDecl)
	}
	bodyType := c.checkExpr(e.Body)
	c.objects.MustExit()

	return set(e, bodyType)
}

var operatorNames = map[ast.BinaryOp]string{
	ast.OpPlus: "addition",
	ast.OpSub:  "subtraction",
	ast.OpMul:  "multiplication",
	ast.OpDiv:  "division",
	ast.OpLt:   "less than",
	ast.OpLeq:  "less than or equal",
}

func (c *Checker) checkBinary(e *ast.BinaryExpr) symbol.Symbol {
	n := c.names
	left := c.checkExpr(e.Left)
	right := c.checkExpr(e.Right)

	if e.Op == ast.OpEq {
		if (n.IsPrimitive(left) || n.IsPrimitive(right)) && left != right &&
			left != n.ErrType && right != n.ErrType {
			c.reportError(diag.CodeTypeInvalidOperation,
				fmt.Sprintf("invalid equality comparison left hand side expression of type %s cannot be compared with expression of type %s", left, right),
				e.Span())
		}
		return set(e, n.Bool)
	}

	name := operatorNames[e.Op]
	if left != n.Int && left != n.ErrType {
		c.reportError(diag.CodeTypeInvalidOperation,
			fmt.Sprintf("expected expression of type %s on the left hand side of %s but found expression of type %s instead", n.Int, name, left),
			e.Span())
	}
	if right != n.Int && right != n.ErrType {
		c.reportError(diag.CodeTypeInvalidOperation,
			fmt.Sprintf("expected expression of type %s on the right hand side of %s but found expression of type %s instead", n.Int, name, right),
			e.Span())
	}

	if e.Op.IsArithmetic() {
		return set(e, n.Int)
	}
	return set(e, n.Bool)
}

func (c *Checker) checkUnary(e *ast.UnaryExpr) symbol.Symbol {
	n := c.names
	t := c.checkExpr(e.Operand)
	switch e.Op {
	case ast.OpNeg:
		if t != n.Int && t != n.ErrType {
			c.reportError(diag.CodeTypeInvalidOperation,
				fmt.Sprintf("expected expression of type %s on negation but found expression of type %s instead", n.Int, t),
				e.Span())
		}
		return set(e, n.Int)
	case ast.OpComp:
		if t != n.Bool && t != n.ErrType {
			c.reportError(diag.CodeTypeInvalidOperation,
				fmt.Sprintf("expected expression of type %s on not but found expression of type %s instead", n.Bool, t),
				e.Span())
		}
		return set(e, n.Bool)
	}
	return set(e, n.Bool)
}
