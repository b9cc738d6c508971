package types

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/scope"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// Checker annotates every expression of a program with its static type.
// Errors are recorded in the sink and checking carries on; an ill-typed
// expression gets the error type so enclosing checks do not repeat the
// complaint.
type Checker struct {
	classes *ClassTable
	env     *FeatureEnv
	names   *Names
	sink    *diag.Sink

	objects *scope.Stack[symbol.Symbol, symbol.Symbol]
	current symbol.Symbol
}

// NewChecker creates a type checker over a resolved feature environment.
func NewChecker(env *FeatureEnv, sink *diag.Sink) *Checker {
	return &Checker{
		classes: env.ClassTable(),
		env:     env,
		names:   env.ClassTable().Names(),
		sink:    sink,
	}
}

// Check validates the types in the given program.
func (c *Checker) Check(prog *ast.Program) {
	for _, cls := range prog.Classes {
		// duplicates were never installed and are already reported
		if c.classes.Class(cls.Name) != cls {
			continue
		}
		c.checkClass(cls)
	}
}

func (c *Checker) reportError(code diag.Code, msg string, span diag.Span) {
	c.sink.Error(diag.StageTypeCheck, code, span, msg)
}

func (c *Checker) checkClass(cls *ast.Class) {
	c.current = cls.Name
	c.objects = c.env.ClassAttributeScope(cls.Name)
	c.objects.MustAdd(c.names.Self, c.names.SelfType)
	defer func() {
		c.objects.MustExit()
		c.objects = nil
	}()

	for _, feat := range cls.Features {
		switch f := feat.(type) {
		case *ast.Method:
			c.checkMethod(f)
		case *ast.Attribute:
			c.checkAttribute(f)
		}
	}
}

func (c *Checker) checkMethod(m *ast.Method) {
	c.objects.Enter()
	c.objects.MustAdd(c.names.Self, c.names.SelfType)
	for _, formal := range m.Formals {
		if formal.Name == c.names.Self {
			continue
		}
		c.objects.MustAdd(formal.Name, formal.TypeDecl)
	}
	bodyType := c.checkExpr(m.Body)
	c.objects.MustExit()

	if !c.env.typeDefined(m.ReturnType) {
		return
	}
	if !c.classes.IsSubclass(bodyType, m.ReturnType, c.current) {
		c.reportError(diag.CodeTypeMismatch,
			fmt.Sprintf("invalid method body return type %s is not a subtype of %s", bodyType, m.ReturnType),
			m.Span())
	}
}

func (c *Checker) checkAttribute(a *ast.Attribute) {
	c.objects.Enter()
	c.objects.MustAdd(c.names.Self, c.names.SelfType)
	initType := c.checkExpr(a.Init)
	c.objects.MustExit()

	if ast.IsNoExpr(a.Init) {
		return
	}
	if !c.classes.IsSubclass(initType, a.TypeDecl, c.current) {
		c.reportError(diag.CodeTypeMismatch,
			fmt.Sprintf("invalid init expression of type %s is not a subtype of %s", initType, a.TypeDecl),
			a.Span())
	}
}

// set records t as the type of e and returns it.
func set(e ast.Expr, t symbol.Symbol) symbol.Symbol {
	e.SetType(t)
	return t
}
