package wat

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/scope"
	"github.com/sechmo/cool-wasm/internal/symbol"
	"github.com/sechmo/cool-wasm/internal/types"
)

// BindingOrigin tells where a visible name lives at run time.
type BindingOrigin int

const (
	// BindClass is an attribute, stored in a field of self.
	BindClass BindingOrigin = iota
	// BindLocal is a formal, let or case variable, stored in a local.
	BindLocal
)

// Binding is the code generation view of a visible name.
type Binding struct {
	Origin BindingOrigin
	Type   symbol.Symbol
}

// Generator lowers a type-checked program to a Module. A Generator may be
// reused; every counter is reset by Generate.
type Generator struct {
	env     *types.FeatureEnv
	classes *types.ClassTable
	names   *types.Names
	strings *symbol.Table
	n       *naming

	module  *Module
	pool    *ConstantPool
	scope   *scope.Stack[symbol.Symbol, Binding]
	current symbol.Symbol
	lifted  int
}

// NewGenerator creates a generator over a feature environment. Class
// names used by type_name are interned into strings.
func NewGenerator(env *types.FeatureEnv, strings *symbol.Table) *Generator {
	classes := env.ClassTable()
	return &Generator{
		env:     env,
		classes: classes,
		names:   classes.Names(),
		strings: strings,
		n:       &naming{names: classes.Names()},
	}
}

// Generate builds the module for prog. prog must have passed every
// semantic phase; running on an unchecked tree panics.
func (g *Generator) Generate(prog *ast.Program) (*Module, error) {
	g.module = &Module{}
	g.pool = NewConstantPool(g.strings)
	g.scope = scope.New[symbol.Symbol, Binding]()
	g.current = symbol.Symbol{}
	g.lifted = 0

	order := g.classes.Topological()
	for _, cls := range order {
		g.pool.AddText(cls.String())
	}
	if err := g.pool.Collect(prog); err != nil {
		return nil, fmt.Errorf("collect constants: %w", err)
	}

	g.emitImports()
	g.emitTypes(order)
	g.emitVtables(order)
	g.module.Globals = append(g.module.Globals, g.pool.globals(g.n)...)
	g.emitHelpers()
	for _, cls := range order {
		g.emitClass(cls)
	}

	if g.scope.Depth() != 0 {
		panic(fmt.Sprintf("wat: %d scopes left open after generation", g.scope.Depth()))
	}
	return g.module, nil
}

// Pool returns the constant pool of the last Generate call.
func (g *Generator) Pool() *ConstantPool { return g.pool }

func (g *Generator) addFunc(f List) {
	g.module.Funcs = append(g.module.Funcs, f)
}

// layout maps a static type to the class whose struct type represents it.
func (g *Generator) layout(t symbol.Symbol) symbol.Symbol {
	if t == g.names.SelfType {
		return g.current
	}
	if t.IsZero() || t == g.names.NoType || t == g.names.ErrType {
		panic(fmt.Sprintf("wat: no layout for type %s", t))
	}
	return t
}

// attrLayout is the field type of an attribute. SELF_TYPE fields are
// typed at the declaring class so subclasses inherit them unchanged.
func (g *Generator) attrLayout(at *types.AttributeType) symbol.Symbol {
	if at.Type == g.names.SelfType {
		return at.Owner
	}
	return at.Type
}

// returnLayout is the result type of a method slot.
func (g *Generator) returnLayout(sig *types.MethodSignature) symbol.Symbol {
	if sig.Return == g.names.SelfType {
		return sig.Intro
	}
	return sig.Return
}

func (g *Generator) valueType(cls symbol.Symbol) List {
	return refNull(g.n.class(cls))
}

// defaultValue pushes the value of an uninitialised variable of type t.
func (g *Generator) defaultValue(t symbol.Symbol) List {
	switch t {
	case g.names.Int:
		return L("global.get", g.pool.IntGlobal(0))
	case g.names.String:
		return L("global.get", g.pool.TextGlobal(""))
	case g.names.Bool:
		return L("global.get", boolFalseGlobal)
	}
	return L("ref.null", g.n.class(g.layout(t)))
}
