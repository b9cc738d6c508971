package wat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
	"github.com/sechmo/cool-wasm/internal/types"
)

type fixture struct {
	b    *ast.Builder
	syms *symbol.Tables
}

func newFixture() *fixture {
	syms := symbol.NewTables()
	return &fixture{b: ast.NewBuilder(syms, "test.cl"), syms: syms}
}

// generate checks prog and lowers it, failing on any diagnostic.
func (f *fixture) generate(t *testing.T, prog *ast.Program) (*Module, *Generator) {
	t.Helper()
	sink := diag.NewSink()
	tbl := types.NewClassTable(prog, types.NewNames(f.syms.IDs), sink)
	require.False(t, sink.HasAny(), "class table: %v", sink.Diagnostics())
	env := types.NewFeatureEnv(tbl, sink)
	require.False(t, sink.HasAny(), "features: %v", sink.Diagnostics())
	types.NewChecker(env, sink).Check(prog)
	require.False(t, sink.HasAny(), "checker: %v", sink.Diagnostics())

	gen := NewGenerator(env, f.syms.Strings)
	mod, err := gen.Generate(prog)
	require.NoError(t, err)
	return mod, gen
}

// collect returns every list under n whose head is head, in order.
func collect(n Node, head string) []List {
	var out []List
	var walk func(Node)
	walk = func(n Node) {
		l, ok := n.(List)
		if !ok {
			return
		}
		if l.Head() == head {
			out = append(out, l)
		}
		for _, c := range l {
			walk(c)
		}
	}
	walk(n)
	return out
}

// texts renders lists on one line each.
func texts(lists []List) []string {
	out := make([]string, 0, len(lists))
	for _, l := range lists {
		out = append(out, l.String())
	}
	return out
}

func contains(n Node, want string) bool {
	l, ok := n.(List)
	if !ok {
		return false
	}
	if l.String() == want {
		return true
	}
	for _, c := range l {
		if contains(c, want) {
			return true
		}
	}
	return false
}

func requireFunc(t *testing.T, mod *Module, name string) List {
	t.Helper()
	fn := mod.Func(name)
	require.NotNil(t, fn, "function %s not generated", name)
	return fn
}
