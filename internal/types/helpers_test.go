package types

import (
	"testing"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

type fixture struct {
	b     *ast.Builder
	names *Names
	sink  *diag.Sink
}

func newFixture() *fixture {
	syms := symbol.NewTables()
	return &fixture{
		b:     ast.NewBuilder(syms, "test.cl"),
		names: NewNames(syms.IDs),
		sink:  diag.NewSink(),
	}
}

func (f *fixture) sym(name string) symbol.Symbol { return f.b.ID(name) }

// run executes every phase the sink allows and returns what was built.
func (f *fixture) run(prog *ast.Program) (*ClassTable, *FeatureEnv) {
	tbl := NewClassTable(prog, f.names, f.sink)
	if f.sink.HasAny() {
		return tbl, nil
	}
	env := NewFeatureEnv(tbl, f.sink)
	if f.sink.HasAny() {
		return tbl, env
	}
	NewChecker(env, f.sink).Check(prog)
	return tbl, env
}

func (f *fixture) messages() []string {
	var out []string
	for _, d := range f.sink.Diagnostics() {
		out = append(out, d.Message)
	}
	return out
}

func requireClean(t *testing.T, f *fixture) {
	t.Helper()
	if f.sink.HasAny() {
		t.Fatalf("expected no diagnostics, got %q", f.messages())
	}
}
