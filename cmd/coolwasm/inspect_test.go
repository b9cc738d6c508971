package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/compiler"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

func testInspector(t *testing.T) *inspector {
	t.Helper()
	syms := symbol.NewTables()
	b := ast.NewBuilder(syms, "t.cl")
	prog := b.Program(
		b.Class("A", "",
			b.Attr("n", "Int", nil),
			b.Method("get", nil, "Int", b.Obj("n")),
		),
		b.Class("B", "A",
			b.Attr("s", "String", nil),
			b.Method("get", nil, "Int", b.Int(1)),
		),
		b.Class("C", "A"),
	)
	a, err := compiler.Analyze(prog, syms, compiler.Config{})
	require.NoError(t, err)
	return newInspector(a, syms)
}

func run(t *testing.T, in *inspector, line string) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, in.eval(&sb, line))
	return sb.String()
}

func TestInspectHierarchy(t *testing.T) {
	in := testInspector(t)

	require.Equal(t, "A\n", run(t, in, "parent B"))
	require.Equal(t, "Object is the root\n", run(t, in, "parent Object"))
	require.Equal(t, "true\n", run(t, in, "sub B A"))
	require.Equal(t, "false\n", run(t, in, "sub A B"))
	require.Equal(t, "A\n", run(t, in, "lub B C"))
	require.Equal(t, "Object\n", run(t, in, "lub B Int"))

	require.Equal(t, "B (depth 2)\nC (depth 2)\n", run(t, in, "children A"))
	require.Empty(t, run(t, in, "children C"))

	classes := strings.Fields(run(t, in, "classes"))
	require.Equal(t, "Object", classes[0])
	require.Contains(t, classes, "C")
}

func TestInspectFeatures(t *testing.T) {
	in := testInspector(t)

	methods := run(t, in, "methods B")
	require.Contains(t, methods, "get() : Int [overridden, defined in B]")
	require.Contains(t, methods, "copy() : SELF_TYPE [inherited, defined in Object]")

	attrs := strings.Split(strings.TrimSpace(run(t, in, "attrs B")), "\n")
	require.Len(t, attrs, 2)
	require.Contains(t, attrs[0], "n : Int (from A)")
	require.Contains(t, attrs[1], "s : String (from B)")
}

func TestInspectErrors(t *testing.T) {
	in := testInspector(t)
	var sb strings.Builder

	require.ErrorIs(t, in.eval(&sb, "quit"), errQuit)
	require.EqualError(t, in.eval(&sb, "parent Nope"), "no class Nope")
	require.EqualError(t, in.eval(&sb, "sub A"), "usage: sub A B")
	require.ErrorContains(t, in.eval(&sb, "frob"), `unknown command "frob"`)
	require.NoError(t, in.eval(&sb, "   "))
	require.Empty(t, sb.String())
}
