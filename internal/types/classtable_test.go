package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// A <- B <- D, A <- C
func hierarchy(f *fixture) *ast.Program {
	b := f.b
	return b.Program(
		b.Class("A", ""),
		b.Class("B", "A"),
		b.Class("C", "A"),
		b.Class("D", "B"),
	)
}

func TestSubclassReflexiveAndTransitive(t *testing.T) {
	f := newFixture()
	tbl, _ := f.run(hierarchy(f))
	requireClean(t, f)

	all := tbl.Classes()
	cur := f.sym("A")
	for _, x := range all {
		require.Truef(t, tbl.IsSubclass(x, x, cur), "%s must conform to itself", x)
	}
	for _, x := range all {
		for _, y := range all {
			for _, z := range all {
				if tbl.IsSubclass(x, y, cur) && tbl.IsSubclass(y, z, cur) {
					require.Truef(t, tbl.IsSubclass(x, z, cur), "%s <= %s <= %s but not %s <= %s", x, y, z, x, z)
				}
			}
		}
	}

	require.True(t, tbl.IsSubclass(f.sym("D"), f.sym("A"), cur))
	require.False(t, tbl.IsSubclass(f.sym("A"), f.sym("D"), cur))
	require.False(t, tbl.IsSubclass(f.sym("C"), f.sym("B"), cur))
}

func TestSubclassSelfType(t *testing.T) {
	f := newFixture()
	tbl, _ := f.run(hierarchy(f))
	self := f.names.SelfType

	require.True(t, tbl.IsSubclass(self, self, f.sym("B")))
	require.False(t, tbl.IsSubclass(f.sym("B"), self, f.sym("B")),
		"a class never conforms to SELF_TYPE")
	require.True(t, tbl.IsSubclass(self, f.sym("A"), f.sym("D")))
	require.False(t, tbl.IsSubclass(self, f.sym("C"), f.sym("D")))
}

func TestLeastUpperBound(t *testing.T) {
	f := newFixture()
	tbl, _ := f.run(hierarchy(f))
	cur := f.sym("A")
	obj := f.names.Object

	tests := []struct {
		a, b, want string
	}{
		{"D", "C", "A"},
		{"D", "B", "B"},
		{"B", "C", "A"},
		{"D", "D", "D"},
		{"Int", "D", "Object"},
		{"String", "Bool", "Object"},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			a, b := f.sym(tt.a), f.sym(tt.b)
			require.Equal(t, f.sym(tt.want), tbl.LeastUpperBound(a, b, cur))
			require.Equal(t, f.sym(tt.want), tbl.LeastUpperBound(b, a, cur), "join must be commutative")
		})
	}

	for _, x := range tbl.Classes() {
		require.Equal(t, x, tbl.LeastUpperBound(x, x, cur))
		require.Equal(t, obj, tbl.LeastUpperBound(x, obj, cur))
		require.Equal(t, obj, tbl.LeastUpperBound(obj, x, cur))
	}

	self := f.names.SelfType
	require.Equal(t, self, tbl.LeastUpperBound(self, self, cur))
	require.Equal(t, f.sym("A"), tbl.LeastUpperBound(self, f.sym("C"), f.sym("D")))
	require.Equal(t, f.sym("B"), tbl.LeastUpperBound(f.sym("B"), self, f.sym("D")))
}

func TestTopologicalOrder(t *testing.T) {
	f := newFixture()
	b := f.b
	// D is declared before its parent
	tbl, _ := f.run(b.Program(
		b.Class("D", "B"),
		b.Class("B", "A"),
		b.Class("A", ""),
	))
	requireClean(t, f)

	var got []string
	for _, c := range tbl.Topological() {
		got = append(got, c.String())
	}
	want := []string{"Object", "IO", "Int", "Bool", "String", "A", "B", "D"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("topological order mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, 3, tbl.Depth(f.sym("D")))
	require.Equal(t, 0, tbl.Depth(f.names.Object))
	require.Equal(t, []symbol.Symbol{f.sym("D")}, tbl.Children(f.sym("B")))
}

func TestClassTableErrors(t *testing.T) {
	tests := []struct {
		name    string
		classes func(b *ast.Builder) []*ast.Class
		want    []string
	}{
		{
			name: "inherits Int",
			classes: func(b *ast.Builder) []*ast.Class {
				return []*ast.Class{b.Class("C", "Int")}
			},
			want: []string{"cannot inherit from Int"},
		},
		{
			name: "illegal parents",
			classes: func(b *ast.Builder) []*ast.Class {
				return []*ast.Class{
					b.Class("A", "Bool"),
					b.Class("B", "String"),
					b.Class("C", "SELF_TYPE"),
				}
			},
			want: []string{
				"cannot inherit from Bool",
				"cannot inherit from String",
				"cannot inherit from SELF_TYPE",
			},
		},
		{
			name: "undefined parent",
			classes: func(b *ast.Builder) []*ast.Class {
				return []*ast.Class{b.Class("A", "Missing")}
			},
			want: []string{"cannot inherit from undefined class Missing"},
		},
		{
			name: "duplicates",
			classes: func(b *ast.Builder) []*ast.Class {
				return []*ast.Class{b.Class("A", ""), b.Class("A", ""), b.Class("IO", "")}
			},
			want: []string{"Class A is already defined", "Class IO is already defined"},
		},
		{
			name: "SELF_TYPE as class name",
			classes: func(b *ast.Builder) []*ast.Class {
				return []*ast.Class{b.Class("SELF_TYPE", "")}
			},
			want: []string{`"SELF_TYPE" cannot be used as a class name`},
		},
		{
			name: "cycle",
			classes: func(b *ast.Builder) []*ast.Class {
				return []*ast.Class{b.Class("A", "B"), b.Class("B", "A")}
			},
			want: []string{
				"class A: cyclic class inheritance with class (A)",
				"class B: cyclic class inheritance with class (B)",
			},
		},
		{
			name: "longer cycle reached from outside",
			classes: func(b *ast.Builder) []*ast.Class {
				return []*ast.Class{
					b.Class("X", "A"),
					b.Class("A", "B"),
					b.Class("B", "C"),
					b.Class("C", "A"),
				}
			},
			want: []string{
				"class X: cyclic class inheritance with class (A)",
				"class A: cyclic class inheritance with class (A)",
				"class B: cyclic class inheritance with class (B)",
				"class C: cyclic class inheritance with class (C)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tbl := NewClassTable(f.b.Program(tt.classes(f.b)...), f.names, f.sink)
			if diff := cmp.Diff(tt.want, f.messages()); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
			require.False(t, tbl.Valid())
		})
	}
}

func TestQueriesTerminateOnCycle(t *testing.T) {
	f := newFixture()
	b := f.b
	tbl := NewClassTable(b.Program(b.Class("A", "B"), b.Class("B", "A")), f.names, f.sink)
	require.False(t, tbl.Valid())
	require.False(t, tbl.IsSubclass(f.sym("A"), f.names.Object, f.sym("A")))
	require.Equal(t, f.names.Object, tbl.LeastUpperBound(f.sym("A"), f.names.Int, f.sym("A")))
}
