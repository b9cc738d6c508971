package wat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListBuilding(t *testing.T) {
	body := []Node{L("local.get", "$x"), L("i32.const", 1)}
	fn := L("func", "$f", L("param", "$x", "i32"), body, L("i32.add"))

	require.Equal(t, "func", fn.Head())
	require.Equal(t, "$f", fn.Name())
	require.Equal(t, "(func $f (param $x i32) (local.get $x) (i32.const 1) (i32.add))", fn.String())
	require.Equal(t, "", L(L("nested")).Head())
	require.Equal(t, "", L("global").Name())
}

func TestListRejectsUnknownItems(t *testing.T) {
	require.Panics(t, func() { L(3.5) })
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "short list stays flat",
			node: L("global.get", "$g"),
			want: "(global.get $g)\n",
		},
		{
			name: "functions break per child",
			node: L("func", "$f", L("param", "i32"), L("i32.const", 1)),
			want: "(func $f\n  (param i32)\n  (i32.const 1))\n",
		},
		{
			name: "nested breaks indent further",
			node: L("module", L("func", "$f", L("nop"))),
			want: "(module\n  (func $f\n    (nop)))\n",
		},
		{
			name: "atom",
			node: Atom("i32"),
			want: "i32\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Format(tt.node, "  "))
		})
	}
}

func TestFormatBreaksWideLists(t *testing.T) {
	wide := L("struct.new", "$T")
	for i := 0; i < 20; i++ {
		wide = append(wide, L("i32.const", i))
	}
	out := Format(wide, "\t")
	require.Contains(t, out, "(struct.new $T\n\t(i32.const 0)\n")
}

func TestModuleLookup(t *testing.T) {
	m := &Module{
		Types:   []List{L("type", "$t", L("array", "i8"))},
		Globals: []List{L("global", "$g", "i32", L("i32.const", 0))},
		Funcs:   []List{L("func", "$f")},
	}
	require.NotNil(t, m.Type("$t"))
	require.NotNil(t, m.Global("$g"))
	require.NotNil(t, m.Func("$f"))
	require.Nil(t, m.Func("$missing"))
	require.Equal(t, "(module\n  (rec\n    (type $t (array i8)))\n  (global $g i32 (i32.const 0))\n  (func $f))\n", m.String())
}
