package wat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sechmo/cool-wasm/internal/ast"
)

func TestIntegerLiteralReferencesConstant(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(b.Class("Main", "", b.Method("main", nil, "Int", b.Int(42))))
	mod, _ := f.generate(t, prog)

	main := requireFunc(t, mod, "$Main.main.implementation")
	require.True(t, contains(main, "(global.get $int.const.42)"), main.String())
	require.NotNil(t, mod.Global("$int.const.42"))
	require.NotNil(t, mod.Global("$int.const.0"))
}

func TestVtableSlots(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(
		b.Class("A", "", b.Method("m", nil, "Int", b.Int(1))),
		b.Class("B", "A", b.Method("m", nil, "Int", b.Int(2))),
		b.Class("Main", "", b.Method("main", nil, "Int", b.Dispatch(b.New("B"), "m"))),
	)
	mod, _ := f.generate(t, prog)

	slots := func(global string) []string {
		g := mod.Global(global)
		require.NotNil(t, g, global)
		vt := collect(g, "struct.new")[0]
		return texts(collect(vt, "ref.func"))
	}
	want := []string{
		"(ref.func $B.new.virtual)",
		"(ref.func $Object.abort.implementation)",
		"(ref.func $B.type_name.implementation)",
		"(ref.func $B.copy.implementation)",
		"(ref.func $B.m.implementation)",
	}
	if diff := cmp.Diff(want, slots("$B.vtable.canon")); diff != "" {
		t.Errorf("B vtable mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "(ref.func $A.m.implementation)", slots("$A.vtable.canon")[4])

	require.Equal(t,
		"(type $B#vtable (sub $A#vtable (struct (field $#new (ref $#new.signature)) "+
			"(field $abort (ref $Object.abort.signature)) (field $type_name (ref $Object.type_name.signature)) "+
			"(field $copy (ref $Object.copy.signature)) (field $m (ref $A.m.signature)))))",
		mod.Type("$B#vtable").String())
	require.Nil(t, mod.Type("$B.m.signature"), "overrides reuse the parent signature")

	main := requireFunc(t, mod, "$Main.main.implementation")
	require.True(t, contains(main, "(call $A.m.generic)"))

	generic := requireFunc(t, mod, "$A.m.generic")
	require.True(t, contains(generic,
		"(call_ref $A.m.signature (local.get $self) (struct.get $A#vtable $m (struct.get $A $#vt (local.get $self))))"),
		generic.String())
}

func TestOverrideNarrowsReceiver(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(
		b.Class("A", "", b.Method("m", nil, "Int", b.Int(1))),
		b.Class("B", "A", b.Method("m", nil, "Int", b.Int(2))),
	)
	mod, _ := f.generate(t, prog)

	impl := requireFunc(t, mod, "$B.m.implementation")
	require.Equal(t, []string{"(param $#recv (ref null $A))"}, texts(collect(impl, "param")))
	require.True(t, contains(impl, "(local.set $self (ref.cast (ref null $B) (local.get $#recv)))"))
	require.True(t, contains(impl, "(type $A.m.signature)"))
}

func TestLetIsLifted(t *testing.T) {
	f := newFixture()
	b := f.b
	body := b.Let("y", "Int", b.Int(3), b.Plus(b.Obj("x"), b.Obj("y")))
	prog := b.Program(b.Class("Main", "", b.Method("f", b.Formals("x", "Int"), "Int", body)))
	mod, _ := f.generate(t, prog)

	lifted := requireFunc(t, mod, "$Main.let.0")
	want := []string{
		"(param $self (ref null $Main))",
		"(param $x (ref null $Int))",
		"(param $y (ref null $Int))",
	}
	if diff := cmp.Diff(want, texts(collect(lifted, "param"))); diff != "" {
		t.Errorf("lifted params mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"(result (ref null $Int))"}, texts(collect(lifted, "result")))

	caller := requireFunc(t, mod, "$Main.f.implementation")
	require.True(t, contains(caller, "(global.get $int.const.3)"))
	require.True(t, contains(caller, "(call $Main.let.0)"))
	require.Nil(t, mod.Func("$Main.let.1"))
}

func TestLetWritesBackAssignedLocals(t *testing.T) {
	f := newFixture()
	b := f.b
	body := b.Let("y", "Int", b.Int(1), b.Assign("x", b.Plus(b.Obj("x"), b.Obj("y"))))
	prog := b.Program(b.Class("Main", "", b.Method("f", b.Formals("x", "Int"), "Int", body)))
	mod, _ := f.generate(t, prog)

	lifted := requireFunc(t, mod, "$Main.let.0")
	require.Len(t, collect(lifted, "result"), 2)
	require.Equal(t, "(local.get $x)", lifted[len(lifted)-1].(List).String())

	caller := requireFunc(t, mod, "$Main.f.implementation")
	var after string
	for i, n := range caller {
		if l, ok := n.(List); ok && l.String() == "(call $Main.let.0)" {
			after = caller[i+1].(List).String()
		}
	}
	require.Equal(t, "(local.set $x)", after)
}

func TestLetShadowingTakesTheSlot(t *testing.T) {
	f := newFixture()
	b := f.b
	body := b.Let("x", "String", b.Str("s"), b.Dispatch(b.Obj("x"), "length"))
	prog := b.Program(b.Class("Main", "", b.Method("f", b.Formals("x", "Int"), "Int", body)))
	mod, _ := f.generate(t, prog)

	lifted := requireFunc(t, mod, "$Main.let.0")
	require.Equal(t, []string{
		"(param $self (ref null $Main))",
		"(param $x (ref null $String))",
	}, texts(collect(lifted, "param")))
}

func TestNestedLetsForwardOuterBindings(t *testing.T) {
	f := newFixture()
	b := f.b
	inner := b.Let("b", "Int", b.Int(2), b.Plus(b.Obj("a"), b.Obj("b")))
	prog := b.Program(b.Class("Main", "",
		b.Method("main", nil, "Int", b.Let("a", "Int", b.Int(1), inner))))
	mod, _ := f.generate(t, prog)

	outer := requireFunc(t, mod, "$Main.let.0")
	require.True(t, contains(outer, "(call $Main.let.1)"))
	require.Len(t, collect(outer, "param"), 2)

	nested := requireFunc(t, mod, "$Main.let.1")
	require.Equal(t, []string{
		"(param $self (ref null $Main))",
		"(param $a (ref null $Int))",
		"(param $b (ref null $Int))",
	}, texts(collect(nested, "param")))
}

func TestCaseCascadeOrder(t *testing.T) {
	f := newFixture()
	b := f.b
	body := b.Case(b.New("B"),
		b.Branch("a", "A", b.Int(1)),
		b.Branch("o", "Object", b.Int(2)),
		b.Branch("b", "B", b.Int(3)),
	)
	prog := b.Program(
		b.Class("A", ""),
		b.Class("B", "A"),
		b.Class("Main", "", b.Method("pick", nil, "Int", body)),
	)
	mod, _ := f.generate(t, prog)

	fn := requireFunc(t, mod, "$Main.case.0")
	want := []string{
		"(ref.test (ref $B) (local.get $#scrut))",
		"(ref.test (ref $A) (local.get $#scrut))",
		"(ref.test (ref $Object) (local.get $#scrut))",
	}
	if diff := cmp.Diff(want, texts(collect(fn, "ref.test"))); diff != "" {
		t.Errorf("cascade order mismatch (-want +got):\n%s", diff)
	}
	require.True(t, contains(fn, "(throw $abortTag (i32.const -2))"))
	require.True(t, contains(requireFunc(t, mod, "$Main.case.0.branch.0"), "(global.get $int.const.3)"))
	require.True(t, contains(requireFunc(t, mod, "$Main.case.0.branch.2"), "(global.get $int.const.2)"))

	branch := requireFunc(t, mod, "$Main.case.0.branch.1")
	require.Equal(t, []string{
		"(param $self (ref null $Main))",
		"(param $a (ref null $A))",
	}, texts(collect(branch, "param")))

	caller := requireFunc(t, mod, "$Main.pick.implementation")
	require.True(t, contains(caller, "(call $Main.case.0)"))
}

func TestStringLiteralInternedOnce(t *testing.T) {
	f := newFixture()
	b := f.b
	body := b.Block(b.Call("out_string", b.Str("hi")), b.Call("out_string", b.Str("hi")))
	prog := b.Program(b.Class("Main", "IO", b.Method("main", nil, "Object", body)))
	mod, gen := f.generate(t, prog)

	count := 0
	for _, s := range gen.Pool().Strings() {
		if s.String() == "hi" {
			count++
		}
	}
	require.Equal(t, 1, count)

	name := gen.Pool().TextGlobal("hi")
	main := requireFunc(t, mod, "$Main.main.implementation")
	refs := 0
	for _, l := range collect(main, "global.get") {
		if l.String() == "(global.get "+name+")" {
			refs++
		}
	}
	require.Equal(t, 2, refs)
	require.True(t, contains(mod.Global(name), "(array.new_fixed $charsArr 2 (i32.const 104) (i32.const 105))"))
}

func TestStaticDispatchTargets(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(
		b.Class("A", "", b.Method("m", nil, "Int", b.Int(1))),
		b.Class("B", "A"),
		b.Class("Main", "",
			b.Method("direct", nil, "Int", b.Static(b.New("B"), "A", "m")),
			b.Method("dup", nil, "A", b.Static(b.New("B"), "A", "copy")),
			b.Method("name", nil, "String", b.Static(b.New("B"), "A", "type_name")),
		),
	)
	mod, _ := f.generate(t, prog)

	require.True(t, contains(requireFunc(t, mod, "$Main.direct.implementation"), "(call $A.m.implementation)"))
	dup := requireFunc(t, mod, "$Main.dup.implementation")
	require.True(t, contains(dup, "(call $Object.copy.generic)"))
	require.True(t, contains(dup, "(ref.cast (ref null $A))"))
	require.True(t, contains(requireFunc(t, mod, "$Main.name.implementation"), "(call $Object.type_name.generic)"))
}

func TestSelfTypeResults(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(
		b.Class("A", "",
			b.Method("me", nil, "SELF_TYPE", b.Obj("self")),
			b.Method("fresh", nil, "SELF_TYPE", b.New("SELF_TYPE")),
		),
		b.Class("B", "A"),
		b.Class("Main", "", b.Method("test", nil, "B", b.Dispatch(b.New("B"), "me"))),
	)
	mod, _ := f.generate(t, prog)

	test := requireFunc(t, mod, "$Main.test.implementation")
	require.True(t, contains(test, "(call $A.me.generic)"))
	require.True(t, contains(test, "(ref.cast (ref null $B))"))

	fresh := requireFunc(t, mod, "$A.fresh.implementation")
	require.True(t, contains(fresh, "(call_ref $#new.signature)"))
	require.True(t, contains(fresh, "(ref.cast (ref null $A))"))
	require.True(t, contains(requireFunc(t, mod, "$B.new.virtual"), "(call $B.new)"))
}

func TestStructLayout(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(
		b.Class("A", "", b.Attr("a", "Int", b.Int(5))),
		b.Class("B", "A", b.Attr("b", "String", nil), b.Attr("me", "SELF_TYPE", nil)),
	)
	mod, _ := f.generate(t, prog)

	require.Equal(t,
		"(type $B (sub $A (struct (field $#vt (ref $B#vtable)) (field $a (mut (ref null $Int))) "+
			"(field $b (mut (ref null $String))) (field $me (mut (ref null $B))))))",
		mod.Type("$B").String())
	require.Equal(t,
		"(type $Int (sub $Object (struct (field $#vt (ref $Int#vtable)) (field $_val i32))))",
		mod.Type("$Int").String())
	require.Equal(t,
		"(type $String (sub $Object (struct (field $#vt (ref $String#vtable)) (field $chars (ref $charsArr)))))",
		mod.Type("$String").String())
}

func TestInitChain(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(
		b.Class("A", "", b.Attr("x", "Int", b.Int(5))),
		b.Class("B", "A", b.Attr("s", "String", nil)),
	)
	mod, _ := f.generate(t, prog)

	initA := requireFunc(t, mod, "$A.init")
	require.True(t, contains(initA, "(call $Object.init (local.get $self))"))
	require.True(t, contains(initA, "(global.get $int.const.5)"))
	require.True(t, contains(initA, "(struct.set $A $x)"))

	initB := requireFunc(t, mod, "$B.init")
	require.True(t, contains(initB, "(call $A.init (local.get $self))"))
	require.Empty(t, collect(initB, "struct.set"))

	newB := requireFunc(t, mod, "$B.new")
	require.True(t, contains(newB,
		"(struct.new $B (global.get $B.vtable.canon) (global.get $int.const.0) (global.get $str.const.0))"), newB.String())
	require.True(t, contains(newB, "(call $B.init (local.get $o))"))
}

func TestAttributeAssignment(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(b.Class("Main", "",
		b.Attr("n", "Int", nil),
		b.Method("bump", nil, "Int", b.Assign("n", b.Plus(b.Obj("n"), b.Int(1)))),
	))
	mod, _ := f.generate(t, prog)

	bump := requireFunc(t, mod, "$Main.bump.implementation")
	require.True(t, contains(bump, "(struct.get $Main $n)"))
	require.True(t, contains(bump, "(struct.set $Main $n (local.get $self) (local.get $#t0))"))
}

func TestLoopAndConditional(t *testing.T) {
	f := newFixture()
	b := f.b
	loop := b.While(b.Lt(b.Obj("i"), b.Int(3)), b.Assign("i", b.Plus(b.Obj("i"), b.Int(1))))
	cond := b.If(b.Unary(ast.OpIsVoid, b.Obj("self")), b.Str("void"), b.Str("set"))
	prog := b.Program(b.Class("Main", "",
		b.Method("count", b.Formals("i", "Int"), "Object", loop),
		b.Method("check", nil, "String", cond),
	))
	mod, _ := f.generate(t, prog)

	count := requireFunc(t, mod, "$Main.count.implementation")
	require.Len(t, collect(count, "block"), 1)
	require.True(t, contains(count, "(br_if $#break0)"))
	require.True(t, contains(count, "(br $#loop1)"))
	require.True(t, contains(count, "(ref.null $Object)"))
	require.True(t, contains(count, "(call $Bool.helper.fromI32)"))

	check := requireFunc(t, mod, "$Main.check.implementation")
	ifs := collect(check, "if")
	require.Len(t, ifs, 1)
	require.Equal(t, "(result (ref null $String))", ifs[0][1].(List).String())
	require.True(t, contains(check, "(ref.is_null)"))
}

func TestEqualityLowering(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(b.Class("Main", "",
		b.Method("ints", nil, "Bool", b.Eq(b.Int(1), b.Int(2))),
		b.Method("strs", nil, "Bool", b.Eq(b.Str("a"), b.Str("b"))),
		b.Method("objs", nil, "Bool", b.Eq(b.Obj("self"), b.New("Object"))),
	))
	mod, _ := f.generate(t, prog)

	require.True(t, contains(requireFunc(t, mod, "$Main.ints.implementation"), "(i32.eq)"))
	require.True(t, contains(requireFunc(t, mod, "$Main.strs.implementation"), "(call $String.helper.equals)"))
	require.True(t, contains(requireFunc(t, mod, "$Main.objs.implementation"), "(call $Object.helper.equals)"))
}

func TestModuleShape(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(b.Class("Main", "", b.Method("main", nil, "Int", b.Int(0))))
	mod, gen := f.generate(t, prog)

	require.Equal(t, `(import "cool" "abortTag" (tag $abortTag (param i32)))`, mod.Imports[0].String())
	require.Len(t, mod.Imports, 3)
	require.Equal(t, "(type $charsArr (array (mut i8)))", mod.Types[0].String())

	node := mod.Node()
	require.Equal(t, "module", node.Head())
	require.Equal(t, "rec", node[len(mod.Imports)+1].(List).Head())
	require.NotNil(t, mod.Func("$Main.new"))
	require.NotNil(t, mod.Func("$Main.main.generic"))
	require.True(t, contains(requireFunc(t, mod, "$Object.abort.implementation"), "(throw $abortTag (i32.const -1))"))
	require.True(t, contains(requireFunc(t, mod, "$Main.type_name.implementation"),
		"(global.get "+gen.Pool().TextGlobal("Main")+")"))
}

func TestGenerateIsDeterministic(t *testing.T) {
	build := func() string {
		f := newFixture()
		b := f.b
		prog := b.Program(
			b.Class("A", "", b.Attr("x", "Int", b.Int(7)), b.Method("m", nil, "Int", b.Obj("x"))),
			b.Class("B", "A", b.Method("m", nil, "Int", b.Let("y", "Int", nil, b.Obj("y")))),
			b.Class("Main", "IO", b.Method("main", nil, "Object",
				b.Call("out_int", b.Dispatch(b.New("B"), "m")))),
		)
		mod, _ := f.generate(t, prog)
		return mod.String()
	}
	first := build()
	if diff := cmp.Diff(first, build()); diff != "" {
		t.Errorf("output changed between runs (-first +second):\n%s", diff)
	}
}

func TestGeneratorResetsCounters(t *testing.T) {
	f := newFixture()
	b := f.b
	prog := b.Program(b.Class("Main", "",
		b.Method("main", nil, "Int", b.Let("y", "Int", b.Int(1), b.Obj("y")))))
	first, gen := f.generate(t, prog)
	second, err := gen.Generate(prog)
	require.NoError(t, err)
	require.NotNil(t, second.Func("$Main.let.0"))
	require.Equal(t, first.String(), second.String())
}

func TestIntegerLiteralOutOfRange(t *testing.T) {
	f := newFixture()
	pool := NewConstantPool(f.syms.Strings)
	err := pool.AddIntToken(f.syms.Ints.Intern("99999999999"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "integer literal 99999999999")
}
