package wat

import (
	"github.com/sechmo/cool-wasm/internal/symbol"
)

func get(name string) List { return L("local.get", name) }

func (g *Generator) emitHelpers() {
	g.emitBoxing()
	g.emitStringHelpers()
	g.emitObjectEquals()
	g.emitBuiltinMethods()
}

// emitBoxing converts between boxed Int and Bool values and raw i32.
func (g *Generator) emitBoxing() {
	for _, cls := range []symbol.Symbol{g.names.Int, g.names.Bool} {
		to := newFn(g.n.toI32(cls)).export()
		to.param("$v", g.valueType(cls))
		to.result("i32")
		to.op("struct.get", g.n.class(cls), valField, get("$v"))
		g.addFunc(to.list())

		from := newFn(g.n.fromI32(cls)).export()
		from.param("$v", "i32")
		from.result(ref(g.n.class(cls)))
		if cls == g.names.Bool {
			from.op("select", L("result", ref(g.n.class(cls))),
				L("global.get", boolTrueGlobal), L("global.get", boolFalseGlobal), get("$v"))
		} else {
			from.op("struct.new", g.n.class(cls), L("global.get", g.n.vtableGlobal(cls)), get("$v"))
		}
		g.addFunc(from.list())
	}
}

func (g *Generator) chars(s Node) List {
	return L("struct.get", g.n.class(g.names.String), charsField, s)
}

func (g *Generator) emitStringHelpers() {
	str := g.valueType(g.names.String)

	length := newFn(lengthHelper).export().typed(lengthHelperTy)
	length.param("$s", str)
	length.result("i32")
	length.op("array.len", g.chars(get("$s")))
	g.addFunc(length.list())

	charAt := newFn(charAtHelper).export().typed(charAtHelperTy)
	charAt.param("$s", str)
	charAt.param("$i", "i32")
	charAt.result("i32")
	charAt.op("array.get_u", charsArr, g.chars(get("$s")), get("$i"))
	g.addFunc(charAt.list())

	eq := newFn(equalsHelper).export()
	eq.param("$a", str)
	eq.param("$b", str)
	eq.result("i32")
	eq.local("$x", refNull(charsArr))
	eq.local("$y", refNull(charsArr))
	eq.local("$i", "i32")
	eq.local("$n", "i32")
	eq.op("if", L("ref.eq", get("$a"), get("$b")), L("then", L("return", L("i32.const", 1))))
	eq.op("if", L("i32.or", L("ref.is_null", get("$a")), L("ref.is_null", get("$b"))),
		L("then", L("return", L("i32.const", 0))))
	eq.op("local.set", "$x", g.chars(get("$a")))
	eq.op("local.set", "$y", g.chars(get("$b")))
	eq.op("local.set", "$n", L("array.len", get("$x")))
	eq.op("if", L("i32.ne", get("$n"), L("array.len", get("$y"))),
		L("then", L("return", L("i32.const", 0))))
	eq.op("block", "$done",
		L("loop", "$next",
			L("br_if", "$done", L("i32.ge_u", get("$i"), get("$n"))),
			L("if", L("i32.ne",
				L("array.get_u", charsArr, get("$x"), get("$i")),
				L("array.get_u", charsArr, get("$y"), get("$i"))),
				L("then", L("return", L("i32.const", 0)))),
			L("local.set", "$i", L("i32.add", get("$i"), L("i32.const", 1))),
			L("br", "$next")))
	eq.op("i32.const", 1)
	g.addFunc(eq.list())
}

// emitObjectEquals compares two values of non-basic static type: by
// identity, or by value when both are boxed values of the same basic class.
func (g *Generator) emitObjectEquals() {
	f := newFn(objEqHelper)
	f.param("$a", g.valueType(g.names.Object))
	f.param("$b", g.valueType(g.names.Object))
	f.result("i32")
	f.op("if", L("ref.eq", get("$a"), get("$b")), L("then", L("return", L("i32.const", 1))))

	both := func(cls symbol.Symbol) List {
		t := ref(g.n.class(cls))
		return L("i32.and", L("ref.test", t, get("$a")), L("ref.test", t, get("$b")))
	}
	cast := func(cls symbol.Symbol, v string) List {
		return L("ref.cast", ref(g.n.class(cls)), get(v))
	}
	for _, cls := range []symbol.Symbol{g.names.Int, g.names.Bool} {
		f.op("if", both(cls), L("then", L("return", L("i32.eq",
			L("struct.get", g.n.class(cls), valField, cast(cls, "$a")),
			L("struct.get", g.n.class(cls), valField, cast(cls, "$b"))))))
	}
	f.op("if", both(g.names.String), L("then", L("return",
		L("call", equalsHelper, cast(g.names.String, "$a"), cast(g.names.String, "$b")))))
	f.op("i32.const", 0)
	g.addFunc(f.list())
}

// builtinImpl starts the body of a built-in method.
func (g *Generator) builtinImpl(cls, meth symbol.Symbol) *fnBuilder {
	sig := g.env.ClassMethodSignature(cls, meth, cls)
	f := newFn(sig.Names.Implementation).typed(sig.Names.Signature)
	f.param(selfLocal, g.valueType(sig.Intro))
	for _, a := range sig.Args {
		f.param(local(a.Name), g.valueType(a.Type))
	}
	f.result(g.valueType(g.returnLayout(sig)))
	return f
}

func (g *Generator) emitBuiltinMethods() {
	n := g.names

	abort := g.builtinImpl(n.Object, n.Abort)
	abort.op("throw", abortTag, L("i32.const", AbortCalled))
	g.addFunc(abort.list())

	outString := g.builtinImpl(n.IO, n.OutString)
	outString.op("call", outStringFunc, get(local(n.Arg)), L("ref.func", lengthHelper), L("ref.func", charAtHelper))
	outString.op("local.get", selfLocal)
	g.addFunc(outString.list())

	outInt := g.builtinImpl(n.IO, n.OutInt)
	outInt.op("call", outIntFunc, L("call", g.n.toI32(n.Int), get(local(n.Arg))))
	outInt.op("local.get", selfLocal)
	g.addFunc(outInt.list())

	// Input is not provided by the host.
	for _, meth := range []symbol.Symbol{n.InString, n.InInt} {
		in := g.builtinImpl(n.IO, meth)
		in.op("unreachable")
		g.addFunc(in.list())
	}

	length := g.builtinImpl(n.String, n.Length)
	length.op("call", g.n.fromI32(n.Int), L("call", lengthHelper, get(selfLocal)))
	g.addFunc(length.list())

	concat := g.builtinImpl(n.String, n.Concat)
	concat.local("$l", "i32")
	concat.local("$r", "i32")
	concat.local("$out", refNull(charsArr))
	concat.op("local.set", "$l", L("call", lengthHelper, get(selfLocal)))
	concat.op("local.set", "$r", L("call", lengthHelper, get(local(n.Arg))))
	concat.op("local.set", "$out", L("array.new_default", charsArr, L("i32.add", get("$l"), get("$r"))))
	concat.op("array.copy", charsArr, charsArr, get("$out"), L("i32.const", 0),
		g.chars(get(selfLocal)), L("i32.const", 0), get("$l"))
	concat.op("array.copy", charsArr, charsArr, get("$out"), get("$l"),
		g.chars(get(local(n.Arg))), L("i32.const", 0), get("$r"))
	concat.emit(g.newString(get("$out")))
	g.addFunc(concat.list())

	// Out of range bounds trap in array.copy.
	substr := g.builtinImpl(n.String, n.Substr)
	substr.local("$start", "i32")
	substr.local("$len", "i32")
	substr.local("$out", refNull(charsArr))
	substr.op("local.set", "$start", L("call", g.n.toI32(n.Int), get(local(n.Arg))))
	substr.op("local.set", "$len", L("call", g.n.toI32(n.Int), get(local(n.Arg2))))
	substr.op("local.set", "$out", L("array.new_default", charsArr, get("$len")))
	substr.op("array.copy", charsArr, charsArr, get("$out"), L("i32.const", 0),
		g.chars(get(selfLocal)), get("$start"), get("$len"))
	substr.emit(g.newString(get("$out")))
	g.addFunc(substr.list())
}

func (g *Generator) newString(chars Node) List {
	return L("struct.new", g.n.class(g.names.String),
		L("global.get", g.n.vtableGlobal(g.names.String)),
		L("ref.as_non_null", chars))
}
