package wat

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/symbol"
	"github.com/sechmo/cool-wasm/internal/types"
)

// emitGeneric emits the dynamic dispatch trampoline of a slot introduced
// by cls: it loads the entry from the receiver's vtable and calls it.
func (g *Generator) emitGeneric(cls symbol.Symbol, sig *types.MethodSignature) {
	f := newFn(sig.Names.Generic).export().typed(sig.Names.Signature)
	f.param(selfLocal, g.valueType(cls))
	call := L("call_ref", sig.Names.Signature, get(selfLocal))
	for i, arg := range sig.Args {
		p := fmt.Sprintf("$p%d", i)
		f.param(p, g.valueType(arg.Type))
		call = append(call, get(p))
	}
	f.result(g.valueType(g.returnLayout(sig)))
	call = append(call, L("struct.get", g.n.vtableType(cls), field(sig.Name),
		L("struct.get", g.n.class(cls), vtField, get(selfLocal))))
	f.emit(call)
	g.addFunc(f.list())
}

// emitCopy emits the shallow copy of cls used by its vtable.
func (g *Generator) emitCopy(cls symbol.Symbol) {
	sig := g.env.ClassMethodSignature(g.names.Object, g.names.Copy, g.names.Object)
	f := newFn(g.n.perClass(cls, g.names.Copy)).typed(sig.Names.Signature)
	f.param(selfLocal, g.valueType(g.names.Object))
	f.result(g.valueType(g.names.Object))
	f.local("$o", g.valueType(cls))
	f.op("local.set", "$o", L("ref.cast", ref(g.n.class(cls)), get(selfLocal)))

	load := func(name string) List {
		return L("struct.get", g.n.class(cls), name, get("$o"))
	}
	obj := L("struct.new", g.n.class(cls), load(vtField))
	for _, name := range g.dataFields(cls) {
		obj = append(obj, load(name))
	}
	f.emit(obj)
	g.addFunc(f.list())
}

// dataFields names the fields of cls after $#vt.
func (g *Generator) dataFields(cls symbol.Symbol) []string {
	switch cls {
	case g.names.Int, g.names.Bool:
		return []string{valField}
	case g.names.String:
		return []string{charsField}
	}
	var out []string
	for _, at := range g.env.ClassAllAttrs(cls, cls) {
		out = append(out, field(at.Name))
	}
	return out
}

func (g *Generator) emitTypeName(cls symbol.Symbol) {
	sig := g.env.ClassMethodSignature(g.names.Object, g.names.TypeName, g.names.Object)
	f := newFn(g.n.perClass(cls, g.names.TypeName)).typed(sig.Names.Signature)
	f.param(selfLocal, g.valueType(g.names.Object))
	f.result(g.valueType(g.names.String))
	f.op("global.get", g.pool.TextGlobal(cls.String()))
	g.addFunc(f.list())
}

// emitNew emits the allocator of cls. Basic value classes return their
// shared default constant.
func (g *Generator) emitNew(cls symbol.Symbol) {
	f := newFn(g.n.newFunc(cls)).export()
	f.result(ref(g.n.class(cls)))
	if g.names.IsPrimitive(cls) {
		f.emit(g.defaultValue(cls))
		g.addFunc(f.list())
		return
	}

	f.local("$o", g.valueType(cls))
	obj := L("struct.new", g.n.class(cls), L("global.get", g.n.vtableGlobal(cls)))
	for _, at := range g.env.ClassAllAttrs(cls, cls) {
		obj = append(obj, g.defaultValue(g.attrLayout(at)))
	}
	f.op("local.set", "$o", obj)
	f.op("call", g.n.initFunc(cls), get("$o"))
	f.op("ref.as_non_null", get("$o"))
	g.addFunc(f.list())
}

// emitNewVirtual emits the $#new vtable entry of cls, used by new SELF_TYPE.
func (g *Generator) emitNewVirtual(cls symbol.Symbol) {
	virtual := newFn(g.n.newVirtual(cls)).typed(newSignature)
	virtual.result(ref(g.n.class(g.names.Object)))
	virtual.op("call", g.n.newFunc(cls))
	g.addFunc(virtual.list())
}
