package wat

import (
	"fmt"
	"strconv"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// ConstantPool holds every integer and string constant of a module. All
// constants are interned before any function is generated, so function
// bodies only reference globals that already exist.
type ConstantPool struct {
	strings *symbol.Table

	ints    []int32
	intSeen map[int32]bool

	strs   []symbol.Symbol
	strIdx map[symbol.Symbol]int
}

// NewConstantPool creates a pool seeded with 0 and the empty string, the
// default values of Int and String.
func NewConstantPool(strings *symbol.Table) *ConstantPool {
	p := &ConstantPool{
		strings: strings,
		intSeen: make(map[int32]bool),
		strIdx:  make(map[symbol.Symbol]int),
	}
	p.AddInt(0)
	p.AddText("")
	return p
}

// AddInt interns v.
func (p *ConstantPool) AddInt(v int32) {
	if p.intSeen[v] {
		return
	}
	p.intSeen[v] = true
	p.ints = append(p.ints, v)
}

// AddIntToken parses an integer literal token and interns its value.
func (p *ConstantPool) AddIntToken(tok symbol.Symbol) error {
	v, err := ParseInt(tok)
	if err != nil {
		return err
	}
	p.AddInt(v)
	return nil
}

// AddString interns a string literal symbol.
func (p *ConstantPool) AddString(s symbol.Symbol) {
	if _, ok := p.strIdx[s]; ok {
		return
	}
	p.strIdx[s] = len(p.strs)
	p.strs = append(p.strs, s)
}

// AddText interns text into the string table and the pool.
func (p *ConstantPool) AddText(text string) symbol.Symbol {
	s := p.strings.Intern(text)
	p.AddString(s)
	return s
}

// Collect interns every literal of prog.
func (p *ConstantPool) Collect(prog *ast.Program) error {
	var err error
	ast.Walk(prog, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		switch lit := n.(type) {
		case *ast.IntConst:
			err = p.AddIntToken(lit.Token)
		case *ast.StringConst:
			p.AddString(lit.Value)
		}
		return true
	})
	return err
}

// IntGlobal names the global holding v. v must already be interned.
func (p *ConstantPool) IntGlobal(v int32) string {
	if !p.intSeen[v] {
		panic(fmt.Sprintf("wat: integer constant %d was not interned", v))
	}
	return intGlobalName(v)
}

// StringGlobal names the global holding s. s must already be interned.
func (p *ConstantPool) StringGlobal(s symbol.Symbol) string {
	idx, ok := p.strIdx[s]
	if !ok {
		panic(fmt.Sprintf("wat: string constant %q was not interned", s))
	}
	return fmt.Sprintf("$str.const.%d", idx)
}

// TextGlobal names the global holding text. text must already be interned.
func (p *ConstantPool) TextGlobal(text string) string {
	s, ok := p.strings.Lookup(text)
	if !ok {
		panic(fmt.Sprintf("wat: string constant %q was not interned", text))
	}
	return p.StringGlobal(s)
}

// Ints returns the interned integers in interning order.
func (p *ConstantPool) Ints() []int32 { return append([]int32(nil), p.ints...) }

// Strings returns the interned strings in interning order.
func (p *ConstantPool) Strings() []symbol.Symbol { return append([]symbol.Symbol(nil), p.strs...) }

// ParseInt converts an integer literal token to its 32-bit value.
func ParseInt(tok symbol.Symbol) (int32, error) {
	v, err := strconv.ParseInt(tok.String(), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("integer literal %s: %w", tok, err)
	}
	return int32(v), nil
}

func intGlobalName(v int32) string {
	return fmt.Sprintf("$int.const.%d", v)
}

const (
	boolTrueGlobal  = "$bool.const.true"
	boolFalseGlobal = "$bool.const.false"
)

func exportOf(name string) List {
	return L("export", strconv.Quote(name[1:]))
}

// globals renders the constant definitions. Each one is built from the
// canonical vtable of its class, which must be defined earlier.
func (p *ConstantPool) globals(n *naming) []List {
	var out []List
	for _, g := range []struct {
		name string
		val  int
	}{{boolTrueGlobal, 1}, {boolFalseGlobal, 0}} {
		out = append(out, L("global", g.name, exportOf(g.name), L("ref", n.class(n.names.Bool)),
			L("struct.new", n.class(n.names.Bool),
				L("global.get", n.vtableGlobal(n.names.Bool)),
				L("i32.const", g.val))))
	}
	for _, v := range p.ints {
		name := intGlobalName(v)
		out = append(out, L("global", name, exportOf(name), L("ref", n.class(n.names.Int)),
			L("struct.new", n.class(n.names.Int),
				L("global.get", n.vtableGlobal(n.names.Int)),
				L("i32.const", strconv.Itoa(int(v))))))
	}
	for _, s := range p.strs {
		name := p.StringGlobal(s)
		text := s.String()
		chars := L("array.new_fixed", charsArr, len(text))
		for i := 0; i < len(text); i++ {
			chars = append(chars, L("i32.const", int(text[i])))
		}
		out = append(out, L("global", name, exportOf(name), L("ref", n.class(n.names.String)),
			L("struct.new", n.class(n.names.String),
				L("global.get", n.vtableGlobal(n.names.String)),
				chars)))
	}
	return out
}
