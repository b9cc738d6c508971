package wat

// Module is a generated WebAssembly module. Types are emitted as one
// recursive group so class and vtable types may refer to each other.
type Module struct {
	Imports []List
	Types   []List
	Globals []List
	Funcs   []List
}

// Node assembles the module S-expression.
func (m *Module) Node() List {
	out := L("module")
	for _, imp := range m.Imports {
		out = append(out, imp)
	}
	rec := L("rec")
	for _, t := range m.Types {
		rec = append(rec, t)
	}
	out = append(out, rec)
	for _, g := range m.Globals {
		out = append(out, g)
	}
	for _, f := range m.Funcs {
		out = append(out, f)
	}
	return out
}

// Format renders the module using indent per nesting level.
func (m *Module) Format(indent string) string {
	return Format(m.Node(), indent)
}

func (m *Module) String() string {
	return m.Format("  ")
}

// Func returns the function named name, or nil.
func (m *Module) Func(name string) List { return find(m.Funcs, name) }

// Global returns the global named name, or nil.
func (m *Module) Global(name string) List { return find(m.Globals, name) }

// Type returns the type definition named name, or nil.
func (m *Module) Type(name string) List { return find(m.Types, name) }

func find(defs []List, name string) List {
	for _, d := range defs {
		if d.Name() == name {
			return d
		}
	}
	return nil
}
