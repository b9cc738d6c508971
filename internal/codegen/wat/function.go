package wat

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/symbol"
)

// fnBuilder accumulates one function definition.
type fnBuilder struct {
	name    string
	header  []Node
	params  []Node
	results []Node
	locals  []Node
	body    []Node

	temps  int
	labels int

	// assigned records the locals written by this function, so lifted
	// functions can hand them back to their caller.
	assigned map[symbol.Symbol]bool
}

func newFn(name string) *fnBuilder {
	return &fnBuilder{name: name, assigned: make(map[symbol.Symbol]bool)}
}

func (f *fnBuilder) export() *fnBuilder {
	f.header = append(f.header, exportOf(f.name))
	return f
}

func (f *fnBuilder) typed(sig string) *fnBuilder {
	f.header = append(f.header, L("type", sig))
	return f
}

func (f *fnBuilder) param(name string, t any) {
	if name == "" {
		f.params = append(f.params, L("param", t))
		return
	}
	f.params = append(f.params, L("param", name, t))
}

func (f *fnBuilder) result(t any) {
	f.results = append(f.results, L("result", t))
}

func (f *fnBuilder) local(name string, t any) {
	f.locals = append(f.locals, L("local", name, t))
}

// temp declares a fresh scratch local.
func (f *fnBuilder) temp(t any) string {
	name := fmt.Sprintf("$#t%d", f.temps)
	f.temps++
	f.local(name, t)
	return name
}

// label returns a fresh block label.
func (f *fnBuilder) label(kind string) string {
	name := fmt.Sprintf("$#%s%d", kind, f.labels)
	f.labels++
	return name
}

func (f *fnBuilder) emit(instrs ...Node) {
	f.body = append(f.body, instrs...)
}

func (f *fnBuilder) op(items ...any) {
	f.emit(L(items...))
}

// capture runs gen and returns the instructions it emitted instead of
// keeping them in the body.
func (f *fnBuilder) capture(gen func()) []Node {
	saved := f.body
	f.body = nil
	gen()
	out := f.body
	f.body = saved
	return out
}

func (f *fnBuilder) list() List {
	return L("func", f.name, f.header, f.params, f.results, f.locals, f.body)
}
