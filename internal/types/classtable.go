// Package types implements the static semantics: the class table, the
// per-class feature environment and the expression type checker.
package types

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// ClassTable holds the single-inheritance forest of a program.
type ClassTable struct {
	names    *Names
	sink     *diag.Sink
	parents  map[symbol.Symbol]symbol.Symbol
	nodes    map[symbol.Symbol]*ast.Class
	order    []symbol.Symbol // installation order
	basic    map[symbol.Symbol]bool
	children map[symbol.Symbol][]symbol.Symbol
	valid    bool
}

// NewClassTable installs the builtin classes followed by the classes of
// prog, then validates the inheritance graph. Problems are recorded in
// sink; Valid reports whether the table passed validation.
func NewClassTable(prog *ast.Program, names *Names, sink *diag.Sink) *ClassTable {
	t := &ClassTable{
		names:    names,
		sink:     sink,
		parents:  make(map[symbol.Symbol]symbol.Symbol),
		nodes:    make(map[symbol.Symbol]*ast.Class),
		basic:    make(map[symbol.Symbol]bool),
		children: make(map[symbol.Symbol][]symbol.Symbol),
	}

	before := sink.ErrorCount()

	for _, cls := range basicClasses(names) {
		t.addClass(cls)
		t.basic[cls.Name] = true
	}
	for _, cls := range prog.Classes {
		t.addClass(cls)
	}

	t.checkValidInheritance()
	if sink.ErrorCount() > before {
		return t
	}

	t.checkIsTree()
	if sink.ErrorCount() > before {
		return t
	}

	for _, cls := range t.order {
		if cls != names.Object {
			p := t.parents[cls]
			t.children[p] = append(t.children[p], cls)
		}
	}
	t.valid = true
	return t
}

func (t *ClassTable) reportError(code diag.Code, msg string, span diag.Span) {
	t.sink.Error(diag.StageClasses, code, span, msg)
}

func (t *ClassTable) addClass(cls *ast.Class) {
	if t.ClassExists(cls.Name) {
		t.reportError(diag.CodeDefDuplicateClass,
			fmt.Sprintf("Class %s is already defined", cls.Name), cls.Span())
		return
	}

	if cls.Name == t.names.SelfType {
		t.reportError(diag.CodeDefReservedClass,
			fmt.Sprintf("%q cannot be used as a class name", t.names.SelfType.String()), cls.Span())
		return
	}

	parent := cls.Parent
	if parent.IsZero() {
		parent = t.names.Object
	}
	t.parents[cls.Name] = parent
	t.nodes[cls.Name] = cls
	t.order = append(t.order, cls.Name)
}

func (t *ClassTable) checkValidInheritance() {
	for _, child := range t.order {
		if t.basic[child] {
			continue
		}
		parent := t.parents[child]
		span := t.nodes[child].Span()

		switch {
		case parent == t.names.Bool, parent == t.names.Int,
			parent == t.names.String, parent == t.names.SelfType:
			t.reportError(diag.CodeDefIllegalParent,
				fmt.Sprintf("cannot inherit from %s", parent), span)
		case !t.ClassExists(parent):
			t.reportError(diag.CodeDefUndefinedParent,
				fmt.Sprintf("cannot inherit from undefined class %s", parent), span)
		}
	}
}

func (t *ClassTable) checkIsTree() {
	seen := make(map[symbol.Symbol]bool)
	for _, cls := range t.order {
		clear(seen)
		curr := cls
		for curr != t.names.Object {
			seen[curr] = true
			curr = t.parents[curr]
			if seen[curr] {
				t.reportError(diag.CodeDefCycle,
					fmt.Sprintf("class %s: cyclic class inheritance with class (%s)", cls, curr),
					t.nodes[cls].Span())
				break
			}
		}
	}
}

// Names returns the well-known identifiers the table was built with.
func (t *ClassTable) Names() *Names { return t.names }

// Valid reports whether the inheritance graph passed validation.
func (t *ClassTable) Valid() bool { return t.valid }

// ClassExists reports whether name is an installed class.
func (t *ClassTable) ClassExists(name symbol.Symbol) bool {
	_, ok := t.parents[name]
	return ok
}

// IsBasic reports whether name is one of the builtin classes.
func (t *ClassTable) IsBasic(name symbol.Symbol) bool { return t.basic[name] }

// Parent returns the parent of cls. The root has no parent.
func (t *ClassTable) Parent(cls symbol.Symbol) (symbol.Symbol, bool) {
	if cls == t.names.Object {
		return symbol.Symbol{}, false
	}
	p, ok := t.parents[cls]
	return p, ok
}

// Class returns the declaration of cls, or nil.
func (t *ClassTable) Class(cls symbol.Symbol) *ast.Class { return t.nodes[cls] }

// Classes returns every class in installation order, builtins first.
func (t *ClassTable) Classes() []symbol.Symbol {
	out := make([]symbol.Symbol, len(t.order))
	copy(out, t.order)
	return out
}

// Children returns the direct subclasses of cls in installation order.
func (t *ClassTable) Children(cls symbol.Symbol) []symbol.Symbol {
	return t.children[cls]
}

// Depth returns the number of inheritance steps from cls to the root.
func (t *ClassTable) Depth(cls symbol.Symbol) int {
	depth := 0
	for curr := cls; curr != t.names.Object && depth <= len(t.order); depth++ {
		p, ok := t.parents[curr]
		if !ok {
			break
		}
		curr = p
	}
	return depth
}

// Topological returns every class with each parent before its children:
// Object, the remaining builtins, then user classes.
func (t *ClassTable) Topological() []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(t.order))
	done := make(map[symbol.Symbol]bool)
	var visit func(symbol.Symbol)
	visit = func(cls symbol.Symbol) {
		if done[cls] {
			return
		}
		done[cls] = true
		if p, ok := t.Parent(cls); ok && t.ClassExists(p) {
			visit(p)
		}
		out = append(out, cls)
	}
	for _, cls := range t.order {
		visit(cls)
	}
	return out
}

// ancestorOf walks the parents of child looking for parent. The walk is
// bounded so it terminates even on a table that failed validation.
func (t *ClassTable) ancestorOf(child, parent symbol.Symbol) bool {
	curr := child
	for steps := 0; steps <= len(t.order); steps++ {
		if curr == parent {
			return true
		}
		if curr == t.names.Object {
			return false
		}
		p, ok := t.parents[curr]
		if !ok {
			return false
		}
		curr = p
	}
	return false
}

// IsSubclass reports whether child conforms to parent inside current.
// SELF_TYPE conforms only to itself and to the ancestors of current; no
// class conforms to SELF_TYPE except SELF_TYPE. The error type conforms
// both ways so a single mistake is reported once.
func (t *ClassTable) IsSubclass(child, parent, current symbol.Symbol) bool {
	n := t.names
	if child == n.ErrType || parent == n.ErrType {
		return true
	}
	if child == n.SelfType && parent == n.SelfType {
		return true
	}
	if parent == n.SelfType {
		return false
	}
	if child == n.SelfType {
		return t.ancestorOf(current, parent)
	}
	return t.ancestorOf(child, parent)
}

func (t *ClassTable) lubNoSelfType(a, b symbol.Symbol) symbol.Symbol {
	curr := b
	for steps := 0; steps <= len(t.order); steps++ {
		if t.ancestorOf(a, curr) {
			return curr
		}
		p, ok := t.Parent(curr)
		if !ok {
			break
		}
		curr = p
	}
	return t.names.Object
}

// LeastUpperBound returns the closest common ancestor of a and b. Two
// SELF_TYPE operands join to SELF_TYPE; a single one stands for current.
func (t *ClassTable) LeastUpperBound(a, b, current symbol.Symbol) symbol.Symbol {
	n := t.names
	switch {
	case a == n.ErrType:
		return b
	case b == n.ErrType:
		return a
	case a == n.SelfType && b == n.SelfType:
		return n.SelfType
	case a == n.SelfType:
		return t.lubNoSelfType(current, b)
	case b == n.SelfType:
		return t.lubNoSelfType(current, a)
	}
	return t.lubNoSelfType(a, b)
}
