// Package wat builds WebAssembly text modules (GC and exception handling
// proposals) from a type-checked COOL program.
package wat

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is an element of a WAT S-expression.
type Node interface {
	isNode()
}

// Atom is a bare token: a keyword, an identifier or a literal.
type Atom string

// List is a parenthesised sequence of nodes.
type List []Node

func (Atom) isNode() {}
func (List) isNode() {}

// L builds a list. Strings become atoms, ints become decimal atoms and
// plain []Node slices are spliced into the list.
func L(items ...any) List {
	out := make(List, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case Node:
			out = append(out, v)
		case string:
			out = append(out, Atom(v))
		case int:
			out = append(out, Atom(strconv.Itoa(v)))
		case []Node:
			out = append(out, v...)
		default:
			panic(fmt.Sprintf("wat: cannot place %T in a list", it))
		}
	}
	return out
}

// Head returns the leading keyword of l, or "".
func (l List) Head() string {
	if len(l) == 0 {
		return ""
	}
	if a, ok := l[0].(Atom); ok {
		return string(a)
	}
	return ""
}

// Name returns the identifier following the head of a definition such as
// (func $f ...), or "".
func (l List) Name() string {
	if len(l) < 2 {
		return ""
	}
	if a, ok := l[1].(Atom); ok && strings.HasPrefix(string(a), "$") {
		return string(a)
	}
	return ""
}

// String renders l on a single line.
func (l List) String() string {
	var sb strings.Builder
	writeFlat(&sb, l)
	return sb.String()
}

const lineWidth = 96

// Lists with these heads always put their children on separate lines.
var alwaysBreak = map[string]bool{
	"module": true,
	"rec":    true,
	"func":   true,
}

// Format renders n with one child per line whenever a list is too wide or
// is a module, rec group or function. indent is repeated per depth level.
func Format(n Node, indent string) string {
	p := &printer{indent: indent}
	p.node(n, 0)
	p.sb.WriteByte('\n')
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent string
}

func (p *printer) node(n Node, depth int) {
	l, ok := n.(List)
	if !ok {
		writeFlat(&p.sb, n)
		return
	}
	flat := l.String()
	if !alwaysBreak[l.Head()] && len(flat)+depth*len(p.indent) <= lineWidth {
		p.sb.WriteString(flat)
		return
	}

	p.sb.WriteByte('(')
	i := 0
	for ; i < len(l); i++ {
		a, isAtom := l[i].(Atom)
		if !isAtom {
			break
		}
		if i > 0 {
			p.sb.WriteByte(' ')
		}
		p.sb.WriteString(string(a))
	}
	for ; i < len(l); i++ {
		p.sb.WriteByte('\n')
		p.sb.WriteString(strings.Repeat(p.indent, depth+1))
		p.node(l[i], depth+1)
	}
	p.sb.WriteByte(')')
}

func writeFlat(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case Atom:
		sb.WriteString(string(v))
	case List:
		sb.WriteByte('(')
		for i, c := range v {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeFlat(sb, c)
		}
		sb.WriteByte(')')
	}
}
