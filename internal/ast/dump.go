package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/sechmo/cool-wasm/internal/diag"
)

var escaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, `"`, `\"`)

// dumper writes the typed tree in the classic indented format: one line
// per token, a "#line" marker before each node and ": Type" after each
// expression.
type dumper struct {
	w   io.Writer
	err error
}

// DumpWithTypes writes a typed dump of prog to w.
func DumpWithTypes(w io.Writer, prog *Program) error {
	d := &dumper{w: w}
	d.program(prog, 0)
	return d.err
}

func (d *dumper) printf(n int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s"+format+"\n", append([]any{strings.Repeat(" ", n)}, args...)...)
}

func (d *dumper) line(n int, node Node) {
	d.printf(n, "#%d", node.Span().Line)
}

func (d *dumper) typ(n int, e Expr) {
	if t := e.Type(); !t.IsZero() {
		d.printf(n, ": %s", t)
		return
	}
	d.printf(n, ": _no_type")
}

func (d *dumper) program(p *Program, n int) {
	d.line(n, p)
	d.printf(n, "_program")
	for _, cls := range p.Classes {
		d.class(cls, n+2)
	}
}

func (d *dumper) class(c *Class, n int) {
	d.line(n, c)
	d.printf(n, "_class")
	d.printf(n+2, "%s", c.Name)
	if c.Parent.IsZero() {
		d.printf(n+2, "Object")
	} else {
		d.printf(n+2, "%s", c.Parent)
	}
	d.printf(n+2, "\"%s\"", escaper.Replace(c.Span().Filename))
	d.printf(n+2, "(")
	for _, feat := range c.Features {
		switch f := feat.(type) {
		case *Method:
			d.line(n+2, f)
			d.printf(n+2, "_method")
			d.printf(n+4, "%s", f.Name)
			for _, formal := range f.Formals {
				d.line(n+4, formal)
				d.printf(n+4, "_formal")
				d.printf(n+6, "%s", formal.Name)
				d.printf(n+6, "%s", formal.TypeDecl)
			}
			d.printf(n+4, "%s", f.ReturnType)
			d.expr(f.Body, n+4)
		case *Attribute:
			d.line(n+2, f)
			d.printf(n+2, "_attr")
			d.printf(n+4, "%s", f.Name)
			d.printf(n+4, "%s", f.TypeDecl)
			d.expr(f.Init, n+4)
		}
	}
	d.printf(n+2, ")")
}

func (d *dumper) exprs(n int, es []Expr) {
	d.printf(n, "(")
	for _, e := range es {
		d.expr(e, n)
	}
	d.printf(n, ")")
}

func (d *dumper) expr(e Expr, n int) {
	if e == nil {
		e = NewNoExpr(diag.Span{})
	}
	d.line(n, e)
	switch x := e.(type) {
	case *NoExpr:
		d.printf(n, "_no_expr")
	case *BlockExpr:
		d.printf(n, "_block")
		for _, sub := range x.Body {
			d.expr(sub, n+2)
		}
	case *AssignExpr:
		d.printf(n, "_assign")
		d.printf(n+2, "%s", x.Name)
		d.expr(x.Value, n+2)
	case *StaticDispatchExpr:
		d.printf(n, "_static_dispatch")
		d.expr(x.Receiver, n+2)
		d.printf(n+2, "%s", x.Target)
		d.printf(n+2, "%s", x.Method)
		d.exprs(n+2, x.Args)
	case *DispatchExpr:
		d.printf(n, "_dispatch")
		d.expr(x.Receiver, n+2)
		d.printf(n+2, "%s", x.Method)
		d.exprs(n+2, x.Args)
	case *CondExpr:
		d.printf(n, "_cond")
		d.expr(x.Pred, n+2)
		d.expr(x.Then, n+2)
		d.expr(x.Else, n+2)
	case *LoopExpr:
		d.printf(n, "_loop")
		d.expr(x.Pred, n+2)
		d.expr(x.Body, n+2)
	case *CaseExpr:
		d.printf(n, "_typcase")
		d.expr(x.Scrutinee, n+2)
		for _, br := range x.Branches {
			d.line(n+2, br)
			d.printf(n+2, "_branch")
			d.printf(n+4, "%s", br.Name)
			d.printf(n+4, "%s", br.TypeDecl)
			d.expr(br.Body, n+4)
		}
	case *LetExpr:
		d.printf(n, "_let")
		d.printf(n+2, "%s", x.Name)
		d.printf(n+2, "%s", x.TypeDecl)
		d.expr(x.Init, n+2)
		d.expr(x.Body, n+2)
	case *BinaryExpr:
		d.printf(n, "_%s", x.Op)
		d.expr(x.Left, n+2)
		d.expr(x.Right, n+2)
	case *UnaryExpr:
		d.printf(n, "_%s", x.Op)
		d.expr(x.Operand, n+2)
	case *IntConst:
		d.printf(n, "_int")
		d.printf(n+2, "%s", x.Token)
	case *StringConst:
		d.printf(n, "_string")
		d.printf(n+2, "\"%s\"", escaper.Replace(x.Value.String()))
	case *BoolConst:
		d.printf(n, "_bool")
		if x.Value {
			d.printf(n+2, "1")
		} else {
			d.printf(n+2, "0")
		}
	case *NewExpr:
		d.printf(n, "_new")
		d.printf(n+2, "%s", x.TypeName)
	case *ObjectExpr:
		d.printf(n, "_object")
		d.printf(n+2, "%s", x.Name)
	}
	d.typ(n, e)
}
