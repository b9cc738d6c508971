package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sechmo/cool-wasm/internal/compiler"
	"github.com/sechmo/cool-wasm/internal/symbol"
	"github.com/sechmo/cool-wasm/internal/types"
)

var errQuit = errors.New("quit")

const inspectHelp = `commands:
  classes        list classes in topological order
  parent C       print the parent of C
  children C     list the direct subclasses of C with their depth
  sub A B        report whether A conforms to B
  lub A B        print the least upper bound of A and B
  methods C      list the methods of C by slot
  attrs C        list the attributes of C by slot
  quit           leave
`

// inspector answers queries about an analyzed program.
type inspector struct {
	a    *compiler.Analysis
	syms *symbol.Tables
}

func newInspector(a *compiler.Analysis, syms *symbol.Tables) *inspector {
	return &inspector{a: a, syms: syms}
}

func repl(in *inspector) error {
	rl, err := readline.New("cool> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := in.eval(rl.Stdout(), line); err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Fprintln(rl.Stderr(), err)
		}
	}
}

func (in *inspector) class(name string) (symbol.Symbol, error) {
	sym, ok := in.syms.IDs.Lookup(name)
	if !ok || !in.a.Classes.ClassExists(sym) {
		return symbol.Symbol{}, fmt.Errorf("no class %s", name)
	}
	return sym, nil
}

func (in *inspector) classes(names []string, n int, usage string) ([]symbol.Symbol, error) {
	if len(names) != n {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	out := make([]symbol.Symbol, n)
	for i, name := range names {
		sym, err := in.class(name)
		if err != nil {
			return nil, err
		}
		out[i] = sym
	}
	return out, nil
}

// eval runs one command line, writing its answer to w.
func (in *inspector) eval(w io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	ct := in.a.Classes
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprint(w, inspectHelp)
	case "classes":
		for _, c := range ct.Topological() {
			fmt.Fprintln(w, c)
		}
	case "parent":
		cs, err := in.classes(args, 1, "parent C")
		if err != nil {
			return err
		}
		p, ok := ct.Parent(cs[0])
		if !ok {
			fmt.Fprintf(w, "%s is the root\n", cs[0])
			return nil
		}
		fmt.Fprintln(w, p)
	case "children":
		cs, err := in.classes(args, 1, "children C")
		if err != nil {
			return err
		}
		for _, c := range ct.Children(cs[0]) {
			fmt.Fprintf(w, "%s (depth %d)\n", c, ct.Depth(c))
		}
	case "sub":
		cs, err := in.classes(args, 2, "sub A B")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ct.IsSubclass(cs[0], cs[1], cs[0]))
	case "lub":
		cs, err := in.classes(args, 2, "lub A B")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ct.LeastUpperBound(cs[0], cs[1], cs[0]))
	case "methods":
		cs, err := in.classes(args, 1, "methods C")
		if err != nil {
			return err
		}
		for _, sig := range in.a.Env.ClassMethods(cs[0], cs[0]) {
			fmt.Fprintf(w, "%3d %s\n", sig.Slot, formatSignature(sig))
		}
	case "attrs":
		cs, err := in.classes(args, 1, "attrs C")
		if err != nil {
			return err
		}
		for _, at := range in.a.Env.ClassAllAttrs(cs[0], cs[0]) {
			fmt.Fprintf(w, "%3d %s : %s (from %s)\n", at.Slot, at.Name, at.Type, at.Owner)
		}
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func formatSignature(sig *types.MethodSignature) string {
	var sb strings.Builder
	sb.WriteString(sig.Name.String())
	sb.WriteByte('(')
	for i, arg := range sig.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s : %s", arg.Name, arg.Type)
	}
	fmt.Fprintf(&sb, ") : %s [%s, defined in %s]", sig.Return, sig.Origin, sig.Definer)
	return sb.String()
}
