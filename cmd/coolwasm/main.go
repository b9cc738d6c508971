// Command coolwasm compiles COOL programs, given as JSON syntax trees, to
// WebAssembly text using the GC proposal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/compiler"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

var (
	verbose = flag.Bool("v", false, "log each completed phase")
	noColor = flag.Bool("no-color", false, "disable coloured diagnostics")
)

func main() {
	log.SetPrefix("coolwasm: ")
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coolwasm [options] <command> [arguments]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  build <prog.json>    Compile a program to WebAssembly text\n")
		fmt.Fprintf(os.Stderr, "  check <prog.json>    Run the semantic phases only\n")
		fmt.Fprintf(os.Stderr, "  dump <prog.json>     Print the typed syntax tree\n")
		fmt.Fprintf(os.Stderr, "  inspect <prog.json>  Query the class hierarchy interactively\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "build":
		runBuild(args)
	case "check":
		runCheck(args)
	case "dump":
		runDump(args)
	case "inspect":
		runInspect(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func config() compiler.Config {
	var cfg compiler.Config
	if *verbose {
		cfg.Verbose = func(s string) { log.Print(s) }
	}
	return cfg
}

// load decodes the single program argument of a command.
func load(fs *flag.FlagSet, args []string) (*ast.Program, *symbol.Tables) {
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	syms := symbol.NewTables()
	prog, ds, err := compiler.DecodeFile(fs.Arg(0), syms)
	report(formatter(false), ds, err)
	return prog, syms
}

func formatter(source bool) *diag.Formatter {
	f := diag.NewTerminalFormatter(os.Stderr)
	if *noColor {
		f.Color = false
	}
	f.ShowSource = source
	return f
}

// report prints diagnostics and exits when err is set.
func report(f *diag.Formatter, ds []diag.Diagnostic, err error) {
	f.FormatAll(ds)
	if err == nil {
		return
	}
	if len(ds) == 0 {
		log.Print(err)
	}
	os.Exit(1)
}

func usage(fs *flag.FlagSet, synopsis string) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coolwasm %s\n", synopsis)
		fs.PrintDefaults()
	}
}

func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	out := fs.String("o", "", "write the module to `file` instead of stdout")
	indent := fs.String("indent", "", "indentation per nesting level (default two spaces)")
	usage(fs, "build [-o file] [-indent s] <prog.json>")
	prog, syms := load(fs, args)

	cfg := config()
	cfg.Indent = *indent
	res, err := compiler.Compile(prog, syms, cfg)
	report(formatter(false), res.Diagnostics, err)

	if *out == "" {
		fmt.Print(res.Module)
		return
	}
	if err := os.WriteFile(*out, []byte(res.Module), 0o644); err != nil {
		log.Fatalf("write module: %v", err)
	}
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	source := fs.Bool("source", false, "print the offending source line under each diagnostic")
	usage(fs, "check [-source] <prog.json>")
	prog, syms := load(fs, args)

	a, err := compiler.Analyze(prog, syms, config())
	report(formatter(*source), a.Diagnostics, err)
}

func runDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	usage(fs, "dump <prog.json>")
	prog, syms := load(fs, args)

	a, err := compiler.Analyze(prog, syms, config())
	report(formatter(false), a.Diagnostics, err)
	if err := ast.DumpWithTypes(os.Stdout, prog); err != nil {
		log.Fatal(err)
	}
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	usage(fs, "inspect <prog.json>")
	prog, syms := load(fs, args)

	a, err := compiler.Analyze(prog, syms, config())
	report(formatter(false), a.Diagnostics, err)
	if err := repl(newInspector(a, syms)); err != nil {
		log.Fatal(err)
	}
}
