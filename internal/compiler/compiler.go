// Package compiler runs the semantic phases over a syntax tree and, when
// they succeed, lowers the program to a WebAssembly text module.
package compiler

import (
	"errors"
	"fmt"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/astjson"
	"github.com/sechmo/cool-wasm/internal/codegen/wat"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
	"github.com/sechmo/cool-wasm/internal/types"
)

// ErrSemantic is returned when the program has definition or type errors.
var ErrSemantic = errors.New("static semantic errors")

// HaltMessage is recorded as a note after the errors of a failed compile.
const HaltMessage = "Compilation halted due to static semantic errors"

// Config carries options into the pipeline.
type Config struct {
	// Indent is the per-level indentation of the module text. Defaults to
	// two spaces.
	Indent string
	// Verbose, when set, receives one line per completed phase.
	Verbose func(string)
}

func (c Config) logf(format string, args ...any) {
	if c.Verbose != nil {
		c.Verbose(fmt.Sprintf(format, args...))
	}
}

// Analysis holds the products of the semantic phases.
type Analysis struct {
	Names       *types.Names
	Classes     *types.ClassTable
	Env         *types.FeatureEnv
	Diagnostics []diag.Diagnostic
}

// Result is the outcome of a compile.
type Result struct {
	Module      string
	Diagnostics []diag.Diagnostic
}

// Analyze builds the class table, the feature environment and the typed
// tree, stopping after the first phase that reports an error. On failure
// it returns the partial analysis together with an error wrapping
// ErrSemantic.
func Analyze(prog *ast.Program, syms *symbol.Tables, cfg Config) (*Analysis, error) {
	sink := diag.NewSink()
	a := &Analysis{Names: types.NewNames(syms.IDs)}

	a.Classes = types.NewClassTable(prog, a.Names, sink)
	if err := a.halt(sink, diag.StageClasses); err != nil {
		return a, err
	}
	cfg.logf("class table: %d classes", len(a.Classes.Classes()))

	a.Env = types.NewFeatureEnv(a.Classes, sink)
	if err := a.halt(sink, diag.StageFeatures); err != nil {
		return a, err
	}
	cfg.logf("features: %d method slots, %d attribute slots", a.Env.MethodCount(), a.Env.AttributeCount())

	types.NewChecker(a.Env, sink).Check(prog)
	if err := a.halt(sink, diag.StageTypeCheck); err != nil {
		return a, err
	}
	cfg.logf("type check: ok")

	n := a.Names
	if !a.Env.ClassHasMethod(n.Main, n.MainMeth, n.Main) {
		sink.Record(diag.Diagnostic{
			Stage:    diag.StageTypeCheck,
			Severity: diag.SeverityWarning,
			Code:     diag.CodeNoMain,
			Message:  fmt.Sprintf("no class %s with a method %s", n.Main, n.MainMeth),
			Span:     prog.Span(),
		})
	}

	a.Diagnostics = sink.Diagnostics()
	return a, nil
}

// DecodeFile reads the program at path. A malformed file is reported as a
// single decode diagnostic along with the error.
func DecodeFile(path string, syms *symbol.Tables) (*ast.Program, []diag.Diagnostic, error) {
	prog, err := astjson.DecodeFile(path, syms)
	if err != nil {
		d := diag.Diagnostic{
			Stage:    diag.StageDecode,
			Severity: diag.SeverityError,
			Code:     diag.CodeDecodeFailed,
			Message:  err.Error(),
			Span:     diag.Span{Filename: path},
		}
		return nil, []diag.Diagnostic{d}, err
	}
	return prog, nil, nil
}

func (a *Analysis) halt(sink *diag.Sink, stage diag.Stage) error {
	if !sink.HasAny() {
		return nil
	}
	sink.Record(diag.Diagnostic{
		Stage:    stage,
		Severity: diag.SeverityNote,
		Code:     diag.CodeHalted,
		Message:  HaltMessage,
	})
	a.Diagnostics = sink.Diagnostics()
	return fmt.Errorf("%s: %d error(s): %w", stage, sink.ErrorCount(), ErrSemantic)
}

// Compile analyzes prog and generates its module. A program with errors
// yields every diagnostic, no module and an error wrapping ErrSemantic.
func Compile(prog *ast.Program, syms *symbol.Tables, cfg Config) (*Result, error) {
	a, err := Analyze(prog, syms, cfg)
	if err != nil {
		return &Result{Diagnostics: a.Diagnostics}, err
	}

	mod, err := wat.NewGenerator(a.Env, syms.Strings).Generate(prog)
	if err != nil {
		d := diag.Diagnostic{
			Stage:    diag.StageCodegen,
			Severity: diag.SeverityError,
			Code:     diag.CodeCodegenFailed,
			Message:  err.Error(),
			Span:     prog.Span(),
		}
		return &Result{Diagnostics: append(a.Diagnostics, d)}, fmt.Errorf("generate: %w", err)
	}
	cfg.logf("codegen: %d functions, %d globals", len(mod.Funcs), len(mod.Globals))

	indent := cfg.Indent
	if indent == "" {
		indent = "  "
	}
	return &Result{Module: mod.Format(indent), Diagnostics: a.Diagnostics}, nil
}
