package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

func messages(ds []diag.Diagnostic) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.Message)
	}
	return out
}

func TestCompileHello(t *testing.T) {
	syms := symbol.NewTables()
	b := ast.NewBuilder(syms, "hello.cl")
	prog := b.Program(b.Class("Main", "IO",
		b.Method("main", nil, "Object", b.Call("out_string", b.Str("hello\n"))),
	))

	var phases []string
	res, err := Compile(prog, syms, Config{Verbose: func(s string) { phases = append(phases, s) }})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	require.True(t, strings.HasPrefix(res.Module, "(module\n  (import \"cool\" \"abortTag\""), res.Module[:80])
	require.Contains(t, res.Module, "(func $Main.main.generic")
	require.Contains(t, res.Module, "(func $Main.new\n    (export \"Main.new\")")
	require.Len(t, phases, 4)
	require.Equal(t, "type check: ok", phases[2])
}

func TestCompileIndent(t *testing.T) {
	syms := symbol.NewTables()
	b := ast.NewBuilder(syms, "t.cl")
	prog := b.Program(b.Class("Main", "", b.Method("main", nil, "Int", b.Int(1))))
	res, err := Compile(prog, syms, Config{Indent: "\t"})
	require.NoError(t, err)
	require.Contains(t, res.Module, "\n\t(rec\n\t\t(type $charsArr")
}

func TestInheritFromIntFailsOnce(t *testing.T) {
	syms := symbol.NewTables()
	b := ast.NewBuilder(syms, "bad.cl")
	prog := b.Program(
		b.Class("A", "Int"),
		b.Class("Main", "", b.Method("main", nil, "Int", b.Int(0))),
	)
	res, err := Compile(prog, syms, Config{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSemantic))
	require.Empty(t, res.Module)

	want := []string{"cannot inherit from Int", HaltMessage}
	if diff := cmp.Diff(want, messages(res.Diagnostics)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, diag.SeverityError, res.Diagnostics[0].Severity)
	require.Equal(t, "bad.cl", res.Diagnostics[0].Span.Filename)
	require.Equal(t, diag.SeverityNote, res.Diagnostics[1].Severity)
	require.Equal(t, diag.CodeHalted, res.Diagnostics[1].Code)
}

func TestFeatureErrorsStopBeforeTypeCheck(t *testing.T) {
	syms := symbol.NewTables()
	b := ast.NewBuilder(syms, "t.cl")
	prog := b.Program(b.Class("Main", "",
		b.Attr("x", "Int", nil),
		b.Attr("x", "Int", nil),
		b.Method("main", nil, "Int", b.Obj("nope")),
	))
	a, err := Analyze(prog, syms, Config{})
	require.ErrorIs(t, err, ErrSemantic)
	require.Contains(t, err.Error(), "features: 1 error(s)")
	require.NotNil(t, a.Classes)
	require.Equal(t, []string{"duplicate attribute name x", HaltMessage}, messages(a.Diagnostics))
}

func TestTypeErrorsAccumulate(t *testing.T) {
	syms := symbol.NewTables()
	b := ast.NewBuilder(syms, "t.cl")
	prog := b.Program(b.Class("Main", "",
		b.Method("one", nil, "Int", b.Obj("nope")),
		b.Method("two", nil, "Int", b.New("Missing")),
	))
	res, err := Compile(prog, syms, Config{})
	require.ErrorIs(t, err, ErrSemantic)
	require.Equal(t, []string{
		"undefined variable nope",
		"cannot create an object of undefined type Missing",
		HaltMessage,
	}, messages(res.Diagnostics))
}

func TestAnalyzeSucceeds(t *testing.T) {
	syms := symbol.NewTables()
	b := ast.NewBuilder(syms, "t.cl")
	prog := b.Program(
		b.Class("A", ""),
		b.Class("B", "A"),
	)
	a, err := Analyze(prog, syms, Config{})
	require.NoError(t, err)
	require.True(t, a.Classes.IsSubclass(b.ID("B"), b.ID("A"), b.ID("B")))
	require.NotNil(t, a.Env.ClassMethodSignature(b.ID("B"), b.ID("copy"), b.ID("B")))
}

func TestMissingMainWarns(t *testing.T) {
	syms := symbol.NewTables()
	b := ast.NewBuilder(syms, "t.cl")
	prog := b.Program(b.Class("Main", "", b.Method("run", nil, "Int", b.Int(0))))
	res, err := Compile(prog, syms, Config{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Module)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	require.Equal(t, diag.SeverityWarning, d.Severity)
	require.Equal(t, diag.CodeNoMain, d.Code)
	require.Equal(t, "no class Main with a method main", d.Message)
}

func TestCodegenFailureIsReported(t *testing.T) {
	syms := symbol.NewTables()
	b := ast.NewBuilder(syms, "big.cl")
	big := ast.NewIntConst(syms.Ints.Intern("99999999999"), diag.Span{Filename: "big.cl", Line: 3})
	prog := b.Program(b.Class("Main", "", b.Method("main", nil, "Int", big)))
	res, err := Compile(prog, syms, Config{})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrSemantic))
	require.Empty(t, res.Module)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	require.Equal(t, diag.StageCodegen, d.Stage)
	require.Equal(t, diag.CodeCodegenFailed, d.Code)
	require.Contains(t, d.Message, "integer literal 99999999999")
}

func TestDecodeFileReportsDiagnostic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"classes":[{"name":"A","features":[{"kind":"ctor","name":"a"}]}]}`), 0o644))

	prog, ds, err := DecodeFile(path, symbol.NewTables())
	require.Nil(t, prog)
	require.Error(t, err)
	require.Len(t, ds, 1)
	require.Equal(t, diag.StageDecode, ds[0].Stage)
	require.Equal(t, diag.CodeDecodeFailed, ds[0].Code)
	require.Equal(t, path, ds[0].Span.Filename)
	require.Equal(t, err.Error(), ds[0].Message)

	var sb strings.Builder
	diag.NewFormatter(&sb).FormatAll(ds)
	require.Equal(t, path+":0: "+err.Error()+"\n", sb.String())
}
