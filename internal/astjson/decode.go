// Package astjson reads COOL syntax trees produced by an external front
// end in a JSON interchange format.
//
// A program is {"filename": "...", "classes": [...]}. Every node carries an
// optional "line". Expressions are objects tagged by "kind":
//
//	block           body: [expr]
//	assign          name, value: expr
//	dispatch        receiver: expr, method, args: [expr]
//	static_dispatch receiver: expr, type, method, args: [expr]
//	cond            pred, then, else: expr
//	loop            pred, body: expr
//	typcase         expr: expr, branches: [{name, type, body}]
//	let             name, type, init?: expr, body: expr
//	plus sub mul divide lt leq eq   left, right: expr
//	neg comp isvoid expr: expr
//	int             value: number or digit string
//	string          value: string
//	bool            value: bool
//	new             type
//	object          name
//	no_expr
package astjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// ErrUnknownKind reports an expression or feature kind the decoder does
// not know.
var ErrUnknownKind = errors.New("unknown kind")

// ErrMissingField reports a required field absent from a node.
var ErrMissingField = errors.New("missing field")

var (
	binaryKinds = map[string]ast.BinaryOp{}
	unaryKinds  = map[string]ast.UnaryOp{}
)

func init() {
	for op := ast.OpPlus; op <= ast.OpEq; op++ {
		binaryKinds[op.String()] = op
	}
	for op := ast.OpNeg; op <= ast.OpIsVoid; op++ {
		unaryKinds[op.String()] = op
	}
}

type object map[string]json.RawMessage

type decoder struct {
	syms *symbol.Tables
	file string
}

type rawProgram struct {
	Filename string            `json:"filename"`
	Classes  []json.RawMessage `json:"classes"`
}

// Decode reads one program from r, interning names into syms.
func Decode(r io.Reader, syms *symbol.Tables) (*ast.Program, error) {
	return decode(r, syms, "")
}

// DecodeFile reads the program stored at path. Spans use path when the
// program does not name its source file.
func DecodeFile(path string, syms *symbol.Tables) (*ast.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open program: %w", err)
	}
	defer f.Close()
	return decode(f, syms, path)
}

func decode(r io.Reader, syms *symbol.Tables, fallback string) (*ast.Program, error) {
	var raw rawProgram
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	if raw.Filename == "" {
		raw.Filename = fallback
	}
	d := &decoder{syms: syms, file: raw.Filename}

	classes := make([]*ast.Class, 0, len(raw.Classes))
	for i, rc := range raw.Classes {
		cls, err := d.class(fmt.Sprintf("classes[%d]", i), rc)
		if err != nil {
			return nil, err
		}
		classes = append(classes, cls)
	}
	return ast.NewProgram(classes, diag.Span{Filename: d.file, Line: 1}), nil
}

func (d *decoder) object(path string, raw json.RawMessage) (object, error) {
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if o == nil {
		return nil, fmt.Errorf("%s: expected an object, got null", path)
	}
	return o, nil
}

func (o object) has(key string) bool {
	v, ok := o[key]
	return ok && string(v) != "null"
}

func (o object) str(path, key string) (string, error) {
	if !o.has(key) {
		return "", fmt.Errorf("%s.%s: %w", path, key, ErrMissingField)
	}
	var s string
	if err := json.Unmarshal(o[key], &s); err != nil {
		return "", fmt.Errorf("%s.%s: %w", path, key, err)
	}
	return s, nil
}

func (o object) optStr(path, key string) (string, error) {
	if !o.has(key) {
		return "", nil
	}
	return o.str(path, key)
}

func (o object) list(path, key string) ([]json.RawMessage, error) {
	if !o.has(key) {
		return nil, nil
	}
	var out []json.RawMessage
	if err := json.Unmarshal(o[key], &out); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", path, key, err)
	}
	return out, nil
}

func (d *decoder) span(path string, o object) (diag.Span, error) {
	span := diag.Span{Filename: d.file}
	if o.has("line") {
		if err := json.Unmarshal(o["line"], &span.Line); err != nil {
			return span, fmt.Errorf("%s.line: %w", path, err)
		}
	}
	return span, nil
}

func (d *decoder) id(path string, o object, key string) (symbol.Symbol, error) {
	s, err := o.str(path, key)
	if err != nil {
		return symbol.Symbol{}, err
	}
	return d.syms.IDs.Intern(s), nil
}

func (d *decoder) class(path string, raw json.RawMessage) (*ast.Class, error) {
	o, err := d.object(path, raw)
	if err != nil {
		return nil, err
	}
	span, err := d.span(path, o)
	if err != nil {
		return nil, err
	}
	name, err := d.id(path, o, "name")
	if err != nil {
		return nil, err
	}
	parentName, err := o.optStr(path, "parent")
	if err != nil {
		return nil, err
	}
	var parent symbol.Symbol
	if parentName != "" {
		parent = d.syms.IDs.Intern(parentName)
	}

	rawFeatures, err := o.list(path, "features")
	if err != nil {
		return nil, err
	}
	features := make([]ast.Feature, 0, len(rawFeatures))
	for i, rf := range rawFeatures {
		feat, err := d.feature(fmt.Sprintf("%s.features[%d]", path, i), rf)
		if err != nil {
			return nil, err
		}
		features = append(features, feat)
	}
	return ast.NewClass(name, parent, features, span), nil
}

func (d *decoder) feature(path string, raw json.RawMessage) (ast.Feature, error) {
	o, err := d.object(path, raw)
	if err != nil {
		return nil, err
	}
	kind, err := o.str(path, "kind")
	if err != nil {
		return nil, err
	}
	span, err := d.span(path, o)
	if err != nil {
		return nil, err
	}
	name, err := d.id(path, o, "name")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "attr":
		typ, err := d.id(path, o, "type")
		if err != nil {
			return nil, err
		}
		init, err := d.optExpr(path, o, "init", span)
		if err != nil {
			return nil, err
		}
		return ast.NewAttribute(name, typ, init, span), nil
	case "method":
		ret, err := d.id(path, o, "return")
		if err != nil {
			return nil, err
		}
		formals, err := d.formals(path, o)
		if err != nil {
			return nil, err
		}
		body, err := d.field(path, o, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewMethod(name, formals, ret, body, span), nil
	}
	return nil, fmt.Errorf("%s: feature %q: %w", path, kind, ErrUnknownKind)
}

func (d *decoder) formals(path string, o object) ([]*ast.Formal, error) {
	raws, err := o.list(path, "formals")
	if err != nil {
		return nil, err
	}
	out := make([]*ast.Formal, 0, len(raws))
	for i, raw := range raws {
		fpath := fmt.Sprintf("%s.formals[%d]", path, i)
		fo, err := d.object(fpath, raw)
		if err != nil {
			return nil, err
		}
		span, err := d.span(fpath, fo)
		if err != nil {
			return nil, err
		}
		name, err := d.id(fpath, fo, "name")
		if err != nil {
			return nil, err
		}
		typ, err := d.id(fpath, fo, "type")
		if err != nil {
			return nil, err
		}
		out = append(out, ast.NewFormal(name, typ, span))
	}
	return out, nil
}

// field decodes the required expression o[key].
func (d *decoder) field(path string, o object, key string) (ast.Expr, error) {
	if !o.has(key) {
		return nil, fmt.Errorf("%s.%s: %w", path, key, ErrMissingField)
	}
	return d.expr(path+"."+key, o[key])
}

// optExpr decodes o[key], or returns an empty expression at span.
func (d *decoder) optExpr(path string, o object, key string, span diag.Span) (ast.Expr, error) {
	if !o.has(key) {
		return ast.NewNoExpr(span), nil
	}
	return d.expr(path+"."+key, o[key])
}

func (d *decoder) exprs(path string, o object, key string) ([]ast.Expr, error) {
	raws, err := o.list(path, key)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Expr, 0, len(raws))
	for i, raw := range raws {
		e, err := d.expr(fmt.Sprintf("%s.%s[%d]", path, key, i), raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
