package astjson

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sechmo/cool-wasm/internal/ast"
)

func (d *decoder) expr(path string, raw json.RawMessage) (ast.Expr, error) {
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

	if op, ok := binaryKinds[kind]; ok {
		left, err := d.field(path, o, "left")
		if err != nil {
			return nil, err
		}
		right, err := d.field(path, o, "right")
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpr(op, left, right, span), nil
	}
	if op, ok := unaryKinds[kind]; ok {
		operand, err := d.field(path, o, "expr")
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(op, operand, span), nil
	}

	switch kind {
	case "no_expr":
		return ast.NewNoExpr(span), nil

	case "block":
		body, err := d.exprs(path, o, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewBlockExpr(body, span), nil

	case "assign":
		name, err := d.id(path, o, "name")
		if err != nil {
			return nil, err
		}
		value, err := d.field(path, o, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewAssignExpr(name, value, span), nil

	case "dispatch", "static_dispatch":
		recv, err := d.field(path, o, "receiver")
		if err != nil {
			return nil, err
		}
		method, err := d.id(path, o, "method")
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(path, o, "args")
		if err != nil {
			return nil, err
		}
		if kind == "dispatch" {
			return ast.NewDispatchExpr(recv, method, args, span), nil
		}
		target, err := d.id(path, o, "type")
		if err != nil {
			return nil, err
		}
		return ast.NewStaticDispatchExpr(recv, target, method, args, span), nil

	case "cond":
		pred, err := d.field(path, o, "pred")
		if err != nil {
			return nil, err
		}
		then, err := d.field(path, o, "then")
		if err != nil {
			return nil, err
		}
		els, err := d.field(path, o, "else")
		if err != nil {
			return nil, err
		}
		return ast.NewCondExpr(pred, then, els, span), nil

	case "loop":
		pred, err := d.field(path, o, "pred")
		if err != nil {
			return nil, err
		}
		body, err := d.field(path, o, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewLoopExpr(pred, body, span), nil

	case "typcase":
		scrutinee, err := d.field(path, o, "expr")
		if err != nil {
			return nil, err
		}
		branches, err := d.branches(path, o)
		if err != nil {
			return nil, err
		}
		return ast.NewCaseExpr(scrutinee, branches, span), nil

	case "let":
		name, err := d.id(path, o, "name")
		if err != nil {
			return nil, err
		}
		typ, err := d.id(path, o, "type")
		if err != nil {
			return nil, err
		}
		init, err := d.optExpr(path, o, "init", span)
		if err != nil {
			return nil, err
		}
		body, err := d.field(path, o, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewLetExpr(name, typ, init, body, span), nil

	case "int":
		tok, err := intToken(path, o)
		if err != nil {
			return nil, err
		}
		return ast.NewIntConst(d.syms.Ints.Intern(tok), span), nil

	case "string":
		s, err := o.str(path, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewStringConst(d.syms.Strings.Intern(s), span), nil

	case "bool":
		if !o.has("value") {
			return nil, fmt.Errorf("%s.value: %w", path, ErrMissingField)
		}
		var v bool
		if err := json.Unmarshal(o["value"], &v); err != nil {
			return nil, fmt.Errorf("%s.value: %w", path, err)
		}
		return ast.NewBoolConst(v, span), nil

	case "new":
		typ, err := d.id(path, o, "type")
		if err != nil {
			return nil, err
		}
		return ast.NewNewExpr(typ, span), nil

	case "object":
		name, err := d.id(path, o, "name")
		if err != nil {
			return nil, err
		}
		return ast.NewObjectExpr(name, span), nil
	}
	return nil, fmt.Errorf("%s: expression %q: %w", path, kind, ErrUnknownKind)
}

func (d *decoder) branches(path string, o object) ([]*ast.Branch, error) {
	raws, err := o.list(path, "branches")
	if err != nil {
		return nil, err
	}
	out := make([]*ast.Branch, 0, len(raws))
	for i, raw := range raws {
		bpath := fmt.Sprintf("%s.branches[%d]", path, i)
		bo, err := d.object(bpath, raw)
		if err != nil {
			return nil, err
		}
		span, err := d.span(bpath, bo)
		if err != nil {
			return nil, err
		}
		name, err := d.id(bpath, bo, "name")
		if err != nil {
			return nil, err
		}
		typ, err := d.id(bpath, bo, "type")
		if err != nil {
			return nil, err
		}
		body, err := d.field(bpath, bo, "body")
		if err != nil {
			return nil, err
		}
		out = append(out, ast.NewBranch(name, typ, body, span))
	}
	return out, nil
}

// intToken returns the literal text of an integer, given either as a JSON
// number or as a string of decimal digits.
func intToken(path string, o object) (string, error) {
	if !o.has("value") {
		return "", fmt.Errorf("%s.value: %w", path, ErrMissingField)
	}
	raw := o["value"]
	tok := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &tok); err != nil {
			return "", fmt.Errorf("%s.value: %w", path, err)
		}
	}
	if tok == "" {
		return "", fmt.Errorf("%s.value: empty integer literal", path)
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%s.value: invalid integer literal %s", path, strconv.Quote(tok))
		}
	}
	return tok, nil
}
