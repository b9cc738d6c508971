package types

import "github.com/sechmo/cool-wasm/internal/symbol"

// Names holds the well-known identifiers of one identifier table.
type Names struct {
	Object   symbol.Symbol
	IO       symbol.Symbol
	Int      symbol.Symbol
	Bool     symbol.Symbol
	String   symbol.Symbol
	SelfType symbol.Symbol
	Self     symbol.Symbol
	Main     symbol.Symbol
	MainMeth symbol.Symbol

	Abort     symbol.Symbol
	TypeName  symbol.Symbol
	Copy      symbol.Symbol
	OutString symbol.Symbol
	OutInt    symbol.Symbol
	InString  symbol.Symbol
	InInt     symbol.Symbol
	Length    symbol.Symbol
	Concat    symbol.Symbol
	Substr    symbol.Symbol
	Arg       symbol.Symbol
	Arg2      symbol.Symbol

	Val      symbol.Symbol
	StrField symbol.Symbol
	PrimSlot symbol.Symbol
	NoType   symbol.Symbol
	NoClass  symbol.Symbol
	ErrType  symbol.Symbol
}

// NewNames interns the well-known identifiers into ids.
func NewNames(ids *symbol.Table) *Names {
	return &Names{
		Object:   ids.Intern("Object"),
		IO:       ids.Intern("IO"),
		Int:      ids.Intern("Int"),
		Bool:     ids.Intern("Bool"),
		String:   ids.Intern("String"),
		SelfType: ids.Intern("SELF_TYPE"),
		Self:     ids.Intern("self"),
		Main:     ids.Intern("Main"),
		MainMeth: ids.Intern("main"),

		Abort:     ids.Intern("abort"),
		TypeName:  ids.Intern("type_name"),
		Copy:      ids.Intern("copy"),
		OutString: ids.Intern("out_string"),
		OutInt:    ids.Intern("out_int"),
		InString:  ids.Intern("in_string"),
		InInt:     ids.Intern("in_int"),
		Length:    ids.Intern("length"),
		Concat:    ids.Intern("concat"),
		Substr:    ids.Intern("substr"),
		Arg:       ids.Intern("arg"),
		Arg2:      ids.Intern("arg2"),

		Val:      ids.Intern("_val"),
		StrField: ids.Intern("_str_field"),
		PrimSlot: ids.Intern("_prim_slot"),
		NoType:   ids.Intern("_no_type"),
		NoClass:  ids.Intern("_no_class"),
		ErrType:  ids.Intern("err_type"),
	}
}

// IsPrimitive reports whether t is Int, Bool or String.
func (n *Names) IsPrimitive(t symbol.Symbol) bool {
	return t == n.Int || t == n.Bool || t == n.String
}
