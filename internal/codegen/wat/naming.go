package wat

import (
	"fmt"

	"github.com/sechmo/cool-wasm/internal/symbol"
	"github.com/sechmo/cool-wasm/internal/types"
)

// Fixed names shared by the layout and the helpers.
const (
	charsArr       = "$charsArr"
	newSignature   = "$#new.signature"
	newField       = "$#new"
	vtField        = "$#vt"
	valField       = "$_val"
	charsField     = "$chars"
	abortTag       = "$abortTag"
	outStringFunc  = "$outStringHelper"
	outIntFunc     = "$outIntHelper"
	lengthHelper   = "$String.helper.length"
	charAtHelper   = "$String.helper.charAt"
	equalsHelper   = "$String.helper.equals"
	objEqHelper    = "$Object.helper.equals"
	lengthHelperTy = "$String.helper.length.signature"
	charAtHelperTy = "$String.helper.charAt.signature"
	selfLocal      = "$self"
	recvParam      = "$#recv"
	scrutParam     = "$#scrut"
)

// Abort codes carried by $abortTag.
const (
	AbortCalled   = -1
	AbortNoBranch = -2
)

type naming struct {
	names *types.Names
}

func (n *naming) class(c symbol.Symbol) string        { return "$" + c.String() }
func (n *naming) vtableType(c symbol.Symbol) string   { return fmt.Sprintf("$%s#vtable", c) }
func (n *naming) vtableGlobal(c symbol.Symbol) string { return fmt.Sprintf("$%s.vtable.canon", c) }
func (n *naming) newFunc(c symbol.Symbol) string      { return fmt.Sprintf("$%s.new", c) }
func (n *naming) newVirtual(c symbol.Symbol) string   { return fmt.Sprintf("$%s.new.virtual", c) }
func (n *naming) initFunc(c symbol.Symbol) string     { return fmt.Sprintf("$%s.init", c) }
func (n *naming) toI32(c symbol.Symbol) string        { return fmt.Sprintf("$%s.helper.toI32", c) }
func (n *naming) fromI32(c symbol.Symbol) string      { return fmt.Sprintf("$%s.helper.fromI32", c) }

// perClass names the per-class bodies of copy and type_name.
func (n *naming) perClass(c, meth symbol.Symbol) string {
	return fmt.Sprintf("$%s.%s.implementation", c, meth)
}

func field(name symbol.Symbol) string { return "$" + name.String() }
func local(name symbol.Symbol) string { return "$" + name.String() }

func ref(t string) List     { return L("ref", t) }
func refNull(t string) List { return L("ref", "null", t) }
