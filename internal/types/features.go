package types

import (
	"fmt"
	"sort"

	"github.com/sechmo/cool-wasm/internal/ast"
	"github.com/sechmo/cool-wasm/internal/diag"
	"github.com/sechmo/cool-wasm/internal/scope"
	"github.com/sechmo/cool-wasm/internal/symbol"
)

// Origin classifies a method signature relative to the class holding it.
type Origin int

const (
	OriginNew Origin = iota
	OriginInherited
	OriginOverridden
)

func (o Origin) String() string {
	switch o {
	case OriginNew:
		return "new"
	case OriginInherited:
		return "inherited"
	case OriginOverridden:
		return "overridden"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// Arg is one formal of a method signature.
type Arg struct {
	Name symbol.Symbol
	Type symbol.Symbol
}

// CodegenNames are the target-level names of a method. Signature and
// Generic belong to the class that introduced the slot; Implementation
// belongs to the class whose body runs.
type CodegenNames struct {
	Signature      string
	Implementation string
	Generic        string
}

// MethodSignature describes a method as seen from one class.
type MethodSignature struct {
	Name   symbol.Symbol
	Args   []Arg
	Return symbol.Symbol
	Origin Origin
	Slot   int
	// Intro is the class that introduced the slot.
	Intro symbol.Symbol
	// Definer is the class whose body implements the method here.
	Definer symbol.Symbol
	Names   CodegenNames
	Node    *ast.Method
}

// AttributeType describes an attribute as seen from one class.
type AttributeType struct {
	Name symbol.Symbol
	Type symbol.Symbol
	Slot int
	// Owner is the class declaring the attribute.
	Owner symbol.Symbol
	Node  *ast.Attribute
}

// FeatureEnv resolves the full method and attribute sets of every class.
// Slot counters are owned by the environment and never reset.
type FeatureEnv struct {
	classes *ClassTable
	names   *Names
	sink    *diag.Sink

	methods map[symbol.Symbol]map[symbol.Symbol]*MethodSignature
	attrs   map[symbol.Symbol]map[symbol.Symbol]*AttributeType

	methodCount int
	attrCount   int
}

// NewFeatureEnv processes every class of a valid table, parents first.
func NewFeatureEnv(classes *ClassTable, sink *diag.Sink) *FeatureEnv {
	if !classes.Valid() {
		panic("types: feature environment built over an invalid class table")
	}
	env := &FeatureEnv{
		classes: classes,
		names:   classes.Names(),
		sink:    sink,
		methods: make(map[symbol.Symbol]map[symbol.Symbol]*MethodSignature),
		attrs:   make(map[symbol.Symbol]map[symbol.Symbol]*AttributeType),
	}
	for _, cls := range classes.Classes() {
		env.addClass(classes.Class(cls))
	}
	return env
}

func (e *FeatureEnv) reportError(code diag.Code, msg string, span diag.Span) {
	e.sink.Error(diag.StageFeatures, code, span, msg)
}

func (e *FeatureEnv) reportHelp(code diag.Code, msg, help string, span diag.Span) {
	e.sink.Record(featureError(code, msg, span).WithHelp(help))
}

func featureError(code diag.Code, msg string, span diag.Span) diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageFeatures,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  msg,
		Span:     span,
	}
}

// reportOverride records an override mismatch pointing back at the
// parent's declaration when it has a position.
func (e *FeatureEnv) reportOverride(msg string, meth *ast.Method, parent symbol.Symbol, parentSig *MethodSignature) {
	d := featureError(diag.CodeDefOverrideMismatch, msg, meth.Span()).
		WithHelp(overrideHelp(parent, meth.Name))
	if parentSig.Node != nil && parentSig.Node.Span().IsValid() {
		d = d.WithNote(fmt.Sprintf("%s.%s is declared at %s", parentSig.Definer, meth.Name, parentSig.Node.Span()))
	}
	e.sink.Record(d)
}

// ClassTable returns the class table the environment was built over.
func (e *FeatureEnv) ClassTable() *ClassTable { return e.classes }

// MethodCount returns the number of method slots handed out.
func (e *FeatureEnv) MethodCount() int { return e.methodCount }

// AttributeCount returns the number of attribute slots handed out.
func (e *FeatureEnv) AttributeCount() int { return e.attrCount }

func (e *FeatureEnv) addClass(cls *ast.Class) {
	parent, hasParent := e.classes.Parent(cls.Name)
	if hasParent {
		if _, done := e.methods[parent]; !done {
			e.addClass(e.classes.Class(parent))
		}
	}

	// already processed
	if _, done := e.methods[cls.Name]; done {
		return
	}

	sigs := make(map[symbol.Symbol]*MethodSignature)
	attrs := make(map[symbol.Symbol]*AttributeType)
	e.methods[cls.Name] = sigs
	e.attrs[cls.Name] = attrs

	for _, feat := range cls.Features {
		switch f := feat.(type) {
		case *ast.Attribute:
			e.addAttribute(f, attrs, cls.Name, parent, hasParent)
		case *ast.Method:
			e.addMethod(f, sigs, cls.Name, parent, hasParent)
		}
	}

	if !hasParent {
		return
	}

	// attributes are never overridden
	for name, at := range e.attrs[parent] {
		attrs[name] = at
	}

	for name, sig := range e.methods[parent] {
		if _, overridden := sigs[name]; overridden {
			continue
		}
		inherited := *sig
		inherited.Origin = OriginInherited
		sigs[name] = &inherited
	}
}

func (e *FeatureEnv) typeDefined(t symbol.Symbol) bool {
	return t == e.names.SelfType || e.classes.ClassExists(t)
}

func (e *FeatureEnv) addAttribute(attr *ast.Attribute, attrs map[symbol.Symbol]*AttributeType, cls, parent symbol.Symbol, hasParent bool) {
	if hasParent {
		if _, ok := e.attrs[parent][attr.Name]; ok {
			e.reportError(diag.CodeDefAttrOverride,
				fmt.Sprintf("cannot override attribute %s from parent class %s", attr.Name, parent),
				attr.Span())
			return
		}
	}

	if attr.Name == e.names.Self {
		e.reportError(diag.CodeDefAttrName,
			fmt.Sprintf("invalid attribute name %s", e.names.Self), attr.Span())
		return
	}

	if _, ok := attrs[attr.Name]; ok {
		e.reportError(diag.CodeDefDuplicateAttr,
			fmt.Sprintf("duplicate attribute name %s", attr.Name), attr.Span())
		return
	}

	primSlot := attr.TypeDecl == e.names.PrimSlot && e.classes.IsBasic(cls)
	if !primSlot && !e.typeDefined(attr.TypeDecl) {
		// still bound, so uses of the attribute do not cascade
		e.reportHelp(diag.CodeDefAttrType,
			fmt.Sprintf("attribute %s is declared with undefined type %s", attr.Name, attr.TypeDecl),
			undefinedHelp(attr.TypeDecl), attr.Span())
	}

	attrs[attr.Name] = &AttributeType{
		Name:  attr.Name,
		Type:  attr.TypeDecl,
		Slot:  e.nextAttrSlot(),
		Owner: cls,
		Node:  attr,
	}
}

func (e *FeatureEnv) nextAttrSlot() int {
	id := e.attrCount
	e.attrCount++
	return id
}

func (e *FeatureEnv) nextMethodSlot() int {
	id := e.methodCount
	e.methodCount++
	return id
}

func (e *FeatureEnv) addMethod(meth *ast.Method, sigs map[symbol.Symbol]*MethodSignature, cls, parent symbol.Symbol, hasParent bool) {
	if _, ok := sigs[meth.Name]; ok {
		e.reportError(diag.CodeDefDuplicateMethod,
			fmt.Sprintf("duplicated method %s", meth.Name), meth.Span())
		return
	}

	var args []Arg
	seen := make(map[symbol.Symbol]bool)
	for _, formal := range meth.Formals {
		switch {
		case formal.TypeDecl == e.names.SelfType:
			e.reportError(diag.CodeDefFormalType,
				fmt.Sprintf("argument %s is declared as invalid argument type %s", formal.Name, e.names.SelfType),
				formal.Span())
			continue
		case !e.classes.ClassExists(formal.TypeDecl):
			e.reportHelp(diag.CodeDefFormalType,
				fmt.Sprintf("argument %s is declared with undefined argument type %s", formal.Name, formal.TypeDecl),
				undefinedHelp(formal.TypeDecl), formal.Span())
			continue
		case formal.Name == e.names.Self:
			e.reportError(diag.CodeDefFormalName,
				fmt.Sprintf("invalid argument name %s", formal.Name), formal.Span())
			continue
		case seen[formal.Name]:
			e.reportError(diag.CodeDefDuplicateFormal,
				fmt.Sprintf("duplicated argument name %s", formal.Name), formal.Span())
			continue
		}
		seen[formal.Name] = true
		args = append(args, Arg{Name: formal.Name, Type: formal.TypeDecl})
	}

	if !e.typeDefined(meth.ReturnType) {
		e.reportHelp(diag.CodeDefReturnType,
			fmt.Sprintf("undefined return type %s", meth.ReturnType),
			undefinedHelp(meth.ReturnType), meth.Span())
		return
	}

	if sig, ok := e.resolveOverride(meth, args, cls, parent, hasParent); ok {
		sigs[meth.Name] = sig
	}
}

func undefinedHelp(t symbol.Symbol) string {
	return fmt.Sprintf("declare a class named %s or use an existing type", t)
}

func overrideHelp(parent, meth symbol.Symbol) string {
	return fmt.Sprintf("an override must repeat the signature of %s.%s exactly", parent, meth)
}

func implName(cls, meth symbol.Symbol) string {
	return fmt.Sprintf("$%s.%s.implementation", cls, meth)
}

// resolveOverride builds the signature of meth in cls. A method not seen
// in the parent gets a fresh slot; an override keeps the parent's slot and
// caller-facing names and must repeat the parent's formal and return types.
func (e *FeatureEnv) resolveOverride(meth *ast.Method, args []Arg, cls, parent symbol.Symbol, hasParent bool) (*MethodSignature, bool) {
	var parentSig *MethodSignature
	if hasParent {
		parentSig = e.methods[parent][meth.Name]
	}

	if parentSig == nil {
		return &MethodSignature{
			Name:    meth.Name,
			Args:    args,
			Return:  meth.ReturnType,
			Origin:  OriginNew,
			Slot:    e.nextMethodSlot(),
			Intro:   cls,
			Definer: cls,
			Names: CodegenNames{
				Signature:      fmt.Sprintf("$%s.%s.signature", cls, meth.Name),
				Implementation: implName(cls, meth.Name),
				Generic:        fmt.Sprintf("$%s.%s.generic", cls, meth.Name),
			},
			Node: meth,
		}, true
	}

	if len(meth.Formals) != len(parentSig.Args) {
		e.reportOverride(
			fmt.Sprintf("invalid method override, method %s signature in parent class %s has %d arguments but %d found",
				meth.Name, parent, len(parentSig.Args), len(meth.Formals)),
			meth, parent, parentSig)
		return nil, false
	}

	ok := len(args) == len(parentSig.Args)
	for i := 0; i < len(args) && i < len(parentSig.Args); i++ {
		arg, parentArg := args[i], parentSig.Args[i]
		if arg.Type != parentArg.Type {
			e.reportOverride(
				fmt.Sprintf("invalid method override, arg #%d[%s] of parent class %s expects type %s while arg #%d[%s] has type %s",
					i, parentArg.Name, parent, parentArg.Type, i, arg.Name, arg.Type),
				meth, parent, parentSig)
			ok = false
		}
	}

	if meth.ReturnType != parentSig.Return {
		e.reportOverride(
			fmt.Sprintf("invalid method override, method %s returns %s in parent class %s but %s found",
				meth.Name, parentSig.Return, parent, meth.ReturnType),
			meth, parent, parentSig)
		ok = false
	}

	if !ok {
		return nil, false
	}

	return &MethodSignature{
		Name:    meth.Name,
		Args:    args,
		Return:  meth.ReturnType,
		Origin:  OriginOverridden,
		Slot:    parentSig.Slot,
		Intro:   parentSig.Intro,
		Definer: cls,
		Names: CodegenNames{
			Signature:      parentSig.Names.Signature,
			Implementation: implName(cls, meth.Name),
			Generic:        parentSig.Names.Generic,
		},
		Node: meth,
	}, true
}

func (e *FeatureEnv) resolve(cls, current symbol.Symbol) symbol.Symbol {
	if cls == e.names.SelfType {
		return current
	}
	return cls
}

// ClassHasMethod reports whether cls (SELF_TYPE meaning current) has a
// method called meth.
func (e *FeatureEnv) ClassHasMethod(cls, meth, current symbol.Symbol) bool {
	sigs, ok := e.methods[e.resolve(cls, current)]
	if !ok {
		return false
	}
	_, ok = sigs[meth]
	return ok
}

// ClassMethodSignature returns the signature of meth in cls, or nil.
func (e *FeatureEnv) ClassMethodSignature(cls, meth, current symbol.Symbol) *MethodSignature {
	return e.methods[e.resolve(cls, current)][meth]
}

// ClassAttrType returns the attribute attr of cls, or nil.
func (e *FeatureEnv) ClassAttrType(cls, attr, current symbol.Symbol) *AttributeType {
	return e.attrs[e.resolve(cls, current)][attr]
}

// ClassAllAttrs returns every attribute of cls, inherited ones included,
// sorted by slot.
func (e *FeatureEnv) ClassAllAttrs(cls, current symbol.Symbol) []*AttributeType {
	attrs := e.attrs[e.resolve(cls, current)]
	out := make([]*AttributeType, 0, len(attrs))
	for _, at := range attrs {
		out = append(out, at)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// ClassMethods returns every method of cls sorted by slot.
func (e *FeatureEnv) ClassMethods(cls, current symbol.Symbol) []*MethodSignature {
	sigs := e.methods[e.resolve(cls, current)]
	out := make([]*MethodSignature, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// ClassAttributeScope returns a stack with one entered frame binding every
// attribute of cls to its declared type.
func (e *FeatureEnv) ClassAttributeScope(cls symbol.Symbol) *scope.Stack[symbol.Symbol, symbol.Symbol] {
	if _, ok := e.attrs[cls]; !ok {
		panic(fmt.Sprintf("types: class %s is not installed", cls))
	}
	env := scope.New[symbol.Symbol, symbol.Symbol]()
	env.Enter()
	for _, at := range e.ClassAllAttrs(cls, cls) {
		env.MustAdd(at.Name, at.Type)
	}
	return env
}
