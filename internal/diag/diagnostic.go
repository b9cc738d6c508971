package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageDecode    Stage = "decode"
	StageClasses   Stage = "classes"
	StageFeatures  Stage = "features"
	StageTypeCheck Stage = "typecheck"
	StageCodegen   Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Class table errors
	CodeDefDuplicateClass  Code = "DEF_DUPLICATE_CLASS"
	CodeDefReservedClass   Code = "DEF_RESERVED_CLASS_NAME"
	CodeDefIllegalParent   Code = "DEF_ILLEGAL_PARENT"
	CodeDefUndefinedParent Code = "DEF_UNDEFINED_PARENT"
	CodeDefCycle           Code = "DEF_INHERITANCE_CYCLE"

	// Feature errors
	CodeDefAttrOverride     Code = "DEF_ATTR_OVERRIDE"
	CodeDefAttrName         Code = "DEF_ATTR_NAME"
	CodeDefDuplicateAttr    Code = "DEF_DUPLICATE_ATTR"
	CodeDefAttrType         Code = "DEF_ATTR_TYPE"
	CodeDefDuplicateMethod  Code = "DEF_DUPLICATE_METHOD"
	CodeDefFormalType       Code = "DEF_FORMAL_TYPE"
	CodeDefFormalName       Code = "DEF_FORMAL_NAME"
	CodeDefDuplicateFormal  Code = "DEF_DUPLICATE_FORMAL"
	CodeDefReturnType       Code = "DEF_RETURN_TYPE"
	CodeDefOverrideMismatch Code = "DEF_OVERRIDE_MISMATCH"

	// Type checker errors
	CodeTypeMismatch            Code = "TYPE_MISMATCH"
	CodeTypeInvalidOperation    Code = "TYPE_INVALID_OPERATION"
	CodeTypeUndefinedIdentifier Code = "TYPE_UNDEFINED_IDENTIFIER"
	CodeTypeCannotAssign        Code = "TYPE_CANNOT_ASSIGN"
	CodeTypeUndefinedMethod     Code = "TYPE_UNDEFINED_METHOD"
	CodeTypeArgumentCount       Code = "TYPE_ARGUMENT_COUNT"
	CodeTypeUndefinedClass      Code = "TYPE_UNDEFINED_CLASS"
	CodeTypeDuplicateBranch     Code = "TYPE_DUPLICATE_BRANCH"
	CodeTypeReservedName        Code = "TYPE_RESERVED_NAME"

	// Pipeline
	CodeHalted        Code = "HALTED"
	CodeNoMain        Code = "NO_MAIN"
	CodeDecodeFailed  Code = "DECODE_FAILED"
	CodeCodegenFailed Code = "CODEGEN_FAILED"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d", s.Filename, s.Line)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Notes    []string // Additional notes to display
	Help     string
}

// String renders the diagnostic as "filename:line: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s", d.Span.Filename, d.Span.Line, d.Message)
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
