package diag

// Sink accumulates diagnostics across the phases of one compilation.
// The zero value is ready to use.
type Sink struct {
	items  []Diagnostic
	errors int
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Record appends a diagnostic.
func (s *Sink) Record(d Diagnostic) {
	if d.Severity == "" {
		d.Severity = SeverityError
	}
	if d.Severity == SeverityError {
		s.errors++
	}
	s.items = append(s.items, d)
}

// Error records an error at span.
func (s *Sink) Error(stage Stage, code Code, span Span, msg string) {
	s.Record(Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  msg,
		Span:     span,
	})
}

// HasAny reports whether any error was recorded.
// Notes and warnings do not count.
func (s *Sink) HasAny() bool { return s.errors > 0 }

// ErrorCount returns the number of errors recorded.
func (s *Sink) ErrorCount() int { return s.errors }

// Diagnostics returns the recorded diagnostics in recording order
// without clearing them.
func (s *Sink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}
