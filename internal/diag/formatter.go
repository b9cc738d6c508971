package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiCyan  = "\x1b[36m"
	ansiBlue  = "\x1b[34m"
)

// Formatter prints diagnostics as "filename:line: message", followed by
// the offending source line when the file can be read.
type Formatter struct {
	out         io.Writer
	Color       bool
	ShowSource  bool
	sourceCache map[string][]string // Cache of source lines by filename
}

// NewFormatter creates a formatter writing to w without colour.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		out:         w,
		sourceCache: make(map[string][]string),
	}
}

// NewTerminalFormatter creates a formatter for f, enabling colour when f
// is a terminal.
func NewTerminalFormatter(f *os.File) *Formatter {
	fm := NewFormatter(f)
	fm.Color = term.IsTerminal(int(f.Fd()))
	return fm
}

// LoadSource loads the lines of a source file (cached).
func (f *Formatter) LoadSource(filename string) ([]string, error) {
	if filename == "" {
		return nil, nil
	}
	if lines, ok := f.sourceCache[filename]; ok {
		return lines, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	f.sourceCache[filename] = lines
	return lines, nil
}

// Format prints one diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)
	if f.ShowSource && d.Span.IsValid() {
		f.printSourceLine(d.Span)
	}
	f.printHelp(d)
}

// FormatAll prints every diagnostic in order.
func (f *Formatter) FormatAll(ds []Diagnostic) {
	for _, d := range ds {
		f.Format(d)
	}
}

// printHeader prints the "filename:line: message" line.
func (f *Formatter) printHeader(d Diagnostic) {
	loc := ""
	if d.Span.IsValid() || d.Span.Filename != "" {
		loc = fmt.Sprintf("%s:%d: ", d.Span.Filename, d.Span.Line)
	}
	msg := d.Message
	switch d.Severity {
	case SeverityNote:
		msg = "note: " + msg
	case SeverityWarning:
		msg = "warning: " + msg
	}
	if f.Color {
		color := ansiRed
		if d.Severity != SeverityError {
			color = ansiCyan
		}
		fmt.Fprintf(f.out, "%s%s%s%s%s%s\n", ansiBold, loc, ansiReset, color, msg, ansiReset)
		return
	}
	fmt.Fprintf(f.out, "%s%s\n", loc, msg)
}

// printSourceLine prints the source line a span points at, if available.
func (f *Formatter) printSourceLine(span Span) {
	lines, err := f.LoadSource(span.Filename)
	if err != nil || span.Line > len(lines) {
		return
	}
	lineNumStr := fmt.Sprintf("%d", span.Line)
	gutter := strings.Repeat(" ", len(lineNumStr))
	bar := "|"
	if f.Color {
		bar = ansiBlue + "|" + ansiReset
	}
	fmt.Fprintf(f.out, " %s %s\n", gutter, bar)
	fmt.Fprintf(f.out, " %s %s %s\n", lineNumStr, bar, lines[span.Line-1])
	fmt.Fprintf(f.out, " %s %s\n", gutter, bar)
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "  = help: %s\n", d.Help)
	}
}
