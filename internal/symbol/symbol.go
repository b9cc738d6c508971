// Package symbol interns identifiers and literal tokens.
//
// Every compilation unit owns its own Tables value; symbols from two
// different tables never compare equal, even when they spell the same
// string.
package symbol

// Symbol is an interned token. The zero Symbol is not part of any table.
type Symbol struct {
	e *entry
}

type entry struct {
	text string
	id   int
}

// String returns the text the symbol was interned from.
func (s Symbol) String() string {
	if s.e == nil {
		return "<nil>"
	}
	return s.e.text
}

// ID returns the position of the symbol in its table.
func (s Symbol) ID() int {
	if s.e == nil {
		return -1
	}
	return s.e.id
}

// IsZero reports whether s was never interned.
func (s Symbol) IsZero() bool { return s.e == nil }

// Table maps strings to symbols. Ids are handed out in interning order.
type Table struct {
	byText  map[string]*entry
	entries []*entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{byText: make(map[string]*entry)}
}

// Intern returns the symbol for text, adding it on first use.
func (t *Table) Intern(text string) Symbol {
	if e, ok := t.byText[text]; ok {
		return Symbol{e}
	}
	e := &entry{text: text, id: len(t.entries)}
	t.byText[text] = e
	t.entries = append(t.entries, e)
	return Symbol{e}
}

// Lookup returns the symbol for text without interning it.
func (t *Table) Lookup(text string) (Symbol, bool) {
	e, ok := t.byText[text]
	if !ok {
		return Symbol{}, false
	}
	return Symbol{e}, true
}

// Len returns the number of interned symbols.
func (t *Table) Len() int { return len(t.entries) }

// At returns the symbol with the given id.
func (t *Table) At(id int) Symbol {
	return Symbol{t.entries[id]}
}

// Tables groups the three tables of a compilation unit: identifiers,
// integer literal tokens and string literal tokens.
type Tables struct {
	IDs     *Table
	Ints    *Table
	Strings *Table
}

// NewTables creates a fresh set of empty tables.
func NewTables() *Tables {
	return &Tables{
		IDs:     NewTable(),
		Ints:    NewTable(),
		Strings: NewTable(),
	}
}
