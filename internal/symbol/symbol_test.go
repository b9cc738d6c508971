package symbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternReturnsSameSymbol(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern("Object")
	b := tbl.Intern("Object")
	c := tbl.Intern("Int")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Equal(t, 0, a.ID())
	require.Equal(t, 1, c.ID())
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, "Int", tbl.At(1).String())
}

func TestLookupDoesNotIntern(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.Lookup("x"); ok {
		t.Fatalf("expected lookup miss on empty table")
	}
	if tbl.Len() != 0 {
		t.Fatalf("lookup must not intern, table has %d entries", tbl.Len())
	}
	x := tbl.Intern("x")
	got, ok := tbl.Lookup("x")
	require.True(t, ok)
	require.Equal(t, x, got)
}

func TestTablesAreIndependent(t *testing.T) {
	first := NewTables()
	second := NewTables()
	a := first.IDs.Intern("Main")
	b := second.IDs.Intern("Main")

	require.False(t, a == b, "symbols from separate tables must not compare equal")
	require.True(t, a == first.IDs.Intern("Main"))
	require.Equal(t, a.String(), b.String())
	require.Equal(t, a.ID(), b.ID())
}

func TestZeroSymbol(t *testing.T) {
	var s Symbol
	require.True(t, s.IsZero())
	require.Equal(t, -1, s.ID())
	require.Equal(t, "<nil>", s.String())
}
