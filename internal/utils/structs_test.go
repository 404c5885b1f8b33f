package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedStruct struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Skipped string `db:"-"`
	NoTag   string
	hidden  string `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	columns := StructTagValues(taggedStruct{})
	assert.Equal(t, []string{"id", "name"}, columns)

	// Pointers behave the same as values.
	columns = StructTagValues(&taggedStruct{})
	assert.Equal(t, []string{"id", "name"}, columns)
}

func TestStructToMap(t *testing.T) {
	input := taggedStruct{ID: "abc", Name: "Maria", Skipped: "x", NoTag: "y", hidden: "z"}

	m := StructToMap(input)
	require.Len(t, m, 2)
	assert.Equal(t, "abc", m["id"])
	assert.Equal(t, "Maria", m["name"])
}

func TestStructToMapPanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { StructToMap("not a struct") })
	assert.Panics(t, func() { StructTagValues(42) })
}

func TestErrorWrapOrNil(t *testing.T) {
	require.NoError(t, ErrorWrapOrNil(nil, "context"))

	base := errors.New("boom")
	wrapped := ErrorWrapOrNil(base, "context")
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "context: boom", wrapped.Error())

	assert.Equal(t, base, ErrorWrapOrNil(base, ""))
}

func TestNanoIDLength(t *testing.T) {
	id := NanoID()
	assert.Len(t, id, 32)

	short := NanoIDSize(21)
	assert.Len(t, short, 21)

	// Non-positive sizes fall back to the default.
	assert.Len(t, NanoIDSize(0), 32)
	assert.Len(t, NanoIDSize(-1), 32)

	assert.NotEqual(t, NanoID(), NanoID())
}
