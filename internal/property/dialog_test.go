package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/tpsctl/internal/entry"
)

func newTestTable(mode entry.Mode) *Table {
	table := NewTable(Options{})
	table.SetMode(mode)
	table.SetEntries([]entry.Property{
		{Name: "b", Value: "2"},
		{Name: "a", Value: "1"},
	})
	return table
}

func TestDialogConfigFor(t *testing.T) {
	view := DialogConfigFor(entry.ModeView)
	assert.Equal(t, "Property", view.Title)
	assert.ElementsMatch(t, []string{"name", "value"}, view.ReadOnly)
	assert.Equal(t, []string{"close"}, view.Actions)

	edit := DialogConfigFor(entry.ModeEdit)
	assert.Equal(t, "Edit Property", edit.Title)
	assert.Equal(t, []string{"name"}, edit.ReadOnly)
	assert.Equal(t, []string{"cancel", "save"}, edit.Actions)

	assert.Equal(t, edit, DialogConfigFor(entry.ModeAdd))

	add := AddDialogConfig()
	assert.Empty(t, add.ReadOnly)
	assert.Equal(t, []string{"cancel", "add"}, add.Actions)
}

func TestDialog_ViewModeNeverMutates(t *testing.T) {
	table := newTestTable(entry.ModeView)
	before := table.Entries()

	d := table.Rows()[0].Open()
	require.True(t, d.IsOpen())
	assert.Equal(t, "a", d.Get(FieldName))

	assert.ErrorIs(t, d.Set(FieldValue, "x"), ErrReadOnly)
	assert.ErrorIs(t, d.Set(FieldName, "x"), ErrReadOnly)
	assert.ErrorIs(t, d.Save(), ErrActionUnavailable)

	d.Close()
	assert.False(t, d.IsOpen())
	assert.Equal(t, before, table.Entries())
}

func TestDialog_EditModeSaveUpdatesOnlyValue(t *testing.T) {
	table := newTestTable(entry.ModeEdit)

	d := table.Rows()[0].Open()
	assert.Equal(t, "Edit Property", d.Config.Title)
	assert.ErrorIs(t, d.Set(FieldName, "renamed"), ErrReadOnly)
	require.NoError(t, d.Set(FieldValue, "100"))

	// nothing changes until save
	assert.Equal(t, "1", table.Lookup("a").Value)

	require.NoError(t, d.Save())
	assert.False(t, d.IsOpen())

	assert.Equal(t, []entry.Property{{Name: "b", Value: "2"}, {Name: "a", Value: "100"}}, table.Entries())
}

func TestDialog_CancelLeavesRecord(t *testing.T) {
	table := newTestTable(entry.ModeEdit)

	d := table.Rows()[1].Open()
	require.NoError(t, d.Set(FieldValue, "changed"))
	d.Close()

	assert.Equal(t, "2", table.Lookup("b").Value)
}

func TestDialog_Add(t *testing.T) {
	table := newTestTable(entry.ModeEdit)

	d, err := table.OpenAdd()
	require.NoError(t, err)
	assert.True(t, d.IsAdd())
	assert.Equal(t, "Add Property", d.Config.Title)
	assert.ErrorIs(t, d.Save(), ErrActionUnavailable)

	require.NoError(t, d.Set(FieldName, "a"))
	assert.ErrorIs(t, d.Add(), ErrDuplicateName)
	assert.True(t, d.IsOpen(), "dialog stays open after a rejected add")

	require.NoError(t, d.Set(FieldName, "c"))
	require.NoError(t, d.Set(FieldValue, "3"))
	require.NoError(t, d.Add())
	assert.False(t, d.IsOpen())

	assert.Equal(t, []string{"a", "b", "c"}, names(table.Rows()))
}

func TestDialog_AddInViewMode(t *testing.T) {
	table := newTestTable(entry.ModeView)
	_, err := table.OpenAdd()
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestDialog_UnknownField(t *testing.T) {
	table := newTestTable(entry.ModeEdit)
	d := table.Rows()[0].Open()
	assert.Error(t, d.Set("color", "blue"))
}
