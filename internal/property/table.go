package property

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/muurk/tpsctl/internal/entry"
)

// DefaultPageSize is the number of rows shown per page
const DefaultPageSize = 10

var (
	// ErrDuplicateName is returned when adding a property whose name exists
	ErrDuplicateName = errors.New("property name already exists")
	// ErrEmptyName is returned when adding a property without a name
	ErrEmptyName = errors.New("property name is required")
	// ErrReadOnly is returned when editing a read-only field or table
	ErrReadOnly = errors.New("field is read-only")
	// ErrActionUnavailable is returned when a dialog action is not offered
	ErrActionUnavailable = errors.New("action not available")
)

// DefaultColumns are the column paths shown by the console
var DefaultColumns = []string{"name", "value"}

// Options configures a Table
type Options struct {
	Columns  []string    // column paths, may use the "parent." prefix
	PageSize int         // rows per page (DefaultPageSize when zero)
	Parent   FieldSource // page owning the table
}

// Table is a name-sorted, mode-aware view over a list of properties.
//
// Edits are staged in the table: the page loads properties with SetEntries and
// reads them back with Entries when it saves.
type Table struct {
	mode     entry.Mode
	columns  []FieldRef
	pageSize int
	parent   FieldSource

	entries  []*entry.Property
	filter   string
	filtered []*entry.Property
	page     int
}

// NewTable creates an empty table in view mode
func NewTable(opts Options) *Table {
	cols := opts.Columns
	if len(cols) == 0 {
		cols = DefaultColumns
	}
	refs := make([]FieldRef, len(cols))
	for i, c := range cols {
		refs[i] = ParseFieldRef(c)
	}

	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	return &Table{
		mode:     entry.ModeView,
		columns:  refs,
		pageSize: size,
		parent:   opts.Parent,
	}
}

// Mode returns the table mode (view or edit)
func (t *Table) Mode() entry.Mode {
	return t.mode
}

// SetMode sets the table mode. The page decides the mode; add is treated as edit.
func (t *Table) SetMode(mode entry.Mode) {
	if mode == entry.ModeAdd {
		mode = entry.ModeEdit
	}
	t.mode = mode
}

// Editable reports whether rows can be changed
func (t *Table) Editable() bool {
	return t.mode == entry.ModeEdit
}

// Columns returns the parsed column references
func (t *Table) Columns() []FieldRef {
	return t.columns
}

// Parent returns the page-level field source
func (t *Table) Parent() FieldSource {
	return t.parent
}

// SetEntries replaces the backing list with copies of props and re-renders
func (t *Table) SetEntries(props []entry.Property) {
	t.entries = make([]*entry.Property, len(props))
	for i := range props {
		p := props[i]
		t.entries[i] = &p
	}
	t.page = 0
	t.Render()
}

// Entries returns a copy of the backing list in insertion order
func (t *Table) Entries() []entry.Property {
	out := make([]entry.Property, len(t.entries))
	for i, p := range t.entries {
		out[i] = *p
	}
	return out
}

// Len returns the number of properties in the backing list
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the backing property with the given name
func (t *Table) Lookup(name string) *entry.Property {
	for _, p := range t.entries {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// SetFilter sets a case-insensitive substring filter over names and values
func (t *Table) SetFilter(filter string) {
	t.filter = filter
	t.page = 0
	t.Render()
}

// Filter returns the current filter text
func (t *Table) Filter() string {
	return t.filter
}

// Render recomputes the filtered, sorted view and clamps the current page
func (t *Table) Render() {
	needle := strings.ToLower(t.filter)
	t.filtered = t.filtered[:0]
	for _, p := range t.entries {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Value), needle) {
			t.filtered = append(t.filtered, p)
		}
	}

	t.Sort()

	if last := t.PageCount() - 1; t.page > last {
		t.page = last
	}
	if t.page < 0 {
		t.page = 0
	}
}

// Sort orders the filtered entries by name, ascending
func (t *Table) Sort() {
	sort.SliceStable(t.filtered, func(i, j int) bool {
		return t.filtered[i].Name < t.filtered[j].Name
	})
}

// Remove deletes every property whose name is in names and re-renders.
// Names that are not present are ignored.
func (t *Table) Remove(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	kept := t.entries[:0]
	for _, p := range t.entries {
		if _, ok := drop[p.Name]; !ok {
			kept = append(kept, p)
		}
	}
	// clear the tail so removed properties are not retained
	for i := len(kept); i < len(t.entries); i++ {
		t.entries[i] = nil
	}
	t.entries = kept

	t.Render()
}

// Add appends a new property and re-renders
func (t *Table) Add(p entry.Property) error {
	if !t.Editable() {
		return fmt.Errorf("add property: %w", ErrReadOnly)
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrEmptyName
	}
	if t.Lookup(p.Name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
	}
	t.entries = append(t.entries, &p)
	t.Render()
	return nil
}

// Rows returns the rows of the current page in display order
func (t *Table) Rows() []Row {
	start := t.page * t.pageSize
	if start > len(t.filtered) {
		start = len(t.filtered)
	}
	end := start + t.pageSize
	if end > len(t.filtered) {
		end = len(t.filtered)
	}

	rows := make([]Row, 0, end-start)
	for _, p := range t.filtered[start:end] {
		rows = append(rows, Row{table: t, prop: p})
	}
	return rows
}

// FilteredLen returns the number of rows matching the filter
func (t *Table) FilteredLen() int {
	return len(t.filtered)
}

// Page returns the zero-based current page
func (t *Table) Page() int {
	return t.page
}

// PageSize returns the number of rows per page
func (t *Table) PageSize() int {
	return t.pageSize
}

// PageCount returns the number of pages, at least one
func (t *Table) PageCount() int {
	if len(t.filtered) == 0 {
		return 1
	}
	return (len(t.filtered) + t.pageSize - 1) / t.pageSize
}

// SetPage moves to page n, clamped to the valid range
func (t *Table) SetPage(n int) {
	if n < 0 {
		n = 0
	}
	if last := t.PageCount() - 1; n > last {
		n = last
	}
	t.page = n
}

// NextPage advances one page if possible
func (t *Table) NextPage() {
	t.SetPage(t.page + 1)
}

// PrevPage goes back one page if possible
func (t *Table) PrevPage() {
	t.SetPage(t.page - 1)
}

// Row renders one property of the table
type Row struct {
	table *Table
	prop  *entry.Property
}

// Property returns the backing property
func (r Row) Property() *entry.Property {
	return r.prop
}

// Get resolves a field reference for this row. Page-scoped references read
// from the table's parent instead of the property.
func (r Row) Get(ref FieldRef) (string, bool) {
	switch ref.Scope {
	case ScopePage:
		if r.table == nil || r.table.parent == nil {
			return "", false
		}
		return r.table.parent.Field(ref.Name)
	default:
		return propertyField(r.prop, ref.Name)
	}
}

// Cells returns the rendered value of each table column
func (r Row) Cells() []string {
	cells := make([]string, len(r.table.columns))
	for i, c := range r.table.columns {
		cells[i], _ = r.Get(c)
	}
	return cells
}

// Open activates the row, opening the property dialog configured for the
// table's mode
func (r Row) Open() *Dialog {
	return newDialog(DialogConfigFor(r.table.mode), r.table, r.prop)
}
