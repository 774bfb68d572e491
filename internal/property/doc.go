// Package property implements the property table and property dialogs used by
// the entry page.
//
// A Table holds the staged property list of one entry. It is always displayed
// sorted by name and is either read-only (view mode) or editable (edit mode);
// the owning page sets the mode. Rows open a Dialog that works on a copy of
// the property, so cancelling never changes the table.
//
// Column paths prefixed with "parent." read from the page's entry rather than
// the row's property.
package property
