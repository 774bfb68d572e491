package property

import (
	"fmt"

	"github.com/muurk/tpsctl/internal/entry"
)

// Dialog action names
const (
	ActionClose  = "close"
	ActionCancel = "cancel"
	ActionSave   = "save"
	ActionAdd    = "add"
)

// Dialog field names
const (
	FieldName  = "name"
	FieldValue = "value"
)

// DialogConfig describes how a property dialog is presented
type DialogConfig struct {
	Title    string
	ReadOnly []string
	Actions  []string
}

// DialogConfigFor returns the property dialog configuration for a table mode.
// In view mode every field is read-only and the dialog can only be closed; in
// edit mode the name is fixed and the value can be saved.
func DialogConfigFor(mode entry.Mode) DialogConfig {
	if mode == entry.ModeView {
		return DialogConfig{
			Title:    "Property",
			ReadOnly: []string{FieldName, FieldValue},
			Actions:  []string{ActionClose},
		}
	}
	return DialogConfig{
		Title:    "Edit Property",
		ReadOnly: []string{FieldName},
		Actions:  []string{ActionCancel, ActionSave},
	}
}

// AddDialogConfig returns the configuration of the add-property dialog
func AddDialogConfig() DialogConfig {
	return DialogConfig{
		Title:   "Add Property",
		Actions: []string{ActionCancel, ActionAdd},
	}
}

// Dialog edits a copy of one property. Nothing reaches the table until the
// save or add action runs.
type Dialog struct {
	Config DialogConfig

	// Entry is the working copy shown in the dialog
	Entry entry.Property

	table  *Table
	target *entry.Property
	open   bool
}

func newDialog(cfg DialogConfig, table *Table, target *entry.Property) *Dialog {
	d := &Dialog{
		Config: cfg,
		table:  table,
		target: target,
		open:   true,
	}
	if target != nil {
		d.Entry = *target
	}
	return d
}

// OpenAdd opens an empty add-property dialog for the table
func (t *Table) OpenAdd() (*Dialog, error) {
	if !t.Editable() {
		return nil, fmt.Errorf("add property: %w", ErrReadOnly)
	}
	return newDialog(AddDialogConfig(), t, nil), nil
}

// IsOpen reports whether the dialog is still open
func (d *Dialog) IsOpen() bool {
	return d.open
}

// IsAdd reports whether this is an add-property dialog
func (d *Dialog) IsAdd() bool {
	return d.target == nil
}

// IsReadOnly reports whether a field cannot be edited
func (d *Dialog) IsReadOnly(field string) bool {
	for _, f := range d.Config.ReadOnly {
		if f == field {
			return true
		}
	}
	return false
}

// HasAction reports whether the dialog offers the action
func (d *Dialog) HasAction(action string) bool {
	for _, a := range d.Config.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Get returns the working value of a field
func (d *Dialog) Get(field string) string {
	v, _ := propertyField(&d.Entry, field)
	return v
}

// Set changes a field of the working copy
func (d *Dialog) Set(field, value string) error {
	if d.IsReadOnly(field) {
		return fmt.Errorf("%s: %w", field, ErrReadOnly)
	}
	switch field {
	case FieldName:
		d.Entry.Name = value
	case FieldValue:
		d.Entry.Value = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// Save merges the working copy into the backing property, re-renders the
// table and closes the dialog
func (d *Dialog) Save() error {
	if !d.HasAction(ActionSave) || d.target == nil {
		return fmt.Errorf("%s: %w", ActionSave, ErrActionUnavailable)
	}

	for _, field := range []string{FieldName, FieldValue} {
		if d.IsReadOnly(field) {
			continue
		}
		switch field {
		case FieldName:
			d.target.Name = d.Entry.Name
		case FieldValue:
			d.target.Value = d.Entry.Value
		}
	}

	d.table.Render()
	d.open = false
	return nil
}

// Add appends the working copy to the table and closes the dialog. The dialog
// stays open if the table rejects the property.
func (d *Dialog) Add() error {
	if !d.HasAction(ActionAdd) {
		return fmt.Errorf("%s: %w", ActionAdd, ErrActionUnavailable)
	}
	if err := d.table.Add(d.Entry); err != nil {
		return err
	}
	d.open = false
	return nil
}

// Close closes the dialog without touching the backing property
func (d *Dialog) Close() {
	d.open = false
}
