package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tpsctl/internal/property"
)

// focusable is one stop of the dialog's tab order: an input or a button
type focusable struct {
	input  int    // index into inputs, -1 for buttons
	action string // dialog action for buttons
}

// PropertyDialog presents a property.Dialog with text inputs. Read-only fields
// are rendered as plain text and skipped by the tab order.
type PropertyDialog struct {
	dialog *property.Dialog
	fields []string
	inputs []textinput.Model
	stops  []focusable
	focus  int
	err    string
}

// NewPropertyDialog wraps an open dialog
func NewPropertyDialog(d *property.Dialog) *PropertyDialog {
	v := &PropertyDialog{
		dialog: d,
		fields: []string{property.FieldName, property.FieldValue},
	}

	for i, field := range v.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 1024
		ti.Width = 40
		ti.SetValue(d.Get(field))
		v.inputs = append(v.inputs, ti)
		if !d.IsReadOnly(field) {
			v.stops = append(v.stops, focusable{input: i})
		}
	}
	for _, action := range d.Config.Actions {
		v.stops = append(v.stops, focusable{input: -1, action: action})
	}

	v.setFocus(0)
	return v
}

// IsOpen reports whether the underlying dialog is still open
func (v *PropertyDialog) IsOpen() bool {
	return v.dialog.IsOpen()
}

// Err returns the inline validation error, if any
func (v *PropertyDialog) Err() string {
	return v.err
}

// SetValue types value into an editable field
func (v *PropertyDialog) SetValue(field, value string) error {
	for i, f := range v.fields {
		if f != field {
			continue
		}
		if err := v.dialog.Set(field, value); err != nil {
			v.err = err.Error()
			return err
		}
		v.inputs[i].SetValue(value)
		return nil
	}
	return v.dialog.Set(field, value)
}

func (v *PropertyDialog) setFocus(n int) {
	if len(v.stops) == 0 {
		return
	}
	v.focus = (n + len(v.stops)) % len(v.stops)
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	if s := v.stops[v.focus]; s.input >= 0 {
		v.inputs[s.input].Focus()
	}
}

// primaryAction is the action run by ctrl+s: save, add or close
func (v *PropertyDialog) primaryAction() string {
	for _, a := range []string{property.ActionSave, property.ActionAdd} {
		if v.dialog.HasAction(a) {
			return a
		}
	}
	return property.ActionClose
}

// Run executes a dialog action. Validation errors keep the dialog open and
// are shown inline.
func (v *PropertyDialog) Run(action string) {
	v.err = ""
	var err error
	switch action {
	case property.ActionSave:
		err = v.dialog.Save()
	case property.ActionAdd:
		err = v.dialog.Add()
	default:
		v.dialog.Close()
	}
	if err != nil {
		v.err = err.Error()
	}
}

// Update handles keys while the dialog is open
func (v *PropertyDialog) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s := v.stops[v.focus]; s.input >= 0 {
			var cmd tea.Cmd
			v.inputs[s.input], cmd = v.inputs[s.input].Update(msg)
			return cmd
		}
		return nil
	}

	switch keyMsg.String() {
	case "esc":
		v.dialog.Close()
		return nil
	case "tab", "down":
		v.setFocus(v.focus + 1)
		return nil
	case "shift+tab", "up":
		v.setFocus(v.focus - 1)
		return nil
	case "ctrl+s":
		v.Run(v.primaryAction())
		return nil
	case "enter":
		if s := v.stops[v.focus]; s.input < 0 {
			v.Run(s.action)
		} else {
			v.setFocus(v.focus + 1)
		}
		return nil
	}

	s := v.stops[v.focus]
	if s.input < 0 {
		return nil
	}
	var cmd tea.Cmd
	v.inputs[s.input], cmd = v.inputs[s.input].Update(msg)
	field := v.fields[s.input]
	if err := v.dialog.Set(field, v.inputs[s.input].Value()); err != nil {
		v.err = err.Error()
	}
	return cmd
}

// View renders the dialog box
func (v *PropertyDialog) View(width int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(v.dialog.Config.Title))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Width(8).Foreground(mutedColor)
	for i, field := range v.fields {
		label := labelStyle.Render(strings.ToUpper(field[:1]) + field[1:])
		var value string
		switch {
		case v.dialog.IsReadOnly(field):
			value = BlurredInputStyle.Render(v.dialog.Get(field))
		case v.inputs[i].Focused():
			value = FocusedInputStyle.Render("› ") + v.inputs[i].View()
		default:
			value = "  " + v.inputs[i].View()
		}
		b.WriteString(label + value + "\n")
	}
	b.WriteString("\n")

	var buttons []string
	for i, s := range v.stops {
		if s.input >= 0 {
			continue
		}
		label := strings.ToUpper(s.action[:1]) + s.action[1:]
		if i == v.focus {
			buttons = append(buttons, FocusedButtonStyle.Render(label))
		} else {
			buttons = append(buttons, ButtonStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))

	if v.err != "" {
		b.WriteString("\n")
		b.WriteString(ErrorTextStyle.Render("✗ " + v.err))
	}

	return ModalStyle.Width(SafeModalWidth(60, width)).Render(b.String())
}
