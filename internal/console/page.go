package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/logging"
	"github.com/muurk/tpsctl/internal/property"
	"github.com/muurk/tpsctl/internal/tpsclient"
)

// inFlightSave marks a pending create or update
const inFlightSave = "save"

// pageFocus is the region of the entry page receiving keys
type pageFocus int

const (
	focusTable pageFocus = iota
	focusActions
	focusID // entry id input, add mode only
)

// pageControl is a page-local button that is not a workflow action
type pageControl string

const (
	controlSave    pageControl = "save"
	controlDiscard pageControl = "discard"
)

// button is one control of the action bar
type button struct {
	label   string
	action  entry.Action
	control pageControl
}

// pageKeyMap defines key bindings for the entry page
type pageKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	Enter    key.Binding
	Edit     key.Binding
	Add      key.Binding
	Remove   key.Binding
	Save     key.Binding
	Filter   key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Refresh  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pageKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Edit, k.Add, k.Remove, k.Save, k.Filter, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pageKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Tab, k.Enter},
		{k.Edit, k.Add, k.Remove, k.Save, k.Filter},
		{k.PrevPage, k.NextPage, k.Refresh, k.Back, k.Quit},
	}
}

func newPageKeyMap() pageKeyMap {
	return pageKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev action")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next action")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add property")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove property")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		PrevPage: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// PageConfig configures an EntryPage
type PageConfig struct {
	Service  EntryService
	Kind     entry.Kind
	Mode     entry.Mode
	Policy   *entry.ActionPolicy // entry.DefaultPolicy() when nil
	Columns  []string            // property table column paths
	PageSize int
	Timeout  time.Duration
	Server   string // shown in the header
}

// EntryPage shows one entry with its property table and drives the workflow
// actions, edits and saves for it.
//
// The page owns Entry and replaces it wholesale after every successful remote
// mutation. It implements property.FieldSource so table columns can read
// page-level fields through the "parent." prefix.
type EntryPage struct {
	Kind   entry.Kind
	Mode   entry.Mode
	Entry  *entry.Entry
	Policy *entry.ActionPolicy
	Table  *property.Table

	Width  int
	Height int
	Server string

	service  EntryService
	timeout  time.Duration
	snapshot *entry.Entry // last server copy, restored by cancel
	loading  bool

	focus        pageFocus
	rowCursor    int
	actionCursor int

	idInput     textinput.Model
	filterInput textinput.Model
	filtering   bool

	confirming    entry.Action
	confirmCursor int // 0 = yes, 1 = no

	inFlight string
	spinner  spinner.Model

	dialog *PropertyDialog

	errTitle   string
	errMessage string
	inlineErr  string
	notice     string

	help help.Model
	keys pageKeyMap
}

// NewEntryPage creates a page for cfg.Kind. In add mode the page starts with
// an empty entry; otherwise call SetEntry or Load before showing it.
func NewEntryPage(cfg PageConfig) *EntryPage {
	policy := cfg.Policy
	if policy == nil {
		policy = entry.DefaultPolicy()
	}
	mode := cfg.Mode
	if mode == "" {
		mode = entry.ModeView
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	idInput := textinput.New()
	idInput.Placeholder = "entry id"
	idInput.CharLimit = 128
	idInput.Width = 40

	filterInput := textinput.New()
	filterInput.Prompt = "/ "
	filterInput.Placeholder = "filter properties"
	filterInput.CharLimit = 128
	filterInput.Width = 40

	p := &EntryPage{
		Kind:        cfg.Kind,
		Mode:        mode,
		Entry:       &entry.Entry{},
		Policy:      policy,
		Server:      cfg.Server,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		service:     cfg.Service,
		timeout:     cfg.Timeout,
		idInput:     idInput,
		filterInput: filterInput,
		spinner:     s,
		help:        help.New(),
		keys:        newPageKeyMap(),
	}
	p.Table = property.NewTable(property.Options{
		Columns:  cfg.Columns,
		PageSize: cfg.PageSize,
		Parent:   p,
	})
	p.snapshot = p.Entry.Clone()

	if mode == entry.ModeAdd {
		p.focus = focusID
		p.idInput.Focus()
	}
	p.render()
	return p
}

// Field implements property.FieldSource over the page's current entry
func (p *EntryPage) Field(name string) (string, bool) {
	if name == "id" && p.Mode == entry.ModeAdd {
		return strings.TrimSpace(p.idInput.Value()), true
	}
	return p.Entry.Field(name)
}

// SetEntry replaces the page's entry with a copy of e and re-renders
func (p *EntryPage) SetEntry(e *entry.Entry) {
	if e == nil {
		e = &entry.Entry{}
	}
	p.Entry = e.Clone()
	p.snapshot = e.Clone()
	p.loading = false
	p.render()
}

// SetMode switches the page mode and re-renders
func (p *EntryPage) SetMode(mode entry.Mode) {
	p.Mode = mode
	if mode != entry.ModeAdd && p.focus == focusID {
		p.focus = focusTable
	}
	p.render()
}

// render applies the render rule: the table mode follows the page mode and
// the table reloads its entries from the page's entry. Add mode starts empty.
func (p *EntryPage) render() {
	p.Table.SetMode(p.Mode)
	if p.Mode == entry.ModeAdd {
		p.Table.SetEntries(nil)
	} else {
		p.Table.SetEntries(p.Entry.Properties)
	}
	p.clamp()
	p.updateKeys()
}

// VisibleActions returns the workflow controls for the current status and mode
func (p *EntryPage) VisibleActions() entry.ActionSet {
	return p.Policy.VisibleActions(p.Entry.Status, p.Mode)
}

// buttons returns the action bar in display order
func (p *EntryPage) buttons() []button {
	var out []button
	for _, a := range p.VisibleActions().List() {
		out = append(out, button{label: a.Label(), action: a})
	}
	if p.Mode.Editable() {
		out = append(out,
			button{label: "Save", control: controlSave},
			button{label: "Cancel", control: controlDiscard},
		)
	}
	return out
}

// InFlight reports the pending remote operation, "" when idle
func (p *EntryPage) InFlight() string {
	return p.inFlight
}

// Confirming returns the action awaiting confirmation, "" when none
func (p *EntryPage) Confirming() entry.Action {
	return p.confirming
}

// ErrorDialog returns the title and message of the open error dialog
func (p *EntryPage) ErrorDialog() (title, message string, open bool) {
	return p.errTitle, p.errMessage, p.errTitle != ""
}

// Dialog returns the open property dialog, nil when none
func (p *EntryPage) Dialog() *PropertyDialog {
	return p.dialog
}

// SetID sets the entry id typed in add mode
func (p *EntryPage) SetID(id string) {
	p.idInput.SetValue(id)
}

// Load fetches the entry from the server
func (p *EntryPage) Load(id string) tea.Cmd {
	p.loading = true
	return tea.Batch(p.spinner.Tick, loadEntryCmd(p.service, p.Kind, id, p.timeout))
}

// Trigger runs a control of the action bar. Workflow actions ask for
// confirmation first; edit switches the page to edit mode. Hidden actions
// and triggers while a request is in flight are ignored.
func (p *EntryPage) Trigger(a entry.Action) tea.Cmd {
	if p.inFlight != "" || p.loading {
		return nil
	}
	if !p.VisibleActions().Has(a) {
		return nil
	}
	p.notice, p.inlineErr = "", ""

	if a == entry.ActionEdit {
		p.SetMode(entry.ModeEdit)
		return nil
	}

	p.confirming = a
	p.confirmCursor = 0
	return nil
}

// Confirm answers the pending confirmation. Declining has no side effect;
// accepting sends the status change to the server.
func (p *EntryPage) Confirm(yes bool) tea.Cmd {
	a := p.confirming
	p.confirming = ""
	if !yes || a == "" || p.inFlight != "" {
		return nil
	}

	logging.Debug("Sending status change",
		zap.String("kind", string(p.Kind)),
		zap.String("id", p.Entry.ID),
		zap.String("action", string(a)))

	p.inFlight = string(a)
	return tea.Batch(p.spinner.Tick, changeStatusCmd(p.service, p.Kind, p.Entry.ID, a, p.timeout))
}

// SaveFields stages the table's properties into a copy of the entry and
// creates (add mode) or updates (edit mode) it on the server. The page's entry
// is only replaced once the server answers.
func (p *EntryPage) SaveFields() tea.Cmd {
	if p.inFlight != "" || !p.Mode.Editable() {
		return nil
	}
	p.notice, p.inlineErr = "", ""

	e := p.Entry.Clone()
	if p.Mode == entry.ModeAdd {
		e.ID = strings.TrimSpace(p.idInput.Value())
		if e.ID == "" {
			p.inlineErr = "Entry ID is required"
			return nil
		}
		e.Status = ""
	}
	e.Properties = p.Table.Entries()

	p.inFlight = inFlightSave
	return tea.Batch(p.spinner.Tick, saveEntryCmd(p.service, p.Kind, p.Mode, e, p.timeout))
}

// CancelEdit discards staged edits. In edit mode the last entry snapshot is
// restored and the page returns to view mode; in add mode the page closes.
func (p *EntryPage) CancelEdit() tea.Cmd {
	if p.inFlight != "" {
		return nil
	}
	switch p.Mode {
	case entry.ModeAdd:
		return goBack
	case entry.ModeEdit:
		p.Entry = p.snapshot.Clone()
		p.inlineErr = ""
		p.SetMode(entry.ModeView)
	}
	return nil
}

// OpenRow opens the property dialog for the selected row
func (p *EntryPage) OpenRow() {
	rows := p.Table.Rows()
	if p.rowCursor < 0 || p.rowCursor >= len(rows) {
		return
	}
	p.dialog = NewPropertyDialog(rows[p.rowCursor].Open())
}

// AddProperty opens the add-property dialog in edit and add modes
func (p *EntryPage) AddProperty() {
	d, err := p.Table.OpenAdd()
	if err != nil {
		return
	}
	p.dialog = NewPropertyDialog(d)
}

// RemoveSelected removes the selected property in edit and add modes
func (p *EntryPage) RemoveSelected() {
	if !p.Table.Editable() {
		return
	}
	rows := p.Table.Rows()
	if p.rowCursor < 0 || p.rowCursor >= len(rows) {
		return
	}
	p.Table.Remove(rows[p.rowCursor].Property().Name)
	p.clamp()
}

func (p *EntryPage) showError(err error) {
	_, message := tpsclient.Details(err)
	p.errTitle = tpsclient.ErrorTitle(err)
	p.errMessage = message
	logging.Warn("Console request failed",
		zap.String("kind", string(p.Kind)),
		zap.String("id", p.Entry.ID),
		zap.Error(err))
}

func (p *EntryPage) clamp() {
	if rows := len(p.Table.Rows()); p.rowCursor >= rows {
		p.rowCursor = max(rows-1, 0)
	}
	if n := len(p.buttons()); p.actionCursor >= n {
		p.actionCursor = max(n-1, 0)
	}
}

func (p *EntryPage) updateKeys() {
	editable := p.Mode.Editable()
	p.keys.Edit.SetEnabled(p.VisibleActions().Has(entry.ActionEdit))
	p.keys.Add.SetEnabled(editable)
	p.keys.Remove.SetEnabled(editable)
	p.keys.Save.SetEnabled(editable)
	p.keys.Refresh.SetEnabled(p.Mode == entry.ModeView)
	p.keys.Quit.SetEnabled(p.Mode == entry.ModeView)
	if editable {
		p.keys.Back.SetHelp("esc", "cancel")
	} else {
		p.keys.Back.SetHelp("esc", "back")
	}
}

func goBack() tea.Msg {
	return goBackMsg{}
}

// Update handles messages for the page
func (p *EntryPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.Width = msg.Width
		p.Height = msg.Height
		p.help.Width = msg.Width
		return nil

	case spinner.TickMsg:
		if p.inFlight == "" && !p.loading {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case entryLoadedMsg:
		p.loading = false
		if msg.err != nil {
			p.showError(msg.err)
			return nil
		}
		p.SetEntry(msg.e)
		return nil

	case transitionDoneMsg:
		p.inFlight = ""
		if msg.err != nil {
			p.showError(msg.err)
			return nil
		}
		from := p.Entry.Status
		p.SetEntry(msg.e)
		p.notice = fmt.Sprintf("%s %s: %s → %s", p.Kind.Noun(), p.Entry.ID, from, p.Entry.Status)
		return nil

	case saveDoneMsg:
		p.inFlight = ""
		if msg.err != nil {
			p.showError(msg.err)
			return nil
		}
		p.Mode = entry.ModeView
		if p.focus == focusID {
			p.focus = focusTable
		}
		p.SetEntry(msg.e)
		if msg.mode == entry.ModeAdd {
			p.notice = fmt.Sprintf("%s %s created", p.Kind.Noun(), p.Entry.ID)
		} else {
			p.notice = fmt.Sprintf("%s %s saved", p.Kind.Noun(), p.Entry.ID)
		}
		return nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	// cursor blink and other input messages
	var cmd tea.Cmd
	switch {
	case p.dialog != nil:
		cmd = p.dialog.Update(msg)
	case p.filtering:
		p.filterInput, cmd = p.filterInput.Update(msg)
	case p.focus == focusID:
		p.idInput, cmd = p.idInput.Update(msg)
	}
	return cmd
}

func (p *EntryPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	// modals first: error dialog, confirmation, property dialog, filter
	if p.errTitle != "" {
		switch msg.String() {
		case "enter", "esc", " ", "q":
			p.errTitle, p.errMessage = "", ""
			if p.Entry.ID == "" && p.Mode != entry.ModeAdd {
				// the entry never loaded
				return goBack
			}
		}
		return nil
	}

	if p.confirming != "" {
		switch msg.String() {
		case "y", "Y":
			return p.Confirm(true)
		case "n", "N", "esc":
			return p.Confirm(false)
		case "left", "h", "right", "l", "tab":
			p.confirmCursor = 1 - p.confirmCursor
		case "enter", " ":
			return p.Confirm(p.confirmCursor == 0)
		}
		return nil
	}

	if p.dialog != nil {
		cmd := p.dialog.Update(msg)
		if !p.dialog.IsOpen() {
			p.dialog = nil
			p.clamp()
		}
		return cmd
	}

	if p.filtering {
		switch msg.String() {
		case "enter":
			p.filtering = false
			p.filterInput.Blur()
			return nil
		case "esc":
			p.filtering = false
			p.filterInput.Blur()
			p.filterInput.SetValue("")
			p.Table.SetFilter("")
			p.clamp()
			return nil
		}
		var cmd tea.Cmd
		p.filterInput, cmd = p.filterInput.Update(msg)
		p.Table.SetFilter(p.filterInput.Value())
		p.clamp()
		return cmd
	}

	if p.loading {
		if key.Matches(msg, p.keys.Back) {
			return goBack
		}
		return nil
	}

	if p.focus == focusID {
		switch msg.String() {
		case "tab", "down":
			p.idInput.Blur()
			p.focus = focusTable
			return nil
		case "enter":
			p.idInput.Blur()
			p.focus = focusTable
			return nil
		case "esc":
			return p.CancelEdit()
		case "ctrl+s":
			return p.SaveFields()
		}
		var cmd tea.Cmd
		p.idInput, cmd = p.idInput.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, p.keys.Tab):
		p.cycleFocus()
	case key.Matches(msg, p.keys.Up):
		if p.focus == focusTable && p.rowCursor > 0 {
			p.rowCursor--
		}
	case key.Matches(msg, p.keys.Down):
		if p.focus == focusTable && p.rowCursor < len(p.Table.Rows())-1 {
			p.rowCursor++
		}
	case key.Matches(msg, p.keys.Left):
		if p.focus == focusActions && p.actionCursor > 0 {
			p.actionCursor--
		}
	case key.Matches(msg, p.keys.Right):
		if p.focus == focusActions && p.actionCursor < len(p.buttons())-1 {
			p.actionCursor++
		}
	case key.Matches(msg, p.keys.Enter):
		if p.focus == focusActions {
			return p.press(p.actionCursor)
		}
		p.OpenRow()
	case key.Matches(msg, p.keys.Edit):
		return p.Trigger(entry.ActionEdit)
	case key.Matches(msg, p.keys.Add):
		p.AddProperty()
	case key.Matches(msg, p.keys.Remove):
		p.RemoveSelected()
	case key.Matches(msg, p.keys.Save):
		return p.SaveFields()
	case key.Matches(msg, p.keys.Filter):
		p.filtering = true
		p.filterInput.SetValue(p.Table.Filter())
		return p.filterInput.Focus()
	case key.Matches(msg, p.keys.PrevPage):
		p.Table.PrevPage()
		p.rowCursor = 0
	case key.Matches(msg, p.keys.NextPage):
		p.Table.NextPage()
		p.rowCursor = 0
	case key.Matches(msg, p.keys.Refresh):
		if p.inFlight == "" && p.Entry.ID != "" {
			dropCache(p.service)
			return p.Load(p.Entry.ID)
		}
	case key.Matches(msg, p.keys.Back):
		if p.Mode.Editable() {
			return p.CancelEdit()
		}
		return goBack
	case key.Matches(msg, p.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (p *EntryPage) cycleFocus() {
	switch p.focus {
	case focusTable:
		if len(p.buttons()) > 0 {
			p.focus = focusActions
		} else if p.Mode == entry.ModeAdd {
			p.focus = focusID
			p.idInput.Focus()
		}
	case focusActions:
		if p.Mode == entry.ModeAdd {
			p.focus = focusID
			p.idInput.Focus()
		} else {
			p.focus = focusTable
		}
	}
}

// press activates the n-th action bar button
func (p *EntryPage) press(n int) tea.Cmd {
	buttons := p.buttons()
	if n < 0 || n >= len(buttons) || p.inFlight != "" {
		return nil
	}
	switch b := buttons[n]; b.control {
	case controlSave:
		return p.SaveFields()
	case controlDiscard:
		return p.CancelEdit()
	default:
		return p.Trigger(b.action)
	}
}

// View renders the page inside the application container, with any open
// modal on top
func (p *EntryPage) View() string {
	switch {
	case p.errTitle != "":
		return RenderModal(p.renderErrorDialog(), p.Width, p.Height)
	case p.confirming != "":
		return RenderModal(p.renderConfirmDialog(), p.Width, p.Height)
	case p.dialog != nil:
		return RenderModal(p.dialog.View(p.Width), p.Width, p.Height)
	}
	return RenderApplicationContainer(p.Server, p.Content(), p.help.View(p.keys), p.Width, p.Height)
}

// Content renders the page body without the container
func (p *EntryPage) Content() string {
	if p.loading {
		return fmt.Sprintf("\n%s Loading %s...\n", p.spinner.View(), strings.ToLower(p.Kind.Noun()))
	}

	var b strings.Builder

	title := p.Kind.Noun() + " " + p.Entry.ID
	if p.Mode == entry.ModeAdd {
		title = "New " + strings.ToLower(p.Kind.Noun())
	}
	b.WriteString(RenderTitle(title))
	if p.Entry.Status != "" {
		b.WriteString("  ")
		b.WriteString(StatusBadge(p.Entry.Status))
	}
	if p.Mode != entry.ModeView {
		b.WriteString("  ")
		b.WriteString(SubtitleStyle.Render("(" + string(p.Mode) + ")"))
	}
	b.WriteString("\n\n")

	if p.Mode == entry.ModeAdd {
		label := BlurredInputStyle.Render("Entry ID  ")
		if p.focus == focusID {
			label = FocusedInputStyle.Render("Entry ID  ")
		}
		b.WriteString(label + p.idInput.View() + "\n\n")
	}

	b.WriteString(p.renderTable())
	b.WriteString("\n")

	if p.filtering {
		b.WriteString(p.filterInput.View())
		b.WriteString("\n")
	} else if f := p.Table.Filter(); f != "" {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("filter: %q (%d of %d)", f, p.Table.FilteredLen(), p.Table.Len())))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(p.renderActionBar())
	b.WriteString("\n")

	switch {
	case p.inFlight != "":
		label := "Saving"
		if p.inFlight != inFlightSave {
			label = entry.Action(p.inFlight).Label()
		}
		b.WriteString(fmt.Sprintf("%s %s...", p.spinner.View(), label))
	case p.inlineErr != "":
		b.WriteString(ErrorTextStyle.Render("✗ " + p.inlineErr))
	case p.notice != "":
		b.WriteString(NoticeStyle.Render("✓ " + p.notice))
	}
	b.WriteString("\n")

	return b.String()
}

func (p *EntryPage) renderTable() string {
	cols := p.Table.Columns()
	rows := p.Table.Rows()

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = strings.ToUpper(c.String())
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells()
	}
	widths := columnWidths(headers, cells, p.Width-10)

	var b strings.Builder
	b.WriteString("  " + TableHeaderStyle.Render(joinCells(headers, widths)) + "\n")

	if len(rows) == 0 {
		msg := "(no properties)"
		if p.Table.Filter() != "" {
			msg = "(no matching properties)"
		}
		b.WriteString("  " + SubtitleStyle.Render(msg) + "\n")
	}

	for i, row := range cells {
		line := joinCells(row, widths)
		if i == p.rowCursor && p.focus == focusTable {
			b.WriteString(SelectedRowStyle.Render("→ " + line))
		} else {
			b.WriteString("  " + RowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if p.Table.PageCount() > 1 {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  page %d/%d", p.Table.Page()+1, p.Table.PageCount())))
		b.WriteString("\n")
	}
	return b.String()
}

func (p *EntryPage) renderActionBar() string {
	buttons := p.buttons()
	if len(buttons) == 0 {
		return ""
	}
	rendered := make([]string, len(buttons))
	for i, btn := range buttons {
		switch {
		case p.inFlight != "":
			rendered[i] = DisabledButtonStyle.Render(btn.label)
		case p.focus == focusActions && i == p.actionCursor:
			rendered[i] = FocusedButtonStyle.Render(btn.label)
		default:
			rendered[i] = ButtonStyle.Render(btn.label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (p *EntryPage) renderConfirmDialog() string {
	yes, no := ButtonStyle.Render("Yes"), ButtonStyle.Render("No")
	if p.confirmCursor == 0 {
		yes = FocusedButtonStyle.Render("Yes")
	} else {
		no = FocusedButtonStyle.Render("No")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		RenderTitle("Confirm "+p.confirming.Label()),
		"",
		p.confirming.ConfirmMessage(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, yes, no),
	)
	return ModalStyle.Width(SafeModalWidth(60, p.Width)).Render(content)
}

func (p *EntryPage) renderErrorDialog() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		ErrorTextStyle.Render(p.errTitle),
		"",
		p.errMessage,
		"",
		SubtitleStyle.Render("enter: close"),
	)
	return ErrorModalStyle.Width(SafeModalWidth(60, p.Width)).Render(content)
}

// columnWidths sizes every column to its widest cell. Columns before the
// last share at most half of total; the last column takes the rest.
func columnWidths(headers []string, rows [][]string, total int) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	if len(widths) == 0 {
		return widths
	}
	total = max(total, 20)
	perColumn := total / 2 / max(len(widths)-1, 1)
	used := 0
	for i := 0; i < len(widths)-1; i++ {
		widths[i] = min(widths[i], max(perColumn, 4))
		used += widths[i] + 2
	}
	last := len(widths) - 1
	widths[last] = max(min(widths[last], total-used), 4)
	return widths
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		c = runewidth.Truncate(c, widths[i], "…")
		if i < len(cells)-1 {
			c = runewidth.FillRight(c, widths[i])
		}
		parts[i] = c
	}
	return strings.Join(parts, "  ")
}
