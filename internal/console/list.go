package console

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/tpsclient"
)

// listKeyMap defines key bindings for the entry list screen
type listKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Add     key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Add, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Add, k.Refresh, k.Back, k.Quit},
	}
}

// EntryList lists the entries of one kind
type EntryList struct {
	Kind    entry.Kind
	Entries []entry.Entry
	Width   int
	Height  int
	Server  string

	service EntryService
	timeout time.Duration
	table   table.Model
	spinner spinner.Model
	loading bool
	err     error

	help help.Model
	keys listKeyMap
}

// NewEntryList creates a list screen for kind; call Load to fetch entries
func NewEntryList(svc EntryService, kind entry.Kind, timeout time.Duration) *EntryList {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	t := table.New(
		table.WithColumns(listColumns(DefaultWidth)),
		table.WithFocused(true),
		table.WithHeight(DefaultHeight-12),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(accentColor).
		BorderBottom(true).
		Foreground(accentColor).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(focusColor).
		Background(lipgloss.NoColor{}).
		Bold(true)
	t.SetStyles(st)

	return &EntryList{
		Kind:    kind,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		service: svc,
		timeout: timeout,
		table:   t,
		spinner: s,
		help:    help.New(),
		keys: listKeyMap{
			Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
			Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
			Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
			Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
			Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		},
	}
}

func listColumns(width int) []table.Column {
	idWidth := max(width-40, 20)
	return []table.Column{
		{Title: "ID", Width: idWidth},
		{Title: "Status", Width: 18},
		{Title: "Properties", Width: 10},
	}
}

// Load fetches the collection from the server
func (l *EntryList) Load() tea.Cmd {
	l.loading = true
	l.err = nil
	return tea.Batch(l.spinner.Tick, loadListCmd(l.service, l.Kind, l.timeout))
}

// Selected returns the id of the highlighted entry, "" when the list is empty
func (l *EntryList) Selected() string {
	row := l.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func (l *EntryList) setEntries(entries []entry.Entry) {
	l.Entries = entries
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{e.ID, e.Status.String(), strconv.Itoa(len(e.Properties))}
	}
	l.table.SetRows(rows)
	if l.table.Cursor() >= len(rows) {
		l.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Update handles messages for the list
func (l *EntryList) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.Width = msg.Width
		l.Height = msg.Height
		l.help.Width = msg.Width
		l.table.SetColumns(listColumns(msg.Width - 6))
		l.table.SetHeight(max(msg.Height-12, 3))
		return nil

	case spinner.TickMsg:
		if !l.loading {
			return nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return cmd

	case listLoadedMsg:
		if msg.kind != l.Kind {
			return nil
		}
		l.loading = false
		l.err = msg.err
		if msg.err == nil {
			l.setEntries(msg.coll.Entries)
		}
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, l.keys.Open):
			if id := l.Selected(); id != "" && !l.loading {
				kind := l.Kind
				return func() tea.Msg { return openEntryMsg{kind: kind, id: id} }
			}
			return nil
		case key.Matches(msg, l.keys.Add):
			kind := l.Kind
			return func() tea.Msg { return addEntryMsg{kind: kind} }
		case key.Matches(msg, l.keys.Refresh):
			if !l.loading {
				dropCache(l.service)
				return l.Load()
			}
			return nil
		case key.Matches(msg, l.keys.Back):
			return goBack
		case key.Matches(msg, l.keys.Quit):
			return tea.Quit
		}
	}

	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return cmd
}

// View renders the list inside the application container
func (l *EntryList) View() string {
	return RenderApplicationContainer(l.Server, l.Content(), l.help.View(l.keys), l.Width, l.Height)
}

// Content renders the list body without the container
func (l *EntryList) Content() string {
	var b strings.Builder
	b.WriteString(RenderTitle(l.Kind.Title()))
	b.WriteString("\n\n")

	switch {
	case l.loading:
		b.WriteString(fmt.Sprintf("%s Loading %s...\n", l.spinner.View(), strings.ToLower(l.Kind.Title())))
	case l.err != nil:
		_, message := tpsclient.Details(l.err)
		b.WriteString(ErrorTextStyle.Render(fmt.Sprintf("✗ %s: %s", tpsclient.ErrorTitle(l.err), message)))
		b.WriteString("\n")
		for _, hint := range tpsclient.GetTroubleshootingHints(l.err) {
			b.WriteString(SubtitleStyle.Render("  • " + hint))
			b.WriteString("\n")
		}
	case len(l.Entries) == 0:
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("No %s found. Press a to add one.", strings.ToLower(l.Kind.Title()))))
		b.WriteString("\n")
	default:
		b.WriteString(l.table.View())
		b.WriteString("\n")
	}
	return b.String()
}
