package console

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/logging"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenKinds Screen = "kinds"
	ScreenList  Screen = "list"
	ScreenEntry Screen = "entry"
)

// menuKeyMap defines key bindings for the kind menu
type menuKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Open key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Open, k.Quit}}
}

// Options configures the console application
type Options struct {
	Service  EntryService
	Policy   *entry.ActionPolicy
	Server   string
	Timeout  time.Duration
	PageSize int
	Columns  []string

	// StartKind opens the list of that kind directly; with StartID also set
	// the entry page opens first.
	StartKind entry.Kind
	StartID   string
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	List *EntryList
	Page *EntryPage

	KindCursor int

	Width  int
	Height int

	opts Options
	help help.Model
	keys menuKeyMap
}

// NewAppModel creates the console application
func NewAppModel(opts Options) AppModel {
	if opts.Policy == nil {
		opts.Policy = entry.DefaultPolicy()
	}

	m := AppModel{
		CurrentScreen: ScreenKinds,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		opts:          opts,
		help:          help.New(),
		keys: menuKeyMap{
			Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
			Quit: key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		},
	}

	for i, k := range entry.AllKinds {
		if k == opts.StartKind {
			m.KindCursor = i
		}
	}
	return m
}

// Init loads the starting screen
func (m AppModel) Init() tea.Cmd {
	switch {
	case m.opts.StartKind != "" && m.opts.StartID != "":
		return func() tea.Msg { return openEntryMsg{kind: m.opts.StartKind, id: m.opts.StartID} }
	case m.opts.StartKind != "":
		return func() tea.Msg { return screenTransitionMsg{screen: ScreenList, kind: m.opts.StartKind} }
	}
	return nil
}

// screenTransitionMsg switches to another screen
type screenTransitionMsg struct {
	screen Screen
	kind   entry.Kind
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		// Propagate to all screens
		if m.List != nil {
			m.List.Update(msg)
		}
		if m.Page != nil {
			m.Page.Update(msg)
		}
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case screenTransitionMsg:
		return m.showList(msg.kind)

	case openEntryMsg:
		return m.openEntry(msg.kind, msg.id, entry.ModeView)

	case addEntryMsg:
		return m.openEntry(msg.kind, "", entry.ModeAdd)

	case goBackMsg:
		return m.goBack()
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenKinds:
		return m.updateKinds(msg)
	case ScreenList:
		return m, m.List.Update(msg)
	case ScreenEntry:
		return m, m.Page.Update(msg)
	}
	return m, nil
}

func (m AppModel) updateKinds(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.KindCursor > 0 {
			m.KindCursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.KindCursor < len(entry.AllKinds)-1 {
			m.KindCursor++
		}
	case key.Matches(keyMsg, m.keys.Open):
		return m.showList(entry.AllKinds[m.KindCursor])
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m AppModel) showList(kind entry.Kind) (tea.Model, tea.Cmd) {
	logging.Debug("Opening entry list", zap.String("kind", string(kind)))

	m.CurrentScreen = ScreenList
	m.Page = nil
	if m.List == nil || m.List.Kind != kind {
		m.List = NewEntryList(m.opts.Service, kind, m.opts.Timeout)
		m.List.Server = m.opts.Server
		m.List.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
	}
	return m, m.List.Load()
}

func (m AppModel) openEntry(kind entry.Kind, id string, mode entry.Mode) (tea.Model, tea.Cmd) {
	logging.Debug("Opening entry page",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.String("mode", string(mode)))

	m.CurrentScreen = ScreenEntry
	m.Page = NewEntryPage(PageConfig{
		Service:  m.opts.Service,
		Kind:     kind,
		Mode:     mode,
		Policy:   m.opts.Policy,
		Columns:  m.opts.Columns,
		PageSize: m.opts.PageSize,
		Timeout:  m.opts.Timeout,
		Server:   m.opts.Server,
	})
	m.Page.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})

	if mode == entry.ModeAdd {
		return m, textinput.Blink
	}
	return m, m.Page.Load(id)
}

// goBack returns to the previous screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenEntry:
		kind := m.Page.Kind
		return m.showList(kind)
	case ScreenList:
		m.CurrentScreen = ScreenKinds
		m.List = nil
		return m, nil
	default:
		return m, tea.Quit
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenList:
		return m.List.View()
	case ScreenEntry:
		return m.Page.View()
	default:
		return RenderApplicationContainer(m.opts.Server, m.kindsContent(), m.help.View(m.keys), m.Width, m.Height)
	}
}

func (m AppModel) kindsContent() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Configuration"))
	b.WriteString("\n\n")
	for i, k := range entry.AllKinds {
		b.WriteString(RenderMenuItem(k.Title(), i == m.KindCursor))
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the console in the alternate screen and blocks until it exits
func Run(opts Options) error {
	program := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
