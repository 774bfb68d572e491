package console

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/ui"
	"github.com/muurk/tpsctl/internal/version"
)

const appName = "TPS ADMIN CONSOLE"

// Fallback size until the first tea.WindowSizeMsg arrives.
const (
	DefaultWidth  = 100
	DefaultHeight = 30

	minWidth  = 60
	minHeight = 10
)

// The console shares the CLI palette.
var (
	accentColor = ui.PrimaryColor
	focusColor  = ui.SuccessColor
	mutedColor  = ui.MutedColor
	errorColor  = ui.ErrorColor
	textColor   = ui.TextColor
)

var (
	plainStyle = lipgloss.NewStyle().Foreground(textColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
	focusStyle = lipgloss.NewStyle().Foreground(focusColor).Bold(true)

	TitleStyle    = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	SubtitleStyle = mutedStyle.Italic(true)
	SpinnerStyle  = lipgloss.NewStyle().Foreground(accentColor)

	ButtonStyle = plainStyle.
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)
	FocusedButtonStyle  = ButtonStyle.BorderForeground(focusColor).Foreground(focusColor).Bold(true)
	DisabledButtonStyle = ButtonStyle.Foreground(mutedColor)

	TableHeaderStyle = TitleStyle
	RowStyle         = plainStyle
	SelectedRowStyle = focusStyle

	ModalStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentColor).Padding(1, 2)
	ErrorModalStyle = ModalStyle.BorderForeground(errorColor)
	ErrorTextStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	NoticeStyle     = lipgloss.NewStyle().Foreground(focusColor)

	FocusedInputStyle = TitleStyle
	BlurredInputStyle = mutedStyle
)

// StatusBadge renders a status in the colour the CLI uses for it.
func StatusBadge(s entry.Status) string {
	return ui.StatusStyle(s).Render(s.String())
}

func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderMenuItem marks the selected item with an arrow.
func RenderMenuItem(text string, selected bool) string {
	if selected {
		return focusStyle.PaddingLeft(2).Render("→ " + text)
	}
	return plainStyle.PaddingLeft(4).Render("  " + text)
}

func fitScreen(width, height int) (int, int) {
	if height < minHeight {
		height = DefaultHeight
	}
	return max(width, minWidth), height
}

// RenderApplicationContainer frames a screen: a header naming the console and
// the server, the content, and a footer with key help, inside a border that
// fills the terminal. Every screen's View goes through it.
func RenderApplicationContainer(server, content, footer string, width, height int) string {
	width, height = fitScreen(width, height)
	inner := width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		plainStyle.Bold(true).Render(appName+" v"+version.Version),
		"  ",
		mutedStyle.Render(server))

	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().
			BorderStyle(lipgloss.Border{Bottom: "─"}).
			BorderForeground(accentColor).
			Width(inner).Padding(0, 1).
			Render(header),
		lipgloss.NewStyle().Width(inner).Padding(0, 1).Render(content),
		mutedStyle.
			BorderStyle(lipgloss.Border{Top: "─"}).
			BorderForeground(accentColor).
			Width(inner).Padding(0, 1).
			Render(footer),
	)

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(accentColor).
		Width(width - 2).
		Height(height - 2).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, frame)
}

// RenderModal centres a dialog over a shaded screen.
func RenderModal(content string, width, height int) string {
	width, height = fitScreen(width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")))
}

// SafeModalWidth caps a dialog width to the terminal, never below 40.
func SafeModalWidth(want, width int) int {
	return min(want, max(width-4, 40))
}
