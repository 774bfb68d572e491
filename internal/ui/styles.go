package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/muurk/tpsctl/internal/entry"
)

// Palette shared by every box and table the CLI prints.
var (
	PrimaryColor = lipgloss.Color("#7D56F4")
	SuccessColor = lipgloss.Color("#43BF6D") // also Enabled
	ErrorColor   = lipgloss.Color("#FF5555")
	WarningColor = lipgloss.Color("#FFA500") // also Pending_Approval
	MutedColor   = lipgloss.Color("#626262") // also Disabled
	TextColor    = lipgloss.Color("#FFFFFF")
)

const (
	minWidth = 60
	maxWidth = 120

	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
	runningMarker = "●"
	pendingMarker = "·"
)

var (
	plain = lipgloss.NewStyle().Foreground(TextColor)
	muted = lipgloss.NewStyle().Foreground(MutedColor)

	HeaderTitleStyle      = plain.Bold(true).PaddingLeft(2)
	HeaderCommandStyle    = muted.PaddingLeft(2)
	HeaderParamKeyStyle   = muted.PaddingLeft(2)
	HeaderParamValueStyle = plain
	dividerStyle          = lipgloss.NewStyle().Foreground(PrimaryColor)

	stepDoneStyle    = lipgloss.NewStyle().Foreground(SuccessColor)
	stepRunningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	stepFailedStyle  = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	noteStyle        = muted.Italic(true)

	ErrorMessageStyle = lipgloss.NewStyle().Foreground(ErrorColor)
	ResultKeyStyle    = muted.Width(15)
	ResultValueStyle  = plain

	TroubleshootingTitleStyle = muted.Bold(true)
	TroubleshootingItemStyle  = muted

	tableHeaderStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	tableCellStyle   = plain
)

// StatusStyle colours an entry status the same way everywhere.
func StatusStyle(s entry.Status) lipgloss.Style {
	switch s {
	case entry.StatusEnabled:
		return stepDoneStyle.Bold(true)
	case entry.StatusPendingApproval:
		return stepRunningStyle.Bold(true)
	default:
		return muted.Bold(true)
	}
}

// GetTerminalWidth returns the stdout width clamped to [60, 120], or 60 when
// stdout is not a terminal.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return minWidth
	}
	return min(max(width, minWidth), maxWidth)
}

// IsTerminal reports whether stdin is interactive.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func clampWidth(width int) int {
	return max(width, minWidth)
}
