package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Outcome picks the banner and border colour of a Result.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	Warned
)

type banner struct {
	marker string
	label  string
	color  lipgloss.Color
}

var banners = map[Outcome]banner{
	Succeeded: {SuccessMarker, "SUCCESS", SuccessColor},
	Failed:    {FailureMarker, "FAILED", ErrorColor},
	Warned:    {WarningMarker, "WARNING", WarningColor},
}

// Result is the box printed when a command finishes.
type Result struct {
	Outcome Outcome
	Title   string // e.g. "Profile userKey updated"
	Details map[string]string
	Err     error

	// ErrLabel prefixes Err, e.g. "HTTP Error 409". Defaults to "Error".
	ErrLabel string

	// Hints are listed under "Troubleshooting:" when non-empty
	Hints []string
}

// Render draws the result width columns wide.
func (r Result) Render(width int) string {
	width = clampWidth(width)
	b := banners[r.Outcome]

	titleStyle := lipgloss.NewStyle().Foreground(b.color).Bold(true)
	lines := []string{
		"",
		titleStyle.Render(fmt.Sprintf("   %s  %s  ─  %s", b.marker, b.label, r.Title)),
		"",
	}

	if r.Err != nil {
		label := r.ErrLabel
		if label == "" {
			label = "Error"
		}
		lines = append(lines, ErrorMessageStyle.Render(fmt.Sprintf("   %s: %s", label, r.Err)), "")
	}
	if len(r.Details) > 0 {
		lines = append(lines, renderPairs(r.Details, ResultKeyStyle, ResultValueStyle, "   "), "")
	}
	if len(r.Hints) > 0 {
		lines = append(lines, renderHints(r.Hints, width), "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(b.color).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

func renderHints(hints []string, width int) string {
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, TroubleshootingTitleStyle.Render("Troubleshooting:"), "")
	for _, hint := range hints {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+hint))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(width-12, 40)).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}
