package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is the box printed before a command touches the server: what runs,
// and against which server.
type Header struct {
	Title   string            // e.g. "Enable Profiles"
	Command string            // e.g. "tpsctl enable profiles userKey"
	Params  map[string]string // e.g. {"Server": "https://tps:8443"}
}

// Render draws the header width columns wide.
func (h Header) Render(width int) string {
	width = clampWidth(width)

	parts := []string{
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	}
	if len(h.Params) > 0 {
		parts = append(parts,
			dividerStyle.Render(strings.Repeat("─", width-6)),
			renderPairs(h.Params, HeaderParamKeyStyle, HeaderParamValueStyle, ""))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderPairs lists key: value lines in key order.
func renderPairs(pairs map[string]string, keyStyle, valueStyle lipgloss.Style, indent string) string {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = keyStyle.Render(indent+k+":") + " " + valueStyle.Render(pairs[k])
	}
	return strings.Join(lines, "\n")
}
