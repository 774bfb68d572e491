package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tpsctl/internal/entry"
)

// Confirm prints message with a [y/N] prompt and reads the answer from in.
// Anything other than y or yes, including EOF, declines.
func Confirm(in io.Reader, out io.Writer, message string) bool {
	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(message)+" [y/N]: ")

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancelStyle.Render("  Operation cancelled."))
	return false
}

// ConfirmTransition asks before a workflow action is sent to the server
func ConfirmTransition(in io.Reader, out io.Writer, action entry.Action) bool {
	return Confirm(in, out, action.ConfirmMessage())
}
