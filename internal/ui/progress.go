package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet started
	StepRunning                    // Request in flight
	StepComplete                   // Server accepted the change
	StepFailed                     // Server rejected the change
	StepSkipped                    // Declined at the prompt
)

// Step is one entry of a batch operation
type Step struct {
	Number  int
	Name    string // entry id
	Status  StepStatus
	Message string // e.g. "Disabled → Enabled" or the server error
}

// Progress tracks a batch of per-entry steps with a bar and a step list
type Progress struct {
	Steps []Step
	Width int
	bar   progress.Model
}

// NewProgress creates a progress display with one pending step per name
func NewProgress(names []string) *Progress {
	steps := make([]Step, len(names))
	for i, n := range names {
		steps[i] = Step{Number: i + 1, Name: n}
	}
	p := &Progress{Steps: steps}
	p.SetWidth(GetTerminalWidth())
	return p
}

// SetWidth sets the terminal width for responsive rendering
func (p *Progress) SetWidth(width int) *Progress {
	p.Width = width
	barWidth := min(max(width-24, 20), 50) // room for percentage and counter
	p.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth),
	)
	return p
}

// UpdateStep sets a step's status and message. Out of range steps are ignored.
func (p *Progress) UpdateStep(number int, status StepStatus, message string) {
	if number < 1 || number > len(p.Steps) {
		return
	}
	p.Steps[number-1].Status = status
	p.Steps[number-1].Message = message
}

// Done returns how many steps have finished, failed or not
func (p *Progress) Done() int {
	n := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepFailed || s.Status == StepSkipped {
			n++
		}
	}
	return n
}

// Failed returns how many steps failed
func (p *Progress) Failed() int {
	n := 0
	for _, s := range p.Steps {
		if s.Status == StepFailed {
			n++
		}
	}
	return n
}

// Percent returns the finished fraction, 0.0 to 1.0
func (p *Progress) Percent() float64 {
	if len(p.Steps) == 0 {
		return 1
	}
	return float64(p.Done()) / float64(len(p.Steps))
}

// RenderBar renders the bar with percentage and step counter
func (p *Progress) RenderBar() string {
	return lipgloss.NewStyle().
		PaddingLeft(2).
		Render(fmt.Sprintf("%s  %3.0f%%  [%d/%d]", p.bar.ViewAs(p.Percent()), p.Percent()*100, p.Done(), len(p.Steps)))
}

// Render returns the bar followed by the step list
func (p *Progress) Render() string {
	lines := []string{p.RenderBar(), ""}
	for _, s := range p.Steps {
		lines = append(lines, p.RenderStep(s))
	}
	return strings.Join(lines, "\n")
}

// RenderStep renders one step line: counter, name, marker and note
func (p *Progress) RenderStep(step Step) string {
	var marker string
	var style lipgloss.Style
	switch step.Status {
	case StepComplete:
		marker, style = SuccessMarker, stepDoneStyle
	case StepRunning:
		marker, style = runningMarker, stepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, stepFailedStyle
	case StepSkipped:
		marker, style = "-", muted
	default:
		marker, style = pendingMarker, muted
	}

	nameWidth := min(max(p.Width/2, 20), 45)

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", step.Number, len(p.Steps))
	b.WriteString(style.Render(PadCell(step.Name, nameWidth)))
	b.WriteString(" ")
	b.WriteString(style.Render(marker))
	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(noteStyle.Render("(" + TruncateCell(step.Message, max(p.Width-nameWidth-20, 10)) + ")"))
	}
	return b.String()
}
