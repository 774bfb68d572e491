package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a batch command execution
type RunnerConfig struct {
	Title   string            // Command title (e.g., "Enable Profiles")
	Command string            // Full command (e.g., "tpsctl enable profiles a b")
	Params  map[string]string // Parameters to display in header
	Items   []string          // One step per item, usually entry ids
	Output  io.Writer         // Output writer (default: os.Stdout)
	// Troubleshooting is shown when any step fails
	Troubleshooting func(err error) []string
	// Describe shortens a step error for its progress line; err.Error() when nil
	Describe func(err error) string
}

// StepFunc performs the work for one item. The returned note is shown next to
// the step, e.g. "Disabled → Enabled".
type StepFunc func(ctx context.Context, item string) (note string, err error)

// Runner orchestrates the header, progress and result output for a batch of
// per-entry operations.
type Runner struct {
	config   RunnerConfig
	header   Header
	progress *Progress
	output   io.Writer
	width    int
}

// NewRunner creates a new runner for a batch command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()

	return &Runner{
		config:   config,
		header:   Header{Title: config.Title, Command: config.Command, Params: config.Params},
		progress: NewProgress(config.Items).SetWidth(width),
		output:   config.Output,
		width:    width,
	}
}

// Progress returns the step tracker
func (r *Runner) Progress() *Progress {
	return r.progress
}

// Run executes step for every item in order. A failing item does not stop
// the batch; the joined error of all failures is returned. Cancelling ctx
// marks the remaining items skipped.
func (r *Runner) Run(ctx context.Context, step StepFunc) error {
	start := time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render(r.width))
	_, _ = fmt.Fprintln(r.output)

	var errs []error
	for i, item := range r.config.Items {
		n := i + 1

		if ctx.Err() != nil {
			r.progress.UpdateStep(n, StepSkipped, "cancelled")
			_, _ = fmt.Fprintln(r.output, r.progress.RenderStep(r.progress.Steps[i]))
			continue
		}

		r.progress.UpdateStep(n, StepRunning, "")
		// overwritten when the step finishes
		_, _ = fmt.Fprint(r.output, r.progress.RenderStep(r.progress.Steps[i])+"\r")

		note, err := step(ctx, item)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item, err))
			r.progress.UpdateStep(n, StepFailed, r.describe(err))
		} else {
			r.progress.UpdateStep(n, StepComplete, note)
		}
		_, _ = fmt.Fprintln(r.output, r.progress.RenderStep(r.progress.Steps[i]))
	}

	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, r.progress.RenderBar())
	_, _ = fmt.Fprintln(r.output)

	duration := time.Since(start).Round(time.Millisecond).String()
	err := errors.Join(errs...)

	if err != nil {
		var tips []string
		if r.config.Troubleshooting != nil {
			tips = r.config.Troubleshooting(errs[0])
		}
		result := Result{
			Outcome: Failed,
			Title:   r.config.Title + " failed",
			Details: map[string]string{
				"Failed":   fmt.Sprintf("%d of %d", len(errs), len(r.config.Items)),
				"Duration": duration,
			},
			Hints: tips,
		}
		_, _ = fmt.Fprintln(r.output, result.Render(r.width))
		return err
	}

	result := Result{
		Outcome: Succeeded,
		Title:   r.config.Title + " complete",
		Details: map[string]string{
			"Entries":  fmt.Sprint(len(r.config.Items)),
			"Duration": duration,
		},
	}
	_, _ = fmt.Fprintln(r.output, result.Render(r.width))
	return nil
}

func (r *Runner) describe(err error) string {
	if r.config.Describe != nil {
		return r.config.Describe(err)
	}
	return err.Error()
}
