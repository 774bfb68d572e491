package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/tpsctl/internal/entry"
)

// Printer writes the styled boxes and tables commands print.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter returns a Printer for w, or for stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	p.Println(Header{Title: title, Command: command, Params: params}.Render(p.width))
}

func (p *Printer) PrintSuccess(title string, details map[string]string) {
	p.Println(Result{Outcome: Succeeded, Title: title, Details: details}.Render(p.width))
}

func (p *Printer) PrintWarning(title string, details map[string]string) {
	p.Println(Result{Outcome: Warned, Title: title, Details: details}.Render(p.width))
}

// PrintError prints a failure box with troubleshooting hints.
func (p *Printer) PrintError(title string, err error, hints []string) {
	p.PrintAPIError(title, "", err, hints)
}

// PrintAPIError is PrintError with the error line labelled, e.g.
// "HTTP Error 409: Unable to enable Profile userKey in Enabled status".
func (p *Printer) PrintAPIError(title, label string, err error, hints []string) {
	p.Println(Result{Outcome: Failed, Title: title, Err: err, ErrLabel: label, Hints: hints}.Render(p.width))
}

// PrintEntry prints an entry with its property table.
func (p *Printer) PrintEntry(kind entry.Kind, e *entry.Entry, view EntryView) {
	if view.Width == 0 {
		view.Width = p.width
	}
	p.Print(RenderEntry(kind, e, view))
}

func (p *Printer) PrintEntryList(kind entry.Kind, coll *entry.Collection) {
	p.Println(RenderEntryList(kind, coll, p.width))
}
