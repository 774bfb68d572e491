package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/property"
)

const (
	columnGap      = 2
	minColumnWidth = 6
	ellipsis       = "…"
)

// TruncateCell shortens s to at most width terminal cells
func TruncateCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// PadCell truncates or right-pads s to exactly width terminal cells
func PadCell(s string, width int) string {
	return runewidth.FillRight(TruncateCell(s, width), width)
}

// renderTable lays out rows under headers. The last column absorbs whatever
// width is left and is truncated to fit.
func renderTable(headers []string, rows [][]string, width int) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// fixed columns get at most half the line between them
	budget := width - 2
	perColumn := budget / 2 / max(len(widths)-1, 1)
	used := 0
	for i := 0; i < len(widths)-1; i++ {
		if widths[i] > perColumn {
			widths[i] = max(perColumn, minColumnWidth)
		}
		used += widths[i] + columnGap
	}
	if last := len(widths) - 1; last >= 0 {
		widths[last] = max(min(widths[last], budget-used), minColumnWidth)
	}

	var b strings.Builder
	line := func(cells []string, style lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i == len(cells)-1 {
				parts[i] = TruncateCell(cell, widths[i])
			} else {
				parts[i] = PadCell(cell, widths[i])
			}
		}
		b.WriteString("  " + style.Render(strings.Join(parts, strings.Repeat(" ", columnGap))))
		b.WriteString("\n")
	}

	line(headers, tableHeaderStyle)
	for _, row := range rows {
		line(row, tableCellStyle)
	}
	return b.String()
}

// EntryView controls how RenderEntry lays out the property table
type EntryView struct {
	Columns []string // column paths, "parent." reads from the entry
	Filter  string   // case-insensitive substring match on name or value
	Width   int
}

// RenderEntry renders an entry's id, status and name-sorted properties
func RenderEntry(kind entry.Kind, e *entry.Entry, view EntryView) string {
	width := clampWidth(view.Width)

	table := property.NewTable(property.Options{
		Columns:  view.Columns,
		PageSize: max(len(e.Properties), 1),
		Parent:   e,
	})
	table.SetEntries(e.Properties)
	table.SetFilter(view.Filter)

	headers := make([]string, 0, len(table.Columns()))
	for _, col := range table.Columns() {
		headers = append(headers, strings.ToUpper(col.String()))
	}

	var rows [][]string
	for _, row := range table.Rows() {
		rows = append(rows, row.Cells())
	}

	var b strings.Builder
	b.WriteString(HeaderTitleStyle.Render(fmt.Sprintf("%s %s", kind.Noun(), e.ID)))
	b.WriteString("  ")
	b.WriteString(StatusStyle(e.Status).Render(e.Status.String()))
	b.WriteString("\n\n")

	if len(rows) == 0 {
		msg := "  (no properties)"
		if view.Filter != "" {
			msg = fmt.Sprintf("  (no properties match %q)", view.Filter)
		}
		b.WriteString(muted.Render(msg))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(renderTable(headers, rows, width))
	if view.Filter != "" {
		b.WriteString(noteStyle.Render(fmt.Sprintf("  %d of %d properties", table.FilteredLen(), table.Len())))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderEntryList renders one line per entry of a collection
func RenderEntryList(kind entry.Kind, coll *entry.Collection, width int) string {
	width = clampWidth(width)

	if len(coll.Entries) == 0 {
		return muted.Render(fmt.Sprintf("  No %s found.", strings.ToLower(kind.Title())))
	}

	headers := []string{"ID", "STATUS", "PROPERTIES"}
	rows := make([][]string, 0, len(coll.Entries))
	for _, e := range coll.Entries {
		rows = append(rows, []string{e.ID, e.Status.String(), fmt.Sprint(len(e.Properties))})
	}

	var b strings.Builder
	b.WriteString(HeaderTitleStyle.Render(fmt.Sprintf("%s (%d)", kind.Title(), coll.Total)))
	b.WriteString("\n\n")
	b.WriteString(renderTable(headers, rows, width))
	return b.String()
}
