package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/muurk/tpsctl/internal/entry"
)

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"truncated", "abcdefgh", 5, "abcd…"},
		{"zero width", "abc", 0, ""},
		{"wide runes", "日本語テキスト", 6, "日本…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateCell(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("TruncateCell(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if w := runewidth.StringWidth(got); w > tt.width {
				t.Errorf("width %d exceeds %d", w, tt.width)
			}
		})
	}
}

func TestPadCell(t *testing.T) {
	if got := PadCell("ab", 4); got != "ab  " {
		t.Errorf("PadCell = %q", got)
	}
	if got := PadCell("abcdef", 4); runewidth.StringWidth(got) != 4 {
		t.Errorf("PadCell width = %d, want 4", runewidth.StringWidth(got))
	}
}

func TestRenderEntrySortsProperties(t *testing.T) {
	e := &entry.Entry{
		ID:     "userKey",
		Status: entry.StatusDisabled,
		Properties: []entry.Property{
			{Name: "b", Value: "2"},
			{Name: "a", Value: "1"},
		},
	}

	out := RenderEntry(entry.KindProfiles, e, EntryView{Width: 80})

	if !strings.Contains(out, "Profile userKey") {
		t.Errorf("missing title: %q", out)
	}
	if !strings.Contains(out, "Disabled") {
		t.Errorf("missing status: %q", out)
	}
	a := strings.Index(out, "a  ")
	b := strings.Index(out, "b  ")
	if a < 0 || b < 0 || a > b {
		t.Errorf("properties not sorted by name:\n%s", out)
	}
	// rendering must not reorder the entry itself
	if e.Properties[0].Name != "b" {
		t.Error("RenderEntry modified the entry")
	}
}

func TestRenderEntryFilterAndParentColumns(t *testing.T) {
	e := &entry.Entry{
		ID:     "ca1",
		Status: entry.StatusEnabled,
		Properties: []entry.Property{
			{Name: "host", Value: "ca.example.com"},
			{Name: "port", Value: "8443"},
		},
	}

	out := RenderEntry(entry.KindConnectors, e, EntryView{
		Columns: []string{"name", "parent.status", "value"},
		Filter:  "PORT",
		Width:   80,
	})

	if !strings.Contains(out, "PARENT.STATUS") {
		t.Errorf("missing parent column header: %q", out)
	}
	if !strings.Contains(out, "8443") || strings.Contains(out, "ca.example.com") {
		t.Errorf("filter not applied: %q", out)
	}
	if !strings.Contains(out, "1 of 2 properties") {
		t.Errorf("missing filter summary: %q", out)
	}

	out = RenderEntry(entry.KindConnectors, e, EntryView{Filter: "nothing", Width: 80})
	if !strings.Contains(out, `no properties match "nothing"`) {
		t.Errorf("missing empty filter message: %q", out)
	}
}

func TestRenderEntryList(t *testing.T) {
	coll := &entry.Collection{
		Total: 2,
		Entries: []entry.Entry{
			{ID: "userKey", Status: entry.StatusEnabled, Properties: []entry.Property{{Name: "a", Value: "1"}}},
			{ID: "soKey", Status: entry.StatusDisabled},
		},
	}

	out := RenderEntryList(entry.KindProfiles, coll, 80)
	for _, want := range []string{"Profiles (2)", "userKey", "soKey", "Enabled", "Disabled"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	empty := RenderEntryList(entry.KindAuthenticators, &entry.Collection{}, 80)
	if !strings.Contains(empty, "No authenticators found.") {
		t.Errorf("unexpected empty output: %q", empty)
	}
}
