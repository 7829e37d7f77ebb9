package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"abc", 3, "abc"},
		{"Zoé", 4, "Zoé "},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		got := Fit(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("Fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && ansi.StringWidth(got) != tt.width {
			t.Errorf("Expected width %d, got %d", tt.width, ansi.StringWidth(got))
		}
	}
}

func TestTableColumnWidths(t *testing.T) {
	table := NewTable([]string{"Rank", "Username"})
	table.Rows = [][]string{
		{"1", "al"},
		{"10000", strings.Repeat("x", 40)},
	}

	widths := table.ColumnWidths()
	if widths[0] != 5 {
		t.Errorf("Expected rank width 5, got %d", widths[0])
	}
	if widths[1] != MaxColumnWidth {
		t.Errorf("Expected username width capped at %d, got %d", MaxColumnWidth, widths[1])
	}
}

func TestMeasureWidthsGrows(t *testing.T) {
	widths := MeasureWidths(nil, [][]string{{"1", "al"}})
	widths = MeasureWidths(widths, [][]string{{"10", "a"}, {"3", strings.Repeat("x", 40), "se"}})

	want := []int{2, MaxColumnWidth, 2}
	if len(widths) != len(want) {
		t.Fatalf("Expected %d widths, got %v", len(want), widths)
	}
	for i := range want {
		if widths[i] != want[i] {
			t.Errorf("Expected width %d for column %d, got %d", want[i], i, widths[i])
		}
	}
}

func TestTablePrecomputedWidths(t *testing.T) {
	table := NewTable([]string{"Rank", "Username"})
	table.Rows = [][]string{{"1", "al"}}
	table.Widths = []int{2, 12}

	widths := table.ColumnWidths()
	if widths[0] != 4 || widths[1] != 12 {
		t.Errorf("Expected [4 12], got %v", widths)
	}

	lines := strings.Split(table.Render(), "\n")
	if w := ansi.StringWidth(lines[1]); w != 4+columnGap+12 {
		t.Errorf("Expected row width %d, got %d", 4+columnGap+12, w)
	}
}

func TestTableRenderWindow(t *testing.T) {
	table := NewTable([]string{"Rank", "Username"})
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		table.Rows = append(table.Rows, []string{"1", name})
	}
	table.Top = 1
	table.Height = 2

	lines := strings.Split(table.Render(), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Username") {
		t.Errorf("Expected header first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "b") || !strings.Contains(lines[2], "c") {
		t.Errorf("Expected rows b and c, got %q", lines[1:])
	}
}

func TestTableRenderClipsToWidth(t *testing.T) {
	table := NewTable([]string{"Rank", "Username", "Country"})
	table.Rows = [][]string{{"1", "alice", "se"}}
	table.Width = 10

	for _, line := range strings.Split(table.Render(), "\n") {
		if w := ansi.StringWidth(line); w > 10 {
			t.Errorf("Expected lines of at most 10 cells, got %d in %q", w, line)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		current, total int
		want           float64
		percent        string
	}{
		{0, 100, 0, "0%"},
		{50, 100, 0.5, "50%"},
		{150, 100, 1, "100%"},
		{0, 0, 1, "100%"},
	}

	for _, tt := range tests {
		bar := NewProgressBar(10)
		bar.SetProgress(tt.current, tt.total)
		if bar.Ratio() != tt.want {
			t.Errorf("Ratio(%d/%d) = %v, want %v", tt.current, tt.total, bar.Ratio(), tt.want)
		}
		if !strings.Contains(bar.Render(), tt.percent) {
			t.Errorf("Expected %s in %q", tt.percent, bar.Render())
		}
	}
}

func TestSpinnerTickWraps(t *testing.T) {
	s := NewSpinner()
	s.SetLabel("Loading")
	for range SpinnerFrames {
		s.Tick()
	}
	if s.Frame != 0 {
		t.Errorf("Expected frame to wrap to 0, got %d", s.Frame)
	}
	if !strings.HasSuffix(s.Render(), " Loading") {
		t.Errorf("Expected label after the frame, got %q", s.Render())
	}
}
