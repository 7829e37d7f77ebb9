package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	// MaxColumnWidth caps a column so one long username cannot push the rest off screen
	MaxColumnWidth = 24
	columnGap      = 2
	ellipsis       = "…"
)

// TableStyles are the styles a Table renders with. They are passed in by the
// caller to avoid an import cycle with the theme package.
type TableStyles struct {
	Header         lipgloss.Style
	HeaderSelected lipgloss.Style
	Cell           lipgloss.Style
	RowSelected    lipgloss.Style
	Muted          lipgloss.Style
}

// DefaultTableStyles returns plain styles with a bold header
func DefaultTableStyles() TableStyles {
	return TableStyles{
		Header:         lipgloss.NewStyle().Bold(true),
		HeaderSelected: lipgloss.NewStyle().Bold(true).Underline(true),
		Cell:           lipgloss.NewStyle(),
		RowSelected:    lipgloss.NewStyle().Reverse(true),
		Muted:          lipgloss.NewStyle().Faint(true),
	}
}

// Table lays out a window of rows in fixed-width columns
type Table struct {
	Headers []string
	Rows    [][]string
	Styles  TableStyles

	// Widths are precomputed cell widths, as from MeasureWidths. When nil
	// they are measured over Rows.
	Widths []int

	// Top is the first visible row and Height the number of visible rows
	Top    int
	Height int
	Width  int

	Cursor         int
	SelectedColumn int
}

// NewTable creates a table with default styles
func NewTable(headers []string) *Table {
	return &Table{
		Headers: headers,
		Styles:  DefaultTableStyles(),
		Cursor:  -1,
	}
}

// MeasureWidths grows widths to fit every cell of rows and returns it.
// Cells are capped at MaxColumnWidth, so the result stops changing once
// a column is full.
func MeasureWidths(widths []int, rows [][]string) []int {
	for _, row := range rows {
		for len(widths) < len(row) {
			widths = append(widths, 0)
		}
		for i, cell := range row {
			if widths[i] == MaxColumnWidth {
				continue
			}
			widths[i] = max(widths[i], min(ansi.StringWidth(cell), MaxColumnWidth))
		}
	}
	return widths
}

// ColumnWidths combines the header widths with Widths, or with the widths
// of Rows when Widths is nil, capped at MaxColumnWidth
func (t *Table) ColumnWidths() []int {
	cells := t.Widths
	if cells == nil {
		cells = MeasureWidths(nil, t.Rows)
	}
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = ansi.StringWidth(h)
		if i < len(cells) {
			widths[i] = max(widths[i], cells[i])
		}
		widths[i] = min(widths[i], MaxColumnWidth)
	}
	return widths
}

// Render draws the header and the visible rows
func (t *Table) Render() string {
	widths := t.ColumnWidths()

	var b strings.Builder
	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		style := t.Styles.Header
		if i == t.SelectedColumn {
			style = t.Styles.HeaderSelected
		}
		headers[i] = style.Render(Fit(h, widths[i]))
	}
	b.WriteString(t.clip(strings.Join(headers, strings.Repeat(" ", columnGap))))

	end := len(t.Rows)
	if t.Height > 0 {
		end = min(end, t.Top+t.Height)
	}
	for r := max(t.Top, 0); r < end; r++ {
		b.WriteString("\n")
		b.WriteString(t.renderRow(r, widths))
	}
	return b.String()
}

func (t *Table) renderRow(r int, widths []int) string {
	row := t.Rows[r]
	cells := make([]string, len(widths))
	for i := range widths {
		text := ""
		if i < len(row) {
			text = row[i]
		}
		cells[i] = Fit(text, widths[i])
	}
	line := t.clip(strings.Join(cells, strings.Repeat(" ", columnGap)))
	if r == t.Cursor {
		return t.Styles.RowSelected.Render(line)
	}
	return t.Styles.Cell.Render(line)
}

// clip truncates a line to the table width, if one is set
func (t *Table) clip(line string) string {
	if t.Width <= 0 || ansi.StringWidth(line) <= t.Width {
		return line
	}
	return ansi.Truncate(line, t.Width, "")
}

// Fit truncates or pads s to exactly width terminal cells
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		s = ansi.Truncate(s, width, ellipsis)
		w = ansi.StringWidth(s)
	}
	return s + strings.Repeat(" ", max(width-w, 0))
}
