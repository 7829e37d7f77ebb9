package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/simartin/geoleaderboard/internal/emoji"
	"github.com/simartin/geoleaderboard/internal/leaderboard"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output for terminal display using go-termfmt
// and a lipgloss table
type terminalFormatter struct {
	opts  *termfmt.TerminalOptions
	color bool
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts, color: color}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeSummary(&b, report)
	f.writeTable(&b, report)

	return []byte(b.String()), nil
}

// writeHeader writes a boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Geo Leaderboard"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeSummary writes the load summary and view state as a tree
func (f *terminalFormatter) writeSummary(b *strings.Builder, report *Report) {
	b.WriteString(emoji.GetEmoji("trophy") + " Summary\n")

	items := []termfmt.TreeItem{
		{Label: "Total Players on Leaderboard", Value: report.formatNumber(report.Summary.TotalRows)},
		{Label: "Data Updated", Value: updatedText(report.Summary.UpdatedAt) + " (Updates Every 24 Hours)"},
	}

	if report.Query != "" {
		items = append(items, termfmt.TreeItem{
			Label: "Search",
			Value: fmt.Sprintf("%q (%s matches)", report.Query, report.formatNumber(len(report.Rows))),
		})
	} else {
		items = append(items, termfmt.TreeItem{
			Label: "Released",
			Value: fmt.Sprintf("%s of %s", report.formatNumber(report.Released), report.formatNumber(report.Summary.TotalRows)),
			Children: []termfmt.TreeItem{
				{Label: termfmt.CreateConfidenceBar(releasedRatio(report), f.opts), Value: ""},
			},
		})
	}

	if report.Indicator != nil {
		items = append(items, termfmt.TreeItem{
			Label: "Sorted by",
			Value: report.Indicator.Label + " " + report.Indicator.Direction.Symbol(),
		})
	}
	items[len(items)-1].Last = true

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeTable renders the rows with lipgloss/table
func (f *terminalFormatter) writeTable(b *strings.Builder, report *Report) {
	if len(report.Rows) == 0 {
		b.WriteString("No players to show\n")
		return
	}

	headers := make([]string, len(report.Columns))
	for i, c := range report.Columns {
		headers[i] = report.headerLabel(c.Label)
	}

	rows := make([][]string, len(report.Rows))
	for i, r := range report.Rows {
		cells := r.Texts()
		for j := range cells {
			cells[j] = flattenCell(cells[j])
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(f.cellStyle)

	b.WriteString(t.String())
	b.WriteString("\n")
}

func (f *terminalFormatter) cellStyle(row, col int) lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, 1)
	if row == table.HeaderRow {
		style = style.Bold(true)
		if f.color {
			style = style.Foreground(lipgloss.Color("#7D56F4"))
		}
		return style
	}
	if f.color && col == leaderboard.IdentityColumn {
		style = style.Foreground(lipgloss.Color("#04B575")).Underline(true)
	}
	return style
}
