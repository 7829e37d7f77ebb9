package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/simartin/geoleaderboard/internal/leaderboard"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Geo Leaderboard\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	f.writeSummaryTable(&b, report)
	f.writeLeaderboard(&b, report)

	return []byte(b.String()), nil
}

// writeSummaryTable writes the load summary and view state
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, report *Report) {
	b.WriteString("## Summary\n\n")

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Total Players on Leaderboard | %s |\n", report.formatNumber(report.Summary.TotalRows))
	fmt.Fprintf(b, "| Data Updated | %s |\n", updatedText(report.Summary.UpdatedAt))
	if report.Query != "" {
		fmt.Fprintf(b, "| Search | `%s` (%s matches) |\n", escapeMarkdownCell(report.Query), report.formatNumber(len(report.Rows)))
	} else {
		fmt.Fprintf(b, "| Released | %s (%.0f%%) |\n", report.formatNumber(report.Released), releasedRatio(report)*100)
	}
	if report.Indicator != nil {
		fmt.Fprintf(b, "| Sorted by | %s %s |\n", report.Indicator.Label, report.Indicator.Direction.Symbol())
	}
	b.WriteString("\n")
}

// writeLeaderboard writes the rows as a Markdown table with profile links
func (f *markdownFormatter) writeLeaderboard(b *strings.Builder, report *Report) {
	b.WriteString("## Leaderboard\n\n")

	if len(report.Rows) == 0 {
		b.WriteString("_No players to show._\n")
		return
	}

	headers := make([]string, len(report.Columns))
	separators := make([]string, len(report.Columns))
	for i, c := range report.Columns {
		headers[i] = escapeMarkdownCell(report.headerLabel(c.Label))
		separators[i] = "---"
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Join(separators, "|") + "|\n")

	for _, row := range report.Rows {
		cells := make([]string, len(report.Columns))
		for i := range report.Columns {
			text := escapeMarkdownCell(row.Text(i))
			if i == leaderboard.IdentityColumn && text != "" && row.ProfileLink() != "" {
				text = fmt.Sprintf("[%s](%s)", text, row.ProfileLink())
			}
			cells[i] = text
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

// escapeMarkdownCell keeps a value inside its table cell
func escapeMarkdownCell(s string) string {
	s = flattenCell(s)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "[", `\[`)
	return strings.ReplaceAll(s, "]", `\]`)
}
