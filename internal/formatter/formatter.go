package formatter

import (
	"fmt"
	"strings"

	"github.com/simartin/geoleaderboard/internal/leaderboard"
	"golang.org/x/text/language"
)

// Report is the rendered state of a leaderboard handed to a Formatter
type Report struct {
	Columns   []leaderboard.Column
	Rows      []*leaderboard.Row
	Summary   leaderboard.Summary
	Indicator *leaderboard.SortIndicator
	Query     string
	// Released is how many rows had been paged in when the report was taken
	Released int
	// Locale groups the digits of counts; Und means English
	Locale language.Tag
}

// NewReport captures what buf rendered for store
func NewReport(store *leaderboard.Store, buf *leaderboard.Buffer, columns []leaderboard.Column) *Report {
	r := &Report{
		Columns:   columns,
		Rows:      buf.Rows,
		Indicator: buf.Indicator,
		Query:     store.Query(),
		Released:  store.Offset(),
	}
	if buf.Summary != nil {
		r.Summary = *buf.Summary
	}
	return r
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Formats lists the accepted output formats
var Formats = []string{"text", "json", "markdown", "csv", "xlsx"}

// New returns the formatter for format
func New(format string, color bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text", "terminal":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	case "xlsx", "excel":
		return NewXLSX(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
}

// headerLabel returns the column label with the sort marker when it is
// the sorted column
func (r *Report) headerLabel(label string) string {
	if r.Indicator != nil && r.Indicator.Label == label {
		return label + " " + r.Indicator.Direction.Symbol()
	}
	return label
}
