package formatter

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatNumber groups digits the way the report locale does
func (r *Report) formatNumber(n int) string {
	tag := r.Locale
	if tag == language.Und {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprintf("%d", n)
}

// updatedText renders the freshness line value
func updatedText(ts string) string {
	if ts == "" {
		return "unknown"
	}
	return ts + " UTC"
}

// releasedRatio is the fraction of the leaderboard paged in
func releasedRatio(r *Report) float64 {
	if r.Summary.TotalRows == 0 {
		return 1
	}
	return float64(r.Released) / float64(r.Summary.TotalRows)
}

// flattenCell keeps a cell on one line
func flattenCell(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
