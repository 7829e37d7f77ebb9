package leaderboard

import (
	"strings"

	"github.com/simartin/geoleaderboard/internal/dataset"
)

// Cell is one rendered value of a row
type Cell struct {
	Text  string
	Value dataset.Value
	// Link is set on the identity column only
	Link string
	// Absent marks a cell whose field was missing from the snapshot header
	Absent bool
}

// Row is an immutable rendered record. Only its membership in the
// displayed and search sets changes after materialization.
type Row struct {
	// Position is the zero-based index of the record in the snapshot
	Position int
	ID       string
	Cells    []Cell

	searchKey string
}

func newRow(position int, id string, cells []Cell) *Row {
	r := &Row{Position: position, ID: id, Cells: cells}
	if IdentityColumn < len(cells) {
		r.searchKey = strings.ToLower(cells[IdentityColumn].Text)
	}
	return r
}

// Text returns the text of the cell at column i, or "" when out of range
func (r *Row) Text(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i].Text
}

// Username returns the identity cell text
func (r *Row) Username() string {
	return r.Text(IdentityColumn)
}

// ProfileLink returns the link carried by the identity cell
func (r *Row) ProfileLink() string {
	if IdentityColumn >= len(r.Cells) {
		return ""
	}
	return r.Cells[IdentityColumn].Link
}

// Texts returns all cell texts in column order
func (r *Row) Texts() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text
	}
	return out
}
