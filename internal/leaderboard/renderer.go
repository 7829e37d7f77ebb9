package leaderboard

// Direction is a sort direction
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Toggle returns the opposite direction
func (d Direction) Toggle() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// String returns "asc" or "desc"
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Symbol returns the header marker for the direction
func (d Direction) Symbol() string {
	if d == Descending {
		return "▼"
	}
	return "▲"
}

// Renderer displays rows. Slices passed to it are owned by the caller and
// must not be modified.
type Renderer interface {
	// Render replaces all displayed rows
	Render(rows []*Row)
	// Append adds rows after the ones already displayed
	Append(rows []*Row)
	// ShowSummary displays the load summary
	ShowSummary(summary Summary)
	// SetSortIndicator marks label as sorted in dir and clears every other header
	SetSortIndicator(label string, dir Direction)
}

// SortIndicator is the header marker currently shown
type SortIndicator struct {
	Label     string
	Direction Direction
}

// Buffer is a Renderer that keeps what was rendered in memory. It backs
// the non-interactive exports.
type Buffer struct {
	Rows      []*Row
	Summary   *Summary
	Indicator *SortIndicator

	Renders int
	Appends int
}

// Render implements Renderer
func (b *Buffer) Render(rows []*Row) {
	b.Rows = append(b.Rows[:0:0], rows...)
	b.Renders++
}

// Append implements Renderer
func (b *Buffer) Append(rows []*Row) {
	b.Rows = append(b.Rows, rows...)
	b.Appends++
}

// ShowSummary implements Renderer
func (b *Buffer) ShowSummary(summary Summary) {
	s := summary
	b.Summary = &s
}

// SetSortIndicator implements Renderer
func (b *Buffer) SetSortIndicator(label string, dir Direction) {
	b.Indicator = &SortIndicator{Label: label, Direction: dir}
}
