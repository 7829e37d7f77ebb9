package leaderboard

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SorterOptions configures a Sorter
type SorterOptions struct {
	Columns []Column
	// Locale selects the collation used for Username and Country
	Locale language.Tag
}

// Sorter orders rows by a column and remembers the next direction per
// label. It is not safe for concurrent use.
type Sorter struct {
	columns    []Column
	collator   *collate.Collator
	directions map[string]Direction
}

// NewSorter creates a sorter with every column set to ascending
func NewSorter(opts SorterOptions) *Sorter {
	columns := opts.Columns
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}

	directions := make(map[string]Direction, len(columns))
	for _, c := range columns {
		directions[c.Label] = Ascending
	}

	return &Sorter{
		columns:    columns,
		collator:   collate.New(locale),
		directions: directions,
	}
}

// Direction returns the direction the next sort on label will apply
func (s *Sorter) Direction(label string) Direction {
	return s.directions[label]
}

// Sort returns rows ordered by label using the stored direction, then
// toggles that direction. Rows whose cell is empty or "nan" keep their
// relative order and always come last. The input slice is not modified.
func (s *Sorter) Sort(label string, rows []*Row) ([]*Row, Direction, error) {
	idx := ColumnIndex(s.columns, label)
	if idx < 0 {
		return nil, Ascending, fmt.Errorf("%w: %s", ErrUnknownColumn, label)
	}

	valid := make([]*Row, 0, len(rows))
	var missing []*Row
	for _, r := range rows {
		if isMissing(r.Text(idx)) {
			missing = append(missing, r)
		} else {
			valid = append(valid, r)
		}
	}

	compare := s.comparator(label)
	slices.SortStableFunc(valid, func(a, b *Row) int {
		return compare(a.Text(idx), b.Text(idx))
	})

	dir := s.directions[label]
	if dir == Descending {
		slices.Reverse(valid)
	}
	s.directions[label] = dir.Toggle()

	return append(valid, missing...), dir, nil
}

func (s *Sorter) comparator(label string) func(a, b string) int {
	if label == LabelDivision {
		return func(a, b string) int {
			return cmp.Compare(divisionRank(a), divisionRank(b))
		}
	}

	textual := label == LabelUsername || label == LabelCountry
	return func(a, b string) int {
		fa, okA := parseDecimal(a)
		fb, okB := parseDecimal(b)
		if okA && okB {
			return cmp.Compare(fa, fb)
		}
		if textual {
			return s.collator.CompareString(a, b)
		}
		// numeric-or-bust: an operand that is not a number ties
		return 0
	}
}

// isMissing reports whether a cell counts as absent for sorting
func isMissing(text string) bool {
	return text == "" || strings.EqualFold(text, "nan")
}

func parseDecimal(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
