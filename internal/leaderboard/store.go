package leaderboard

import (
	"slices"
)

// Mode is the exclusive display state of a Store
type Mode int

const (
	// ModeScrolling shows a growable prefix of all rows
	ModeScrolling Mode = iota
	// ModeSearching shows the rows matching the search query
	ModeSearching
)

func (m Mode) String() string {
	if m == ModeSearching {
		return "searching"
	}
	return "scrolling"
}

// StoreOptions configures a Store
type StoreOptions struct {
	PageSize int
	Sorter   *Sorter
}

// Store holds every materialized row and the subset being displayed. All
// methods must be called from a single goroutine.
type Store struct {
	renderer Renderer
	pageSize int
	sorter   *Sorter

	all       []*Row
	displayed []*Row
	results   []*Row
	offset    int
	mode      Mode
	query     string
}

// NewStore creates an empty store rendering to r
func NewStore(r Renderer, opts StoreOptions) *Store {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	sorter := opts.Sorter
	if sorter == nil {
		sorter = NewSorter(SorterOptions{})
	}
	return &Store{
		renderer: r,
		pageSize: pageSize,
		sorter:   sorter,
	}
}

// Reset replaces the row collection and returns to scrolling mode with
// nothing released. Sort directions are kept.
func (s *Store) Reset(rows []*Row) {
	s.all = rows
	s.displayed = nil
	s.results = nil
	s.offset = 0
	s.mode = ModeScrolling
	s.query = ""
}

// DisplayInitialPage shows the first page, replacing all rendered content
func (s *Store) DisplayInitialPage() {
	n := min(s.pageSize, len(s.all))
	s.displayed = slices.Clone(s.all[:n])
	s.offset = n
	s.renderer.Render(s.displayed)
}

// LoadMore appends the next page after the rendered rows and returns how
// many rows were released. It is a no-op once every row is released.
func (s *Store) LoadMore() int {
	end := min(s.offset+s.pageSize, len(s.all))
	next := s.all[s.offset:end]
	if len(next) == 0 {
		return 0
	}
	s.displayed = append(s.displayed, next...)
	s.offset = end
	s.renderer.Append(next)
	return len(next)
}

// Sort orders the active row set by label and re-renders it. The displayed
// prefix itself is not reordered.
func (s *Store) Sort(label string) (Direction, error) {
	active := s.displayed
	if s.mode == ModeSearching {
		active = s.results
	}

	sorted, dir, err := s.sorter.Sort(label, active)
	if err != nil {
		return dir, err
	}
	s.renderer.Render(sorted)
	s.renderer.SetSortIndicator(label, dir)
	return dir, nil
}

// Offset returns how many rows have been released
func (s *Store) Offset() int { return s.offset }

// Len returns the total number of rows
func (s *Store) Len() int { return len(s.all) }

// HasMore reports whether rows remain beyond the offset
func (s *Store) HasMore() bool { return s.offset < len(s.all) }

// Mode returns the display mode
func (s *Store) Mode() Mode { return s.mode }

// Query returns the active search query
func (s *Store) Query() string { return s.query }

// PageSize returns the number of rows per page
func (s *Store) PageSize() int { return s.pageSize }

// Sorter returns the sort engine
func (s *Store) Sorter() *Sorter { return s.sorter }

// Displayed returns a copy of the released prefix
func (s *Store) Displayed() []*Row { return slices.Clone(s.displayed) }

// Results returns a copy of the current search results
func (s *Store) Results() []*Row { return slices.Clone(s.results) }

// All returns a copy of every row
func (s *Store) All() []*Row { return slices.Clone(s.all) }
