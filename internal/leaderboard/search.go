package leaderboard

import "strings"

// Search filters every row by a case-insensitive substring of the username.
// A non-empty query switches to searching mode and renders all matches. An
// empty query returns to scrolling mode and re-renders the rows released so
// far.
func (s *Store) Search(query string) {
	query = strings.ToLower(query)
	s.query = query

	if query == "" {
		s.mode = ModeScrolling
		s.results = nil
		s.displayed = append(s.displayed[:0:0], s.all[:s.offset]...)
		s.renderer.Render(s.displayed)
		return
	}

	s.mode = ModeSearching
	results := make([]*Row, 0)
	for _, r := range s.all {
		if strings.Contains(r.searchKey, query) {
			results = append(results, r)
		}
	}
	s.results = results
	s.renderer.Render(s.results)
}
