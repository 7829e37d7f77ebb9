package leaderboard

// ScrollPosition describes the visible window over the rendered rows
type ScrollPosition struct {
	ViewportTop    int
	ViewportHeight int
	ContentHeight  int
}

// AtBottom reports whether the bottom edge of the viewport has reached
// the end of the content
func (p ScrollPosition) AtBottom() bool {
	return p.ViewportTop+p.ViewportHeight >= p.ContentHeight
}

// OnScroll releases the next page when scrolling mode is active, the
// viewport is at the bottom and rows remain. It returns the number of rows
// appended.
func (s *Store) OnScroll(pos ScrollPosition) int {
	if s.mode != ModeScrolling || !pos.AtBottom() || !s.HasMore() {
		return 0
	}
	return s.LoadMore()
}
