package leaderboard

import (
	"errors"

	"github.com/simartin/geoleaderboard/internal/logger"
)

// Event is a user interaction routed through a Controller
type Event interface {
	event()
}

// ScrollEvent reports a new viewport position
type ScrollEvent struct {
	Position ScrollPosition
}

// QueryEvent reports the current search input
type QueryEvent struct {
	Query string
}

// SortEvent reports a click on a column header
type SortEvent struct {
	Label string
}

func (ScrollEvent) event() {}
func (QueryEvent) event()  {}
func (SortEvent) event()   {}

// Controller owns a Store and applies events to it one at a time. An
// event dispatched while another is being handled, for instance from inside
// a Renderer, is queued and applied after the current one completes.
type Controller struct {
	store *Store
	log   *logger.Logger

	dispatching bool
	queue       []Event
	summary     *Summary
}

// NewController creates a controller for store
func NewController(store *Store, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{store: store, log: log.WithComponent("controller")}
}

// Store returns the controlled store
func (c *Controller) Store() *Store {
	return c.store
}

// Summary returns the summary of the installed snapshot, or nil
func (c *Controller) Summary() *Summary {
	return c.summary
}

// Install hands a freshly loaded snapshot to the store, shows its summary
// and displays the first page.
func (c *Controller) Install(snap *Snapshot) {
	summary := snap.Summary
	c.summary = &summary

	c.store.Reset(snap.Rows)
	c.store.renderer.ShowSummary(summary)
	c.store.DisplayInitialPage()

	c.log.Info("installed %d rows, %d released", c.store.Len(), c.store.Offset())
}

// Dispatch applies ev and then any events queued while it ran. Re-entrant
// calls only enqueue and return nil.
func (c *Controller) Dispatch(ev Event) error {
	c.queue = append(c.queue, ev)
	if c.dispatching {
		return nil
	}

	c.dispatching = true
	defer func() { c.dispatching = false }()

	var errs []error
	for len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		if err := c.apply(next); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) apply(ev Event) error {
	switch e := ev.(type) {
	case ScrollEvent:
		if n := c.store.OnScroll(e.Position); n > 0 {
			c.log.Debug("released %d rows, offset now %d", n, c.store.Offset())
		}
	case QueryEvent:
		c.store.Search(e.Query)
		c.log.Debug("search %q: mode %s", c.store.Query(), c.store.Mode())
	case SortEvent:
		dir, err := c.store.Sort(e.Label)
		if err != nil {
			c.log.Warn("sort failed: %v", err)
			return err
		}
		c.log.Debug("sorted %s %s", e.Label, dir)
	}
	return nil
}
