// Package palette holds the search palette's state machine. It has no I/O:
// callers feed it events and carry out the effects it returns.
package palette

import (
	"fmt"
	"time"

	"blockpalette/internal/domain"
)

// Phase is the externally visible state of the palette
type Phase int

const (
	Closed Phase = iota
	OpenLoading
	OpenReady
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case OpenLoading:
		return "open (loading)"
	case OpenReady:
		return "open (ready)"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the complete palette state. The zero value is not usable; call New.
type State struct {
	open     bool
	ready    bool // never reverts once set
	query    string
	catalog  domain.Catalog
	results  []int // positions in catalog
	selected int

	scanRequested   bool
	scanRequestedAt time.Time
	retryAfter      time.Duration
}

// Option customises a State
type Option func(*State)

// WithScanRetry lets an open re-request a scan when the previous request has
// gone unanswered for d. Zero disables retries.
func WithScanRetry(d time.Duration) Option {
	return func(s *State) {
		s.retryAfter = d
	}
}

// New returns a closed palette without a catalog
func New(opts ...Option) *State {
	s := &State{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply feeds one event into the state and returns the resulting effects
func (s *State) Apply(ev Event) []Effect {
	switch e := ev.(type) {
	case Toggle:
		if s.open {
			s.open = false
			return nil
		}
		return s.openAt(e.At)

	case Open:
		if s.open {
			return nil
		}
		return s.openAt(e.At)

	case Close:
		s.open = false

	case QueryChanged:
		s.query = e.Query
		if s.ready {
			s.recompute()
		}

	case CatalogReceived:
		// Replace, never merge
		s.catalog = e.Catalog
		s.ready = true
		s.scanRequested = false
		s.recompute()

	case MoveUp:
		if s.navigable() {
			s.selected = max(s.selected-1, 0)
		}

	case MoveDown:
		if s.navigable() {
			s.selected = min(s.selected+1, len(s.results)-1)
		}

	case Hover:
		if s.navigable() && e.Row >= 0 && e.Row < len(s.results) {
			s.selected = e.Row
		}

	case Commit:
		if !s.navigable() {
			return nil
		}
		return s.commit(s.selected)

	case ClickRow:
		if !s.navigable() || e.Row < 0 || e.Row >= len(s.results) {
			return nil
		}
		return s.commit(e.Row)
	}
	return nil
}

func (s *State) openAt(at time.Time) []Effect {
	s.open = true
	if s.ready {
		s.recompute()
		return nil
	}

	// One outstanding scan at a time, unless it has been ignored for too long
	if s.scanRequested && (s.retryAfter <= 0 || at.Sub(s.scanRequestedAt) < s.retryAfter) {
		return nil
	}
	s.scanRequested = true
	s.scanRequestedAt = at
	return []Effect{RequestScan{}}
}

func (s *State) commit(row int) []Effect {
	item := s.catalog[s.results[row]]
	s.open = false
	return []Effect{RequestSpawn{BlockType: item.ID}}
}

func (s *State) navigable() bool {
	return s.open && s.ready && len(s.results) > 0
}

func (s *State) recompute() {
	s.results = Filter(s.catalog, s.query)
	s.selected = 0
}

// Phase reports the current phase
func (s *State) Phase() Phase {
	switch {
	case !s.open:
		return Closed
	case !s.ready:
		return OpenLoading
	default:
		return OpenReady
	}
}

// IsOpen reports whether the overlay is visible
func (s *State) IsOpen() bool { return s.open }

// Ready reports whether a catalog has been received
func (s *State) Ready() bool { return s.ready }

// InputEnabled reports whether the search input accepts text
func (s *State) InputEnabled() bool { return s.ready }

// Query returns the current search text
func (s *State) Query() string { return s.query }

// CatalogSize returns the number of items in the cached catalog
func (s *State) CatalogSize() int { return len(s.catalog) }

// Selected returns the selection index. It is meaningless when there are no results.
func (s *State) Selected() int { return s.selected }

// Results returns the current result set
func (s *State) Results() []domain.CatalogItem {
	out := make([]domain.CatalogItem, len(s.results))
	for i, pos := range s.results {
		out[i] = s.catalog[pos]
	}
	return out
}

// SelectedItem returns the selected result, if any
func (s *State) SelectedItem() (domain.CatalogItem, bool) {
	if s.selected < 0 || s.selected >= len(s.results) {
		return domain.CatalogItem{}, false
	}
	return s.catalog[s.results[s.selected]], true
}

// NotFound reports whether the "not found" indicator replaces the result list
func (s *State) NotFound() bool {
	return s.ready && len(s.results) == 0
}

// NotFoundText is the indicator shown for an empty result set
func (s *State) NotFoundText() string {
	return fmt.Sprintf("%q not found", s.query)
}

// StatusText is the footer status line
func (s *State) StatusText() string {
	if !s.ready {
		return "Initializing..."
	}
	return fmt.Sprintf("%d blocks ready", len(s.catalog))
}
