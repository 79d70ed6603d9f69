package palette

import (
	"time"

	"blockpalette/internal/domain"
)

// Event is an input to State.Apply
type Event interface {
	isEvent()
}

// Toggle is the global hotkey: it opens a closed palette and closes an open one
type Toggle struct {
	At time.Time
}

// Open opens the palette, e.g. from the toolbar button. Opening an open palette does nothing.
type Open struct {
	At time.Time
}

// Close dismisses the palette without committing (escape, backdrop click)
type Close struct{}

// QueryChanged carries the full text of the search input
type QueryChanged struct {
	Query string
}

// CatalogReceived delivers a catalog from the page
type CatalogReceived struct {
	Catalog domain.Catalog
}

// MoveUp moves the selection one row up
type MoveUp struct{}

// MoveDown moves the selection one row down
type MoveDown struct{}

// Hover points at a result row
type Hover struct {
	Row int
}

// Commit spawns the selected result (enter)
type Commit struct{}

// ClickRow spawns the clicked result
type ClickRow struct {
	Row int
}

func (Toggle) isEvent()          {}
func (Open) isEvent()            {}
func (Close) isEvent()           {}
func (QueryChanged) isEvent()    {}
func (CatalogReceived) isEvent() {}
func (MoveUp) isEvent()          {}
func (MoveDown) isEvent()        {}
func (Hover) isEvent()           {}
func (Commit) isEvent()          {}
func (ClickRow) isEvent()        {}

// Effect is work the caller must carry out after an event
type Effect interface {
	isEffect()
}

// RequestScan asks the page for a catalog
type RequestScan struct{}

// RequestSpawn asks the page to spawn a block
type RequestSpawn struct {
	BlockType string
}

func (RequestScan) isEffect()  {}
func (RequestSpawn) isEffect() {}
