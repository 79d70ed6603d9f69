package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventMessagePosted  EventType = "MessagePosted"
	EventHostReady      EventType = "HostReady"
	EventScanCompleted  EventType = "ScanCompleted"
	EventBlockSpawned   EventType = "BlockSpawned"
	EventAlertRaised    EventType = "AlertRaised"
	EventToolboxChanged EventType = "ToolboxChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// MessagePostedEvent carries one encoded bridge frame. It is broadcast to
// every subscriber; receivers decide from the payload whether it concerns them.
type MessagePostedEvent struct {
	Data []byte
}

func (e MessagePostedEvent) Type() EventType { return EventMessagePosted }

// HostReadyEvent is emitted once the host engine and toolbox exist and have settled
type HostReadyEvent struct{}

func (e HostReadyEvent) Type() EventType { return EventHostReady }

// ScanCompletedEvent is emitted after a successful catalog scan
type ScanCompletedEvent struct {
	Blocks    int
	Fallbacks int // items labelled by their raw identifier
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// BlockSpawnedEvent is emitted when a block lands in the main workspace
type BlockSpawnedEvent struct {
	BlockType string
	X, Y      float64
}

func (e BlockSpawnedEvent) Type() EventType { return EventBlockSpawned }

// AlertRaisedEvent is the host's blocking notification
type AlertRaisedEvent struct {
	Message string
}

func (e AlertRaisedEvent) Type() EventType { return EventAlertRaised }

// ToolboxChangedEvent is emitted when the host reloads its toolbox or block definitions
type ToolboxChangedEvent struct {
	Path string
}

func (e ToolboxChangedEvent) Type() EventType { return EventToolboxChanged }
