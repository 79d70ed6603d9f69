package ui

import (
	"time"

	"blockpalette/internal/bridge"
	"blockpalette/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// ResponseMsg wraps a bridge response for the UI
type ResponseMsg struct {
	Response bridge.Response
}

// tickMsg is sent on a timer so the host canvas is redrawn
type tickMsg time.Time
