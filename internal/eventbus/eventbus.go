package eventbus

import (
	"runtime/debug"
	"sync"

	"blockpalette/internal/domain"
	"blockpalette/internal/logging"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventMessagePosted  = domain.EventMessagePosted
	EventHostReady      = domain.EventHostReady
	EventScanCompleted  = domain.EventScanCompleted
	EventBlockSpawned   = domain.EventBlockSpawned
	EventAlertRaised    = domain.EventAlertRaised
	EventToolboxChanged = domain.EventToolboxChanged
)

// Re-export domain event types
type MessagePostedEvent = domain.MessagePostedEvent
type HostReadyEvent = domain.HostReadyEvent
type ScanCompletedEvent = domain.ScanCompletedEvent
type BlockSpawnedEvent = domain.BlockSpawnedEvent
type AlertRaisedEvent = domain.AlertRaisedEvent
type ToolboxChangedEvent = domain.ToolboxChangedEvent

// EventHandler is a function that handles domain events.
// Handlers run on the dispatcher goroutine and must not block.
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	log := logging.NewLogger("eventbus")

	// Frames are too frequent to be interesting at debug level
	if event.Type() != EventMessagePosted {
		log.Debugf("Publishing event %s", event.Type())
	}

	select {
	case <-b.quit:
		log.Debugf("Bus closed, dropping event: %s", event.Type())
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		log.Warnf("Event bus channel full, dropping event: %s", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Events still queued are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch delivers events to subscribers in publish order
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			// Copy so handlers may unsubscribe while we iterate
			subsCopy := make([]subscription, len(subs))
			copy(subsCopy, subs)
			b.mu.RUnlock()

			for _, s := range subsCopy {
				b.deliver(s.handler, event)
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			logging.NewLogger("eventbus").Errorf("Event handler panic for %s: %v\nStack: %s", event.Type(), r, debug.Stack())
		}
	}()
	h(event)
}
