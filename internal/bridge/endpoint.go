package bridge

import (
	"errors"
	"sync"

	"blockpalette/internal/eventbus"
	"blockpalette/internal/logging"
)

const inboxSize = 256

// inbox is the receiving half shared by both endpoint kinds
type inbox[T Message] struct {
	name        string
	bus         eventbus.EventBus
	mu          sync.Mutex
	closed      bool
	ch          chan T
	unsubscribe func()
}

func newInbox[T Message](name string, bus eventbus.EventBus) *inbox[T] {
	in := &inbox[T]{
		name: name,
		bus:  bus,
		ch:   make(chan T, inboxSize),
	}
	in.unsubscribe = bus.Subscribe(eventbus.EventMessagePosted, in.receive)
	return in
}

func (in *inbox[T]) receive(e eventbus.DomainEvent) {
	event, ok := e.(eventbus.MessagePostedEvent)
	if !ok {
		return
	}
	log := logging.NewLogger("bridge")

	msg, err := Decode(event.Data)
	if err != nil {
		if !errors.Is(err, ErrUnknownType) {
			log.Warnf("%s: dropping malformed frame: %v", in.name, err)
		}
		return
	}
	typed, ok := msg.(T)
	if !ok {
		// Outbound traffic of this endpoint, or the other direction's
		return
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	select {
	case in.ch <- typed:
	default:
		log.Warnf("%s: inbox full, dropping %s", in.name, msg.MessageType())
	}
}

func (in *inbox[T]) close() {
	in.unsubscribe()
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.closed {
		in.closed = true
		close(in.ch)
	}
}

func post(bus eventbus.EventBus, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	bus.Publish(eventbus.MessagePostedEvent{Data: data})
	return nil
}

// UIEndpoint is the isolated side: it posts requests and receives responses
type UIEndpoint struct {
	bus eventbus.EventBus
	in  *inbox[Response]
}

// NewUIEndpoint attaches a UI endpoint to the bus
func NewUIEndpoint(bus eventbus.EventBus) *UIEndpoint {
	return &UIEndpoint{
		bus: bus,
		in:  newInbox[Response]("ui", bus),
	}
}

// Post broadcasts a request. It never waits for an answer.
func (e *UIEndpoint) Post(req Request) error {
	return post(e.bus, req)
}

// Responses yields responses in arrival order until Close
func (e *UIEndpoint) Responses() <-chan Response {
	return e.in.ch
}

// Close detaches the endpoint and closes Responses
func (e *UIEndpoint) Close() {
	e.in.close()
}

// PageEndpoint is the privileged side: it receives requests and posts responses
type PageEndpoint struct {
	bus eventbus.EventBus
	in  *inbox[Request]
}

// NewPageEndpoint attaches a page endpoint to the bus
func NewPageEndpoint(bus eventbus.EventBus) *PageEndpoint {
	return &PageEndpoint{
		bus: bus,
		in:  newInbox[Request]("page", bus),
	}
}

// Post broadcasts a response
func (e *PageEndpoint) Post(resp Response) error {
	return post(e.bus, resp)
}

// Requests yields requests in arrival order until Close
func (e *PageEndpoint) Requests() <-chan Request {
	return e.in.ch
}

// Close detaches the endpoint and closes Requests
func (e *PageEndpoint) Close() {
	e.in.close()
}
