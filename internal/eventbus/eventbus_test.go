package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu     sync.Mutex
	events []DomainEvent
}

func (c *collector) handle(e DomainEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) snapshot() []DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]DomainEvent(nil), c.events...)
}

func (c *collector) waitFor(t *testing.T, n int) []DomainEvent {
	t.Helper()
	require.Eventually(t, func() bool { return len(c.snapshot()) >= n }, time.Second, 5*time.Millisecond)
	return c.snapshot()
}

func TestBus_DeliversInPublishOrder(t *testing.T) {
	b := New()
	defer b.Close()

	c := &collector{}
	b.Subscribe(EventBlockSpawned, c.handle)

	for i := 0; i < 50; i++ {
		b.Publish(BlockSpawnedEvent{BlockType: "b", X: float64(i)})
	}

	events := c.waitFor(t, 50)
	for i, e := range events {
		assert.Equal(t, float64(i), e.(BlockSpawnedEvent).X)
	}
}

func TestBus_OnlyMatchingType(t *testing.T) {
	b := New()
	defer b.Close()

	alerts := &collector{}
	ready := &collector{}
	b.Subscribe(EventAlertRaised, alerts.handle)
	b.Subscribe(EventHostReady, ready.handle)

	b.Publish(AlertRaisedEvent{Message: "boom"})
	b.Publish(HostReadyEvent{})

	assert.Equal(t, []DomainEvent{AlertRaisedEvent{Message: "boom"}}, alerts.waitFor(t, 1))
	assert.Equal(t, []DomainEvent{HostReadyEvent{}}, ready.waitFor(t, 1))
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	first := &collector{}
	second := &collector{}
	unsubscribe := b.Subscribe(EventHostReady, first.handle)
	b.Subscribe(EventHostReady, second.handle)

	b.Publish(HostReadyEvent{})
	second.waitFor(t, 1)

	unsubscribe()
	unsubscribe() // idempotent

	b.Publish(HostReadyEvent{})
	second.waitFor(t, 2)
	assert.Len(t, first.snapshot(), 1)
}

func TestBus_HandlerPanicDoesNotStopDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	c := &collector{}
	b.Subscribe(EventAlertRaised, func(DomainEvent) { panic("handler failure") })
	b.Subscribe(EventAlertRaised, c.handle)

	b.Publish(AlertRaisedEvent{Message: "one"})
	b.Publish(AlertRaisedEvent{Message: "two"})

	assert.Len(t, c.waitFor(t, 2), 2)
}

func TestBus_PublishAfterCloseIsDropped(t *testing.T) {
	b := New()
	c := &collector{}
	b.Subscribe(EventHostReady, c.handle)
	b.Close()
	b.Close()

	assert.NotPanics(t, func() { b.Publish(HostReadyEvent{}) })
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, c.snapshot())
}
