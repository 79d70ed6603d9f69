package catalog

import (
	"context"
	"time"

	"blockpalette/internal/host"
)

const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultSettleDelay  = 1500 * time.Millisecond
)

// Probe reports whether the host is ready
type Probe func() bool

// HostProbe is ready once the engine is loaded and the toolbox element exists
func HostProbe(engine host.Engine) Probe {
	return func() bool {
		return engine.Present() && engine.ElementByID(host.ToolboxID) != nil
	}
}

// Gate resolves once the host is ready and has had time to settle.
// There is no timeout: the host may take arbitrarily long to start.
type Gate struct {
	done chan struct{}
}

// NewGate starts polling probe every pollInterval. Once the probe passes the
// gate waits settleDelay more, because the host keeps mutating its page for
// a while after it first looks ready.
func NewGate(ctx context.Context, probe Probe, pollInterval, settleDelay time.Duration) *Gate {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	g := &Gate{done: make(chan struct{})}
	go g.run(ctx, probe, pollInterval, settleDelay)
	return g
}

// Done is closed once the host is ready and settled. It stays open forever
// if ctx is cancelled first.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

func (g *Gate) run(ctx context.Context, probe Probe, pollInterval, settleDelay time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for !probe() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}

	if settleDelay > 0 {
		settle := time.NewTimer(settleDelay)
		defer settle.Stop()
		select {
		case <-ctx.Done():
			return
		case <-settle.C:
		}
	}
	close(g.done)
}
