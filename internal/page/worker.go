// Package page runs the privileged side of the palette: it owns the host,
// answers scan requests with catalogs and executes spawn requests.
package page

import (
	"context"
	"time"

	"blockpalette/internal/bridge"
	"blockpalette/internal/catalog"
	"blockpalette/internal/eventbus"
	"blockpalette/internal/host"
	"blockpalette/internal/logging"
	"blockpalette/internal/spawn"
)

// Options tune the readiness gate
type Options struct {
	PollInterval time.Duration
	SettleDelay  time.Duration
}

// Worker serves bridge requests against one host. All host access happens on
// the goroutine running Run.
type Worker struct {
	bus       eventbus.EventBus
	engine    host.Engine
	endpoint  *bridge.PageEndpoint
	extractor *catalog.Extractor
	executor  *spawn.Executor
	opts      Options
}

// NewWorker wires a worker to the bus. The executor may be nil, in which case
// a default one is created.
func NewWorker(bus eventbus.EventBus, engine host.Engine, executor *spawn.Executor, opts Options) *Worker {
	if executor == nil {
		executor = spawn.NewExecutor(engine)
	}
	return &Worker{
		bus:       bus,
		engine:    engine,
		endpoint:  bridge.NewPageEndpoint(bus),
		extractor: catalog.NewExtractor(engine),
		executor:  executor,
		opts:      opts,
	}
}

// Run processes requests until ctx is cancelled. Once the host is ready it
// scans on its own, then once more for every scan request that arrived while
// waiting. Scan requests are never merged: each one gets its own scan.
func (w *Worker) Run(ctx context.Context) error {
	log := logging.NewLogger("page")
	defer w.endpoint.Close()

	changes := make(chan struct{}, 1)
	unsubscribe := w.bus.Subscribe(eventbus.EventToolboxChanged, func(e eventbus.DomainEvent) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	gate := catalog.NewGate(ctx, catalog.HostProbe(w.engine), w.opts.PollInterval, w.opts.SettleDelay)
	gateDone := gate.Done()
	ready := false
	pending := 0

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-gateDone:
			gateDone = nil
			ready = true
			log.Info("Host ready")
			w.bus.Publish(eventbus.HostReadyEvent{})
			w.scan()
			for ; pending > 0; pending-- {
				w.scan()
			}

		case req, ok := <-w.endpoint.Requests():
			if !ok {
				return nil
			}
			switch r := req.(type) {
			case bridge.ScanRequest:
				if ready {
					w.scan()
				} else {
					pending++
					log.Debugf("Scan requested before host is ready (%d queued)", pending)
				}
			case bridge.SpawnRequest:
				w.spawn(r.BlockType)
			}

		case <-changes:
			if ready {
				w.scan()
			}
		}
	}
}

// scan posts a catalog, or nothing at all when extraction fails
func (w *Worker) scan() {
	log := logging.NewLogger("page")

	res, err := w.extractor.Extract()
	if err != nil {
		log.Warnf("Scan failed, no catalog sent: %v", err)
		return
	}
	if err := w.endpoint.Post(bridge.CatalogReady{Blocks: res.Catalog}); err != nil {
		log.Errorf("Failed to post catalog: %v", err)
		return
	}
	w.bus.Publish(eventbus.ScanCompletedEvent{Blocks: len(res.Catalog), Fallbacks: res.Fallbacks})
}

func (w *Worker) spawn(blockType string) {
	p, err := w.executor.Spawn(blockType)
	if err != nil {
		return
	}
	w.bus.Publish(eventbus.BlockSpawnedEvent{BlockType: p.BlockType, X: p.X, Y: p.Y})
}
