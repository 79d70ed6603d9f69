// Package spawn places blocks chosen in the palette into the host workspace.
package spawn

import (
	"fmt"
	"math/rand/v2"

	"blockpalette/internal/host"
	"blockpalette/internal/logging"
)

// DefaultJitter is the largest offset applied on each axis
const DefaultJitter = 20.0

// FailureMessage is shown to the user when a block cannot be spawned
const FailureMessage = "Error spawning block."

// Placement is where a spawned block ended up
type Placement struct {
	BlockType string
	X, Y      float64
}

// Executor instantiates blocks in the host's main document
type Executor struct {
	engine host.Engine
	jitter float64
	rng    *rand.Rand
}

// Option customises an Executor
type Option func(*Executor)

// WithJitter sets the jitter magnitude; 0 places blocks exactly at the center
func WithJitter(j float64) Option {
	return func(e *Executor) {
		if j >= 0 {
			e.jitter = j
		}
	}
}

// WithRand sets the random source used for jitter
func WithRand(rng *rand.Rand) Option {
	return func(e *Executor) {
		e.rng = rng
	}
}

// NewExecutor creates an executor for the given host
func NewExecutor(engine host.Engine, opts ...Option) *Executor {
	e := &Executor{
		engine: engine,
		jitter: DefaultJitter,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Spawn creates one block centered in the visible viewport, offset by a small
// random jitter so repeated spawns do not stack. On failure the user gets the
// host's blocking alert and the error is returned.
func (e *Executor) Spawn(blockType string) (Placement, error) {
	p, err := e.spawn(blockType)
	if err != nil {
		logging.NewLogger("spawn").Warnf("Spawning %s failed: %v", blockType, err)
		e.engine.Alert(FailureMessage)
		return Placement{}, err
	}
	return p, nil
}

func (e *Executor) spawn(blockType string) (p Placement, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = Placement{}, fmt.Errorf("host panic while spawning %s: %v", blockType, r)
		}
	}()

	doc, ok := e.engine.MainDocument()
	if !ok {
		return Placement{}, host.ErrNoWorkspace
	}

	block, err := doc.NewBlock(blockType)
	if err != nil {
		return Placement{}, fmt.Errorf("failed to create %s: %w", blockType, err)
	}

	cx, cy := doc.Metrics().Center()
	dx, dy := e.offset(), e.offset()
	w, h := block.Size()
	x := cx - w/2 + dx
	y := cy - h/2 + dy

	block.MoveBy(x, y)
	block.Select()
	e.engine.HideChaff()

	return Placement{BlockType: blockType, X: x, Y: y}, nil
}

// offset draws uniformly from [-jitter, jitter)
func (e *Executor) offset() float64 {
	return (e.rng.Float64() - 0.5) * 2 * e.jitter
}
