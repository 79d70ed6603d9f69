package sim

import (
	"fmt"
	"strings"
	"sync"

	"blockpalette/internal/host"
)

// Workspace is a simulated document. The main workspace is shared between the
// page worker and the canvas renderer, so it is guarded by the engine lock.
type Workspace struct {
	mu       *sync.Mutex
	defs     func() map[string]BlockDef
	headless bool
	metrics  host.Metrics
	blocks   []*Block
	disposed bool
}

func newWorkspace(mu *sync.Mutex, defs func() map[string]BlockDef, headless bool, metrics host.Metrics) *Workspace {
	return &Workspace{
		mu:       mu,
		defs:     defs,
		headless: headless,
		metrics:  metrics,
	}
}

// NewBlock instantiates a block type at the origin
func (w *Workspace) NewBlock(blockType string) (host.Block, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		return nil, host.ErrDisposed
	}
	def, ok := w.defs()[blockType]
	if !ok {
		return nil, fmt.Errorf("%q: %w", blockType, host.ErrUnknownBlockType)
	}
	if def.WorkspaceOnly && w.headless {
		return nil, fmt.Errorf("block %q needs a rendered workspace", blockType)
	}

	b := &Block{ws: w, def: def}
	w.blocks = append(w.blocks, b)
	return b, nil
}

// Metrics returns the visible viewport
func (w *Workspace) Metrics() host.Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Dispose drops every block of the workspace
func (w *Workspace) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disposed = true
	w.blocks = nil
}

// Blocks returns a snapshot of the blocks currently in the workspace
func (w *Workspace) Blocks() []PlacedBlock {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]PlacedBlock, 0, len(w.blocks))
	for _, b := range w.blocks {
		out = append(out, PlacedBlock{
			Type:     b.def.Type,
			Label:    b.label(),
			X:        b.x,
			Y:        b.y,
			Selected: b.selected,
		})
	}
	return out
}

func (w *Workspace) remove(b *Block) {
	for i, other := range w.blocks {
		if other == b {
			w.blocks = append(w.blocks[:i:i], w.blocks[i+1:]...)
			return
		}
	}
}

// PlacedBlock is a read-only view of a block in a workspace
type PlacedBlock struct {
	Type     string
	Label    string
	X, Y     float64
	Selected bool
}

// Block is a simulated block instance
type Block struct {
	ws       *Workspace
	def      BlockDef
	x, y     float64
	selected bool
}

func (b *Block) Type() string { return b.def.Type }

// Inputs returns the input rows with their fields
func (b *Block) Inputs() []host.Input {
	inputs := make([]host.Input, 0, len(b.def.Inputs))
	for _, in := range b.def.Inputs {
		fields := make([]host.Field, 0, len(in.Fields))
		for _, f := range in.Fields {
			fields = append(fields, host.Field{Text: f.Text, Visible: !f.Hidden})
		}
		inputs = append(inputs, host.Input{Name: in.Name, Fields: fields})
	}
	return inputs
}

// String renders the block the way the editor does when it has nothing better
func (b *Block) String() string {
	if b.def.String != "" {
		return b.def.String
	}
	return b.def.Type
}

func (b *Block) Size() (float64, float64) {
	return b.def.Width, b.def.Height
}

func (b *Block) MoveBy(dx, dy float64) {
	b.ws.mu.Lock()
	defer b.ws.mu.Unlock()
	b.x += dx
	b.y += dy
}

// Select makes this block the only selected one in its workspace
func (b *Block) Select() {
	b.ws.mu.Lock()
	defer b.ws.mu.Unlock()
	for _, other := range b.ws.blocks {
		other.selected = false
	}
	b.selected = true
}

func (b *Block) Dispose() {
	b.ws.mu.Lock()
	defer b.ws.mu.Unlock()
	b.ws.remove(b)
}

func (b *Block) label() string {
	var parts []string
	for _, in := range b.def.Inputs {
		for _, f := range in.Fields {
			if !f.Hidden && strings.TrimSpace(f.Text) != "" {
				parts = append(parts, f.Text)
			}
		}
	}
	if len(parts) == 0 {
		return b.String()
	}
	return strings.Join(parts, " ")
}
