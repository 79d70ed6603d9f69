// Package sim is an in-process block editor used by the terminal front-end and tests.
package sim

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"blockpalette/internal/eventbus"
	"blockpalette/internal/host"
	"blockpalette/internal/logging"
)

// Options configure the simulated editor
type Options struct {
	ToolboxPath string        // "" uses the embedded toolbox
	BlocksPath  string        // "" uses the embedded block definitions
	BootDelay   time.Duration // time until the engine and toolbox appear
	Viewport    host.Metrics
}

// DefaultViewport is the visible area of a fresh main workspace
var DefaultViewport = host.Metrics{ViewLeft: 0, ViewTop: 0, ViewWidth: 800, ViewHeight: 600}

// Engine simulates the host editor
type Engine struct {
	mu      sync.Mutex
	bus     eventbus.EventBus
	opts    Options
	toolbox *host.Element
	defs    map[string]BlockDef
	started time.Time
	now     func() time.Time
	main    *Workspace
	chaff   int
	alerts  []string
}

// New loads the toolbox and block definitions. The engine reports itself
// present only once BootDelay has passed.
func New(bus eventbus.EventBus, opts Options) (*Engine, error) {
	toolbox, defs, err := loadSources(opts.ToolboxPath, opts.BlocksPath)
	if err != nil {
		return nil, err
	}
	if opts.Viewport == (host.Metrics{}) {
		opts.Viewport = DefaultViewport
	}

	e := &Engine{
		bus:     bus,
		opts:    opts,
		toolbox: toolbox,
		defs:    defs,
		now:     time.Now,
	}
	e.started = e.now()
	e.main = newWorkspace(&e.mu, e.defsLocked, false, opts.Viewport)
	return e, nil
}

// defsLocked must be called with e.mu held
func (e *Engine) defsLocked() map[string]BlockDef {
	return e.defs
}

func (e *Engine) booted() bool {
	return e.now().Sub(e.started) >= e.opts.BootDelay
}

// Present reports whether the engine has finished booting
func (e *Engine) Present() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.booted()
}

// ElementByID searches the page; the toolbox only exists after boot
func (e *Engine) ElementByID(id string) *host.Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.booted() {
		return nil
	}
	return e.toolbox.ElementByID(id)
}

// NewHeadlessDocument creates an invisible workspace
func (e *Engine) NewHeadlessDocument() (host.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.booted() {
		return nil, fmt.Errorf("engine not loaded")
	}
	return newWorkspace(&e.mu, e.defsLocked, true, host.Metrics{}), nil
}

// MainDocument returns the on-screen workspace once booted
func (e *Engine) MainDocument() (host.Document, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.booted() {
		return nil, false
	}
	return e.main, true
}

// HideChaff closes transient overlays. The simulation only counts calls.
func (e *Engine) HideChaff() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.chaff++
}

// Alert records the message and forwards it to whoever renders the page
func (e *Engine) Alert(message string) {
	e.mu.Lock()
	e.alerts = append(e.alerts, message)
	e.mu.Unlock()

	logging.NewLogger("sim").Infof("Alert: %s", message)
	if e.bus != nil {
		e.bus.Publish(eventbus.AlertRaisedEvent{Message: message})
	}
}

// Alerts returns every alert raised so far
func (e *Engine) Alerts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.alerts...)
}

// ChaffHidden returns how many times transient overlays were dismissed
func (e *Engine) ChaffHidden() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chaff
}

// Workspace returns the main workspace regardless of boot state
func (e *Engine) Workspace() *Workspace {
	return e.main
}

// Reload re-reads the toolbox and definition files
func (e *Engine) Reload() error {
	toolbox, defs, err := loadSources(e.opts.ToolboxPath, e.opts.BlocksPath)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.toolbox = toolbox
	e.defs = defs
	e.mu.Unlock()
	return nil
}

// Render draws the main workspace as plain text, one block per line,
// ordered top to bottom then left to right.
func (e *Engine) Render(width, height int) string {
	if !e.Present() {
		return "Loading editor..."
	}
	blocks := e.main.Blocks()
	if len(blocks) == 0 {
		return "Workspace is empty. Press ctrl+p to search blocks."
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Y != blocks[j].Y {
			return blocks[i].Y < blocks[j].Y
		}
		return blocks[i].X < blocks[j].X
	})

	var sb strings.Builder
	for i, b := range blocks {
		if height > 0 && i >= height {
			fmt.Fprintf(&sb, "... %d more", len(blocks)-i)
			break
		}
		marker := " "
		if b.Selected {
			marker = "▶"
		}
		line := fmt.Sprintf("%s %-28s %-24s (%4.0f, %4.0f)", marker, b.Label, b.Type, b.X, b.Y)
		if width > 0 && len([]rune(line)) > width {
			line = string([]rune(line)[:width])
		}
		sb.WriteString(line)
		if i < len(blocks)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
