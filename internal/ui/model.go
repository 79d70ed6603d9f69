package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"blockpalette/internal/bridge"
	"blockpalette/internal/eventbus"
	"blockpalette/internal/logging"
	"blockpalette/internal/palette"
	"blockpalette/internal/ui/views"
)

const (
	maxModalWidth = 72
	minModalWidth = 30
	maxListRows   = 12
	tickInterval  = 250 * time.Millisecond
)

// Poster sends requests to the page worker
type Poster interface {
	Post(req bridge.Request) error
}

// Canvas draws the host page underneath the palette
type Canvas interface {
	Render(width, height int) string
}

// Options configure the UI model
type Options struct {
	Hotkeys   []string
	ScanRetry time.Duration
	Mouse     bool
}

// Model is the bubbletea model of the palette and the page it floats over
type Model struct {
	palette *palette.State
	poster  Poster
	canvas  Canvas
	keys    keyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model
	styles  *views.Styles
	list    listViewport
	mouse   bool
	now     func() time.Time

	width  int
	height int
	alert  string // blocking host notification
	status string // last page activity shown under the toolbar
}

// NewModel creates a new UI model
func NewModel(poster Poster, canvas Canvas, opts Options) *Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "..."
	ti.CharLimit = 128

	m := &Model{
		palette: palette.New(palette.WithScanRetry(opts.ScanRetry)),
		poster:  poster,
		canvas:  canvas,
		keys:    newKeyMap(opts.Hotkeys),
		help:    help.New(),
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:  views.NewStyles(),
		mouse:   opts.Mouse,
		now:     time.Now,
		width:   80,
		height:  24,
	}
	m.list.Height = m.maxRows()
	return m
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.spinner.Tick)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, m.sync()

	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		// The spinner only runs until the catalog arrives
		if m.palette.Ready() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ResponseMsg:
		if ready, ok := msg.Response.(bridge.CatalogReady); ok {
			logging.NewLogger("ui").Debugf("Catalog received with %d blocks", len(ready.Blocks))
			return m, m.apply(palette.CatalogReceived{Catalog: ready.Blocks})
		}
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch event := e.(type) {
	case eventbus.AlertRaisedEvent:
		m.alert = event.Message
	case eventbus.BlockSpawnedEvent:
		m.status = fmt.Sprintf("Spawned %s at (%.0f, %.0f)", event.BlockType, event.X, event.Y)
	case eventbus.HostReadyEvent:
		m.status = "Editor loaded"
	case eventbus.ScanCompletedEvent:
		m.status = fmt.Sprintf("Scanned %d blocks", event.Blocks)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if m.alert != "" {
		m.alert = ""
		return nil
	}
	// The hotkey wins over whatever the input would do with it
	if key.Matches(msg, m.keys.Toggle) {
		return m.apply(palette.Toggle{At: m.now()})
	}
	if !m.palette.IsOpen() {
		if msg.String() == "q" {
			return tea.Quit
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		return m.apply(palette.Close{})
	case key.Matches(msg, m.keys.Up):
		return m.apply(palette.MoveUp{})
	case key.Matches(msg, m.keys.Down):
		return m.apply(palette.MoveDown{})
	case key.Matches(msg, m.keys.Commit):
		return m.apply(palette.Commit{})
	}

	if !m.palette.InputEnabled() {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.palette.Query() {
		return tea.Batch(cmd, m.apply(palette.QueryChanged{Query: m.input.Value()}))
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.mouse {
		return nil
	}
	leftClick := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft

	if m.alert != "" {
		if leftClick {
			m.alert = ""
		}
		return nil
	}

	if !m.palette.IsOpen() {
		if leftClick && m.onToolbarButton(msg.X, msg.Y) {
			return m.apply(palette.Open{At: m.now()})
		}
		return nil
	}

	g := m.geometry()
	row, onRow := m.rowAt(g, msg.X, msg.Y)
	switch {
	case msg.Action == tea.MouseActionMotion:
		if onRow {
			return m.apply(palette.Hover{Row: row})
		}
	case leftClick:
		if onRow {
			return m.apply(palette.ClickRow{Row: row})
		}
		if !g.contains(msg.X, msg.Y) {
			return m.apply(palette.Close{})
		}
	}
	return nil
}

// apply runs an event through the palette and carries out its effects
func (m *Model) apply(ev palette.Event) tea.Cmd {
	log := logging.NewLogger("ui")

	for _, effect := range m.palette.Apply(ev) {
		var req bridge.Request
		switch e := effect.(type) {
		case palette.RequestScan:
			req = bridge.ScanRequest{}
		case palette.RequestSpawn:
			req = bridge.SpawnRequest{BlockType: e.BlockType}
			m.status = "Spawning " + e.BlockType + "..."
		default:
			continue
		}
		if err := m.poster.Post(req); err != nil {
			log.Errorf("Failed to post %s: %v", req.MessageType(), err)
		}
	}
	return m.sync()
}

// sync brings the input and list window in line with the palette state
func (m *Model) sync() tea.Cmd {
	m.list.Height = m.maxRows()
	m.list.clamp(m.palette.Selected(), len(m.palette.Results()))

	if m.palette.InputEnabled() {
		m.input.Placeholder = "Search blocks..."
	}
	m.input.Width = max(m.innerWidth()-12, 1)

	if m.palette.IsOpen() && m.palette.InputEnabled() {
		if !m.input.Focused() {
			return m.input.Focus()
		}
		return nil
	}
	m.input.Blur()
	return nil
}

// State exposes the palette state, mainly for tests
func (m *Model) State() *palette.State {
	return m.palette
}

// Alert returns the pending blocking notification, if any
func (m *Model) Alert() string {
	return m.alert
}

// View renders the page and any overlay on top of it
func (m *Model) View() string {
	base := m.renderPage()

	switch {
	case m.alert != "":
		box := views.RenderAlert(m.alert, m.styles)
		x := max((m.width-lipgloss.Width(box))/2, 0)
		y := max((m.height-lipgloss.Height(box))/2, 0)
		return views.Overlay(base, box, x, y, m.height, m.styles)
	case m.palette.IsOpen():
		g := m.geometry()
		return views.Overlay(base, m.renderPalette(), g.x, g.y, m.height, m.styles)
	default:
		return base
	}
}

func (m *Model) renderPage() string {
	toolbar := views.RenderToolbar(m.keys.Toggle.Help().Key, m.palette.Ready(), m.styles)
	status := m.styles.StatusSuccess.Render(m.status)
	canvas := ""
	if m.canvas != nil {
		canvas = m.canvas.Render(m.width, max(m.height-3, 0))
	}
	return lipgloss.JoinVertical(lipgloss.Left, toolbar, status, "", canvas)
}

func (m *Model) renderPalette() string {
	v := views.PaletteView{
		Inner:    m.innerWidth(),
		Input:    m.input.View(),
		Rows:     m.palette.Results(),
		Offset:   m.list.Offset,
		Selected: m.palette.Selected(),
		Hints:    m.help.ShortHelpView(m.keys.ShortHelp()),
		Status:   m.palette.StatusText(),
		Ready:    m.palette.Ready(),
	}
	v.Visible = m.list.visible(len(v.Rows))

	switch {
	case !m.palette.Ready():
		v.Indicator = m.spinner.View() + " Scanning..."
		v.Loading = true
	case m.palette.NotFound():
		v.Indicator = m.palette.NotFoundText()
	}
	return views.RenderPalette(v, m.styles)
}

// geometry is the palette's position on screen
type geometry struct {
	x, y, w, h int
	rowsTop    int
	rows       int
}

func (g geometry) contains(x, y int) bool {
	return x >= g.x && x < g.x+g.w && y >= g.y && y < g.y+g.h
}

func (m *Model) geometry() geometry {
	rows := 1
	if m.palette.Ready() && !m.palette.NotFound() {
		rows = m.list.visible(len(m.palette.Results()))
	}
	w := m.innerWidth() + 2
	h := rows + views.PaletteChrome
	x := max((m.width-w)/2, 0)
	y := max((m.height-h)/2, 0)
	return geometry{x: x, y: y, w: w, h: h, rowsTop: y + views.RowsOffset, rows: rows}
}

// rowAt maps a screen cell to a result row
func (m *Model) rowAt(g geometry, x, y int) (int, bool) {
	if !m.palette.Ready() || m.palette.NotFound() {
		return 0, false
	}
	if x <= g.x || x >= g.x+g.w-1 || y < g.rowsTop || y >= g.rowsTop+g.rows {
		return 0, false
	}
	return m.list.Offset + (y - g.rowsTop), true
}

func (m *Model) onToolbarButton(x, y int) bool {
	start := views.ToolbarButtonX()
	end := start + lipgloss.Width(views.ToolbarButtonText(m.keys.Toggle.Help().Key))
	return y == 0 && x >= start && x < end
}

func (m *Model) innerWidth() int {
	w := maxModalWidth
	if m.width-4 < w {
		w = max(m.width-4, minModalWidth)
	}
	return w - 2
}

func (m *Model) maxRows() int {
	return max(3, min(maxListRows, m.height-10))
}
