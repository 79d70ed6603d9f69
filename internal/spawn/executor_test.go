package spawn

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockpalette/internal/host"
	"blockpalette/internal/host/sim"
)

func newEngine(t *testing.T, opts sim.Options) *sim.Engine {
	t.Helper()
	e, err := sim.New(nil, opts)
	require.NoError(t, err)
	return e
}

func TestSpawn_CentersWithoutJitter(t *testing.T) {
	engine := newEngine(t, sim.Options{})
	x := NewExecutor(engine, WithJitter(0))

	p, err := x.Spawn("controls_if")
	require.NoError(t, err)
	// 800x600 viewport, 120x60 block
	assert.Equal(t, Placement{BlockType: "controls_if", X: 340, Y: 270}, p)

	blocks := engine.Workspace().Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, 340.0, blocks[0].X)
	assert.Equal(t, 270.0, blocks[0].Y)
	assert.True(t, blocks[0].Selected)
	assert.Equal(t, 1, engine.ChaffHidden())
	assert.Empty(t, engine.Alerts())
}

func TestSpawn_UsesVisibleViewport(t *testing.T) {
	engine := newEngine(t, sim.Options{Viewport: host.Metrics{ViewLeft: 1000, ViewTop: -200, ViewWidth: 400, ViewHeight: 200}})
	x := NewExecutor(engine, WithJitter(0))

	p, err := x.Spawn("text")
	require.NoError(t, err)
	assert.Equal(t, 1150.0, p.X)
	assert.Equal(t, -120.0, p.Y)
}

func TestSpawn_JitterBounds(t *testing.T) {
	engine := newEngine(t, sim.Options{})
	x := NewExecutor(engine, WithRand(rand.New(rand.NewPCG(1, 2))))

	// 100x40 block centered in 800x600
	const baseX, baseY = 350.0, 280.0
	distinct := make(map[float64]bool)
	for i := 0; i < 200; i++ {
		p, err := x.Spawn("math_number")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.X, baseX-DefaultJitter)
		assert.Less(t, p.X, baseX+DefaultJitter)
		assert.GreaterOrEqual(t, p.Y, baseY-DefaultJitter)
		assert.Less(t, p.Y, baseY+DefaultJitter)
		distinct[p.X] = true
	}
	assert.Greater(t, len(distinct), 100, "repeated spawns should not stack")

	selected := 0
	for _, b := range engine.Workspace().Blocks() {
		if b.Selected {
			selected++
		}
	}
	assert.Equal(t, 1, selected, "only the newest block is selected")
}

func TestSpawn_SeededRandIsDeterministic(t *testing.T) {
	first := NewExecutor(newEngine(t, sim.Options{}), WithRand(rand.New(rand.NewPCG(7, 7))))
	second := NewExecutor(newEngine(t, sim.Options{}), WithRand(rand.New(rand.NewPCG(7, 7))))

	a, err := first.Spawn("text")
	require.NoError(t, err)
	b, err := second.Spawn("text")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSpawn_NegativeJitterIgnored(t *testing.T) {
	x := NewExecutor(newEngine(t, sim.Options{}), WithJitter(-5))
	assert.Equal(t, DefaultJitter, x.jitter)
}

func TestSpawn_Failures(t *testing.T) {
	t.Run("UnknownType", func(t *testing.T) {
		engine := newEngine(t, sim.Options{})
		x := NewExecutor(engine)

		_, err := x.Spawn("no_such_block")
		assert.ErrorIs(t, err, host.ErrUnknownBlockType)
		assert.Equal(t, []string{FailureMessage}, engine.Alerts())
		assert.Empty(t, engine.Workspace().Blocks())
		assert.Zero(t, engine.ChaffHidden())
	})

	t.Run("NoWorkspace", func(t *testing.T) {
		engine := newEngine(t, sim.Options{BootDelay: time.Hour})
		x := NewExecutor(engine)

		_, err := x.Spawn("text")
		assert.ErrorIs(t, err, host.ErrNoWorkspace)
		assert.Equal(t, []string{FailureMessage}, engine.Alerts())
	})
}

// panickyEngine crashes whenever the main workspace is touched
type panickyEngine struct {
	*sim.Engine
}

func (panickyEngine) MainDocument() (host.Document, bool) {
	panic("workspace renderer crashed")
}

func TestSpawn_HostPanicBecomesError(t *testing.T) {
	engine := newEngine(t, sim.Options{})
	x := NewExecutor(panickyEngine{engine})

	var err error
	require.NotPanics(t, func() {
		_, err = x.Spawn("text")
	})
	assert.ErrorContains(t, err, "workspace renderer crashed")
	assert.Equal(t, []string{FailureMessage}, engine.Alerts())
}
