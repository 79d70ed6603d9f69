package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockpalette/internal/domain"
)

var rows = []domain.CatalogItem{
	{ID: "math_add", Label: "+ ", Category: "Math"},
	{ID: "logic_not", Label: "not", Category: "Logic"},
	{ID: "text_join", Label: "create text with a label far too long for its column", Category: "Text"},
}

func TestRenderPalette_Geometry(t *testing.T) {
	s := NewStyles()
	v := PaletteView{Inner: 50, Input: "ma", Rows: rows, Visible: 2, Offset: 1, Selected: 1, Status: "3 blocks ready", Ready: true}

	out := RenderPalette(v, s)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, v.Visible+PaletteChrome)
	for _, l := range lines {
		assert.Equal(t, v.Inner+2, lipgloss.Width(l), "every line spans the modal width: %q", l)
	}

	assert.Contains(t, lines[1], "ESC")
	assert.Contains(t, lines[RowsOffset], "logic_not")
	assert.Contains(t, lines[RowsOffset+1], "…", "long labels are truncated")
	assert.NotContains(t, out, "math_add", "rows before the offset are hidden")
	assert.Contains(t, lines[len(lines)-2], "3 blocks ready")
}

func TestRenderPalette_Indicator(t *testing.T) {
	s := NewStyles()
	out := RenderPalette(PaletteView{Inner: 40, Rows: rows, Visible: 3, Indicator: `"zzz" not found`, Status: "3 blocks ready"}, s)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 1+PaletteChrome)
	assert.Contains(t, lines[RowsOffset], `"zzz" not found`)
	assert.NotContains(t, out, "logic_not")
}

func TestOverlay(t *testing.T) {
	s := NewStyles()
	base := "line0\nline1\nline2\nline3"
	popup := "AB\nCD"

	out := strings.Split(Overlay(base, popup, 3, 1, 5, s), "\n")
	require.Len(t, out, 5)
	assert.Equal(t, "line0", stripANSI(out[0]))
	assert.Equal(t, "   AB", out[1])
	assert.Equal(t, "   CD", out[2])
	assert.Equal(t, "line3", stripANSI(out[3]))
	assert.Equal(t, "", out[4])
}

func TestToolbar(t *testing.T) {
	s := NewStyles()
	bar := stripANSI(RenderToolbar("ctrl+p", false, s))
	start := strings.Index(bar, "[")
	require.GreaterOrEqual(t, start, 0)
	assert.Equal(t, ToolbarButtonX(), lipgloss.Width(bar[:start]))
	assert.Equal(t, ToolbarButtonText("ctrl+p"), bar[start:])
}

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
