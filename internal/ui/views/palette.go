package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"blockpalette/internal/domain"
)

// Lines of the palette that are not result rows: border, header, two
// dividers, footer, border
const PaletteChrome = 6

// RowsOffset is the distance from the palette's top edge to its first row
const RowsOffset = 3

// PaletteView is everything needed to draw the palette
type PaletteView struct {
	Inner     int    // width inside the border
	Input     string // rendered text input
	Rows      []domain.CatalogItem
	Offset    int // first visible row
	Visible   int // number of rows shown
	Selected  int
	Indicator string // replaces the rows when non-empty
	Loading   bool
	Hints     string
	Status    string
	Ready     bool
}

// RenderPalette draws the modal. Its height is always Visible + PaletteChrome,
// or 1 + PaletteChrome when an indicator is shown.
func RenderPalette(v PaletteView, s *Styles) string {
	var lines []string

	header := s.SearchIcon.Render("⌕") + " " + v.Input
	esc := s.Kbd.Render("ESC")
	lines = append(lines, fit(spread(header, esc, v.Inner), v.Inner))
	lines = append(lines, s.Divider.Render(strings.Repeat("─", v.Inner)))

	if v.Indicator != "" {
		style := s.NoResult
		if v.Loading {
			style = s.Loading
		}
		lines = append(lines, fit(" "+style.Render(v.Indicator), v.Inner))
	} else {
		end := min(v.Offset+v.Visible, len(v.Rows))
		for i := v.Offset; i < end; i++ {
			lines = append(lines, renderRow(v.Rows[i], i == v.Selected, v.Inner, s))
		}
	}

	lines = append(lines, s.Divider.Render(strings.Repeat("─", v.Inner)))
	statusStyle := s.Status
	if v.Ready {
		statusStyle = s.StatusReady
	}
	lines = append(lines, fit(spread(v.Hints, statusStyle.Render(v.Status), v.Inner), v.Inner))

	return s.Modal.Render(strings.Join(lines, "\n"))
}

func renderRow(item domain.CatalogItem, selected bool, inner int, s *Styles) string {
	labelW := inner * 2 / 5
	idW := inner / 3

	label := s.ItemLabel.Render(ansi.Truncate(item.Label, labelW, "…"))
	id := s.ItemID.Render(ansi.Truncate(item.ID, idW, "…"))
	left := " " + pad(label, labelW) + " " + id
	right := s.ItemCategory.Render(item.Category) + " "

	row := fit(spread(left, right, inner), inner)
	if selected {
		return s.Selected.Render(row)
	}
	return row
}

// spread places left and right at the two ends of a line of the given width
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// fit truncates or pads s to exactly width cells
func fit(s string, width int) string {
	return pad(ansi.Truncate(s, width, ""), width)
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
