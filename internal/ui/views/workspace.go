package views

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	toolbarTitle = "Block Workspace"
	buttonGap    = "  "
)

// ToolbarButtonX is the column where the search button starts
func ToolbarButtonX() int {
	return lipgloss.Width(toolbarTitle) + lipgloss.Width(buttonGap)
}

// ToolbarButtonText is the unstyled button caption
func ToolbarButtonText(hotkey string) string {
	return "[⌕ Search blocks " + hotkey + "]"
}

// RenderToolbar draws the title and the search button. The button is dimmed
// until the catalog has been loaded.
func RenderToolbar(hotkey string, ready bool, s *Styles) string {
	button := s.ButtonIdle
	if ready {
		button = s.ButtonReady
	}
	return s.Title.Render(toolbarTitle) + buttonGap + button.Render(ToolbarButtonText(hotkey))
}

// RenderAlert draws a blocking notification
func RenderAlert(message string, s *Styles) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		message,
		"",
		s.Dim.Render("press any key"),
	)
	return s.Alert.Render(body)
}
