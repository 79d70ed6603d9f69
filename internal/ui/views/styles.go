package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Backdrop      lipgloss.Style
	Modal         lipgloss.Style
	Alert         lipgloss.Style
	SearchIcon    lipgloss.Style
	Kbd           lipgloss.Style
	Divider       lipgloss.Style
	ItemLabel     lipgloss.Style
	ItemID        lipgloss.Style
	ItemCategory  lipgloss.Style
	Selected      lipgloss.Style
	NoResult      lipgloss.Style
	Loading       lipgloss.Style
	Status        lipgloss.Style
	StatusReady   lipgloss.Style
	ButtonIdle    lipgloss.Style
	ButtonReady   lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Dim:      lipgloss.NewStyle().Faint(true),
		Backdrop: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 2),
		SearchIcon:    lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Kbd:           lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238")),
		Divider:       lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		ItemLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		ItemID:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		ItemCategory:  lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
		Selected:      lipgloss.NewStyle().Background(lipgloss.Color("57")),
		NoResult:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		Loading:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusReady:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		ButtonIdle:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ButtonReady:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
	}
}
