package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Confirm       lipgloss.Style
	ConfirmBox    lipgloss.Style
	Dim           lipgloss.Style
	Header        lipgloss.Style
	InfoBox       lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	HighlightBg   lipgloss.Style
	Stars         lipgloss.Style
	Input         lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Confirm:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		ConfirmBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("203")),
		Dim:    lipgloss.NewStyle().Faint(true),
		Header: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HighlightBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Stars:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("99")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

// GetLanguageColor returns the color used for a repository's primary language
func GetLanguageColor(language string) string {
	switch language {
	case "Go":
		return "45" // cyan
	case "Rust":
		return "173" // orange
	case "Python":
		return "33" // blue
	case "JavaScript", "TypeScript":
		return "221" // yellow
	case "Ruby":
		return "160" // red
	case "C", "C++":
		return "105"
	case "":
		return "241" // gray for repositories without code
	default:
		return "250"
	}
}
