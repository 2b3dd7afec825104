package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color scheme for the chat display.
type Theme struct {
	User    lipgloss.Color
	Agent   lipgloss.Color
	Status  lipgloss.Color
	Label   lipgloss.Color
	Flagged lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Border  lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:    lipgloss.Color("#5FAFD7"), // light blue
	Agent:   lipgloss.Color("#00D787"), // green
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Label:   lipgloss.Color("#AFAFAF"), // light gray
	Flagged: lipgloss.Color("#FFAF00"), // amber
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Border:  lipgloss.Color("#3A3A3A"), // dark gray
}

// Style functions for dynamic theming
func (t Theme) roleStyle(user bool) lipgloss.Style {
	if user {
		return lipgloss.NewStyle().Foreground(t.User).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(t.Agent).Bold(true)
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Label).Bold(true)
}

func (t Theme) flaggedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Flagged).Italic(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) blockStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}
