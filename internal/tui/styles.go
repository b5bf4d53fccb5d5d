package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})

	// Red is up on mainland exchanges.
	gainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	tagStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTagStyle = tagStyle.Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	modeStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeMode     = modeStyle.Bold(true).Foreground(lipgloss.Color("11"))

	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	errorBoxStyle = boxStyle.BorderForeground(lipgloss.Color("9"))
	focusBoxStyle = boxStyle.BorderForeground(lipgloss.Color("6"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

func signed(v float64, text string) string {
	switch {
	case v > 0:
		return gainStyle.Render(text)
	case v < 0:
		return lossStyle.Render(text)
	}
	return text
}
