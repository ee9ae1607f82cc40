package tui

import "github.com/charmbracelet/lipgloss"

// --- Styles (defined once, reused) ---
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")). // bright white
			Background(lipgloss.Color("0")).  // black
			Padding(0, 2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("7")). // light gray
			Padding(0, 1)

	devBoxStyle = boxStyle.
			BorderForeground(lipgloss.Color("14")) // cyan

	highlightBoxStyle = boxStyle.
				BorderForeground(lipgloss.Color("11")) // yellow

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	columnHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")) // yellow

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // yellow

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")) // green

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")) // red

	unknownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // gray

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // yellow

	chartStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")) // cyan

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // gray

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // gray
)
