package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary   = lipgloss.Color("#7C5CFF")
	colorFocus     = lipgloss.Color("#FF7A59")
	colorBreak     = lipgloss.Color("#3FC1A5")
	colorMuted     = lipgloss.Color("#6B6F80")
	colorSuccess   = lipgloss.Color("#4CCB7A")
	colorWarning   = lipgloss.Color("#F2B134")
	colorError     = lipgloss.Color("#E5484D")
	colorFg        = lipgloss.Color("#D4D8F0")
	colorSubtle    = lipgloss.Color("#3B3F58")
	colorHighlight = lipgloss.Color("#82AAFF")
)

var categoryColors = map[string]lipgloss.Color{
	"Academic": colorHighlight,
	"Health":   colorSuccess,
	"Sleep":    colorPrimary,
}

func categoryDot(category string) string {
	c, ok := categoryColors[category]
	if !ok {
		c = colorMuted
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Countdown
	clockIdleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Align(lipgloss.Center)

	clockWorkStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFocus).
			Align(lipgloss.Center)

	clockBreakStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBreak).
			Align(lipgloss.Center)

	clockPausedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWarning).
				Align(lipgloss.Center)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	statValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHighlight)

	quoteStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorSubtle).
			PaddingLeft(1)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)
