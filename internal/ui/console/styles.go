package console

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	passStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// paint renders single-line text with style when styling is enabled.
type paint bool

func (on paint) render(style lipgloss.Style, text string) string {
	if !on {
		return text
	}
	return style.Render(text)
}
