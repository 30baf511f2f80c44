package main

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2D3748"))
	positiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#319795"))
	negativeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E53E3E"))
	restStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4299E1"))
	workStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#48BB78"))
	advanceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ED8936"))
	paymentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9F7AEA"))
	silentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

func Header(text string) string  { return headerStyle.Render(text) }
func Error(text string) string   { return negativeStyle.Render(text) }
func Silent(text string) string  { return silentStyle.Render(text) }
func Rest(text string) string    { return restStyle.Render(text) }
func Work(text string) string    { return workStyle.Render(text) }
func Advance(text string) string { return advanceStyle.Render(text) }
func Payment(text string) string { return paymentStyle.Render(text) }

// Balance renders teal when non-negative, red otherwise.
func Balance(text string, negative bool) string {
	if negative {
		return negativeStyle.Render(text)
	}
	return positiveStyle.Render(text)
}
