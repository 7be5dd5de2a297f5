package render

import "github.com/charmbracelet/lipgloss"

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  lipgloss.TerminalColor = ac("240", "243")
	colorAccent lipgloss.TerminalColor = ac("27", "62")
	colorDone   lipgloss.TerminalColor = ac("28", "42")
	colorWarn   lipgloss.TerminalColor = ac("166", "214")
	colorLow    lipgloss.TerminalColor = ac("160", "203")
	colorSelBg  lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
)

// Styles holds every style the dashboard text uses.
type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Muted    lipgloss.Style
	Done     lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Bar      lipgloss.Style
	Unread   lipgloss.Style
	Low      lipgloss.Style
	Moderate lipgloss.Style
	Great    lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Heading:  lipgloss.NewStyle().Bold(true).MarginTop(1),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Done:     lipgloss.NewStyle().Foreground(colorDone),
		Today:    lipgloss.NewStyle().Underline(true).Bold(true),
		Selected: lipgloss.NewStyle().Reverse(true).Background(colorSelBg),
		Bar:      lipgloss.NewStyle().Foreground(colorAccent),
		Unread:   lipgloss.NewStyle().Bold(true),
		Low:      lipgloss.NewStyle().Foreground(colorLow),
		Moderate: lipgloss.NewStyle().Foreground(colorWarn),
		Great:    lipgloss.NewStyle().Foreground(colorDone),
		Help:     lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}

// PlainStyles renders no attributes at all; used for piped output.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Title: s, Heading: s.MarginTop(1), Muted: s, Done: s, Today: s, Selected: s,
		Bar: s, Unread: s, Low: s, Moderate: s, Great: s, Help: s.MarginTop(1),
	}
}
