package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title       lipgloss.Style
	AddressPill lipgloss.Style
	Section     lipgloss.Style
	Counter     lipgloss.Style
	Playing     lipgloss.Style
	MetaLabel   lipgloss.Style
	MetaValue   lipgloss.Style
	StateIdle   lipgloss.Style
	StateWarn   lipgloss.Style
	StateLoad   lipgloss.Style
	Banner      lipgloss.Style
	Unavailable lipgloss.Style

	CardTitle       lipgloss.Style
	CardTitleActive lipgloss.Style
	CardBody        lipgloss.Style
	Dot             lipgloss.Style
	DotActive       lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpBase := lipgloss.Color("#1e1e2e")

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		AddressPill: lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:     lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		Counter:     lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		Playing:     lipgloss.NewStyle().Foreground(cpGreen).Bold(true),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		Banner:      lipgloss.NewStyle().Bold(true).Foreground(cpBase).Background(cpPeach).Padding(0, 1),
		Unavailable: lipgloss.NewStyle().Bold(true).Foreground(cpRed),
		CardTitle:   lipgloss.NewStyle().Foreground(cpSubtext0),
		CardTitleActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(cpText),
		CardBody:  lipgloss.NewStyle().Foreground(cpSubtext1),
		Dot:       lipgloss.NewStyle().Foreground(cpOverlay1),
		DotActive: lipgloss.NewStyle().Foreground(cpMauve),
	}
}

// StyleCardTitle renders a story title; only the active card is emphasised.
func (t Theme) StyleCardTitle(active bool, title string) string {
	if title == "" {
		return title
	}
	if active {
		return t.CardTitleActive.Render(title)
	}
	return t.CardTitle.Render(title)
}
