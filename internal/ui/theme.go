package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tasuku43/ghpick/internal/picker"
)

type Theme struct {
	Header   lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Number   lipgloss.Style
	Unread   lipgloss.Style
	Selected lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Header:   lipgloss.NewStyle().Bold(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Number:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Unread:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		Selected: lipgloss.NewStyle().Bold(true),
	}
}

// segment maps a picker row style onto the theme.
func (t Theme) segment(style picker.Style) (lipgloss.Style, bool) {
	switch style {
	case picker.StyleNumber:
		return t.Number, true
	case picker.StyleMuted:
		return t.Muted, true
	case picker.StyleUnread:
		return t.Unread, true
	case picker.StyleAccent:
		return t.Accent, true
	default:
		return lipgloss.Style{}, false
	}
}
