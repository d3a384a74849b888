package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/eringen/mdblog/theme"
)

// palette is the colour set of one theme.
type palette struct {
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Error   lipgloss.Color
}

var (
	lightPalette = palette{
		Primary: lipgloss.Color("#1F6FEB"),
		Text:    lipgloss.Color("#24292F"),
		Muted:   lipgloss.Color("#6E7781"),
		Accent:  lipgloss.Color("#8250DF"),
		Error:   lipgloss.Color("#CF222E"),
	}
	darkPalette = palette{
		Primary: lipgloss.Color("#58A6FF"),
		Text:    lipgloss.Color("#C9D1D9"),
		Muted:   lipgloss.Color("#8B949E"),
		Accent:  lipgloss.Color("#D2A8FF"),
		Error:   lipgloss.Color("#FF7B72"),
	}
)

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title     lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Tag       lipgloss.Style
	ActiveTag lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles returns the styles for a theme.
func NewStyles(t theme.Theme) Styles {
	p := lightPalette
	if t == theme.Dark {
		p = darkPalette
	}
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Normal:    lipgloss.NewStyle().Foreground(p.Text),
		Muted:     lipgloss.NewStyle().Foreground(p.Muted),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Tag:       lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		ActiveTag: lipgloss.NewStyle().Bold(true).Foreground(p.Primary).Underline(true).Padding(0, 1),
		Error:     lipgloss.NewStyle().Foreground(p.Error),
	}
}
