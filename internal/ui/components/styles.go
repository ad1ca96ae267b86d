package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/layout"
)

// Styles is the palette every pane draws with, built from the theme.
type Styles struct {
	theme config.Theme

	Border        lipgloss.Style
	FocusedBorder lipgloss.Style
	PaneTitle     lipgloss.Style
	Item          lipgloss.Style
	Selected      lipgloss.Style
	Faint         lipgloss.Style
	Info          lipgloss.Style
	Error         lipgloss.Style
	Header        lipgloss.Style
	Cell          lipgloss.Style
	CursorCell    lipgloss.Style
	CursorRow     lipgloss.Style
	Popup         lipgloss.Style
	Banner        lipgloss.Style
}

// NewStyles builds the styles for a theme.
func NewStyles(theme config.Theme) Styles {
	text := lipgloss.Color(theme.TextPrimary)
	secondary := lipgloss.Color(theme.TextSecondary)
	faint := lipgloss.Color(theme.TextFaint)
	accent := lipgloss.Color(theme.Accent)
	highlight := lipgloss.Color(theme.Highlight)
	bg := lipgloss.Color(theme.BgPrimary)
	bgAlt := lipgloss.Color(theme.BgSecondary)

	return Styles{
		theme: theme,

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(faint),
		FocusedBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		PaneTitle: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		Item: lipgloss.NewStyle().
			Foreground(text),
		Selected: lipgloss.NewStyle().
			Foreground(bg).
			Background(accent).
			Bold(true),
		Faint: lipgloss.NewStyle().
			Foreground(faint).
			Italic(true),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Success)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Error)).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true),
		Cell: lipgloss.NewStyle().
			Foreground(text),
		CursorCell: lipgloss.NewStyle().
			Foreground(bg).
			Background(accent).
			Bold(true),
		CursorRow: lipgloss.NewStyle().
			Foreground(text).
			Background(bgAlt),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Banner: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
	}
}

// ValueStyle colors a cell by what it looks like.
func (s Styles) ValueStyle(val string) lipgloss.Style {
	if val == "" || strings.EqualFold(val, "NULL") {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.TextFaint)).Italic(true)
	}
	if _, err := fmt.Sscanf(val, "%f", new(float64)); err == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.TextSecondary))
	}
	lower := strings.ToLower(val)
	if lower == "true" || lower == "false" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.Warning))
	}
	return s.Cell
}

// Pane draws a bordered box exactly filling area with a title line and
// as many body lines as fit.
func (s Styles) Pane(title string, body []string, focused bool, area layout.Rect) string {
	box := s.Border
	if focused {
		box = s.FocusedBorder
	}
	innerW := max(area.W-2, 0)
	innerH := max(area.H-2, 0)

	lines := make([]string, 0, innerH)
	if innerH > 0 {
		lines = append(lines, s.PaneTitle.Render(ansi.Truncate(title, innerW, "…")))
	}
	for _, line := range body {
		if len(lines) >= innerH {
			break
		}
		lines = append(lines, ansi.Truncate(line, innerW, "…"))
	}
	return box.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
}
