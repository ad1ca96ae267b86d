package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
)

// DetailPopup shows a full cell value or a whole row over the layout.
type DetailPopup struct {
	styles  Styles
	visible bool
	title   string
	content string
}

func NewDetailPopup() *DetailPopup {
	return &DetailPopup{styles: NewStyles(config.DefaultConfig().Theme)}
}

func (p *DetailPopup) RegisterConfig(cfg *config.Config) error {
	p.styles = NewStyles(cfg.Theme)
	return nil
}

func (p *DetailPopup) Active() bool { return p.visible }

// Content is the text the popup shows.
func (p *DetailPopup) Content() string { return p.content }

func (p *DetailPopup) Update(action event.Action) (event.Action, error) {
	switch a := action.(type) {
	case event.SelectCell:
		p.visible, p.title, p.content = true, "cell", a.Text
	case event.SelectRow:
		p.visible, p.title, p.content = true, "row", formatRow(a.Columns, a.Row)
	case event.Clear, event.ChangeMode:
		p.visible = false
	}
	return nil, nil
}

func formatRow(columns, row []string) string {
	width := 0
	for _, c := range columns {
		width = max(width, lipgloss.Width(c))
	}
	lines := make([]string, 0, len(columns))
	for i, c := range columns {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, c, val))
	}
	return strings.Join(lines, "\n")
}

// Draw is used when the popup is placed like a pane.
func (p *DetailPopup) Draw(f *tui.Frame, area layout.Rect) error {
	return p.DrawOverlay(f, area)
}

func (p *DetailPopup) DrawOverlay(f *tui.Frame, root layout.Rect) error {
	area := root.Centered(60, 60)
	if area.W < 4 || area.H < 3 {
		return nil
	}
	innerW, innerH := area.W-4, area.H-2 // border plus padding

	lines := []string{p.styles.Header.Render(p.title), ""}
	for _, line := range strings.Split(p.content, "\n") {
		lines = append(lines, ansi.Hardwrap(line, innerW, true))
	}
	body := strings.Split(strings.Join(lines, "\n"), "\n")
	if len(body) > innerH-1 {
		body = append(body[:max(innerH-2, 0)], "…")
	}
	body = append(body, p.styles.Faint.Render("esc to close"))

	box := p.styles.Popup.Width(innerW + 2).Height(innerH).Render(strings.Join(body, "\n"))
	return f.Render(area, box)
}
