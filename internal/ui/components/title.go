package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
)

const banner = `██╗      █████╗ ███████╗██╗   ██╗██████╗ ██████╗
██║     ██╔══██╗╚══███╔╝╚██╗ ██╔╝██╔══██╗██╔══██╗
██║     ███████║  ███╔╝  ╚████╔╝ ██║  ██║██████╔╝
██║     ██╔══██║ ███╔╝    ╚██╔╝  ██║  ██║██╔══██╗
███████╗██║  ██║███████╗   ██║   ██████╔╝██████╔╝
╚══════╝╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═════╝ ╚═════╝`

// Title is the banner above the connection menu.
type Title struct {
	styles Styles
}

func NewTitle() *Title {
	return &Title{styles: NewStyles(config.DefaultConfig().Theme)}
}

func (t *Title) RegisterConfig(cfg *config.Config) error {
	t.styles = NewStyles(cfg.Theme)
	return nil
}

func (t *Title) Update(event.Action) (event.Action, error) { return nil, nil }

func (t *Title) Draw(f *tui.Frame, area layout.Rect) error {
	text := t.styles.Banner.Render(banner)
	if lipgloss.Width(text) > area.W || lipgloss.Height(text) > area.H {
		text = t.styles.Banner.Render("lazydb")
	}
	return f.Render(area, lipgloss.Place(area.W, area.H, lipgloss.Center, lipgloss.Center, text))
}
