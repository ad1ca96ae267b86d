package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/keymap"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
	"github.com/nhath/lazydb/internal/ui/icons"
)

// Messages shows the latest message: a status line, an error or help.
type Messages struct {
	styles   Styles
	severity event.Severity
	text     string
	help     bool
}

func NewMessages() *Messages {
	return &Messages{styles: NewStyles(config.DefaultConfig().Theme)}
}

func (m *Messages) RegisterConfig(cfg *config.Config) error {
	m.styles = NewStyles(cfg.Theme)
	return nil
}

// Current returns the message on display. Help is reported as empty text.
func (m *Messages) Current() (event.Severity, string) { return m.severity, m.text }

func (m *Messages) show(sev event.Severity, text string) {
	m.severity, m.text, m.help = sev, text, false
}

func (m *Messages) clear() { m.show(event.SeverityInfo, "") }

func (m *Messages) HandleAppEvent(ev event.AppEvent) (event.Action, error) {
	if msg, ok := ev.(event.UserMessage); ok {
		m.show(msg.Severity, msg.Text)
	}
	return nil, nil
}

func (m *Messages) Update(action event.Action) (event.Action, error) {
	switch a := action.(type) {
	case event.Error:
		m.show(event.SeverityError, a.Text)
	case event.Help:
		m.clear()
		m.help = true
	case event.OpenConnection:
		m.clear()
	case event.ExecuteQuery:
		if a.Request.Tag.IsUserFacing() {
			m.clear()
		}
	}
	return nil, nil
}

func (m *Messages) Draw(f *tui.Frame, area layout.Rect) error {
	var body []string
	switch {
	case m.help:
		body = m.helpLines()
	case m.text == "":
	case m.severity == event.SeverityError:
		body = strings.Split(m.styles.Error.Render(icons.Error+" "+m.text), "\n")
	default:
		body = strings.Split(m.styles.Info.Render(icons.Ok+" "+m.text), "\n")
	}
	return f.Render(area, m.styles.Pane("messages", body, false, area))
}

func (m *Messages) helpLines() []string {
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.theme.TextPrimary)).
		Background(lipgloss.Color(m.styles.theme.BgSecondary)).
		Padding(0, 1).
		Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.theme.TextSecondary))
	hint := func(key, desc string) string {
		return keyStyle.Render(key) + descStyle.Render(" "+desc)
	}

	var jumps []string
	for _, g := range keymap.GlobalShortcuts() {
		jumps = append(jumps, hint(g.Key, g.Mode.String()))
	}
	keys := []string{
		hint("enter", "select"),
		hint("s", "structure"),
		hint("v", "row"),
		hint("y", "yank"),
		hint("/", "search"),
		hint("z", "zoom"),
		hint("ctrl+r", "run"),
		hint("c", "connections"),
		hint("q", "quit"),
	}
	return []string{strings.Join(jumps, "  "), strings.Join(keys, "  ")}
}
