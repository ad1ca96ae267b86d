package components

import (
	"fmt"

	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
	"github.com/nhath/lazydb/internal/ui/component"
	"github.com/nhath/lazydb/internal/ui/icons"
)

// ConnectionMenu lists the configured connections. It is focused at start.
type ConnectionMenu struct {
	focus  component.Focus
	styles Styles
	names  []string
	path   string
	list   filterList
}

func NewConnectionMenu() *ConnectionMenu {
	m := &ConnectionMenu{
		focus:  component.Focus{ID: layout.ConnectionMenu},
		styles: NewStyles(config.DefaultConfig().Theme),
		list:   newFilterList(),
	}
	m.focus.Set(true)
	return m
}

func (m *ConnectionMenu) RegisterConfig(cfg *config.Config) error {
	m.styles = NewStyles(cfg.Theme)
	m.path = cfg.Path()
	m.names = cfg.ConnectionNames()

	items := make([]string, 0, len(m.names))
	for _, name := range m.names {
		conn, _ := cfg.Connection(name)
		icon := icons.Generic
		if t, err := db.ParseDriverType(conn.Type); err == nil {
			icon = icons.ForDriver(t)
		}
		items = append(items, fmt.Sprintf("%s %s  %s", icon, name, conn.Describe()))
	}
	m.list.SetItems(items)
	return nil
}

// Selected is the name of the connection under the cursor.
func (m *ConnectionMenu) Selected() (string, bool) {
	if _, ok := m.list.Selected(); !ok {
		return "", false
	}
	return m.names[m.list.visible[m.list.cursor]], true
}

func (m *ConnectionMenu) Update(action event.Action) (event.Action, error) {
	m.focus.Observe(action)
	if !m.focus.Focused() {
		return nil, nil
	}

	switch action.(type) {
	case event.NavUp:
		m.list.Up()
	case event.NavDown:
		m.list.Down()
	case event.MakeSelection:
		if name, ok := m.Selected(); ok {
			return event.OpenConnection{Name: name}, nil
		}
	}
	return nil, nil
}

func (m *ConnectionMenu) Draw(f *tui.Frame, area layout.Rect) error {
	focused := m.focus.Focused()
	var body []string
	if len(m.names) == 0 {
		body = []string{
			m.styles.Faint.Render("no connections configured"),
			m.styles.Faint.Render("add one to " + m.path),
			m.styles.Faint.Render("or run: lazydb connection add NAME URL"),
		}
	} else {
		w, h := paneInner(area)
		body = m.list.Lines(m.styles, w, h, focused)
	}
	return f.Render(area, m.styles.Pane("connections (enter to open)", body, focused, area))
}
