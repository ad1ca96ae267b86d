package components

import (
	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
	"github.com/nhath/lazydb/internal/ui/component"
)

// SchemaList shows the distinct schemas of the table list. Selecting one
// narrows the table list to it.
type SchemaList struct {
	focus  component.Focus
	styles Styles
	list   filterList
}

func NewSchemaList() *SchemaList {
	return &SchemaList{
		focus:  component.Focus{ID: layout.SchemaList},
		styles: NewStyles(config.DefaultConfig().Theme),
		list:   newFilterList(),
	}
}

func (s *SchemaList) RegisterConfig(cfg *config.Config) error {
	s.styles = NewStyles(cfg.Theme)
	return nil
}

// Schemas returns every known schema in first-seen order.
func (s *SchemaList) Schemas() []string { return s.list.items }

func (s *SchemaList) CapturingText() bool { return s.focus.Focused() && s.list.Searching() }

func (s *SchemaList) HandleEvent(ev tui.Event) (event.Action, error) {
	if ev.Kind == tui.KeyEvent && s.CapturingText() {
		s.list.Type(ev.Key)
	}
	return nil, nil
}

func (s *SchemaList) HandleAppEvent(ev event.AppEvent) (event.Action, error) {
	switch ev := ev.(type) {
	case event.ConnectionEstablished:
		s.list.ClearSearch()
		s.list.SetItems(nil)
	case event.QueryResult:
		if ev.Tag.Kind != db.TagListTables || ev.Result == nil {
			return nil, nil
		}
		seen := map[string]bool{}
		var schemas []string
		for _, row := range ev.Result.Rows {
			if len(row) == 0 || seen[row[0]] {
				continue
			}
			seen[row[0]] = true
			schemas = append(schemas, row[0])
		}
		s.list.SetItems(schemas)
	}
	return nil, nil
}

func (s *SchemaList) Update(action event.Action) (event.Action, error) {
	s.focus.Observe(action)
	if !s.focus.Focused() {
		return nil, nil
	}

	switch action.(type) {
	case event.NavUp:
		s.list.Up()
	case event.NavDown:
		s.list.Down()
	case event.Search:
		s.list.StartSearch()
	case event.Clear:
		s.list.ClearSearch()
	case event.MakeSelection:
		if s.list.Searching() {
			s.list.StopSearch()
			return nil, nil
		}
		if schema, ok := s.list.Selected(); ok {
			return event.ChangeSchema{Schema: schema}, nil
		}
	case event.Yank:
		if schema, ok := s.list.Selected(); ok {
			return nil, copyText(schema)
		}
	}
	return nil, nil
}

func (s *SchemaList) Draw(f *tui.Frame, area layout.Rect) error {
	w, h := paneInner(area)
	body := s.list.Lines(s.styles, w, h, s.focus.Focused())
	return f.Render(area, s.styles.Pane("schemas (alt+0)", body, s.focus.Focused(), area))
}
