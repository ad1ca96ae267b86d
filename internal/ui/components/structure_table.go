package components

import (
	"fmt"
	"strings"

	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
	"github.com/nhath/lazydb/internal/ui/component"
)

// StructureTable lists the columns of one table.
type StructureTable struct {
	focus  component.Focus
	styles Styles
	grid   grid
	table  db.TableRef
}

func NewStructureTable() *StructureTable {
	return &StructureTable{
		focus:  component.Focus{ID: layout.StructureTable},
		styles: NewStyles(config.DefaultConfig().Theme),
	}
}

func (s *StructureTable) RegisterConfig(cfg *config.Config) error {
	s.styles = NewStyles(cfg.Theme)
	return nil
}

// HandleAppEvent takes structure results and brings the pane forward.
func (s *StructureTable) HandleAppEvent(ev event.AppEvent) (event.Action, error) {
	res, ok := ev.(event.QueryResult)
	if !ok || res.Tag.Kind != db.TagTableStructure || res.Result == nil {
		return nil, nil
	}
	s.table = res.Tag.Table
	s.grid.Set(res.Result.Columns, res.Result.Rows)
	return event.ChangeMode{Mode: event.ModeExploreStructure}, nil
}

func (s *StructureTable) Update(action event.Action) (event.Action, error) {
	s.focus.Observe(action)
	if !s.focus.Focused() {
		return nil, nil
	}

	switch action.(type) {
	case event.NavUp:
		s.grid.Move(-1, 0)
	case event.NavDown:
		s.grid.Move(1, 0)
	case event.NavLeft:
		s.grid.Move(0, -1)
	case event.NavRight:
		s.grid.Move(0, 1)
	case event.MakeSelection:
		if row, ok := s.grid.Row(); ok {
			return event.SelectRow{Columns: s.grid.columns, Row: row}, nil
		}
	case event.Yank:
		if row, ok := s.grid.Row(); ok && len(row) > 0 {
			return nil, copyText(row[0])
		}
	}
	return nil, nil
}

func (s *StructureTable) Draw(f *tui.Frame, area layout.Rect) error {
	focused := s.focus.Focused()
	if s.grid.columns == nil {
		body := []string{s.styles.Faint.Render("press s on a table to see its columns")}
		return f.Render(area, s.styles.Pane("structure (alt+4)", body, focused, area))
	}
	title := fmt.Sprintf("structure: %s (alt+4)", s.table)
	w, h := paneInner(area)
	body := strings.Split(s.grid.View(s.styles, w, h-1, focused, false), "\n")
	return f.Render(area, s.styles.Pane(title, body, focused, area))
}
