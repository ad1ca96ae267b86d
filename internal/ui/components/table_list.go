package components

import (
	"fmt"

	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
	"github.com/nhath/lazydb/internal/ui/component"
)

// TableList is the sidebar of tables. It asks for the table list when a
// connection comes up and turns a selection into a preview query.
type TableList struct {
	focus   component.Focus
	styles  Styles
	dialect db.DriverType

	tables []db.TableRef
	schema string // empty shows every schema
	shown  []db.TableRef
	list   filterList
}

func NewTableList() *TableList {
	return &TableList{
		focus:   component.Focus{ID: layout.TableList},
		styles:  NewStyles(config.DefaultConfig().Theme),
		dialect: db.Postgres,
		list:    newFilterList(),
	}
}

func (t *TableList) RegisterConfig(cfg *config.Config) error {
	t.styles = NewStyles(cfg.Theme)
	return nil
}

// Tables returns the tables currently listed, after the schema filter.
func (t *TableList) Tables() []db.TableRef { return t.shown }

func (t *TableList) CapturingText() bool { return t.focus.Focused() && t.list.Searching() }

func (t *TableList) HandleEvent(ev tui.Event) (event.Action, error) {
	if ev.Kind == tui.KeyEvent && t.CapturingText() {
		t.list.Type(ev.Key)
	}
	return nil, nil
}

func (t *TableList) HandleAppEvent(ev event.AppEvent) (event.Action, error) {
	switch ev := ev.(type) {
	case event.ConnectionEstablished:
		if ev.Handle == nil {
			return nil, nil
		}
		t.dialect = ev.Handle.Type()
		t.tables, t.schema = nil, ""
		t.apply()
		req, err := db.SystemQuery(db.ListTablesTag(), t.dialect)
		if err != nil {
			return nil, err
		}
		return event.ExecuteQuery{Request: req}, nil

	case event.QueryResult:
		if ev.Tag.Kind != db.TagListTables || ev.Result == nil {
			return nil, nil
		}
		t.tables = make([]db.TableRef, 0, len(ev.Result.Rows))
		for _, row := range ev.Result.Rows {
			if len(row) < 2 {
				continue
			}
			t.tables = append(t.tables, db.TableRef{Schema: row[0], Name: row[1]})
		}
		t.apply()
	}
	return nil, nil
}

func (t *TableList) apply() {
	t.shown = make([]db.TableRef, 0, len(t.tables))
	names := make([]string, 0, len(t.tables))
	for _, ref := range t.tables {
		if t.schema != "" && ref.Schema != t.schema {
			continue
		}
		t.shown = append(t.shown, ref)
		names = append(names, ref.Name)
	}
	t.list.SetItems(names)
}

func (t *TableList) selected() (db.TableRef, bool) {
	if _, ok := t.list.Selected(); !ok {
		return db.TableRef{}, false
	}
	return t.shown[t.list.visible[t.list.cursor]], true
}

func (t *TableList) Update(action event.Action) (event.Action, error) {
	t.focus.Observe(action)

	if cs, ok := action.(event.ChangeSchema); ok {
		t.schema = cs.Schema
		t.list.ClearSearch()
		t.apply()
		return event.ChangeMode{Mode: event.ModeExploreTables}, nil
	}
	if !t.focus.Focused() {
		return nil, nil
	}

	switch action.(type) {
	case event.NavUp:
		t.list.Up()
	case event.NavDown:
		t.list.Down()
	case event.Search:
		t.list.StartSearch()
	case event.Clear:
		t.list.ClearSearch()
	case event.MakeSelection:
		if t.list.Searching() {
			t.list.StopSearch()
			return nil, nil
		}
		return t.query(db.InitialTableTag)
	case event.ViewStructure:
		return t.query(db.TableStructureTag)
	case event.Yank:
		if ref, ok := t.selected(); ok {
			return nil, copyText(ref.Name)
		}
	}
	return nil, nil
}

func (t *TableList) query(tag func(db.TableRef) db.QueryTag) (event.Action, error) {
	ref, ok := t.selected()
	if !ok {
		return nil, nil
	}
	req, err := db.SystemQuery(tag(ref), t.dialect)
	if err != nil {
		return nil, err
	}
	return event.ExecuteQuery{Request: req}, nil
}

func (t *TableList) Draw(f *tui.Frame, area layout.Rect) error {
	title := "tables (alt+1)"
	if t.schema != "" {
		title = fmt.Sprintf("tables in %s (alt+1)", t.schema)
	}
	w, h := paneInner(area)
	body := t.list.Lines(t.styles, w, h, t.focus.Focused())
	return f.Render(area, t.styles.Pane(title, body, t.focus.Focused(), area))
}
