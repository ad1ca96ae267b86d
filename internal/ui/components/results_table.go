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

// ResultsTable shows the result of the last user-facing query.
type ResultsTable struct {
	focus  component.Focus
	styles Styles
	grid   grid
	result *db.QueryResult
	tag    db.QueryTag
}

func NewResultsTable() *ResultsTable {
	return &ResultsTable{
		focus:  component.Focus{ID: layout.ResultsTable},
		styles: NewStyles(config.DefaultConfig().Theme),
	}
}

func (r *ResultsTable) RegisterConfig(cfg *config.Config) error {
	r.styles = NewStyles(cfg.Theme)
	return nil
}

// Result is the result on display, if any.
func (r *ResultsTable) Result() *db.QueryResult { return r.result }

func (r *ResultsTable) HandleAppEvent(ev event.AppEvent) (event.Action, error) {
	res, ok := ev.(event.QueryResult)
	if !ok || !res.Tag.IsUserFacing() || res.Result == nil {
		return nil, nil
	}
	r.result, r.tag = res.Result, res.Tag
	r.grid.Set(res.Result.Columns, res.Result.Rows)
	return nil, nil
}

func (r *ResultsTable) Update(action event.Action) (event.Action, error) {
	r.focus.Observe(action)
	if !r.focus.Focused() {
		return nil, nil
	}

	switch action.(type) {
	case event.NavUp:
		r.grid.Move(-1, 0)
	case event.NavDown:
		r.grid.Move(1, 0)
	case event.NavLeft:
		r.grid.Move(0, -1)
	case event.NavRight:
		r.grid.Move(0, 1)
	case event.MakeSelection:
		if cell, ok := r.grid.Cell(); ok {
			return event.SelectCell{Text: cell}, nil
		}
	case event.ExpandRow:
		if row, ok := r.grid.Row(); ok {
			return event.SelectRow{Columns: r.grid.columns, Row: row}, nil
		}
	case event.Yank:
		if cell, ok := r.grid.Cell(); ok {
			return nil, copyText(cell)
		}
	}
	return nil, nil
}

func (r *ResultsTable) Draw(f *tui.Frame, area layout.Rect) error {
	focused := r.focus.Focused()
	title := "results (alt+3)"
	var body []string
	switch {
	case r.result == nil:
		body = []string{r.styles.Faint.Render("run a query with ctrl+r or pick a table")}
	case !r.result.IsSelect:
		body = []string{r.styles.Info.Render(r.result.Summary())}
	default:
		title = fmt.Sprintf("results: %s, row %d/%d (alt+3)", r.tag, r.grid.row+1, len(r.result.Rows))
		if r.grid.Empty() {
			title = fmt.Sprintf("results: %s, no rows (alt+3)", r.tag)
		}
		w, h := paneInner(area)
		body = strings.Split(r.grid.View(r.styles, w, h-1, focused, true), "\n")
	}
	return f.Render(area, r.styles.Pane(title, body, focused, area))
}
