package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"

	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
	"github.com/nhath/lazydb/internal/ui/component"
)

const runKey = "ctrl+r"

// Editor holds the query text. ctrl+r runs it.
type Editor struct {
	focus  component.Focus
	styles Styles
	input  textarea.Model
}

func NewEditor() *Editor {
	ta := textarea.New()
	ta.Placeholder = "SELECT * FROM ..."
	ta.Prompt = ""
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.Blur()

	return &Editor{
		focus:  component.Focus{ID: layout.Editor},
		styles: NewStyles(config.DefaultConfig().Theme),
		input:  ta,
	}
}

func (e *Editor) RegisterConfig(cfg *config.Config) error {
	e.styles = NewStyles(cfg.Theme)
	return nil
}

// Value is the current query text.
func (e *Editor) Value() string { return e.input.Value() }

func (e *Editor) CapturingText() bool { return e.focus.Focused() }

func (e *Editor) HandleEvent(ev tui.Event) (event.Action, error) {
	if ev.Kind != tui.KeyEvent || !e.focus.Focused() {
		return nil, nil
	}
	if ev.KeyString() == runKey {
		stmt := strings.TrimSpace(e.input.Value())
		if stmt == "" {
			return nil, nil
		}
		return event.ExecuteQuery{Request: db.NewUserQuery(stmt)}, nil
	}
	// alt chords are mode switches, never text
	if ev.Key.Alt {
		return nil, nil
	}
	e.input, _ = e.input.Update(ev.Key)
	return nil, nil
}

func (e *Editor) Update(action event.Action) (event.Action, error) {
	if e.focus.Observe(action) {
		if e.focus.Focused() {
			e.input.Focus()
		} else {
			e.input.Blur()
		}
	}

	if eq, ok := action.(event.ExecuteQuery); ok && eq.Request.Tag.Kind == db.TagInitialTable {
		e.insertStatement(eq.Request.Statement)
	}
	return nil, nil
}

// insertStatement appends stmt on its own line, keeping any draft.
func (e *Editor) insertStatement(stmt string) {
	cur := strings.TrimRight(e.input.Value(), "\n")
	if strings.TrimSpace(cur) == "" {
		e.input.SetValue(stmt)
		return
	}
	e.input.SetValue(cur + "\n" + stmt)
}

func (e *Editor) Draw(f *tui.Frame, area layout.Rect) error {
	focused := e.focus.Focused()
	w, h := paneInner(area)

	var body []string
	switch {
	case focused:
		e.input.SetWidth(w)
		e.input.SetHeight(max(h-1, 1))
		body = strings.Split(e.input.View(), "\n")
	case strings.TrimSpace(e.input.Value()) == "":
		body = []string{e.styles.Faint.Render("alt+2 to write a query, ctrl+r to run it")}
	default:
		body = strings.Split(highlightSQL(e.input.Value()), "\n")
	}
	return f.Render(area, e.styles.Pane("editor (alt+2)", body, focused, area))
}

func highlightSQL(src string) string {
	var b strings.Builder
	if err := quick.Highlight(&b, src, "sql", "terminal256", "nord"); err != nil {
		return src
	}
	return strings.TrimSuffix(b.String(), "\n")
}
