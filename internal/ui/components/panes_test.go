package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/logging"
	"github.com/nhath/lazydb/internal/tui"
	"github.com/nhath/lazydb/internal/ui/component"
)

func userResult() event.QueryResult {
	return event.QueryResult{
		Tag: db.UserTag(),
		Result: &db.QueryResult{
			Columns:  []string{"id", "name"},
			Rows:     [][]string{{"1", "ada"}, {"2", "grace"}},
			IsSelect: true,
			RowCount: 2,
		},
	}
}

func TestResultsTableCursor(t *testing.T) {
	rt := NewResultsTable()
	_, err := rt.HandleAppEvent(userResult())
	require.NoError(t, err)
	require.NotNil(t, rt.Result())

	_, _ = rt.Update(event.ChangeMode{Mode: event.ModeExploreResults})
	_, _ = rt.Update(event.ChangeMode{Mode: event.ModeExploreResults})
	_, _ = rt.Update(event.NavDown{})
	_, _ = rt.Update(event.NavRight{})
	_, _ = rt.Update(event.NavRight{}) // clamped

	follow, err := rt.Update(event.MakeSelection{})
	require.NoError(t, err)
	assert.Equal(t, event.SelectCell{Text: "grace"}, follow)

	follow, err = rt.Update(event.ExpandRow{})
	require.NoError(t, err)
	assert.Equal(t, event.SelectRow{Columns: []string{"id", "name"}, Row: []string{"2", "grace"}}, follow)

	got := stubClipboard(t)
	_, err = rt.Update(event.Yank{})
	require.NoError(t, err)
	assert.Equal(t, "grace", *got)
}

func TestResultsTableIgnoresSystemResults(t *testing.T) {
	rt := NewResultsTable()
	_, _ = rt.HandleAppEvent(tablesResult([]string{"public", "users"}))
	assert.Nil(t, rt.Result())

	res := userResult()
	res.Tag = db.InitialTableTag(db.TableRef{Name: "users"})
	_, _ = rt.HandleAppEvent(res)
	assert.NotNil(t, rt.Result())
}

func TestStructureResultSwitchesMode(t *testing.T) {
	st := NewStructureTable()
	follow, err := st.HandleAppEvent(event.QueryResult{
		Tag:    db.TableStructureTag(db.TableRef{Name: "users"}),
		Result: &db.QueryResult{Columns: []string{"column_name", "data_type"}, Rows: [][]string{{"id", "integer"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, event.ChangeMode{Mode: event.ModeExploreStructure}, follow)

	follow, _ = st.HandleAppEvent(userResult())
	assert.Nil(t, follow)
}

func TestMessagesClearRules(t *testing.T) {
	m := NewMessages()
	_, _ = m.HandleAppEvent(event.Errorf("boom"))
	sev, text := m.Current()
	assert.Equal(t, event.SeverityError, sev)
	assert.Equal(t, "boom", text)

	_, _ = m.Update(event.ExecuteQuery{Request: db.QueryRequest{Tag: db.ListTablesTag()}})
	_, text = m.Current()
	assert.Equal(t, "boom", text, "system queries keep the message")

	_, _ = m.Update(event.ExecuteQuery{Request: db.NewUserQuery("select 1")})
	_, text = m.Current()
	assert.Empty(t, text)

	_, _ = m.Update(event.Error{Text: "bad key"})
	_, text = m.Current()
	assert.Equal(t, "bad key", text)

	_, _ = m.Update(event.OpenConnection{Name: "local"})
	_, text = m.Current()
	assert.Empty(t, text)
}

func TestEditorRunsQuery(t *testing.T) {
	e := NewEditor()
	follow, _ := e.HandleEvent(typed("select 1"))
	assert.Nil(t, follow)
	assert.Empty(t, e.Value(), "unfocused editor ignores keys")

	_, _ = e.Update(event.ChangeMode{Mode: event.ModeEditQuery})
	assert.True(t, e.CapturingText())
	_, _ = e.HandleEvent(typed("select 1"))
	_, _ = e.HandleEvent(tui.Event{Kind: tui.KeyEvent, Key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true}})
	assert.Equal(t, "select 1", e.Value())

	follow, err := e.HandleEvent(key(tea.KeyCtrlR))
	require.NoError(t, err)
	assert.Equal(t, event.ExecuteQuery{Request: db.NewUserQuery("select 1")}, follow)

	_, _ = e.Update(event.ChangeMode{Mode: event.ModeExploreTables})
	assert.False(t, e.CapturingText())
}

func TestEditorReceivesPreviewStatement(t *testing.T) {
	e := NewEditor()
	req, err := db.SystemQuery(db.InitialTableTag(db.TableRef{Name: "users"}), db.SQLite)
	require.NoError(t, err)
	_, _ = e.Update(event.ExecuteQuery{Request: req})
	assert.Equal(t, `SELECT * FROM "users" LIMIT 1000;`, e.Value())

	_, _ = e.Update(event.ExecuteQuery{Request: db.QueryRequest{Tag: db.ListTablesTag(), Statement: "x"}})
	assert.Equal(t, `SELECT * FROM "users" LIMIT 1000;`, e.Value())
}

func TestEditorPreviewKeepsDraft(t *testing.T) {
	e := NewEditor()
	_, _ = e.Update(event.ChangeMode{Mode: event.ModeEditQuery})
	_, _ = e.HandleEvent(typed("select count(*) from orders"))

	req, err := db.SystemQuery(db.InitialTableTag(db.TableRef{Name: "users"}), db.SQLite)
	require.NoError(t, err)
	_, _ = e.Update(event.ExecuteQuery{Request: req})
	assert.Equal(t, "select count(*) from orders\n"+`SELECT * FROM "users" LIMIT 1000;`, e.Value())
}

func TestEditorEmptyRunIsIgnored(t *testing.T) {
	e := NewEditor()
	_, _ = e.Update(event.ChangeMode{Mode: event.ModeEditQuery})
	follow, err := e.HandleEvent(key(tea.KeyCtrlR))
	require.NoError(t, err)
	assert.Nil(t, follow)
}

func TestDetailPopup(t *testing.T) {
	p := NewDetailPopup()
	assert.False(t, p.Active())

	_, _ = p.Update(event.SelectRow{Columns: []string{"id", "name"}, Row: []string{"7", "linus"}})
	require.True(t, p.Active())
	assert.Equal(t, "id    7\nname  linus", p.Content())

	f := tui.NewFrame(80, 24)
	require.NoError(t, p.DrawOverlay(f, f.Area()))
	assert.Contains(t, ansi.Strip(f.String()), "linus")

	_, _ = p.Update(event.ChangeMode{Mode: event.ModeEditQuery})
	assert.False(t, p.Active())

	_, _ = p.Update(event.SelectCell{Text: "x"})
	_, _ = p.Update(event.Clear{})
	assert.False(t, p.Active())
}

func TestConnectionMenu(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Connections = map[string]config.Connection{
		"b": {Name: "b", Type: "sqlite", Database: "/tmp/b.db"},
		"a": {Name: "a", Type: "postgres", Host: "h", Port: 5432, User: "u", Database: "d"},
	}
	m := NewConnectionMenu()
	require.NoError(t, m.RegisterConfig(cfg))

	follow, err := m.Update(event.MakeSelection{})
	require.NoError(t, err)
	assert.Equal(t, event.OpenConnection{Name: "a"}, follow)

	_, _ = m.Update(event.NavDown{})
	follow, _ = m.Update(event.MakeSelection{})
	assert.Equal(t, event.OpenConnection{Name: "b"}, follow)

	_, _ = m.Update(event.ChangeMode{Mode: event.ModeExploreTables})
	follow, _ = m.Update(event.MakeSelection{})
	assert.Nil(t, follow)
}

func TestEveryModeDraws(t *testing.T) {
	reg := component.NewRegistry(logging.Discard())
	RegisterAll(reg)
	require.Empty(t, reg.RegisterConfig(config.DefaultConfig()))
	reg.HandleAppEvent(userResult())
	reg.Update(event.Help{})
	reg.Update(event.SelectCell{Text: "hello"})

	for _, mode := range event.Modes() {
		for _, zoomed := range []bool{false, true} {
			f := tui.NewFrame(120, 40)
			failures := reg.Draw(f, layout.Plan(mode, zoomed, f.Area()))
			assert.Empty(t, failures, "%s zoomed=%v", mode, zoomed)
		}
	}
}
