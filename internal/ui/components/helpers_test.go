package components

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/tui"
)

type stubDriver struct{ kind db.DriverType }

func (d stubDriver) Connect(context.Context, db.ConnectParams) error { return nil }
func (d stubDriver) Close() error                                    { return nil }
func (d stubDriver) Ping(context.Context) error                      { return nil }
func (d stubDriver) Type() db.DriverType                             { return d.kind }

func (d stubDriver) Query(context.Context, string, ...any) (*db.QueryResult, error) {
	return &db.QueryResult{}, nil
}

func connected(t *testing.T, kind db.DriverType) event.ConnectionEstablished {
	h := db.NewHandle(stubDriver{kind: kind}, "test", 1, 0)
	t.Cleanup(func() { _ = h.Release() })
	return event.ConnectionEstablished{Handle: h}
}

func typed(s string) tui.Event {
	return tui.Event{Kind: tui.KeyEvent, Key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}}
}

func key(k tea.KeyType) tui.Event {
	return tui.Event{Kind: tui.KeyEvent, Key: tea.KeyMsg{Type: k}}
}

// stubClipboard captures yanked text for the duration of a test.
func stubClipboard(t *testing.T) *string {
	var got string
	prev := copyText
	copyText = func(s string) error { got = s; return nil }
	t.Cleanup(func() { copyText = prev })
	return &got
}

func tablesResult(rows ...[]string) event.QueryResult {
	return event.QueryResult{
		Tag:    db.ListTablesTag(),
		Result: &db.QueryResult{Columns: []string{"table_schema", "table_name"}, Rows: rows, IsSelect: true, RowCount: len(rows)},
	}
}
