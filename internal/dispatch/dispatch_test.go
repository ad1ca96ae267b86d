package dispatch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/lazydb/internal/bus"
	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/history"
	"github.com/nhath/lazydb/internal/logging"
)

type directory map[string]config.Connection

func (d directory) Connection(name string) (config.Connection, bool) {
	c, ok := d[name]
	return c, ok
}

type stubDriver struct {
	mu     sync.Mutex
	closed int
	fail   error
}

func (d *stubDriver) Connect(context.Context, db.ConnectParams) error { return nil }
func (d *stubDriver) Ping(context.Context) error                      { return nil }
func (d *stubDriver) Type() db.DriverType                             { return db.SQLite }

func (d *stubDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return nil
}

func (d *stubDriver) Closed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *stubDriver) Query(_ context.Context, stmt string, _ ...any) (*db.QueryResult, error) {
	if d.fail != nil {
		return nil, d.fail
	}
	return &db.QueryResult{Columns: []string{"q"}, Rows: [][]string{{stmt}}, IsSelect: true, RowCount: 1}, nil
}

func drain(q *bus.Queue[event.AppEvent]) []event.AppEvent {
	var out []event.AppEvent
	for {
		ev, ok := q.TryRecv()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func count[T event.AppEvent](evs []event.AppEvent) (n int) {
	for _, ev := range evs {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}

func errorMessages(evs []event.AppEvent) []string {
	var out []string
	for _, ev := range evs {
		if m, ok := ev.(event.UserMessage); ok && m.Severity == event.SeverityError {
			out = append(out, m.Text)
		}
	}
	return out
}

func TestOpenConnectionWithSQLite(t *testing.T) {
	q := bus.NewQueue[event.AppEvent]()
	d := New(Options{
		Directory: directory{"mem": {Name: "mem", Type: "sqlite", Database: ":memory:"}},
		Events:    q,
		Logger:    logging.Discard(),
	})

	require.NoError(t, d.OpenConnection(context.Background(), "mem"))
	d.Wait()

	evs := drain(q)
	assert.Equal(t, 1, count[event.ConnectionEstablished](evs))
	assert.Empty(t, errorMessages(evs))
	assert.EqualValues(t, 1, d.Spawned())

	for _, ev := range evs {
		if ce, ok := ev.(event.ConnectionEstablished); ok {
			assert.Equal(t, db.SQLite, ce.Handle.Type())
			assert.EqualValues(t, 1, ce.Handle.Generation())
			require.NoError(t, ce.Handle.Release())
		}
	}
}

func TestOpenUnknownConnection(t *testing.T) {
	q := bus.NewQueue[event.AppEvent]()
	d := New(Options{Directory: directory{}, Events: q, Logger: logging.Discard()})

	err := d.OpenConnection(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownConnection)
	assert.Zero(t, d.Spawned())
	assert.Equal(t, []string{`unknown connection "nope"`}, errorMessages(drain(q)))
}

func TestOpenConnectionFailure(t *testing.T) {
	q := bus.NewQueue[event.AppEvent]()
	d := New(Options{
		Directory: directory{"pg": {Name: "pg", Type: "postgres"}},
		Connect: func(context.Context, db.DriverType, db.ConnectParams) (db.Driver, error) {
			return nil, db.WrapConnectionError(errors.New("refused"))
		},
		Events: q,
		Logger: logging.Discard(),
	})
	require.NoError(t, d.OpenConnection(context.Background(), "pg"))
	d.Wait()

	evs := drain(q)
	assert.Zero(t, count[event.ConnectionEstablished](evs))
	assert.Equal(t, []string{"pg: connection failed: refused"}, errorMessages(evs))
}

func TestSupersededConnectionIsClosed(t *testing.T) {
	q := bus.NewQueue[event.AppEvent]()
	release := make(chan struct{})
	first, second := &stubDriver{}, &stubDriver{}
	var calls int
	var mu sync.Mutex

	d := New(Options{
		Directory: directory{"a": {Name: "a", Type: "sqlite", Database: "x.db"}},
		Connect: func(ctx context.Context, _ db.DriverType, _ db.ConnectParams) (db.Driver, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				<-release // finishes after the second attempt
				return first, nil
			}
			return second, nil
		},
		Events: q,
		Logger: logging.Discard(),
	})

	require.NoError(t, d.OpenConnection(context.Background(), "a"))
	require.NoError(t, d.OpenConnection(context.Background(), "a"))
	close(release)
	d.Wait()

	evs := drain(q)
	require.Equal(t, 1, count[event.ConnectionEstablished](evs))
	for _, ev := range evs {
		if ce, ok := ev.(event.ConnectionEstablished); ok {
			assert.EqualValues(t, 2, ce.Handle.Generation())
		}
	}
	assert.Equal(t, 1, first.Closed())
	assert.Equal(t, 0, second.Closed())
}

func TestExecuteQueryWithoutConnection(t *testing.T) {
	q := bus.NewQueue[event.AppEvent]()
	d := New(Options{Directory: directory{}, Events: q, Logger: logging.Discard()})

	require.NoError(t, d.ExecuteQuery(context.Background(), nil, db.NewUserQuery("select 1")))
	assert.Zero(t, d.Spawned())
	assert.Equal(t, []string{"no connection established"}, errorMessages(drain(q)))
}

func TestExecuteQueryRecordsUserQueries(t *testing.T) {
	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	q := bus.NewQueue[event.AppEvent]()
	d := New(Options{Directory: directory{}, History: store, Events: q, Logger: logging.Discard()})
	drv := &stubDriver{}
	h := db.NewHandle(drv, "local", 1, time.Second)

	ctx := context.Background()
	require.NoError(t, d.ExecuteQuery(ctx, h, db.NewUserQuery("select 1")))
	require.NoError(t, d.ExecuteQuery(ctx, h, db.QueryRequest{Tag: db.ListTablesTag(), Statement: "select tables"}))
	d.Wait()

	evs := drain(q)
	assert.Equal(t, 2, count[event.QueryResult](evs))
	assert.Empty(t, errorMessages(evs))

	entries, err := store.List(ctx, "local", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "system queries are not recorded")
	assert.Equal(t, "select 1", entries[0].Query)
	assert.Equal(t, history.StatusSuccess, entries[0].Status)

	// the dispatcher's clones are released; the caller still holds one
	assert.EqualValues(t, 1, h.Refs())
	require.NoError(t, h.Release())
	assert.Equal(t, 1, drv.Closed())
}

func TestExecuteQueryFailure(t *testing.T) {
	q := bus.NewQueue[event.AppEvent]()
	d := New(Options{Directory: directory{}, Events: q, Logger: logging.Discard()})
	h := db.NewHandle(&stubDriver{fail: db.WrapQueryError(errors.New("syntax error"))}, "local", 1, 0)
	defer h.Release()

	require.NoError(t, d.ExecuteQuery(context.Background(), h, db.NewUserQuery("selec 1")))
	d.Wait()

	evs := drain(q)
	assert.Zero(t, count[event.QueryResult](evs))
	assert.Equal(t, []string{"query failed: syntax error"}, errorMessages(evs))
}

func TestClosedQueueIsReported(t *testing.T) {
	q := bus.NewQueue[event.AppEvent]()
	q.Close()
	d := New(Options{Directory: directory{}, Events: q, Logger: logging.Discard()})
	assert.ErrorIs(t, d.ExecuteQuery(context.Background(), nil, db.NewUserQuery("x")), bus.ErrClosed)
}
