// Package dispatch runs connection and query commands in the background
// and reports their outcome as app events.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nhath/lazydb/internal/bus"
	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/history"
)

// ErrUnknownConnection is returned for a name missing from the directory.
var ErrUnknownConnection = errors.New("unknown connection")

// Directory looks up connection settings by name. *config.Config is one.
type Directory interface {
	Connection(name string) (config.Connection, bool)
}

// Connector opens a driver. db.Open is the real one.
type Connector func(ctx context.Context, driverType db.DriverType, params db.ConnectParams) (db.Driver, error)

// Recorder keeps the log of user-run queries. *history.Store is one.
type Recorder interface {
	Add(ctx context.Context, entry *history.Entry) error
}

// Options wire a Dispatcher. Directory and Events are required.
type Options struct {
	Directory    Directory
	Secrets      config.Secrets
	Connect      Connector
	History      Recorder
	Events       bus.Sender[event.AppEvent]
	Logger       *slog.Logger
	QueryTimeout time.Duration
}

// Dispatcher turns OpenConnection and ExecuteQuery actions into background
// tasks. Tasks only ever send app events; they never touch UI state.
type Dispatcher struct {
	dir     Directory
	secrets config.Secrets
	connect Connector
	history Recorder
	events  bus.Sender[event.AppEvent]
	logger  *slog.Logger
	timeout time.Duration

	wg      sync.WaitGroup
	spawned atomic.Int64

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		dir:     opts.Directory,
		secrets: opts.Secrets,
		connect: opts.Connect,
		history: opts.History,
		events:  opts.Events,
		logger:  opts.Logger,
		timeout: opts.QueryTimeout,
	}
	if d.connect == nil {
		d.connect = db.Open
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Spawned is the number of background tasks started so far.
func (d *Dispatcher) Spawned() int64 { return d.spawned.Load() }

// Wait blocks until every background task has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) spawn(task func()) {
	d.spawned.Add(1)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		task()
	}()
}

func (d *Dispatcher) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation == gen
}

// OpenConnection connects to the named connection in the background. A
// newer request cancels the attempt in flight; an attempt that completes
// after being superseded closes its pool instead of reporting it.
//
// The returned error is ErrUnknownConnection (after the user has been
// told) or a failed send on the event queue.
func (d *Dispatcher) OpenConnection(ctx context.Context, name string) error {
	conn, ok := d.dir.Connection(name)
	if !ok {
		if err := d.events.Send(event.Errorf("unknown connection %q", name)); err != nil {
			return err
		}
		return fmt.Errorf("%w: %q", ErrUnknownConnection, name)
	}

	d.mu.Lock()
	d.generation++
	gen := d.generation
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	if err := d.events.Send(event.Infof("Connecting to %s...", name)); err != nil {
		cancel()
		return err
	}

	d.spawn(func() {
		defer cancel()
		logger := d.logger.With("connection", name, "generation", gen)

		driverType, params, err := conn.Params(d.secrets)
		if err == nil {
			var driver db.Driver
			driver, err = d.connect(ctx, driverType, params)
			if err == nil {
				d.established(logger, db.NewHandle(driver, name, gen, d.timeout))
				return
			}
		}

		if !d.current(gen) {
			logger.Debug("superseded connection attempt failed", "error", err)
			return
		}
		logger.Error("connect failed", "error", err)
		_ = d.events.Send(event.Errorf("%s: %v", name, err))
	})
	return nil
}

func (d *Dispatcher) established(logger *slog.Logger, h *db.Handle) {
	if !d.current(h.Generation()) {
		logger.Info("closing superseded connection")
		if err := h.Release(); err != nil {
			logger.Warn("close superseded connection", "error", err)
		}
		return
	}
	if err := d.events.Send(event.ConnectionEstablished{Handle: h}); err != nil {
		_ = h.Release()
		return
	}
	logger.Info("connected")
	_ = d.events.Send(event.Infof("Connected to %s", h.Name()))
}

// ExecuteQuery runs req on h in the background. With no connection the
// user is told so right away and nothing is started.
func (d *Dispatcher) ExecuteQuery(ctx context.Context, h *db.Handle, req db.QueryRequest) error {
	if h == nil {
		return d.events.Send(event.Errorf("no connection established"))
	}

	task := h.Clone()
	d.spawn(func() {
		defer func() { _ = task.Release() }()
		logger := d.logger.With("connection", task.Name(), "tag", req.Tag.String())

		start := time.Now()
		res, err := task.Query(ctx, req)
		elapsed := time.Since(start)
		if req.Tag.IsUserFacing() {
			d.record(ctx, logger, task.Name(), req, res, err, elapsed)
		}

		if err != nil {
			logger.Warn("query failed", "error", err)
			_ = d.events.Send(event.Errorf("%v", err))
			return
		}
		logger.Debug("query done", "rows", res.RowCount, "elapsed", elapsed)
		_ = d.events.Send(event.QueryResult{Result: res, Tag: req.Tag})
	})
	return nil
}

func (d *Dispatcher) record(ctx context.Context, logger *slog.Logger, conn string, req db.QueryRequest, res *db.QueryResult, qerr error, elapsed time.Duration) {
	if d.history == nil {
		return
	}
	entry := &history.Entry{
		Connection: conn,
		Query:      req.Statement,
		Tag:        req.Tag.String(),
		Duration:   elapsed,
		Status:     history.StatusSuccess,
	}
	if qerr != nil {
		entry.Status = history.StatusError
		entry.ErrorMessage = qerr.Error()
	} else {
		entry.RowCount = res.RowCount
	}
	if err := d.history.Add(context.WithoutCancel(ctx), entry); err != nil {
		logger.Warn("record history", "error", err)
	}
}
