// Package app is the main loop: it turns terminal input into actions,
// routes actions and app events between components and the dispatcher,
// and draws frames.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nhath/lazydb/internal/bus"
	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/keymap"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
	"github.com/nhath/lazydb/internal/ui/component"
)

// Dispatcher runs connection and query commands in the background.
// *dispatch.Dispatcher is the real one.
type Dispatcher interface {
	OpenConnection(ctx context.Context, name string) error
	ExecuteQuery(ctx context.Context, h *db.Handle, req db.QueryRequest) error
	Wait()
}

// Options wire an App. All fields except Logger are required.
type Options struct {
	Terminal   tui.Terminal
	Registry   *component.Registry
	Dispatcher Dispatcher
	Events     *bus.Queue[event.AppEvent]
	Config     *config.Config
	Keys       keymap.Table
	Logger     *slog.Logger
}

// App owns the mode, the current connection and the components. Only the
// goroutine running Run touches them.
type App struct {
	term       tui.Terminal
	registry   *component.Registry
	dispatcher Dispatcher
	events     *bus.Queue[event.AppEvent]
	actions    *bus.Queue[event.Action]
	cfg        *config.Config
	keys       keymap.Table
	logger     *slog.Logger

	mode          event.Mode
	zoomed        bool
	shouldQuit    bool
	shouldSuspend bool
	pendingKeys   []string
	conn          *db.Handle
	width, height int
}

func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		term:       opts.Terminal,
		registry:   opts.Registry,
		dispatcher: opts.Dispatcher,
		events:     opts.Events,
		actions:    bus.NewQueue[event.Action](),
		cfg:        opts.Config,
		keys:       opts.Keys,
		logger:     logger,
		mode:       event.ModeConnectionMenu,
	}
}

// Mode is the current mode.
func (a *App) Mode() event.Mode { return a.mode }

// Actions is the producer side of the action queue.
func (a *App) Actions() bus.Sender[event.Action] { return a.actions }

// Run initializes the components and steps until a Quit action. On the
// way out it releases the connection and waits for background tasks.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		a.shutdown()
	}()

	if err := a.init(); err != nil {
		return err
	}
	for !a.shouldQuit {
		if err := a.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) init() error {
	a.width, a.height = a.term.Size()
	if err := a.enqueue(a.registry.RegisterActionSender(a.actions)); err != nil {
		return err
	}
	if err := a.enqueue(a.registry.RegisterConfig(a.cfg)); err != nil {
		return err
	}
	return a.enqueue(a.registry.Init(a.width, a.height))
}

func (a *App) shutdown() {
	if a.conn != nil {
		if err := a.conn.Release(); err != nil {
			a.logger.Warn("close connection", "error", err)
		}
		a.conn = nil
	}
	a.dispatcher.Wait()
	a.releaseLate()
	a.actions.Close()
}

// releaseLate closes connections that finished after the loop stopped.
func (a *App) releaseLate() {
	for {
		ev, ok := a.events.TryRecv()
		if !ok {
			return
		}
		if est, ok := ev.(event.ConnectionEstablished); ok && est.Handle != nil {
			if err := est.Handle.Release(); err != nil {
				a.logger.Warn("close connection", "error", err)
			}
		}
	}
}

// Step waits for one terminal event and then processes everything it
// caused: app events first, then actions, each queue until empty.
func (a *App) Step(ctx context.Context) error {
	ev, err := a.term.NextEvent(ctx)
	if err != nil {
		return err
	}
	if err := a.handleTerminalEvent(ev); err != nil {
		return err
	}

	for {
		ev, ok := a.events.TryRecv()
		if !ok {
			break
		}
		if err := a.handleAppEvent(ev); err != nil {
			return err
		}
	}
	for {
		action, ok := a.actions.TryRecv()
		if !ok {
			break
		}
		if err := a.handleAction(ctx, action); err != nil {
			return err
		}
	}

	if a.shouldSuspend && !a.shouldQuit {
		if err := a.term.Suspend(ctx); err != nil {
			a.logger.Error("suspend", "error", err)
		}
		return a.enqueue([]event.Action{event.Resume{}, event.ClearScreen{}})
	}
	return nil
}

func (a *App) enqueue(actions []event.Action) error {
	for _, action := range actions {
		if err := a.actions.Send(action); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) send(action event.Action) error {
	if action == nil {
		return nil
	}
	return a.actions.Send(action)
}

func (a *App) handleTerminalEvent(ev tui.Event) error {
	var action event.Action
	switch ev.Kind {
	case tui.TickEvent:
		action = event.Tick{}
	case tui.RenderEvent:
		action = event.Render{}
	case tui.ResizeEvent:
		action = event.Resize{Width: ev.Width, Height: ev.Height}
	case tui.QuitEvent:
		action = event.Quit{}
	case tui.KeyEvent:
		action = a.resolveKey(ev.KeyString())
	}
	if err := a.send(action); err != nil {
		return err
	}
	return a.enqueue(a.registry.HandleEvent(ev))
}

// resolveKey feeds key to the pending chord. A pane that is taking text
// gets plain characters as text instead.
func (a *App) resolveKey(key string) event.Action {
	if keymap.IsTextKey(key) && a.registry.CapturingText(layout.FocusedComponent(a.mode)) {
		a.pendingKeys = nil
		return nil
	}
	var action event.Action
	a.pendingKeys, action = keymap.Feed(a.pendingKeys, key, a.mode, a.keys)
	if action != nil {
		a.logger.Debug("key resolved", "key", key, "mode", a.mode, "action", action.String())
	}
	return action
}

func (a *App) handleAppEvent(ev event.AppEvent) error {
	switch ev := ev.(type) {
	case event.ConnectionEstablished:
		if !a.install(ev.Handle) {
			return nil
		}
		a.mode = event.ModeExploreTables
		if err := a.send(event.ChangeMode{Mode: event.ModeExploreTables}); err != nil {
			return err
		}
	case event.QueryResult:
		if ev.Tag.IsUserFacing() {
			if err := a.events.Send(event.Infof("%s", ev.Result.Summary())); err != nil {
				return err
			}
		}
	}
	return a.enqueue(a.registry.HandleAppEvent(ev))
}

// install makes h the current connection if it is newer than the one in
// use. The replaced or rejected handle is released.
func (a *App) install(h *db.Handle) bool {
	if h == nil {
		return false
	}
	if a.conn != nil && h.Generation() <= a.conn.Generation() {
		a.logger.Info("ignoring stale connection", "connection", h.Name(), "generation", h.Generation())
		if err := h.Release(); err != nil {
			a.logger.Warn("close stale connection", "error", err)
		}
		return false
	}
	if a.conn != nil {
		if err := a.conn.Release(); err != nil {
			a.logger.Warn("close previous connection", "error", err)
		}
	}
	a.conn = h
	a.logger.Info("connection installed", "connection", h.Name(), "generation", h.Generation())
	return true
}

func (a *App) handleAction(ctx context.Context, action event.Action) error {
	switch action.(type) {
	case event.Tick, event.Render:
	default:
		a.logger.Debug("action", "action", action.String())
	}

	switch act := action.(type) {
	case event.Tick:
		a.pendingKeys = nil
	case event.ChangeMode:
		a.mode = act.Mode
	case event.ToggleZoom:
		a.zoomed = !a.zoomed
	case event.OpenConnection:
		if err := a.dispatched(a.dispatcher.OpenConnection(ctx, act.Name)); err != nil {
			return err
		}
	case event.ExecuteQuery:
		if err := a.dispatched(a.dispatcher.ExecuteQuery(ctx, a.conn, act.Request)); err != nil {
			return err
		}
	case event.Resize:
		a.width, a.height = act.Width, act.Height
		if err := a.render(); err != nil {
			return err
		}
	case event.Render:
		if err := a.render(); err != nil {
			return err
		}
	case event.ClearScreen:
		if err := a.term.Clear(); err != nil {
			a.logger.Error("clear screen", "error", err)
		}
	case event.Suspend:
		a.shouldSuspend = true
	case event.Resume:
		a.shouldSuspend = false
	case event.Quit:
		a.shouldQuit = true
	case event.Error:
		a.logger.Error("error action", "error", act.Text)
	}
	return a.enqueue(a.registry.Update(action))
}

// dispatched logs a dispatcher error. Only a closed queue stops the loop.
func (a *App) dispatched(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bus.ErrClosed) {
		return err
	}
	a.logger.Error("dispatch", "error", err)
	return nil
}

func (a *App) render() error {
	if a.width <= 0 || a.height <= 0 {
		return nil
	}
	f := tui.NewFrame(a.width, a.height)
	failures := a.registry.Draw(f, layout.Plan(a.mode, a.zoomed, f.Area()))
	if err := a.term.Draw(f.String()); err != nil {
		a.logger.Error("draw", "error", err)
	}
	return a.enqueue(failures)
}
