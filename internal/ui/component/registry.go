package component

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/nhath/lazydb/internal/bus"
	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
)

// Registry holds panes by identity. Broadcasts visit panes in ComponentID
// order and collect the actions they return; errors come back as Error
// actions naming the pane.
type Registry struct {
	components map[layout.ComponentID]Component
	order      []layout.ComponentID
	logger     *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{components: map[layout.ComponentID]Component{}, logger: logger}
}

// Register adds or replaces the pane for id.
func (r *Registry) Register(id layout.ComponentID, c Component) {
	if _, exists := r.components[id]; !exists {
		r.order = append(r.order, id)
		sort.Slice(r.order, func(i, j int) bool { return r.order[i] < r.order[j] })
	}
	r.components[id] = c
}

func (r *Registry) Get(id layout.ComponentID) (Component, bool) {
	c, ok := r.components[id]
	return c, ok
}

// IDs lists registered panes in broadcast order.
func (r *Registry) IDs() []layout.ComponentID {
	return append([]layout.ComponentID(nil), r.order...)
}

func failure(id layout.ComponentID, err error) event.Action {
	return event.Error{Text: fmt.Sprintf("%s: %v", id, err)}
}

func (r *Registry) broadcast(fn func(id layout.ComponentID, c Component) (event.Action, error)) []event.Action {
	var out []event.Action
	for _, id := range r.order {
		action, err := fn(id, r.components[id])
		if err != nil {
			out = append(out, failure(id, err))
			continue
		}
		if action != nil {
			out = append(out, action)
		}
	}
	return out
}

// Init sizes every Initializer.
func (r *Registry) Init(width, height int) []event.Action {
	return r.broadcast(func(_ layout.ComponentID, c Component) (event.Action, error) {
		if in, ok := c.(Initializer); ok {
			return nil, in.Init(width, height)
		}
		return nil, nil
	})
}

// RegisterConfig hands cfg to every ConfigReceiver.
func (r *Registry) RegisterConfig(cfg *config.Config) []event.Action {
	return r.broadcast(func(_ layout.ComponentID, c Component) (event.Action, error) {
		if cr, ok := c.(ConfigReceiver); ok {
			return nil, cr.RegisterConfig(cfg)
		}
		return nil, nil
	})
}

// RegisterActionSender hands tx to every ActionSenderReceiver.
func (r *Registry) RegisterActionSender(tx bus.Sender[event.Action]) []event.Action {
	return r.broadcast(func(_ layout.ComponentID, c Component) (event.Action, error) {
		if ar, ok := c.(ActionSenderReceiver); ok {
			return nil, ar.RegisterActionSender(tx)
		}
		return nil, nil
	})
}

// HandleEvent forwards a raw terminal event.
func (r *Registry) HandleEvent(ev tui.Event) []event.Action {
	return r.broadcast(func(_ layout.ComponentID, c Component) (event.Action, error) {
		if h, ok := c.(InputHandler); ok {
			return h.HandleEvent(ev)
		}
		return nil, nil
	})
}

// HandleAppEvent forwards a system notification.
func (r *Registry) HandleAppEvent(ev event.AppEvent) []event.Action {
	return r.broadcast(func(_ layout.ComponentID, c Component) (event.Action, error) {
		if h, ok := c.(AppEventHandler); ok {
			return h.HandleAppEvent(ev)
		}
		return nil, nil
	})
}

// Update forwards an action.
func (r *Registry) Update(action event.Action) []event.Action {
	return r.broadcast(func(_ layout.ComponentID, c Component) (event.Action, error) {
		return c.Update(action)
	})
}

// CapturingText reports whether pane id is currently taking typed text.
func (r *Registry) CapturingText(id layout.ComponentID) bool {
	tc, ok := r.components[id].(TextCapturer)
	return ok && tc.CapturingText()
}

// Draw renders the planned panes, then any active overlays. A pane that
// fails or panics is reported and skipped; the rest of the frame is drawn.
func (r *Registry) Draw(f *tui.Frame, plan []layout.Placement) []event.Action {
	var out []event.Action
	for _, p := range plan {
		c, ok := r.components[p.ID]
		if !ok {
			continue
		}
		if err := r.safeDraw(p.ID, func() error { return c.Draw(f, p.Area) }); err != nil {
			out = append(out, failure(p.ID, err))
		}
	}
	for _, id := range r.order {
		ov, ok := r.components[id].(Overlay)
		if !ok || !ov.Active() {
			continue
		}
		if err := r.safeDraw(id, func() error { return ov.DrawOverlay(f, f.Area()) }); err != nil {
			out = append(out, failure(id, err))
		}
	}
	return out
}

func (r *Registry) safeDraw(id layout.ComponentID, draw func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("component draw panicked", "component", id, "panic", rec)
			err = fmt.Errorf("draw panicked: %v", rec)
		}
	}()
	return draw()
}
