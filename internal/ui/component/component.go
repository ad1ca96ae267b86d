// Package component defines the pane contract and the registry that fans
// terminal events, app events and actions out to every pane.
package component

import (
	"github.com/nhath/lazydb/internal/bus"
	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/tui"
)

// Component is a pane. Update mutates only the pane's own state and may
// return one follow-up action; Draw renders without changing state.
type Component interface {
	Update(action event.Action) (event.Action, error)
	Draw(f *tui.Frame, area layout.Rect) error
}

// InputHandler receives raw terminal events, regardless of focus.
type InputHandler interface {
	HandleEvent(ev tui.Event) (event.Action, error)
}

// AppEventHandler reacts to system notifications, regardless of focus.
type AppEventHandler interface {
	HandleAppEvent(ev event.AppEvent) (event.Action, error)
}

// Initializer is called once with the terminal size before the first frame.
type Initializer interface {
	Init(width, height int) error
}

// ConfigReceiver is handed the loaded configuration.
type ConfigReceiver interface {
	RegisterConfig(cfg *config.Config) error
}

// ActionSenderReceiver is handed the action queue for actions produced
// outside Update, such as from a timer.
type ActionSenderReceiver interface {
	RegisterActionSender(tx bus.Sender[event.Action]) error
}

// TextCapturer is implemented by panes that can take typed text. While
// capturing, plain character keys go to the pane instead of key bindings.
type TextCapturer interface {
	CapturingText() bool
}

// Overlay panes are drawn over the whole frame after the layout plan.
type Overlay interface {
	Active() bool
	DrawOverlay(f *tui.Frame, root layout.Rect) error
}

// Focus tracks whether a pane owns input. It follows ChangeMode actions
// through layout.FocusedComponent so every pane agrees with the layout.
type Focus struct {
	ID      layout.ComponentID
	focused bool
}

// Observe updates focus from an action and reports whether it changed.
func (f *Focus) Observe(action event.Action) bool {
	cm, ok := action.(event.ChangeMode)
	if !ok {
		return false
	}
	was := f.focused
	f.focused = layout.FocusedComponent(cm.Mode) == f.ID
	return was != f.focused
}

func (f *Focus) Focused() bool { return f.focused }

// Set forces the focus state, for panes focused at startup.
func (f *Focus) Set(focused bool) { f.focused = focused }
