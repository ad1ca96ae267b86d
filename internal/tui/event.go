// Package tui adapts the terminal to the application loop: it turns
// bubbletea input into Events and composes frames from pane renders.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// EventKind distinguishes terminal events.
type EventKind int

const (
	TickEvent EventKind = iota
	RenderEvent
	KeyEvent
	ResizeEvent
	// QuitEvent is delivered once the terminal program has ended.
	QuitEvent
)

// Event is one item from the terminal.
type Event struct {
	Kind   EventKind
	Key    tea.KeyMsg
	Width  int
	Height int
}

// KeyString is the binding name of the pressed key, such as "ctrl+r".
func (e Event) KeyString() string {
	if e.Kind != KeyEvent {
		return ""
	}
	return e.Key.String()
}

// Terminal is what the application loop needs from the screen.
type Terminal interface {
	// NextEvent blocks until input, a tick or a render deadline.
	NextEvent(ctx context.Context) (Event, error)
	Size() (width, height int)
	Draw(view string) error
	Clear() error
	// Suspend hands the terminal back to the shell and returns once the
	// process has been resumed.
	Suspend(ctx context.Context) error
	Stop() error
}
