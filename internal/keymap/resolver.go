package keymap

import (
	"strings"

	"github.com/nhath/lazydb/internal/event"
)

// ResolutionKind is the outcome of resolving a pending sequence.
type ResolutionKind int

const (
	NoMatch ResolutionKind = iota
	Matched
	PendingLonger
)

func (k ResolutionKind) String() string {
	switch k {
	case Matched:
		return "Matched"
	case PendingLonger:
		return "PendingLonger"
	default:
		return "NoMatch"
	}
}

type Resolution struct {
	Kind   ResolutionKind
	Action event.Action // set when Kind == Matched
}

// Resolve looks the whole pending sequence up in the bindings of mode.
// An exact binding wins. Otherwise, if some binding extends the sequence,
// the caller should keep collecting keys.
func Resolve(pending []string, mode event.Mode, table Table) Resolution {
	if len(pending) == 0 {
		return Resolution{Kind: NoMatch}
	}
	bindings := table[mode]
	seq := SequenceKey(pending)
	if action, ok := bindings[seq]; ok {
		return Resolution{Kind: Matched, Action: action}
	}
	prefix := seq + " "
	for bound := range bindings {
		if strings.HasPrefix(bound, prefix) {
			return Resolution{Kind: PendingLonger}
		}
	}
	return Resolution{Kind: NoMatch}
}

// GlobalShortcut pairs a key with the mode it selects.
type GlobalShortcut struct {
	Key  string
	Mode event.Mode
}

var globalShortcuts = []GlobalShortcut{
	{"alt+0", event.ModeExploreSchemas},
	{"alt+1", event.ModeExploreTables},
	{"alt+2", event.ModeEditQuery},
	{"alt+3", event.ModeExploreResults},
	{"alt+4", event.ModeExploreStructure},
}

// GlobalShortcuts lists the always-active mode switches. They live outside
// every Table.
func GlobalShortcuts() []GlobalShortcut {
	return append([]GlobalShortcut(nil), globalShortcuts...)
}

// Global returns the mode switch bound to key, if any.
func Global(key string) (event.Action, bool) {
	for _, g := range globalShortcuts {
		if g.Key == key {
			return event.ChangeMode{Mode: g.Mode}, true
		}
	}
	return nil, false
}

// Feed adds key to the pending sequence and resolves it. It returns the
// pending sequence to keep and the action to emit, if any.
//
// When a chord fails on its last key, that key is tried again on its own so
// "g" followed by "x" still triggers "x". Keys that match nothing in the
// mode fall back to the global shortcuts.
func Feed(pending []string, key string, mode event.Mode, table Table) ([]string, event.Action) {
	next := append(append([]string(nil), pending...), key)
	res := Resolve(next, mode, table)
	switch res.Kind {
	case Matched:
		return nil, res.Action
	case PendingLonger:
		return next, nil
	}
	if len(next) > 1 {
		return Feed(nil, key, mode, table)
	}
	if action, ok := Global(key); ok {
		return nil, action
	}
	return nil, nil
}
