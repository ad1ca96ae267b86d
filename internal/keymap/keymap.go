// Package keymap resolves pressed key sequences to actions.
//
// Keys are bubbletea key strings ("g", "ctrl+r", "alt+1", "enter"). A
// sequence is stored as its keys joined by single spaces.
package keymap

import (
	"strings"
	"unicode/utf8"

	"github.com/nhath/lazydb/internal/event"
)

// Table maps each mode to its bound sequences. It is built once at startup
// and only read afterwards.
type Table map[event.Mode]map[string]event.Action

// SequenceKey normalizes a key sequence to its table key.
func SequenceKey(keys []string) string {
	return strings.Join(keys, " ")
}

// ParseSequence splits a configured binding such as "g g" or "<g><g>" into
// keys.
func ParseSequence(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
		return strings.Split(inner, "><")
	}
	return strings.Fields(s)
}

// Bind adds or replaces a binding.
func (t Table) Bind(mode event.Mode, keys []string, action event.Action) {
	if t[mode] == nil {
		t[mode] = map[string]event.Action{}
	}
	t[mode][SequenceKey(keys)] = action
}

// Merge copies every binding of other into t, replacing duplicates.
func (t Table) Merge(other Table) {
	for mode, bindings := range other {
		for seq, action := range bindings {
			if t[mode] == nil {
				t[mode] = map[string]event.Action{}
			}
			t[mode][seq] = action
		}
	}
}

// IsTextKey reports whether key types a character. Components that capture
// text input consume these keys before any binding is resolved.
func IsTextKey(key string) bool {
	return key == "space" || utf8.RuneCountInString(key) == 1
}
