package config

import (
	"fmt"

	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/keymap"
)

// KeyTable builds the binding table: built-in defaults with the
// [keybindings.<Mode>] sections of the file layered on top.
//
//	[keybindings.ExploreTables]
//	"g g" = "NavUp"
//	"ctrl+s" = "ChangeMode(ExploreSchemas)"
func (c *Config) KeyTable() (keymap.Table, error) {
	table := keymap.Defaults()
	user := keymap.Table{}
	for modeName, bindings := range c.Keybindings {
		mode, err := event.ParseMode(modeName)
		if err != nil {
			return nil, fmt.Errorf("keybindings: %w", err)
		}
		for seq, actionText := range bindings {
			keys := keymap.ParseSequence(seq)
			if len(keys) == 0 {
				return nil, fmt.Errorf("keybindings.%s: empty key sequence", modeName)
			}
			action, err := event.ParseAction(actionText)
			if err != nil {
				return nil, fmt.Errorf("keybindings.%s %q: %w", modeName, seq, err)
			}
			user.Bind(mode, keys, action)
		}
	}
	table.Merge(user)
	return table, nil
}
