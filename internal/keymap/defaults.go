package keymap

import "github.com/nhath/lazydb/internal/event"

// Defaults returns the built-in bindings. User bindings from the config file
// are merged over a fresh copy.
func Defaults() Table {
	t := Table{}

	t.Bind(event.ModeConnectionMenu, []string{"q"}, event.Quit{})
	t.Bind(event.ModeConnectionMenu, []string{"ctrl+c"}, event.Quit{})
	t.Bind(event.ModeConnectionMenu, []string{"ctrl+z"}, event.Suspend{})
	t.Bind(event.ModeConnectionMenu, []string{"j"}, event.NavDown{})
	t.Bind(event.ModeConnectionMenu, []string{"down"}, event.NavDown{})
	t.Bind(event.ModeConnectionMenu, []string{"k"}, event.NavUp{})
	t.Bind(event.ModeConnectionMenu, []string{"up"}, event.NavUp{})
	t.Bind(event.ModeConnectionMenu, []string{"enter"}, event.MakeSelection{})

	explore := []event.Mode{
		event.ModeExploreTables,
		event.ModeExploreSchemas,
		event.ModeExploreResults,
		event.ModeExploreStructure,
	}
	for _, m := range explore {
		t.Bind(m, []string{"q"}, event.Quit{})
		t.Bind(m, []string{"ctrl+c"}, event.Quit{})
		t.Bind(m, []string{"ctrl+z"}, event.Suspend{})
		t.Bind(m, []string{"?"}, event.Help{})
		t.Bind(m, []string{"j"}, event.NavDown{})
		t.Bind(m, []string{"down"}, event.NavDown{})
		t.Bind(m, []string{"k"}, event.NavUp{})
		t.Bind(m, []string{"up"}, event.NavUp{})
		t.Bind(m, []string{"h"}, event.NavLeft{})
		t.Bind(m, []string{"left"}, event.NavLeft{})
		t.Bind(m, []string{"l"}, event.NavRight{})
		t.Bind(m, []string{"right"}, event.NavRight{})
		t.Bind(m, []string{"enter"}, event.MakeSelection{})
		t.Bind(m, []string{"y"}, event.Yank{})
		t.Bind(m, []string{"/"}, event.Search{})
		t.Bind(m, []string{"esc"}, event.Clear{})
		t.Bind(m, []string{"z"}, event.ToggleZoom{})
		t.Bind(m, []string{"c"}, event.ChangeMode{Mode: event.ModeConnectionMenu})
		t.Bind(m, []string{"g", "e"}, event.ChangeMode{Mode: event.ModeEditQuery})
		t.Bind(m, []string{"g", "t"}, event.ChangeMode{Mode: event.ModeExploreTables})
		t.Bind(m, []string{"g", "s"}, event.ChangeMode{Mode: event.ModeExploreSchemas})
		t.Bind(m, []string{"g", "r"}, event.ChangeMode{Mode: event.ModeExploreResults})
	}
	t.Bind(event.ModeExploreTables, []string{"s"}, event.ViewStructure{})
	t.Bind(event.ModeExploreResults, []string{"v"}, event.ExpandRow{})

	// Typed characters belong to the editor, so only modified keys are bound.
	t.Bind(event.ModeEditQuery, []string{"ctrl+c"}, event.Quit{})
	t.Bind(event.ModeEditQuery, []string{"ctrl+z"}, event.Suspend{})
	t.Bind(event.ModeEditQuery, []string{"esc"}, event.ChangeMode{Mode: event.ModeExploreTables})
	t.Bind(event.ModeEditQuery, []string{"alt+z"}, event.ToggleZoom{})

	return t
}
