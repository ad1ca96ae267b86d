// Package event holds the values that flow through the application's two
// queues: actions (intents) and app events (notifications).
package event

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nhath/lazydb/internal/db"
)

// Action is a user or system intent. Implementations are plain values.
type Action interface {
	isAction()
	String() string
}

type (
	Tick        struct{}
	Render      struct{}
	Resize      struct{ Width, Height int }
	Suspend     struct{}
	Resume      struct{}
	Quit        struct{}
	ClearScreen struct{}
	Error       struct{ Text string }
	Help        struct{}
	ChangeMode  struct{ Mode Mode }

	MakeSelection  struct{}
	OpenConnection struct{ Name string }
	ViewStructure  struct{}
	ChangeSchema   struct{ Schema string }
	ExecuteQuery   struct{ Request db.QueryRequest }

	NavUp    struct{}
	NavDown  struct{}
	NavLeft  struct{}
	NavRight struct{}

	Yank       struct{}
	Search     struct{}
	Clear      struct{}
	SelectCell struct{ Text string }

	ToggleZoom struct{}
	ExpandRow  struct{}
	SelectRow  struct {
		Columns []string
		Row     []string
	}
)

func (Tick) isAction()           {}
func (Render) isAction()         {}
func (Resize) isAction()         {}
func (Suspend) isAction()        {}
func (Resume) isAction()         {}
func (Quit) isAction()           {}
func (ClearScreen) isAction()    {}
func (Error) isAction()          {}
func (Help) isAction()           {}
func (ChangeMode) isAction()     {}
func (MakeSelection) isAction()  {}
func (OpenConnection) isAction() {}
func (ViewStructure) isAction()  {}
func (ChangeSchema) isAction()   {}
func (ExecuteQuery) isAction()   {}
func (NavUp) isAction()          {}
func (NavDown) isAction()        {}
func (NavLeft) isAction()        {}
func (NavRight) isAction()       {}
func (Yank) isAction()           {}
func (Search) isAction()         {}
func (Clear) isAction()          {}
func (SelectCell) isAction()     {}
func (ToggleZoom) isAction()     {}
func (ExpandRow) isAction()      {}
func (SelectRow) isAction()      {}

func (Tick) String() string           { return "Tick" }
func (Render) String() string         { return "Render" }
func (a Resize) String() string       { return fmt.Sprintf("Resize(%d,%d)", a.Width, a.Height) }
func (Suspend) String() string        { return "Suspend" }
func (Resume) String() string         { return "Resume" }
func (Quit) String() string           { return "Quit" }
func (ClearScreen) String() string    { return "ClearScreen" }
func (a Error) String() string        { return fmt.Sprintf("Error(%s)", a.Text) }
func (Help) String() string           { return "Help" }
func (a ChangeMode) String() string   { return fmt.Sprintf("ChangeMode(%s)", a.Mode) }
func (MakeSelection) String() string  { return "MakeSelection" }
func (ViewStructure) String() string  { return "ViewStructure" }
func (a ChangeSchema) String() string { return fmt.Sprintf("ChangeSchema(%s)", a.Schema) }
func (NavUp) String() string          { return "NavUp" }
func (NavDown) String() string        { return "NavDown" }
func (NavLeft) String() string        { return "NavLeft" }
func (NavRight) String() string       { return "NavRight" }
func (Yank) String() string           { return "Yank" }
func (Search) String() string         { return "Search" }
func (Clear) String() string          { return "Clear" }
func (a SelectCell) String() string   { return fmt.Sprintf("SelectCell(%s)", a.Text) }
func (ToggleZoom) String() string     { return "ToggleZoom" }
func (ExpandRow) String() string      { return "ExpandRow" }
func (a SelectRow) String() string    { return fmt.Sprintf("SelectRow(%d cells)", len(a.Row)) }

func (a OpenConnection) String() string {
	return fmt.Sprintf("OpenConnection(%s)", a.Name)
}

func (a ExecuteQuery) String() string {
	return fmt.Sprintf("ExecuteQuery(%s)", a.Request.Tag)
}

// ParseAction reads an action as written in keybinding files: a bare name
// such as "NavUp" or a name with one argument such as "ChangeMode(EditQuery)".
// Actions carrying query requests or rows cannot be bound to keys.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	name, arg, hasArg := s, "", false
	if open := strings.IndexByte(s, '('); open >= 0 {
		if !strings.HasSuffix(s, ")") {
			return nil, fmt.Errorf("action %q: missing closing parenthesis", s)
		}
		name, arg, hasArg = s[:open], strings.TrimSpace(s[open+1:len(s)-1]), true
	}

	if simple, ok := simpleActions[name]; ok {
		if hasArg {
			return nil, fmt.Errorf("action %s takes no argument", name)
		}
		return simple, nil
	}
	if !hasArg {
		return nil, fmt.Errorf("unknown action %q", s)
	}

	switch name {
	case "ChangeMode":
		m, err := ParseMode(arg)
		if err != nil {
			return nil, err
		}
		return ChangeMode{Mode: m}, nil
	case "OpenConnection":
		return OpenConnection{Name: arg}, nil
	case "ChangeSchema":
		return ChangeSchema{Schema: arg}, nil
	case "Error":
		return Error{Text: arg}, nil
	case "SelectCell":
		return SelectCell{Text: arg}, nil
	case "Resize":
		w, h, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, fmt.Errorf("action %q: want Resize(width,height)", s)
		}
		width, err := strconv.Atoi(strings.TrimSpace(w))
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", s, err)
		}
		height, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", s, err)
		}
		return Resize{Width: width, Height: height}, nil
	}
	return nil, fmt.Errorf("unknown action %q", s)
}

var simpleActions = map[string]Action{
	"Tick":          Tick{},
	"Render":        Render{},
	"Suspend":       Suspend{},
	"Resume":        Resume{},
	"Quit":          Quit{},
	"ClearScreen":   ClearScreen{},
	"Help":          Help{},
	"MakeSelection": MakeSelection{},
	"ViewStructure": ViewStructure{},
	"NavUp":         NavUp{},
	"NavDown":       NavDown{},
	"NavLeft":       NavLeft{},
	"NavRight":      NavRight{},
	"Yank":          Yank{},
	"Search":        Search{},
	"Clear":         Clear{},
	"ToggleZoom":    ToggleZoom{},
	"ExpandRow":     ExpandRow{},
}
