package layout

import "github.com/nhath/lazydb/internal/event"

// ComponentID is the stable identity of a pane. Iteration over components
// follows this order.
type ComponentID int

const (
	Title ComponentID = iota
	ConnectionMenu
	SchemaList
	TableList
	Editor
	ResultsTable
	StructureTable
	Messages
	DetailPopup
)

var componentNames = [...]string{
	"Title", "ConnectionMenu", "SchemaList", "TableList", "Editor",
	"ResultsTable", "StructureTable", "Messages", "DetailPopup",
}

func (id ComponentID) String() string {
	if id < 0 || int(id) >= len(componentNames) {
		return "Component?"
	}
	return componentNames[id]
}

// FocusedComponent is the pane that owns input in mode. Components derive
// their focus from this instead of tracking it separately.
func FocusedComponent(mode event.Mode) ComponentID {
	switch mode {
	case event.ModeEditQuery:
		return Editor
	case event.ModeExploreResults:
		return ResultsTable
	case event.ModeExploreTables:
		return TableList
	case event.ModeExploreStructure:
		return StructureTable
	case event.ModeExploreSchemas:
		return SchemaList
	default:
		return ConnectionMenu
	}
}

// Placement is one pane and the rectangle it draws into.
type Placement struct {
	ID   ComponentID
	Area Rect
}

const (
	titleHeight    = 8
	messagesHeight = 5
	sidebarPercent = 20
	editorPercent  = 30
)

// Plan lays out the panes for mode. It always returns at least one
// placement; rectangles are disjoint and inside root. Panes missing from
// the plan are not drawn.
func Plan(mode event.Mode, zoomed bool, root Rect) []Placement {
	if mode == event.ModeConnectionMenu {
		bands := SplitVertical(root, Length(titleHeight), Fill(), Length(messagesHeight))
		return []Placement{
			{Title, bands[0]},
			{ConnectionMenu, bands[1]},
			{Messages, bands[2]},
		}
	}

	if zoomed {
		return []Placement{{FocusedComponent(mode), root}}
	}

	sidebar := TableList
	if mode == event.ModeExploreSchemas {
		sidebar = SchemaList
	}
	resultView := ResultsTable
	if mode == event.ModeExploreStructure {
		resultView = StructureTable
	}

	cols := SplitHorizontal(root, Percent(sidebarPercent), Fill())
	main := SplitVertical(cols[1], Percent(editorPercent), Fill(), Length(messagesHeight))
	return []Placement{
		{sidebar, cols[0]},
		{Editor, main[0]},
		{resultView, main[1]},
		{Messages, main[2]},
	}
}
