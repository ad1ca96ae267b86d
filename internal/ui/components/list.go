package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/nhath/lazydb/internal/layout"
)

// filterList is a cursor over items with an optional substring filter
// typed into a search box.
type filterList struct {
	items    []string
	visible  []int // indexes into items
	cursor   int
	search   textinput.Model
	querying bool
}

func newFilterList() filterList {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search"
	return filterList{search: ti}
}

func (l *filterList) SetItems(items []string) {
	l.items = items
	l.cursor = 0
	l.refilter()
}

func (l *filterList) refilter() {
	needle := strings.ToLower(l.search.Value())
	l.visible = l.visible[:0]
	for i, item := range l.items {
		if needle == "" || strings.Contains(strings.ToLower(item), needle) {
			l.visible = append(l.visible, i)
		}
	}
	if l.cursor >= len(l.visible) {
		l.cursor = max(len(l.visible)-1, 0)
	}
}

func (l *filterList) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *filterList) Down() {
	if l.cursor < len(l.visible)-1 {
		l.cursor++
	}
}

// Selected returns the item under the cursor.
func (l *filterList) Selected() (string, bool) {
	if len(l.visible) == 0 {
		return "", false
	}
	return l.items[l.visible[l.cursor]], true
}

// StartSearch opens the search box.
func (l *filterList) StartSearch() {
	l.querying = true
	l.search.Focus()
}

// StopSearch closes the search box and keeps the filter.
func (l *filterList) StopSearch() {
	l.querying = false
	l.search.Blur()
}

// ClearSearch closes the search box and drops the filter.
func (l *filterList) ClearSearch() {
	l.StopSearch()
	l.search.Reset()
	l.refilter()
}

func (l *filterList) Searching() bool { return l.querying }

// Type feeds a key to the search box.
func (l *filterList) Type(msg tea.KeyMsg) {
	if !l.querying {
		return
	}
	l.search, _ = l.search.Update(msg)
	l.cursor = 0
	l.refilter()
}

// Lines renders the visible window of items for a pane of the given inner
// size, keeping the cursor in view.
func (l *filterList) Lines(s Styles, width, height int, focused bool) []string {
	var out []string
	if l.querying || l.search.Value() != "" {
		out = append(out, l.search.View())
		height--
	}
	if len(l.visible) == 0 {
		return append(out, s.Faint.Render("(empty)"))
	}
	rows := max(height-1, 1) // title line
	start := 0
	if l.cursor >= rows {
		start = l.cursor - rows + 1
	}
	end := min(start+rows, len(l.visible))
	for i := start; i < end; i++ {
		text := runewidth.Truncate(l.items[l.visible[i]], max(width-2, 1), "…")
		if i == l.cursor && focused {
			out = append(out, s.Selected.Render("▸ "+runewidth.FillRight(text, max(width-2, 0))))
			continue
		}
		out = append(out, s.Item.Render("  "+text))
	}
	return out
}

// paneInner is the text area inside a pane border.
func paneInner(area layout.Rect) (int, int) {
	return max(area.W-2, 0), max(area.H-2, 0)
}
