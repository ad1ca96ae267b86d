package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"
	"github.com/mattn/go-runewidth"
)

const maxColumnWidth = 40

// grid is a cursor over a result set. Rendering goes through bubble-table;
// the grid only decides which rows and columns are in view.
type grid struct {
	columns []string
	rows    [][]string
	row     int
	col     int
}

func (g *grid) Set(columns []string, rows [][]string) {
	g.columns, g.rows = columns, rows
	g.row, g.col = 0, 0
}

func (g *grid) Empty() bool { return len(g.rows) == 0 }

func (g *grid) Move(dRow, dCol int) {
	if len(g.rows) > 0 {
		g.row = min(max(g.row+dRow, 0), len(g.rows)-1)
	}
	if len(g.columns) > 0 {
		g.col = min(max(g.col+dCol, 0), len(g.columns)-1)
	}
}

// Cell is the value under the cursor.
func (g *grid) Cell() (string, bool) {
	if g.Empty() || g.col >= len(g.rows[g.row]) {
		return "", false
	}
	return g.rows[g.row][g.col], true
}

// Row is the row under the cursor.
func (g *grid) Row() ([]string, bool) {
	if g.Empty() {
		return nil, false
	}
	return g.rows[g.row], true
}

func (g *grid) widths() []int {
	w := make([]int, len(g.columns))
	for i, c := range g.columns {
		w[i] = runewidth.StringWidth(c)
	}
	for _, row := range g.rows {
		for i, v := range row {
			if i < len(w) {
				w[i] = max(w[i], runewidth.StringWidth(v))
			}
		}
	}
	for i := range w {
		w[i] = min(w[i], maxColumnWidth) + 2
	}
	return w
}

// View renders the part of the grid that fits width x height cells.
// cellCursor highlights the current cell as well as the current row.
func (g *grid) View(s Styles, width, height int, focused, cellCursor bool) string {
	if len(g.columns) == 0 {
		return ""
	}
	widths := g.widths()

	// columns: scroll right until the cursor column fits
	first := 0
	for first < g.col {
		used := 1
		for i := first; i <= g.col; i++ {
			used += widths[i] + 1
		}
		if used <= width {
			break
		}
		first++
	}
	last := first
	used := 1
	for last < len(g.columns) && used+widths[last]+1 <= width {
		used += widths[last] + 1
		last++
	}
	if last == first {
		last = first + 1
	}

	// rows: borders and header take four lines
	visible := max(height-4, 1)
	top := 0
	if g.row >= visible {
		top = g.row - visible + 1
	}
	bottom := min(top+visible, len(g.rows))

	cols := make([]bbtable.Column, 0, last-first)
	for i := first; i < last; i++ {
		title := runewidth.Truncate(g.columns[i], widths[i], "…")
		cols = append(cols, bbtable.NewColumn(colKey(i), title, widths[i]))
	}

	rows := make([]bbtable.Row, 0, bottom-top)
	for r := top; r < bottom; r++ {
		data := bbtable.RowData{}
		for i := first; i < last; i++ {
			val := ""
			if i < len(g.rows[r]) {
				val = g.rows[r][i]
			}
			style := s.ValueStyle(val)
			if focused && r == g.row {
				style = s.CursorRow
				if cellCursor && i == g.col {
					style = s.CursorCell
				}
			}
			data[colKey(i)] = bbtable.NewStyledCell(runewidth.Truncate(val, widths[i], "…"), style)
		}
		rows = append(rows, bbtable.NewRow(data))
	}

	return bbtable.New(cols).
		WithRows(rows).
		WithNoPagination().
		WithBaseStyle(lipgloss.NewStyle().Foreground(s.Cell.GetForeground())).
		HeaderStyle(s.Header).
		BorderRounded().
		View()
}

// colKey keeps duplicate column names apart.
func colKey(i int) string { return fmt.Sprintf("c%d", i) }
