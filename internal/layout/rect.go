// Package layout decides where each pane is drawn for a mode.
package layout

import "fmt"

// Rect is a cell rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether o lies inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Inset shrinks r by n cells on every side.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Centered returns a rectangle of the given percentages of r, centred in r.
func (r Rect) Centered(pctW, pctH int) Rect {
	w := r.W * pctW / 100
	h := r.H * pctH / 100
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// Constraint sizes one band of a split.
type Constraint struct {
	kind  int
	value int
}

const (
	kindLength = iota
	kindPercent
	kindFill
)

// Length is a fixed number of cells.
func Length(n int) Constraint { return Constraint{kind: kindLength, value: n} }

// Percent is a share of the whole split axis.
func Percent(p int) Constraint { return Constraint{kind: kindPercent, value: p} }

// Fill takes what is left. Several fills share the remainder equally.
func Fill() Constraint { return Constraint{kind: kindFill} }

// SplitVertical stacks bands top to bottom.
func SplitVertical(r Rect, cs ...Constraint) []Rect {
	sizes := allocate(r.H, cs)
	out := make([]Rect, len(cs))
	y := r.Y
	for i, h := range sizes {
		out[i] = Rect{X: r.X, Y: y, W: r.W, H: h}
		y += h
	}
	return out
}

// SplitHorizontal places bands left to right.
func SplitHorizontal(r Rect, cs ...Constraint) []Rect {
	sizes := allocate(r.W, cs)
	out := make([]Rect, len(cs))
	x := r.X
	for i, w := range sizes {
		out[i] = Rect{X: x, Y: r.Y, W: w, H: r.H}
		x += w
	}
	return out
}

// allocate never hands out more than total; fixed bands are served first
// in order, then fills share the rest.
func allocate(total int, cs []Constraint) []int {
	if total < 0 {
		total = 0
	}
	sizes := make([]int, len(cs))
	left := total
	fills := 0
	for i, c := range cs {
		want := 0
		switch c.kind {
		case kindLength:
			want = c.value
		case kindPercent:
			want = total * c.value / 100
		case kindFill:
			fills++
			continue
		}
		want = max(0, min(want, left))
		sizes[i] = want
		left -= want
	}
	if fills == 0 {
		return sizes
	}
	share, extra := left/fills, left%fills
	for i, c := range cs {
		if c.kind != kindFill {
			continue
		}
		sizes[i] = share
		if extra > 0 {
			sizes[i]++
			extra--
		}
	}
	return sizes
}
