package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/lazydb/internal/layout"
)

// Frame is the canvas for one render pass. Panes render into rectangles
// and are composited over what is already there.
type Frame struct {
	width, height int
	canvas        string
}

// NewFrame returns a blank frame of the given size.
func NewFrame(width, height int) *Frame {
	width, height = max(width, 0), max(height, 0)
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return &Frame{width: width, height: height, canvas: strings.Join(lines, "\n")}
}

// Area is the whole frame.
func (f *Frame) Area() layout.Rect {
	return layout.Rect{W: f.width, H: f.height}
}

// Render places content at area, clipped to the area's size.
func (f *Frame) Render(area layout.Rect, content string) error {
	if !f.Area().Contains(area) {
		return fmt.Errorf("area %s outside frame %s", area, f.Area())
	}
	if area.Empty() {
		return nil
	}
	clipped := lipgloss.NewStyle().MaxWidth(area.W).MaxHeight(area.H).Render(content)
	f.canvas = overlay.Composite(clipped, f.canvas, overlay.Left, overlay.Top, area.X, area.Y)
	return nil
}

func (f *Frame) String() string { return f.canvas }
