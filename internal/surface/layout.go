package surface

import (
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/scene"
)

const (
	cellWidth  = 11
	cellHeight = 5
	titleRows  = 1

	// rowPixels is how many canvas pixels one terminal row of pointer
	// travel counts for, so a full sweep takes scene.DragPixels/rowPixels
	// rows.
	rowPixels = 10.0
)

// Controls lists the parameters shown for a mode, in display order:
// mode selector, LFO section, the mode's extras, output section.
func Controls(m scene.Mode) []string {
	ids := []string{params.Mode, params.Rate, params.Depth, params.Shape, params.StereoPhase}
	ids = append(ids, m.Extras()...)
	return append(ids, params.Mix, params.Width, params.Bypass)
}

// section names the group a control belongs to.
func section(id string, m scene.Mode) string {
	switch id {
	case params.Mode:
		return "MODE"
	case params.Rate, params.Depth, params.Shape, params.StereoPhase:
		return "LFO"
	case params.Mix, params.Width, params.Bypass:
		return "OUTPUT"
	}
	return m.String()
}

type cell struct {
	id   string
	x, y int
}

// layout places n controls in rows of knob cells for a terminal width.
func layout(ids []string, width int) []cell {
	perRow := max(1, width/cellWidth)
	cells := make([]cell, len(ids))
	for i, id := range ids {
		cells[i] = cell{
			id: id,
			x:  (i % perRow) * cellWidth,
			y:  titleRows + (i/perRow)*cellHeight,
		}
	}
	return cells
}

func stripRows(n, width int) int {
	perRow := max(1, width/cellWidth)
	return (n + perRow - 1) / perRow
}

// hit finds the control under a terminal cell.
func hit(cells []cell, x, y int) (string, bool) {
	for _, c := range cells {
		if x >= c.x && x < c.x+cellWidth && y >= c.y && y < c.y+cellHeight {
			return c.id, true
		}
	}
	return "", false
}
