package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sway/internal/scene"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille pixel grid. Each cell remembers the pen color of
// the last dot set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]scene.Color

	Pen scene.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]scene.Color, h),
		Pen:    scene.Hex("#ffffff"),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]scene.Color, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set sets a dot at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	if c.Grid[row][col] < blank || c.Grid[row][col] > blank+0xff {
		// a text glyph owns this cell
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][col] = c.Pen
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = scene.Color{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawArc strokes an ellipse segment centered at (cx, cy) from start to
// end radians.
func (c *Canvas) DrawArc(cx, cy, rx, ry, start, end float64) {
	if end < start {
		start, end = end, start
	}
	steps := int(math.Max(8, (end-start)*math.Max(rx, ry)))
	px, py := -1, -1
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		x := int(math.Round(cx + math.Cos(a)*rx))
		y := int(math.Round(cy + math.Sin(a)*ry))
		if px >= 0 && (absInt(x-px) > 1 || absInt(y-py) > 1) {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py = x, y
	}
}

// FillEllipse sets every dot inside the ellipse.
func (c *Canvas) FillEllipse(cx, cy, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		c.Set(int(math.Round(cx)), int(math.Round(cy)))
		return
	}
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		dy := (float64(y) - cy) / ry
		if dy*dy > 1 {
			continue
		}
		w := rx * math.Sqrt(1-dy*dy)
		for x := int(math.Round(cx - w)); x <= int(math.Round(cx+w)); x++ {
			c.Set(x, y)
		}
	}
}

// Print writes text into cells starting at (col, row), replacing any
// dots there.
func (c *Canvas) Print(col, row int, s string) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= 0 && col < c.Width {
			c.Grid[row][col] = r
			c.Colors[row][col] = c.Pen
		}
		col++
	}
}

// String renders the canvas without colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the canvas with each run of same-colored cells styled
// by lipgloss.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			run := string(row[start:j])
			col := c.Colors[i][start]
			if col.A == 0 {
				b.WriteString(run)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex())).Render(run))
			}
			start = j
		}
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
