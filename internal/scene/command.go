package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Logical canvas size. Consumers scale commands to their own surface.
const (
	Width  = 400.0
	Height = 200.0
)

type Color struct {
	R, G, B, A uint8
}

// Hex parses #rrggbb or #rrggbbaa. It panics on malformed input and is
// meant for palette literals.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		panic(fmt.Sprintf("scene: bad color %q", s))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		panic(fmt.Sprintf("scene: bad color %q: %v", s, err))
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opacity is A as a fraction.
func (c Color) Opacity() float64 { return float64(c.A) / 255 }

type Point struct {
	X, Y float64
}

type Kind int

const (
	// Fill paints the whole canvas with a radial gradient from Color at
	// the center to Color2 at the edge.
	Fill Kind = iota
	Circle
	Line
	// Arc strokes a circle segment from Start to End radians, clockwise
	// in screen space.
	Arc
	Polyline
	Text
	// Glow is a radial gradient from Color at Center to transparent at
	// Radius.
	Glow
)

func (k Kind) String() string {
	switch k {
	case Fill:
		return "fill"
	case Circle:
		return "circle"
	case Line:
		return "line"
	case Arc:
		return "arc"
	case Polyline:
		return "polyline"
	case Text:
		return "text"
	case Glow:
		return "glow"
	default:
		return "unknown"
	}
}

// Command is one drawing instruction. Which fields matter depends on
// Kind.
type Command struct {
	Kind   Kind
	Center Point
	Radius float64
	Start  float64
	End    float64
	Points []Point
	Filled bool
	Stroke float64
	Color  Color
	Color2 Color
	Text   string
	Size   float64
}

func circle(c Point, r float64, col Color) Command {
	return Command{Kind: Circle, Center: c, Radius: r, Filled: true, Color: col}
}

func ring(c Point, r, stroke float64, col Color) Command {
	return Command{Kind: Circle, Center: c, Radius: r, Stroke: stroke, Color: col}
}

func line(a, b Point, stroke float64, col Color) Command {
	return Command{Kind: Line, Points: []Point{a, b}, Stroke: stroke, Color: col}
}

func label(at Point, s string, col Color) Command {
	return Command{Kind: Text, Center: at, Text: s, Size: 9, Color: col}
}
