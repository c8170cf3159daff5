package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sway/internal/scene"
)

// Panel is a bordered section of the control surface.
func Panel(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}

func TitleStyle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Title)
}

func MutedStyle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

func KeyHint(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
}

// ModeStyle colors text with a mode's primary color.
func ModeStyle(m scene.Mode) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.Palette().Primary.Hex()))
}

// GradientText shades text from one color to another, one rune at a
// time.
func GradientText(text string, from, to scene.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := scene.Color{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: 0xff,
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)))
}

// Meter renders a horizontal bar filled to frac of width cells.
func Meter(frac float64, width int, fill, track lipgloss.Color) string {
	n := int(frac*float64(width) + 0.5)
	n = max(0, min(width, n))
	return lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("━", n)) +
		lipgloss.NewStyle().Foreground(track).Render(strings.Repeat("─", width-n))
}

var dialGlyphs = []rune{'◜', '◝', '◞', '◟'}

// KnobGlyph picks an indicator glyph pointing roughly where a knob at
// norm would point.
func KnobGlyph(norm float64) string {
	a := scene.KnobAngle(norm)
	switch {
	case a < -90:
		return string(dialGlyphs[3])
	case a < 0:
		return string(dialGlyphs[0])
	case a < 90:
		return string(dialGlyphs[1])
	default:
		return string(dialGlyphs[2])
	}
}

// SparklineChart renders a mini sparkline of values scaled between lo
// and hi.
func SparklineChart(values []float64, width int, lo, hi float64, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(0, width))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(len(chars)-1, idx))
		b.WriteRune(chars[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// Separator draws a muted divider.
func Separator(t Theme, width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return MutedStyle(t).Render(left + " ◆ " + right)
}
