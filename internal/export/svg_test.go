package export

import (
	"strings"
	"testing"

	"github.com/san-kum/sway/internal/scene"
	"github.com/san-kum/sway/internal/telemetry"
	"github.com/san-kum/sway/internal/viz"
)

func TestCommandsToSVG(t *testing.T) {
	cmds := scene.Render(scene.Inputs{Mode: scene.Flanger, Rate: 2, Depth: 0.5, StereoPhase: 90}, telemetry.DemoFrame(1))
	svg := CommandsToSVG(cmds, 2)

	for _, want := range []string{
		`width="800" height="400" viewBox="0 0 400 200"`,
		"<radialGradient",
		"#ff6b00",
		">2.0Hz</text>",
		">L/R</text>",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg not closed")
	}
}

func TestCommandsToSVGEscapesText(t *testing.T) {
	svg := CommandsToSVG([]scene.Command{{Kind: scene.Text, Text: "<a&b>", Color: scene.Hex("#ffffff")}}, 1)
	if !strings.Contains(svg, "&lt;a&amp;b&gt;") {
		t.Errorf("text not escaped: %s", svg)
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Pen = scene.Hex("#00d4ff")
	c.Set(0, 0)
	c.Set(1, 1)
	svg := CanvasToSVG(c, 3)

	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `fill="#00d4ff"`) {
		t.Error("dot color lost")
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestTraceToSVG(t *testing.T) {
	if TraceToSVG([]float64{1}, 0, 1, 10, 10, "#fff") != "" {
		t.Error("single sample should give empty output")
	}
	svg := TraceToSVG([]float64{0, 0.5, 1}, 0, 1, 100, 50, "#00ff88")
	if !strings.Contains(svg, "M0.0,50.0 L50.0,25.0 L100.0,0.0") {
		t.Errorf("unexpected path: %s", svg)
	}
}
