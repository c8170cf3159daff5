package surface

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/scene"
	"github.com/san-kum/sway/internal/telemetry"
	"github.com/san-kum/sway/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws the visualization to a plain writer, throttled
// to frameRate. It is the non-interactive view used while recording.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	width     int
	height    int
	lastFrame time.Time
	frames    int
}

func NewLiveRenderer(out io.Writer, frameRate, width int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	width = max(24, width)
	return &LiveRenderer{out: out, frameRate: frameRate, width: width, height: width / 4}
}

// OnFrame draws one frame unless the previous one was too recent. now is
// passed in so callers on a fake clock stay deterministic.
func (r *LiveRenderer) OnFrame(now time.Time, values map[string]float64, f telemetry.Frame) bool {
	if !r.lastFrame.IsZero() && now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return false
	}
	r.lastFrame = now
	r.frames++

	in := scene.InputsFrom(values)
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  %s  lfo=%+.2f\n", in.Mode, params.MustLookup(params.Rate).Format(in.Rate), f.LFOValue))
	b.WriteString("  " + strings.Repeat("-", r.width) + "\n")
	for _, row := range strings.Split(viz.RenderScene(scene.Render(in, f), r.width, r.height), "\n") {
		b.WriteString("  " + row + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", r.width) + "\n")
	b.WriteString(fmt.Sprintf("  L=%.2f R=%.2f  depth L=%.2f R=%.2f\n",
		f.StereoPhaseL, f.StereoPhaseR, f.ModDepthL, f.ModDepthR))

	fmt.Fprint(r.out, b.String())
	return true
}

func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
