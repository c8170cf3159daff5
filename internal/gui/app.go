package gui

import (
	"fmt"
	"log/slog"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/sway/internal/binding"
	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/loop"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/scene"
	"github.com/san-kum/sway/internal/surface"
	"github.com/san-kum/sway/internal/telemetry"
	"github.com/san-kum/sway/internal/viz"
)

const (
	winWidth  = 1000
	winHeight = 640

	vizX     = 100
	vizY     = 70
	vizScale = 2

	knobRadius  = 26
	knobRowY    = 540
	maxTrace    = 240
	scrollSteps = 1
)

// Colors are taken from the active theme at start and on theme change.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColTrack   = rl.NewColor(51, 51, 51, 255)
	ColBypass  = rl.NewColor(255, 68, 68, 255)
)

func applyTheme(t viz.Theme) {
	hex := func(c string) rl.Color { return rlColor(scene.Hex(c)) }
	ColSelect = hex(string(t.Title))
	ColText = hex(string(t.Text))
	ColTextDim = hex(string(t.Muted))
	ColAccent = hex(string(t.Active))
	ColTrack = hex(string(t.Track))
	ColBypass = hex(string(t.Bypass))
}

type Options struct {
	Bank      *binding.Bank
	Channel   *telemetry.Channel
	Loop      *loop.Loop
	Clock     clock.Clock
	FrameRate int
	Theme     string
	HostLabel string
	Logger    *slog.Logger
}

type App struct {
	bank    *binding.Bank
	channel *telemetry.Channel
	loop    *loop.Loop
	clk     clock.Clock
	log     *slog.Logger
	host    string

	keys    *surface.Keys
	pointer *surface.Pointer
	focus   int

	quit      bool
	Telemetry []float64
	Font      rl.Font
}

func initWindow(fps int) {
	rl.InitWindow(winWidth, winHeight, "sway")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(opts Options) *App {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HostLabel == "" {
		opts.HostLabel = "none"
	}
	viz.SetTheme(opts.Theme)
	applyTheme(viz.CurrentTheme)

	return &App{
		bank:    opts.Bank,
		channel: opts.Channel,
		loop:    opts.Loop,
		clk:     opts.Clock,
		log:     opts.Logger.With("component", "gui"),
		host:    opts.HostLabel,
		keys:    surface.NewKeys(opts.Bank),
		// one window pixel of travel is one canvas pixel
		pointer:   surface.NewPointer(opts.Bank, 1),
		Telemetry: make([]float64, 0, maxTrace),
		Font:      loadFont(),
	}
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	initWindow(opts.FrameRate)
	defer rl.CloseWindow()
	app := NewApp(opts)
	app.log.Info("window open", "host", app.host)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
	a.keys.End()
	a.pointer.Release()
}

func (a *App) mode() scene.Mode {
	if c := a.bank.Choice(params.Mode); c != nil {
		return scene.ModeOf(c.Value())
	}
	return scene.Chorus
}

func (a *App) controls() []string { return surface.Controls(a.mode()) }

func (a *App) focused() string {
	ids := a.controls()
	return ids[min(a.focus, len(ids)-1)]
}

type knob struct {
	id     string
	center rl.Vector2
}

// knobs spreads the mode's controls evenly along the bottom row.
func (a *App) knobs() []knob {
	ids := a.controls()
	gap := float32(winWidth) / float32(len(ids))
	out := make([]knob, len(ids))
	for i, id := range ids {
		out[i] = knob{id: id, center: rl.NewVector2(gap*(float32(i)+0.5), knobRowY)}
	}
	return out
}

func (a *App) knobAt(p rl.Vector2) (int, bool) {
	for i, k := range a.knobs() {
		if rl.CheckCollisionPointCircle(p, k.center, knobRadius+8) {
			return i, true
		}
	}
	return 0, false
}

func (a *App) Update() {
	if a.loop != nil {
		a.loop.RunDue()
	}
	now := a.clk.Now()
	a.keys.Tick(now)

	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
		return
	}

	n := len(a.controls())
	switch {
	case rl.IsKeyPressed(rl.KeyTab) || rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL):
		a.keys.End()
		a.focus = (min(a.focus, n-1) + 1) % n
	case rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH):
		a.keys.End()
		a.focus = (min(a.focus, n-1) + n - 1) % n
	}

	coarse := rl.IsKeyDown(rl.KeyLeftShift)
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressedRepeat(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.keys.Adjust(a.focused(), 1, coarse, now)
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressedRepeat(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.keys.Adjust(a.focused(), -1, coarse, now)
	}

	if rl.IsKeyPressed(rl.KeyM) {
		a.keys.End()
		a.bank.Choice(params.Mode).Step(1)
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.bank.Choice(params.Shape).Step(1)
	}
	if rl.IsKeyPressed(rl.KeyB) {
		a.bank.Toggle(params.Bypass).Flip()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.keys.Reset(a.focused())
	}
	if rl.IsKeyPressed(rl.KeyT) {
		applyTheme(viz.NextTheme())
	}

	a.updatePointer()

	if a.channel != nil {
		a.Telemetry = append(a.Telemetry, a.channel.Latest().LFOValue)
		if len(a.Telemetry) > maxTrace {
			a.Telemetry = a.Telemetry[len(a.Telemetry)-maxTrace:]
		}
	}
}

func (a *App) updatePointer() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		if i, ok := a.knobAt(mouse); ok {
			a.keys.End()
			a.focus = i
			a.pointer.Press(a.controls()[i], float64(mouse.Y))
		}
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		a.pointer.Move(float64(mouse.Y))
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		a.pointer.Release()
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		if i, ok := a.knobAt(mouse); ok {
			dir := scrollSteps
			if wheel < 0 {
				dir = -scrollSteps
			}
			a.focus = i
			a.keys.Adjust(a.controls()[i], dir, false, a.clk.Now())
		}
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	mode := a.mode()
	values := a.bank.Snapshot()
	var frame telemetry.Frame
	if a.channel != nil {
		frame = a.channel.Latest()
	}

	v := view{origin: rl.NewVector2(vizX, vizY), scale: vizScale}
	a.execute(scene.Render(scene.InputsFrom(values), frame), v)
	rl.DrawRectangleLinesEx(rl.NewRectangle(vizX, vizY, scene.Width*vizScale, scene.Height*vizScale), 1, rlColor(mode.Palette().Secondary))

	a.drawKnobs(mode)
	a.DrawHUD(mode)

	rl.EndDrawing()
}

func (a *App) drawKnobs(mode scene.Mode) {
	pal := mode.Palette()
	focused := a.focused()
	dragging, _ := a.pointer.Active()

	for _, k := range a.knobs() {
		def := params.MustLookup(k.id)
		val, _ := a.bank.Value(k.id)
		c := scene.Point{X: float64(k.center.X), Y: float64(k.center.Y)}

		label := ColText
		if k.id == focused {
			label = ColSelect
		}

		switch def.Kind {
		case params.Toggle:
			fill := ColTrack
			if val >= 0.5 {
				fill = ColBypass
			}
			rl.DrawCircleV(k.center, knobRadius*0.6, fill)
		default:
			track := scene.Color{R: ColTrack.R, G: ColTrack.G, B: ColTrack.B, A: ColTrack.A}
			accent := pal.Primary
			if k.id == dragging {
				accent = pal.Glow.WithAlpha(0xff)
			}
			a.execute(scene.Knob(c, knobRadius, def.Normalize(val), track, accent), view{scale: 1})
		}

		a.drawCentered(strings.ToUpper(def.Name), k.center.X, k.center.Y+knobRadius+8, 12, label)
		a.drawCentered(def.Format(val), k.center.X, k.center.Y+knobRadius+24, 12, ColTextDim)
	}
}

func (a *App) DrawHUD(mode scene.Mode) {
	pal := mode.Palette()
	a.drawText("sway", 30, 24, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", strings.ToUpper(mode.String())), 110, 28, 16, rlColor(pal.Primary))

	if bp := a.bank.Toggle(params.Bypass); bp != nil && bp.Value() {
		a.drawText("BYPASS", 880, 28, 16, ColBypass)
	}

	a.DrawTelemetry()

	state := "bound"
	if !a.bank.Bound() {
		state = "detached"
	}
	src := "none"
	if a.channel != nil {
		src = a.channel.Source()
	}
	a.drawText(fmt.Sprintf("host %s  params %s  telemetry %s", a.host, state, src), 30, winHeight-26, 14, ColTextDim)
	a.drawText("[TAB] FOCUS  [UP/DN] ADJUST  [M] MODE  [S] SHAPE  [B] BYPASS  [R] RESET  [T] THEME  [Q] QUIT", 30, winHeight-46, 12, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), winWidth-80, winHeight-26, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawCentered(text string, x, y float32, size float32, color rl.Color) {
	m := rl.MeasureTextEx(a.Font, text, size, 1)
	rl.DrawTextEx(a.Font, text, rl.NewVector2(x-m.X/2, y), size, 1, color)
}

// DrawTelemetry plots the recent LFO output beside the visualizer.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := vizX, vizY+int(scene.Height*vizScale)+8
	width, height := int(scene.Width*vizScale), 24

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(maxTrace-1))*float32(width)
		norm := (val + 1) / 2
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("LFO %+.2f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+4, 14, ColText)
}
