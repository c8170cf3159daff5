package surface

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/sway/internal/binding"
	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/loop"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/scene"
	"github.com/san-kum/sway/internal/telemetry"
	"github.com/san-kum/sway/internal/viz"
)

const historyLen = 48

type Options struct {
	Bank    *binding.Bank
	Channel *telemetry.Channel
	// Loop is run from the frame tick; bindings and the demo source
	// live on it.
	Loop      *loop.Loop
	Clock     clock.Clock
	FrameRate int
	Theme     string
	// HostLabel says what the surface is attached to, for the status
	// line.
	HostLabel string
	Logger    *slog.Logger
}

type knobSpring struct {
	pos, vel float64
}

// Model is the bubbletea control surface.
type Model struct {
	bank    *binding.Bank
	channel *telemetry.Channel
	loop    *loop.Loop
	clk     clock.Clock
	log     *slog.Logger
	host    string
	period  time.Duration

	theme   viz.Theme
	spring  harmonica.Spring
	springs map[string]*knobSpring

	focus   int
	keys    *Keys
	pointer *Pointer
	history []float64
	frames  int

	width, height int
}

func New(opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HostLabel == "" {
		opts.HostLabel = "none"
	}
	viz.SetTheme(opts.Theme)

	m := Model{
		bank:    opts.Bank,
		channel: opts.Channel,
		loop:    opts.Loop,
		clk:     opts.Clock,
		log:     opts.Logger.With("component", "surface"),
		host:    opts.HostLabel,
		period:  time.Second / time.Duration(opts.FrameRate),
		theme:   viz.CurrentTheme,
		spring:  harmonica.NewSpring(harmonica.FPS(opts.FrameRate), 12.0, 0.8),
		springs: make(map[string]*knobSpring),
		keys:    NewKeys(opts.Bank),
		pointer: NewPointer(opts.Bank, rowPixels),
		width:   80,
		height:  32,
	}
	for _, id := range params.IDs() {
		m.springs[id] = &knobSpring{pos: m.norm(id)}
	}
	return m
}

// Run takes over the terminal until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

type frameMsg time.Time

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case frameMsg:
		m.frame()
		return m, m.tick()
	}
	return m, nil
}

// frame runs one display refresh: due loop work, gesture timeout, knob
// easing and the telemetry history.
func (m *Model) frame() {
	if m.loop != nil {
		m.loop.RunDue()
	}
	m.frames++

	m.keys.Tick(m.clk.Now())

	for id, s := range m.springs {
		s.pos, s.vel = m.spring.Update(s.pos, s.vel, m.norm(id))
	}

	if m.channel != nil {
		m.history = append(m.history, m.channel.Latest().LFOValue)
		if len(m.history) > historyLen {
			m.history = m.history[len(m.history)-historyLen:]
		}
	}
}

func (m Model) mode() scene.Mode {
	if c := m.bank.Choice(params.Mode); c != nil {
		return scene.ModeOf(c.Value())
	}
	return scene.Chorus
}

func (m Model) controls() []string { return Controls(m.mode()) }

func (m Model) focused() string {
	ids := m.controls()
	return ids[min(m.focus, len(ids)-1)]
}

func (m Model) value(id string) float64 {
	v, _ := m.bank.Value(id)
	return v
}

func (m Model) norm(id string) float64 {
	def, err := params.Lookup(id)
	if err != nil {
		return 0
	}
	return def.Normalize(m.value(id))
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.controls())
	now := m.clk.Now()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.keys.End()
		m.pointer.Release()
		return m, tea.Quit
	case "tab", "right", "l":
		m.keys.End()
		m.focus = (min(m.focus, n-1) + 1) % n
	case "shift+tab", "left", "h":
		m.keys.End()
		m.focus = (min(m.focus, n-1) + n - 1) % n
	case "up", "k":
		m.keys.Adjust(m.focused(), 1, false, now)
	case "down", "j":
		m.keys.Adjust(m.focused(), -1, false, now)
	case "K", "pgup":
		m.keys.Adjust(m.focused(), 1, true, now)
	case "J", "pgdown":
		m.keys.Adjust(m.focused(), -1, true, now)
	case "m":
		m.keys.End()
		m.bank.Choice(params.Mode).Step(1)
	case "s":
		m.bank.Choice(params.Shape).Step(1)
	case "b":
		m.bank.Toggle(params.Bypass).Flip()
	case "r":
		m.keys.Reset(m.focused())
	case "t":
		m.theme = viz.NextTheme()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	switch msg.Action {
	case tea.MouseActionPress:
		id, ok := hit(layout(m.controls(), m.width), msg.X, msg.Y)
		if !ok {
			return m
		}
		m.focus = indexOf(m.controls(), id)
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.keys.Adjust(id, 1, false, m.clk.Now())
		case tea.MouseButtonWheelDown:
			m.keys.Adjust(id, -1, false, m.clk.Now())
		case tea.MouseButtonLeft:
			m.keys.End()
			m.pointer.Press(id, float64(msg.Y))
		}
	case tea.MouseActionMotion:
		m.pointer.Move(float64(msg.Y))
	case tea.MouseActionRelease:
		m.pointer.Release()
	}
	return m
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return 0
}
