// Package loopback is an in-process plugin host. It owns a parameter
// store shaped like the real plugin's registry, records drag gestures
// and writes, and emits visualizer telemetry from its own LFO, so the
// control surface can run standalone and be tested end to end.
package loopback

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/telemetry"
)

type GestureKind int

const (
	DragStarted GestureKind = iota
	ScaledWrite
	NormalisedWrite
	DragEnded
	ToggleWrite
)

func (k GestureKind) String() string {
	switch k {
	case DragStarted:
		return "dragStarted"
	case ScaledWrite:
		return "setScaledValue"
	case NormalisedWrite:
		return "setNormalisedValue"
	case DragEnded:
		return "dragEnded"
	case ToggleWrite:
		return "setValue"
	default:
		return "unknown"
	}
}

// Gesture is one UI-originated call recorded by the host.
type Gesture struct {
	Kind  GestureKind
	ID    string
	Value float64
}

type Options struct {
	Logger *slog.Logger
	// Event is the telemetry event name. Defaults to visualizerData.
	Event string
	Seed  uint64
}

type Host struct {
	log   *slog.Logger
	event string

	mu       sync.Mutex
	defs     map[string]params.Def
	values   map[string]float64
	dragging map[string]bool
	gestures []Gesture
	reads    int

	backend *Backend
	lfo     lfo
}

var _ bridge.Host = (*Host)(nil)

func New(opts Options) *Host {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Event == "" {
		opts.Event = telemetry.DefaultEvent
	}
	h := &Host{
		log:      opts.Logger.With("component", "loopback"),
		event:    opts.Event,
		defs:     map[string]params.Def{},
		values:   map[string]float64{},
		dragging: map[string]bool{},
		backend:  newBackend(),
	}
	h.lfo.rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5357415900000000))
	h.lfo.held = [2]float64{h.lfo.random(), h.lfo.random()}
	for _, d := range params.All() {
		h.defs[d.ID] = d
		h.values[d.ID] = d.Default
	}
	h.backend.Handle("getPluginInfo", func(any) {
		h.backend.Publish("pluginInfo", map[string]any{
			"name":          "Sway",
			"hasActivation": false,
		})
	})
	return h
}

func (h *Host) SliderState(id string) (bridge.SliderState, error) {
	d, ok := h.defs[id]
	if !ok {
		return nil, fmt.Errorf("loopback: %w", &params.UnknownError{ID: id})
	}
	if d.Kind == params.Toggle {
		return nil, fmt.Errorf("loopback: %s is a toggle", id)
	}
	return &slider{h: h, def: d}, nil
}

func (h *Host) ToggleState(id string) (bridge.ToggleState, error) {
	d, ok := h.defs[id]
	if !ok {
		return nil, fmt.Errorf("loopback: %w", &params.UnknownError{ID: id})
	}
	if d.Kind != params.Toggle {
		return nil, fmt.Errorf("loopback: %s is not a toggle", id)
	}
	return &toggle{h: h, def: d}, nil
}

func (h *Host) Backend() bridge.Backend { return h.backend }

// Events exposes the host side of the event backend.
func (h *Host) Events() *Backend { return h.backend }

// Set changes a parameter from the host side, the way automation or a
// preset load would. It is not recorded as a gesture.
func (h *Host) Set(id string, scaled float64) error {
	d, ok := h.defs[id]
	if !ok {
		return &params.UnknownError{ID: id}
	}
	h.mu.Lock()
	h.values[id] = store(d, scaled)
	h.mu.Unlock()
	return nil
}

func (h *Host) Value(id string) (float64, error) {
	if _, ok := h.defs[id]; !ok {
		return 0, &params.UnknownError{ID: id}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.values[id], nil
}

// Values returns a copy of the whole store.
func (h *Host) Values() map[string]float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]float64, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}

// ApplyPreset sets every listed parameter. Unknown ids fail the whole
// preset before anything changes.
func (h *Host) ApplyPreset(values map[string]float64) error {
	ids := make([]string, 0, len(values))
	for id := range values {
		if _, ok := h.defs[id]; !ok {
			return &params.UnknownError{ID: id}
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	h.mu.Lock()
	for _, id := range ids {
		h.values[id] = store(h.defs[id], values[id])
	}
	h.mu.Unlock()
	h.log.Info("preset applied", "params", len(ids))
	return nil
}

// Gestures returns the recorded UI calls in order.
func (h *Host) Gestures() []Gesture {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Gesture(nil), h.gestures...)
}

func (h *Host) ClearGestures() {
	h.mu.Lock()
	h.gestures = nil
	h.mu.Unlock()
}

// Dragging reports whether a UI gesture is open on id.
func (h *Host) Dragging(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dragging[id]
}

// Reads counts scaled and toggle value reads, i.e. reconciliation
// traffic.
func (h *Host) Reads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reads
}

func (h *Host) record(g Gesture) {
	h.gestures = append(h.gestures, g)
}

// store applies the host's range to an incoming scaled value. Integer
// stepped parameters snap; the rest clamp.
func store(d params.Def, v float64) float64 {
	if d.Step >= 1 {
		return d.Snap(v)
	}
	return d.Clamp(v)
}

type slider struct {
	h   *Host
	def params.Def
}

func (s *slider) ScaledValue() (float64, error) {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	s.h.reads++
	return s.h.values[s.def.ID], nil
}

func (s *slider) NormalisedValue() (float64, error) {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	return s.def.Normalize(s.h.values[s.def.ID]), nil
}

func (s *slider) SetScaledValue(v float64) error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	s.h.values[s.def.ID] = store(s.def, v)
	s.h.record(Gesture{Kind: ScaledWrite, ID: s.def.ID, Value: v})
	return nil
}

func (s *slider) SetNormalisedValue(v float64) error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	s.h.values[s.def.ID] = store(s.def, s.def.Denormalize(v))
	s.h.record(Gesture{Kind: NormalisedWrite, ID: s.def.ID, Value: v})
	return nil
}

func (s *slider) DragStarted() error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	s.h.dragging[s.def.ID] = true
	s.h.record(Gesture{Kind: DragStarted, ID: s.def.ID})
	return nil
}

func (s *slider) DragEnded() error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	delete(s.h.dragging, s.def.ID)
	s.h.record(Gesture{Kind: DragEnded, ID: s.def.ID})
	return nil
}

func (s *slider) Properties() (map[string]any, error) {
	return properties(s.def), nil
}

type toggle struct {
	h   *Host
	def params.Def
}

func (t *toggle) Value() (bool, error) {
	t.h.mu.Lock()
	defer t.h.mu.Unlock()
	t.h.reads++
	return t.h.values[t.def.ID] >= 0.5, nil
}

func (t *toggle) SetValue(v bool) error {
	t.h.mu.Lock()
	defer t.h.mu.Unlock()
	f := 0.0
	if v {
		f = 1
	}
	t.h.values[t.def.ID] = f
	t.h.record(Gesture{Kind: ToggleWrite, ID: t.def.ID, Value: f})
	return nil
}

func (t *toggle) Properties() (map[string]any, error) {
	return properties(t.def), nil
}

func properties(d params.Def) map[string]any {
	p := map[string]any{
		"name":     d.Name,
		"label":    d.Unit,
		"start":    d.Min,
		"end":      d.Max,
		"interval": d.Step,
	}
	if len(d.Choices) > 0 {
		choices := make([]any, len(d.Choices))
		for i, c := range d.Choices {
			choices[i] = c
		}
		p["choices"] = choices
		p["numSteps"] = len(d.Choices)
	}
	return p
}
