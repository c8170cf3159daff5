package bridge

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Adapter wraps every host call so that a failing or panicking host
// degrades to "absent" for reads and a no-op for writes.
type Adapter struct {
	locate Locator
	log    *slog.Logger
}

func New(locate Locator, log *slog.Logger) *Adapter {
	if locate == nil {
		locate = None
	}
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{locate: locate, log: log.With("component", "bridge")}
}

// Absent returns an adapter with no host attached.
func Absent() *Adapter {
	return New(None, nil)
}

// IsHostPresent reports whether the host object exists right now.
func (a *Adapter) IsHostPresent() bool {
	return a.host() != nil
}

func (a *Adapter) host() (h Host) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Debug("host lookup panicked", "panic", r)
			h = nil
		}
	}()
	return a.locate()
}

// guard runs one host call and reports whether it completed.
func (a *Adapter) guard(op, id string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Debug("host call panicked", "op", op, "id", id, "panic", r)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		a.log.Debug("host call failed", "op", op, "id", id, "err", err)
		return false
	}
	return true
}

// Slider resolves a continuous parameter handle. ok is false when the
// host is absent or rejects the lookup.
func (a *Adapter) Slider(id string) (*Slider, bool) {
	h := a.host()
	if h == nil {
		return nil, false
	}
	var st SliderState
	ok := a.guard("getSliderState", id, func() error {
		var err error
		st, err = h.SliderState(id)
		if err == nil && st == nil {
			err = fmt.Errorf("no slider state")
		}
		return err
	})
	if !ok {
		return nil, false
	}
	return &Slider{a: a, id: id, st: st}, true
}

// Toggle resolves a boolean parameter handle.
func (a *Adapter) Toggle(id string) (*Toggle, bool) {
	h := a.host()
	if h == nil {
		return nil, false
	}
	var st ToggleState
	ok := a.guard("getToggleState", id, func() error {
		var err error
		st, err = h.ToggleState(id)
		if err == nil && st == nil {
			err = fmt.Errorf("no toggle state")
		}
		return err
	})
	if !ok {
		return nil, false
	}
	return &Toggle{a: a, id: id, st: st}, true
}

func (a *Adapter) backend() Backend {
	h := a.host()
	if h == nil {
		return nil
	}
	var b Backend
	a.guard("backend", "", func() error {
		b = h.Backend()
		return nil
	})
	return b
}

// Subscribe registers fn for event. The returned subscription is never
// nil; with no host it is inert. fn runs on whatever goroutine the host
// delivers on and a panic inside it is recovered.
func (a *Adapter) Subscribe(event string, fn func(payload any)) *Subscription {
	s := &Subscription{a: a, event: event}
	b := a.backend()
	if b == nil {
		return s
	}
	handler := func(payload any) {
		defer func() {
			if r := recover(); r != nil {
				a.log.Debug("event handler panicked", "event", event, "panic", r)
			}
		}()
		fn(payload)
	}
	var id ListenerID
	if a.guard("addEventListener", event, func() error {
		var err error
		id, err = b.AddEventListener(event, handler)
		return err
	}) {
		s.backend = b
		s.id = id
	}
	return s
}

// Emit sends an event to the host. No-op when absent.
func (a *Adapter) Emit(event string, payload any) {
	b := a.backend()
	if b == nil {
		return
	}
	a.guard("emitEvent", event, func() error {
		return b.EmitEvent(event, payload)
	})
}

type Subscription struct {
	a       *Adapter
	event   string
	backend Backend
	id      ListenerID

	once sync.Once
}

// Active reports whether the subscription reached a host.
func (s *Subscription) Active() bool {
	return s != nil && s.backend != nil
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.backend == nil {
		return
	}
	s.once.Do(func() {
		s.a.guard("removeEventListener", s.event, func() error {
			return s.backend.RemoveEventListener(s.event, s.id)
		})
	})
}

// Slider is a continuous parameter handle. Reads report ok=false on any
// host failure; writes report whether the host accepted them.
type Slider struct {
	a  *Adapter
	id string
	st SliderState
}

func (s *Slider) ID() string { return s.id }

func (s *Slider) Scaled() (float64, bool) {
	return s.read("getScaledValue", s.st.ScaledValue)
}

func (s *Slider) Normalized() (float64, bool) {
	return s.read("getNormalisedValue", s.st.NormalisedValue)
}

func (s *Slider) read(op string, get func() (float64, error)) (float64, bool) {
	var v float64
	ok := s.a.guard(op, s.id, func() error {
		var err error
		v, err = get()
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			err = fmt.Errorf("non-finite value %v", v)
		}
		return err
	})
	if !ok {
		return 0, false
	}
	return v, true
}

func (s *Slider) SetScaled(v float64) bool {
	return s.a.guard("setScaledValue", s.id, func() error { return s.st.SetScaledValue(v) })
}

func (s *Slider) SetNormalized(v float64) bool {
	return s.a.guard("setNormalisedValue", s.id, func() error { return s.st.SetNormalisedValue(v) })
}

func (s *Slider) DragStarted() bool {
	return s.a.guard("sliderDragStarted", s.id, s.st.DragStarted)
}

func (s *Slider) DragEnded() bool {
	return s.a.guard("sliderDragEnded", s.id, s.st.DragEnded)
}

func (s *Slider) Properties() (map[string]any, bool) {
	var p map[string]any
	ok := s.a.guard("getProperties", s.id, func() error {
		var err error
		p, err = s.st.Properties()
		return err
	})
	return p, ok
}

type Toggle struct {
	a  *Adapter
	id string
	st ToggleState
}

func (t *Toggle) ID() string { return t.id }

func (t *Toggle) Value() (bool, bool) {
	var v bool
	ok := t.a.guard("getValue", t.id, func() error {
		var err error
		v, err = t.st.Value()
		return err
	})
	return v, ok
}

func (t *Toggle) SetValue(v bool) bool {
	return t.a.guard("setValue", t.id, func() error { return t.st.SetValue(v) })
}

func (t *Toggle) Properties() (map[string]any, bool) {
	var p map[string]any
	ok := t.a.guard("getProperties", t.id, func() error {
		var err error
		p, err = t.st.Properties()
		return err
	})
	return p, ok
}
