//go:build js && wasm

// Package jsbridge implements bridge.Host over the plugin WebView's
// window.__JUCE__ object.
package jsbridge

import (
	"errors"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/san-kum/sway/internal/bridge"
)

const global = "__JUCE__"

var errNoHost = errors.New("jsbridge: host object missing")

// Locate is a bridge.Locator that resolves window.__JUCE__ on every
// call.
func Locate() bridge.Host {
	juce := js.Global().Get(global)
	if juce.IsUndefined() || juce.IsNull() {
		return nil
	}
	return &host{juce: juce, backend: &backend{juce: juce}}
}

type host struct {
	juce    js.Value
	backend *backend
}

func (h *host) SliderState(id string) (bridge.SliderState, error) {
	fn := h.juce.Get("getSliderState")
	if fn.Type() != js.TypeFunction {
		return nil, errNoHost
	}
	st := h.juce.Call("getSliderState", id)
	if st.IsUndefined() || st.IsNull() {
		return nil, fmt.Errorf("jsbridge: no slider %q", id)
	}
	return &slider{v: st}, nil
}

func (h *host) ToggleState(id string) (bridge.ToggleState, error) {
	fn := h.juce.Get("getToggleState")
	if fn.Type() != js.TypeFunction {
		return nil, errNoHost
	}
	st := h.juce.Call("getToggleState", id)
	if st.IsUndefined() || st.IsNull() {
		return nil, fmt.Errorf("jsbridge: no toggle %q", id)
	}
	return &toggle{v: st}, nil
}

func (h *host) Backend() bridge.Backend { return h.backend }

type slider struct{ v js.Value }

func (s *slider) ScaledValue() (float64, error) {
	return number(s.v.Call("getScaledValue"))
}

func (s *slider) NormalisedValue() (float64, error) {
	return number(s.v.Call("getNormalisedValue"))
}

func (s *slider) SetScaledValue(v float64) error {
	s.v.Call("setScaledValue", v)
	return nil
}

func (s *slider) SetNormalisedValue(v float64) error {
	s.v.Call("setNormalisedValue", v)
	return nil
}

func (s *slider) DragStarted() error {
	s.v.Call("sliderDragStarted")
	return nil
}

func (s *slider) DragEnded() error {
	s.v.Call("sliderDragEnded")
	return nil
}

func (s *slider) Properties() (map[string]any, error) {
	return object(s.v.Call("getProperties")), nil
}

type toggle struct{ v js.Value }

func (t *toggle) Value() (bool, error) {
	r := t.v.Call("getValue")
	if r.Type() != js.TypeBoolean {
		return false, fmt.Errorf("jsbridge: toggle value is %s", r.Type())
	}
	return r.Bool(), nil
}

func (t *toggle) SetValue(v bool) error {
	t.v.Call("setValue", v)
	return nil
}

func (t *toggle) Properties() (map[string]any, error) {
	return object(t.v.Call("getProperties")), nil
}

type backend struct {
	juce js.Value

	mu    sync.Mutex
	next  bridge.ListenerID
	funcs map[bridge.ListenerID]js.Func
}

func (b *backend) be() js.Value { return b.juce.Get("backend") }

func (b *backend) AddEventListener(event string, fn func(any)) (bridge.ListenerID, error) {
	be := b.be()
	if be.IsUndefined() {
		return 0, errNoHost
	}
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		var payload any
		if len(args) > 0 {
			payload = toGo(args[0])
		}
		fn(payload)
		return nil
	})
	be.Call("addEventListener", event, f)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.funcs == nil {
		b.funcs = map[bridge.ListenerID]js.Func{}
	}
	b.next++
	b.funcs[b.next] = f
	return b.next, nil
}

func (b *backend) RemoveEventListener(event string, id bridge.ListenerID) error {
	b.mu.Lock()
	f, ok := b.funcs[id]
	delete(b.funcs, id)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	// the host matches listeners by function identity
	if be := b.be(); !be.IsUndefined() {
		be.Call("removeEventListener", event, f)
	}
	f.Release()
	return nil
}

func (b *backend) EmitEvent(event string, payload any) error {
	be := b.be()
	if be.IsUndefined() {
		return errNoHost
	}
	be.Call("emitEvent", event, js.ValueOf(payload))
	return nil
}

func number(v js.Value) (float64, error) {
	if v.Type() != js.TypeNumber {
		return 0, fmt.Errorf("jsbridge: expected number, got %s", v.Type())
	}
	return v.Float(), nil
}

func object(v js.Value) map[string]any {
	m, _ := toGo(v).(map[string]any)
	return m
}

// toGo converts a JS value into the generic shapes telemetry.Decode
// understands: map[string]any, []any, float64, bool and string.
func toGo(v js.Value) any {
	switch v.Type() {
	case js.TypeNumber:
		return v.Float()
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeString:
		return v.String()
	case js.TypeObject:
		if js.Global().Get("Array").Call("isArray", v).Bool() {
			out := make([]any, v.Length())
			for i := range out {
				out[i] = toGo(v.Index(i))
			}
			return out
		}
		keys := js.Global().Get("Object").Call("keys", v)
		out := make(map[string]any, keys.Length())
		for i := 0; i < keys.Length(); i++ {
			k := keys.Index(i).String()
			out[k] = toGo(v.Get(k))
		}
		return out
	}
	return nil
}
