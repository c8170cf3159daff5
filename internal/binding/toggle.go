package binding

import "github.com/san-kum/sway/internal/bridge"

// Toggle mirrors a boolean host parameter.
type Toggle struct {
	id   string
	opts Options
	r    reconciler

	value   cell[bool]
	state   *bridge.Toggle
	mounted bool
}

func NewToggle(id string, def bool, opts Options) *Toggle {
	opts = opts.withDefaults()
	t := &Toggle{id: id, opts: opts, r: reconciler{opts: opts}}
	t.value.v = def
	return t
}

func (t *Toggle) ID() string { return t.id }

func (t *Toggle) Value() bool { return t.value.v }

func (t *Toggle) State() State {
	if t.state == nil {
		return Detached
	}
	return BoundIdle
}

func (t *Toggle) Watch(fn func(bool)) (cancel func()) {
	return t.value.watch(fn)
}

func (t *Toggle) Mount() {
	if t.mounted {
		return
	}
	t.mounted = true

	a := t.opts.Adapter
	if !a.IsHostPresent() {
		return
	}
	st, ok := a.Toggle(t.id)
	if !ok {
		t.opts.Logger.Debug("binding detached", "id", t.id)
		return
	}
	t.state = st
	if v, ok := st.Value(); ok {
		t.value.set(v)
	}
	t.r.start(t.reconcile)
}

func (t *Toggle) reconcile() {
	if t.state == nil {
		return
	}
	if v, ok := t.state.Value(); ok {
		t.value.set(v)
	}
}

func (t *Toggle) SetValue(v bool) {
	t.value.set(v)
	if t.state != nil {
		t.state.SetValue(v)
	}
}

// Flip inverts the current value.
func (t *Toggle) Flip() {
	t.SetValue(!t.value.v)
}

func (t *Toggle) Unmount() {
	if !t.mounted {
		return
	}
	t.r.stop()
	t.state = nil
	t.mounted = false
}
