package binding

import (
	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/params"
)

// Continuous mirrors a scaled host parameter.
type Continuous struct {
	id   string
	opts Options
	r    reconciler

	value    cell[float64]
	slider   *bridge.Slider
	dragging bool
	mounted  bool
}

func NewContinuous(id string, def float64, opts Options) *Continuous {
	opts = opts.withDefaults()
	c := &Continuous{id: id, opts: opts, r: reconciler{opts: opts}}
	c.value.v = def
	return c
}

func (c *Continuous) ID() string { return c.id }

func (c *Continuous) Value() float64 { return c.value.v }

func (c *Continuous) State() State {
	switch {
	case c.slider == nil:
		return Detached
	case c.dragging:
		return BoundDragging
	default:
		return BoundIdle
	}
}

// Dragging reports whether a gesture is in progress, bound or not.
func (c *Continuous) Dragging() bool { return c.dragging }

// Watch calls fn with every new local value until the returned cancel
// func is called.
func (c *Continuous) Watch(fn func(float64)) (cancel func()) {
	return c.value.watch(fn)
}

// Mount binds to the host when one is present, adopting its current
// value and starting reconciliation. Without a host the binding stays
// Detached and fully usable.
func (c *Continuous) Mount() {
	if c.mounted {
		return
	}
	c.mounted = true

	a := c.opts.Adapter
	if !a.IsHostPresent() {
		return
	}
	s, ok := a.Slider(c.id)
	if !ok {
		c.opts.Logger.Debug("binding detached", "id", c.id)
		return
	}
	c.slider = s
	if v, ok := s.Scaled(); ok {
		c.value.set(v)
	}
	c.r.start(c.reconcile)
}

func (c *Continuous) reconcile() {
	if c.slider == nil || c.dragging {
		return
	}
	if v, ok := c.slider.Scaled(); ok {
		c.value.set(v)
	}
}

// SetValue updates the local value and writes it through to the host.
func (c *Continuous) SetValue(v float64) {
	c.value.set(v)
	if c.slider != nil {
		c.slider.SetScaled(v)
	}
}

// SetNormalized writes a [0,1] value. When bound the host's mapping
// decides the resulting scaled value; detached, the registry's range is
// used when the id is known.
func (c *Continuous) SetNormalized(n float64) {
	if c.slider != nil {
		c.slider.SetNormalized(n)
		if v, ok := c.slider.Scaled(); ok {
			c.value.set(v)
		}
		return
	}
	if d, err := params.Lookup(c.id); err == nil {
		c.value.set(d.Denormalize(n))
		return
	}
	c.value.set(n)
}

// BeginDrag starts a gesture and tells the host.
func (c *Continuous) BeginDrag() {
	if c.dragging {
		return
	}
	c.dragging = true
	if c.slider != nil {
		c.slider.DragStarted()
	}
}

// EndDrag ends the gesture and resumes reconciliation.
func (c *Continuous) EndDrag() {
	if !c.dragging {
		return
	}
	c.dragging = false
	if c.slider != nil {
		c.slider.DragEnded()
	}
}

// Unmount ends any open gesture and cancels reconciliation. No callback
// of this binding runs after Unmount returns.
func (c *Continuous) Unmount() {
	if !c.mounted {
		return
	}
	c.EndDrag()
	c.r.stop()
	c.slider = nil
	c.mounted = false
}
