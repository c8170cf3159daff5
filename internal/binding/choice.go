package binding

import (
	"math"

	"github.com/san-kum/sway/internal/bridge"
)

// Choice mirrors a discrete parameter carried by the host as a
// continuous slider with evenly spaced integer values from 0.
type Choice struct {
	id    string
	count int
	opts  Options
	r     reconciler

	value    cell[int]
	slider   *bridge.Slider
	dragging bool
	mounted  bool
}

func NewChoice(id string, count, def int, opts Options) *Choice {
	if count < 1 {
		count = 1
	}
	opts = opts.withDefaults()
	c := &Choice{id: id, count: count, opts: opts, r: reconciler{opts: opts}}
	c.value.v = c.clamp(def)
	return c
}

func (c *Choice) ID() string { return c.id }

func (c *Choice) Count() int { return c.count }

func (c *Choice) Value() int { return c.value.v }

func (c *Choice) State() State {
	switch {
	case c.slider == nil:
		return Detached
	case c.dragging:
		return BoundDragging
	default:
		return BoundIdle
	}
}

func (c *Choice) Watch(fn func(int)) (cancel func()) {
	return c.value.watch(fn)
}

func (c *Choice) clamp(k int) int {
	return max(0, min(c.count-1, k))
}

func (c *Choice) fromScaled(v float64) int {
	return c.clamp(int(math.Round(v)))
}

func (c *Choice) Mount() {
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
		c.value.set(c.fromScaled(v))
	}
	c.r.start(c.reconcile)
}

func (c *Choice) reconcile() {
	if c.slider == nil || c.dragging {
		return
	}
	if v, ok := c.slider.Scaled(); ok {
		c.value.set(c.fromScaled(v))
	}
}

// SetChoice selects option k, clamped to the valid range, and writes the
// integer through as the host's scaled value.
func (c *Choice) SetChoice(k int) {
	k = c.clamp(k)
	c.value.set(k)
	if c.slider != nil {
		c.slider.SetScaled(float64(k))
	}
}

// Step moves the selection by delta, wrapping around.
func (c *Choice) Step(delta int) {
	k := ((c.value.v+delta)%c.count + c.count) % c.count
	c.SetChoice(k)
}

func (c *Choice) BeginDrag() {
	if c.dragging {
		return
	}
	c.dragging = true
	if c.slider != nil {
		c.slider.DragStarted()
	}
}

func (c *Choice) EndDrag() {
	if !c.dragging {
		return
	}
	c.dragging = false
	if c.slider != nil {
		c.slider.DragEnded()
	}
}

func (c *Choice) Unmount() {
	if !c.mounted {
		return
	}
	c.EndDrag()
	c.r.stop()
	c.slider = nil
	c.mounted = false
}
