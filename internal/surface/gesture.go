package surface

import (
	"time"

	"github.com/san-kum/sway/internal/binding"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/scene"
)

// GestureIdle ends a keyboard gesture once no adjustment arrived for
// this long.
const GestureIdle = 300 * time.Millisecond

// stepFor is one keyboard increment: a hundredth of the range (a tenth
// when coarse), or one step for stepped parameters.
func stepFor(def params.Def, coarse bool) float64 {
	if def.Step >= 1 {
		if coarse {
			return def.Step * 2
		}
		return def.Step
	}
	span := def.Max - def.Min
	if coarse {
		return span / 10
	}
	return span / 100
}

// Keys brackets runs of keyboard nudges on one knob in a single host
// gesture: the first nudge starts it, Tick ends it after GestureIdle.
type Keys struct {
	bank *binding.Bank
	id   string
	last time.Time
}

func NewKeys(bank *binding.Bank) *Keys { return &Keys{bank: bank} }

// Adjust nudges a control by dir steps. Choices step and toggles switch
// without a gesture.
func (k *Keys) Adjust(id string, dir int, coarse bool, now time.Time) {
	def := params.MustLookup(id)
	switch def.Kind {
	case params.Choice:
		k.bank.Choice(id).Step(dir)
		return
	case params.Toggle:
		k.bank.Toggle(id).SetValue(dir > 0)
		return
	}

	c := k.bank.Continuous(id)
	if k.id != id {
		k.End()
		c.BeginDrag()
		k.id = id
	}
	k.last = now
	c.SetValue(def.Snap(c.Value() + float64(dir)*stepFor(def, coarse)))
}

// Tick ends the gesture if it has gone idle.
func (k *Keys) Tick(now time.Time) {
	if k.id != "" && now.Sub(k.last) >= GestureIdle {
		k.End()
	}
}

func (k *Keys) End() {
	if k.id == "" {
		return
	}
	if c := k.bank.Continuous(k.id); c != nil {
		c.EndDrag()
	}
	k.id = ""
}

// Active names the knob being adjusted, if any.
func (k *Keys) Active() (string, bool) { return k.id, k.id != "" }

// Reset puts a control back to its default as one complete gesture.
func (k *Keys) Reset(id string) {
	def := params.MustLookup(id)
	switch def.Kind {
	case params.Choice:
		k.bank.Choice(id).SetChoice(int(def.Default))
	case params.Toggle:
		k.bank.Toggle(id).SetValue(def.Default >= 0.5)
	default:
		k.End()
		c := k.bank.Continuous(id)
		c.BeginDrag()
		c.SetValue(def.Default)
		c.EndDrag()
	}
}

// Pointer turns press, vertical motion and release on a knob into a
// host gesture. scale converts pointer units to canvas pixels; a full
// sweep is scene.DragPixels.
type Pointer struct {
	bank   *binding.Bank
	scale  float64
	id     string
	start  float64
	startY float64
}

func NewPointer(bank *binding.Bank, scale float64) *Pointer {
	if scale <= 0 {
		scale = 1
	}
	return &Pointer{bank: bank, scale: scale}
}

// Press acts on the control under the pointer. Continuous knobs start a
// drag; choices advance and toggles flip on click.
func (p *Pointer) Press(id string, y float64) {
	p.Release()
	def := params.MustLookup(id)
	switch def.Kind {
	case params.Choice:
		p.bank.Choice(id).Step(1)
	case params.Toggle:
		p.bank.Toggle(id).Flip()
	default:
		c := p.bank.Continuous(id)
		c.BeginDrag()
		p.id, p.start, p.startY = id, c.Value(), y
	}
}

// Move follows the pointer. Up raises the value.
func (p *Pointer) Move(y float64) {
	if p.id == "" {
		return
	}
	def := params.MustLookup(p.id)
	dy := (p.startY - y) * p.scale
	p.bank.Continuous(p.id).SetValue(def.Snap(scene.DragValue(p.start, dy, def.Min, def.Max)))
}

func (p *Pointer) Release() {
	if p.id == "" {
		return
	}
	p.bank.Continuous(p.id).EndDrag()
	p.id = ""
}

// Active names the knob being dragged, if any.
func (p *Pointer) Active() (string, bool) { return p.id, p.id != "" }
