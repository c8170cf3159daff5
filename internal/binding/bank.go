package binding

import (
	"github.com/san-kum/sway/internal/params"
)

// Bank holds one binding per registered parameter.
type Bank struct {
	continuous map[string]*Continuous
	choices    map[string]*Choice
	toggles    map[string]*Toggle
	order      []string
}

// NewBank creates a binding for every def, each starting at its default.
// Nothing touches the host until Mount.
func NewBank(defs []params.Def, opts Options) *Bank {
	b := &Bank{
		continuous: map[string]*Continuous{},
		choices:    map[string]*Choice{},
		toggles:    map[string]*Toggle{},
	}
	for _, d := range defs {
		switch d.Kind {
		case params.Continuous:
			b.continuous[d.ID] = NewContinuous(d.ID, d.Default, opts)
		case params.Choice:
			b.choices[d.ID] = NewChoice(d.ID, d.ChoiceCount(), int(d.Default), opts)
		case params.Toggle:
			b.toggles[d.ID] = NewToggle(d.ID, d.Default >= 0.5, opts)
		default:
			continue
		}
		b.order = append(b.order, d.ID)
	}
	return b
}

// Mount mounts every binding in registry order.
func (b *Bank) Mount() {
	for _, id := range b.order {
		switch {
		case b.continuous[id] != nil:
			b.continuous[id].Mount()
		case b.choices[id] != nil:
			b.choices[id].Mount()
		case b.toggles[id] != nil:
			b.toggles[id].Mount()
		}
	}
}

// Close unmounts every binding.
func (b *Bank) Close() {
	for _, id := range b.order {
		switch {
		case b.continuous[id] != nil:
			b.continuous[id].Unmount()
		case b.choices[id] != nil:
			b.choices[id].Unmount()
		case b.toggles[id] != nil:
			b.toggles[id].Unmount()
		}
	}
}

func (b *Bank) IDs() []string { return append([]string(nil), b.order...) }

func (b *Bank) Continuous(id string) *Continuous { return b.continuous[id] }

func (b *Bank) Choice(id string) *Choice { return b.choices[id] }

func (b *Bank) Toggle(id string) *Toggle { return b.toggles[id] }

// Value returns the scaled value of any binding; toggles read as 0 or 1.
func (b *Bank) Value(id string) (float64, bool) {
	if c := b.continuous[id]; c != nil {
		return c.Value(), true
	}
	if c := b.choices[id]; c != nil {
		return float64(c.Value()), true
	}
	if t := b.toggles[id]; t != nil {
		if t.Value() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Snapshot returns every current value keyed by id.
func (b *Bank) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(b.order))
	for _, id := range b.order {
		v, _ := b.Value(id)
		out[id] = v
	}
	return out
}

// Bound reports whether any binding reached the host.
func (b *Bank) Bound() bool {
	for _, c := range b.continuous {
		if c.State() != Detached {
			return true
		}
	}
	for _, c := range b.choices {
		if c.State() != Detached {
			return true
		}
	}
	for _, t := range b.toggles {
		if t.State() != Detached {
			return true
		}
	}
	return false
}
