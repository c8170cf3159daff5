// Package bridge is the single boundary between the UI and the plugin
// host. The host is consumed through the Host interface; when no host
// is attached the adapter runs in a first-class "absent" mode where
// reads report nothing and writes are no-ops.
package bridge

// SliderState is the host's handle on a continuous (or choice)
// parameter.
type SliderState interface {
	ScaledValue() (float64, error)
	NormalisedValue() (float64, error)
	SetScaledValue(v float64) error
	SetNormalisedValue(v float64) error
	DragStarted() error
	DragEnded() error
	Properties() (map[string]any, error)
}

// ToggleState is the host's handle on a boolean parameter.
type ToggleState interface {
	Value() (bool, error)
	SetValue(v bool) error
	Properties() (map[string]any, error)
}

// ListenerID identifies a registered event listener so it can be
// removed again.
type ListenerID uint64

// Backend carries named events in both directions.
type Backend interface {
	AddEventListener(event string, fn func(payload any)) (ListenerID, error)
	RemoveEventListener(event string, id ListenerID) error
	EmitEvent(event string, payload any) error
}

// Host is the host runtime object.
type Host interface {
	SliderState(id string) (SliderState, error)
	ToggleState(id string) (ToggleState, error)
	Backend() Backend
}

// Locator finds the host runtime object, returning nil when none is
// attached. It is consulted on every presence check.
type Locator func() Host

// Static returns a Locator that always yields h.
func Static(h Host) Locator {
	return func() Host { return h }
}

// None is the Locator of a UI running without a host.
func None() Host { return nil }
