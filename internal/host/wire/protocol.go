package wire

import "github.com/fxamacker/cbor/v2"

// Actions understood by the server.
const (
	ActionSliderLookup    = "slider.lookup"
	ActionSliderGet       = "slider.get"
	ActionSliderSetScaled = "slider.set_scaled"
	ActionSliderSetNorm   = "slider.set_normalised"
	ActionSliderDrag      = "slider.drag"
	ActionSliderProps     = "slider.props"
	ActionToggleLookup    = "toggle.lookup"
	ActionToggleGet       = "toggle.get"
	ActionToggleSet       = "toggle.set"
	ActionToggleProps     = "toggle.props"
	ActionEmit            = "emit"
	ActionSubscribe       = "subscribe"
	ActionUnsubscribe     = "unsubscribe"
)

// Request is one client call. Only the fields an action needs are set.
// Flag selects the normalised value for slider.get, the drag start for
// slider.drag and the new state for toggle.set.
type Request struct {
	ID      uint64  `cbor:"id"`
	Action  string  `cbor:"action"`
	Param   string  `cbor:"param,omitempty"`
	Value   float64 `cbor:"value,omitempty"`
	Flag    bool    `cbor:"flag,omitempty"`
	Event   string  `cbor:"event,omitempty"`
	Payload any     `cbor:"payload,omitempty"`
}

// Message is a server reply (ID set) or a pushed event (ID zero).
type Message struct {
	ID      uint64          `cbor:"id,omitempty"`
	OK      bool            `cbor:"ok,omitempty"`
	Error   string          `cbor:"error,omitempty"`
	Data    cbor.RawMessage `cbor:"data,omitempty"`
	Event   string          `cbor:"event,omitempty"`
	Payload any             `cbor:"payload,omitempty"`
}
