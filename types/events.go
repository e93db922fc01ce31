package types

// RawPointerEvent is the wire shape of one raw input event, as streamed by
// clients over the websocket and stored in replay recordings (one JSON
// object per line).
type RawPointerEvent struct {
	// "down", "up", "move", "cancel" or "wheel"
	Kind string `json:"kind"`

	PointerID int64 `json:"pointerId"`

	// "mouse", "touch" or "pen"
	Device string `json:"device"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	Pressure float64 `json:"pressure,omitempty"`
	TiltX    float64 `json:"tiltX,omitempty"`
	TiltY    float64 `json:"tiltY,omitempty"`

	DeltaX float64 `json:"deltaX,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`

	// milliseconds; absolute for live streams, relative to recording start
	// for replay files
	TimestampMs float64 `json:"timestampMs"`
}

// GestureEventMessage is the wire shape of one recognized gesture, streamed
// back to the originating client and printed by the replay command.
type GestureEventMessage struct {
	Gesture   string  `json:"gesture"`
	Slot      int     `json:"slot"`
	PointerID int64   `json:"pointerId,omitempty"`
	Device    string  `json:"device,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	SpeedX    float64 `json:"speedX"`
	SpeedY    float64 `json:"speedY"`
	DeltaX    float64 `json:"deltaX,omitempty"`
	DeltaY    float64 `json:"deltaY,omitempty"`

	TimestampMs float64 `json:"timestampMs"`

	// Partner is the other finger's last known event for pinch gestures.
	Partner *PartnerPoint `json:"partner,omitempty"`
}

// PartnerPoint is the position of a pinch counterpart.
type PartnerPoint struct {
	Slot      int     `json:"slot"`
	PointerID int64   `json:"pointerId,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}
