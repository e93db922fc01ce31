// Package gestures converts raw multi-device pointer/touch/wheel input into
// higher-level gestures (hover, tap, double-tap, hold, pan, pinch) via a
// per-pointer state machine and a priority-ordered, capturable dispatcher.
package gestures

import "time"

// EventKind is the low-level type of a raw pointer event.
type EventKind uint8

const (
	KindDown EventKind = iota
	KindUp
	KindMove
	KindCancel
	KindWheel
)

func (k EventKind) String() string {
	switch k {
	case KindDown:
		return "down"
	case KindUp:
		return "up"
	case KindMove:
		return "move"
	case KindCancel:
		return "cancel"
	case KindWheel:
		return "wheel"
	}
	return "unknown"
}

// Device identifies the physical input device behind a pointer.
type Device string

const (
	DeviceMouse Device = "mouse"
	DeviceTouch Device = "touch"
	DevicePen   Device = "pen"
)

// PointerEvent is one raw input event as delivered by the host platform.
type PointerEvent struct {
	Kind      EventKind
	PointerID int64
	Device    Device

	// client coordinates in device pixels
	X, Y float64

	// optional contact data (touch/pen)
	Pressure     float64
	TiltX, TiltY float64

	// wheel deltas, only meaningful for KindWheel
	DeltaX, DeltaY float64

	Time time.Time
}

// GestureType tags a recognized gesture event.
type GestureType string

const (
	GestureHover       GestureType = "hover"
	GesturePointerDown GestureType = "pointerDown"
	GestureDragStart   GestureType = "dragStart"
	GestureDragMove    GestureType = "dragMove"
	GestureDragEnd     GestureType = "dragEnd"
	GestureSingleTap   GestureType = "singleTap"
	GestureDoubleTap   GestureType = "doubleTap"
	GestureHold        GestureType = "hold"
	GestureWheel       GestureType = "wheel"

	// dispatcher-level activity events; Slot is -1 and Raw is zero
	GestureIdle        GestureType = "wentIdle"
	GestureActiveAgain GestureType = "activeAgain"
)

// GestureEvent is a recognized gesture emitted by a pointer track (or, for
// idle/activeAgain, by the dispatcher itself). Handlers receive a shared
// pointer so that Capture is visible to the rest of the dispatch chain.
type GestureEvent struct {
	Type GestureType

	// Slot is the owning track's pool index, -1 for dispatcher-level events.
	Slot int

	// Raw is the raw event that produced this gesture.
	Raw PointerEvent

	// pointer speed in px/s, zero when there is no usable previous sample
	SpeedX, SpeedY float64

	captured bool
}

// Capture marks the event as consumed. Lower-priority handlers are skipped,
// and for pointerDown/dragStart it authorizes pan/pinch continuation wiring.
func (e *GestureEvent) Capture() { e.captured = true }

// Captured reports whether some handler captured the event.
func (e *GestureEvent) Captured() bool { return e.captured }
