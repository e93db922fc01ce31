package gestures

import "errors"

// Registration errors. These are reported synchronously from Register and
// never during event processing.
var (
	// ErrNoCallbacks means the handler exposes no recognized gesture callback.
	ErrNoCallbacks = errors.New("handler has no recognized gesture callbacks")

	// ErrPanTriple means only part of PanStart/PanMove/PanEnd was provided.
	ErrPanTriple = errors.New("pan handler requires PanStart, PanMove and PanEnd")

	// ErrPinchTriple means only part of PinchStart/PinchMove/PinchEnd was provided.
	ErrPinchTriple = errors.New("pinch handler requires PinchStart, PinchMove and PinchEnd")

	// ErrNoSuchTrack means the slot does not hold a live pointer track.
	ErrNoSuchTrack = errors.New("no live pointer track in slot")
)
