package server

import (
	"fmt"
	"time"

	"github.com/gesture-next/gesturecli/gestures"
	"github.com/gesture-next/gesturecli/types"
)

// toPointerEvent converts the wire shape into an engine event.
func ToPointerEvent(raw types.RawPointerEvent) (gestures.PointerEvent, error) {
	kind, err := parseKind(raw.Kind)
	if err != nil {
		return gestures.PointerEvent{}, err
	}

	e := gestures.PointerEvent{
		Kind:      kind,
		PointerID: raw.PointerID,
		Device:    gestures.Device(raw.Device),
		X:         raw.X,
		Y:         raw.Y,
		Pressure:  raw.Pressure,
		TiltX:     raw.TiltX,
		TiltY:     raw.TiltY,
		DeltaX:    raw.DeltaX,
		DeltaY:    raw.DeltaY,
	}
	if raw.TimestampMs > 0 {
		e.Time = time.UnixMilli(int64(raw.TimestampMs))
	}
	return e, nil
}

func parseKind(kind string) (gestures.EventKind, error) {
	switch kind {
	case "down":
		return gestures.KindDown, nil
	case "up":
		return gestures.KindUp, nil
	case "move":
		return gestures.KindMove, nil
	case "cancel":
		return gestures.KindCancel, nil
	case "wheel":
		return gestures.KindWheel, nil
	}
	return 0, fmt.Errorf("unknown pointer event kind: %q", kind)
}

// gestureMessage flattens a recognized gesture into its wire shape.
func GestureMessage(name string, e *gestures.GestureEvent, partner *gestures.GestureEvent) *types.GestureEventMessage {
	msg := &types.GestureEventMessage{
		Gesture:     name,
		Slot:        e.Slot,
		PointerID:   e.Raw.PointerID,
		Device:      string(e.Raw.Device),
		X:           e.Raw.X,
		Y:           e.Raw.Y,
		SpeedX:      e.SpeedX,
		SpeedY:      e.SpeedY,
		DeltaX:      e.Raw.DeltaX,
		DeltaY:      e.Raw.DeltaY,
		TimestampMs: float64(e.Raw.Time.UnixMilli()),
	}
	if e.Raw.Time.IsZero() {
		msg.TimestampMs = 0
	}
	if partner != nil {
		msg.Partner = &types.PartnerPoint{
			Slot:      partner.Slot,
			PointerID: partner.Raw.PointerID,
			X:         partner.Raw.X,
			Y:         partner.Raw.Y,
		}
	}
	return msg
}
