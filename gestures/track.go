package gestures

import (
	"github.com/gesture-next/gesturecli/utils"
)

// State is the recognition state of a single pointer track.
type State uint8

const (
	StateIdle State = iota
	StateDetect
	StateHover
	StateMoving
	StateTapsDetect
	StateDoubleTapDetect
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetect:
		return "detect"
	case StateHover:
		return "hover"
	case StateMoving:
		return "moving"
	case StateTapsDetect:
		return "tapsDetect"
	case StateDoubleTapDetect:
		return "doubleTapDetect"
	}
	return "unknown"
}

type timerKind uint8

const (
	timerNone timerKind = iota
	timerHold
	timerTap
)

// stepInput is one stimulus for the pure transition function: either a raw
// event kind or the expiry of the pending timer.
type stepInput struct {
	kind  EventKind
	timer bool // timer expiry; kind is ignored
	moved bool // displacement from the down anchor exceeds the move threshold
}

// stepResult describes the outcome of a transition. When capturable is set
// and a listener captures the first emitted event, next is replaced by
// capturedNext and no timer is started.
type stepResult struct {
	next  State
	emit  []GestureType
	start timerKind

	capturable   bool
	capturedNext State
}

// step is the pure per-pointer transition function. It performs no side
// effects; the Track wrapper applies emissions and timer changes. The second
// return value is false for stimuli that are unreachable from s, which the
// caller logs and discards.
func step(s State, in stepInput) (stepResult, bool) {
	// wheel bypasses the state machine entirely
	if !in.timer && in.kind == KindWheel {
		return stepResult{next: s, emit: []GestureType{GestureWheel}}, true
	}

	switch s {
	case StateIdle, StateHover:
		if in.timer {
			break
		}
		switch in.kind {
		case KindMove:
			return stepResult{next: StateHover, emit: []GestureType{GestureHover}}, true
		case KindDown:
			// a capturing pointerDown listener (pinch composer) suppresses
			// hold detection and moves straight to dragging
			return stepResult{
				next:         StateDetect,
				emit:         []GestureType{GesturePointerDown},
				start:        timerHold,
				capturable:   true,
				capturedNext: StateMoving,
			}, true
		}

	case StateDetect:
		if in.timer {
			return stepResult{next: StateIdle, emit: []GestureType{GestureHold}}, true
		}
		switch in.kind {
		case KindCancel:
			// matches the long-standing upstream behavior: a cancelled press
			// is reported as a hold
			return stepResult{next: StateIdle, emit: []GestureType{GestureHold}}, true
		case KindMove:
			if in.moved {
				return stepResult{next: StateMoving, emit: []GestureType{GestureDragStart}}, true
			}
			return stepResult{next: StateDetect}, true
		case KindUp:
			return stepResult{next: StateTapsDetect, start: timerTap}, true
		}

	case StateTapsDetect:
		if in.timer {
			return stepResult{next: StateIdle, emit: []GestureType{GestureSingleTap}}, true
		}
		switch in.kind {
		case KindDown:
			return stepResult{next: StateDoubleTapDetect, start: timerTap}, true
		case KindMove:
			if in.moved {
				return stepResult{next: StateIdle, emit: []GestureType{GestureHover}}, true
			}
			return stepResult{next: StateTapsDetect}, true
		}

	case StateDoubleTapDetect:
		if in.timer {
			return stepResult{next: StateIdle, emit: []GestureType{GestureHold}}, true
		}
		switch in.kind {
		case KindUp, KindCancel:
			return stepResult{next: StateIdle, emit: []GestureType{GestureDoubleTap}}, true
		case KindMove:
			if in.moved {
				return stepResult{next: StateMoving, emit: []GestureType{GestureDragStart}}, true
			}
			return stepResult{next: StateDoubleTapDetect}, true
		}

	case StateMoving:
		if in.timer {
			break
		}
		switch in.kind {
		case KindMove:
			return stepResult{next: StateMoving, emit: []GestureType{GestureDragMove}}, true
		case KindUp, KindCancel:
			return stepResult{next: StateIdle, emit: []GestureType{GestureDragEnd}}, true
		}
	}

	return stepResult{}, false
}

// Track is the per-pointer state machine instance: the pure step function
// plus its side effects (history, velocity, one cancellable timer, per-track
// handler overrides).
type Track struct {
	d *Dispatcher

	slot      int
	pointerID int64
	device    Device

	state   State
	pressed bool

	// down anchor in client px, displacement baseline for move thresholds
	downX, downY float64

	history *History

	// at most one pending timer; gen invalidates callbacks from stale timers
	timer Timer
	gen   uint64

	// per-track primitive handlers; registration overwrites per type, and
	// everything is dropped when the track recycles
	handlers map[GestureType]func(*GestureEvent)
}

func newTrack(d *Dispatcher, slot int, e PointerEvent) *Track {
	return &Track{
		d:         d,
		slot:      slot,
		pointerID: e.PointerID,
		device:    e.Device,
		history:   NewHistory(d.cfg.HistoryCapacity),
	}
}

// Slot returns the track's stable pool index.
func (t *Track) Slot() int { return t.slot }

// State returns the current recognition state.
func (t *Track) State() State { return t.state }

// claims reports whether e belongs to this track: either the low-level id
// matches, or a fresh down of the same device type lands close enough to the
// last known position to be the same physical pointer under a new id
// (stylus hover-to-touch transitions and similar id churn).
func (t *Track) claims(e PointerEvent) bool {
	if e.PointerID == t.pointerID {
		return true
	}
	if e.Kind != KindDown || t.pressed || e.Device != t.device {
		return false
	}
	last, ok := t.history.Last()
	if !ok {
		return false
	}
	return t.d.distanceMM(e.X-last.X, e.Y-last.Y) <= t.d.cfg.ReidentifyMM
}

// process advances the state machine with one raw event.
func (t *Track) process(e PointerEvent) {
	// adopt the incoming id on down so re-identified pointers stay claimed
	if e.Kind == KindDown {
		t.pointerID = e.PointerID
		t.device = e.Device
	}

	// the down anchor is valid in every state entered through a down, which
	// includes the tap-window states where the pointer is already up
	in := stepInput{kind: e.Kind}
	if e.Kind == KindMove && t.state != StateIdle && t.state != StateHover {
		in.moved = t.d.distanceMM(e.X-t.downX, e.Y-t.downY) > t.d.cfg.MoveThresholdMM
	}

	res, ok := step(t.state, in)
	if !ok {
		// malformed or out-of-order device input must never crash the host
		utils.Verbose("gestures: discarding %s for pointer %d in state %s", e.Kind, e.PointerID, t.state)
		return
	}

	switch e.Kind {
	case KindDown:
		t.pressed = true
		t.downX, t.downY = e.X, e.Y
	case KindUp, KindCancel:
		t.pressed = false
	}

	speedX, speedY := t.velocity(e)
	t.history.Push(e)
	t.apply(res, e, speedX, speedY)
}

// fireTimer advances the state machine with a timer-expiry stimulus.
func (t *Track) fireTimer() {
	t.timer = nil
	res, ok := step(t.state, stepInput{timer: true})
	if !ok {
		utils.Verbose("gestures: stray timer for pointer %d in state %s", t.pointerID, t.state)
		return
	}
	last, _ := t.history.Last()
	t.apply(res, last, 0, 0)
}

// apply emits the transition's events and installs the new state and timer.
// Entering a state cancels any timer that does not belong to it.
func (t *Track) apply(res stepResult, e PointerEvent, speedX, speedY float64) {
	var captured bool
	for i, gt := range res.emit {
		ge := &GestureEvent{
			Type:   gt,
			Slot:   t.slot,
			Raw:    e,
			SpeedX: speedX,
			SpeedY: speedY,
		}
		t.emit(ge)
		if i == 0 && ge.Captured() {
			captured = true
		}
	}

	next := res.next
	start := res.start
	if captured && res.capturable {
		next = res.capturedNext
		start = timerNone
	}

	if start != timerNone {
		t.cancelTimer()
		t.startTimer(start)
	} else if next != t.state {
		t.cancelTimer()
	}
	t.state = next
}

// emit delivers the event to the track-scoped handler first (most recent
// registrant only), then to the broadcast registry unless captured.
func (t *Track) emit(ge *GestureEvent) {
	if fn := t.handlers[ge.Type]; fn != nil {
		fn(ge)
		if ge.Captured() {
			return
		}
	}
	t.d.broadcast(ge)
}

// velocity computes px/s speeds against the previous buffered event.
func (t *Track) velocity(e PointerEvent) (float64, float64) {
	last, ok := t.history.Last()
	if !ok {
		return 0, 0
	}
	dt := e.Time.Sub(last.Time).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	return (e.X - last.X) / dt, (e.Y - last.Y) / dt
}

func (t *Track) startTimer(k timerKind) {
	d := t.d.cfg.TapDelay
	if k == timerHold {
		d = t.d.cfg.HoldDelay
	}
	t.gen++
	gen := t.gen
	t.timer = t.d.clock.AfterFunc(d, func() {
		t.d.onTrackTimer(t, gen)
	})
}

func (t *Track) cancelTimer() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// lastDown returns the most recent buffered down event, scanning newest
// first. Used by the pinch composer to find gesture partners.
func (t *Track) lastDown() (PointerEvent, bool) {
	for i := t.history.Len() - 1; i >= 0; i-- {
		e, _ := t.history.At(i)
		if e.Kind == KindDown {
			return e, true
		}
	}
	return PointerEvent{}, false
}

// on installs a track-scoped handler for each type, replacing any previous
// registrant. Unlike the broadcast registry, only the most recent handler
// per type is active; pan/pinch continuations rely on exactly one handler.
func (t *Track) on(types []GestureType, fn func(*GestureEvent)) {
	if t.handlers == nil {
		t.handlers = make(map[GestureType]func(*GestureEvent))
	}
	for _, gt := range types {
		t.handlers[gt] = fn
	}
}

// off removes the track-scoped handlers for the given types.
func (t *Track) off(types []GestureType) {
	for _, gt := range types {
		delete(t.handlers, gt)
	}
}

// destroy releases the track's timer and handlers when it recycles.
func (t *Track) destroy() {
	t.cancelTimer()
	t.handlers = nil
}
