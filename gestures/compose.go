package gestures

import "sort"

// Handler is a capability record: a priority plus any subset of gesture
// callbacks. Register wires each non-nil callback into the broadcast
// registry; the pan and pinch triples additionally get two-phase composition
// on top of the drag and pointer-down primitives.
type Handler struct {
	// Priority orders this handler against others listening to the same
	// gesture. Higher runs first.
	Priority int

	Hover     func(*GestureEvent)
	SingleTap func(*GestureEvent)
	DoubleTap func(*GestureEvent)
	Hold      func(*GestureEvent)
	Wheel     func(*GestureEvent)

	Idle        func()
	ActiveAgain func()

	// pan triple: all three or none
	PanStart func(*GestureEvent)
	PanMove  func(*GestureEvent)
	PanEnd   func(*GestureEvent)

	// pinch triple: all three or none. Move callbacks receive the latest
	// known event for each finger; if only one finger moved, the other
	// side's event is its last known position.
	PinchStart func(first, second *GestureEvent)
	PinchMove  func(first, second *GestureEvent)
	PinchEnd   func(*GestureEvent)
}

func (h Handler) panCount() int {
	n := 0
	for _, fn := range []func(*GestureEvent){h.PanStart, h.PanMove, h.PanEnd} {
		if fn != nil {
			n++
		}
	}
	return n
}

func (h Handler) pinchCount() int {
	n := 0
	if h.PinchStart != nil {
		n++
	}
	if h.PinchMove != nil {
		n++
	}
	if h.PinchEnd != nil {
		n++
	}
	return n
}

func (h Handler) hasAnyCallback() bool {
	return h.Hover != nil || h.SingleTap != nil || h.DoubleTap != nil ||
		h.Hold != nil || h.Wheel != nil || h.Idle != nil ||
		h.ActiveAgain != nil || h.panCount() > 0 || h.pinchCount() > 0
}

// Register validates the handler and installs its callbacks. Validation
// failures are reported here, synchronously, never during event processing.
// Must not be called from inside a running handler.
func (d *Dispatcher) Register(h Handler) (*Registration, error) {
	if !h.hasAnyCallback() {
		return nil, ErrNoCallbacks
	}
	if n := h.panCount(); n != 0 && n != 3 {
		return nil, ErrPanTriple
	}
	if n := h.pinchCount(); n != 0 && n != 3 {
		return nil, ErrPinchTriple
	}

	reg := &Registration{}
	add := func(gt GestureType, fn func(*GestureEvent)) {
		r := d.On([]GestureType{gt}, h.Priority, fn)
		reg.remove = append(reg.remove, r.Remove)
	}

	if h.Hover != nil {
		add(GestureHover, h.Hover)
	}
	if h.SingleTap != nil {
		add(GestureSingleTap, h.SingleTap)
	}
	if h.DoubleTap != nil {
		add(GestureDoubleTap, h.DoubleTap)
	}
	if h.Hold != nil {
		add(GestureHold, h.Hold)
	}
	if h.Wheel != nil {
		add(GestureWheel, h.Wheel)
	}
	if h.Idle != nil {
		add(GestureIdle, func(*GestureEvent) { h.Idle() })
	}
	if h.ActiveAgain != nil {
		add(GestureActiveAgain, func(*GestureEvent) { h.ActiveAgain() })
	}
	if h.panCount() == 3 {
		add(GestureDragStart, d.composePan(h))
	}
	if h.pinchCount() == 3 {
		add(GesturePointerDown, d.composePinch(h))
	}
	return reg, nil
}

// composePan returns the dragStart listener that builds the pan gesture.
// panStart sees every drag start; only if it captures does the composer
// attach panMove/panEnd to that specific track's continuing primitives,
// which the track discards when it recycles.
func (d *Dispatcher) composePan(h Handler) func(*GestureEvent) {
	return func(e *GestureEvent) {
		h.PanStart(e)
		if !e.Captured() {
			return
		}
		t := d.trackAt(e.Slot)
		if t == nil {
			return
		}
		t.on([]GestureType{GestureDragMove}, h.PanMove)
		t.on([]GestureType{GestureDragEnd}, h.PanEnd)
	}
}

// composePinch returns the pointerDown listener that pairs two pointers into
// a pinch. For each new down it scans the other tracks still in the detect
// state, takes their most recent buffered down events newest first, skips
// partners outside PinchMaxInterval, and offers each pair to pinchStart
// until one is captured.
func (d *Dispatcher) composePinch(h Handler) func(*GestureEvent) {
	return func(e1 *GestureEvent) {
		t1 := d.trackAt(e1.Slot)
		if t1 == nil {
			return
		}

		type candidate struct {
			t    *Track
			down PointerEvent
		}
		var candidates []candidate
		for _, t2 := range d.tracks {
			if t2 == nil || t2 == t1 || t2.state != StateDetect {
				continue
			}
			if down, ok := t2.lastDown(); ok {
				candidates = append(candidates, candidate{t: t2, down: down})
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].down.Time.After(candidates[j].down.Time)
		})

		for _, c := range candidates {
			dt := e1.Raw.Time.Sub(c.down.Time)
			if dt < 0 {
				dt = -dt
			}
			if dt > d.cfg.PinchMaxInterval {
				continue
			}

			e2 := &GestureEvent{Type: GesturePointerDown, Slot: c.t.slot, Raw: c.down}
			h.PinchStart(e1, e2)
			if !e1.Captured() {
				continue
			}

			// no spurious holds while pinching
			t1.cancelTimer()
			c.t.cancelTimer()

			wirePinch(h, t1, c.t, e1, e2)
			return
		}
	}
}

// pinchLink carries the latest known event for each finger so a move on one
// side reuses the stale-but-present position of the other. Ending either
// finger tears the whole gesture down exactly once.
type pinchLink struct {
	h      Handler
	first  *GestureEvent
	second *GestureEvent
	done   bool
}

func wirePinch(h Handler, t1, t2 *Track, e1, e2 *GestureEvent) {
	link := &pinchLink{h: h, first: e1, second: e2}

	moveTypes := []GestureType{GestureDragStart, GestureDragMove}
	endTypes := []GestureType{GestureDragEnd}

	t1.on(moveTypes, func(e *GestureEvent) {
		e.Capture()
		if link.done {
			return
		}
		link.first = e
		link.h.PinchMove(link.first, link.second)
	})
	t2.on(moveTypes, func(e *GestureEvent) {
		e.Capture()
		if link.done {
			return
		}
		link.second = e
		link.h.PinchMove(link.first, link.second)
	})

	end := func(e *GestureEvent) {
		e.Capture()
		if link.done {
			return
		}
		link.done = true
		link.first, link.second = nil, nil
		link.h.PinchEnd(e)
	}
	t1.on(endTypes, end)
	t2.on(endTypes, end)
}
