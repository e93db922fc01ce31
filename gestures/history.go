package gestures

// DefaultHistoryCapacity is the per-track event history size.
const DefaultHistoryCapacity = 10

// History is a fixed-capacity ring buffer of raw pointer events. Index 0 is
// always the oldest retained event. It backs last-event lookup (velocity
// baseline, re-identification) and the pinch partner search.
type History struct {
	buf  []PointerEvent
	head int // index of the oldest element in buf
	size int
}

// NewHistory returns a buffer holding at most capacity events.
// Non-positive capacities fall back to DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{buf: make([]PointerEvent, capacity)}
}

// Len returns the number of buffered events.
func (h *History) Len() int { return h.size }

// Cap returns the fixed capacity.
func (h *History) Cap() int { return len(h.buf) }

func (h *History) index(i int) int { return (h.head + i) % len(h.buf) }

// Push appends e as the newest event, overwriting the oldest when full.
func (h *History) Push(e PointerEvent) {
	if h.size == len(h.buf) {
		h.buf[h.head] = e
		h.head = h.index(1)
		return
	}
	h.buf[h.index(h.size)] = e
	h.size++
}

// Enqueue inserts e as the oldest event, overwriting the newest when full.
func (h *History) Enqueue(e PointerEvent) {
	if h.size == len(h.buf) {
		h.size--
	}
	h.head = (h.head - 1 + len(h.buf)) % len(h.buf)
	h.buf[h.head] = e
	h.size++
}

// Pop removes and returns the newest event.
func (h *History) Pop() (PointerEvent, bool) {
	if h.size == 0 {
		return PointerEvent{}, false
	}
	h.size--
	return h.buf[h.index(h.size)], true
}

// Shift removes and returns the oldest event.
func (h *History) Shift() (PointerEvent, bool) {
	if h.size == 0 {
		return PointerEvent{}, false
	}
	e := h.buf[h.head]
	h.head = h.index(1)
	h.size--
	return e, true
}

// At returns the i-th buffered event, oldest first.
func (h *History) At(i int) (PointerEvent, bool) {
	if i < 0 || i >= h.size {
		return PointerEvent{}, false
	}
	return h.buf[h.index(i)], true
}

// Last returns the newest buffered event.
func (h *History) Last() (PointerEvent, bool) {
	return h.At(h.size - 1)
}

// Get returns the events in [start, end), oldest first, clamped to the
// buffered range. Wrap-around is handled transparently.
func (h *History) Get(start, end int) []PointerEvent {
	if start < 0 {
		start = 0
	}
	if end > h.size {
		end = h.size
	}
	if start >= end {
		return nil
	}
	out := make([]PointerEvent, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, h.buf[h.index(i)])
	}
	return out
}

// ToSlice returns all buffered events in chronological order.
func (h *History) ToSlice() []PointerEvent {
	return h.Get(0, h.size)
}
