package gestures

import (
	"math"
	"sort"
	"sync"

	"github.com/gesture-next/gesturecli/utils"
)

// Platform is the host side of pointer capture. Establishing exclusive
// capture on down and disabling the target's native gesture interpretation
// (the touch-action:none equivalent) are delegated to the platform; the
// engine only decides when.
type Platform interface {
	SetPointerCapture(pointerID int64)
	ReleasePointerCapture(pointerID int64)
	DisableNativeGestures()
}

type handlerEntry struct {
	id       uint64
	priority int
	fn       func(*GestureEvent)
}

// Registration is a handle for removing broadcast registrations.
type Registration struct {
	remove []func()
}

// Remove unregisters everything this registration installed. Safe to call
// more than once.
func (r *Registration) Remove() {
	for _, fn := range r.remove {
		fn()
	}
	r.remove = nil
}

// Dispatcher is the single entry point for raw input. It owns the pointer
// track pool, the broadcast handler registry, idle detection, and the pan
// and pinch composers.
//
// All processing is serialized: HandleEvent and every timer callback take
// the dispatcher lock, so handlers observe a single-threaded world and
// per-pointer event order is exactly arrival order.
type Dispatcher struct {
	mu       sync.Mutex
	cfg      Config
	clock    Clock
	platform Platform

	// sparse pool; a nil slot is reused before the pool grows
	tracks []*Track

	// broadcast registry, kept sorted by descending priority; ties keep
	// registration order
	registry map[GestureType][]handlerEntry
	nextID   uint64

	idle      bool
	idleTimer Timer
	idleGen   uint64
}

// NewDispatcher creates a dispatcher with the given thresholds. A nil clock
// selects SystemClock. The platform may be nil for embedded/offline use;
// when present, its native gesture handling is disabled immediately so the
// dispatcher has exclusive interpretation authority.
func NewDispatcher(cfg Config, clock Clock, platform Platform) *Dispatcher {
	if clock == nil {
		clock = SystemClock()
	}
	d := &Dispatcher{
		cfg:      cfg.withDefaults(),
		clock:    clock,
		platform: platform,
		registry: make(map[GestureType][]handlerEntry),
	}
	if platform != nil {
		platform.DisableNativeGestures()
	}
	d.mu.Lock()
	d.resetIdleLocked()
	d.mu.Unlock()
	return d
}

// Config returns the effective thresholds.
func (d *Dispatcher) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// SetPixelsPerMM updates the density calibration, e.g. after the host
// reports its real screen metrics.
func (d *Dispatcher) SetPixelsPerMM(ppmm float64) {
	if ppmm <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.PixelsPerMM = ppmm
}

// HandleEvent processes one raw input event synchronously: capture on down,
// idle bookkeeping, then routing to an existing track or a fresh one.
func (d *Dispatcher) HandleEvent(e PointerEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = d.clock.Now()
	}

	if e.Kind == KindDown && d.platform != nil {
		d.platform.SetPointerCapture(e.PointerID)
	}

	d.resetIdleLocked()

	t := d.claimLocked(e)
	t.process(e)

	if e.Kind == KindUp || e.Kind == KindCancel {
		if d.platform != nil {
			d.platform.ReleasePointerCapture(e.PointerID)
		}
	}

	d.recycleLocked(t)
}

// ActiveTracks returns the number of live pointer tracks.
func (d *Dispatcher) ActiveTracks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, t := range d.tracks {
		if t != nil {
			n++
		}
	}
	return n
}

// claimLocked offers e to live tracks in slot order and returns the first
// claimant, creating a new track in the lowest free slot when none claims.
func (d *Dispatcher) claimLocked(e PointerEvent) *Track {
	for _, t := range d.tracks {
		if t != nil && t.claims(e) {
			return t
		}
	}

	slot := -1
	for i, t := range d.tracks {
		if t == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		slot = len(d.tracks)
		d.tracks = append(d.tracks, nil)
	}

	t := newTrack(d, slot, e)
	d.tracks[slot] = t
	utils.Verbose("gestures: pointer %d (%s) assigned to slot %d", e.PointerID, e.Device, slot)
	return t
}

// recycleLocked frees the track's slot once its machine is back in idle.
func (d *Dispatcher) recycleLocked(t *Track) {
	if t.state != StateIdle {
		return
	}
	t.destroy()
	if t.slot < len(d.tracks) && d.tracks[t.slot] == t {
		d.tracks[t.slot] = nil
	}
}

// trackAt returns the live track in slot, if any.
func (d *Dispatcher) trackAt(slot int) *Track {
	if slot < 0 || slot >= len(d.tracks) {
		return nil
	}
	return d.tracks[slot]
}

// onTrackTimer delivers a timer expiry back into the engine under the
// dispatcher lock. Stale generations are cancelled timers that lost the
// race with Stop.
func (d *Dispatcher) onTrackTimer(t *Track, gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != t.gen || d.trackAt(t.slot) != t {
		return
	}
	t.fireTimer()
	d.recycleLocked(t)
}

// --- idle detection ---

func (d *Dispatcher) resetIdleLocked() {
	if d.idle {
		d.idle = false
		d.broadcast(&GestureEvent{Type: GestureActiveAgain, Slot: -1})
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}
	d.idleGen++
	gen := d.idleGen
	d.idleTimer = d.clock.AfterFunc(d.cfg.IdleDelay, func() {
		d.onIdleTimer(gen)
	})
}

func (d *Dispatcher) onIdleTimer(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.idleGen || d.idle {
		return
	}
	d.idle = true
	d.broadcast(&GestureEvent{Type: GestureIdle, Slot: -1})
}

// Idle reports whether the dispatcher currently considers input idle.
func (d *Dispatcher) Idle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.idle
}

// --- broadcast registry ---

// On registers fn for the given gesture types at the given priority and
// returns a removal handle. Higher priorities run first; equal priorities
// run in registration order. A handler that captures the event stops
// propagation to lower priorities.
func (d *Dispatcher) On(types []GestureType, priority int, fn func(*GestureEvent)) *Registration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.onLocked(types, priority, fn)
}

func (d *Dispatcher) onLocked(types []GestureType, priority int, fn func(*GestureEvent)) *Registration {
	reg := &Registration{}
	for _, gt := range types {
		d.nextID++
		entry := handlerEntry{id: d.nextID, priority: priority, fn: fn}

		entries := d.registry[gt]
		// insert after all entries with priority >= ours: stable order
		pos := sort.Search(len(entries), func(i int) bool {
			return entries[i].priority < priority
		})
		entries = append(entries, handlerEntry{})
		copy(entries[pos+1:], entries[pos:])
		entries[pos] = entry
		d.registry[gt] = entries

		gt, id := gt, entry.id
		reg.remove = append(reg.remove, func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.removeEntryLocked(gt, id)
		})
	}
	return reg
}

func (d *Dispatcher) removeEntryLocked(gt GestureType, id uint64) {
	entries := d.registry[gt]
	for i := range entries {
		if entries[i].id == id {
			d.registry[gt] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// OnTrack installs a track-scoped handler for the live track in slot. Per
// type, only the most recent registrant is active, and the handler is
// discarded when the track recycles.
func (d *Dispatcher) OnTrack(slot int, types []GestureType, fn func(*GestureEvent)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.trackAt(slot)
	if t == nil {
		return ErrNoSuchTrack
	}
	t.on(types, fn)
	return nil
}

// OffTrack removes track-scoped handlers for the given types.
func (d *Dispatcher) OffTrack(slot int, types []GestureType) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.trackAt(slot)
	if t == nil {
		return ErrNoSuchTrack
	}
	t.off(types)
	return nil
}

// broadcast invokes the registered handlers for the event's type in priority
// order, stopping once a handler captures the event. Callers hold the lock.
func (d *Dispatcher) broadcast(ge *GestureEvent) {
	entries := d.registry[ge.Type]
	if len(entries) == 0 {
		return
	}
	// handlers may register or remove handlers while running
	snapshot := make([]handlerEntry, len(entries))
	copy(snapshot, entries)
	for _, entry := range snapshot {
		entry.fn(ge)
		if ge.Captured() {
			return
		}
	}
}

// distanceMM converts a pixel displacement to millimetres.
func (d *Dispatcher) distanceMM(dx, dy float64) float64 {
	return math.Hypot(dx, dy) / d.cfg.PixelsPerMM
}
