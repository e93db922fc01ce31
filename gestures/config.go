package gestures

import "time"

// Default recognition thresholds. Distances are millimetres so behavior is
// consistent across display densities; PixelsPerMM converts incoming pixel
// coordinates.
const (
	DefaultHoldDelay        = 600 * time.Millisecond
	DefaultTapDelay         = 100 * time.Millisecond
	DefaultPinchMaxInterval = 250 * time.Millisecond
	DefaultIdleDelay        = 60 * time.Second

	DefaultMoveThresholdMM = 1.0
	DefaultReidentifyMM    = 15.0

	// 96 dpi baseline: 96 px/inch / 25.4 mm/inch
	DefaultPixelsPerMM = 96.0 / 25.4
)

// Config holds the tunable recognition thresholds.
type Config struct {
	// HoldDelay is how long a stationary press lasts before it becomes a hold.
	HoldDelay time.Duration

	// TapDelay is the window for tap release / second tap press.
	TapDelay time.Duration

	// PinchMaxInterval is the maximum down-to-down spacing for pinch partners.
	PinchMaxInterval time.Duration

	// IdleDelay is how long without raw input before wentIdle fires.
	IdleDelay time.Duration

	// MoveThresholdMM is the minimum displacement that counts as movement.
	MoveThresholdMM float64

	// ReidentifyMM is the maximum displacement for adopting a fresh pointer
	// id onto an existing track of the same device type.
	ReidentifyMM float64

	// PixelsPerMM converts client pixels to millimetres.
	PixelsPerMM float64

	// HistoryCapacity is the per-track event history size.
	HistoryCapacity int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		HoldDelay:        DefaultHoldDelay,
		TapDelay:         DefaultTapDelay,
		PinchMaxInterval: DefaultPinchMaxInterval,
		IdleDelay:        DefaultIdleDelay,
		MoveThresholdMM:  DefaultMoveThresholdMM,
		ReidentifyMM:     DefaultReidentifyMM,
		PixelsPerMM:      DefaultPixelsPerMM,
		HistoryCapacity:  DefaultHistoryCapacity,
	}
}

// withDefaults fills zero-valued fields so a partially-populated Config is
// usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HoldDelay <= 0 {
		c.HoldDelay = d.HoldDelay
	}
	if c.TapDelay <= 0 {
		c.TapDelay = d.TapDelay
	}
	if c.PinchMaxInterval <= 0 {
		c.PinchMaxInterval = d.PinchMaxInterval
	}
	if c.IdleDelay <= 0 {
		c.IdleDelay = d.IdleDelay
	}
	if c.MoveThresholdMM <= 0 {
		c.MoveThresholdMM = d.MoveThresholdMM
	}
	if c.ReidentifyMM <= 0 {
		c.ReidentifyMM = d.ReidentifyMM
	}
	if c.PixelsPerMM <= 0 {
		c.PixelsPerMM = d.PixelsPerMM
	}
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = d.HistoryCapacity
	}
	return c
}
