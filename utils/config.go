package utils

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// EngineSettings is the on-disk shape of the recognition thresholds, read
// from an ini file. Zero values mean "use the built-in default" so a partial
// file only overrides what it names.
type EngineSettings struct {
	HoldDelayMs        int
	TapDelayMs         int
	PinchMaxIntervalMs int
	IdleDelaySec       int
	MoveThresholdMm    float64
	ReidentifyMm       float64
	PixelsPerMm        float64
	HistoryCapacity    int
}

// LoadEngineSettings reads settings from the [gestures] section of the ini
// file at path. An empty path returns zeroed settings; a path that does not
// exist is an error.
func LoadEngineSettings(path string) (EngineSettings, error) {
	var s EngineSettings
	if path == "" {
		return s, nil
	}

	if _, err := os.Stat(path); err != nil {
		return s, fmt.Errorf("config file not accessible: %w", err)
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return s, fmt.Errorf("failed to parse config file: %w", err)
	}

	section := cfg.Section("gestures")
	s.HoldDelayMs = section.Key("hold_delay_ms").MustInt(0)
	s.TapDelayMs = section.Key("tap_delay_ms").MustInt(0)
	s.PinchMaxIntervalMs = section.Key("pinch_max_interval_ms").MustInt(0)
	s.IdleDelaySec = section.Key("idle_delay_sec").MustInt(0)
	s.MoveThresholdMm = section.Key("move_threshold_mm").MustFloat64(0)
	s.ReidentifyMm = section.Key("reidentify_mm").MustFloat64(0)
	s.PixelsPerMm = section.Key("pixels_per_mm").MustFloat64(0)
	s.HistoryCapacity = section.Key("history_capacity").MustInt(0)

	Verbose("Loaded engine settings from %s", path)
	return s, nil
}
