package cli

import (
	"time"

	"github.com/gesture-next/gesturecli/gestures"
	"github.com/gesture-next/gesturecli/utils"
)

// engineConfig builds the engine thresholds from an optional ini file.
// Settings the file does not name keep the engine defaults.
func engineConfig(path string) (gestures.Config, error) {
	settings, err := utils.LoadEngineSettings(path)
	if err != nil {
		return gestures.Config{}, err
	}

	var cfg gestures.Config
	if settings.HoldDelayMs > 0 {
		cfg.HoldDelay = time.Duration(settings.HoldDelayMs) * time.Millisecond
	}
	if settings.TapDelayMs > 0 {
		cfg.TapDelay = time.Duration(settings.TapDelayMs) * time.Millisecond
	}
	if settings.PinchMaxIntervalMs > 0 {
		cfg.PinchMaxInterval = time.Duration(settings.PinchMaxIntervalMs) * time.Millisecond
	}
	if settings.IdleDelaySec > 0 {
		cfg.IdleDelay = time.Duration(settings.IdleDelaySec) * time.Second
	}
	cfg.MoveThresholdMM = settings.MoveThresholdMm
	cfg.ReidentifyMM = settings.ReidentifyMm
	cfg.PixelsPerMM = settings.PixelsPerMm
	cfg.HistoryCapacity = settings.HistoryCapacity
	return cfg, nil
}
