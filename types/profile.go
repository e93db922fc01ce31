package types

// ScreenInfo describes the client display, used to derive pixels-per-mm for
// density-normalized gesture thresholds.
type ScreenInfo struct {
	WidthPx  int     `json:"widthPx"`
	HeightPx int     `json:"heightPx"`
	WidthMm  float64 `json:"widthMm,omitempty"`

	// optional explicit override; takes precedence over widthPx/widthMm
	PixelsPerMm float64 `json:"pixelsPerMm,omitempty"`
}

// EffectivePixelsPerMm resolves the density, or 0 if the client supplied
// nothing usable.
func (s ScreenInfo) EffectivePixelsPerMm() float64 {
	if s.PixelsPerMm > 0 {
		return s.PixelsPerMm
	}
	if s.WidthPx > 0 && s.WidthMm > 0 {
		return float64(s.WidthPx) / s.WidthMm
	}
	return 0
}

// DeviceProfile is the cached calibration for one input source.
type DeviceProfile struct {
	Source      string  `json:"source"`
	PixelsPerMm float64 `json:"pixelsPerMm"`
}
