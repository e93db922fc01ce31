package server

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gesture-next/gesturecli/types"
	"github.com/gesture-next/gesturecli/utils"
)

// profileCacheSize bounds how many input sources we remember calibration
// for. Sources beyond that evict least-recently-seen.
const profileCacheSize = 128

var profileCache = newProfileCache()

func newProfileCache() *lru.Cache[string, types.DeviceProfile] {
	cache, err := lru.New[string, types.DeviceProfile](profileCacheSize)
	if err != nil {
		// lru.New only fails for non-positive sizes
		panic(err)
	}
	return cache
}

// resolveProfile returns the pixels-per-mm for a session: explicit screen
// metrics win and refresh the cache, a known source falls back to its cached
// calibration, and everything else uses the engine default. This lets a
// client reconnect without resending screen metrics.
func resolveProfile(source string, screen *types.ScreenInfo, fallback float64) float64 {
	if screen != nil {
		if ppmm := screen.EffectivePixelsPerMm(); ppmm > 0 {
			if source != "" {
				profileCache.Add(source, types.DeviceProfile{Source: source, PixelsPerMm: ppmm})
			}
			return ppmm
		}
	}

	if source != "" {
		if profile, ok := profileCache.Get(source); ok {
			utils.Verbose("Reusing cached calibration for source %q: %.3f px/mm", source, profile.PixelsPerMm)
			return profile.PixelsPerMm
		}
	}

	return fallback
}
