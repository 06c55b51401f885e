package radarsim

import (
	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/lidarsim"
	"github.com/radarsimx/radarsimgo/internal/scheduler"
)

// RunOptions bundles SimRadar's inputs beyond the radar/target configs,
// per spec.md §6's sim_radar signature: frame_time lives on cfg.FrameTimes
// already; ray_filter maps to ReflectionCap; interf maps to Interferer.
type RunOptions struct {
	// Samples is the fast-time sample count per pulse.
	Samples int
	// Level selects the ray-trace re-evaluation cadence (spec.md §4.10).
	Level scheduler.Level
	// ReflectionCap overrides raytrace.DefaultOptions()'s bounce limit
	// when positive; zero selects the default.
	ReflectionCap int
	// IsFreeTier enables the free-tier caps on target count and on each
	// mesh's triangle count; channel counts are not capped.
	IsFreeTier bool
	// LogPath, when non-empty and Debug is true, receives one ND-JSON
	// record per primary ray traced (spec.md §6's log_path/debug).
	LogPath string
	Debug   bool
	// Interferer, if set, is run through the interference front-end
	// (spec.md §4.9) as a direct-path emitter into cfg's receiver; its
	// contribution is reported separately in Result.Interference rather
	// than folded into Result.Baseband, since spec.md §6's output record
	// keeps baseband and interference as distinct tensors.
	Interferer *config.Radar
}

// Result is SimRadar's output: the dense baseband tensor, the reported
// per-sample noise amplitude (the caller injects AWGN separately, per
// spec.md §4.6), the timestamp tensor, and — when RunOptions.Interferer
// is set — the interference tensor in the same [ch][pulse][sample] shape.
type Result struct {
	Baseband     [][][]complex128
	NoiseSigma   [][][]float64
	Timestamp    [][][]float64
	Interference [][][]complex128
}

// DirectionPair is one (incident, observation) direction/polarization
// pair for the RCS front-end, per spec.md §4.7.
type DirectionPair struct {
	IncidentPhi, IncidentTheta float64
	IncidentPolarization       [3]complex128
	ObserverPhi, ObserverTheta float64
	ObserverPolarization       [3]complex128
}

// RCSRequest carries the shared illumination parameters plus one or more
// direction pairs, realizing spec.md §6's "sim_rcs(...) -> σ or σ[]" as a
// single batched request rather than a separate vectorized entry point.
type RCSRequest struct {
	FrequencyHz      float64
	DensityPerLambda float64
	Pairs            []DirectionPair
}

// RCSResult holds one sigma per RCSRequest.Pairs entry, in order.
type RCSResult struct {
	Sigma []float64
}

// LidarReturn is one traced LiDAR ray's outcome (spec.md §4.8).
type LidarReturn = lidarsim.Return
