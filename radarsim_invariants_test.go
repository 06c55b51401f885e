package radarsim

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/scheduler"
)

// monostaticPair mirrors the observer direction/polarization off the
// incident ones (d_o = -d_i, p_o = p_i), the configuration internal/rcs's
// Monostatic helper builds and spec.md §8's rotational-invariance
// property exercises.
func monostaticPair(phi, theta float64, pol [3]complex128) DirectionPair {
	return DirectionPair{
		IncidentPhi: phi, IncidentTheta: theta, IncidentPolarization: pol,
		ObserverPhi: math.Mod(phi+math.Pi, 2*math.Pi), ObserverTheta: math.Pi - theta,
		ObserverPolarization: pol,
	}
}

// TestInvariant_SimRCS_RotationalInvariance exercises spec.md §8's
// rotational-invariance property: yawing a target and its illumination/
// observation directions together by the same angle about the sensor's
// boresight axis (internal/geom's RotationZYX, config.Motion.RotationRad's
// first component) must not change the resulting RCS.
func TestInvariant_SimRCS_RotationalInvariance(t *testing.T) {
	const psi = 0.6 // arbitrary yaw, radians; avoids any axis-aligned degeneracy
	const freq = 77e9
	const density = 4.0

	plain := unitPlate()
	rotated := unitPlate()
	rotated.Mesh.Motion = config.Motion{RotationRad: [3]float64{psi, 0, 0}}

	pol := vPol()
	rotatedPol := [3]complex128{complex(-math.Sin(psi), 0), complex(math.Cos(psi), 0), 0}

	reqPlain := RCSRequest{
		FrequencyHz: freq, DensityPerLambda: density,
		Pairs: []DirectionPair{monostaticPair(0, math.Pi/4, pol)},
	}
	reqRotated := RCSRequest{
		FrequencyHz: freq, DensityPerLambda: density,
		Pairs: []DirectionPair{monostaticPair(psi, math.Pi/4, rotatedPol)},
	}

	resPlain, err := SimRCS([]config.Target{plain}, reqPlain)
	require.NoError(t, err)
	resRotated, err := SimRCS([]config.Target{rotated}, reqRotated)
	require.NoError(t, err)

	require.Greater(t, resPlain.Sigma[0], 0.0, "expected a non-degenerate illumination for this check to be meaningful")

	if diff := cmp.Diff(resPlain.Sigma[0], resRotated.Sigma[0], cmpopts.EquateApprox(1e-3, 0)); diff != "" {
		t.Errorf("rotating target+directions together changed sigma (-plain +rotated):\n%s", diff)
	}
}

// millimeterPlate is unitPlate's 1m x 1m square re-expressed in
// millimeters, the RCS-level analog of internal/mesh/mesh_test.go's
// TestNew_UnitScalingMatchesMeterEquivalent.
func millimeterPlate() config.Target {
	verts := [][3]float64{{-500, -500, 0}, {500, -500, 0}, {500, 500, 0}, {-500, 500, 0}}
	tris := [][3]int{{0, 2, 1}, {0, 3, 2}}
	return config.Target{Mesh: &config.MeshTarget{
		Model:        config.MeshData{Vertices: verts, Triangles: tris},
		Unit:         config.UnitMillimeter,
		Permittivity: config.Permittivity{Kind: config.PermittivityPEC},
	}}
}

// TestInvariant_SimRCS_UnitScalingInvariance exercises spec.md §8's
// unit-scaling invariance property through the full sim_rcs pipeline
// (config.Unit.Scale, not just mesh construction): a plate modeled in
// millimeters must produce the same RCS as the same physical plate
// modeled in meters.
func TestInvariant_SimRCS_UnitScalingInvariance(t *testing.T) {
	req := RCSRequest{
		FrequencyHz: 77e9, DensityPerLambda: 4,
		Pairs: []DirectionPair{monostaticPair(0, math.Pi/4, vPol())},
	}

	resMeter, err := SimRCS([]config.Target{unitPlate()}, req)
	require.NoError(t, err)
	resMillimeter, err := SimRCS([]config.Target{millimeterPlate()}, req)
	require.NoError(t, err)

	require.Greater(t, resMeter.Sigma[0], 0.0)

	if diff := cmp.Diff(resMeter.Sigma[0], resMillimeter.Sigma[0], cmpopts.EquateApprox(1e-6, 0)); diff != "" {
		t.Errorf("meter and millimeter models of the same plate disagree on sigma (-meter +millimeter):\n%s", diff)
	}
}

// multiChannelRadar has 2 tx and 2 rx channels and 3 pulses, so a
// LevelFrame run's scheduler.Key{Frame, TxChannel} shares one compiled
// ray-trace snapshot (internal/scheduler/snapshot.go's Store) across 6
// concurrently-submitted (channel, pulse) rows per tx channel — the
// multi-channel, multi-pulse, non-LevelSample shape under which Store's
// byKey read-check-write needs its mutex.
func multiChannelRadar() config.Radar {
	ch := config.Channel{AzPattern: omniPattern(), ElPattern: omniPattern()}
	return config.Radar{
		Transmitter: config.Transmitter{
			TxPowerDBm: 10, F: []float64{76e9, 76.1e9}, T: []float64{0, 10e-6},
			FOffset: []float64{0, 0, 0}, PulseStartTime: []float64{0, 10e-6, 20e-6},
			Pulses: 3, DensityPerLambda: 1,
			Channels: []config.Channel{ch, ch},
		},
		Receiver:   config.Receiver{FS: 20e6, BBType: config.BasebandComplex, Channels: []config.Channel{ch, ch}},
		FrameTimes: []float64{0},
	}
}

// TestInvariant_SimRadar_DeterministicAcrossRuns exercises spec.md §5's
// determinism property (and guards against the concurrent-map-write race
// internal/scheduler/snapshot.go's Store mutex fixes): two SimRadar calls
// with identical inputs at LevelFrame, where every tx channel's snapshot
// is shared by several concurrently-submitted rows, must produce
// bit-for-bit identical baseband tensors.
func TestInvariant_SimRadar_DeterministicAcrossRuns(t *testing.T) {
	cfg := multiChannelRadar()
	targets := []config.Target{plateAt(50)}
	opts := RunOptions{Samples: 5, Level: scheduler.LevelFrame}

	res1, err := SimRadar(cfg, targets, opts)
	require.NoError(t, err)
	res2, err := SimRadar(cfg, targets, opts)
	require.NoError(t, err)

	if diff := cmp.Diff(res1.Baseband, res2.Baseband); diff != "" {
		t.Errorf("two SimRadar runs with identical inputs produced different baseband tensors (-run1 +run2):\n%s", diff)
	}
}

// TestInvariant_NoiseSigma_MatchesInjectedGaussianStatistic exercises
// Result.NoiseSigma's documented contract (types.go: "the caller injects
// AWGN separately"): the reported sigma is the standard deviation of the
// zero-mean Gaussian the caller is expected to inject, verified by
// actually drawing from that distribution (gonum.org/v1/gonum/stat/distuv)
// and checking its sample statistics (gonum.org/v1/gonum/stat) against
// the reported value.
func TestInvariant_NoiseSigma_MatchesInjectedGaussianStatistic(t *testing.T) {
	cfg := testRadar(0)
	cfg.Receiver.BasebandBW = 1e6
	cfg.Receiver.LoadOhms = 50
	res, err := SimRadar(cfg, nil, RunOptions{Samples: 4, Level: scheduler.LevelSample})
	require.NoError(t, err)
	sigma := res.NoiseSigma[0][0][0]
	require.Greater(t, sigma, 0.0)

	dist := distuv.Normal{Mu: 0, Sigma: sigma}
	const n = 200000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = dist.Rand()
	}
	mean, std := stat.MeanStdDev(samples, nil)

	assert.InDelta(t, 0.0, mean, 5*sigma/math.Sqrt(float64(n)), "sample mean of the injected-noise distribution")
	assert.InDelta(t, sigma, std, 0.02*sigma, "sample stddev of the injected-noise distribution, vs. reported NoiseSigma")
}
