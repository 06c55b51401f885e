package radarsim

import (
	"context"

	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/interference"
	"github.com/radarsimx/radarsimgo/internal/lidarsim"
	"github.com/radarsimx/radarsimgo/internal/raylog"
	"github.com/radarsimx/radarsimgo/internal/raytrace"
	"github.com/radarsimx/radarsimgo/internal/rcs"
	"github.com/radarsimx/radarsimgo/internal/scheduler"
	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// SimRadar runs the full scheduler/synthesizer pipeline (spec.md
// §4.6/§4.10) for cfg against targets and returns the dense baseband
// tensor plus noise amplitude, timestamps, and — when opts.Interferer is
// set — the direct-path interference tensor (spec.md §4.9).
func SimRadar(cfg config.Radar, targets []config.Target, opts RunOptions) (Result, error) {
	var logger scheduler.RayLogger
	if opts.Debug && opts.LogPath != "" {
		w, err := raylog.Open(opts.LogPath)
		if err != nil {
			return Result{}, simerr.Wrap(simerr.InvalidConfig, err, "radarsim: open ray log %q", opts.LogPath)
		}
		defer w.Close()
		logger = w
	}

	res, err := scheduler.Run(context.Background(), cfg, targets, scheduler.Params{
		Level:         opts.Level,
		Samples:       opts.Samples,
		ReflectionCap: opts.ReflectionCap,
		IsFreeTier:    opts.IsFreeTier,
		Logger:        logger,
	})
	if err != nil {
		return Result{}, err
	}

	out := Result{Baseband: res.Baseband, NoiseSigma: res.NoiseSigma, Timestamp: res.Timestamp}
	if opts.Interferer != nil {
		interf, err := interference.Run(cfg, *opts.Interferer, opts.Samples)
		if err != nil {
			return Result{}, err
		}
		out.Interference = interf
	}
	return out, nil
}

// SimRCS drives the ray tracer in the non-coherent, single-shot mode of
// spec.md §4.7 for every direction pair in req and returns one sigma per
// pair, in order.
func SimRCS(targets []config.Target, req RCSRequest) (RCSResult, error) {
	reqs := make([]rcs.Request, len(req.Pairs))
	for i, pair := range req.Pairs {
		reqs[i] = rcs.Request{
			FrequencyHz:          req.FrequencyHz,
			DensityPerLambda:     req.DensityPerLambda,
			IncidentPhi:          pair.IncidentPhi,
			IncidentTheta:        pair.IncidentTheta,
			IncidentPolarization: pair.IncidentPolarization,
			ObserverPhi:          pair.ObserverPhi,
			ObserverTheta:        pair.ObserverTheta,
			ObserverPolarization: pair.ObserverPolarization,
		}
	}
	sigmas, err := rcs.ComputeBatch(targets, reqs, raytrace.DefaultOptions())
	if err != nil {
		return RCSResult{}, err
	}
	return RCSResult{Sigma: sigmas}, nil
}

// SimLidar casts one ray per (phi[i], theta[i]) pair from pose against
// targets' mesh geometry and returns each ray's first-hit outcome
// (spec.md §4.8); no electromagnetic computation is performed.
func SimLidar(pose config.Pose, phi, theta []float64, targets []config.Target) ([]LidarReturn, error) {
	return lidarsim.Trace(pose, phi, theta, targets)
}
