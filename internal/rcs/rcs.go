// Package rcs implements the narrow RCS entry point of spec.md §4.7: it
// drives the ray tracer in a non-coherent, single-shot mode with no
// waveform and returns sigma in m^2 for one or more (incident,
// observation) direction pairs.
package rcs

import (
	"context"
	"math"
	"math/cmplx"

	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/physopt"
	"github.com/radarsimx/radarsimgo/internal/raytrace"
	"github.com/radarsimx/radarsimgo/internal/scheduler"
	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// speedOfLight is c in m/s.
const speedOfLight = 299792458.0

// Request is one (incident, observation) direction pair plus the
// illumination parameters of spec.md §4.7/§6's sim_rcs signature.
// Angles are spherical scene angles per spec.md §4.1: azimuth Phi and
// polar Theta measured from +z.
type Request struct {
	FrequencyHz          float64
	IncidentPhi          float64
	IncidentTheta         float64
	IncidentPolarization [3]complex128
	ObserverPhi          float64
	ObserverTheta        float64
	ObserverPolarization [3]complex128
	DensityPerLambda     float64
}

// Monostatic builds a Request with the observer direction and
// polarization mirroring the incident ones (d_o = -d_i, p_o = p_i), the
// configuration spec.md §8's monostatic testable property exercises.
func Monostatic(f, phi, theta float64, pol [3]complex128, density float64) Request {
	return Request{
		FrequencyHz: f, DensityPerLambda: density,
		IncidentPhi: phi, IncidentTheta: theta, IncidentPolarization: pol,
		ObserverPhi: math.Mod(phi+math.Pi, 2*math.Pi), ObserverTheta: math.Pi - theta,
		ObserverPolarization: pol,
	}
}

// Compute traces req.DensityPerLambda rays per wavelength across every
// mesh target's angular extent as seen from far along the incident
// direction, and returns sigma = 4*pi*|E_far|^2/|E_inc|^2, per spec.md
// §4.7. Point scatterers carry no geometry (spec.md §3) and are ignored
// here; only mesh targets contribute to ray-traced RCS.
func Compute(targets []config.Target, req Request, opts raytrace.Options) (float64, error) {
	if req.FrequencyHz <= 0 {
		return 0, simerr.New(simerr.InvalidConfig, "rcs: frequency must be positive")
	}
	if req.DensityPerLambda <= 0 {
		return 0, simerr.New(simerr.InvalidConfig, "rcs: density must be positive")
	}

	meshTargets, err := scheduler.BuildMeshTargets(targets)
	if err != nil {
		return 0, err
	}
	if len(meshTargets) == 0 {
		return 0, nil
	}

	lambda := speedOfLight / req.FrequencyHz
	incidentDir := geom.SphericalToCartesian(req.IncidentPhi, req.IncidentTheta)
	observationDir := geom.SphericalToCartesian(req.ObserverPhi, req.ObserverTheta)

	sensorPos, ok := scheduler.FarField(meshTargets, geom.Scale(-1, incidentDir), 0, 0, 0, 0)
	if !ok {
		return 0, nil
	}
	observerPos, ok := scheduler.FarField(meshTargets, observationDir, 0, 0, 0, 0)
	if !ok {
		return 0, nil
	}

	incidentField := physopt.Field{X: req.IncidentPolarization[0], Y: req.IncidentPolarization[1], Z: req.IncidentPolarization[2]}
	observerField := physopt.Field{X: req.ObserverPolarization[0], Y: req.ObserverPolarization[1], Z: req.ObserverPolarization[2]}
	eIncSq := fieldMagSq(incidentField)
	if eIncSq == 0 {
		return 0, simerr.New(simerr.InvalidConfig, "rcs: incident polarization must be non-zero")
	}

	scene := raytrace.NewScene(meshTargets, 0, 0, 0, 0)
	jobs := scheduler.Grid(sensorPos, meshTargets, 0, 0, 0, 0, lambda, req.DensityPerLambda)

	var eFar complex128
	if len(jobs) > 0 {
		results := raytrace.TraceGrid(context.Background(), scene, jobs, incidentField, observerPos, observerField, lambda, opts)
		for _, r := range results {
			if r.Hit {
				eFar += r.Amplitude
			}
		}
	}

	sigma := 4 * math.Pi * (real(eFar)*real(eFar)+imag(eFar)*imag(eFar)) / eIncSq
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return 0, simerr.New(simerr.NumericError, "rcs: non-finite sigma computed")
	}
	return sigma, nil
}

// ComputeBatch evaluates Compute for every request, per spec.md §4.7's
// "supports vectorized batches of (d_i, d_o) pairs".
func ComputeBatch(targets []config.Target, reqs []Request, opts raytrace.Options) ([]float64, error) {
	out := make([]float64, len(reqs))
	for i, r := range reqs {
		sigma, err := Compute(targets, r, opts)
		if err != nil {
			return nil, err
		}
		out[i] = sigma
	}
	return out, nil
}

func fieldMagSq(f physopt.Field) float64 {
	return cmplx.Abs(f.X)*cmplx.Abs(f.X) + cmplx.Abs(f.Y)*cmplx.Abs(f.Y) + cmplx.Abs(f.Z)*cmplx.Abs(f.Z)
}
