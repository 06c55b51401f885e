package raytrace

import (
	"context"
	"runtime"

	"github.com/alitto/pond"

	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/physopt"
)

// Job is one primary ray to trace: its origin and (phi, theta) grid
// direction. The scene, fields and wavelength are shared TraceGrid
// arguments.
type Job struct {
	Origin    geom.Vec3
	Direction geom.Vec3
}

// TraceGrid traces every job in the grid against scene concurrently using
// a fixed-size worker pool sized to the host's hardware concurrency, per
// spec.md §5. Results are returned in the same order as jobs.
func TraceGrid(ctx context.Context, scene *Scene, jobs []Job, incidentField physopt.Field, observerPos geom.Vec3, observerPolarization physopt.Field, lambda float64, opts Options) []Contribution {
	results := make([]Contribution, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	n := runtime.NumCPU()
	if n > len(jobs) {
		n = len(jobs)
	}
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for i, job := range jobs {
		i, job := i, job
		pool.Submit(func() {
			results[i] = Trace(scene, job.Origin, job.Direction, incidentField, observerPos, observerPolarization, lambda, opts)
		})
	}

	return results
}
