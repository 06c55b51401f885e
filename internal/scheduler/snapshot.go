package scheduler

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/mesh"
	"github.com/radarsimx/radarsimgo/internal/physopt"
	"github.com/radarsimx/radarsimgo/internal/raytrace"
)

// Compiled is one ray-trace snapshot's aggregated result: the coherent
// sum of every primary ray's far-field contribution, plus a representative
// two-way range used by synth.Ray to resolve the Doppler/beat-frequency
// mixing for every rx channel that reuses this snapshot (spec.md §4.10's
// cadence trades per-rx-channel ray tracing for reuse across the
// snapshot's validity window; the trace uses the transmit channel's
// position as both ray origin and observer, so an rx channel's own
// position does not enter it).
type Compiled struct {
	ID        uuid.UUID
	Amplitude complex128
	RangeSum  float64
	Bounces   int
}

// Store holds one Compiled snapshot per scheduler.Key for one Run call.
// Run shares a single Store across every (channel, pulse) row it submits to
// its worker pool, so byKey is guarded by mu: at LevelFrame/LevelPulse many
// rows share a key and race to compile it concurrently.
type Store struct {
	mu    sync.Mutex
	byKey map[Key]Compiled
}

// NewStore returns an empty snapshot store.
func NewStore() *Store {
	return &Store{byKey: make(map[Key]Compiled)}
}

// Get returns the snapshot for key and whether it has been compiled yet.
func (s *Store) Get(key Key) (Compiled, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byKey[key]
	return c, ok
}

// Compile builds a scene from targets at the given instant, traces the
// density-derived ray grid from sensorPos, and stores the aggregated
// result under key. incidentField is the transmitted polarization vector
// and observerPolarization the receive channel's polarization, per
// spec.md §4.3-§4.4. frame/tx/t identify the snapshot for RayLogger
// (spec.md §6's log_path feature); logger may be nil. Logging only
// happens on the cache miss that actually invokes the tracer, so the log
// volume tracks the fidelity level rather than the full sample grid.
func (s *Store) Compile(ctx context.Context, key Key, targets []*mesh.Target, sensorPos geom.Vec3, ch, p, smp int, t, lambda, density float64, incidentField, observerPolarization physopt.Field, opts raytrace.Options, frame, tx int, logger RayLogger) Compiled {
	s.mu.Lock()
	if c, ok := s.byKey[key]; ok {
		s.mu.Unlock()
		return c
	}
	s.mu.Unlock()

	scene := raytrace.NewScene(targets, ch, p, smp, t)
	jobs := Grid(sensorPos, targets, ch, p, smp, t, lambda, density)
	id := uuid.New()

	var amplitude complex128
	var rangeSum float64
	bounces := 0
	if len(jobs) > 0 {
		results := raytrace.TraceGrid(ctx, scene, jobs, incidentField, sensorPos, observerPolarization, lambda, opts)
		for i, r := range results {
			if logger != nil {
				logger.LogRay(RayRecord{
					Time: t, Frame: frame, TxChannel: tx, Pulse: key.Pulse, Sample: key.Sample,
					Origin:      [3]float64{jobs[i].Origin.X, jobs[i].Origin.Y, jobs[i].Origin.Z},
					Direction:   [3]float64{jobs[i].Direction.X, jobs[i].Direction.Y, jobs[i].Direction.Z},
					Reflections: r.Bounces,
					SnapshotID:  id.String(),
				})
			}
			if !r.Hit {
				continue
			}
			amplitude += r.Amplitude
			if d := 2 * geom.Norm(geom.Sub(r.FirstPoint, sensorPos)); rangeSum == 0 || d < rangeSum {
				rangeSum = d
			}
			if r.Bounces > bounces {
				bounces = r.Bounces
			}
		}
	}

	c := Compiled{ID: id, Amplitude: amplitude, RangeSum: rangeSum, Bounces: bounces}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byKey[key]; ok {
		// Another goroutine compiled this key while we were tracing;
		// keep its result so every row sharing the key sees one snapshot.
		return existing
	}
	s.byKey[key] = c
	return c
}
