package raytrace

// Options configures the per-bounce loop, per spec.md §4.3.
type Options struct {
	// ReflectionCap is R: the maximum number of bounces before a path is
	// terminated regardless of remaining amplitude. Spec default is 10.
	ReflectionCap int
	// AmplitudeFloor terminates a path early once its traveling field
	// magnitude drops below this implementation-defined floor.
	AmplitudeFloor float64
	// SelfIntersectEps offsets a bounced ray's origin along the surface
	// normal so it does not immediately re-hit its own facet, per
	// spec.md §4.3's 1e-4 m policy.
	SelfIntersectEps float64
	// GrazingCosine is the |cos(theta_i)| threshold below which a hit
	// contributes zero, per spec.md §4.3.
	GrazingCosine float64
}

// DefaultOptions returns the shipping-engine defaults of spec.md §4.3.
func DefaultOptions() Options {
	return Options{
		ReflectionCap:    10,
		AmplitudeFloor:   1e-6,
		SelfIntersectEps: 1e-4,
		GrazingCosine:    1e-6,
	}
}
