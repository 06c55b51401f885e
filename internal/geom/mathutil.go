package geom

import "math"

func sincos(x float64) (sin, cos float64) { return math.Sincos(x) }
func atan2(y, x float64) float64          { return math.Atan2(y, x) }
func acos(x float64) float64              { return math.Acos(x) }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func normOrOne(v Vec3) float64 {
	n := Norm(v)
	if n == 0 {
		return 1
	}
	return n
}
