// Package material holds the electromagnetic constants of mesh targets:
// relative permittivity and permeability, plus the PEC shortcut.
package material

import (
	"math"
	"math/cmplx"

	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// pecRealPart is the arbitrarily-large real part used to encode a perfect
// electric conductor as a permittivity value, per spec.md §3.
const pecRealPart = 1e8

// Material holds one triangle's (or target's) electromagnetic constants.
type Material struct {
	Epsilon complex128 // relative permittivity
	Mu      complex128 // relative permeability
}

// PEC returns the Material encoding a perfect electric conductor: a very
// large real permittivity and unit permeability, matching spec.md §3's
// "PEC encoded as ε with very large real part, μ=1+0j".
func PEC() Material {
	return Material{Epsilon: complex(pecRealPart, 0), Mu: complex(1, 0)}
}

// IsPEC reports whether m should be treated as a perfect conductor.
func (m Material) IsPEC() bool {
	return real(m.Epsilon) >= pecRealPart
}

// Validate checks that both constants are finite, returning a
// simerr.MaterialError otherwise (spec.md §4 error conditions).
func (m Material) Validate() error {
	if !finite(m.Epsilon) {
		return simerr.New(simerr.MaterialError, "permittivity is not finite: %v", m.Epsilon)
	}
	if !finite(m.Mu) {
		return simerr.New(simerr.MaterialError, "permeability is not finite: %v", m.Mu)
	}
	return nil
}

func finite(c complex128) bool {
	return !math.IsNaN(real(c)) && !math.IsNaN(imag(c)) && !math.IsInf(real(c), 0) && !math.IsInf(imag(c), 0)
}

// RefractiveIndex returns the principal branch of sqrt(epsilon*mu).
func (m Material) RefractiveIndex() complex128 {
	return principalSqrt(m.Epsilon * m.Mu)
}

// principalSqrt returns the complex square root branch with non-negative
// real part, resolving the sign ambiguity cmplx.Sqrt otherwise leaves open
// when Im(z) < 0.
func principalSqrt(z complex128) complex128 {
	r := cmplx.Sqrt(z)
	if real(r) < 0 {
		return -r
	}
	return r
}
