package physopt

import (
	"math/cmplx"

	"github.com/radarsimx/radarsimgo/internal/material"
)

// freeSpaceIndex is the refractive index of the medium rays travel through
// before hitting a target (vacuum/air, relative permittivity and
// permeability both 1).
const freeSpaceIndex = complex(1, 0)

// Coefficients holds the TE (perpendicular) and TM (parallel) Fresnel
// reflection coefficients for one incidence angle against one material.
type Coefficients struct {
	TE, TM complex128
}

// Fresnel computes the reflection coefficients for incidence angle with
// cosine cosThetaI (cosine of the angle between the outward surface normal,
// on the side the ray arrives from, and the reversed incident direction)
// against mat. PEC forces both coefficients to -1, per spec.md §4.3/§4.4;
// the TM sign convention is the one under which the dielectric TM
// coefficient also tends to -1 in the conductor limit, so TE and TM agree
// at normal incidence. For lossy dielectrics this uses the principal
// branch of sqrt(epsilon*mu) (see DESIGN.md's Open Question decision),
// applied identically to both polarizations so the convention is
// consistent across the EM kernel.
func Fresnel(mat material.Material, cosThetaI float64) Coefficients {
	if mat.IsPEC() {
		return Coefficients{TE: -1, TM: -1}
	}

	n2 := mat.RefractiveIndex()
	n1 := freeSpaceIndex

	sinThetaI2 := 1 - cosThetaI*cosThetaI
	// Snell's law: n1 sinThetaI = n2 sinThetaT.
	sinThetaT2 := (n1 * n1 * complex(sinThetaI2, 0)) / (n2 * n2)
	cosThetaT := cmplx.Sqrt(1 - sinThetaT2)
	if real(cosThetaT) < 0 {
		cosThetaT = -cosThetaT // principal branch, non-negative real part
	}

	cI := complex(cosThetaI, 0)
	te := (n1*cI - n2*cosThetaT) / (n1*cI + n2*cosThetaT)
	tm := (n1*cosThetaT - n2*cI) / (n1*cosThetaT + n2*cI)
	return Coefficients{TE: te, TM: tm}
}
