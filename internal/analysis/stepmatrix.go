package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Matrix2 is a row-major 2x2 matrix.
type Matrix2 [2][2]float64

func (m Matrix2) Trace() float64 { return m[0][0] + m[1][1] }

func (m Matrix2) Det() float64 { return m[0][0]*m[1][1] - m[0][1]*m[1][0] }

// Apply returns m·(e, v).
func (m Matrix2) Apply(e, v float64) (float64, float64) {
	return m[0][0]*e + m[0][1]*v, m[1][0]*e + m[1][1]*v
}

// StepMatrix is the map one semi-implicit Euler step applies to the
// displacement from the anchor and the velocity.
//
//	v' = (1 - c/m) v - (k/m) e
//	e' = e + dt v'
func StepMatrix(p dynamo.Params) Matrix2 {
	a := 1 - p.Damping/p.Mass
	b := p.Stiffness / p.Mass
	return Matrix2{
		{1 - p.Dt*b, p.Dt * a},
		{-b, a},
	}
}

// Eigenvalues returns both roots of the characteristic polynomial of m.
func Eigenvalues(m Matrix2) (complex128, complex128) {
	half := complex(m.Trace()/2, 0)
	disc := cmplx.Sqrt(half*half - complex(m.Det(), 0))
	return half + disc, half - disc
}

func SpectralRadius(m Matrix2) float64 {
	l1, l2 := Eigenvalues(m)
	return math.Max(cmplx.Abs(l1), cmplx.Abs(l2))
}

// Stable reports whether repeated steps with p shrink every initial
// displacement towards the anchor.
func Stable(p dynamo.Params) bool {
	return SpectralRadius(StepMatrix(p)) < 1
}

// NaturalFrequency is the oscillation frequency, in cycles per unit time,
// implied by the eigenvalue argument. It is zero for a non-oscillating map.
func NaturalFrequency(p dynamo.Params) float64 {
	l1, _ := Eigenvalues(StepMatrix(p))
	return math.Abs(cmplx.Phase(l1)) / (2 * math.Pi * p.Dt)
}
