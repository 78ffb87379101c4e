package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/springsim/internal/dynamo"
)

var ErrNoOscillator = errors.New("reference spring needs positive stiffness")

// ContinuousParams returns the angular frequency and damping ratio of the
// continuous spring whose trajectory the discrete map approximates.
func ContinuousParams(p dynamo.Params) (omega, zeta float64) {
	omega = math.Sqrt(p.Stiffness / (p.Mass * p.Dt))
	if omega == 0 {
		return 0, 0
	}
	zeta = p.Damping / (2 * p.Mass * p.Dt * omega)
	return omega, zeta
}

// Reference samples the analytic damped spring at every step. The returned
// trace starts with the initial position and has steps+1 entries.
func Reference(p dynamo.Params, steps int) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if steps < 0 {
		return nil, fmt.Errorf("steps must be non-negative, got %d", steps)
	}
	omega, zeta := ContinuousParams(p)
	if omega == 0 {
		return nil, ErrNoOscillator
	}

	spring := harmonica.NewSpring(p.Dt, omega, zeta)
	pos, vel := p.Position, p.Velocity
	out := make([]float64, 0, steps+1)
	out = append(out, pos)
	for i := 0; i < steps; i++ {
		pos, vel = spring.Update(pos, vel, p.Anchor)
		out = append(out, pos)
	}
	return out, nil
}

// Compare returns the largest and root-mean-square absolute difference over
// the common prefix of a and b.
func Compare(a, b []float64) (maxDev, rms float64) {
	n := min(len(a), len(b))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := math.Abs(a[i] - b[i])
		maxDev = math.Max(maxDev, d)
		sum += d * d
	}
	return maxDev, math.Sqrt(sum / float64(n))
}
