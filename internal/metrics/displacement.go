package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

type PeakDisplacement struct {
	name   string
	anchor float64
	peak   float64
}

func NewPeakDisplacement(anchor float64) *PeakDisplacement {
	return &PeakDisplacement{name: "peak_displacement", anchor: anchor}
}

func (p *PeakDisplacement) Name() string { return p.name }

func (p *PeakDisplacement) Observe(s dynamo.Sample) {
	p.peak = math.Max(p.peak, math.Abs(s.Position-p.anchor))
}

func (p *PeakDisplacement) Value() float64 { return p.peak }

func (p *PeakDisplacement) Reset() { p.peak = 0 }

// Settle records the step after which the mass stays within tolerance of the
// anchor with near-zero velocity. Value is -1 while the mass has not settled.
type Settle struct {
	name      string
	anchor    float64
	tolerance float64
	since     int
}

func NewSettle(anchor, tolerance float64) *Settle {
	return &Settle{name: "settle_step", anchor: anchor, tolerance: tolerance, since: -1}
}

func (s *Settle) Name() string { return s.name }

func (s *Settle) Observe(sample dynamo.Sample) {
	inside := math.Abs(sample.Position-s.anchor) <= s.tolerance &&
		math.Abs(sample.Velocity) <= s.tolerance
	switch {
	case !inside:
		s.since = -1
	case s.since < 0:
		s.since = sample.Step
	}
}

func (s *Settle) Value() float64 { return float64(s.since) }

func (s *Settle) Reset() { s.since = -1 }
