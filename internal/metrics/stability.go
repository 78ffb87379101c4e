package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Stability is the fraction of samples whose displacement from the anchor
// stays below threshold. Non-finite samples always count as violations.
type Stability struct {
	name       string
	anchor     float64
	threshold  float64
	violations int
	samples    int
}

func NewStability(anchor, threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		anchor:    anchor,
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sample dynamo.Sample) {
	s.samples++
	d := math.Abs(sample.Position - s.anchor)
	if math.IsNaN(d) || d > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
