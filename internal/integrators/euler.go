package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// SemiImplicitEuler advances velocity first and then moves the position with
// the updated velocity. The velocity update adds net/mass per step without
// scaling by Dt.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "semi-implicit-euler" }

func (e *SemiImplicitEuler) Step(s *dynamo.State, f dynamo.Forces) {
	s.Velocity += f.Net / s.Mass
	s.Position += s.Velocity * s.Dt
}
