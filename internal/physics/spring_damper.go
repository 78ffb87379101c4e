package physics

import "github.com/san-kum/springsim/internal/dynamo"

// SpringDamper is a linear spring tied to a fixed anchor plus viscous damping.
type SpringDamper struct{}

func NewSpringDamper() *SpringDamper {
	return &SpringDamper{}
}

// Forces evaluates both force terms before summing them. It reads s only.
func (m *SpringDamper) Forces(s *dynamo.State) dynamo.Forces {
	damping := -s.Damping * s.Velocity
	spring := s.Stiffness * (s.Anchor - s.Position)
	return dynamo.Forces{
		Damping: damping,
		Spring:  spring,
		Net:     damping + spring,
	}
}

// Energy is the kinetic energy of the mass plus the energy stored in the spring.
func (m *SpringDamper) Energy(s *dynamo.State) float64 {
	stretch := s.Position - s.Anchor
	return 0.5*s.Mass*s.Velocity*s.Velocity + 0.5*s.Stiffness*stretch*stretch
}
