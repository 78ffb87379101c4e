package dynamo

import (
	"fmt"
	"math"
	"sort"
)

const (
	DefaultPosition  = 0.2
	DefaultVelocity  = 0.0
	DefaultMass      = 1.0
	DefaultAnchor    = 0.5
	DefaultDamping   = 0.02
	DefaultStiffness = 0.2
	DefaultDt        = 0.5
)

// Params are the construction values of a single mass-spring-damper.
type Params struct {
	Position  float64
	Velocity  float64
	Mass      float64
	Anchor    float64
	Damping   float64
	Stiffness float64
	Dt        float64
}

func DefaultParams() Params {
	return Params{
		Position:  DefaultPosition,
		Velocity:  DefaultVelocity,
		Mass:      DefaultMass,
		Anchor:    DefaultAnchor,
		Damping:   DefaultDamping,
		Stiffness: DefaultStiffness,
		Dt:        DefaultDt,
	}
}

// Validate rejects parameter sets the integrator cannot step.
func (p Params) Validate() error {
	if math.IsNaN(p.Mass) || p.Mass <= 0 {
		return fmt.Errorf("mass %v: %w", p.Mass, ErrInvalidMass)
	}
	checks := []struct {
		name     string
		value    float64
		positive bool
		nonNeg   bool
	}{
		{"position", p.Position, false, false},
		{"velocity", p.Velocity, false, false},
		{"mass", p.Mass, false, false},
		{"anchor", p.Anchor, false, false},
		{"damping", p.Damping, false, true},
		{"stiffness", p.Stiffness, false, true},
		{"dt", p.Dt, true, false},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%s must be finite, got %v: %w", c.name, c.value, ErrParameterBounds)
		}
		if c.nonNeg && c.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %v: %w", c.name, c.value, ErrParameterBounds)
		}
		if c.positive && c.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v: %w", c.name, c.value, ErrParameterBounds)
		}
	}
	return nil
}

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"position":  p.Position,
		"velocity":  p.Velocity,
		"mass":      p.Mass,
		"anchor":    p.Anchor,
		"damping":   p.Damping,
		"stiffness": p.Stiffness,
		"dt":        p.Dt,
	}
}

// ParamNames lists the names accepted by SetParam in a stable order.
func ParamNames() []string {
	names := make([]string, 0, 7)
	for name := range DefaultParams().GetParams() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Params) SetParam(name string, value float64) error {
	switch name {
	case "position":
		p.Position = value
	case "velocity":
		p.Velocity = value
	case "mass":
		p.Mass = value
	case "anchor":
		p.Anchor = value
	case "damping":
		p.Damping = value
	case "stiffness":
		p.Stiffness = value
	case "dt":
		p.Dt = value
	default:
		return fmt.Errorf("unknown parameter %q (want one of %v)", name, ParamNames())
	}
	return nil
}

// State holds the registers of the simulated body. Position and Velocity
// are advanced by an Integrator; the remaining fields are fixed once New
// returns.
type State struct {
	Position  float64
	Velocity  float64
	Mass      float64
	Anchor    float64
	Damping   float64
	Stiffness float64
	Dt        float64
}

// New validates p and returns a state initialised from it.
func New(p Params) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &State{
		Position:  p.Position,
		Velocity:  p.Velocity,
		Mass:      p.Mass,
		Anchor:    p.Anchor,
		Damping:   p.Damping,
		Stiffness: p.Stiffness,
		Dt:        p.Dt,
	}, nil
}

func (s *State) Clone() *State {
	c := *s
	return &c
}

func (s *State) IsValid() bool {
	for _, v := range [...]float64{s.Position, s.Velocity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Displacement is the signed distance of the mass from the spring anchor.
func (s *State) Displacement() float64 { return s.Position - s.Anchor }

func (s *State) Params() Params {
	return Params{
		Position:  s.Position,
		Velocity:  s.Velocity,
		Mass:      s.Mass,
		Anchor:    s.Anchor,
		Damping:   s.Damping,
		Stiffness: s.Stiffness,
		Dt:        s.Dt,
	}
}

// Forces are the instantaneous forces acting on the mass. They are derived
// from a State and never carried across steps.
type Forces struct {
	Damping float64
	Spring  float64
	Net     float64
}

type ForceModel interface {
	Forces(s *State) Forces
}

type Hamiltonian interface {
	Energy(s *State) float64
}

type Integrator interface {
	Step(s *State, f Forces)
}

// Sample is one point of a trajectory. Forces are the ones that produced the
// sampled state and are zero for the initial sample.
type Sample struct {
	Step     int
	Time     float64
	Position float64
	Velocity float64
	Forces   Forces
	Energy   float64
}

func NewSample(step int, s *State, f Forces, energy float64) Sample {
	return Sample{
		Step:     step,
		Time:     float64(step) * s.Dt,
		Position: s.Position,
		Velocity: s.Velocity,
		Forces:   f,
		Energy:   energy,
	}
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// Surface is a display that draws points and presents them once per frame.
// Coordinates are normalized to [0,1] on both axes with y growing downward.
type Surface interface {
	Circle(x, y, radius float64)
	Show() error
	Running() bool
	Close() error
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

func (r *Result) Positions() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Position
	}
	return out
}

func (r *Result) Velocities() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Velocity
	}
	return out
}

func (r *Result) Energies() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Energy
	}
	return out
}

// Final returns the last sample, or the zero Sample for an empty result.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}
