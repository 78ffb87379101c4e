package metrics

import "github.com/san-kum/springsim/internal/dynamo"

type Energy struct {
	name    string
	current float64
}

// NewEnergy reports the mechanical energy of the last observed sample.
func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.Sample) {
	e.current = s.Energy
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() { e.current = 0 }

// EnergyDecay is the fraction of the initial energy dissipated so far.
type EnergyDecay struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewEnergyDecay() *EnergyDecay {
	return &EnergyDecay{name: "energy_decay"}
}

func (e *EnergyDecay) Name() string { return e.name }

func (e *EnergyDecay) Observe(s dynamo.Sample) {
	if e.samples == 0 {
		e.initial = s.Energy
	}
	e.current = s.Energy
	e.samples++
}

func (e *EnergyDecay) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return 1 - e.current/e.initial
}

func (e *EnergyDecay) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}
