package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Simulator steps a state without any display attached.
type Simulator struct {
	model         dynamo.ForceModel
	integrator    dynamo.Integrator
	metrics       []dynamo.Metric
	observers     []dynamo.Observer
	validateState bool
}

func New(model dynamo.ForceModel, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		model:      model,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// SetValidateState rejects a non-finite initial state with ErrInvalidState
// and stops runs at the first non-finite step with ErrUnstable. Off by
// default: diverging values are surfaced as they are.
func (s *Simulator) SetValidateState(on bool) { s.validateState = on }

// Run advances a copy of x0 by steps steps. x0 is not modified.
func (s *Simulator) Run(ctx context.Context, x0 *dynamo.State, steps int) (*dynamo.Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}

	result := &dynamo.Result{
		Samples: make([]dynamo.Sample, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	if s.validateState && !x0.IsValid() {
		return nil, &dynamo.SimulationError{State: *x0.Clone(), Wrapped: dynamo.ErrInvalidState}
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	s.record(result, dynamo.NewSample(0, x, dynamo.Forces{}, s.energy(x)))

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		f := s.model.Forces(x)
		s.integrator.Step(x, f)
		result.StepsTaken++

		s.record(result, dynamo.NewSample(i, x, f, s.energy(x)))

		if s.validateState && !x.IsValid() {
			result.Errors = append(result.Errors, &dynamo.SimulationError{
				Step:    i,
				Time:    float64(i) * x.Dt,
				State:   *x.Clone(),
				Wrapped: dynamo.ErrUnstable,
			})
			break
		}
	}

	s.collect(result)
	return result, nil
}

// RunFor runs for a simulated duration, rounding up to whole steps.
func (s *Simulator) RunFor(ctx context.Context, x0 *dynamo.State, duration float64) (*dynamo.Result, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", duration)
	}
	return s.Run(ctx, x0, int(math.Ceil(duration/x0.Dt)))
}

func (s *Simulator) record(result *dynamo.Result, sample dynamo.Sample) {
	result.Samples = append(result.Samples, sample)
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}
}

func (s *Simulator) collect(result *dynamo.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) energy(x *dynamo.State) float64 {
	return energyOf(s.model, x)
}

func energyOf(model dynamo.ForceModel, x *dynamo.State) float64 {
	if h, ok := model.(dynamo.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}
