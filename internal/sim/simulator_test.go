package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
)

func newReference(t *testing.T) (*Simulator, *dynamo.State) {
	t.Helper()
	st, err := dynamo.New(dynamo.DefaultParams())
	if err != nil {
		t.Fatalf("dynamo.New failed: %v", err)
	}
	return New(physics.NewSpringDamper(), integrators.NewSemiImplicitEuler()), st
}

func TestSimulatorRun_ReferenceSteps(t *testing.T) {
	s, x0 := newReference(t)

	result, err := s.Run(context.Background(), x0, 2)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(result.Samples))
	}
	if result.StepsTaken != 2 {
		t.Errorf("expected 2 steps, got %d", result.StepsTaken)
	}

	want := []struct{ net, vel, pos, time float64 }{
		{0, 0, 0.2, 0},
		{0.06, 0.06, 0.23, 0.5},
		{0.0528, 0.1128, 0.2864, 1.0},
	}
	for i, w := range want {
		got := result.Samples[i]
		if got.Step != i {
			t.Errorf("sample %d: step = %d", i, got.Step)
		}
		if math.Abs(got.Forces.Net-w.net) > 1e-12 || math.Abs(got.Velocity-w.vel) > 1e-12 ||
			math.Abs(got.Position-w.pos) > 1e-12 || math.Abs(got.Time-w.time) > 1e-12 {
			t.Errorf("sample %d = %+v, want %+v", i, got, w)
		}
	}

	if x0.Position != 0.2 || x0.Velocity != 0 {
		t.Errorf("Run modified its input state: %+v", *x0)
	}
}

func TestSimulatorRun_Converges(t *testing.T) {
	s, x0 := newReference(t)

	result, err := s.Run(context.Background(), x0, 3000)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	final := result.Final()
	if math.Abs(final.Position-x0.Anchor) > 1e-6 {
		t.Errorf("position did not converge to anchor: %v", final.Position)
	}
	if math.Abs(final.Velocity) > 1e-6 {
		t.Errorf("velocity did not converge to zero: %v", final.Velocity)
	}
}

func TestSimulatorRun_Deterministic(t *testing.T) {
	s, x0 := newReference(t)

	a, err := s.Run(context.Background(), x0, 500)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := s.Run(context.Background(), x0, 500)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("trajectories diverge at step %d: %+v vs %+v", i, a.Samples[i], b.Samples[i])
		}
	}
}

func TestSimulatorRun_InvalidSteps(t *testing.T) {
	s, x0 := newReference(t)
	for _, steps := range []int{0, -5} {
		if _, err := s.Run(context.Background(), x0, steps); err == nil {
			t.Errorf("steps=%d: expected error", steps)
		}
	}
}

func TestSimulatorRunFor(t *testing.T) {
	s, x0 := newReference(t)

	result, err := s.RunFor(context.Background(), x0, 2.2)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 5 {
		t.Errorf("expected ceil(2.2/0.5)=5 steps, got %d", result.StepsTaken)
	}

	if _, err := s.RunFor(context.Background(), x0, 0); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestSimulatorRun_Canceled(t *testing.T) {
	s, x0 := newReference(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, x0, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps after cancel, got %d", result.StepsTaken)
	}
}

type countingMetric struct {
	count int
	last  float64
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(s dynamo.Sample) {
	c.count++
	c.last = s.Position
}
func (c *countingMetric) Value() float64 { return float64(c.count) }
func (c *countingMetric) Reset()         { c.count = 0 }

type recordingObserver struct{ steps []int }

func (r *recordingObserver) OnStep(s dynamo.Sample) { r.steps = append(r.steps, s.Step) }

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s, x0 := newReference(t)
	metric := &countingMetric{}
	obs := &recordingObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), x0, 10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["count"] != 11 {
		t.Errorf("expected 11 observations, got %v", result.Metrics["count"])
	}
	if len(obs.steps) != 11 || obs.steps[0] != 0 || obs.steps[10] != 10 {
		t.Errorf("observer steps = %v", obs.steps)
	}

	// metrics are reset between runs
	if _, err := s.Run(context.Background(), x0, 3); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if metric.count != 4 {
		t.Errorf("expected 4 observations after reset, got %d", metric.count)
	}
}

func unstableState(t *testing.T) *dynamo.State {
	t.Helper()
	p := dynamo.DefaultParams()
	p.Stiffness = 10
	st, err := dynamo.New(p)
	if err != nil {
		t.Fatalf("dynamo.New failed: %v", err)
	}
	return st
}

func TestSimulatorRun_SurfacesDivergence(t *testing.T) {
	s := New(physics.NewSpringDamper(), integrators.NewSemiImplicitEuler())

	result, err := s.Run(context.Background(), unstableState(t), 2000)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 2000 {
		t.Errorf("expected all steps without validation, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors without validation, got %v", result.Errors)
	}
	final := result.Final()
	if !math.IsInf(final.Position, 0) && !math.IsNaN(final.Position) {
		t.Errorf("expected non-finite position, got %v", final.Position)
	}
}

func TestSimulatorRun_ValidateState(t *testing.T) {
	s := New(physics.NewSpringDamper(), integrators.NewSemiImplicitEuler())
	s.SetValidateState(true)

	result, err := s.Run(context.Background(), unstableState(t), 2000)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(result.Errors[0], &simErr) {
		t.Fatalf("expected SimulationError, got %T", result.Errors[0])
	}
	if !errors.Is(simErr, dynamo.ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", simErr)
	}
	if result.StepsTaken >= 2000 || simErr.Step != result.StepsTaken {
		t.Errorf("expected early stop at the failing step, steps=%d err step=%d", result.StepsTaken, simErr.Step)
	}
}

func TestSimulatorRun_ValidateStateRejectsInvalidStart(t *testing.T) {
	s, st := newReference(t)
	st.Velocity = math.Inf(1)

	s.SetValidateState(true)
	_, err := s.Run(context.Background(), st, 10)
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || simErr.Step != 0 {
		t.Errorf("expected SimulationError at step 0, got %v", err)
	}

	s.SetValidateState(false)
	result, err := s.Run(context.Background(), st, 10)
	if err != nil {
		t.Fatalf("run without validation failed: %v", err)
	}
	if result.Final().Position == st.Position {
		t.Error("expected the non-finite velocity to propagate")
	}
}
