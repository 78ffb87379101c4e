package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
)

type SweepResult struct {
	Value  float64
	Params dynamo.Params
	Result *dynamo.Result
}

// Sweep runs one headless simulation per value of the named parameter,
// concurrently. Each run owns its state and its metrics, built by newMetrics
// (which may be nil). Results keep the order of values.
func Sweep(ctx context.Context, base dynamo.Params, param string, values []float64, steps int, newMetrics func(dynamo.Params) []dynamo.Metric) ([]SweepResult, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("sweep over %q: no values", param)
	}

	states := make([]*dynamo.State, len(values))
	results := make([]SweepResult, len(values))
	for i, v := range values {
		p := base
		if err := p.SetParam(param, v); err != nil {
			return nil, err
		}
		st, err := dynamo.New(p)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%v: %w", param, v, err)
		}
		states[i] = st
		results[i] = SweepResult{Value: v, Params: p}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range values {
		g.Go(func() error {
			s := New(physics.NewSpringDamper(), integrators.NewSemiImplicitEuler())
			if newMetrics != nil {
				for _, m := range newMetrics(results[i].Params) {
					s.AddMetric(m)
				}
			}
			res, err := s.Run(ctx, states[i], steps)
			if err != nil {
				return fmt.Errorf("sweep %s=%v: %w", param, values[i], err)
			}
			results[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
