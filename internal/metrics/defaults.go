package metrics

import "github.com/san-kum/springsim/internal/dynamo"

const (
	DefaultSettleTolerance = 1e-3
	DefaultStabilityBound  = 10.0
)

// Defaults returns a fresh set of the metrics reported by the CLI.
func Defaults(p dynamo.Params) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(),
		NewEnergyDecay(),
		NewPeakDisplacement(p.Anchor),
		NewSettle(p.Anchor, DefaultSettleTolerance),
		NewStability(p.Anchor, DefaultStabilityBound),
	}
}
