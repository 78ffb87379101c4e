// Package dynamo provides the core types of the mass-spring-damper simulator.
//
//   - [State]: the registers of the single simulated body
//   - [Params]: validated construction values, see [New]
//   - [Forces]: instantaneous damping, spring and net force
//   - [ForceModel] and [Integrator]: one simulation step is
//     Forces followed by Step
//   - [Surface]: a display the render loop draws on
//
// # Example
//
//	st, err := dynamo.New(dynamo.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	f := physics.NewSpringDamper().Forces(st)
//	integrators.NewSemiImplicitEuler().Step(st, f)
//
// # Thread Safety
//
// A State is owned by one control flow. Parallel runs each build their own.
package dynamo
