// Package physics provides the force model of the simulator.
//
// [SpringDamper] implements [dynamo.ForceModel] and [dynamo.Hamiltonian]:
//
//	damping = -c * v
//	spring  =  k * (anchor - x)
//	net     = damping + spring
//
// Forces are recomputed from scratch on every call; nothing carries over
// between steps.
package physics
