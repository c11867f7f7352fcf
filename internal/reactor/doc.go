// Package reactor models the zero-dimensional network around a combustion
// chamber: fixed-state [Reservoir] boundary nodes, the well-mixed
// [Chamber] control volume, and the flow devices that connect them.
//
// Flow devices form directed edges. A [Valve] passes mass in proportion to
// the positive pressure drop across it and never reverses. A
// [MassFlowController] delivers a rate prescribed by a [Profile] of time,
// regardless of pressure.
//
// The chamber implements [dynamo.System]; its state vector is
//
//	x = [m, T, Y_1 ... Y_K]
//
// with mass m in kg, temperature T in K and mass fractions Y_k in the
// species order of the [thermo.Model].
package reactor
