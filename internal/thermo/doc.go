// Package thermo evaluates thermophysical properties and reaction rates for
// gas mixtures.
//
// The reactor network only talks to this package through the [Model]
// interface. [IdealGas] is the shipped implementation: calorically perfect
// species with constant molar heat capacity, and global Arrhenius
// reactions defined in a [Mechanism].
//
// Units are SI with kmol as the amount unit, matching common combustion
// codes: molar masses in kg/kmol, enthalpies in J/kmol, concentrations in
// kmol/m³ and production rates in kmol/(m³·s).
package thermo
