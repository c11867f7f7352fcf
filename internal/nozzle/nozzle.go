// Package nozzle holds the isentropic relations used to turn chamber
// conditions into exhaust velocity, thrust and choked mass flow.
package nozzle

import (
	"math"

	"github.com/san-kum/combustor/internal/thermo"
)

// ExitVelocity returns the ideal isentropic exit velocity in m/s for gas
// expanding from chamber pressure p and temperature t down to pExit.
// k is the heat capacity ratio and mw the mean molecular weight in
// kg/kmol. When p <= pExit there is no expansion and the result is 0.
func ExitVelocity(p, t, k, mw, pExit float64) float64 {
	if !(p > pExit) || !(t > 0) || !(k > 1) || !(mw > 0) {
		return 0
	}
	r := thermo.GasConstant / mw
	ratio := math.Pow(pExit/p, (k-1)/k)
	v2 := 2 * k / (k - 1) * r * t * (1 - ratio)
	if !(v2 > 0) {
		return 0
	}
	return math.Sqrt(v2)
}

// Thrust models thrust as ρ·c²·v², with c the exhaust valve coefficient.
func Thrust(density, coeff, v float64) float64 {
	return density * coeff * coeff * v * v
}

// CriticalFlow returns the valve coefficient that reproduces choked mass
// flow through a throat of the given area when placed between pUp and
// pDown: mdot_choked / (pUp - pDown). It returns 0 when pUp <= pDown.
func CriticalFlow(pUp, tUp, mw, k, pDown, area float64) float64 {
	if !(pUp > pDown) || !(tUp > 0) || !(mw > 0) || !(k > 1) || !(area >= 0) {
		return 0
	}
	r := thermo.GasConstant / mw
	mdot := area * pUp * math.Sqrt(k/(r*tUp)) * math.Pow(2/(k+1), (k+1)/(2*(k-1)))
	return mdot / (pUp - pDown)
}
