// Package calc holds the ideal-weight derivation. The coefficients are
// empirical; they come with the machine, not from theory.
package calc

import "math"

// IdealWeight maps the four sensor inputs to the derived weight value.
func IdealWeight(load, temperature, pressure, hydraulic float64) float64 {
	return load + temperature*1.2 + pressure*0.8 + hydraulic*1.5
}

// Round2 rounds to two decimal places, used for reported averages.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
