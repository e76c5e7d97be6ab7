package dsp

import "math"

// GainInterpolation is the exponent used to pull the applied gain from the
// previous gain toward the target: target * (previous/target)^GainInterpolation.
const GainInterpolation = 0.5

// DBToLinear converts decibels to a linear amplitude factor: 10^(dB/20).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts a linear amplitude factor to decibels. Non-positive
// input yields negative infinity.
func LinearToDB(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

// GainRamp smooths gain changes for one channel. The zero value starts with
// no previous gain, so the first Apply jumps straight to the target.
type GainRamp struct {
	previous float64
}

// Apply returns the gain to scale the current sample by.
//
// The ramp remembers the linear target, not the interpolated value it
// returned, so a constant target settles after one call.
func (g *GainRamp) Apply(targetDB float64) float64 {
	target := DBToLinear(targetDB)

	applied := target
	if g.previous > 0 {
		applied = target * math.Pow(g.previous/target, GainInterpolation)
	}
	g.previous = target

	return applied
}

// Previous returns the linear gain remembered from the last Apply.
func (g *GainRamp) Previous() float64 {
	return g.previous
}

// Reset forgets the previous gain.
func (g *GainRamp) Reset() {
	g.previous = 0
}
