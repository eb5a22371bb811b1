package control

import (
	"math"

	"github.com/samber/lo"
)

// CVMaxVolts is the voltage that maps to CC 127
const CVMaxVolts = 7.5

// CVToCC maps a control voltage onto 0..127 linearly over 0..CVMaxVolts
func CVToCC(volts float32) int {
	cc := int(math.Round(float64(volts) / CVMaxVolts * 127))
	return lo.Clamp(cc, 0, 127)
}

// CeilingClamp applies CV to a knob: the CV value wins but can never exceed
// the knob setting.
func CeilingClamp(knob, cv int) int {
	if knob < 0 {
		knob = 0
	}
	return lo.Clamp(cv, 0, knob)
}

// Rescale maps x from [xMin, xMax] to [yMin, yMax] without clamping
func Rescale(x, xMin, xMax, yMin, yMax float32) float32 {
	return yMin + (x-xMin)/(xMax-xMin)*(yMax-yMin)
}

// Round rounds a panel value to the nearest integer
func Round(v float32) int {
	return int(math.Round(float64(v)))
}

// Floor truncates a switch position
func Floor(v float32) int {
	return int(math.Floor(float64(v)))
}
