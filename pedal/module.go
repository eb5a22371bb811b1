package pedal

import (
	"time"

	"go-pedalctl/midi"
)

// Tick is one control-rate step
type Tick struct {
	Now   time.Time
	Delta time.Duration
}

// Lights is one brightness (0-1) per LightDef
type Lights []float32

// Frame is what a module wants displayed after a tick. Nil Lights leaves
// the LEDs as they are.
type Frame struct {
	Lights Lights
}

// Module is a virtual front panel for one hardware pedal
type Module interface {
	Slug() string
	Name() string
	Layout() *Layout
	Panel() *Panel
	Output() *midi.Output

	// Process runs one tick; it never blocks
	Process(t Tick) Frame
}

func level(on bool) float32 {
	if on {
		return 1
	}
	return 0
}
