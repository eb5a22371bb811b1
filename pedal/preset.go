package pedal

import (
	"time"

	"go-pedalctl/control"
)

const (
	presetCount  = 30
	presetRepeat = 500 * time.Millisecond
)

// presetStepper advances the program while the preset button or gate is
// held, at most once per presetRepeat. The program starts at 0.
type presetStepper struct {
	program int
	grace   control.GracePeriod
	gate    control.SchmittTrigger
}

func (p *presetStepper) process(b *Base, button, input int, now time.Time) {
	// resend after a cache reset before stepping from it
	b.out.SetProgram(p.program)

	held := b.on(button) || b.gateHigh(&p.gate, input)
	if !held || !p.grace.Elapsed(presetRepeat, now) {
		return
	}
	b.out.IncrementProgram(1, presetCount)
	p.program = b.out.Program()
	p.grace.Mark(now)
}

func (p *presetStepper) reset() {
	p.grace.Clear()
	p.gate.Reset()
}
