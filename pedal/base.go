package pedal

import (
	"go-pedalctl/control"
	"go-pedalctl/midi"
)

// Common CC numbers shared by the pedals
const (
	ccKnob1      = 14 // knobs are 14-19
	ccSwitch1    = 21 // three-way switches / programs are 21-23
	ccToggle1    = 24
	ccClock      = 51 // listen to MIDI clock
	ccTap        = 93
	ccExpression = 100
	ccBypass     = 102
	ccDualBypass = 103
)

// Base carries the behaviour every module shares: the command cache, the
// lights-off latch, rate limiting, tap tempo and CV helpers.
type Base struct {
	slug   string
	name   string
	layout *Layout
	panel  *Panel
	out    *midi.Output

	rate      control.RateLimiter
	tap       control.TapTempo
	tapButton control.BooleanTrigger
	tapLevel  float32
	lightsOff bool
}

func newBase(slug, name string, layout *Layout) Base {
	return Base{
		slug:      slug,
		name:      name,
		layout:    layout,
		panel:     NewPanel(layout),
		out:       midi.NewOutput(),
		lightsOff: true,
	}
}

func (b *Base) Slug() string { return b.slug }
func (b *Base) Name() string { return b.name }
func (b *Base) Layout() *Layout { return b.layout }
func (b *Base) Panel() *Panel { return b.panel }
func (b *Base) Output() *midi.Output { return b.out }

// disable sets the lights-off latch and reports whether it was already set
func (b *Base) disable() bool {
	was := b.lightsOff
	b.lightsOff = true
	return was
}

func (b *Base) enable() {
	b.lightsOff = false
}

// inactive guards a tick. skip is true while the output is not active; the
// frame clears every light on the first such tick only.
func (b *Base) inactive() (frame Frame, skip bool) {
	if b.out.Active() {
		if b.lightsOff {
			// first active tick sends the full state
			b.rate.Prime()
		}
		b.enable()
		return Frame{}, false
	}
	if b.disable() {
		return Frame{}, true
	}
	b.tap.Reset()
	b.tapLevel = 0
	return Frame{Lights: make(Lights, len(b.layout.Lights))}, true
}

// legacyChannel applies the panel's channel knob. False means the channel is
// unset and the whole tick is a no-op.
func (b *Base) legacyChannel(param int) bool {
	ch := control.Round(b.panel.Param(param))
	if ch <= 0 {
		return false
	}
	b.out.SetChannel(ch - 1)
	return true
}

func (b *Base) rateLimited(t Tick) bool {
	return b.rate.ShouldRateLimit(control.DefaultRatePeriod, t.Delta)
}

func (b *Base) send(value, cc int) bool {
	return b.out.SendCachedCC(value, cc)
}

// knob reads a continuous control as a CC value
func (b *Base) knob(param int) int {
	return control.Round(b.panel.Param(param))
}

// sw reads a stepped control (switch, toggle, button)
func (b *Base) sw(param int) int {
	return control.Floor(b.panel.Param(param))
}

func (b *Base) on(param int) bool {
	return b.sw(param) > 0
}

// cv reads a knob with its CV jack applied as a ceiling clamp
func (b *Base) cv(param, input int) int {
	k := b.knob(param)
	in := b.panel.Input(input)
	if !in.Connected {
		return k
	}
	return control.CeilingClamp(k, control.CVToCC(in.Voltage))
}

// expression forwards the expression jack on CC 100 (only non-zero values)
func (b *Base) expression(input int) {
	in := b.panel.Input(input)
	if !in.Connected {
		return
	}
	if expr := control.CVToCC(in.Voltage); expr > 0 {
		b.send(expr, ccExpression)
	}
}

// gate reports a rising edge on a connected gate jack
func (b *Base) gate(trig *control.SchmittTrigger, input int) bool {
	in := b.panel.Input(input)
	if !in.Connected {
		trig.Reset()
		return false
	}
	return trig.ProcessVoltage(in.Voltage)
}

// gateHigh reports whether a connected gate jack is currently high
func (b *Base) gateHigh(trig *control.SchmittTrigger, input int) bool {
	b.gate(trig, input)
	return trig.IsHigh()
}

// processClock forwards the clock jack as MIDI clock and keeps the pedal
// listening for it. While unplugged the listen CC is re-sent on reconnect.
func (b *Base) processClock(input int) {
	in := b.panel.Input(input)
	if !in.Connected {
		b.out.ResetCCCache(ccClock)
		b.out.SetClock(false)
		return
	}
	b.send(127, ccClock)
	b.out.SetClock(in.Voltage >= 1)
}

// tapTempo runs the tap processor and forces the tap CC on every accepted
// tap. It returns the tempo light level.
func (b *Base) tapTempo(tap bool, t Tick) float32 {
	brightness, accepted := b.tap.Process(tap, t.Now)
	if accepted {
		b.out.ForceCC(1, ccTap)
	}
	if brightness != control.NoChange {
		b.tapLevel = brightness
	}
	return b.tapLevel
}

// tapPressed turns the tap button level into an edge
func (b *Base) tapPressed(param int) bool {
	return b.tapButton.Process(b.on(param))
}

// dualBypass encodes two footswitches on one CC
func dualBypass(first, second bool) int {
	switch {
	case first && second:
		return 127
	case second:
		return 85
	case first:
		return 45
	}
	return 0
}

func bypass(on bool) int {
	if on {
		return 127
	}
	return 0
}
