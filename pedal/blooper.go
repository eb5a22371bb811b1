package pedal

import (
	"go-pedalctl/control"
)

const (
	blooperVolume = iota
	blooperLayers
	blooperRepeats
	blooperModA
	blooperStability
	blooperModB
	blooperLToggle
	blooperMToggle
	blooperRToggle
	blooperModAOn
	blooperModBOn
	blooperRecord
	blooperPlay
	blooperStop
	blooperErase
	blooperOneShot
	blooperLoopUp
	blooperLoopDown
)

const (
	blooperVolumeIn = iota
	blooperLayersIn
	blooperRepeatsIn
	blooperModAIn
	blooperStabilityIn
	blooperModBIn
	blooperClockIn
	blooperExprIn
	blooperRecordIn
	blooperPlayIn
	blooperStopIn
	blooperEraseIn
)

const (
	blooperLoopGreen = iota
	blooperLoopRed
	blooperRightLight
)

// mod A/B are inverted on the pedal: 1 enables, 127 disables
const (
	ccModA = 30
	ccModB = 31
)

var blooperLayout = Layout{
	Params: []ParamDef{
		knob("Volume"),
		knob("Layers"),
		knob("Repeats"),
		knob("Mod A"),
		knob("Stability"),
		knob("Mod B"),
		three("Left Toggle", 1),
		three("Middle Toggle", 1),
		three("Right Toggle", 1),
		toggle("Mod A On"),
		toggle("Mod B On"),
		button("Record"),
		button("Play"),
		button("Stop"),
		button("Erase"),
		toggle("One Shot"),
		button("Loop Up"),
		button("Loop Down"),
	},
	Inputs: []InputDef{
		{Name: "Volume CV"},
		{Name: "Layers CV"},
		{Name: "Repeats CV"},
		{Name: "Mod A CV"},
		{Name: "Stability CV"},
		{Name: "Mod B CV"},
		{Name: "Clock", Kind: ClockInput},
		{Name: "Expression"},
		{Name: "Record Gate", Kind: GateInput},
		{Name: "Play Gate", Kind: GateInput},
		{Name: "Stop Gate", Kind: GateInput},
		{Name: "Erase Gate", Kind: GateInput},
	},
	Lights: []LightDef{
		{Name: "Loop", Color: Green},
		{Name: "Record", Color: Red},
		{Name: "Stopped", Color: Red},
	},
}

// Blooper is a looper with record/play/stop/erase control
type Blooper struct {
	Base
	looper *Looper

	buttons [len(blooperButtons)]control.BooleanTrigger
	gates   [4]control.SchmittTrigger // record, play, stop, erase
}

// blooperButtons are edge-detected in this order; the gates share the first four
var blooperButtons = [...]int{blooperRecord, blooperPlay, blooperStop, blooperErase, blooperLoopUp, blooperLoopDown}

// NewBlooper creates a Blooper module
func NewBlooper() Module {
	b := &Blooper{Base: newBase("blooper", "Blooper", &blooperLayout)}
	b.looper = newLooper(b.out)
	return b
}

// LoopState returns the current looper state
func (b *Blooper) LoopState() control.State {
	return b.looper.State()
}

func (b *Blooper) Process(t Tick) Frame {
	if frame, skip := b.inactive(); skip {
		if frame.Lights != nil {
			b.looper.reset()
		}
		return frame
	}

	b.processClock(blooperClockIn)

	b.send(b.sw(blooperLToggle), ccSwitch1)
	b.send(b.sw(blooperMToggle), ccSwitch1+1)
	b.send(b.sw(blooperRToggle), ccSwitch1+2)
	b.send(modEnable(b.on(blooperModAOn)), ccModA)
	b.send(modEnable(b.on(blooperModBOn)), ccModB)

	if tr, ok := b.looper.Step(b.loopAction(), t.Now); ok && tr.From == LoopOneShot {
		b.panel.SetParam(blooperOneShot, 0)
	}

	loop := b.looper.Lights(t.Now)
	frame := Frame{Lights: Lights{loop[0], loop[1], loop[2]}}

	if b.rateLimited(t) {
		return frame
	}

	b.send(b.cv(blooperVolume, blooperVolumeIn), ccKnob1)
	b.send(b.cv(blooperLayers, blooperLayersIn), ccKnob1+1)
	b.send(b.cv(blooperRepeats, blooperRepeatsIn), ccKnob1+2)
	b.send(b.cv(blooperModA, blooperModAIn), ccKnob1+3)
	b.send(b.cv(blooperStability, blooperStabilityIn), ccKnob1+4)
	b.send(b.cv(blooperModB, blooperModBIn), ccKnob1+5)
	b.expression(blooperExprIn)

	return frame
}

// loopAction collects this tick's button and gate edges and picks one.
// Erase wins over stop, stop over record, record over play.
func (b *Blooper) loopAction() control.Action {
	var pressed [len(blooperButtons)]bool
	for i, param := range blooperButtons {
		pressed[i] = b.buttons[i].Process(b.on(param))
	}
	for i := range b.gates {
		if b.gate(&b.gates[i], blooperRecordIn+i) {
			pressed[i] = true
		}
	}

	record, play, stop, erase := pressed[0], pressed[1], pressed[2], pressed[3]
	loopUp, loopDown := pressed[4], pressed[5]

	switch {
	case erase:
		return actErase
	case stop:
		return actStop
	case record:
		if b.looper.State() == LoopPlaying && b.on(blooperOneShot) {
			return actOneShot
		}
		return actRecord
	case play:
		return actPlay
	case loopUp:
		return actLoopUp
	case loopDown:
		return actLoopDown
	}
	return control.NoAction
}

func modEnable(on bool) int {
	if on {
		return 1
	}
	return 127
}
