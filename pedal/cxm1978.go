package pedal

import "go-pedalctl/control"

const (
	cxmBass = iota
	cxmMids
	cxmCross
	cxmTreble
	cxmMix
	cxmPreDelay
	cxmJump
	cxmType
	cxmDiffusion
	cxmTankMod
	cxmClock
	cxmPreset
	cxmBypass
)

const (
	cxmPresetIn = iota
	cxmBypassIn
	cxmExprIn
	cxmBassIn
)

// arcade buttons sit on CC 22-26
const ccArcade1 = ccSwitch1 + 1

var cxmLayout = Layout{
	Params: []ParamDef{
		knob("Bass"),
		knob("Mids"),
		knob("Cross"),
		knob("Treble"),
		knob("Mix"),
		knob("Pre-Delay"),
		three("Jump", 1, "Off", "1", "5"),
		three("Type", 1, "Room", "Plate", "Hall"),
		three("Diffusion", 1, "Low", "Med", "High"),
		three("Tank Mod", 1, "Low", "Med", "High"),
		three("Clock", 1, "HiFi", "Std", "LoFi"),
		button("Preset"),
		toggle("Bypass"),
	},
	Inputs: []InputDef{
		{Name: "Preset Gate", Kind: GateInput},
		{Name: "Bypass Gate", Kind: GateInput},
		{Name: "Expression"},
		{Name: "Bass CV"},
		{Name: "Mids CV"},
		{Name: "Cross CV"},
		{Name: "Treble CV"},
		{Name: "Mix CV"},
		{Name: "Pre-Delay CV"},
	},
	Lights: []LightDef{
		{Name: "Bypass", Color: Red},
	},
}

// Cxm1978 is a reverb driven by sliders, arcade buttons and presets
type Cxm1978 struct {
	Base
	preset     presetStepper
	bypassGate control.SchmittTrigger
}

func NewCxm1978() Module {
	return &Cxm1978{Base: newBase("cxm1978", "CXM 1978", &cxmLayout)}
}

// Preset returns the selected program
func (c *Cxm1978) Preset() int {
	return c.preset.program
}

func (c *Cxm1978) Process(t Tick) Frame {
	if frame, skip := c.inactive(); skip {
		if frame.Lights != nil {
			c.preset.reset()
		}
		return frame
	}

	if c.gate(&c.bypassGate, cxmBypassIn) {
		c.panel.SetParam(cxmBypass, float32(1-c.sw(cxmBypass)))
	}
	on := c.on(cxmBypass)
	c.send(bypass(on), ccBypass)
	frame := Frame{Lights: Lights{level(on)}}

	for i := 0; i < 5; i++ {
		c.send(c.sw(cxmJump+i), ccArcade1+i)
	}

	c.preset.process(&c.Base, cxmPreset, cxmPresetIn, t.Now)

	if c.rateLimited(t) {
		return frame
	}

	for i := 0; i < 6; i++ {
		c.send(c.cv(cxmBass+i, cxmBassIn+i), ccKnob1+i)
	}
	c.expression(cxmExprIn)
	return frame
}
