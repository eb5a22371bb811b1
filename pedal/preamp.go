package pedal

import "go-pedalctl/control"

const (
	preampVolume = iota
	preampTreble
	preampMids
	preampFreq
	preampBass
	preampGain
	preampJump
	preampMidsMode
	preampQ
	preampDiode
	preampFuzz
	preampPreset
	preampBypass
)

const (
	preampPresetIn = iota
	preampBypassIn
	preampExprIn
)

var preampLayout = Layout{
	Params: []ParamDef{
		knob("Volume"),
		knob("Treble"),
		knob("Mids"),
		knob("Frequency"),
		knob("Bass"),
		knob("Gain"),
		three("Jump", 1, "Off", "1", "5"),
		three("Mids Routing", 1, "Off", "Pre", "Post"),
		three("Q", 1, "Low", "Mid", "High"),
		three("Diode", 1, "Off", "Sil", "Germ"),
		three("Fuzz", 1, "Off", "Open", "Gated"),
		button("Preset"),
		toggle("Bypass"),
	},
	Inputs: []InputDef{
		{Name: "Preset Gate", Kind: GateInput},
		{Name: "Bypass Gate", Kind: GateInput},
		{Name: "Expression"},
	},
	Lights: []LightDef{
		{Name: "Bypass", Color: Red},
	},
}

// PreampMKII is a preamp with sliders, arcade buttons and presets
type PreampMKII struct {
	Base
	preset     presetStepper
	bypassGate control.SchmittTrigger
}

func NewPreampMKII() Module {
	return &PreampMKII{Base: newBase("preamp", "Preamp MKII", &preampLayout)}
}

// Preset returns the selected program
func (p *PreampMKII) Preset() int {
	return p.preset.program
}

func (p *PreampMKII) Process(t Tick) Frame {
	if frame, skip := p.inactive(); skip {
		if frame.Lights != nil {
			p.preset.reset()
		}
		return frame
	}

	if p.gate(&p.bypassGate, preampBypassIn) {
		p.panel.SetParam(preampBypass, float32(1-p.sw(preampBypass)))
	}
	on := p.on(preampBypass)
	p.send(bypass(on), ccBypass)
	frame := Frame{Lights: Lights{level(on)}}

	for i := 0; i < 5; i++ {
		p.send(p.sw(preampJump+i), ccArcade1+i)
	}

	p.preset.process(&p.Base, preampPreset, preampPresetIn, t.Now)

	if p.rateLimited(t) {
		return frame
	}

	for i := 0; i < 6; i++ {
		p.send(p.knob(preampVolume+i), ccKnob1+i)
	}
	p.expression(preampExprIn)
	return frame
}
