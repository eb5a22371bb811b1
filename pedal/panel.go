package pedal

import "github.com/samber/lo"

// ParamKind selects how a control behaves on the panel
type ParamKind int

const (
	Knob   ParamKind = iota // continuous 0-127
	Switch                  // three-way, 1-3
	Toggle                  // latching 0/1
	Button                  // momentary 0/1
)

// ParamDef describes one panel control
type ParamDef struct {
	Name    string
	Kind    ParamKind
	Min     float32
	Max     float32
	Default float32
	Labels  []string // switch positions, Min first
}

// InputKind describes what a jack expects
type InputKind int

const (
	CVInput InputKind = iota
	GateInput
	ClockInput
)

type InputDef struct {
	Name string
	Kind InputKind
}

// LightColor is the hue of an LED; brightness comes from the frame
type LightColor int

const (
	Red LightColor = iota
	Green
	Yellow
	Blue
	White
)

type LightDef struct {
	Name  string
	Color LightColor
}

// Layout is the static description of a module's front panel
type Layout struct {
	Params []ParamDef
	Inputs []InputDef
	Lights []LightDef
}

// ParamIndex returns the index of the named param, or -1
func (l *Layout) ParamIndex(name string) int {
	_, i, ok := lo.FindIndexOf(l.Params, func(p ParamDef) bool { return p.Name == name })
	if !ok {
		return -1
	}
	return i
}

// InputIndex returns the index of the named input, or -1
func (l *Layout) InputIndex(name string) int {
	_, i, ok := lo.FindIndexOf(l.Inputs, func(in InputDef) bool { return in.Name == name })
	if !ok {
		return -1
	}
	return i
}

func knob(name string) ParamDef {
	return ParamDef{Name: name, Kind: Knob, Max: 127}
}

func three(name string, def float32, labels ...string) ParamDef {
	return ParamDef{Name: name, Kind: Switch, Min: 1, Max: 3, Default: def, Labels: labels}
}

func toggle(name string) ParamDef {
	return ParamDef{Name: name, Kind: Toggle, Max: 1}
}

func button(name string) ParamDef {
	return ParamDef{Name: name, Kind: Button, Max: 1}
}

func channelKnob(def float32) ParamDef {
	return ParamDef{Name: ChannelParam, Kind: Knob, Min: 0, Max: 16, Default: def}
}

// ChannelParam names the per-panel MIDI channel knob some modules carry
const ChannelParam = "MIDI Channel"

// Input is the live state of a jack
type Input struct {
	Voltage   float32
	Connected bool
}

// Panel holds the live values of a module's controls and jacks
type Panel struct {
	layout *Layout
	params []float32
	inputs []Input
}

// NewPanel creates a panel with every param at its default
func NewPanel(l *Layout) *Panel {
	p := &Panel{
		layout: l,
		params: make([]float32, len(l.Params)),
		inputs: make([]Input, len(l.Inputs)),
	}
	for i, def := range l.Params {
		p.params[i] = def.Default
	}
	return p
}

func (p *Panel) Param(id int) float32 {
	return p.params[id]
}

// SetParam sets a control, clamped to its range
func (p *Panel) SetParam(id int, v float32) {
	def := p.layout.Params[id]
	p.params[id] = lo.Clamp(v, def.Min, def.Max)
}

func (p *Panel) Input(id int) Input {
	return p.inputs[id]
}

func (p *Panel) SetVoltage(id int, v float32) {
	p.inputs[id].Voltage = v
}

func (p *Panel) Connect(id int, connected bool) {
	p.inputs[id].Connected = connected
	if !connected {
		p.inputs[id].Voltage = 0
	}
}

// Params returns a copy of the current values
func (p *Panel) Params() []float32 {
	return append([]float32(nil), p.params...)
}

// Inputs returns a copy of the jack states
func (p *Panel) Inputs() []Input {
	return append([]Input(nil), p.inputs...)
}
