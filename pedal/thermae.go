package pedal

const (
	thermaeMix = iota
	thermaeLPF
	thermaeRegen
	thermaeGlide
	thermaeInt1
	thermaeInt2
	thermaeLToggle
	thermaeMToggle
	thermaeRToggle
	thermaeHold
	thermaeSlowdown
	thermaeChannel
	thermaeBypass
	thermaeTap
)

const thermaeClockIn = 6

const (
	thermaeTapGreen = iota
	thermaeTapRed
	thermaeBypassLight
)

var thermaeDivisions = []string{"1/4", "1/8.", "1/8"}

var thermaeLayout = Layout{
	Params: []ParamDef{
		knob("Mix"),
		{Name: "LPF", Kind: Knob, Max: 127, Default: 64},
		knob("Regen"),
		knob("Glide"),
		{Name: "Int1", Kind: Knob, Max: 127, Default: 64},
		{Name: "Int2", Kind: Knob, Max: 127, Default: 64},
		three("Pre-Delay", 2, thermaeDivisions...),
		three("Int1 Delay", 2, thermaeDivisions...),
		three("Int2 Delay", 2, thermaeDivisions...),
		toggle("Hold"),
		toggle("Slowdown"),
		channelKnob(0),
		toggle("Bypass"),
		button("Tap"),
	},
	Inputs: []InputDef{
		{Name: "Mix CV"},
		{Name: "LPF CV"},
		{Name: "Regen CV"},
		{Name: "Glide CV"},
		{Name: "Int1 CV"},
		{Name: "Int2 CV"},
		{Name: "Clock", Kind: ClockInput},
	},
	Lights: []LightDef{
		{Name: "Tap (Slowdown)", Color: Green},
		{Name: "Tap", Color: Red},
		{Name: "Bypass", Color: Red},
	},
}

// Thermae is an analog delay with tap tempo. Slowdown mode turns the tap
// light green.
type Thermae struct {
	Base
}

func NewThermae() Module {
	return &Thermae{Base: newBase("thermae", "Thermae", &thermaeLayout)}
}

func (th *Thermae) Process(t Tick) Frame {
	if !th.legacyChannel(thermaeChannel) {
		return Frame{}
	}
	if frame, skip := th.inactive(); skip {
		return frame
	}

	th.processClock(thermaeClockIn)

	slowdown := th.on(thermaeSlowdown)
	tap := th.tapTempo(th.tapPressed(thermaeTap), t)
	on := th.on(thermaeBypass)

	lights := make(Lights, len(thermaeLayout.Lights))
	if slowdown {
		lights[thermaeTapGreen] = tap
	} else {
		lights[thermaeTapRed] = tap
	}
	lights[thermaeBypassLight] = level(on)
	frame := Frame{Lights: lights}

	th.send(th.sw(thermaeLToggle), ccSwitch1)
	th.send(th.sw(thermaeMToggle), ccSwitch1+1)
	th.send(th.sw(thermaeRToggle), ccSwitch1+2)
	th.send(bypass(th.on(thermaeHold)), ccToggle1)
	th.send(bypass(slowdown), ccToggle1+1)
	th.send(bypass(on), ccBypass)

	if th.rateLimited(t) {
		return frame
	}

	for i := 0; i < 6; i++ {
		th.send(th.cv(thermaeMix+i, i), ccKnob1+i)
	}
	return frame
}
