package pedal

const (
	darkDecay = iota
	darkMix
	darkDwell
	darkModify
	darkTone
	darkPreDelay
	darkProgram
	darkRouting
	darkWorldProgram
	darkBypassDark
	darkBypassWorld
)

var darkworldLayout = Layout{
	Params: []ParamDef{
		knob("Decay"),
		knob("Mix"),
		knob("Dwell"),
		knob("Modify"),
		knob("Tone"),
		knob("Pre-Delay"),
		three("Dark Program", 2, "Mod", "Shim", "Black"),
		three("Routing", 2, "Parallel", "D>>W", "W>>D"),
		three("World Program", 2, "Hall", "Plate", "Spring"),
		toggle("Bypass Dark"),
		toggle("Bypass World"),
	},
	Inputs: []InputDef{
		{Name: "Decay CV"},
		{Name: "Mix CV"},
		{Name: "Dwell CV"},
		{Name: "Modify CV"},
		{Name: "Tone CV"},
		{Name: "Pre-Delay CV"},
	},
	Lights: []LightDef{
		{Name: "Dark", Color: Blue},
		{Name: "World", Color: Yellow},
	},
}

// Darkworld is a dual reverb with one dual bypass CC
type Darkworld struct {
	Base
}

func NewDarkworld() Module {
	return &Darkworld{Base: newBase("darkworld", "Dark World", &darkworldLayout)}
}

func (d *Darkworld) Process(t Tick) Frame {
	if frame, skip := d.inactive(); skip {
		return frame
	}

	dark := d.on(darkBypassDark)
	world := d.on(darkBypassWorld)
	d.send(dualBypass(world, dark), ccDualBypass)

	d.send(d.sw(darkProgram), ccSwitch1)
	d.send(d.sw(darkRouting), ccSwitch1+1)
	d.send(d.sw(darkWorldProgram), ccSwitch1+2)

	frame := Frame{Lights: Lights{level(dark), level(world)}}

	if d.rateLimited(t) {
		return frame
	}

	for i := 0; i < 6; i++ {
		d.send(d.cv(darkDecay+i, i), ccKnob1+i)
	}
	return frame
}
