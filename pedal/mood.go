package pedal

const (
	moodTime = iota
	moodMix
	moodLength
	moodModifyBlood
	moodClock
	moodModifyLoop
	moodBloodProgram
	moodRouting
	moodLoopProgram
	moodChannel
	moodBypassBlood
	moodBypassLoop
)

const (
	moodBloodLight = iota
	moodLoopGreen
	moodLoopRed
)

var moodLayout = Layout{
	Params: []ParamDef{
		knob("Time"),
		knob("Mix"),
		knob("Length"),
		knob("Modify (Wet)"),
		knob("Clock"),
		knob("Modify (Loop)"),
		three("Wet Program", 2, "Reverb", "Delay", "Slip"),
		three("Routing", 2, "In", "In + Loop", "Loop"),
		three("Loop Program", 2, "Env", "Tape", "Stretch"),
		channelKnob(0),
		toggle("Bypass Wet"),
		toggle("Bypass Loop"),
	},
	Inputs: []InputDef{
		{Name: "Time CV"},
		{Name: "Mix CV"},
		{Name: "Length CV"},
		{Name: "Modify (Wet) CV"},
		{Name: "Clock CV"},
		{Name: "Modify (Loop) CV"},
	},
	Lights: []LightDef{
		{Name: "Wet", Color: Green},
		{Name: "Loop", Color: Green},
		{Name: "Loop Off", Color: Red},
	},
}

// Mood has two channels (wet and loop) sharing one dual bypass CC
type Mood struct {
	Base
}

func NewMood() Module {
	return &Mood{Base: newBase("mood", "Mood", &moodLayout)}
}

func (m *Mood) Process(t Tick) Frame {
	if !m.legacyChannel(moodChannel) {
		return Frame{}
	}
	if frame, skip := m.inactive(); skip {
		return frame
	}

	m.send(m.sw(moodBloodProgram), ccSwitch1)
	m.send(m.sw(moodRouting), ccSwitch1+1)
	// a new loop program stops the loop on the pedal, so mirror that
	if m.send(m.sw(moodLoopProgram), ccSwitch1+2) {
		m.panel.SetParam(moodBypassLoop, 0)
	}

	blood := m.on(moodBypassBlood)
	loop := m.on(moodBypassLoop)
	m.send(dualBypass(loop, blood), ccDualBypass)

	frame := Frame{Lights: Lights{level(blood), level(loop), level(!loop)}}

	if m.rateLimited(t) {
		return frame
	}

	for i := 0; i < 6; i++ {
		m.send(m.cv(moodTime+i, i), ccKnob1+i)
	}
	return frame
}
