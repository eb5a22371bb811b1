package pedal

const (
	vinylTone = iota
	vinylLag
	vinylMix
	vinylRPM
	vinylDepth
	vinylWarp
	vinylDivision
	vinylChannel
	vinylBypass
	vinylTap
)

const vinylClockIn = 6

const (
	vinylTapLight = iota
	vinylBypassLight
)

var vinylLayout = Layout{
	Params: []ParamDef{
		knob("Tone"),
		knob("Lag"),
		knob("Mix"),
		knob("RPM"),
		knob("Depth"),
		knob("Warp"),
		{
			Name:   "Tap Division",
			Kind:   Switch,
			Max:    5,
			Labels: []string{"1", "1/2", "1/4T", "1/4", "1/8", "1/16"},
		},
		channelKnob(0),
		toggle("Bypass"),
		button("Tap"),
	},
	Inputs: []InputDef{
		{Name: "Tone CV"},
		{Name: "Lag CV"},
		{Name: "Mix CV"},
		{Name: "RPM CV"},
		{Name: "Depth CV"},
		{Name: "Warp CV"},
		{Name: "Clock", Kind: ClockInput},
	},
	Lights: []LightDef{
		{Name: "Tap", Color: Red},
		{Name: "Bypass", Color: Red},
	},
}

// WarpedVinyl is a vibrato/chorus with tap tempo and tap divisions
type WarpedVinyl struct {
	Base
}

func NewWarpedVinyl() Module {
	return &WarpedVinyl{Base: newBase("warpedvinyl", "Warped Vinyl HiFi", &vinylLayout)}
}

func (w *WarpedVinyl) Process(t Tick) Frame {
	if !w.legacyChannel(vinylChannel) {
		return Frame{}
	}
	if frame, skip := w.inactive(); skip {
		return frame
	}

	w.processClock(vinylClockIn)

	tap := w.tapTempo(w.tapPressed(vinylTap), t)
	on := w.on(vinylBypass)
	frame := Frame{Lights: Lights{tap, level(on)}}

	w.send(bypass(on), ccBypass)
	w.send(w.sw(vinylDivision), ccSwitch1)

	if w.rateLimited(t) {
		return frame
	}

	for i := 0; i < 6; i++ {
		w.send(w.cv(vinylTone+i, i), ccKnob1+i)
	}
	return frame
}
