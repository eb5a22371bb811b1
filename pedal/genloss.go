package pedal

const (
	genWow = iota
	genWet
	genHP
	genFlutter
	genGen
	genLP
	genAuxFunc
	genDry
	genHiss
	genChannel
	genBypassAux
	genBypassPedal
)

const (
	genAuxLight = iota
	genBypassLight
)

var genlossLayout = Layout{
	Params: []ParamDef{
		knob("Wow"),
		knob("Wet"),
		knob("HP"),
		knob("Flutter"),
		knob("Generations"),
		knob("LP"),
		three("Aux Function", 2, "Mod", "Gen", "Filter"),
		three("Dry", 2, "None", "Small", "Unity"),
		three("Hiss", 2, "None", "Mild", "Heavy"),
		channelKnob(0),
		toggle("Bypass Aux"),
		toggle("Bypass Pedal"),
	},
	Inputs: []InputDef{
		{Name: "Wow CV"},
		{Name: "Wet CV"},
		{Name: "HP CV"},
		{Name: "Flutter CV"},
		{Name: "Generations CV"},
		{Name: "LP CV"},
	},
	Lights: []LightDef{
		{Name: "Aux", Color: Yellow},
		{Name: "Bypass", Color: Red},
	},
}

// GenerationLoss is a tape emulator with an aux footswitch
type GenerationLoss struct {
	Base
}

func NewGenerationLoss() Module {
	return &GenerationLoss{Base: newBase("genloss", "Generation Loss MKII", &genlossLayout)}
}

func (g *GenerationLoss) Process(t Tick) Frame {
	if !g.legacyChannel(genChannel) {
		return Frame{}
	}
	if frame, skip := g.inactive(); skip {
		return frame
	}

	aux := g.on(genBypassAux)
	pedal := g.on(genBypassPedal)
	g.send(dualBypass(pedal, aux), ccDualBypass)

	g.send(g.sw(genAuxFunc), ccSwitch1)
	g.send(g.sw(genDry), ccSwitch1+1)
	g.send(g.sw(genHiss), ccSwitch1+2)

	frame := Frame{Lights: Lights{level(aux), level(pedal)}}

	if g.rateLimited(t) {
		return frame
	}

	for i := 0; i < 6; i++ {
		g.send(g.cv(genWow+i, i), ccKnob1+i)
	}
	return frame
}
