package pedal

import (
	"time"

	"go-pedalctl/control"
)

const (
	habitLevel = iota
	habitRepeats
	habitSize
	habitModify
	habitSpread
	habitScan
	habitLToggle
	habitMToggle
	habitRToggle
	habitLoopHold
	habitScanMode
	habitReset
	habitBypass
	habitTap
)

const (
	habitLevelIn = iota
	habitRepeatsIn
	habitSizeIn
	habitModifyIn
	habitSpreadIn
	habitScanIn
	habitClockIn
	habitExprIn
	habitTapIn
	habitBypassLowIn
	habitBypassHighIn
)

const (
	habitTapGreen = iota
	habitTapRed
	habitBypassGreen
	habitBypassRed
)

const (
	ccLoopHold = ccToggle1
	ccScanMode = ccToggle1 + 1
	ccReset    = ccToggle1 + 2
)

// The pedal sometimes misses loop hold and scan mode being switched off, so
// the off value is resent a couple of times.
const (
	resyncAttempts = 2
	resyncInterval = 1500 * time.Millisecond
)

var habitLayout = Layout{
	Params: []ParamDef{
		knob("Level"),
		{Name: "Repeats", Kind: Knob, Max: 127, Default: 64},
		knob("Size"),
		knob("Modify"),
		{Name: "Spread", Kind: Knob, Max: 127, Default: 64},
		{Name: "Scan", Kind: Knob, Max: 127, Default: 64},
		three("Modifier", 2, "1", "2", "3"),
		three("Bank", 2, "A", "Off", "B"),
		three("Record Mode", 2, "In", "Out", "Feed"),
		toggle("Loop Hold"),
		toggle("Scan Mode"),
		toggle("Reset"),
		toggle("Bypass"),
		button("Tap"),
	},
	Inputs: []InputDef{
		{Name: "Level CV"},
		{Name: "Repeats CV"},
		{Name: "Size CV"},
		{Name: "Modify CV"},
		{Name: "Spread CV"},
		{Name: "Scan CV"},
		{Name: "Clock", Kind: ClockInput},
		{Name: "Expression"},
		{Name: "Tap Gate", Kind: GateInput},
		{Name: "Bypass Off", Kind: GateInput},
		{Name: "Bypass On", Kind: GateInput},
	},
	Lights: []LightDef{
		{Name: "Tap (Scan)", Color: Green},
		{Name: "Tap", Color: Red},
		{Name: "Bypass (Hold)", Color: Green},
		{Name: "Bypass", Color: Red},
	},
}

// resync re-sends a toggle's off value a few times after it is switched off
type resync struct {
	attempts int
	timer    control.GracePeriod
}

func (r *resync) process(on bool, cc int, b *Base, now time.Time) {
	if on {
		r.attempts = resyncAttempts
		r.timer.Mark(now)
		return
	}
	if r.attempts > 0 && r.timer.Elapsed(resyncInterval, now) {
		r.attempts--
		r.timer.Mark(now)
		b.out.ResetCCCache(cc)
	}
}

// Habit is an echo collector with loop hold and scan mode
type Habit struct {
	Base

	holdSync resync
	scanSync resync

	tapGate    control.SchmittTrigger
	bypassLow  control.SchmittTrigger
	bypassHigh control.SchmittTrigger
}

func NewHabit() Module {
	return &Habit{Base: newBase("habit", "Habit", &habitLayout)}
}

func (h *Habit) Process(t Tick) Frame {
	if frame, skip := h.inactive(); skip {
		return frame
	}

	h.processClock(habitClockIn)

	scanMode := h.on(habitScanMode)
	hold := h.on(habitLoopHold)

	if h.gate(&h.bypassHigh, habitBypassHighIn) {
		h.panel.SetParam(habitBypass, 1)
	}
	if h.gate(&h.bypassLow, habitBypassLowIn) {
		h.panel.SetParam(habitBypass, 0)
	}

	tapped := h.tapPressed(habitTap)
	if h.gate(&h.tapGate, habitTapIn) {
		tapped = true
	}
	tap := h.tapTempo(tapped, t)
	on := h.on(habitBypass)

	lights := make(Lights, len(habitLayout.Lights))
	if scanMode {
		lights[habitTapGreen] = tap
	} else {
		lights[habitTapRed] = tap
	}
	if hold {
		lights[habitBypassGreen] = level(on)
	} else {
		lights[habitBypassRed] = level(on)
	}
	frame := Frame{Lights: lights}

	h.send(bypass(on), ccBypass)
	h.send(h.sw(habitLToggle), ccSwitch1)
	h.send(h.sw(habitMToggle), ccSwitch1+1)
	h.send(h.sw(habitRToggle), ccSwitch1+2)

	h.holdSync.process(hold, ccLoopHold, &h.Base, t.Now)
	h.scanSync.process(scanMode, ccScanMode, &h.Base, t.Now)
	h.send(bypass(hold), ccLoopHold)
	h.send(bypass(scanMode), ccScanMode)
	h.send(bypass(h.on(habitReset)), ccReset)

	if h.rateLimited(t) {
		return frame
	}

	for i := 0; i < 6; i++ {
		h.send(h.cv(habitLevel+i, habitLevelIn+i), ccKnob1+i)
	}
	h.expression(habitExprIn)
	return frame
}
