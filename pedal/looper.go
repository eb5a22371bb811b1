package pedal

import (
	"time"

	"go-pedalctl/control"
	"go-pedalctl/midi"
)

// Loop states. The numbering matches the looper's own state codes.
const (
	LoopUnknown control.State = iota
	LoopRecording
	LoopPlaying
	LoopStopped
	LoopErasing
	LoopOneShot
	LoopChange
)

var loopStateNames = [...]string{"UNKNOWN", "RECORDING", "PLAYING", "STOPPED", "ERASING", "ONE SHOT", "LOOP CHANGE"}

// LoopStateName returns a display name for a loop state
func LoopStateName(s control.State) string {
	if s < 0 || int(s) >= len(loopStateNames) {
		return "?"
	}
	return loopStateNames[s]
}

const (
	actRecord control.Action = iota + 1
	actPlay
	actStop
	actErase
	actOneShot
	actLoopUp
	actLoopDown
)

// Looper command CCs
const (
	ccRecord  = 102
	ccPlay    = 103
	ccStop    = 104
	ccErase   = 105
	ccOneShot = 106
)

const loopPrograms = 16

var loopCommands = map[control.Action]int{
	actRecord:  ccRecord,
	actPlay:    ccPlay,
	actStop:    ccStop,
	actErase:   ccErase,
	actOneShot: ccOneShot,
}

var loopTable = control.Table{
	Initial: LoopUnknown,
	Rules: []control.Rule{
		{From: LoopUnknown, On: actRecord, To: LoopRecording},
		{From: LoopUnknown, On: actPlay, To: LoopPlaying},
		{From: LoopUnknown, On: actStop, To: LoopStopped},
		{From: LoopUnknown, On: actErase, To: LoopErasing},

		{From: LoopRecording, On: actPlay, To: LoopPlaying},
		{From: LoopRecording, On: actStop, To: LoopStopped},
		{From: LoopRecording, On: actErase, To: LoopErasing},

		{From: LoopPlaying, On: actRecord, To: LoopRecording},
		{From: LoopPlaying, On: actOneShot, To: LoopOneShot},
		{From: LoopPlaying, On: actStop, To: LoopStopped},
		{From: LoopPlaying, On: actErase, To: LoopErasing},

		{From: LoopStopped, On: actRecord, To: LoopRecording},
		{From: LoopStopped, On: actPlay, To: LoopPlaying},
		{From: LoopStopped, On: actErase, To: LoopErasing},

		{From: LoopOneShot, On: actStop, To: LoopStopped},
		{From: LoopOneShot, On: actErase, To: LoopErasing},

		{From: control.AnyState, On: actLoopUp, To: LoopChange},
		{From: control.AnyState, On: actLoopDown, To: LoopChange},
	},
	Dwell: map[control.State]control.Dwell{
		LoopErasing: {After: 2 * time.Second, Next: LoopUnknown},
		LoopOneShot: {After: 3 * time.Second, Next: LoopPlaying},
		LoopChange:  {After: 4 * time.Second, Next: LoopStopped},
	},
	Debounce: map[control.Action]time.Duration{
		actLoopUp:   time.Second,
		actLoopDown: time.Second,
	},
}

// Looper drives the loop state machine and sends a command for every
// input-driven transition.
type Looper struct {
	machine *control.Machine
	flasher control.Flasher
	out     *midi.Output
}

func newLooper(out *midi.Output) *Looper {
	return &Looper{out: out}
}

// State returns the current loop state
func (l *Looper) State() control.State {
	if l.machine == nil {
		return loopTable.Initial
	}
	return l.machine.State()
}

// Step feeds one action (or control.NoAction) into the machine
func (l *Looper) Step(a control.Action, now time.Time) (control.Transition, bool) {
	if l.machine == nil {
		l.machine = control.NewMachine(&loopTable, now)
	}

	tr, ok := l.machine.Step(a, now)
	if !ok {
		return tr, false
	}

	if tr.From != tr.To {
		l.flasher.Reset()
	}
	if tr.From == LoopOneShot {
		l.out.ResetCCCache(ccOneShot)
	}
	if tr.Timeout {
		return tr, true
	}

	switch tr.Action {
	case actLoopUp:
		l.out.IncrementProgram(1, loopPrograms)
	case actLoopDown:
		l.out.DecrementProgram(1, loopPrograms)
	default:
		l.out.ForceCC(127, loopCommands[tr.Action])
	}
	return tr, true
}

// Lights returns the loop LEDs (green, red, right) for the current state
func (l *Looper) Lights(now time.Time) [3]float32 {
	s := l.State()
	var flash float32
	if rate := loopBlinkRate(s); rate > 0 {
		flash = l.flasher.Flash(rate, now)
	}
	return loopLights(s, flash)
}

func (l *Looper) reset() {
	l.machine = nil
	l.flasher.Reset()
}

func loopBlinkRate(s control.State) time.Duration {
	switch s {
	case LoopStopped:
		return time.Second
	case LoopErasing, LoopChange:
		return 250 * time.Millisecond
	case LoopOneShot:
		return 500 * time.Millisecond
	}
	return 0
}

// loopLights maps a state and the current flasher level to the green, red
// and right LEDs.
func loopLights(s control.State, flash float32) [3]float32 {
	switch s {
	case LoopRecording:
		return [3]float32{0, 1, 0}
	case LoopPlaying:
		return [3]float32{1, 0, 0}
	case LoopStopped:
		return [3]float32{0, 0, flash}
	case LoopErasing:
		return [3]float32{0, flash, flash}
	case LoopOneShot:
		return [3]float32{flash, 0, 0}
	case LoopChange:
		return [3]float32{flash, 0, flash}
	}
	return [3]float32{}
}
