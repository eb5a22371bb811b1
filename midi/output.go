package midi

import (
	"time"

	"github.com/samber/lo"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-pedalctl/debug"
)

const unset = -1

// Output is a per-module MIDI command cache. It drops CC and program values
// the device already has, so modules can write their whole state every tick.
type Output struct {
	deviceID int
	channel  int
	send     Sender

	ccCache [128]int
	program int
	clock   bool

	// NeedsRunningStatusDefeat follows every CC with a Note-Off on key 0, for
	// receivers that drop the second of two CCs sharing a status byte.
	NeedsRunningStatusDefeat bool

	monitor func(Event)
	now     func() time.Time
}

// NewOutput creates an unbound output (no device, no channel)
func NewOutput() *Output {
	o := &Output{
		deviceID: unset,
		channel:  unset,
		now:      time.Now,
	}
	o.Reset()
	return o
}

// Reset clears every cached CC value and the current program
func (o *Output) Reset() {
	for i := range o.ccCache {
		o.ccCache[i] = unset
	}
	o.program = unset
	o.clock = false
}

// SetDevice binds the output to a port. A new id resets the cache so the
// next tick resends the full state.
func (o *Output) SetDevice(id int, send Sender) {
	if id < 0 {
		id, send = unset, nil
	}
	o.send = send
	if o.deviceID != id {
		o.deviceID = id
		debug.Log("midi", "set device id to %d", id)
		o.Reset()
	}
}

// DeviceID returns the bound port index, or -1
func (o *Output) DeviceID() int {
	return o.deviceID
}

// SetChannel selects the 0-based MIDI channel. Negative unsets it.
func (o *Output) SetChannel(ch int) {
	if ch < 0 {
		ch = unset
	}
	ch = min(ch, 15)
	if o.channel != ch {
		o.channel = ch
		debug.Log("midi", "set channel to %d", ch)
		o.Reset()
	}
}

// Channel returns the 0-based channel, or -1
func (o *Output) Channel() int {
	return o.channel
}

// Active reports whether both device and channel are configured
func (o *Output) Active() bool {
	return o.deviceID >= 0 && o.channel >= 0
}

// SetMonitor registers a callback for every message written to the wire
func (o *Output) SetMonitor(fn func(Event)) {
	o.monitor = fn
}

// SendCachedCC sends value on cc unless the device already has it. Returns
// whether a message was sent.
func (o *Output) SendCachedCC(value, cc int) bool {
	if !o.Active() {
		return false
	}
	cc &= 0x7F
	value = lo.Clamp(value, 0, 127)
	if o.ccCache[cc] == value {
		return false
	}
	o.ccCache[cc] = value

	o.write(gomidi.ControlChange(uint8(o.channel), uint8(cc), uint8(value)),
		Event{Type: CC, Data1: uint8(cc), Data2: uint8(value)})

	if o.NeedsRunningStatusDefeat {
		o.write(gomidi.NoteOff(uint8(o.channel), 0), Event{Type: NoteOff})
	}
	return true
}

// ForceCC invalidates cc and sends value regardless of the cache
func (o *Output) ForceCC(value, cc int) bool {
	o.ResetCCCache(cc)
	return o.SendCachedCC(value, cc)
}

// ResetCCCache forgets the cached value for cc
func (o *Output) ResetCCCache(cc int) {
	o.ccCache[cc&0x7F] = unset
}

// CachedCC returns the last sent value for cc, or -1
func (o *Output) CachedCC(cc int) int {
	return o.ccCache[cc&0x7F]
}

// SetProgram sends a program change unless p is already selected
func (o *Output) SetProgram(p int) bool {
	if !o.Active() {
		return false
	}
	p = lo.Clamp(p, 0, 127)
	if o.program == p {
		return false
	}
	o.program = p
	o.write(gomidi.ProgramChange(uint8(o.channel), uint8(p)),
		Event{Type: ProgramChange, Data1: uint8(p)})
	return true
}

// Program returns the current program, or -1
func (o *Output) Program() int {
	return o.program
}

// IncrementProgram steps forward through 0..max-1, wrapping to 0.
// An unset program counts as 0: the first step from a fresh output selects
// program by, and program 0 is only reached by wrapping or SetProgram.
func (o *Output) IncrementProgram(by, max int) bool {
	if max <= 0 {
		return false
	}
	return o.SetProgram(wrap(o.current()+by, max))
}

// DecrementProgram steps backward through 0..max-1, wrapping to max-1.
// An unset program counts as 0, so the first step down selects max-by.
func (o *Output) DecrementProgram(by, max int) bool {
	if max <= 0 {
		return false
	}
	return o.SetProgram(wrap(o.current()-by, max))
}

// SetClock forwards a clock level; each rising edge emits one timing clock
func (o *Output) SetClock(high bool) {
	rising := high && !o.clock
	o.clock = high
	if rising && o.Active() {
		o.write(gomidi.TimingClock(), Event{Type: TimingClock})
	}
}

func (o *Output) current() int {
	if o.program < 0 {
		return 0
	}
	return o.program
}

func (o *Output) write(msg gomidi.Message, ev Event) {
	if o.send == nil {
		return
	}
	if err := o.send(msg); err != nil {
		// no retry: the cache resync bounds the damage
		debug.Log("midi", "send %s: %v", msg, err)
	}
	if o.monitor != nil {
		ev.Channel = uint8(o.channel)
		ev.Time = o.now()
		o.monitor(ev)
	}
}

// wrap is a modulo that stays in 0..max-1 for negative n
func wrap(n, max int) int {
	return ((n % max) + max) % max
}
