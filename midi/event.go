package midi

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn        uint8 = 0x90
	NoteOff       uint8 = 0x80
	CC            uint8 = 0xB0
	ProgramChange uint8 = 0xC0
	TimingClock   uint8 = 0xF8
)

// Sender writes one message to a port (the func gomidi.SendTo returns)
type Sender func(gomidi.Message) error

// Event is an outbound message as seen by monitors
type Event struct {
	Type    uint8 // NoteOff, CC, ProgramChange, TimingClock
	Channel uint8
	Data1   uint8 // controller, program or key
	Data2   uint8 // value
	Time    time.Time
}

func (e Event) String() string {
	switch e.Type {
	case CC:
		return fmt.Sprintf("ch%-2d CC  %3d = %3d", e.Channel+1, e.Data1, e.Data2)
	case ProgramChange:
		return fmt.Sprintf("ch%-2d PC  %3d", e.Channel+1, e.Data1)
	case NoteOff:
		return fmt.Sprintf("ch%-2d OFF %3d", e.Channel+1, e.Data1)
	case TimingClock:
		return "CLOCK"
	}
	return fmt.Sprintf("0x%02X %d %d", e.Type, e.Data1, e.Data2)
}
