package midi

// ControllerType identifies the kind of input controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerFootswitch
)

// ControlEvent is a press from a MIDI footswitch or controller
type ControlEvent struct {
	Channel uint8
	Number  uint8 // CC number or note
	Value   uint8
	Note    bool // Number is a note rather than a CC
}

// Controller is the interface for MIDI input devices
type Controller interface {
	ID() string
	Type() ControllerType
	Events() <-chan ControlEvent
	Close() error
}
