package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// FootswitchController turns CC and note presses on an input port into
// ControlEvents. Releases (value 0) are dropped.
type FootswitchController struct {
	id       string
	inPort   drivers.In
	stopFunc func()
	events   chan ControlEvent
}

// NewFootswitchController opens inPort and starts listening
func NewFootswitchController(id string, inPort drivers.In) (*FootswitchController, error) {
	fs := &FootswitchController{
		id:     id,
		inPort: inPort,
		events: make(chan ControlEvent, 32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			if ev, ok := decodeControl(msg); ok {
				fs.push(ev)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		fs.stopFunc = stop
	}

	return fs, nil
}

func (fs *FootswitchController) push(ev ControlEvent) {
	select {
	case fs.events <- ev:
	default:
	}
}

func (fs *FootswitchController) ID() string {
	return fs.id
}

func (fs *FootswitchController) Type() ControllerType {
	return ControllerFootswitch
}

func (fs *FootswitchController) Events() <-chan ControlEvent {
	return fs.events
}

func (fs *FootswitchController) Close() error {
	if fs.stopFunc != nil {
		fs.stopFunc()
	}
	close(fs.events)
	return nil
}

func decodeControl(msg gomidi.Message) (ControlEvent, bool) {
	var channel, number, value uint8
	switch {
	case msg.GetControlChange(&channel, &number, &value) && value > 0:
		return ControlEvent{Channel: channel, Number: number, Value: value}, true
	case msg.GetNoteStart(&channel, &number, &value):
		return ControlEvent{Channel: channel, Number: number, Value: value, Note: true}, true
	}
	return ControlEvent{}, false
}
