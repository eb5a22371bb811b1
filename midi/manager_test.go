package midi

import (
	"reflect"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestDiffPorts(t *testing.T) {
	added, removed := diffPorts(
		[]string{"Blooper", "Habit", "USB Midi"},
		[]string{"Blooper", "MC6 Pro", "USB Midi"},
	)
	if !reflect.DeepEqual(added, []string{"MC6 Pro"}) {
		t.Fatalf("added = %v", added)
	}
	if !reflect.DeepEqual(removed, []string{"Habit"}) {
		t.Fatalf("removed = %v", removed)
	}

	added, removed = diffPorts(nil, nil)
	if added != nil || removed != nil {
		t.Fatalf("empty diff = %v %v", added, removed)
	}
}

func TestDecodeControl(t *testing.T) {
	tests := []struct {
		name string
		msg  gomidi.Message
		want ControlEvent
		ok   bool
	}{
		{"cc press", gomidi.ControlChange(2, 80, 127), ControlEvent{Channel: 2, Number: 80, Value: 127}, true},
		{"cc release", gomidi.ControlChange(2, 80, 0), ControlEvent{}, false},
		{"note on", gomidi.NoteOn(0, 60, 100), ControlEvent{Number: 60, Value: 100, Note: true}, true},
		{"note on zero velocity", gomidi.NoteOn(0, 60, 0), ControlEvent{}, false},
		{"program change", gomidi.ProgramChange(0, 5), ControlEvent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeControl(tt.msg)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("got %+v %v, want %+v %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPortManagerOpenWithoutName(t *testing.T) {
	pm := NewPortManager()
	if _, _, err := pm.Open(""); err == nil {
		t.Fatal("expected error for empty port name")
	}
}

// closeRecorder is a Controller that notes Close
type closeRecorder struct {
	closed bool
}

func (c *closeRecorder) ID() string { return "fs" }
func (c *closeRecorder) Type() ControllerType { return ControllerFootswitch }
func (c *closeRecorder) Events() <-chan ControlEvent { return nil }
func (c *closeRecorder) Close() error { c.closed = true; return nil }

func TestEmitDroppedAddIsRetried(t *testing.T) {
	pm := NewPortManager()
	pm.events = make(chan PortEvent) // nobody listening

	pm.outs["Pedals"] = nil
	pm.emit(PortEvent{Type: PortAdded, Output: true, Name: "Pedals"})
	if _, ok := pm.outs["Pedals"]; ok {
		t.Error("dropped output add still known; the next scan would not report it")
	}

	fs := &closeRecorder{}
	pm.ins["MC6"] = nil
	pm.controllers["MC6"] = fs
	pm.emit(PortEvent{Type: PortAdded, Name: "MC6", Controller: fs})
	if !fs.closed {
		t.Error("controller of a dropped event left open")
	}
	if _, ok := pm.controllers["MC6"]; ok {
		t.Error("controller still registered")
	}
	if _, ok := pm.ins["MC6"]; ok {
		t.Error("dropped input add still known")
	}
}
