package pedal

import (
	"fmt"
	"testing"
	"time"

	"go-pedalctl/config"
	"go-pedalctl/control"
	"go-pedalctl/midi"
)

// fakePorts opens every port in names onto one recorder
type fakePorts struct {
	rec   *recorder
	names map[string]int
	opens int
}

func (f *fakePorts) Open(name string) (midi.Sender, int, error) {
	num, ok := f.names[name]
	if !ok {
		return nil, -1, fmt.Errorf("find port %q: not found", name)
	}
	f.opens++
	return f.rec.send, num, nil
}

// fakeController delivers footswitch events from a test
type fakeController struct {
	events chan midi.ControlEvent
}

func (c *fakeController) ID() string { return "fake" }
func (c *fakeController) Type() midi.ControllerType { return midi.ControllerFootswitch }
func (c *fakeController) Events() <-chan midi.ControlEvent { return c.events }
func (c *fakeController) Close() error { close(c.events); return nil }

func newTestManager(t *testing.T) (*Manager, *fakePorts, *control.FakeClock) {
	t.Helper()
	ports := &fakePorts{rec: &recorder{}, names: map[string]int{"Pedals": 2}}
	clock := control.NewFakeClock(t0)
	return NewManager(ports, clock, 1000), ports, clock
}

func slotView(t *testing.T, m *Manager, id string) SlotView {
	t.Helper()
	for _, v := range m.Snapshot() {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("no slot %q", id)
	return SlotView{}
}

func addBound(t *testing.T, m *Manager, slug string) string {
	t.Helper()
	s, err := m.AddModule("", slug, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.BindPort(s.ID, "Pedals"); err != nil {
		t.Fatal(err)
	}
	return s.ID
}

func TestManagerAddModule(t *testing.T) {
	m, _, _ := newTestManager(t)

	if _, err := m.AddModule("", "nope", 1); err == nil {
		t.Error("unknown slug accepted")
	}
	if _, err := m.AddModule("a", "blooper", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddModule("a", "mood", 1); err == nil {
		t.Error("duplicate id accepted")
	}
	if m.Len() != 1 {
		t.Errorf("len = %d, want 1", m.Len())
	}

	m.Remove("a")
	if m.Len() != 0 {
		t.Errorf("len = %d after remove, want 0", m.Len())
	}
}

func TestManagerPressReleases(t *testing.T) {
	m, ports, clock := newTestManager(t)
	id := addBound(t, m, "blooper")
	m.Tick(clock.Now())

	if err := m.Press(id, "Stop"); err != nil {
		t.Fatal(err)
	}
	m.Tick(clock.Advance(time.Millisecond))
	v := slotView(t, m, id)
	if v.Status != "STOPPED" {
		t.Fatalf("status = %s, want STOPPED", v.Status)
	}
	stop := blooperLayout.ParamIndex("Stop")
	if v.Params[stop] != 1 {
		t.Fatal("button released early")
	}

	m.Tick(clock.Advance(pressHold))
	if v := slotView(t, m, id); v.Params[stop] != 0 {
		t.Error("button not released after the hold time")
	}
	if n := ports.rec.count(ccStop, 127); n != 1 {
		t.Errorf("stop sent %d times, want 1", n)
	}
}

func TestManagerPressToggleAndSwitch(t *testing.T) {
	m, _, _ := newTestManager(t)
	id := addBound(t, m, "blooper")

	if err := m.Press(id, "Mod A On"); err != nil {
		t.Fatal(err)
	}
	if err := m.Press(id, "Right Toggle"); err != nil {
		t.Fatal(err)
	}
	v := slotView(t, m, id)
	if v.Params[blooperModAOn] != 1 {
		t.Error("toggle not flipped")
	}
	if v.Params[blooperRToggle] != 2 {
		t.Errorf("switch = %v, want 2", v.Params[blooperRToggle])
	}

	if err := m.Press(id, "Volume"); err == nil {
		t.Error("knob accepted as pressable")
	}
	if err := m.Press(id, "Nope"); err == nil {
		t.Error("unknown control accepted")
	}
}

func TestManagerNudgeWraps(t *testing.T) {
	m, _, _ := newTestManager(t)
	id := addBound(t, m, "blooper")

	m.Nudge(id, blooperLToggle, -1)
	if v := slotView(t, m, id); v.Params[blooperLToggle] != 3 {
		t.Errorf("switch = %v, want 3 after wrapping down", v.Params[blooperLToggle])
	}

	m.Nudge(id, blooperVolume, 200)
	if v := slotView(t, m, id); v.Params[blooperVolume] != 127 {
		t.Errorf("knob = %v, want clamped 127", v.Params[blooperVolume])
	}
}

func TestManagerPulse(t *testing.T) {
	m, ports, clock := newTestManager(t)
	id := addBound(t, m, "blooper")
	m.Tick(clock.Now())

	if err := m.Pulse(id, "Record Gate"); err != nil {
		t.Fatal(err)
	}
	m.Tick(clock.Advance(time.Millisecond))
	m.Tick(clock.Advance(pressHold))

	v := slotView(t, m, id)
	if v.Status != "RECORDING" {
		t.Errorf("status = %s, want RECORDING", v.Status)
	}
	in := blooperLayout.InputIndex("Record Gate")
	if v.Inputs[in].Voltage != 0 || !v.Inputs[in].Connected {
		t.Errorf("gate after pulse = %+v, want connected at 0V", v.Inputs[in])
	}
	if n := ports.rec.count(ccRecord, 127); n != 1 {
		t.Errorf("record sent %d times, want 1", n)
	}
}

func TestManagerLegacyChannel(t *testing.T) {
	m, _, clock := newTestManager(t)
	s, err := m.AddModule("", "mood", 5)
	if err != nil {
		t.Fatal(err)
	}
	m.BindPort(s.ID, "Pedals")
	m.Tick(clock.Now())

	v := slotView(t, m, s.ID)
	if knob := v.Params[moodLayout.ParamIndex(ChannelParam)]; knob != 5 {
		t.Errorf("channel knob = %v, want 5", knob)
	}
	if v.Channel != 5 || !v.Active {
		t.Errorf("channel = %d active = %v, want 5 and active", v.Channel, v.Active)
	}

	m.SetChannel(s.ID, 0)
	m.Tick(clock.Advance(time.Millisecond))
	if v := slotView(t, m, s.ID); v.Active {
		t.Error("module still active with channel unset")
	}
}

func TestManagerHotPlug(t *testing.T) {
	m, ports, clock := newTestManager(t)
	id := addBound(t, m, "darkworld")
	m.Tick(clock.Now())

	m.HandlePortEvent(midi.PortEvent{Type: midi.PortRemoved, Output: true, Name: "Pedals"})
	m.Tick(clock.Advance(time.Millisecond))
	v := slotView(t, m, id)
	if v.Active {
		t.Fatal("slot still active after its port went away")
	}
	for i, l := range v.Lights {
		if l != 0 {
			t.Errorf("light %d = %v after unplug", i, l)
		}
	}
	if v.Port != "Pedals" {
		t.Errorf("port = %q, want it remembered", v.Port)
	}

	sent := len(ports.rec.msgs)
	m.HandlePortEvent(midi.PortEvent{Type: midi.PortAdded, Output: true, Name: "Pedals"})
	m.Tick(clock.Advance(time.Millisecond))
	if !slotView(t, m, id).Active {
		t.Fatal("slot not re-bound after its port came back")
	}
	if len(ports.rec.msgs) == sent {
		t.Error("full state not resent after re-binding")
	}
	if ports.opens != 2 {
		t.Errorf("opened %d times, want 2", ports.opens)
	}
}

func TestManagerEventRing(t *testing.T) {
	m, _, clock := newTestManager(t)
	id := addBound(t, m, "blooper")
	for i := 0; i < 5; i++ {
		m.Tick(clock.Advance(time.Millisecond))
	}

	v := slotView(t, m, id)
	if len(v.Events) != eventRing {
		t.Fatalf("kept %d events, want %d", len(v.Events), eventRing)
	}
	for _, ev := range v.Events {
		if ev.Type != midi.CC || ev.Time.IsZero() {
			t.Errorf("event %s at %v", ev, ev.Time)
		}
	}
}

func TestManagerUpdateThrottle(t *testing.T) {
	m, _, clock := newTestManager(t)
	addBound(t, m, "blooper")

	m.Tick(clock.Now())
	select {
	case <-m.UpdateChan:
	default:
		t.Fatal("no update after the first tick")
	}

	m.Tick(clock.Advance(time.Millisecond))
	select {
	case <-m.UpdateChan:
		t.Fatal("update sent faster than the UI rate")
	default:
	}

	m.Tick(clock.Advance(time.Second / uiFPS))
	select {
	case <-m.UpdateChan:
	default:
		t.Fatal("no update after a UI frame")
	}
}

func TestManagerLoad(t *testing.T) {
	m, _, _ := newTestManager(t)
	cfg := &config.Config{Modules: []config.ModuleConfig{
		{ID: "a", Slug: "blooper", Port: "Pedals", Channel: 1, RunningStatusDefeat: true},
		{ID: "b", Slug: "habit", Port: "Missing", Channel: 2},
	}}

	err := m.Load(cfg)
	if err == nil {
		t.Fatal("missing port not reported")
	}
	if m.Len() != 2 {
		t.Fatalf("len = %d, want 2", m.Len())
	}
	if !slotView(t, m, "a").Active || slotView(t, m, "b").Active {
		t.Error("only the slot with a present port should be active")
	}
}

func TestManagerListen(t *testing.T) {
	m, _, _ := newTestManager(t)
	id := addBound(t, m, "blooper")

	ctrl := &fakeController{events: make(chan midi.ControlEvent, 4)}
	match := func(ev midi.ControlEvent) []config.Binding {
		if ev.Number != 80 {
			return nil
		}
		return []config.Binding{{Module: id, Param: "Mod B On"}, {Module: "gone", Param: "Play"}}
	}

	ctrl.events <- midi.ControlEvent{Number: 80, Value: 127}
	ctrl.events <- midi.ControlEvent{Number: 81, Value: 127}
	ctrl.Close()
	m.Listen(ctrl, match)

	if v := slotView(t, m, id); v.Params[blooperModBOn] != 1 {
		t.Error("footswitch did not reach the module")
	}
}

func TestManagerPressSurvivesSlowTicks(t *testing.T) {
	ports := &fakePorts{rec: &recorder{}, names: map[string]int{"Pedals": 2}}
	clock := control.NewFakeClock(t0)
	m := NewManager(ports, clock, 25)
	id := addBound(t, m, "blooper")
	m.Tick(clock.Now())

	if err := m.Press(id, "Stop"); err != nil {
		t.Fatal(err)
	}
	if err := m.Pulse(id, "Record Gate"); err != nil {
		t.Fatal(err)
	}
	// one 40ms tick is longer than the hold time
	m.Tick(clock.Advance(m.Rate()))

	if n := ports.rec.count(ccStop, 127); n != 1 {
		t.Fatalf("stop sent %d times, want 1", n)
	}
	v := slotView(t, m, id)
	if v.Params[blooperLayout.ParamIndex("Stop")] != 0 {
		t.Error("button still held after its tick")
	}
	if in := v.Inputs[blooperLayout.InputIndex("Record Gate")]; in.Voltage != 0 {
		t.Errorf("gate still at %vV after its tick", in.Voltage)
	}

	m.Tick(clock.Advance(m.Rate()))
	if v := slotView(t, m, id); v.Status != "STOPPED" {
		t.Errorf("status = %s, want STOPPED", v.Status)
	}
}
