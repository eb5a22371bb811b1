package pedal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go-pedalctl/config"
	"go-pedalctl/control"
	"go-pedalctl/debug"
	"go-pedalctl/midi"
)

const (
	// UI refresh rate
	uiFPS = 30

	// momentary presses from the UI or a footswitch are held this long
	pressHold = 20 * time.Millisecond
	// gate level for Pulse
	pulseVolts = 5

	// recent messages kept per slot for the monitor
	eventRing = 8
)

// Opener opens output ports by name (midi.PortManager)
type Opener interface {
	Open(name string) (midi.Sender, int, error)
}

// Slot is one module in the rack
type Slot struct {
	ID     string
	Module Module
	Port   string

	lights Lights
	events []midi.Event
}

// release undoes a Press or Pulse once its hold time is up
type release struct {
	slot  *Slot
	index int
	gate  bool
	at    time.Time
}

// SlotView is a copy of a slot's state for rendering
type SlotView struct {
	ID      string
	Slug    string
	Name    string
	Layout  *Layout
	Port    string
	Channel int // 1-16, 0 = unset
	Active  bool
	Program int // -1 = none sent
	Status  string

	Params []float32
	Inputs []Input
	Lights Lights
	Events []midi.Event
}

// Manager owns the rack, drives every module at the control rate and
// serializes all access to them.
type Manager struct {
	slots   []*Slot
	pending []release

	ports Opener
	clock control.Clock
	rate  time.Duration

	mu       sync.Mutex
	lastTick time.Time
	tickNow  time.Time

	dirty      bool
	lastNotify time.Time

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewManager creates a manager ticking at rateHz
func NewManager(ports Opener, clock control.Clock, rateHz int) *Manager {
	if rateHz <= 0 {
		rateHz = config.DefaultTickRateHz
	}
	if clock == nil {
		clock = control.SystemClock{}
	}
	return &Manager{
		ports:      ports,
		clock:      clock,
		rate:       time.Second / time.Duration(rateHz),
		UpdateChan: make(chan struct{}, 1),
	}
}

// Rate returns the tick period
func (m *Manager) Rate() time.Duration {
	return m.rate
}

// AddModule creates a module by slug and appends it to the rack. An empty
// id gets a fresh one.
func (m *Manager) AddModule(id, slug string, channel int) (*Slot, error) {
	mod, err := New(slug)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	s := &Slot{ID: id, Module: mod}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.find(id); ok {
		return nil, fmt.Errorf("duplicate module id %q", id)
	}
	mod.Output().SetMonitor(func(ev midi.Event) {
		ev.Time = m.tickNow
		s.events = append(s.events, ev)
		if len(s.events) > eventRing {
			s.events = s.events[len(s.events)-eventRing:]
		}
		m.dirty = true
	})
	m.setChannel(s, channel)
	m.slots = append(m.slots, s)
	m.dirty = true
	debug.Log("rack", "added %s (%s) on channel %d", slug, id, channel)
	return s, nil
}

// Load replaces the rack with the modules in cfg and binds their ports.
// Port errors are returned together; the modules are still added.
func (m *Manager) Load(cfg *config.Config) error {
	m.mu.Lock()
	m.slots = nil
	m.pending = nil
	m.mu.Unlock()

	var errs []error
	for _, mc := range cfg.Modules {
		s, err := m.AddModule(mc.ID, mc.Slug, mc.Channel)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.Module.Output().NeedsRunningStatusDefeat = mc.RunningStatusDefeat
		if err := m.BindPort(s.ID, mc.Port); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", mc.Slug, err))
		}
	}
	return multierr.Combine(errs...)
}

// Remove drops a module from the rack
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = lo.Reject(m.slots, func(s *Slot, _ int) bool { return s.ID == id })
	m.pending = lo.Reject(m.pending, func(r release, _ int) bool { return r.slot.ID == id })
	m.dirty = true
}

// Len returns the number of slots
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

// SetChannel sets a slot's 1-based MIDI channel (0 unsets it)
func (m *Manager) SetChannel(id string, channel int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.find(id)
	if !ok {
		return fmt.Errorf("no module %q", id)
	}
	m.setChannel(s, channel)
	return nil
}

// setChannel writes the panel knob when the module has one, since it reads
// the knob every tick
func (m *Manager) setChannel(s *Slot, channel int) {
	channel = lo.Clamp(channel, 0, 16)
	if idx := s.Module.Layout().ParamIndex(ChannelParam); idx >= 0 {
		s.Module.Panel().SetParam(idx, float32(channel))
		if channel == 0 {
			s.Module.Output().SetChannel(-1)
		}
		return
	}
	s.Module.Output().SetChannel(channel - 1)
}

// BindPort connects a slot to the named output. An empty name detaches it.
func (m *Manager) BindPort(id, name string) error {
	m.mu.Lock()
	s, ok := m.find(id)
	if ok {
		s.Port = name
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("no module %q", id)
	}

	if name == "" || m.ports == nil {
		m.detach(s)
		return nil
	}

	// opening a port can block, so do it outside the lock
	send, num, err := m.ports.Open(name)
	if err != nil {
		m.detach(s)
		return err
	}

	m.mu.Lock()
	if s.Port == name {
		s.Module.Output().SetDevice(num, send)
		m.dirty = true
	}
	m.mu.Unlock()
	return nil
}

func (m *Manager) detach(s *Slot) {
	m.mu.Lock()
	s.Module.Output().SetDevice(-1, nil)
	m.dirty = true
	m.mu.Unlock()
}

// HandlePortEvent re-binds slots whose port came back and detaches slots
// whose port went away
func (m *Manager) HandlePortEvent(ev midi.PortEvent) {
	if !ev.Output {
		return
	}

	m.mu.Lock()
	affected := lo.Filter(m.slots, func(s *Slot, _ int) bool { return s.Port == ev.Name })
	m.mu.Unlock()

	for _, s := range affected {
		switch ev.Type {
		case midi.PortRemoved:
			debug.Log("rack", "port %q gone, detaching %s", ev.Name, s.ID)
			m.detach(s)
		case midi.PortAdded:
			if err := m.BindPort(s.ID, ev.Name); err != nil {
				debug.Log("rack", "rebind %s to %q: %v", s.ID, ev.Name, err)
			}
		}
	}
}

// Tick runs one control-rate step on every module
func (m *Manager) Tick(now time.Time) {
	m.mu.Lock()
	delta := m.rate
	if !m.lastTick.IsZero() {
		delta = now.Sub(m.lastTick)
	}
	m.lastTick = now
	m.tickNow = now

	t := Tick{Now: now, Delta: delta}
	for _, s := range m.slots {
		frame := s.Module.Process(t)
		if frame.Lights != nil {
			s.lights = append(s.lights[:0], frame.Lights...)
			m.dirty = true
		}
	}

	// after Process, so every press is seen by at least one tick
	m.releaseDue(now)

	notify := m.dirty && now.Sub(m.lastNotify) >= time.Second/uiFPS
	if notify {
		m.dirty = false
		m.lastNotify = now
	}
	m.mu.Unlock()

	if notify {
		m.notifyUpdate()
	}
}

// Run ticks until ctx is done (blocking - run in goroutine)
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(m.clock.Now())
		}
	}
}

// Press holds a button for pressHold. Toggles flip and switches step
// forward instead, so a footswitch can drive any of them.
func (m *Manager) Press(id, param string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, idx, err := m.param(id, param)
	if err != nil {
		return err
	}
	def := s.Module.Layout().Params[idx]
	panel := s.Module.Panel()

	switch def.Kind {
	case Button:
		panel.SetParam(idx, 1)
		m.pending = append(m.pending, release{slot: s, index: idx, at: m.clock.Now().Add(pressHold)})
	case Toggle:
		panel.SetParam(idx, 1-panel.Param(idx))
	case Switch:
		cycle(panel, def, idx, 1)
	default:
		return fmt.Errorf("%s: %q is not pressable", s.Module.Name(), param)
	}
	m.dirty = true
	return nil
}

// Pulse raises a gate input to pulseVolts for pressHold
func (m *Manager) Pulse(id, input string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.find(id)
	if !ok {
		return fmt.Errorf("no module %q", id)
	}
	idx := s.Module.Layout().InputIndex(input)
	if idx < 0 {
		return fmt.Errorf("%s has no input %q", s.Module.Name(), input)
	}
	panel := s.Module.Panel()
	panel.Connect(idx, true)
	panel.SetVoltage(idx, pulseVolts)
	m.pending = append(m.pending, release{slot: s, index: idx, gate: true, at: m.clock.Now().Add(pressHold)})
	return nil
}

// releaseDue lets go of presses whose hold time is up
func (m *Manager) releaseDue(now time.Time) {
	if len(m.pending) == 0 {
		return
	}
	due, rest := lo.FilterReject(m.pending, func(r release, _ int) bool { return !now.Before(r.at) })
	m.pending = rest
	for _, r := range due {
		if r.gate {
			r.slot.Module.Panel().SetVoltage(r.index, 0)
		} else {
			r.slot.Module.Panel().SetParam(r.index, 0)
		}
	}
}

// SetParam sets a panel control by index
func (m *Manager) SetParam(id string, param int, v float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.find(id)
	if !ok {
		return fmt.Errorf("no module %q", id)
	}
	if param < 0 || param >= len(s.Module.Layout().Params) {
		return fmt.Errorf("%s: no param %d", s.Module.Name(), param)
	}
	s.Module.Panel().SetParam(param, v)
	m.dirty = true
	return nil
}

// Nudge moves a control by delta steps. Switches wrap, knobs clamp.
func (m *Manager) Nudge(id string, param, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.find(id)
	if !ok {
		return fmt.Errorf("no module %q", id)
	}
	layout := s.Module.Layout()
	if param < 0 || param >= len(layout.Params) {
		return fmt.Errorf("%s: no param %d", s.Module.Name(), param)
	}
	def := layout.Params[param]
	panel := s.Module.Panel()
	switch def.Kind {
	case Knob:
		panel.SetParam(param, panel.Param(param)+float32(delta))
	default:
		cycle(panel, def, param, delta)
	}
	m.dirty = true
	return nil
}

// Patch connects or disconnects an input jack
func (m *Manager) Patch(id string, input int, connected bool, volts float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.find(id)
	if !ok {
		return fmt.Errorf("no module %q", id)
	}
	if input < 0 || input >= len(s.Module.Layout().Inputs) {
		return fmt.Errorf("%s: no input %d", s.Module.Name(), input)
	}
	panel := s.Module.Panel()
	panel.Connect(input, connected)
	if connected {
		panel.SetVoltage(input, volts)
	}
	m.dirty = true
	return nil
}

// Listen routes footswitch events to module presses until the controller
// closes. match returns the bindings an event fires.
func (m *Manager) Listen(ctrl midi.Controller, match func(midi.ControlEvent) []config.Binding) {
	for ev := range ctrl.Events() {
		for _, b := range match(ev) {
			if err := m.Press(b.Module, b.Param); err != nil {
				debug.Log("footswitch", "%s: %v", ctrl.ID(), err)
			}
		}
	}
}

// Snapshot copies the rack state for the UI
func (m *Manager) Snapshot() []SlotView {
	m.mu.Lock()
	defer m.mu.Unlock()

	return lo.Map(m.slots, func(s *Slot, _ int) SlotView {
		mod := s.Module
		out := mod.Output()
		v := SlotView{
			ID:      s.ID,
			Slug:    mod.Slug(),
			Name:    mod.Name(),
			Layout:  mod.Layout(),
			Port:    s.Port,
			Channel: out.Channel() + 1,
			Active:  out.Active(),
			Program: out.Program(),
			Params:  mod.Panel().Params(),
			Inputs:  mod.Panel().Inputs(),
			Lights:  append(Lights(nil), s.lights...),
			Events:  append([]midi.Event(nil), s.events...),
		}
		// the channel knob is authoritative until the next tick applies it
		if idx := mod.Layout().ParamIndex(ChannelParam); idx >= 0 {
			v.Channel = control.Round(mod.Panel().Param(idx))
		}
		if l, ok := mod.(interface{ LoopState() control.State }); ok {
			v.Status = LoopStateName(l.LoopState())
		}
		return v
	})
}

// notifyUpdate notifies the TUI without blocking
func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

func (m *Manager) find(id string) (*Slot, bool) {
	return lo.Find(m.slots, func(s *Slot) bool { return s.ID == id })
}

func (m *Manager) param(id, name string) (*Slot, int, error) {
	s, ok := m.find(id)
	if !ok {
		return nil, -1, fmt.Errorf("no module %q", id)
	}
	idx := s.Module.Layout().ParamIndex(name)
	if idx < 0 {
		return nil, -1, fmt.Errorf("%s has no control %q", s.Module.Name(), name)
	}
	return s, idx, nil
}

// cycle steps a stepped control by delta, wrapping within its range
func cycle(p *Panel, def ParamDef, idx, delta int) {
	first, last := control.Round(def.Min), control.Round(def.Max)
	n := last - first + 1
	v := control.Floor(p.Param(idx)) - first + delta
	p.SetParam(idx, float32(first+((v%n)+n)%n))
}
