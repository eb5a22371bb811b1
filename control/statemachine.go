package control

import "time"

// State is a module-defined state value
type State int

// Action is a module-defined input (button or gate edge)
type Action int

const (
	// NoAction is an empty tick
	NoAction Action = 0
	// AnyState in Rule.From matches every state that has no dwell
	AnyState State = -1
)

// Rule moves From to To when On arrives
type Rule struct {
	From State
	On   Action
	To   State
}

// Dwell makes a state transient: after After it moves to Next on its own
type Dwell struct {
	After time.Duration
	Next  State
}

// Table parameterizes a Machine
type Table struct {
	Initial  State
	Rules    []Rule
	Dwell    map[State]Dwell
	Debounce map[Action]time.Duration // minimum gap between accepted actions
}

// Transition describes one state change
type Transition struct {
	From    State
	To      State
	Action  Action // NoAction for dwell timeouts
	Timeout bool
}

// Machine runs a Table. It is not safe for concurrent use.
type Machine struct {
	table   *Table
	state   State
	entered GracePeriod
	fired   map[Action]*GracePeriod
}

// NewMachine starts a machine in the table's initial state
func NewMachine(t *Table, now time.Time) *Machine {
	m := &Machine{
		table: t,
		state: t.Initial,
		fired: make(map[Action]*GracePeriod),
	}
	m.entered.Mark(now)
	return m
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Since returns how long the machine has been in its current state
func (m *Machine) Since(now time.Time) time.Duration {
	return m.entered.Since(now)
}

// Step advances the machine by one tick. A pending dwell timeout is applied
// first, and input arriving on that same tick is dropped.
func (m *Machine) Step(a Action, now time.Time) (Transition, bool) {
	if d, ok := m.table.Dwell[m.state]; ok {
		if m.entered.Elapsed(d.After, now) {
			return m.enter(d.Next, NoAction, true, now), true
		}
	}
	if a == NoAction {
		return Transition{}, false
	}

	to, ok := m.lookup(a)
	if !ok {
		return Transition{}, false
	}

	if gap, ok := m.table.Debounce[a]; ok {
		g := m.fired[a]
		if g == nil {
			g = &GracePeriod{}
			m.fired[a] = g
		}
		if !g.Elapsed(gap, now) {
			return Transition{}, false
		}
		g.Mark(now)
	}

	return m.enter(to, a, false, now), true
}

// Force jumps to s without consulting the table
func (m *Machine) Force(s State, now time.Time) {
	m.state = s
	m.entered.Mark(now)
}

func (m *Machine) lookup(a Action) (State, bool) {
	for _, r := range m.table.Rules {
		if r.From == m.state && r.On == a {
			return r.To, true
		}
	}
	if _, transient := m.table.Dwell[m.state]; transient {
		return 0, false
	}
	for _, r := range m.table.Rules {
		if r.From == AnyState && r.On == a {
			return r.To, true
		}
	}
	return 0, false
}

func (m *Machine) enter(to State, a Action, timeout bool, now time.Time) Transition {
	t := Transition{From: m.state, To: to, Action: a, Timeout: timeout}
	m.state = to
	m.entered.Mark(now)
	return t
}
