package midi

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-pedalctl/debug"
)

// PortEvent is emitted when ports appear or disappear
type PortEvent struct {
	Type       PortEventType
	Output     bool // output port (false: input port)
	Name       string
	Controller Controller // set when a watched input was opened
}

type PortEventType int

const (
	PortAdded PortEventType = iota
	PortRemoved
)

// PortManager handles hot-plug detection of MIDI ports, lazily opened
// senders for outputs and footswitch controllers for watched inputs.
type PortManager struct {
	outs map[string]drivers.Out
	ins  map[string]drivers.In
	mu   sync.RWMutex

	senders   map[string]Sender
	sendersMu sync.RWMutex

	watched     map[string]bool
	controllers map[string]Controller

	events   chan PortEvent
	pollRate time.Duration
}

// NewPortManager creates a new port manager
func NewPortManager() *PortManager {
	return &PortManager{
		outs:        make(map[string]drivers.Out),
		ins:         make(map[string]drivers.In),
		senders:     make(map[string]Sender),
		watched:     make(map[string]bool),
		controllers: make(map[string]Controller),
		events:      make(chan PortEvent, 16),
		pollRate:    time.Second,
	}
}

// Events returns a channel of port add/remove events
func (pm *PortManager) Events() <-chan PortEvent {
	return pm.events
}

// Watch opens a footswitch controller on the named input whenever it is present
func (pm *PortManager) Watch(name string) {
	if name == "" {
		return
	}
	pm.mu.Lock()
	pm.watched[name] = true
	pm.mu.Unlock()
}

// Outputs returns the names of known output ports, sorted
func (pm *PortManager) Outputs() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return sortedKeys(pm.outs)
}

// Inputs returns the names of known input ports, sorted
func (pm *PortManager) Inputs() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return sortedKeys(pm.ins)
}

// Open returns a sender for the named output port, opening it on first use.
// The int is the driver's port number, used as the device id.
func (pm *PortManager) Open(name string) (Sender, int, error) {
	if name == "" {
		return nil, -1, fmt.Errorf("no port selected")
	}

	pm.mu.RLock()
	port, ok := pm.outs[name]
	pm.mu.RUnlock()
	if !ok {
		var err error
		port, err = gomidi.FindOutPort(name)
		if err != nil {
			return nil, -1, fmt.Errorf("find port %q: %w", name, err)
		}
	}

	pm.sendersMu.RLock()
	if sender, ok := pm.senders[name]; ok {
		pm.sendersMu.RUnlock()
		return sender, port.Number(), nil
	}
	pm.sendersMu.RUnlock()

	pm.sendersMu.Lock()
	defer pm.sendersMu.Unlock()

	// Double-check after acquiring write lock
	if sender, ok := pm.senders[name]; ok {
		return sender, port.Number(), nil
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, -1, fmt.Errorf("open output: %w", err)
	}
	pm.senders[name] = send
	debug.Log("ports", "opened output %q (#%d)", name, port.Number())
	return send, port.Number(), nil
}

// Run starts the polling loop (blocking - run in goroutine)
func (pm *PortManager) Run(ctx context.Context) {
	ticker := time.NewTicker(pm.pollRate)
	defer ticker.Stop()

	// Initial scan
	pm.scan()

	for {
		select {
		case <-ctx.Done():
			pm.closeAll()
			close(pm.events)
			return
		case <-ticker.C:
			pm.scan()
		}
	}
}

func (pm *PortManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	var result portsResult
	select {
	case result = <-ch:
	case <-time.After(3 * time.Second):
		debug.Log("ports", "port enumeration timed out")
		return
	}

	outs := make(map[string]drivers.Out, len(result.outPorts))
	for _, p := range result.outPorts {
		outs[p.String()] = p
	}
	ins := make(map[string]drivers.In, len(result.inPorts))
	for _, p := range result.inPorts {
		ins[p.String()] = p
	}

	pm.mu.Lock()
	addedOut, removedOut := diffPorts(sortedKeys(pm.outs), sortedKeys(outs))
	addedIn, removedIn := diffPorts(sortedKeys(pm.ins), sortedKeys(ins))
	pm.outs = outs
	pm.ins = ins
	pm.mu.Unlock()

	for _, name := range removedOut {
		pm.dropSender(name)
		pm.emit(PortEvent{Type: PortRemoved, Output: true, Name: name})
	}
	for _, name := range addedOut {
		pm.emit(PortEvent{Type: PortAdded, Output: true, Name: name})
	}
	for _, name := range removedIn {
		pm.closeController(name)
		pm.emit(PortEvent{Type: PortRemoved, Name: name})
	}
	for _, name := range addedIn {
		ev := PortEvent{Type: PortAdded, Name: name}
		if c := pm.openWatched(name, ins[name]); c != nil {
			ev.Controller = c
		}
		pm.emit(ev)
	}
}

func (pm *PortManager) openWatched(name string, port drivers.In) Controller {
	pm.mu.RLock()
	watched := pm.watched[name]
	pm.mu.RUnlock()
	if !watched {
		return nil
	}

	fs, err := NewFootswitchController(name, port)
	if err != nil {
		debug.Log("ports", "footswitch %q: %v", name, err)
		return nil
	}
	pm.mu.Lock()
	pm.controllers[name] = fs
	pm.mu.Unlock()
	return fs
}

func (pm *PortManager) closeController(name string) {
	pm.mu.Lock()
	c, ok := pm.controllers[name]
	delete(pm.controllers, name)
	pm.mu.Unlock()
	if ok {
		c.Close()
	}
}

func (pm *PortManager) dropSender(name string) {
	pm.sendersMu.Lock()
	delete(pm.senders, name)
	pm.sendersMu.Unlock()
}

// emit never blocks the scan loop. A dropped add is forgotten so the next
// scan reports it again, and its controller is closed.
func (pm *PortManager) emit(ev PortEvent) {
	debug.Log("ports", "event %d output=%v %q", ev.Type, ev.Output, ev.Name)
	select {
	case pm.events <- ev:
		return
	default:
	}

	debug.Log("ports", "event queue full, dropped %q", ev.Name)
	if ev.Type != PortAdded {
		return
	}
	if ev.Controller != nil {
		pm.closeController(ev.Name)
	}
	pm.mu.Lock()
	if ev.Output {
		delete(pm.outs, ev.Name)
	} else {
		delete(pm.ins, ev.Name)
	}
	pm.mu.Unlock()
}

func (pm *PortManager) closeAll() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for _, c := range pm.controllers {
		c.Close()
	}
	pm.controllers = make(map[string]Controller)
	gomidi.CloseDriver()
}

// diffPorts compares two sorted name lists
func diffPorts(prev, cur []string) (added, removed []string) {
	seen := make(map[string]bool, len(prev))
	for _, name := range prev {
		seen[name] = true
	}
	for _, name := range cur {
		if !seen[name] {
			added = append(added, name)
		}
		delete(seen, name)
	}
	for _, name := range prev {
		if seen[name] {
			removed = append(removed, name)
		}
	}
	return added, removed
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
