package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"go-pedalctl/config"
	"go-pedalctl/midi"
	"go-pedalctl/pedal"
	"go-pedalctl/theme"
	"go-pedalctl/widgets"
)

// knob bar width in cells
const knobWidth = 16

// coarse step for H/L
const coarseStep = 8

// jack voltage step for +/-
const voltStep = 0.5

type Model struct {
	Manager *pedal.Manager
	Ports   *midi.PortManager
	Saver   *config.Saver
	Theme   *theme.Theme

	focus    int // slot index
	cursor   int // param index in the focused slot
	jack     int // input index in the focused slot
	status   string
	help     bool
	quitting bool
}

var keyHelp = []widgets.KeySection{
	{Title: "Rack", Keys: []widgets.KeyBinding{
		{Key: "1-9", Desc: "focus module"},
		{Key: "tab", Desc: "next module"},
		{Key: "c", Desc: "cycle MIDI channel"},
		{Key: "p", Desc: "cycle output port"},
	}},
	{Title: "Controls", Keys: []widgets.KeyBinding{
		{Key: "↑↓ / j k", Desc: "select control"},
		{Key: "←→ / h l", Desc: "adjust"},
		{Key: "H L", Desc: "adjust by 8"},
		{Key: "space", Desc: "press button, flip toggle"},
	}},
	{Title: "Jacks", Keys: []widgets.KeyBinding{
		{Key: "[ ]", Desc: "select jack"},
		{Key: "J", Desc: "patch / unpatch"},
		{Key: "+ -", Desc: "voltage"},
		{Key: "g", Desc: "send a gate pulse"},
	}},
}

type UpdateMsg struct{}

type PortEventMsg midi.PortEvent

func NewModel(manager *pedal.Manager, ports *midi.PortManager, saver *config.Saver, th *theme.Theme) Model {
	m := Model{
		Manager: manager,
		Ports:   ports,
		Saver:   saver,
		Theme:   th,
	}
	saver.View(func(c *config.Config) {
		m.focus = c.UI.LastFocusedModule
	})
	return m
}

func ListenForUpdates(manager *pedal.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForPorts(ports *midi.PortManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ports.Events()
		if !ok {
			return nil
		}
		return PortEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForPorts(m.Ports),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case PortEventMsg:
		event := midi.PortEvent(msg)
		m.Manager.HandlePortEvent(event)
		if event.Controller != nil {
			m.status = fmt.Sprintf("footswitch %q connected", event.Name)
			go m.Manager.Listen(event.Controller, m.match)
		}
		return m, ListenForPorts(m.Ports)
	}

	return m, nil
}

// match looks up footswitch bindings in the live config
func (m Model) match(ev midi.ControlEvent) []config.Binding {
	var bindings []config.Binding
	m.Saver.View(func(c *config.Config) {
		bindings = c.Match(int(ev.Channel), int(ev.Number), ev.Note)
	})
	return bindings
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	slots := m.Manager.Snapshot()
	if key == "q" || key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if len(slots) == 0 {
		return m, nil
	}
	m.focus = lo.Clamp(m.focus, 0, len(slots)-1)
	slot := slots[m.focus]
	params := slot.Layout.Params
	m.cursor = lo.Clamp(m.cursor, 0, len(params)-1)

	switch key {
	case "?":
		m.help = !m.help

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if idx := int(key[0] - '1'); idx < len(slots) {
			m.setFocus(idx)
		}

	case "tab":
		m.setFocus((m.focus + 1) % len(slots))

	case "shift+tab":
		m.setFocus((m.focus + len(slots) - 1) % len(slots))

	case "up", "k":
		m.cursor = (m.cursor + len(params) - 1) % len(params)

	case "down", "j":
		m.cursor = (m.cursor + 1) % len(params)

	case "left", "h":
		m.nudge(slot, -1)

	case "right", "l":
		m.nudge(slot, 1)

	case "H":
		m.nudge(slot, -coarseStep)

	case "L":
		m.nudge(slot, coarseStep)

	case " ", "enter":
		if err := m.Manager.Press(slot.ID, params[m.cursor].Name); err != nil {
			m.status = err.Error()
		}

	case "c":
		m.cycleChannel(slot)

	case "p":
		m.cyclePort(slot)

	case "[":
		if n := len(slot.Inputs); n > 0 {
			m.jack = (m.jack + n - 1) % n
		}

	case "]":
		if n := len(slot.Inputs); n > 0 {
			m.jack = (m.jack + 1) % n
		}

	case "J":
		if in, ok := m.selectedJack(slot); ok {
			m.Manager.Patch(slot.ID, m.jack, !in.Connected, 0)
		}

	case "+", "=":
		if in, ok := m.selectedJack(slot); ok && in.Connected {
			m.Manager.Patch(slot.ID, m.jack, true, lo.Clamp(in.Voltage+voltStep, 0, 10))
		}

	case "-", "_":
		if in, ok := m.selectedJack(slot); ok && in.Connected {
			m.Manager.Patch(slot.ID, m.jack, true, lo.Clamp(in.Voltage-voltStep, 0, 10))
		}

	case "g":
		if _, ok := m.selectedJack(slot); ok {
			if err := m.Manager.Pulse(slot.ID, slot.Layout.Inputs[m.jack].Name); err != nil {
				m.status = err.Error()
			}
		}
	}

	return m, nil
}

func (m *Model) setFocus(idx int) {
	m.focus = idx
	m.cursor = 0
	m.jack = 0
	m.Saver.Update(func(c *config.Config) {
		c.UI.LastFocusedModule = idx
	})
}

func (m *Model) nudge(slot pedal.SlotView, delta int) {
	if err := m.Manager.Nudge(slot.ID, m.cursor, delta); err != nil {
		m.status = err.Error()
		return
	}
	if slot.Layout.Params[m.cursor].Name == pedal.ChannelParam {
		ch := lo.Clamp(int(slot.Params[m.cursor])+delta, 0, 16)
		m.persistChannel(slot.ID, ch)
	}
}

// cycleChannel steps 1..16 then back to unset
func (m *Model) cycleChannel(slot pedal.SlotView) {
	ch := (slot.Channel + 1) % 17
	if err := m.Manager.SetChannel(slot.ID, ch); err != nil {
		m.status = err.Error()
		return
	}
	m.persistChannel(slot.ID, ch)
	if ch == 0 {
		m.status = fmt.Sprintf("%s: channel unset", slot.Name)
	} else {
		m.status = fmt.Sprintf("%s: channel %d", slot.Name, ch)
	}
}

func (m *Model) persistChannel(id string, ch int) {
	m.Saver.Update(func(c *config.Config) {
		if mc := c.FindModule(id); mc != nil {
			mc.Channel = ch
		}
	})
}

// cyclePort steps through the known outputs, then none
func (m *Model) cyclePort(slot pedal.SlotView) {
	names := append(m.Ports.Outputs(), "")
	_, idx, _ := lo.FindIndexOf(names, func(n string) bool { return n == slot.Port })
	next := names[(idx+1)%len(names)]

	if err := m.Manager.BindPort(slot.ID, next); err != nil {
		m.status = err.Error()
	} else if next == "" {
		m.status = fmt.Sprintf("%s: no port", slot.Name)
	} else {
		m.status = fmt.Sprintf("%s: %s", slot.Name, next)
	}
	m.Saver.Update(func(c *config.Config) {
		if mc := c.FindModule(slot.ID); mc != nil {
			mc.Port = next
		}
	})
}

func (m Model) selectedJack(slot pedal.SlotView) (pedal.Input, bool) {
	if m.jack < 0 || m.jack >= len(slot.Inputs) {
		return pedal.Input{}, false
	}
	return slot.Inputs[m.jack], true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().
		Foreground(m.Theme.FG()).
		Background(m.Theme.Muted()).
		Padding(0, 1)

	slots := m.Manager.Snapshot()

	header := headerStyle.Render(fmt.Sprintf("go-pedalctl  %d modules  %d ports", len(slots), len(m.Ports.Outputs())))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.renderRack(slots))
	out.WriteString("\n\n")

	if len(slots) > 0 {
		slot := slots[lo.Clamp(m.focus, 0, len(slots)-1)]
		out.WriteString(m.renderPanel(slot))
		out.WriteString("\n")
	}

	if m.help {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp)))
	} else {
		out.WriteString(dimStyle.Render("1-9/tab:module  ↑↓:control  ←→:adjust  space:press  ?:help  q:quit"))
	}

	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(statusStyle.Render(m.status))
	}

	return out.String()
}

// renderRack renders one tab per slot with its activity LED
func (m Model) renderRack(slots []pedal.SlotView) string {
	if len(slots) == 0 {
		return lipgloss.NewStyle().Foreground(m.Theme.Muted()).Render("no modules configured")
	}
	focused := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)
	normal := lipgloss.NewStyle().Foreground(m.Theme.FG())

	tabs := lo.Map(slots, func(s pedal.SlotView, i int) string {
		led := widgets.RenderLED(m.Theme, theme.LEDGreen, lo.Ternary[float32](s.Active, 1, 0))
		label := fmt.Sprintf("%d %s", i+1, s.Name)
		if i == m.focus {
			return led + " " + focused.Render(label)
		}
		return led + " " + normal.Render(label)
	})
	return strings.Join(tabs, "   ")
}

func (m Model) renderPanel(s pedal.SlotView) string {
	title := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	cursor := lipgloss.NewStyle().Foreground(m.Theme.Cursor())

	var lines []string

	port := s.Port
	if port == "" {
		port = "no port"
	}
	channel := "ch --"
	if s.Channel > 0 {
		channel = fmt.Sprintf("ch %d", s.Channel)
	}
	info := fmt.Sprintf("%s  %s", port, channel)
	if s.Program >= 0 {
		info += fmt.Sprintf("  program %d", s.Program)
	}
	if s.Status != "" {
		info += "  " + s.Status
	}
	lines = append(lines, title.Render(s.Name)+"  "+dim.Render(info), "")

	for i, def := range s.Layout.Params {
		mark := " "
		if i == m.cursor {
			mark = cursor.Render(string(m.Theme.Symbols.Cursor))
		}
		lines = append(lines, fmt.Sprintf("%s %-16s %s", mark, def.Name, m.renderParam(def, s.Params[i])))
	}

	if len(s.Layout.Lights) > 0 {
		lights := lo.Map(s.Layout.Lights, func(l pedal.LightDef, i int) string {
			var b float32
			if i < len(s.Lights) {
				b = s.Lights[i]
			}
			return widgets.RenderLED(m.Theme, ledHue(l.Color), b) + " " + l.Name
		})
		lines = append(lines, "", strings.Join(lights, "  "))
	}

	if len(s.Layout.Inputs) > 0 {
		lines = append(lines, "")
		for i, def := range s.Layout.Inputs {
			mark := " "
			if i == m.jack {
				mark = cursor.Render(string(m.Theme.Symbols.Cursor))
			}
			in := s.Inputs[i]
			lines = append(lines, fmt.Sprintf("%s %-16s %s", mark, def.Name, widgets.RenderJack(m.Theme, in.Connected, in.Voltage)))
		}
	}

	if len(s.Events) > 0 {
		lines = append(lines, "")
		for _, ev := range s.Events {
			lines = append(lines, dim.Render("  "+ev.String()))
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderParam(def pedal.ParamDef, v float32) string {
	switch def.Kind {
	case pedal.Switch:
		if len(def.Labels) > 0 {
			return widgets.RenderSwitch(m.Theme, def.Labels, int(v-def.Min))
		}
		return fmt.Sprintf("%d", int(v))
	case pedal.Toggle, pedal.Button:
		return widgets.RenderLED(m.Theme, theme.LEDRed, v)
	}
	return widgets.RenderKnob(m.Theme, v, def.Min, def.Max, knobWidth) + fmt.Sprintf(" %3d", int(v+0.5))
}

func ledHue(c pedal.LightColor) theme.RGB {
	switch c {
	case pedal.Red:
		return theme.LEDRed
	case pedal.Green:
		return theme.LEDGreen
	case pedal.Yellow:
		return theme.LEDYellow
	case pedal.Blue:
		return theme.LEDBlue
	}
	return theme.LEDWhite
}
