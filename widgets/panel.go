package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-pedalctl/theme"
)

// RenderLED renders a single LED at a brightness (0-1)
func RenderLED(th *theme.Theme, hue theme.RGB, brightness float32) string {
	sym := th.Symbols.LEDOff
	if brightness > 0 {
		sym = th.Symbols.LEDOn
	}
	return lipgloss.NewStyle().Foreground(th.LED(hue, brightness)).Render(string(sym))
}

// RenderKnob renders a value as a horizontal bar of width cells
func RenderKnob(th *theme.Theme, value, min, max float32, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > min {
		filled = int((value - min) / (max - min) * float32(width))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat(string(th.Symbols.KnobFill), filled)
	rest := strings.Repeat(string(th.Symbols.KnobEmpty), width-filled)
	return lipgloss.NewStyle().Foreground(th.Accent()).Render(bar) +
		lipgloss.NewStyle().Foreground(th.Muted()).Render(rest)
}

// RenderSwitch renders the positions of a stepped control, the selected one
// highlighted. pos indexes labels.
func RenderSwitch(th *theme.Theme, labels []string, pos int) string {
	on := lipgloss.NewStyle().Foreground(th.Active()).Bold(true)
	off := lipgloss.NewStyle().Foreground(th.Muted())

	parts := make([]string, len(labels))
	for i, l := range labels {
		if i == pos {
			parts[i] = on.Render(string(th.Symbols.SwitchPos) + l)
		} else {
			parts[i] = off.Render(string(th.Symbols.SwitchOther) + l)
		}
	}
	return strings.Join(parts, " ")
}

// RenderJack renders an input jack and its voltage when patched
func RenderJack(th *theme.Theme, connected bool, volts float32) string {
	if !connected {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render(string(th.Symbols.JackOpen))
	}
	return lipgloss.NewStyle().Foreground(th.Success()).
		Render(fmt.Sprintf("%c %4.1fV", th.Symbols.JackPatched, volts))
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
