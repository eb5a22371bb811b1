package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// LEDs
	LEDOn  rune // ● lit
	LEDOff rune // ○ dark

	// Knob bar
	KnobFill  rune // █ filled segment
	KnobEmpty rune // ░ empty segment

	// Switches and buttons
	SwitchPos   rune // ▲ selected position
	SwitchOther rune // · other positions

	// Jacks
	JackOpen    rune // ◌ unpatched
	JackPatched rune // ◉ patched

	Cursor rune // ▶ focused control
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			LEDOn:  '●',
			LEDOff: '○',

			KnobFill:  '█',
			KnobEmpty: '░',

			SwitchPos:   '▲',
			SwitchOther: '·',

			JackOpen:    '◌',
			JackPatched: '◉',

			Cursor: '▶',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleSurface = 0.1 // dark purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// LED hues, independent of the palette so a red LED always reads as red
var (
	LEDRed    = RGB{255, 48, 48}
	LEDGreen  = RGB{48, 230, 80}
	LEDYellow = RGB{255, 210, 40}
	LEDBlue   = RGB{60, 120, 255}
	LEDWhite  = RGB{240, 240, 240}
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// LED returns the color of an LED hue at a brightness (0-1). Dark LEDs keep
// a faint tint so they stay visible.
func (t *Theme) LED(hue RGB, brightness float32) lipgloss.Color {
	level := 0.25 + 0.75*float64(brightness)
	return rgbToLipgloss(hue.Dim(level))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
