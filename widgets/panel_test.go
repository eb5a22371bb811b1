package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"go-pedalctl/theme"
)

func TestRenderKnob(t *testing.T) {
	th := theme.New(theme.Default())

	tests := []struct {
		value  float32
		filled int
	}{
		{0, 0},
		{64, 5},
		{127, 10},
		{200, 10},
	}
	for _, tt := range tests {
		bar := RenderKnob(th, tt.value, 0, 127, 10)
		if w := lipgloss.Width(bar); w != 10 {
			t.Errorf("value %v: width %d, want 10", tt.value, w)
		}
		if got := strings.Count(bar, string(th.Symbols.KnobFill)); got != tt.filled {
			t.Errorf("value %v: %d filled, want %d", tt.value, got, tt.filled)
		}
	}
}

func TestRenderSwitch(t *testing.T) {
	th := theme.New(theme.Default())
	out := RenderSwitch(th, []string{"A", "B", "C"}, 1)
	if strings.Count(out, string(th.Symbols.SwitchPos)) != 1 {
		t.Errorf("want exactly one selected position in %q", out)
	}
	if !strings.Contains(out, string(th.Symbols.SwitchPos)+"B") {
		t.Errorf("B not selected in %q", out)
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{
		Title: "Rack",
		Keys:  []KeyBinding{{Key: "tab", Desc: "next module"}},
	}})
	want := "Rack\n  tab          next module"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
