package pedal

import (
	"fmt"

	"github.com/samber/lo"
)

// Model is a module type that can be added to the rack
type Model struct {
	Slug string
	Name string
	New  func() Module
}

// Models lists every available module, in menu order
var Models = []Model{
	{Slug: "blooper", Name: "Blooper", New: NewBlooper},
	{Slug: "mood", Name: "Mood", New: NewMood},
	{Slug: "darkworld", Name: "Dark World", New: NewDarkworld},
	{Slug: "genloss", Name: "Generation Loss MKII", New: NewGenerationLoss},
	{Slug: "thermae", Name: "Thermae", New: NewThermae},
	{Slug: "warpedvinyl", Name: "Warped Vinyl HiFi", New: NewWarpedVinyl},
	{Slug: "habit", Name: "Habit", New: NewHabit},
	{Slug: "cxm1978", Name: "CXM 1978", New: NewCxm1978},
	{Slug: "preamp", Name: "Preamp MKII", New: NewPreampMKII},
}

// New creates a module by slug
func New(slug string) (Module, error) {
	m, ok := lo.Find(Models, func(m Model) bool { return m.Slug == slug })
	if !ok {
		return nil, fmt.Errorf("unknown module %q", slug)
	}
	return m.New(), nil
}

// Slugs returns every registered slug
func Slugs() []string {
	return lo.Map(Models, func(m Model, _ int) string { return m.Slug })
}
