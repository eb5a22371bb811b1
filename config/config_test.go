package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if len(cfg.Modules) != 1 || cfg.Modules[0].Slug != "blooper" {
		t.Fatalf("default modules = %+v", cfg.Modules)
	}
	if cfg.Modules[0].ID == "" {
		t.Fatal("default module has no ID")
	}
	if cfg.Engine.TickRateHz != DefaultTickRateHz {
		t.Fatalf("tick rate = %d", cfg.Engine.TickRateHz)
	}
}

func TestLoadFromNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"modules":[{"slug":"mood","channel":42},{"id":"keep","slug":"habit","channel":3}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Modules[0].ID == "" {
		t.Fatal("missing ID not filled in")
	}
	if cfg.Modules[0].Channel != 0 {
		t.Fatalf("out of range channel = %d, want 0", cfg.Modules[0].Channel)
	}
	if m := cfg.FindModule("keep"); m == nil || m.Channel != 3 {
		t.Fatalf("FindModule = %+v", m)
	}
	if cfg.Engine.TickRateHz != DefaultTickRateHz {
		t.Fatalf("tick rate = %d", cfg.Engine.TickRateHz)
	}
}

func TestLoadFromBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{"), 0644)
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRemoveModuleDropsBindings(t *testing.T) {
	cfg := &Config{}
	a := cfg.AddModule("blooper", 1)
	b := cfg.AddModule("habit", 2)
	cfg.Footswitch.Bindings = []Binding{
		{Number: 80, Module: a.ID, Param: "Record"},
		{Number: 81, Module: b.ID, Param: "Tap Tempo"},
	}

	cfg.RemoveModule(a.ID)

	if len(cfg.Modules) != 1 || cfg.Modules[0].ID != b.ID {
		t.Fatalf("modules = %+v", cfg.Modules)
	}
	if len(cfg.Footswitch.Bindings) != 1 || cfg.Footswitch.Bindings[0].Module != b.ID {
		t.Fatalf("bindings = %+v", cfg.Footswitch.Bindings)
	}
}

func TestMatch(t *testing.T) {
	cfg := &Config{Footswitch: FootswitchConfig{Bindings: []Binding{
		{Channel: 0, Number: 80, Module: "a", Param: "Record"},
		{Channel: 2, Number: 80, Module: "b", Param: "Stop"},
		{Channel: 0, Number: 60, Note: true, Module: "c", Param: "Erase"},
	}}}

	tests := []struct {
		channel, number int
		note            bool
		want            []string
	}{
		{0, 80, false, []string{"a"}},
		{1, 80, false, []string{"a", "b"}},
		{5, 60, true, []string{"c"}},
		{5, 60, false, nil},
	}
	for _, tt := range tests {
		got := cfg.Match(tt.channel, tt.number, tt.note)
		if len(got) != len(tt.want) {
			t.Fatalf("Match(%d,%d,%v) = %+v", tt.channel, tt.number, tt.note, got)
		}
		for i := range got {
			if got[i].Module != tt.want[i] {
				t.Fatalf("Match(%d,%d,%v)[%d] = %s", tt.channel, tt.number, tt.note, i, got[i].Module)
			}
		}
	}
}

func TestSaverCoalescesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	s := NewSaver(cfg, path, 10*time.Millisecond)

	for ch := 1; ch <= 5; ch++ {
		ch := ch
		s.Update(func(c *Config) { c.Modules[0].Channel = ch })
	}

	select {
	case <-s.Saved():
	case <-time.After(2 * time.Second):
		t.Fatal("save never happened")
	}
	if err := s.Err(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Modules[0].Channel != 5 {
		t.Fatalf("saved channel = %d, want 5", loaded.Modules[0].Channel)
	}
}

func TestSaverFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := NewSaver(DefaultConfig(), path, time.Hour)
	s.Update(func(c *Config) { c.UI.LastFocusedModule = 3 })

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.UI.LastFocusedModule != 3 {
		t.Fatalf("saved focus = %d, want 3", loaded.UI.LastFocusedModule)
	}
}
