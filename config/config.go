package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ModuleConfig defines one pedal in the rack
type ModuleConfig struct {
	ID                  string `json:"id"`
	Slug                string `json:"slug"`
	Port                string `json:"port,omitempty"`
	Channel             int    `json:"channel"` // 1-16, 0 = unset
	RunningStatusDefeat bool   `json:"runningStatusDefeat,omitempty"`
}

// Binding routes a footswitch press to a module button
type Binding struct {
	Channel int    `json:"channel"` // 1-16, 0 = any
	Number  int    `json:"number"`
	Note    bool   `json:"note,omitempty"`
	Module  string `json:"module"` // ModuleConfig.ID
	Param   string `json:"param"`
}

// FootswitchConfig defines the MIDI input used for hands-free control
type FootswitchConfig struct {
	PortName string    `json:"portName,omitempty"`
	Bindings []Binding `json:"bindings,omitempty"`
}

// EngineConfig tunes the tick loop
type EngineConfig struct {
	TickRateHz int `json:"tickRateHz,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastFocusedModule int `json:"lastFocusedModule,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Modules    []ModuleConfig   `json:"modules,omitempty"`
	Footswitch FootswitchConfig `json:"footswitch,omitempty"`
	Engine     EngineConfig     `json:"engine,omitempty"`
	UI         UIConfig         `json:"ui,omitempty"`
	Debug      bool             `json:"debug,omitempty"`
}

// DefaultTickRateHz is the control rate when the config doesn't set one
const DefaultTickRateHz = 1000

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Modules: []ModuleConfig{
			{ID: uuid.NewString(), Slug: "blooper", Channel: 1},
		},
		Engine: EngineConfig{
			TickRateHz: DefaultTickRateHz,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pedalctl"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, or returns defaults if it doesn't exist
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.normalize()
	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// normalize fills in IDs and clamps values a hand-edited file may get wrong
func (c *Config) normalize() {
	for i := range c.Modules {
		if c.Modules[i].ID == "" {
			c.Modules[i].ID = uuid.NewString()
		}
		if c.Modules[i].Channel < 0 || c.Modules[i].Channel > 16 {
			c.Modules[i].Channel = 0
		}
	}
	if c.Engine.TickRateHz <= 0 {
		c.Engine.TickRateHz = DefaultTickRateHz
	}
}

// FindModule finds a module config by ID
func (c *Config) FindModule(id string) *ModuleConfig {
	for i := range c.Modules {
		if c.Modules[i].ID == id {
			return &c.Modules[i]
		}
	}
	return nil
}

// AddModule appends a module with a fresh ID and returns it
func (c *Config) AddModule(slug string, channel int) ModuleConfig {
	mc := ModuleConfig{ID: uuid.NewString(), Slug: slug, Channel: channel}
	c.Modules = append(c.Modules, mc)
	return mc
}

// RemoveModule drops a module and any footswitch bindings pointing at it
func (c *Config) RemoveModule(id string) {
	var kept []ModuleConfig
	for _, m := range c.Modules {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	c.Modules = kept

	var bindings []Binding
	for _, b := range c.Footswitch.Bindings {
		if b.Module != id {
			bindings = append(bindings, b)
		}
	}
	c.Footswitch.Bindings = bindings
}

// Match returns the bindings that fire for a footswitch event
func (c *Config) Match(channel, number int, note bool) []Binding {
	var result []Binding
	for _, b := range c.Footswitch.Bindings {
		if b.Note != note || b.Number != number {
			continue
		}
		if b.Channel != 0 && b.Channel != channel+1 {
			continue
		}
		result = append(result, b)
	}
	return result
}
