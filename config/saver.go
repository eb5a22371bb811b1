package config

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"go-pedalctl/debug"
)

// DefaultSaveDelay coalesces bursts of UI edits into one write
const DefaultSaveDelay = 500 * time.Millisecond

// Saver writes a config to disk after edits settle
type Saver struct {
	cfg      *Config
	path     string
	debounce func(f func())

	mu      sync.Mutex
	lastErr error
	saved   chan struct{}
}

// NewSaver creates a saver for cfg. An empty path means the default location.
func NewSaver(cfg *Config, path string, delay time.Duration) *Saver {
	return &Saver{
		cfg:      cfg,
		path:     path,
		debounce: debounce.New(delay),
		saved:    make(chan struct{}, 1),
	}
}

// Request schedules a save. Calls inside the delay collapse into one.
func (s *Saver) Request() {
	s.debounce(s.save)
}

// Update edits the config under the saver's lock and schedules a save
func (s *Saver) Update(fn func(c *Config)) {
	s.mu.Lock()
	fn(s.cfg)
	s.mu.Unlock()
	s.Request()
}

// View reads the config under the saver's lock
func (s *Saver) View(fn func(c *Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cfg)
}

// Saved delivers a value after each completed write
func (s *Saver) Saved() <-chan struct{} {
	return s.saved
}

// Err returns the error from the last write
func (s *Saver) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Saver) save() {
	s.mu.Lock()
	var err error
	if s.path == "" {
		err = s.cfg.Save()
	} else {
		err = s.cfg.SaveTo(s.path)
	}
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		debug.Log("config", "save failed: %v", err)
	}

	select {
	case s.saved <- struct{}{}:
	default:
	}
}

// Flush writes the config immediately, for use on shutdown
func (s *Saver) Flush() error {
	s.save()
	return s.Err()
}
