package control

import "time"

// ShouldTransition reports whether threshold has elapsed since marker
func ShouldTransition(threshold time.Duration, marker, now time.Time) bool {
	return now.Sub(marker) >= threshold
}

// GracePeriod is a timestamp marker for debounce and transient-state timeouts.
// The zero value behaves as if it was marked long ago.
type GracePeriod struct {
	marker time.Time
	set    bool
}

// Mark records now as the start of the grace period
func (g *GracePeriod) Mark(now time.Time) {
	g.marker = now
	g.set = true
}

// Clear forgets the marker
func (g *GracePeriod) Clear() {
	g.set = false
}

// Elapsed reports whether threshold has passed since the last Mark
func (g *GracePeriod) Elapsed(threshold time.Duration, now time.Time) bool {
	if !g.set {
		return true
	}
	return ShouldTransition(threshold, g.marker, now)
}

// Since returns the time since the marker (zero if never marked)
func (g *GracePeriod) Since(now time.Time) time.Duration {
	if !g.set {
		return 0
	}
	return now.Sub(g.marker)
}
