package control

import "time"

// BlinkOff is how long the light stays dark at each transition
const BlinkOff = 100 * time.Millisecond

// Flasher is an asymmetric blink: on for rate-BlinkOff, off for BlinkOff
type Flasher struct {
	last     time.Time
	offUntil time.Time
}

// Flash returns 0 or 1 for this tick
func (f *Flasher) Flash(rate time.Duration, now time.Time) float32 {
	if now.Before(f.offUntil) {
		return 0
	}
	if now.Sub(f.last) > rate {
		f.last = now
		f.offUntil = now.Add(BlinkOff)
		return 0
	}
	return 1
}

// Reset restarts the cycle on the next call
func (f *Flasher) Reset() {
	*f = Flasher{}
}
