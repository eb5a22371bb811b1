package control

import (
	"math"
	"time"
)

// DefaultRatePeriod is the minimum gap between knob/slider CC bursts
const DefaultRatePeriod = 5 * time.Millisecond

// phaseEpsilon absorbs float rounding so an evenly dividing tick permits on
// exactly period/tick calls.
const phaseEpsilon = 1e-9

// RateLimiter is a phase accumulator rate divider. It permits at most one
// operation per overflow and never bursts.
type RateLimiter struct {
	phase float64
}

// ShouldRateLimit advances the phase by tick/period. It returns false (work
// may proceed) only on the tick where the phase crosses 1.
func (r *RateLimiter) ShouldRateLimit(period, tick time.Duration) bool {
	if period <= 0 {
		return false
	}
	r.phase += float64(tick) / float64(period)
	if r.phase >= 1-phaseEpsilon {
		r.phase -= 1
		if r.phase >= 1 {
			// a stalled host gets one permit, not a burst
			r.phase = math.Mod(r.phase, 1)
		}
		return false
	}
	return true
}

// Phase returns the current accumulator value
func (r *RateLimiter) Phase() float64 {
	return r.phase
}

// Prime makes the next ShouldRateLimit call permit
func (r *RateLimiter) Prime() {
	r.phase = 1
}

// Reset zeroes the accumulator
func (r *RateLimiter) Reset() {
	r.phase = 0
}
