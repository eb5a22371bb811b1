package control

import "time"

const (
	// TapDebounce is the window after an accepted tap in which repeats are ignored
	TapDebounce = 100 * time.Millisecond
	// MaxTapInterval bounds the measured interval so a stray long gap can't
	// produce a uselessly slow blink
	MaxTapInterval = 2 * time.Second
)

// NoChange is returned by TapTempo.Process when the light should be left alone
const NoChange float32 = -1

// TapTempo turns tap edges into an alternating tempo light
type TapTempo struct {
	latched  bool // true until TapDebounce has passed since lastTap
	lastTap  time.Time
	firstTap bool
	blinking bool

	half           time.Duration
	nextBlink      time.Time
	nextBrightness float32
}

// Process handles one tick. tap is true on a new tap edge. The returned
// brightness is NoChange unless the light flips this tick; accepted reports
// whether the tap was registered (the caller sends the tap CC).
func (t *TapTempo) Process(tap bool, now time.Time) (brightness float32, accepted bool) {
	if tap {
		if t.latched && now.Sub(t.lastTap) > TapDebounce {
			t.latched = false
		}
		if t.latched {
			return NoChange, false
		}
		t.latched = true

		interval := now.Sub(t.lastTap)
		t.lastTap = now
		if !t.firstTap {
			t.firstTap = true
			return NoChange, true
		}

		if interval > MaxTapInterval {
			interval = MaxTapInterval
		}
		t.half = interval / 2
		t.nextBlink = now.Add(t.half)
		if !t.blinking {
			t.blinking = true
			t.nextBrightness = 1
		}
		return NoChange, true
	}

	if !t.blinking {
		return NoChange, false
	}

	over := now.Sub(t.nextBlink)
	if over <= 0 {
		return NoChange, false
	}

	brightness = t.nextBrightness
	t.nextBrightness = 1 - brightness
	// subtract the overshoot so tick jitter doesn't accumulate
	t.nextBlink = now.Add(t.half - over)
	return brightness, false
}

// HalfPeriod returns the current on (or off) duration, zero before two taps
func (t *TapTempo) HalfPeriod() time.Duration {
	if !t.blinking {
		return 0
	}
	return t.half
}

// Blinking reports whether two taps have established a rate
func (t *TapTempo) Blinking() bool {
	return t.blinking
}

// Reset forgets all taps
func (t *TapTempo) Reset() {
	*t = TapTempo{}
}
