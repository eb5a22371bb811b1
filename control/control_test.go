package control

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestRateLimiterPermitsOnCeilCall(t *testing.T) {
	tests := []struct {
		name   string
		period time.Duration
		tick   time.Duration
	}{
		{"even division", 5 * time.Millisecond, time.Millisecond},
		{"audio rate", 5 * time.Millisecond, time.Second / 44100},
		{"uneven", 5 * time.Millisecond, 3 * time.Millisecond},
		{"tick longer than period", 5 * time.Millisecond, 7 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RateLimiter
			n := int(math.Ceil(float64(tt.period) / float64(tt.tick)))
			for i := 1; i <= n; i++ {
				limited := r.ShouldRateLimit(tt.period, tt.tick)
				if i < n && !limited {
					t.Fatalf("call %d of %d: permitted early", i, n)
				}
				if i == n && limited {
					t.Fatalf("call %d of %d: still limited", i, n)
				}
			}
		})
	}
}

func TestRateLimiterNeverBursts(t *testing.T) {
	var r RateLimiter
	// a single huge tick still permits only once
	if r.ShouldRateLimit(5*time.Millisecond, time.Second) {
		t.Fatal("expected permit")
	}
	if !r.ShouldRateLimit(5*time.Millisecond, time.Millisecond) {
		t.Fatal("permitted again right after a stall")
	}
	if r.Phase() >= 1 {
		t.Fatalf("phase = %v, want < 1", r.Phase())
	}
}

func TestRateLimiterPrime(t *testing.T) {
	var r RateLimiter
	r.ShouldRateLimit(5*time.Millisecond, time.Millisecond)
	r.Prime()
	if r.ShouldRateLimit(5*time.Millisecond, time.Millisecond) {
		t.Fatal("primed limiter held back the next call")
	}
	if !r.ShouldRateLimit(5*time.Millisecond, time.Millisecond) {
		t.Fatal("permitted twice in a row")
	}
}

func TestGracePeriod(t *testing.T) {
	var g GracePeriod
	if !g.Elapsed(time.Second, t0) {
		t.Fatal("unmarked grace period should be elapsed")
	}
	g.Mark(t0)
	if g.Elapsed(time.Second, t0.Add(999*time.Millisecond)) {
		t.Fatal("elapsed too early")
	}
	if !g.Elapsed(time.Second, t0.Add(time.Second)) {
		t.Fatal("not elapsed at threshold")
	}
	if got := g.Since(t0.Add(250 * time.Millisecond)); got != 250*time.Millisecond {
		t.Fatalf("Since = %v", got)
	}
	if !ShouldTransition(0, t0, t0) {
		t.Fatal("zero threshold should transition immediately")
	}
}

func TestTapTempoEstablishesHalfPeriod(t *testing.T) {
	var tt TapTempo

	if b, ok := tt.Process(true, t0); !ok || b != NoChange {
		t.Fatalf("first tap: brightness=%v accepted=%v", b, ok)
	}
	if tt.Blinking() {
		t.Fatal("one tap must not start blinking")
	}

	second := t0.Add(500 * time.Millisecond)
	if _, ok := tt.Process(true, second); !ok {
		t.Fatal("second tap rejected")
	}
	if got := tt.HalfPeriod(); got != 250*time.Millisecond {
		t.Fatalf("half period = %v, want 250ms", got)
	}

	// a bounce 10ms later is ignored and does not recompute the rate
	if _, ok := tt.Process(true, second.Add(10*time.Millisecond)); ok {
		t.Fatal("bounce accepted")
	}
	if got := tt.HalfPeriod(); got != 250*time.Millisecond {
		t.Fatalf("half period changed to %v", got)
	}

	if b, _ := tt.Process(false, second.Add(250*time.Millisecond)); b != NoChange {
		t.Fatalf("blinked at the boundary: %v", b)
	}
	if b, _ := tt.Process(false, second.Add(251*time.Millisecond)); b != 1 {
		t.Fatalf("first blink = %v, want 1", b)
	}
	if b, _ := tt.Process(false, second.Add(400*time.Millisecond)); b != NoChange {
		t.Fatalf("blink before next period: %v", b)
	}
	if b, _ := tt.Process(false, second.Add(501*time.Millisecond)); b != 0 {
		t.Fatalf("second blink = %v, want 0", b)
	}
}

func TestTapTempoClampsInterval(t *testing.T) {
	var tt TapTempo
	tt.Process(true, t0)
	tt.Process(true, t0.Add(10*time.Second))
	if got := tt.HalfPeriod(); got != MaxTapInterval/2 {
		t.Fatalf("half period = %v, want %v", got, MaxTapInterval/2)
	}
}

func TestTapTempoRetapRederivesRate(t *testing.T) {
	var tt TapTempo
	tt.Process(true, t0)
	tt.Process(true, t0.Add(time.Second))
	tt.Process(true, t0.Add(1400*time.Millisecond))
	if got := tt.HalfPeriod(); got != 200*time.Millisecond {
		t.Fatalf("half period = %v, want 200ms", got)
	}
}

func TestTapTempoLatchReleasesAfterDebounce(t *testing.T) {
	var tt TapTempo
	tt.Process(true, t0)
	if _, ok := tt.Process(true, t0.Add(TapDebounce)); ok {
		t.Fatal("tap exactly at the debounce boundary should be ignored")
	}
	if _, ok := tt.Process(true, t0.Add(TapDebounce+time.Millisecond)); !ok {
		t.Fatal("tap after debounce rejected")
	}
}

func TestFlasherDutyCycle(t *testing.T) {
	var f Flasher
	rate := time.Second

	if got := f.Flash(rate, t0); got != 0 {
		t.Fatalf("first call = %v, want 0 (transition)", got)
	}
	if got := f.Flash(rate, t0.Add(50*time.Millisecond)); got != 0 {
		t.Fatalf("inside off window = %v", got)
	}
	if got := f.Flash(rate, t0.Add(BlinkOff)); got != 1 {
		t.Fatalf("after off window = %v", got)
	}
	if got := f.Flash(rate, t0.Add(time.Second)); got != 1 {
		t.Fatalf("at rate = %v", got)
	}
	if got := f.Flash(rate, t0.Add(time.Second+time.Millisecond)); got != 0 {
		t.Fatalf("after rate = %v, want transition", got)
	}
}

func TestSchmittTriggerHysteresis(t *testing.T) {
	var s SchmittTrigger
	steps := []struct {
		volts float32
		edge  bool
	}{
		{0, false},
		{1.5, false}, // between thresholds
		{2.0, true},
		{5.0, false}, // still high
		{1.0, false}, // not low enough to re-arm
		{2.5, false},
		{0.1, false}, // re-armed
		{3.0, true},
	}
	for i, st := range steps {
		if got := s.ProcessVoltage(st.volts); got != st.edge {
			t.Fatalf("step %d (%vV): edge=%v want %v", i, st.volts, got, st.edge)
		}
	}
}

func TestBooleanTrigger(t *testing.T) {
	var b BooleanTrigger
	seq := []bool{false, true, true, false, true}
	want := []bool{false, true, false, false, true}
	for i := range seq {
		if got := b.Process(seq[i]); got != want[i] {
			t.Fatalf("step %d: got %v", i, got)
		}
	}
}

func TestCVToCC(t *testing.T) {
	tests := []struct {
		volts float32
		want  int
	}{
		{-2, 0},
		{0, 0},
		{0.6, 10},
		{3.75, 64},
		{7.5, 127},
		{10, 127},
	}
	for _, tt := range tests {
		if got := CVToCC(tt.volts); got != tt.want {
			t.Errorf("CVToCC(%v) = %d, want %d", tt.volts, got, tt.want)
		}
	}
}

func TestCeilingClamp(t *testing.T) {
	tests := []struct {
		knob, cv, want int
	}{
		{80, 127, 80},
		{40, 10, 10},
		{40, -5, 0},
		{0, 100, 0},
	}
	for _, tt := range tests {
		if got := CeilingClamp(tt.knob, tt.cv); got != tt.want {
			t.Errorf("CeilingClamp(%d, %d) = %d, want %d", tt.knob, tt.cv, got, tt.want)
		}
	}
}
