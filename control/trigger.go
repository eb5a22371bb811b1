package control

// Gate thresholds in volts. Below GateLow re-arms, at or above GateHigh fires.
const (
	GateLow  float32 = 0.1
	GateHigh float32 = 2.0
)

// SchmittTrigger detects rising edges of a logical level with hysteresis
// between 0 and 1.
type SchmittTrigger struct {
	high bool
}

// Process returns true once per crossing from <=0 to >=1
func (s *SchmittTrigger) Process(in float32) bool {
	if s.high {
		if in <= 0 {
			s.high = false
		}
		return false
	}
	if in >= 1 {
		s.high = true
		return true
	}
	return false
}

// ProcessVoltage rescales a gate voltage from [GateLow, GateHigh] and processes it
func (s *SchmittTrigger) ProcessVoltage(volts float32) bool {
	return s.Process(Rescale(volts, GateLow, GateHigh, 0, 1))
}

// IsHigh reports the current latched state
func (s *SchmittTrigger) IsHigh() bool {
	return s.high
}

func (s *SchmittTrigger) Reset() {
	s.high = false
}

// BooleanTrigger turns a held momentary button into a single press edge
type BooleanTrigger struct {
	state bool
}

func (b *BooleanTrigger) Process(pressed bool) bool {
	edge := pressed && !b.state
	b.state = pressed
	return edge
}
