package effect

import "math/rand"

type EyeState uint8

const (
	EyeFirst EyeState = iota
	EyeInterval
	EyeClosing
	EyeClosed
	EyeOpening
)

func (s EyeState) String() string {
	switch s {
	case EyeInterval:
		return "interval"
	case EyeClosing:
		return "closing"
	case EyeClosed:
		return "closed"
	case EyeOpening:
		return "opening"
	default:
		return "first"
	}
}

// BlinkTiming holds the eye blink durations in seconds.
type BlinkTiming struct {
	Interval float64 `yaml:"interval" json:"interval"`
	Closing  float64 `yaml:"closing" json:"closing"`
	Closed   float64 `yaml:"closed" json:"closed"`
	Opening  float64 `yaml:"opening" json:"opening"`
}

func DefaultBlinkTiming() BlinkTiming {
	return BlinkTiming{Interval: 4, Closing: 0.1, Closed: 0.05, Opening: 0.15}
}

// EyeBlink drives eye open parameters from 1 (open) to 0 (closed) at random
// intervals.
type EyeBlink struct {
	ids    []string
	timing BlinkTiming
	rng    *rand.Rand

	state      EyeState
	now        float64
	stateStart float64
	nextBlink  float64
	value      float64
}

// NewEyeBlink uses rng for blink timing; nil seeds a generator from 1.
func NewEyeBlink(ids []string, timing BlinkTiming, rng *rand.Rand) *EyeBlink {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	e := &EyeBlink{timing: timing, rng: rng, value: 1}
	e.SetParameterIDs(ids)
	return e
}

func (e *EyeBlink) SetParameterIDs(ids []string) {
	e.ids = make([]string, len(ids))
	copy(e.ids, ids)
}

func (e *EyeBlink) ParameterIDs() []string {
	out := make([]string, len(e.ids))
	copy(out, e.ids)
	return out
}

func (e *EyeBlink) SetInterval(s float64) { e.timing.Interval = s }

func (e *EyeBlink) SetTiming(closing, closed, opening float64) {
	e.timing.Closing = closing
	e.timing.Closed = closed
	e.timing.Opening = opening
}

func (e *EyeBlink) Timing() BlinkTiming { return e.timing }

func (e *EyeBlink) State() EyeState { return e.state }

// Value is the openness written on the last Update.
func (e *EyeBlink) Value() float64 { return e.value }

func (e *EyeBlink) nextBlinkTime() float64 {
	return e.now + e.rng.Float64()*(2*e.timing.Interval-1)
}

// progress is the fraction of a phase of length d elapsed; zero length
// phases complete at once.
func (e *EyeBlink) progress(d float64) float64 {
	if d <= 0 {
		return 1
	}
	return (e.now - e.stateStart) / d
}

// Update advances the blink by dt and writes the openness to every id.
func (e *EyeBlink) Update(m Setter, dt float64) {
	e.now += dt
	var v float64
	switch e.state {
	case EyeClosing:
		t := e.progress(e.timing.Closing)
		if t >= 1 {
			t = 1
			e.state = EyeClosed
			e.stateStart = e.now
		}
		v = 1 - t
	case EyeClosed:
		if e.progress(e.timing.Closed) >= 1 {
			e.state = EyeOpening
			e.stateStart = e.now
		}
		v = 0
	case EyeOpening:
		t := e.progress(e.timing.Opening)
		if t >= 1 {
			t = 1
			e.state = EyeInterval
			e.nextBlink = e.nextBlinkTime()
		}
		v = t
	case EyeInterval:
		if e.nextBlink < e.now {
			e.state = EyeClosing
			e.stateStart = e.now
		}
		v = 1
	default:
		e.state = EyeInterval
		e.nextBlink = e.nextBlinkTime()
		v = 1
	}
	e.value = v
	for _, id := range e.ids {
		m.SetParameterValueByID(id, v, 1)
	}
}
