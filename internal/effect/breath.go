// Package effect holds procedural parameter drivers that run alongside
// motions: a sine wave breath and a randomized eye blink.
package effect

import "math"

// Adder is the part of a model Breath writes through.
type Adder interface {
	AddParameterValueByID(id string, v, w float64)
}

// Setter is the part of a model EyeBlink writes through.
type Setter interface {
	SetParameterValueByID(id string, v, w float64)
}

// BreathParameter is one sine wave: offset + peak*sin(2πt/cycle), added
// with weight.
type BreathParameter struct {
	ID     string  `yaml:"id" json:"id"`
	Offset float64 `yaml:"offset" json:"offset"`
	Peak   float64 `yaml:"peak" json:"peak"`
	Cycle  float64 `yaml:"cycle" json:"cycle"`
	Weight float64 `yaml:"weight" json:"weight"`
}

type Breath struct {
	params []BreathParameter
	t      float64
}

func NewBreath(params []BreathParameter) *Breath {
	b := &Breath{}
	b.SetParameters(params)
	return b
}

func (b *Breath) SetParameters(params []BreathParameter) {
	b.params = make([]BreathParameter, len(params))
	copy(b.params, params)
}

func (b *Breath) Parameters() []BreathParameter {
	out := make([]BreathParameter, len(b.params))
	copy(out, b.params)
	return out
}

// Update advances the wave by dt and adds every parameter's value. Waves
// with a non-positive cycle are skipped.
func (b *Breath) Update(m Adder, dt float64) {
	b.t += dt
	phase := b.t * 2 * math.Pi
	for _, p := range b.params {
		if p.Cycle <= 0 {
			continue
		}
		m.AddParameterValueByID(p.ID, p.Offset+p.Peak*math.Sin(phase/p.Cycle), p.Weight)
	}
}
