// Package model is an in-memory parameter store for driving and inspecting
// motions without a renderer.
package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrDuplicateID = errors.New("model: duplicate id")

// Parameter describes one animatable value.
type Parameter struct {
	ID      string  `json:"id" yaml:"id"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Default float64 `json:"default" yaml:"default"`
	Repeat  bool    `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// Model stores parameter values, part opacities and the model opacity.
// Values written to ids the model does not declare are kept unclamped in a
// side table so expressions and effects aimed at them stay harmless.
type Model struct {
	params []Parameter
	index  map[string]int
	values []float64
	saved  []float64

	parts     []string
	partIndex map[string]int
	opacities []float64

	opacity float64
	extra   map[string]float64
}

// New builds a model with every parameter at its default and every part opaque.
func New(params []Parameter, parts []string) (*Model, error) {
	m := &Model{
		params:    make([]Parameter, len(params)),
		index:     make(map[string]int, len(params)),
		values:    make([]float64, len(params)),
		saved:     make([]float64, len(params)),
		parts:     make([]string, len(parts)),
		partIndex: make(map[string]int, len(parts)),
		opacities: make([]float64, len(parts)),
		opacity:   1,
		extra:     map[string]float64{},
	}
	copy(m.params, params)
	copy(m.parts, parts)
	for i, p := range params {
		if _, ok := m.index[p.ID]; ok {
			return nil, fmt.Errorf("%w: parameter %q", ErrDuplicateID, p.ID)
		}
		if p.Min > p.Max {
			return nil, fmt.Errorf("model: parameter %q: min %v > max %v", p.ID, p.Min, p.Max)
		}
		m.index[p.ID] = i
		m.values[i] = m.ParameterClampValue(i, p.Default)
		m.saved[i] = m.values[i]
	}
	for i, id := range parts {
		if _, ok := m.partIndex[id]; ok {
			return nil, fmt.Errorf("%w: part %q", ErrDuplicateID, id)
		}
		m.partIndex[id] = i
		m.opacities[i] = 1
	}
	return m, nil
}

func (m *Model) ParameterCount() int { return len(m.params) }

func (m *Model) Parameter(i int) Parameter { return m.params[i] }

func (m *Model) PartCount() int { return len(m.parts) }

func (m *Model) PartID(i int) string { return m.parts[i] }

func (m *Model) ParameterIndex(id string) int {
	if i, ok := m.index[id]; ok {
		return i
	}
	return -1
}

func (m *Model) valid(i int) bool { return i >= 0 && i < len(m.values) }

func (m *Model) ParameterValueByIndex(i int) float64 {
	if !m.valid(i) {
		return 0
	}
	return m.values[i]
}

func (m *Model) ParameterValueByID(id string) float64 {
	if i, ok := m.index[id]; ok {
		return m.values[i]
	}
	return m.extra[id]
}

func (m *Model) SetParameterValueByIndex(i int, v, w float64) {
	if !m.valid(i) {
		return
	}
	if m.params[i].Repeat {
		v = m.ParameterRepeatValue(i, v)
	} else {
		v = m.ParameterClampValue(i, v)
	}
	m.values[i] = blend(m.values[i], v, w)
}

func (m *Model) SetParameterValueByID(id string, v, w float64) {
	if i, ok := m.index[id]; ok {
		m.SetParameterValueByIndex(i, v, w)
		return
	}
	m.extra[id] = blend(m.extra[id], v, w)
}

func (m *Model) AddParameterValueByID(id string, v, w float64) {
	m.SetParameterValueByID(id, m.ParameterValueByID(id)+v*w, 1)
}

func (m *Model) MultiplyParameterValueByID(id string, v, w float64) {
	m.SetParameterValueByID(id, m.ParameterValueByID(id)*(1+(v-1)*w), 1)
}

func blend(old, v, w float64) float64 {
	if w == 1 {
		return v
	}
	return old*(1-w) + v*w
}

func (m *Model) IsRepeat(i int) bool {
	return m.valid(i) && m.params[i].Repeat
}

func (m *Model) ParameterRepeatValue(i int, v float64) float64 {
	if !m.valid(i) {
		return v
	}
	lo, hi := m.params[i].Min, m.params[i].Max
	size := hi - lo
	if v > hi {
		if over := math.Mod(v-hi, size); !math.IsNaN(over) {
			v = lo + over
		} else {
			v = hi
		}
	}
	if v < lo {
		if over := math.Mod(lo-v, size); !math.IsNaN(over) {
			v = hi - over
		} else {
			v = lo
		}
	}
	return v
}

func (m *Model) ParameterClampValue(i int, v float64) float64 {
	if !m.valid(i) {
		return v
	}
	return math.Min(math.Max(v, m.params[i].Min), m.params[i].Max)
}

func (m *Model) PartIndex(id string) int {
	if i, ok := m.partIndex[id]; ok {
		return i
	}
	return -1
}

func (m *Model) PartOpacityByIndex(i int) float64 {
	if i < 0 || i >= len(m.opacities) {
		return 0
	}
	return m.opacities[i]
}

func (m *Model) SetPartOpacityByIndex(i int, v float64) {
	if i < 0 || i >= len(m.opacities) {
		return
	}
	m.opacities[i] = v
}

func (m *Model) Opacity() float64 { return m.opacity }

func (m *Model) SetModelOpacity(v float64) { m.opacity = v }

// SaveParameters records the current values as the per-frame baseline.
func (m *Model) SaveParameters() { copy(m.saved, m.values) }

// LoadParameters restores the baseline recorded by SaveParameters.
func (m *Model) LoadParameters() { copy(m.values, m.saved) }

// Reset returns every parameter to its default and every part to opaque.
func (m *Model) Reset() {
	for i, p := range m.params {
		m.values[i] = m.ParameterClampValue(i, p.Default)
	}
	copy(m.saved, m.values)
	for i := range m.opacities {
		m.opacities[i] = 1
	}
	m.opacity = 1
	m.extra = map[string]float64{}
}

// Snapshot is a copy of every value keyed by id.
type Snapshot struct {
	Parameters map[string]float64 `json:"parameters"`
	Parts      map[string]float64 `json:"parts"`
	Opacity    float64            `json:"opacity"`
}

func (m *Model) Snapshot() Snapshot {
	s := Snapshot{
		Parameters: make(map[string]float64, len(m.params)),
		Parts:      make(map[string]float64, len(m.parts)),
		Opacity:    m.opacity,
	}
	for i, p := range m.params {
		s.Parameters[p.ID] = m.values[i]
	}
	for i, id := range m.parts {
		s.Parts[id] = m.opacities[i]
	}
	return s
}

// IDs lists the declared parameter ids in declaration order.
func (m *Model) IDs() []string {
	out := make([]string, len(m.params))
	for i, p := range m.params {
		out[i] = p.ID
	}
	return out
}

// ExtraIDs lists undeclared ids that were written to, sorted.
func (m *Model) ExtraIDs() []string {
	out := make([]string, 0, len(m.extra))
	for id := range m.extra {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
