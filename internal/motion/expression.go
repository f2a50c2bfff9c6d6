package motion

import "strings"

// DefaultExpressionFade is used for expression fades that are missing or negative.
const DefaultExpressionFade = 1.0

type BlendType uint8

const (
	BlendAdditive BlendType = iota
	BlendMultiply
	BlendOverwrite
)

func (b BlendType) String() string {
	switch b {
	case BlendMultiply:
		return "Multiply"
	case BlendOverwrite:
		return "Overwrite"
	default:
		return "Add"
	}
}

// ParseBlendType maps "Add", "Multiply" and "Overwrite". Anything else is
// additive.
func ParseBlendType(s string) BlendType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiply":
		return BlendMultiply
	case "overwrite":
		return BlendOverwrite
	default:
		return BlendAdditive
	}
}

func (b BlendType) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *BlendType) UnmarshalText(text []byte) error {
	*b = ParseBlendType(string(text))
	return nil
}

type ExpressionParameter struct {
	ID    string    `json:"id" yaml:"id"`
	Blend BlendType `json:"blend" yaml:"blend"`
	Value float64   `json:"value" yaml:"value"`
}

// Expression is a static set of parameter offsets with its own fades.
type Expression struct {
	*Base

	name   string
	params []ExpressionParameter
}

// NewExpression builds an expression. Negative fades fall back to
// DefaultExpressionFade.
func NewExpression(name string, fadeIn, fadeOut float64, params []ExpressionParameter) *Expression {
	if fadeIn < 0 {
		fadeIn = DefaultExpressionFade
	}
	if fadeOut < 0 {
		fadeOut = DefaultExpressionFade
	}
	p := make([]ExpressionParameter, len(params))
	copy(p, params)
	return &Expression{Base: newBase(fadeIn, fadeOut), name: name, params: p}
}

func (x *Expression) Name() string { return x.name }

func (x *Expression) Parameters() []ExpressionParameter {
	out := make([]ExpressionParameter, len(x.params))
	copy(out, x.params)
	return out
}

func (x *Expression) parameter(id string) (ExpressionParameter, bool) {
	for _, p := range x.params {
		if p.ID == id {
			return p, true
		}
	}
	return ExpressionParameter{}, false
}

func (x *Expression) Duration() float64 { return -1 }

func (x *Expression) LoopDuration() float64 { return -1 }

func (x *Expression) FiredEvents(_, _ float64, dst []string) []string { return dst }

// Apply writes the expression straight into the model. Used when an
// expression is played on a plain Queue; ExpressionManager blends through
// accumulators instead.
func (x *Expression) Apply(m Model, _ float64, fadeWeight float64, _ *Entry) {
	for _, p := range x.params {
		switch p.Blend {
		case BlendAdditive:
			m.AddParameterValueByID(p.ID, p.Value, fadeWeight)
		case BlendMultiply:
			m.MultiplyParameterValueByID(p.ID, p.Value, fadeWeight)
		case BlendOverwrite:
			m.SetParameterValueByID(p.ID, p.Value, fadeWeight)
		}
	}
}

// contribution is the (additive, multiply, overwrite) triple p asks for
// given the parameter's current value.
func (p ExpressionParameter) contribution(current float64) (add, mul, ow float64) {
	switch p.Blend {
	case BlendMultiply:
		return 0, p.Value, current
	case BlendOverwrite:
		return 0, 1, p.Value
	default:
		return p.Value, 1, current
	}
}
