package curve

import "fmt"

// Kind selects the interpolation rule of a segment.
type Kind uint8

const (
	KindLinear Kind = iota
	KindBezier
	KindStepped
	KindInverseStepped
)

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindBezier:
		return "bezier"
	case KindStepped:
		return "stepped"
	case KindInverseStepped:
		return "inverse_stepped"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// PointCount is the number of points a segment of this kind reads,
// including the shared first point.
func (k Kind) PointCount() int {
	if k == KindBezier {
		return 4
	}
	return 2
}

// Valid reports whether k is a known segment kind.
func (k Kind) Valid() bool { return k <= KindInverseStepped }

// BezierStrategy picks how a cubic segment is solved for the query time.
type BezierStrategy uint8

const (
	// BezierCardano solves the time polynomial in closed form. Default for
	// content authored with unrestricted handles.
	BezierCardano BezierStrategy = iota
	// BezierSubdivide treats the normalized time as the curve parameter.
	// Exact only when the handles sit at one and two thirds of the span.
	BezierSubdivide
	// BezierBisect searches the curve parameter by repeated subdivision.
	BezierBisect
)

func (s BezierStrategy) String() string {
	switch s {
	case BezierCardano:
		return "cardano"
	case BezierSubdivide:
		return "subdivide"
	case BezierBisect:
		return "bisect"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// Evaluator maps the points of one segment and a query time to a value.
type Evaluator func(points []Point, time float64) float64

// EvaluatorFor returns the evaluator for a segment kind. The strategy only
// matters for KindBezier.
func EvaluatorFor(k Kind, s BezierStrategy) Evaluator {
	switch k {
	case KindBezier:
		switch s {
		case BezierSubdivide:
			return BezierSubdivided
		case BezierBisect:
			return BezierBisected
		default:
			return BezierSolved
		}
	case KindStepped:
		return Stepped
	case KindInverseStepped:
		return InverseStepped
	default:
		return Linear
	}
}
