package curve

import "math"

// Epsilon is the threshold below which a polynomial coefficient is treated
// as zero.
const Epsilon = 0.00001

const (
	rootCenter    = 0.5
	rootThreshold = rootCenter + 0.01
)

// SolveBezierParameter returns the root in [0,1] of
// a*t^3 + b*t^2 + c*t + d = 0 for a Bezier time polynomial. With three
// real roots the first one near the center of the curve wins; a vanishing
// leading coefficient degrades to the quadratic, then the linear case.
func SolveBezierParameter(a, b, c, d float64) float64 {
	if math.Abs(a) < Epsilon {
		return Clamp01(quadraticRoot(b, c, d))
	}

	ba := b / a
	ca := c / a
	da := d / a

	p := (3*ca - ba*ba) / 3
	p3 := p / 3
	q := (2*ba*ba*ba - 9*ba*ca + 27*da) / 27
	q2 := q / 2
	discriminant := q2*q2 + p3*p3*p3

	switch {
	case discriminant < 0:
		return threeRealRoots(p, q, ba)
	case discriminant == 0:
		return repeatedRoots(q2, ba)
	default:
		sd := math.Sqrt(discriminant)
		u1 := Cbrt(sd - q2)
		v1 := Cbrt(sd + q2)
		return Clamp01(u1 - v1 - ba/3)
	}
}

// threeRealRoots handles the trigonometric case.
func threeRealRoots(p, q, ba float64) float64 {
	mp3 := -p / 3
	r := math.Sqrt(mp3 * mp3 * mp3)
	cosphi := -q / (2 * r)
	if cosphi < -1 {
		cosphi = -1
	} else if cosphi > 1 {
		cosphi = 1
	}
	phi := math.Acos(cosphi)
	t1 := 2 * Cbrt(r)

	root1 := t1*math.Cos(phi/3) - ba/3
	if math.Abs(root1-rootCenter) < rootThreshold {
		return Clamp01(root1)
	}
	root2 := t1*math.Cos((phi+2*math.Pi)/3) - ba/3
	if math.Abs(root2-rootCenter) < rootThreshold {
		return Clamp01(root2)
	}
	root3 := t1*math.Cos((phi+4*math.Pi)/3) - ba/3
	return Clamp01(root3)
}

// repeatedRoots handles a zero discriminant (double or triple root).
func repeatedRoots(q2, ba float64) float64 {
	var u1 float64
	if q2 < 0 {
		u1 = Cbrt(-q2)
	} else {
		u1 = -Cbrt(q2)
	}
	root1 := 2*u1 - ba/3
	if math.Abs(root1-rootCenter) < rootThreshold {
		return Clamp01(root1)
	}
	return Clamp01(-u1 - ba/3)
}

// quadraticRoot solves a*x^2 + b*x + c = 0, degrading to the linear case.
func quadraticRoot(a, b, c float64) float64 {
	if math.Abs(a) < Epsilon {
		if math.Abs(b) < Epsilon {
			return -c
		}
		return -c / b
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		disc = 0
	}
	return -(b + math.Sqrt(disc)) / (2 * a)
}

// Cbrt returns the real cube root of x, keeping the sign.
func Cbrt(x float64) float64 {
	if x == 0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	return math.Cbrt(x)
}
