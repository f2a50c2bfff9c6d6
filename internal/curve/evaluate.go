package curve

// Linear interpolates between points[0] and points[1].
func Linear(points []Point, time float64) float64 {
	t := Clamp01(normalized(points[0].Time, points[1].Time, time))
	return points[0].Value + (points[1].Value-points[0].Value)*t
}

// Stepped holds the first value until the next segment starts.
func Stepped(points []Point, _ float64) float64 {
	return points[0].Value
}

// InverseStepped holds the second value from the start of the segment.
func InverseStepped(points []Point, _ float64) float64 {
	return points[1].Value
}

// casteljau evaluates the cubic through points[0..3] at parameter t.
func casteljau(points []Point, t float64) float64 {
	p01 := lerp(points[0], points[1], t)
	p12 := lerp(points[1], points[2], t)
	p23 := lerp(points[2], points[3], t)

	p012 := lerp(p01, p12, t)
	p123 := lerp(p12, p23, t)

	return lerp(p012, p123, t).Value
}

// BezierSubdivided uses the linearly normalized time as the curve parameter.
func BezierSubdivided(points []Point, time float64) float64 {
	t := Clamp01(normalized(points[0].Time, points[3].Time, time))
	return casteljau(points, t)
}

const (
	bisectTolerance  = 0.01
	bisectIterations = 20
)

// BezierBisected finds the parameter whose time coordinate matches time by
// subdividing the time polynomial, then evaluates the value there.
func BezierBisected(points []Point, time float64) float64 {
	x := time
	x1, x2 := points[0].Time, points[3].Time
	cx1, cx2 := points[1].Time, points[2].Time

	ta, tb := 0.0, 1.0
	t := 0.0
	i := 0
	for ; i < bisectIterations; i++ {
		if x < x1+bisectTolerance {
			t = ta
			break
		}
		if x2-bisectTolerance < x {
			t = tb
			break
		}

		centerx := (cx1 + cx2) * 0.5
		cx1 = (x1 + cx1) * 0.5
		cx2 = (x2 + cx2) * 0.5
		ctrlx12 := (cx1 + centerx) * 0.5
		ctrlx21 := (cx2 + centerx) * 0.5
		centerx = (ctrlx12 + ctrlx21) * 0.5

		if x < centerx {
			tb = (ta + tb) * 0.5
			if centerx-bisectTolerance < x {
				t = tb
				break
			}
			x2 = centerx
			cx2 = ctrlx12
		} else {
			ta = (ta + tb) * 0.5
			if x < centerx+bisectTolerance {
				t = ta
				break
			}
			x1 = centerx
			cx1 = ctrlx21
		}
	}
	if i == bisectIterations {
		t = (ta + tb) * 0.5
	}

	return casteljau(points, Clamp01(t))
}

// BezierSolved writes the time axis as a*t^3 + b*t^2 + c*t + d = 0 and
// solves it in closed form.
func BezierSolved(points []Point, time float64) float64 {
	x1, x2 := points[0].Time, points[3].Time
	cx1, cx2 := points[1].Time, points[2].Time

	a := x2 - 3*cx2 + 3*cx1 - x1
	b := 3*cx2 - 6*cx1 + 3*x1
	c := 3*cx1 - 3*x1
	d := x1 - time

	return casteljau(points, SolveBezierParameter(a, b, c, d))
}

// CorrectEnd evaluates the synthetic segment that joins the last authored
// point back to the first value at the loop end. Bezier tails are joined
// linearly.
func CorrectEnd(k Kind, last Point, firstValue, loopEnd, time float64) float64 {
	pts := []Point{last, {Time: loopEnd, Value: firstValue}}
	switch k {
	case KindStepped:
		return Stepped(pts, time)
	case KindInverseStepped:
		return InverseStepped(pts, time)
	default:
		return Linear(pts, time)
	}
}
