package curve

import "math"

// Point is one authored control point: a value at a time in seconds.
type Point struct {
	Time  float64 `json:"t" yaml:"t"`
	Value float64 `json:"v" yaml:"v"`
}

func lerp(a, b Point, t float64) Point {
	return Point{
		Time:  a.Time + (b.Time-a.Time)*t,
		Value: a.Value + (b.Value-a.Value)*t,
	}
}

// Clamp01 clamps x in [0,1]. NaN maps to 0.
func Clamp01(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// SineEase is the fade curve used for every fade-in and fade-out:
// 0.5 - 0.5*cos(clamp(x,0,1)*pi).
func SineEase(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return 0.5 - 0.5*math.Cos(x*math.Pi)
}

// FadeProgress returns SineEase(elapsed/seconds), or 1 when seconds is not
// positive. A zero-length fade completes instantly.
func FadeProgress(elapsed, seconds float64) float64 {
	if seconds <= 0 {
		return 1
	}
	return SineEase(elapsed / seconds)
}

// normalized maps time into the span [from,to] as a fraction. A zero or
// negative span yields 0.
func normalized(from, to, time float64) float64 {
	den := to - from
	if den <= 0 {
		return 0
	}
	return (time - from) / den
}
