// Package clip holds the immutable animation data that motions play back.
//
// A Clip stores its curves, segments and control points in flat tables.
// Curves reference a run of segments by SegmentIndex and segments reference
// their control points by PointIndex, so one Clip can be shared by any number
// of playing motions without copying.
package clip

import (
	"errors"

	"github.com/coreman2200/motionrig/internal/curve"
)

// Unset marks a fade time that was not authored.
const Unset = -1.0

// DefaultFade is used for clip level fades that are missing or negative.
const DefaultFade = 1.0

var (
	ErrEmptyCurve  = errors.New("clip: curve has no segments")
	ErrInvalidClip = errors.New("clip: invalid clip")
)

// PointIndex addresses the point table of a Clip.
type PointIndex int

// SegmentIndex addresses the segment table of a Clip.
type SegmentIndex int

// TargetKind says what a curve drives. Curves are stored grouped in this order.
type TargetKind uint8

const (
	TargetModel TargetKind = iota
	TargetParameter
	TargetPartOpacity
)

func (t TargetKind) String() string {
	switch t {
	case TargetModel:
		return "Model"
	case TargetParameter:
		return "Parameter"
	case TargetPartOpacity:
		return "PartOpacity"
	default:
		return "Unknown"
	}
}

// Model level curve targets with special handling.
const (
	TargetEyeBlink = "EyeBlink"
	TargetLipSync  = "LipSync"
	TargetOpacity  = "Opacity"
)

// Segment is one interpolation rule over a run of points starting at Base.
type Segment struct {
	Kind curve.Kind
	Base PointIndex
	eval curve.Evaluator
}

// Last is the index of the segment's final control point.
func (s Segment) Last() PointIndex { return s.Base + PointIndex(s.Kind.PointCount()-1) }

// Curve binds a run of segments to a target. FadeIn and FadeOut are Unset
// unless the curve overrides the motion's fades.
type Curve struct {
	Target       TargetKind
	ID           string
	BaseSegment  SegmentIndex
	SegmentCount int
	FadeIn       float64
	FadeOut      float64
}

// Event is a named marker fired when playback passes FireTime.
type Event struct {
	FireTime float64 `json:"t" yaml:"t"`
	Value    string  `json:"value" yaml:"value"`
}

// Clip is immutable animation data. Build one with a Builder.
type Clip struct {
	name     string
	duration float64
	fps      float64
	loop     bool
	fadeIn   float64
	fadeOut  float64
	strategy curve.BezierStrategy

	curves   []Curve
	segments []Segment
	points   []curve.Point
	events   []Event
}

func (c *Clip) Name() string { return c.name }

// Duration is the authored length in seconds, or -1 for an unbounded clip.
func (c *Clip) Duration() float64 { return c.duration }

func (c *Clip) FPS() float64 { return c.fps }

func (c *Clip) Loop() bool { return c.loop }

func (c *Clip) FadeIn() float64 { return c.fadeIn }

func (c *Clip) FadeOut() float64 { return c.fadeOut }

func (c *Clip) BezierStrategy() curve.BezierStrategy { return c.strategy }

func (c *Clip) CurveCount() int { return len(c.curves) }

func (c *Clip) Curve(i int) Curve { return c.curves[i] }

func (c *Clip) SegmentCount() int { return len(c.segments) }

func (c *Clip) Segment(i SegmentIndex) Segment { return c.segments[i] }

func (c *Clip) PointCount() int { return len(c.points) }

func (c *Clip) Point(i PointIndex) curve.Point { return c.points[i] }

func (c *Clip) Events() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// FindCurve returns the index of the first curve bound to target and id, or -1.
func (c *Clip) FindCurve(target TargetKind, id string) int {
	for i, cv := range c.curves {
		if cv.Target == target && cv.ID == id {
			return i
		}
	}
	return -1
}

// Evaluate samples curve i at time. When correct is set and time lies past
// the last authored point but before loopEnd, the value is interpolated back
// toward the curve's first value so a looping clip wraps without a jump.
func (c *Clip) Evaluate(i int, time float64, correct bool, loopEnd float64) float64 {
	cv := c.curves[i]
	if cv.SegmentCount == 0 {
		return 0
	}
	first := int(cv.BaseSegment)
	end := first + cv.SegmentCount
	var last PointIndex
	for s := first; s < end; s++ {
		seg := c.segments[s]
		last = seg.Last()
		if c.points[last].Time > time {
			return seg.eval(c.points[seg.Base:], time)
		}
	}
	if correct && time < loopEnd {
		start := c.points[c.segments[first].Base]
		return curve.CorrectEnd(c.segments[end-1].Kind, c.points[last], start.Value, loopEnd, time)
	}
	return c.points[last].Value
}

// FiredEvents appends to dst the values of events with fire times in
// (before, now] and returns the extended slice.
func (c *Clip) FiredEvents(before, now float64, dst []string) []string {
	for _, e := range c.events {
		if e.FireTime > before && e.FireTime <= now {
			dst = append(dst, e.Value)
		}
	}
	return dst
}
