package clip

import (
	"fmt"
	"sort"

	"github.com/coreman2200/motionrig/internal/curve"
)

// Builder assembles a Clip. Curves may be added in any order; Build groups
// them Model first, then Parameter, then PartOpacity.
type Builder struct {
	name     string
	duration float64
	fps      float64
	loop     bool
	fadeIn   float64
	fadeOut  float64
	strategy curve.BezierStrategy
	curves   []*CurveBuilder
	events   []Event
}

// NewBuilder starts a clip of the given duration (seconds, or -1 for
// unbounded) and authored frame rate.
func NewBuilder(name string, duration, fps float64) *Builder {
	return &Builder{
		name:     name,
		duration: duration,
		fps:      fps,
		fadeIn:   Unset,
		fadeOut:  Unset,
	}
}

func (b *Builder) Loop(loop bool) *Builder {
	b.loop = loop
	return b
}

func (b *Builder) FadeIn(seconds float64) *Builder {
	b.fadeIn = seconds
	return b
}

func (b *Builder) FadeOut(seconds float64) *Builder {
	b.fadeOut = seconds
	return b
}

// Bezier selects how bezier segments resolve time to curve parameter.
func (b *Builder) Bezier(s curve.BezierStrategy) *Builder {
	b.strategy = s
	return b
}

func (b *Builder) Event(fireTime float64, value string) *Builder {
	b.events = append(b.events, Event{FireTime: fireTime, Value: value})
	return b
}

// Curve adds a curve bound to target and id. Its first point is (t0, v0).
func (b *Builder) Curve(target TargetKind, id string, t0, v0 float64) *CurveBuilder {
	cb := &CurveBuilder{
		owner:   b,
		target:  target,
		id:      id,
		fadeIn:  Unset,
		fadeOut: Unset,
		points:  []curve.Point{{Time: t0, Value: v0}},
	}
	b.curves = append(b.curves, cb)
	return cb
}

// CurveBuilder appends segments to one curve, each starting at the previous end point.
type CurveBuilder struct {
	owner   *Builder
	target  TargetKind
	id      string
	fadeIn  float64
	fadeOut float64
	kinds   []curve.Kind
	points  []curve.Point
}

// Done returns the clip builder the curve belongs to.
func (c *CurveBuilder) Done() *Builder { return c.owner }

func (c *CurveBuilder) FadeIn(seconds float64) *CurveBuilder {
	c.fadeIn = seconds
	return c
}

func (c *CurveBuilder) FadeOut(seconds float64) *CurveBuilder {
	c.fadeOut = seconds
	return c
}

func (c *CurveBuilder) LinearTo(t, v float64) *CurveBuilder {
	return c.segment(curve.KindLinear, curve.Point{Time: t, Value: v})
}

func (c *CurveBuilder) StepTo(t, v float64) *CurveBuilder {
	return c.segment(curve.KindStepped, curve.Point{Time: t, Value: v})
}

func (c *CurveBuilder) InverseStepTo(t, v float64) *CurveBuilder {
	return c.segment(curve.KindInverseStepped, curve.Point{Time: t, Value: v})
}

// BezierTo adds a cubic segment with handles h1, h2 ending at end.
func (c *CurveBuilder) BezierTo(h1, h2, end curve.Point) *CurveBuilder {
	return c.segment(curve.KindBezier, h1, h2, end)
}

func (c *CurveBuilder) segment(k curve.Kind, pts ...curve.Point) *CurveBuilder {
	c.kinds = append(c.kinds, k)
	c.points = append(c.points, pts...)
	return c
}

// Build lays the curves out into flat tables, checks the result and returns
// the Clip. Err severity findings fail the build.
func (b *Builder) Build() (*Clip, error) {
	out := &Clip{
		name:     b.name,
		duration: b.duration,
		fps:      b.fps,
		loop:     b.loop,
		fadeIn:   b.fadeIn,
		fadeOut:  b.fadeOut,
		strategy: b.strategy,
	}
	if out.fadeIn < 0 {
		out.fadeIn = DefaultFade
	}
	if out.fadeOut < 0 {
		out.fadeOut = DefaultFade
	}

	ordered := make([]*CurveBuilder, len(b.curves))
	copy(ordered, b.curves)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].target < ordered[j].target })

	for _, cb := range ordered {
		if len(cb.kinds) == 0 {
			return nil, fmt.Errorf("%w: %s %q", ErrEmptyCurve, cb.target, cb.id)
		}
		cv := Curve{
			Target:       cb.target,
			ID:           cb.id,
			BaseSegment:  SegmentIndex(len(out.segments)),
			SegmentCount: len(cb.kinds),
			FadeIn:       cb.fadeIn,
			FadeOut:      cb.fadeOut,
		}
		base := PointIndex(len(out.points))
		out.points = append(out.points, cb.points...)
		for _, k := range cb.kinds {
			out.segments = append(out.segments, Segment{
				Kind: k,
				Base: base,
				eval: curve.EvaluatorFor(k, b.strategy),
			})
			base += PointIndex(k.PointCount() - 1)
		}
		out.curves = append(out.curves, cv)
	}

	out.events = make([]Event, len(b.events))
	copy(out.events, b.events)

	if diags := Check(out); diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidClip, diags.Err())
	}
	return out, nil
}
