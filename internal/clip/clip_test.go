package clip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/motionrig/internal/curve"
)

func TestBuildGroupsCurvesByTarget(t *testing.T) {
	b := NewBuilder("wave", 2, 30)
	b.Curve(TargetPartOpacity, "PartArm", 0, 1).LinearTo(2, 0)
	b.Curve(TargetParameter, "ParamAngleX", 0, 0).LinearTo(1, 30).LinearTo(2, 0)
	b.Curve(TargetModel, TargetOpacity, 0, 1).StepTo(2, 1)
	b.Curve(TargetParameter, "ParamAngleY", 0, 0).
		BezierTo(curve.Point{Time: 0.5, Value: 5}, curve.Point{Time: 1, Value: 10}, curve.Point{Time: 1.5, Value: 10})

	c, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 4, c.CurveCount())

	var targets []TargetKind
	var ids []string
	for i := 0; i < c.CurveCount(); i++ {
		targets = append(targets, c.Curve(i).Target)
		ids = append(ids, c.Curve(i).ID)
	}
	assert.Equal(t, []TargetKind{TargetModel, TargetParameter, TargetParameter, TargetPartOpacity}, targets)
	assert.Equal(t, []string{TargetOpacity, "ParamAngleX", "ParamAngleY", "PartArm"}, ids)

	// 1 + 2 + 1 + 1 segments; 2 + 3 + 4 + 2 points
	assert.Equal(t, 5, c.SegmentCount())
	assert.Equal(t, 11, c.PointCount())

	angleY := c.Curve(2)
	assert.Equal(t, SegmentIndex(3), angleY.BaseSegment)
	seg := c.Segment(angleY.BaseSegment)
	assert.Equal(t, curve.KindBezier, seg.Kind)
	assert.Equal(t, PointIndex(5), seg.Base)
	assert.Equal(t, PointIndex(8), seg.Last())
	assert.Empty(t, Check(c))
}

func TestBuildDefaults(t *testing.T) {
	c, err := NewBuilder("idle", 3, 30).
		FadeIn(-5).
		Curve(TargetParameter, "P", 0, 0).LinearTo(3, 1).FadeIn(0.2).
		Done().Build()
	require.NoError(t, err)
	assert.Equal(t, DefaultFade, c.FadeIn())
	assert.Equal(t, DefaultFade, c.FadeOut())
	assert.Equal(t, 0.2, c.Curve(0).FadeIn)
	assert.Equal(t, Unset, c.Curve(0).FadeOut)
	assert.Equal(t, 0, c.FindCurve(TargetParameter, "P"))
	assert.Equal(t, -1, c.FindCurve(TargetPartOpacity, "P"))
}

func TestBuildErrors(t *testing.T) {
	b := NewBuilder("broken", 1, 30)
	b.Curve(TargetParameter, "P", 0, 0)
	_, err := b.Build()
	assert.True(t, errors.Is(err, ErrEmptyCurve))

	b = NewBuilder("zero", 0, 30)
	b.Curve(TargetParameter, "P", 0, 0).LinearTo(1, 1)
	_, err = b.Build()
	assert.True(t, errors.Is(err, ErrInvalidClip))

	b = NewBuilder("forever", -1, 30)
	b.Curve(TargetParameter, "P", 0, 0).LinearTo(1, 1)
	c, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, -1.0, c.Duration())
}

func TestCheckFindsBadLayout(t *testing.T) {
	c, err := NewBuilder("x", 1, 30).
		Curve(TargetParameter, "P", 0, 0).LinearTo(1, 1).
		Done().Build()
	require.NoError(t, err)

	bad := *c
	bad.curves = []Curve{{Target: TargetParameter, ID: "P", BaseSegment: 0, SegmentCount: 2}}
	assert.Contains(t, Check(&bad).Codes(), "CLIP.SEGMENT_COUNT")

	bad = *c
	bad.curves = []Curve{
		{Target: TargetPartOpacity, ID: "A", BaseSegment: 0, SegmentCount: 1},
		{Target: TargetModel, ID: "B", BaseSegment: 1, SegmentCount: 0},
	}
	codes := Check(&bad).Codes()
	assert.Contains(t, codes, "CLIP.CURVE_ORDER")
	assert.Contains(t, codes, "CLIP.CURVE_EMPTY")

	bad = *c
	bad.points = bad.points[:1]
	assert.Contains(t, Check(&bad).Codes(), "CLIP.POINT_COUNT")

	bad = *c
	bad.events = []Event{{FireTime: 1, Value: "b"}, {FireTime: 0.5, Value: "a"}}
	diags := Check(&bad)
	assert.Equal(t, []string{"CLIP.EVENT_ORDER"}, diags.Codes())
	assert.False(t, diags.HasErrors())
}

func TestEvaluateSegments(t *testing.T) {
	b := NewBuilder("steps", 4, 30)
	b.Curve(TargetParameter, "P", 0, 0).
		LinearTo(1, 10).
		StepTo(2, 20).
		InverseStepTo(3, 30).
		LinearTo(4, 0)
	c, err := b.Build()
	require.NoError(t, err)

	cases := []struct {
		time float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.5, 10},
		{2.5, 30},
		{3.5, 15},
		{4, 0},
		{9, 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, c.Evaluate(0, tc.time, false, 0), 1e-9, "time %v", tc.time)
	}
}

func TestEvaluateLoopCorrection(t *testing.T) {
	b := NewBuilder("loop", 2, 10).Loop(true)
	b.Curve(TargetParameter, "P", 0, 0).LinearTo(1, 1).LinearTo(2, 0.8)
	b.Curve(TargetParameter, "S", 0, 3).StepTo(2, 5)
	c, err := b.Build()
	require.NoError(t, err)

	loopEnd := 2.1
	// Past the last point the value bends back toward the first point.
	assert.InDelta(t, 0.4, c.Evaluate(0, 2.05, true, loopEnd), 1e-9)
	assert.InDelta(t, 0.8, c.Evaluate(0, 2.05, false, loopEnd), 1e-9)
	assert.InDelta(t, 0.8, c.Evaluate(0, 2.2, true, loopEnd), 1e-9)
	// Stepped tails hold the last value.
	assert.InDelta(t, 5, c.Evaluate(1, 2.05, true, loopEnd), 1e-9)

	first := c.Evaluate(0, 0, true, loopEnd)
	authored := 0.8 - first
	for _, eps := range []float64{1e-6, 0.01, 0.05, 0.09} {
		end := c.Evaluate(0, loopEnd-eps, true, loopEnd)
		assert.LessOrEqual(t, end-first, authored+1e-9, "eps %v", eps)
		assert.GreaterOrEqual(t, end-first, -1e-9, "eps %v", eps)
	}
	assert.InDelta(t, first, c.Evaluate(0, loopEnd-1e-9, true, loopEnd), 1e-6)
}

func TestFiredEvents(t *testing.T) {
	b := NewBuilder("ev", 3, 30)
	b.Curve(TargetParameter, "P", 0, 0).LinearTo(3, 1)
	b.Event(0, "zero").Event(1, "one").Event(2, "two").Event(2, "two-b")
	c, err := b.Build()
	require.NoError(t, err)

	assert.Nil(t, c.FiredEvents(0, 0.5, nil))
	assert.Equal(t, []string{"one"}, c.FiredEvents(0.5, 1, nil))
	assert.Equal(t, []string{"two", "two-b"}, c.FiredEvents(1, 2.5, nil))
	assert.Equal(t, []string{"zero"}, c.FiredEvents(-1, 0, nil))
	assert.Len(t, c.Events(), 4)
}
