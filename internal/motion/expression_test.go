package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/motionrig/internal/curve"
)

func TestParseBlendType(t *testing.T) {
	assert.Equal(t, BlendAdditive, ParseBlendType("Add"))
	assert.Equal(t, BlendMultiply, ParseBlendType("Multiply"))
	assert.Equal(t, BlendOverwrite, ParseBlendType(" overwrite "))
	assert.Equal(t, BlendAdditive, ParseBlendType("bogus"))

	var b BlendType
	require.NoError(t, b.UnmarshalText([]byte("Overwrite")))
	assert.Equal(t, BlendOverwrite, b)
	txt, err := BlendMultiply.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Multiply", string(txt))
}

func TestNewExpressionDefaults(t *testing.T) {
	x := NewExpression("smile", -1, -2, []ExpressionParameter{{ID: "P", Value: 1}})
	assert.Equal(t, DefaultExpressionFade, x.FadeIn())
	assert.Equal(t, DefaultExpressionFade, x.FadeOut())
	assert.Equal(t, "smile", x.Name())
	assert.Len(t, x.Parameters(), 1)
	assert.Equal(t, -1.0, x.Duration())
}

func TestExpressionOverwriteFullWeight(t *testing.T) {
	mdl := newModel(t)
	em := NewExpressionManager()
	em.Start(NewExpression("set", 0, 0, []ExpressionParameter{
		{ID: "P", Blend: BlendOverwrite, Value: 0.75},
		{ID: "Q", Blend: BlendAdditive, Value: 0.25},
		{ID: "ParamEyeLOpen", Blend: BlendMultiply, Value: 0.5},
	}), true)

	mdl.SaveParameters()
	mdl.LoadParameters()
	em.Update(mdl, 0)
	assert.InDelta(t, 0.75, mdl.ParameterValueByID("P"), 1e-9)
	assert.InDelta(t, 0.25, mdl.ParameterValueByID("Q"), 1e-9)
	assert.InDelta(t, 0.5, mdl.ParameterValueByID("ParamEyeLOpen"), 1e-9)
	assert.Equal(t, 1.0, em.FadeWeight(0))
	assert.Equal(t, -1.0, em.FadeWeight(3))
}

func TestExpressionIdempotentAtZeroDelta(t *testing.T) {
	mdl := newModel(t)
	mdl.SetParameterValueByID("Q", 0.1, 1)
	mdl.SaveParameters()

	em := NewExpressionManager()
	em.Start(NewExpression("lift", 0.5, 0.5, []ExpressionParameter{
		{ID: "Q", Blend: BlendAdditive, Value: 0.4},
		{ID: "P", Blend: BlendOverwrite, Value: 1},
	}), true)

	tick := func(dt float64) (p, q float64) {
		mdl.LoadParameters()
		em.Update(mdl, dt)
		return mdl.ParameterValueByID("P"), mdl.ParameterValueByID("Q")
	}
	tick(0)
	p1, q1 := tick(0.2)
	w := curve.SineEase(0.4)
	assert.InDelta(t, w, p1, 1e-9)
	assert.InDelta(t, 0.1+0.4*w, q1, 1e-9)

	p2, q2 := tick(0)
	assert.Equal(t, p1, p2)
	assert.Equal(t, q1, q2)
	p3, q3 := tick(0)
	assert.Equal(t, p1, p3)
	assert.Equal(t, q1, q3)
}

func TestExpressionCrossfadeSupersedes(t *testing.T) {
	mdl := newModel(t)
	mdl.SaveParameters()
	em := NewExpressionManager()

	tick := func() {
		mdl.LoadParameters()
		em.Update(mdl, 0.1)
	}

	em.Start(NewExpression("first", 0.5, 0.5, []ExpressionParameter{
		{ID: "P", Blend: BlendOverwrite, Value: 1},
		{ID: "Q", Blend: BlendAdditive, Value: 0.5},
	}), true)
	for i := 0; i < 10; i++ {
		tick()
	}
	assert.InDelta(t, 1.0, mdl.ParameterValueByID("P"), 1e-9)
	assert.InDelta(t, 0.5, mdl.ParameterValueByID("Q"), 1e-9)
	assert.Equal(t, 1, em.Len())

	h := em.Start(NewExpression("second", 0.5, 0.5, []ExpressionParameter{
		{ID: "P", Blend: BlendOverwrite, Value: 0.2},
	}), true)
	require.NotEqual(t, InvalidHandle, h)
	assert.Equal(t, 2, em.Len())

	tick()
	tick()
	tick()
	assert.Equal(t, 2, em.Len())
	fw := em.FadeWeight(1)
	assert.Greater(t, fw, 0.0)
	assert.Less(t, fw, 1.0)
	p := mdl.ParameterValueByID("P")
	assert.InDelta(t, 1-0.8*fw, p, 1e-9)
	q := mdl.ParameterValueByID("Q")
	assert.Greater(t, q, 0.0)
	assert.Less(t, q, 0.5)

	for i := 0; i < 10; i++ {
		tick()
	}
	assert.Equal(t, 1, em.Len())
	assert.NotNil(t, em.Entry(h))
	assert.InDelta(t, 0.2, mdl.ParameterValueByID("P"), 1e-9)
	assert.InDelta(t, 0.0, mdl.ParameterValueByID("Q"), 1e-9)
}

func TestExpressionShortFadeOutHoldsUntilSuperseded(t *testing.T) {
	mdl := newModel(t)
	mdl.SetParameterValueByID("P", 0.5, 1)
	mdl.SaveParameters()
	em := NewExpressionManager()

	tick := func() float64 {
		mdl.LoadParameters()
		em.Update(mdl, 0.05)
		return mdl.ParameterValueByID("P")
	}

	em.Start(NewExpression("high", 0, 0.1, []ExpressionParameter{
		{ID: "P", Blend: BlendOverwrite, Value: 1},
	}), true)
	for i := 0; i < 4; i++ {
		tick()
	}
	prev := mdl.ParameterValueByID("P")
	require.InDelta(t, 1.0, prev, 1e-9)

	em.Start(NewExpression("low", 1, 1, []ExpressionParameter{
		{ID: "P", Blend: BlendOverwrite, Value: 0},
	}), true)
	for i := 0; i < 30; i++ {
		p := tick()
		assert.LessOrEqual(t, p, prev+1e-9, "tick %d", i)
		assert.Less(t, prev-p, 0.1, "tick %d jumped from %v to %v", i, prev, p)
		if i == 5 {
			assert.Equal(t, 2, em.Len(), "faded out expression dropped before being superseded")
		}
		prev = p
	}
	assert.Equal(t, 1, em.Len())
	assert.InDelta(t, 0.0, prev, 1e-9)
}

func TestExpressionDeprecatedPriority(t *testing.T) {
	em := NewExpressionManager()
	em.SetReservePriority(2)
	assert.Equal(t, 2, em.ReservePriority())
	h := em.StartWithPriority(NewExpression("x", 0, 0, nil), true, 2)
	assert.NotEqual(t, InvalidHandle, h)
	assert.Equal(t, 0, em.ReservePriority())
	assert.Equal(t, 2, em.CurrentPriority())
	assert.Equal(t, InvalidHandle, em.Start(nil, true))
}

func TestExpressionOnPlainQueue(t *testing.T) {
	mdl := newModel(t)
	q := NewQueue()
	q.Start(NewExpression("direct", 0, 0, []ExpressionParameter{
		{ID: "Q", Blend: BlendAdditive, Value: 0.5},
		{ID: "P", Blend: BlendOverwrite, Value: 0.3},
		{ID: "ParamEyeLOpen", Blend: BlendMultiply, Value: 0.5},
	}), true)
	q.Update(mdl, 0)
	assert.InDelta(t, 0.5, mdl.ParameterValueByID("Q"), 1e-9)
	assert.InDelta(t, 0.3, mdl.ParameterValueByID("P"), 1e-9)
	assert.InDelta(t, 0.5, mdl.ParameterValueByID("ParamEyeLOpen"), 1e-9)
	assert.False(t, q.IsFinished())
}
