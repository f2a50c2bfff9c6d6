package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/motionrig/internal/clip"
	"github.com/coreman2200/motionrig/internal/model"
)

func TestParameterSweepClip(t *testing.T) {
	top := Topology{Parameters: []model.Parameter{
		{ID: "A", Min: -1, Max: 1},
		{ID: "B", Min: -30, Max: 30, Default: 5},
	}}
	c, err := CalibrationClip(ParameterSweep, top, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, c.Duration())
	assert.Empty(t, clip.Check(c))

	b := c.FindCurve(clip.TargetParameter, "B")
	require.GreaterOrEqual(t, b, 0)
	assert.InDelta(t, 5, c.Evaluate(b, 0.5, false, 0), 1e-9)
	assert.InDelta(t, -30, c.Evaluate(b, 1.25, false, 0), 1e-9)
	assert.InDelta(t, 30, c.Evaluate(b, 1.75, false, 0), 1e-9)
	assert.InDelta(t, 5, c.Evaluate(b, 2, false, 0), 1e-9)

	a := c.FindCurve(clip.TargetParameter, "A")
	assert.InDelta(t, -1, c.Evaluate(a, 0.25, false, 0), 1e-9)
	assert.InDelta(t, 0, c.Evaluate(a, 1.5, false, 0), 1e-9)
}

func TestPartSweepClip(t *testing.T) {
	c, err := CalibrationClip(PartSweep, Topology{Parts: []string{"P0", "P1"}}, 1)
	require.NoError(t, err)
	p0 := c.FindCurve(clip.TargetPartOpacity, "P0")
	p1 := c.FindCurve(clip.TargetPartOpacity, "P1")
	assert.Equal(t, 0.0, c.Evaluate(p0, 0.5, false, 0))
	assert.Equal(t, 1.0, c.Evaluate(p1, 0.5, false, 0))
	assert.Equal(t, 1.0, c.Evaluate(p0, 1.5, false, 0))
	assert.Equal(t, 0.0, c.Evaluate(p1, 1.5, false, 0))
	assert.Equal(t, 1.0, c.Evaluate(p0, 3, false, 0))
	assert.Equal(t, 1.0, c.Evaluate(p1, 3, false, 0))
}

func TestCalibrationErrors(t *testing.T) {
	_, err := CalibrationClip("rgb_channels", Topology{}, 1)
	assert.True(t, errors.Is(err, ErrUnknownCalibration))
	_, err = CalibrationClip(PartSweep, Topology{}, 1)
	assert.True(t, errors.Is(err, ErrNothingToCalibrate))
	_, err = CalibrationClip(ParameterSweep, Topology{}, 1)
	assert.True(t, errors.Is(err, ErrNothingToCalibrate))
}

func TestRigCalibrate(t *testing.T) {
	r := newRig(t, quiet)
	_, err := r.Calibrate(PartSweep, 0.5)
	require.NoError(t, err)
	assert.Equal(t, PriorityForce, r.Status().Priority)

	r.Update(0.1)
	s := r.Snapshot()
	assert.Equal(t, 0.0, s.Parts["PartArmA"])
	assert.Equal(t, 1.0, s.Parts["PartArmB"])

	Simulate(r, 0.1, 20, nil)
	s = r.Snapshot()
	assert.Equal(t, 1.0, s.Parts["PartArmA"])
	assert.Equal(t, 1.0, s.Parts["PartArmB"])
	assert.Equal(t, 0, r.Status().Motions)
}
