package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/motionrig/internal/config"
	"github.com/coreman2200/motionrig/internal/model"
	"github.com/coreman2200/motionrig/internal/motion"
)

func newRig(t *testing.T, edit func(c *config.Config)) *Rig {
	t.Helper()
	lib, err := DemoLibrary()
	require.NoError(t, err)
	cfg := config.Default()
	if edit != nil {
		edit(cfg)
	}
	r, err := NewRig(cfg, lib)
	require.NoError(t, err)
	return r
}

func quiet(c *config.Config) {
	c.IdleMotion = ""
	c.Breath = nil
	c.EyeBlinkIDs = nil
}

func TestDemoLibrary(t *testing.T) {
	lib, err := DemoLibrary()
	require.NoError(t, err)
	assert.Equal(t, []string{"idle", "nod", "talk", "vanish", "wave"}, lib.Clips())
	assert.Equal(t, []string{"angry", "smile", "surprised"}, lib.Expressions())

	idle, ok := lib.Clip("idle")
	require.True(t, ok)
	assert.True(t, idle.Loop())

	a, ok := lib.Expression("smile")
	require.True(t, ok)
	b, _ := lib.Expression("smile")
	assert.NotSame(t, a, b)
	_, ok = lib.Expression("nope")
	assert.False(t, ok)
}

func TestRigPlaysIdleWithinRange(t *testing.T) {
	r := newRig(t, nil)
	cfg := config.Default()
	Simulate(r, 1.0/30, 150, func(step int, clock float64, s model.Snapshot) {
		for _, p := range cfg.Parameters {
			v := s.Parameters[p.ID]
			require.GreaterOrEqual(t, v, p.Min, "%s at %v", p.ID, clock)
			require.LessOrEqual(t, v, p.Max, "%s at %v", p.ID, clock)
		}
	})
	st := r.Status()
	assert.Equal(t, 1, st.Motions)
	assert.Equal(t, PriorityIdle, st.Priority)
	assert.Equal(t, uint64(150), st.Frames)
	assert.InDelta(t, 5.0, st.Clock, 1e-9)
}

func TestRigPriorities(t *testing.T) {
	r := newRig(t, nil)
	r.Update(0.1)
	require.Equal(t, PriorityIdle, r.Status().Priority)

	h, err := r.StartMotion("nod", PriorityNormal)
	require.NoError(t, err)
	assert.NotEqual(t, motion.InvalidHandle, h)

	_, err = r.StartMotion("wave", PriorityNormal)
	assert.True(t, errors.Is(err, ErrMotionBusy))

	_, err = r.StartMotion("wave", PriorityForce)
	require.NoError(t, err)
	assert.Equal(t, PriorityForce, r.Status().Priority)

	_, err = r.StartMotion("missing", PriorityForce)
	assert.True(t, errors.Is(err, ErrUnknownMotion))
	_, err = r.SetExpression("missing")
	assert.True(t, errors.Is(err, ErrUnknownExpression))

	r.StopAll()
	assert.Equal(t, 0, r.Status().Motions)
}

func TestRigEventsAndOpacity(t *testing.T) {
	r := newRig(t, quiet)
	var events []string
	r.SetEventSink(func(e string) { events = append(events, e) })

	_, err := r.StartMotion("nod", PriorityForce)
	require.NoError(t, err)
	Simulate(r, 0.1, 20, nil)
	assert.Equal(t, []string{"nod"}, events)

	_, err = r.StartMotion("vanish", PriorityForce)
	require.NoError(t, err)
	Simulate(r, 0.125, 5, nil)
	assert.InDelta(t, 0.5, r.Snapshot().Opacity, 1e-9)
}

func TestRigExpressionIdempotentAtZeroDelta(t *testing.T) {
	r := newRig(t, quiet)
	_, err := r.StartMotion("talk", PriorityForce)
	require.NoError(t, err)
	_, err = r.SetExpression("smile")
	require.NoError(t, err)
	Simulate(r, 0.1, 10, nil)

	r.Update(0)
	s1 := r.Snapshot()
	r.Update(0)
	s2 := r.Snapshot()
	assert.Equal(t, s1, s2)
	assert.InDelta(t, 1.0, s1.Parameters["ParamMouthForm"], 1e-9)
	assert.InDelta(t, 0.5, s1.Parameters["ParamCheek"], 1e-9)
}

func TestRigLoopBehaviorFromConfig(t *testing.T) {
	r := newRig(t, func(c *config.Config) {
		quiet(c)
		c.LoopBehavior = "restart"
	})
	h, err := r.StartMotion("talk", PriorityNormal)
	require.NoError(t, err)
	e := r.Motions.Entry(h)
	require.NotNil(t, e)
	cm, ok := e.Motion().(*motion.CurveMotion)
	require.True(t, ok)
	assert.Equal(t, motion.LoopRestart, cm.LoopBehavior())
	assert.True(t, cm.LoopFadeIn())
}

func TestNewRigRejectsBadConfig(t *testing.T) {
	lib, err := DemoLibrary()
	require.NoError(t, err)

	cfg := config.Default()
	cfg.IdleMotion = "sleep"
	_, err = NewRig(cfg, lib)
	assert.True(t, errors.Is(err, ErrUnknownMotion))

	cfg = config.Default()
	cfg.Parameters = nil
	_, err = NewRig(cfg, lib)
	assert.True(t, errors.Is(err, config.ErrNoParameters))
}

func TestConductorRuns(t *testing.T) {
	r := newRig(t, nil)
	c := NewConductor(r, 200*physic.Hertz)
	frames := 0
	c.OnFrame = func(uint64, model.Snapshot) { frames++ }

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Run(ctx))
	assert.Greater(t, frames, 0)
	assert.Greater(t, r.Status().Clock, 0.0)
}

func TestDemoLibraryPassesCheck(t *testing.T) {
	lib, err := DemoLibrary()
	require.NoError(t, err)
	assert.Empty(t, lib.Check())
}

func TestRigTopology(t *testing.T) {
	r := newRig(t, nil)
	top := r.Topology()
	assert.Len(t, top.Parameters, len(config.Default().Parameters))
	assert.Equal(t, "ParamAngleX", top.Parameters[0].ID)
	assert.Equal(t, []string{"PartArmA", "PartArmB"}, top.Parts)
	assert.Contains(t, top.Motions, "wave")
	assert.Contains(t, top.Expressions, "smile")
}
