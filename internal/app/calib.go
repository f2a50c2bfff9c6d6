package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/motionrig/internal/clip"
	"github.com/coreman2200/motionrig/internal/motion"
)

// Calibration is a generated clip that walks every target of a rig so a
// preview can confirm ids and ranges.
type Calibration string

const (
	ParameterSweep Calibration = "parameter_sweep"
	PartSweep      Calibration = "part_sweep"
	OpacityFade    Calibration = "opacity_fade"
)

var (
	ErrUnknownCalibration = errors.New("app: unknown calibration")
	ErrNothingToCalibrate = errors.New("app: nothing to calibrate")
)

// CalibrationClip builds the clip for kind. Each target gets step seconds
// and every target ends where it started.
//
//	parameter_sweep: default, min, max, default for one parameter at a time
//	part_sweep:      hides one part at a time
//	opacity_fade:    model opacity down to 0 and back
func CalibrationClip(kind Calibration, top Topology, step float64) (*clip.Clip, error) {
	if step <= 0 {
		step = 1
	}
	name := "calibrate:" + string(kind)
	switch kind {
	case ParameterSweep:
		n := len(top.Parameters)
		if n == 0 {
			return nil, fmt.Errorf("%w: no parameters", ErrNothingToCalibrate)
		}
		total := float64(n) * step
		b := clip.NewBuilder(name, total, 30).FadeIn(0).FadeOut(0)
		for i, p := range top.Parameters {
			at := float64(i) * step
			cb := b.Curve(clip.TargetParameter, p.ID, 0, p.Default)
			if i > 0 {
				cb.LinearTo(at, p.Default)
			}
			cb.LinearTo(at+step/4, p.Min).LinearTo(at+step*3/4, p.Max).LinearTo(at+step, p.Default)
			if i < n-1 {
				cb.LinearTo(total, p.Default)
			}
			b.Event(at, p.ID)
		}
		return b.Build()

	case PartSweep:
		n := len(top.Parts)
		if n == 0 {
			return nil, fmt.Errorf("%w: no parts", ErrNothingToCalibrate)
		}
		total := float64(n) * step
		b := clip.NewBuilder(name, total, 30).FadeIn(0).FadeOut(0)
		for i, id := range top.Parts {
			at := float64(i) * step
			var cb *clip.CurveBuilder
			if i == 0 {
				cb = b.Curve(clip.TargetPartOpacity, id, 0, 0)
			} else {
				cb = b.Curve(clip.TargetPartOpacity, id, 0, 1).StepTo(at, 0)
			}
			cb.StepTo(at+step, 1)
			if i < n-1 {
				cb.StepTo(total, 1)
			}
			b.Event(at, id)
		}
		return b.Build()

	case OpacityFade:
		b := clip.NewBuilder(name, 2*step, 30).FadeIn(0).FadeOut(0)
		b.Curve(clip.TargetModel, clip.TargetOpacity, 0, 1).LinearTo(step, 0).LinearTo(2*step, 1)
		return b.Build()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCalibration, kind)
}

// Calibrate plays a calibration clip at PriorityForce.
func (r *Rig) Calibrate(kind Calibration, step float64) (motion.Handle, error) {
	top := r.Topology()
	c, err := CalibrationClip(kind, top, step)
	if err != nil {
		return motion.InvalidHandle, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Motions.SetReservePriority(PriorityForce)
	mo := motion.NewCurveMotion(c)
	h := r.Motions.StartWithPriority(mo, true, PriorityForce)
	log.Info().Str("calibration", string(kind)).Float64("seconds", c.Duration()).Int64("handle", int64(h)).Msg("calibration started")
	return h, nil
}
