package app

import (
	"github.com/coreman2200/motionrig/internal/clip"
	"github.com/coreman2200/motionrig/internal/curve"
	"github.com/coreman2200/motionrig/internal/motion"
)

func pt(t, v float64) curve.Point { return curve.Point{Time: t, Value: v} }

// DemoLibrary builds the clips and expressions for the default rig.
func DemoLibrary() (*Library, error) {
	lib := NewLibrary()
	for _, build := range []func() (*clip.Clip, error){demoIdle, demoNod, demoWave, demoTalk, demoVanish} {
		c, err := build()
		if err != nil {
			return nil, err
		}
		lib.AddClip(c)
	}

	lib.AddExpression("smile", 0.5, 0.5, []motion.ExpressionParameter{
		{ID: "ParamMouthForm", Blend: motion.BlendOverwrite, Value: 1},
		{ID: "ParamEyeLOpen", Blend: motion.BlendMultiply, Value: 0.8},
		{ID: "ParamEyeROpen", Blend: motion.BlendMultiply, Value: 0.8},
		{ID: "ParamCheek", Blend: motion.BlendAdditive, Value: 0.5},
	})
	lib.AddExpression("angry", 0.3, 0.5, []motion.ExpressionParameter{
		{ID: "ParamBrowLY", Blend: motion.BlendAdditive, Value: -0.8},
		{ID: "ParamBrowRY", Blend: motion.BlendAdditive, Value: -0.8},
		{ID: "ParamMouthForm", Blend: motion.BlendOverwrite, Value: -1},
	})
	lib.AddExpression("surprised", 0.2, 0.8, []motion.ExpressionParameter{
		{ID: "ParamEyeLOpen", Blend: motion.BlendMultiply, Value: 1.3},
		{ID: "ParamEyeROpen", Blend: motion.BlendMultiply, Value: 1.3},
		{ID: "ParamMouthOpenY", Blend: motion.BlendAdditive, Value: 0.6},
		{ID: "ParamBrowLY", Blend: motion.BlendAdditive, Value: 0.6},
		{ID: "ParamBrowRY", Blend: motion.BlendAdditive, Value: 0.6},
	})
	return lib, nil
}

func demoIdle() (*clip.Clip, error) {
	b := clip.NewBuilder("idle", 4, 30).Loop(true).FadeIn(0.5).FadeOut(0.5)
	b.Curve(clip.TargetParameter, "ParamAngleX", 0, 0).
		BezierTo(pt(0.67, 0), pt(1.33, 8), pt(2, 8)).
		BezierTo(pt(2.67, 8), pt(3.33, 0), pt(4, 0))
	b.Curve(clip.TargetParameter, "ParamBodyAngleX", 0, -2).LinearTo(2, 2).LinearTo(4, -2)
	b.Curve(clip.TargetParameter, "ParamEyeBallX", 0, 0).StepTo(1.5, 0.4).StepTo(3, -0.4).LinearTo(4, 0)
	b.Curve(clip.TargetParameter, "ParamHairSpin", 0, 0).LinearTo(4, 360)
	return b.Build()
}

func demoNod() (*clip.Clip, error) {
	b := clip.NewBuilder("nod", 1.5, 30).FadeIn(0.2).FadeOut(0.3).Bezier(curve.BezierBisect)
	b.Curve(clip.TargetParameter, "ParamAngleY", 0, 0).
		BezierTo(pt(0.2, -5), pt(0.4, -20), pt(0.75, -20)).
		BezierTo(pt(1, -20), pt(1.2, 0), pt(1.5, 0))
	b.Curve(clip.TargetParameter, "ParamBrowLY", 0, 0).LinearTo(0.75, 0.3).LinearTo(1.5, 0)
	b.Curve(clip.TargetParameter, "ParamBrowRY", 0, 0).LinearTo(0.75, 0.3).LinearTo(1.5, 0)
	b.Event(0.75, "nod")
	return b.Build()
}

func demoWave() (*clip.Clip, error) {
	b := clip.NewBuilder("wave", 2, 30).FadeIn(0.3).FadeOut(0.3).Bezier(curve.BezierSubdivide)
	b.Curve(clip.TargetParameter, "ParamAngleZ", 0, 0).
		BezierTo(pt(1.0/3, 10), pt(2.0/3, 10), pt(1, 10)).
		BezierTo(pt(4.0/3, 10), pt(5.0/3, 0), pt(2, 0))
	b.Curve(clip.TargetPartOpacity, "PartArmA", 0, 1).StepTo(0.2, 0).StepTo(1.8, 1).StepTo(2, 1)
	b.Curve(clip.TargetPartOpacity, "PartArmB", 0, 0).InverseStepTo(0.2, 1).StepTo(1.8, 1).InverseStepTo(2, 0)
	b.Event(0.2, "wave_start").Event(1.8, "wave_end")
	return b.Build()
}

func demoTalk() (*clip.Clip, error) {
	b := clip.NewBuilder("talk", 2, 30).Loop(true).FadeIn(0.25).FadeOut(0.25)
	b.Curve(clip.TargetModel, clip.TargetLipSync, 0, 0).
		LinearTo(0.25, 0.8).LinearTo(0.5, 0.1).LinearTo(0.9, 0.7).LinearTo(1.3, 0.2).LinearTo(2, 0)
	b.Curve(clip.TargetModel, clip.TargetEyeBlink, 0, 1).LinearTo(1, 1).LinearTo(1.1, 0).LinearTo(1.2, 1).LinearTo(2, 1)
	b.Curve(clip.TargetParameter, "ParamEyeLOpen", 0, 1).LinearTo(2, 1).FadeIn(0)
	b.Curve(clip.TargetParameter, "ParamMouthOpenY", 0, 0).LinearTo(2, 0)
	b.Curve(clip.TargetParameter, "ParamMouthForm", 0, 0.3).LinearTo(2, 0.3)
	b.Event(0, "talk_loop")
	return b.Build()
}

func demoVanish() (*clip.Clip, error) {
	b := clip.NewBuilder("vanish", 1, 30).FadeIn(0).FadeOut(0)
	b.Curve(clip.TargetModel, clip.TargetOpacity, 0, 1).LinearTo(1, 0)
	return b.Build()
}
