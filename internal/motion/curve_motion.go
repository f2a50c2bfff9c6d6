package motion

import (
	"math"

	"github.com/coreman2200/motionrig/internal/clip"
	"github.com/coreman2200/motionrig/internal/curve"
)

// LoopBehavior selects how a looping CurveMotion wraps.
type LoopBehavior uint8

const (
	// LoopSeamless extends each loop by one authored frame, bends the tail of
	// every curve back to its first value, re-bases the loop to loop relative
	// time and fires OnFinished at every wrap.
	LoopSeamless LoopBehavior = iota
	// LoopRestart restarts each loop at the current clock and does not fire
	// OnFinished while looping.
	LoopRestart
)

func (b LoopBehavior) String() string {
	if b == LoopRestart {
		return "restart"
	}
	return "seamless"
}

// CurveMotion plays a clip.Clip.
type CurveMotion struct {
	*Base

	clip     *clip.Clip
	behavior LoopBehavior
	prevLoop bool

	eyeBlinkIDs []string
	lipSyncIDs  []string

	// per curve fade overrides, -1 when unset
	curveFadeIn  []float64
	curveFadeOut []float64

	modelOpacity float64
	lastWeight   float64
}

// NewCurveMotion binds c. Fades and the loop flag start from the clip.
func NewCurveMotion(c *clip.Clip) *CurveMotion {
	m := &CurveMotion{
		Base:         newBase(c.FadeIn(), c.FadeOut()),
		clip:         c,
		curveFadeIn:  make([]float64, c.CurveCount()),
		curveFadeOut: make([]float64, c.CurveCount()),
		modelOpacity: 1,
	}
	m.loop = c.Loop()
	m.prevLoop = m.loop
	for i := 0; i < c.CurveCount(); i++ {
		cv := c.Curve(i)
		m.curveFadeIn[i] = cv.FadeIn
		m.curveFadeOut[i] = cv.FadeOut
	}
	return m
}

func (m *CurveMotion) Clip() *clip.Clip { return m.clip }

func (m *CurveMotion) LoopBehavior() LoopBehavior { return m.behavior }

func (m *CurveMotion) SetLoopBehavior(b LoopBehavior) { m.behavior = b }

// SetEffectIDs declares the parameters driven by the clip's EyeBlink and
// LipSync model curves. Lists longer than MaxEffectTargets are truncated.
func (m *CurveMotion) SetEffectIDs(eyeBlink, lipSync []string) {
	m.eyeBlinkIDs = capTargets("eye_blink", eyeBlink)
	m.lipSyncIDs = capTargets("lip_sync", lipSync)
}

func capTargets(kind string, ids []string) []string {
	if len(ids) > MaxEffectTargets {
		Logger().Warn().
			Str("effect", kind).
			Int("count", len(ids)).
			Int("max", MaxEffectTargets).
			Msg("too many effect targets; extra ids ignored")
		ids = ids[:MaxEffectTargets]
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func (m *CurveMotion) parameterCurve(id string) int {
	return m.clip.FindCurve(clip.TargetParameter, id)
}

// ParameterFadeIn returns the fade in override for the parameter curve id,
// or -1 when unset or when there is no such curve.
func (m *CurveMotion) ParameterFadeIn(id string) float64 {
	if i := m.parameterCurve(id); i >= 0 {
		return m.curveFadeIn[i]
	}
	return -1
}

func (m *CurveMotion) SetParameterFadeIn(id string, s float64) {
	if i := m.parameterCurve(id); i >= 0 {
		m.curveFadeIn[i] = s
	}
}

func (m *CurveMotion) ParameterFadeOut(id string) float64 {
	if i := m.parameterCurve(id); i >= 0 {
		return m.curveFadeOut[i]
	}
	return -1
}

func (m *CurveMotion) SetParameterFadeOut(id string, s float64) {
	if i := m.parameterCurve(id); i >= 0 {
		m.curveFadeOut[i] = s
	}
}

// HasModelOpacity reports whether the clip drives the model opacity.
func (m *CurveMotion) HasModelOpacity() bool {
	return m.clip.FindCurve(clip.TargetModel, clip.TargetOpacity) >= 0
}

// ModelOpacity is the last value of the clip's Opacity model curve.
func (m *CurveMotion) ModelOpacity() float64 { return m.modelOpacity }

// LastWeight is the fade weight used on the last Apply.
func (m *CurveMotion) LastWeight() float64 { return m.lastWeight }

func (m *CurveMotion) Duration() float64 {
	if m.loop {
		return -1
	}
	return m.clip.Duration()
}

func (m *CurveMotion) LoopDuration() float64 { return m.clip.Duration() }

func (m *CurveMotion) FiredEvents(before, now float64, dst []string) []string {
	return m.clip.FiredEvents(before, now, dst)
}

// loopLength is the wrap length at the current settings.
func (m *CurveMotion) loopLength() float64 {
	d := m.clip.Duration()
	if m.loop && m.behavior == LoopSeamless && d > 0 && m.clip.FPS() > 0 {
		d += 1 / m.clip.FPS()
	}
	return d
}

func (m *CurveMotion) Apply(model Model, clock, fadeWeight float64, e *Entry) {
	if m.behavior == LoopSeamless && m.prevLoop != m.loop {
		adjustEndTime(m, e)
		m.prevLoop = m.loop
	}

	offset := clock - e.startTime
	if offset < 0 {
		offset = 0
	}
	fadeIn := curve.FadeProgress(clock-e.fadeInStart, m.fadeIn)
	fadeOut := 1.0
	if m.fadeOut > 0 && e.endTime >= 0 {
		fadeOut = curve.SineEase((e.endTime - clock) / m.fadeOut)
	}

	t := offset
	dur := m.loopLength()
	correct := m.loop && m.behavior == LoopSeamless
	if m.loop && dur > 0 && t > dur {
		t = math.Mod(t, dur)
		if t == 0 {
			t = dur
		}
	}

	n := m.clip.CurveCount()
	c := 0

	var eyeBlink, lipSync float64
	var hasEyeBlink, hasLipSync bool
	for ; c < n; c++ {
		cv := m.clip.Curve(c)
		if cv.Target != clip.TargetModel {
			break
		}
		v := m.clip.Evaluate(c, t, correct, dur)
		switch cv.ID {
		case clip.TargetEyeBlink:
			eyeBlink, hasEyeBlink = v, true
		case clip.TargetLipSync:
			lipSync, hasLipSync = v, true
		case clip.TargetOpacity:
			m.modelOpacity = v
			model.SetModelOpacity(v)
		}
	}

	var blinkClaimed, lipClaimed bitset
	for ; c < n; c++ {
		cv := m.clip.Curve(c)
		if cv.Target != clip.TargetParameter {
			break
		}
		idx := model.ParameterIndex(cv.ID)
		if idx < 0 {
			continue
		}
		src := model.ParameterValueByIndex(idx)
		v := m.clip.Evaluate(c, t, correct, dur)

		if hasEyeBlink {
			if i := indexOf(m.eyeBlinkIDs, cv.ID); i >= 0 {
				v *= eyeBlink
				blinkClaimed.set(i)
			}
		}
		if hasLipSync {
			if i := indexOf(m.lipSyncIDs, cv.ID); i >= 0 {
				v += lipSync
				lipClaimed.set(i)
			}
		}
		if model.IsRepeat(idx) {
			v = model.ParameterRepeatValue(idx, v)
		} else {
			v = model.ParameterClampValue(idx, v)
		}

		w := fadeWeight
		fin, fout := m.curveFadeIn[c], m.curveFadeOut[c]
		if fin >= 0 || fout >= 0 {
			in := fadeIn
			if fin >= 0 {
				in = curve.FadeProgress(clock-e.fadeInStart, fin)
			}
			out := fadeOut
			if fout == 0 || (fout > 0 && e.endTime < 0) {
				out = 1
			} else if fout > 0 {
				out = curve.SineEase((e.endTime - clock) / fout)
			}
			w = m.weight * in * out
		}
		model.SetParameterValueByIndex(idx, src+(v-src)*w, 1)
	}

	if hasEyeBlink {
		blendUnclaimed(model, m.eyeBlinkIDs, blinkClaimed, eyeBlink, fadeWeight)
	}
	if hasLipSync {
		blendUnclaimed(model, m.lipSyncIDs, lipClaimed, lipSync, fadeWeight)
	}

	for ; c < n; c++ {
		cv := m.clip.Curve(c)
		if cv.Target != clip.TargetPartOpacity {
			break
		}
		idx := model.PartIndex(cv.ID)
		if idx < 0 {
			continue
		}
		model.SetPartOpacityByIndex(idx, m.clip.Evaluate(c, t, correct, dur))
	}

	if dur > 0 && offset >= dur {
		if m.loop {
			m.nextLoop(e, clock, t, dur)
		} else {
			m.finished(e)
			e.finished = true
		}
	}
	m.lastWeight = fadeWeight
}

// nextLoop re-bases e for the following loop.
func (m *CurveMotion) nextLoop(e *Entry, clock, t, dur float64) {
	switch m.behavior {
	case LoopRestart:
		e.startTime = clock
		if m.loopFadeIn {
			e.fadeInStart = clock
		}
	default:
		if t >= dur {
			t -= dur
		}
		e.startTime = clock - t
		if m.loopFadeIn {
			e.fadeInStart = clock - t
		}
		m.finished(e)
	}
}

func blendUnclaimed(model Model, ids []string, claimed bitset, value, weight float64) {
	for i, id := range ids {
		if claimed.has(i) {
			continue
		}
		src := model.ParameterValueByID(id)
		model.SetParameterValueByID(id, src+(value-src)*weight, 1)
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
