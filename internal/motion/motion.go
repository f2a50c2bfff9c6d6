// Package motion plays animation clips and expressions into a Model.
//
// A Queue owns the entries it starts and advances them once per Update. New
// motions crossfade over older ones: starting a motion asks every queued
// entry to fade out. Manager adds playback priorities on top of a Queue and
// ExpressionManager blends expressions through per parameter accumulators.
package motion

import "github.com/coreman2200/motionrig/internal/curve"

// Motion is anything a Queue can play.
type Motion interface {
	// Settings returns the shared playback settings of the motion.
	Settings() *Base
	// Apply writes the motion's contribution at clock. fadeWeight is the
	// entry weight already computed for this tick.
	Apply(m Model, clock, fadeWeight float64, e *Entry)
	// Duration is the time until the motion ends, -1 when it never ends.
	Duration() float64
	// LoopDuration is the length of one loop.
	LoopDuration() float64
	// FiredEvents appends event values in (before, now], times relative to
	// the entry start.
	FiredEvents(before, now float64, dst []string) []string
}

// Releaser is implemented by motions that hold resources freed when an
// auto-delete entry is dropped.
type Releaser interface {
	Release()
}

// Callback receives the entry whose motion began or finished.
type Callback func(e *Entry)

// Base holds the settings common to every motion. Concrete motions embed it.
type Base struct {
	fadeIn     float64
	fadeOut    float64
	weight     float64
	offset     float64
	loop       bool
	loopFadeIn bool

	onBegan    Callback
	onFinished Callback
}

func newBase(fadeIn, fadeOut float64) *Base {
	return &Base{
		fadeIn:     fadeIn,
		fadeOut:    fadeOut,
		weight:     1,
		loopFadeIn: true,
	}
}

func (b *Base) Settings() *Base { return b }

func (b *Base) FadeIn() float64 { return b.fadeIn }

// SetFadeIn sets the fade in time in seconds. Zero or less disables the fade.
func (b *Base) SetFadeIn(s float64) { b.fadeIn = s }

func (b *Base) FadeOut() float64 { return b.fadeOut }

func (b *Base) SetFadeOut(s float64) { b.fadeOut = s }

func (b *Base) Weight() float64 { return b.weight }

// SetWeight sets the global weight, clamped to [0,1].
func (b *Base) SetWeight(w float64) { b.weight = curve.Clamp01(w) }

func (b *Base) Offset() float64 { return b.offset }

// SetOffset starts playback offset seconds into the motion.
func (b *Base) SetOffset(s float64) { b.offset = s }

func (b *Base) Loop() bool { return b.loop }

func (b *Base) SetLoop(v bool) { b.loop = v }

func (b *Base) LoopFadeIn() bool { return b.loopFadeIn }

// SetLoopFadeIn controls whether every loop fades in again.
func (b *Base) SetLoopFadeIn(v bool) { b.loopFadeIn = v }

func (b *Base) OnBegan(fn Callback) { b.onBegan = fn }

func (b *Base) OnFinished(fn Callback) { b.onFinished = fn }

func (b *Base) began(e *Entry) {
	if b.onBegan != nil {
		b.onBegan(e)
	}
}

func (b *Base) finished(e *Entry) {
	if b.onFinished != nil {
		b.onFinished(e)
	}
}

// fadeWeight is weight * ease(fade in) * ease(fade out) at clock.
func (b *Base) fadeWeight(e *Entry, clock float64) float64 {
	in := curve.FadeProgress(clock-e.fadeInStart, b.fadeIn)
	out := 1.0
	if b.fadeOut > 0 && e.endTime >= 0 {
		out = curve.SineEase((e.endTime - clock) / b.fadeOut)
	}
	return curve.Clamp01(b.weight * in * out)
}

// adjustEndTime derives the end time from the motion duration.
func adjustEndTime(m Motion, e *Entry) {
	d := m.Duration()
	if d <= 0 {
		e.endTime = -1
		return
	}
	e.endTime = e.startTime + d
}

// setup starts e on its first available update.
func setup(e *Entry, clock float64) {
	if e.started || !e.available {
		return
	}
	b := e.motion.Settings()
	e.started = true
	e.startTime = clock - b.offset
	e.fadeInStart = clock
	if e.endTime < 0 {
		adjustEndTime(e.motion, e)
	}
	b.began(e)
}

// updateParameters runs one tick of the playback protocol for e.
func updateParameters(m Model, e *Entry, clock float64) {
	if !e.available || e.finished {
		return
	}
	setup(e, clock)
	if e.motion == nil {
		return
	}
	w := e.motion.Settings().fadeWeight(e, clock)
	e.setState(clock, w)
	e.motion.Apply(m, clock, w, e)
	if e.endTime >= 0 && clock > e.endTime {
		e.finished = true
	}
}
