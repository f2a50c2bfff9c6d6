package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/motionrig/internal/config"
	"github.com/coreman2200/motionrig/internal/effect"
	"github.com/coreman2200/motionrig/internal/model"
	"github.com/coreman2200/motionrig/internal/motion"
)

// Motion priorities.
const (
	PriorityNone = iota
	PriorityIdle
	PriorityNormal
	PriorityForce
)

var ErrMotionBusy = errors.New("app: a motion of equal or higher priority is playing")

// Rig ties a model to a motion manager, an expression manager and the
// procedural effects, and updates them in a fixed order each frame. Its
// methods are safe for concurrent use.
type Rig struct {
	mu sync.Mutex

	Model       *model.Model
	Motions     *motion.Manager
	Expressions *motion.ExpressionManager
	Blink       *effect.EyeBlink
	Breath      *effect.Breath
	Lib         *Library

	idle        string
	behavior    motion.LoopBehavior
	loopFadeIn  bool
	eyeBlinkIDs []string
	lipSyncIDs  []string

	clock  float64
	frames uint64
	sink   func(event string)
}

// NewRig builds a rig from cfg. The blink and breath effects are only
// created when cfg declares targets for them.
func NewRig(cfg *config.Config, lib *Library) (*Rig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	behavior, err := cfg.Behavior()
	if err != nil {
		return nil, err
	}
	m, err := cfg.NewModel()
	if err != nil {
		return nil, err
	}
	if lib == nil {
		lib = NewLibrary()
	}
	r := &Rig{
		Model:       m,
		Motions:     motion.NewManager(),
		Expressions: motion.NewExpressionManager(),
		Lib:         lib,
		idle:        cfg.IdleMotion,
		behavior:    behavior,
		loopFadeIn:  cfg.LoopFadeIn,
		eyeBlinkIDs: append([]string(nil), cfg.EyeBlinkIDs...),
		lipSyncIDs:  append([]string(nil), cfg.LipSyncIDs...),
	}
	if len(cfg.EyeBlinkIDs) > 0 {
		r.Blink = effect.NewEyeBlink(cfg.EyeBlinkIDs, cfg.EyeBlink.BlinkTiming, rand.New(rand.NewSource(cfg.EyeBlink.Seed)))
	}
	if len(cfg.Breath) > 0 {
		r.Breath = effect.NewBreath(cfg.Breath)
	}
	r.Motions.SetEventCallback(r.onEvent, nil)
	if r.idle != "" {
		if _, ok := lib.Clip(r.idle); !ok {
			return nil, fmt.Errorf("%w: idle motion %q", ErrUnknownMotion, r.idle)
		}
	}
	return r, nil
}

// SetEventSink receives clip events fired during Update. fn runs with the
// rig locked and must not call back into it.
func (r *Rig) SetEventSink(fn func(event string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = fn
}

func (r *Rig) onEvent(_ *motion.Queue, value string, _ any) {
	log.Debug().Str("event", value).Float64("clock", r.clock).Msg("motion event")
	if r.sink != nil {
		r.sink(value)
	}
}

// StartMotion plays the named clip at priority. PriorityForce always
// starts; other priorities must win a reservation first.
func (r *Rig) StartMotion(name string, priority int) (motion.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startMotion(name, priority)
}

func (r *Rig) startMotion(name string, priority int) (motion.Handle, error) {
	c, ok := r.Lib.Clip(name)
	if !ok {
		return motion.InvalidHandle, fmt.Errorf("%w: %q", ErrUnknownMotion, name)
	}
	if priority == PriorityForce {
		r.Motions.SetReservePriority(priority)
	} else if !r.Motions.Reserve(priority) {
		return motion.InvalidHandle, ErrMotionBusy
	}
	mo := motion.NewCurveMotion(c)
	mo.SetEffectIDs(r.eyeBlinkIDs, r.lipSyncIDs)
	mo.SetLoopBehavior(r.behavior)
	mo.SetLoopFadeIn(r.loopFadeIn)
	h := r.Motions.StartWithPriority(mo, true, priority)
	log.Info().Str("motion", name).Int("priority", priority).Int64("handle", int64(h)).Msg("motion started")
	return h, nil
}

// SetExpression crossfades to the named expression.
func (r *Rig) SetExpression(name string) (motion.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.Lib.Expression(name)
	if !ok {
		return motion.InvalidHandle, fmt.Errorf("%w: %q", ErrUnknownExpression, name)
	}
	log.Info().Str("expression", name).Msg("expression started")
	return r.Expressions.Start(x, true), nil
}

// StopAll stops every motion and expression.
func (r *Rig) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Motions.StopAll()
	r.Expressions.StopAll()
}

// Update advances the rig by dt seconds: restore the saved parameters, play
// motions, save, blink (only while no motion played), then expressions and
// breath on top.
func (r *Rig) Update(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clock += dt
	r.frames++
	r.Model.LoadParameters()

	if r.Motions.IsFinished() && r.idle != "" {
		if _, err := r.startMotion(r.idle, PriorityIdle); err != nil {
			log.Debug().Err(err).Str("motion", r.idle).Msg("idle not started")
		}
	}
	updated := r.Motions.Update(r.Model, dt)
	r.Model.SaveParameters()

	if !updated && r.Blink != nil {
		r.Blink.Update(r.Model, dt)
	}
	r.Expressions.Update(r.Model, dt)
	if r.Breath != nil {
		r.Breath.Update(r.Model, dt)
	}
}

// Snapshot copies the current model state.
func (r *Rig) Snapshot() model.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Model.Snapshot()
}

// Status summarizes the rig for health endpoints.
type Status struct {
	Clock       float64 `json:"clock"`
	Frames      uint64  `json:"frames"`
	Motions     int     `json:"motions"`
	Expressions int     `json:"expressions"`
	Priority    int     `json:"priority"`
}

func (r *Rig) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{
		Clock:       r.clock,
		Frames:      r.frames,
		Motions:     r.Motions.Len(),
		Expressions: r.Expressions.Len(),
		Priority:    r.Motions.CurrentPriority(),
	}
}

// Topology describes what a rig can play and drive.
type Topology struct {
	Parameters  []model.Parameter `json:"parameters"`
	Parts       []string          `json:"parts"`
	Motions     []string          `json:"motions"`
	Expressions []string          `json:"expressions"`
}

func (r *Rig) Topology() Topology {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := Topology{
		Parameters:  make([]model.Parameter, r.Model.ParameterCount()),
		Parts:       make([]string, r.Model.PartCount()),
		Motions:     r.Lib.Clips(),
		Expressions: r.Lib.Expressions(),
	}
	for i := range t.Parameters {
		t.Parameters[i] = r.Model.Parameter(i)
	}
	for i := range t.Parts {
		t.Parts[i] = r.Model.PartID(i)
	}
	return t
}
