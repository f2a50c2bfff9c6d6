package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/motionrig/internal/model"
)

// Conductor drives a Rig in real time.
type Conductor struct {
	Rig  *Rig
	Rate physic.Frequency

	// OnFrame, when set, receives the model state after every update.
	OnFrame func(frame uint64, s model.Snapshot)
}

func NewConductor(r *Rig, rate physic.Frequency) *Conductor {
	return &Conductor{Rig: r, Rate: rate}
}

// Run ticks until ctx is done. A non-positive rate runs at 60Hz.
func (c *Conductor) Run(ctx context.Context) error {
	rate := c.Rate
	if rate <= 0 {
		rate = 60 * physic.Hertz
	}
	period := rate.Period()
	if period <= 0 {
		period = time.Second / 60
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	log.Info().Str("rate", rate.String()).Dur("period", period).Msg("conductor running")
	last := time.Now()
	var frame uint64
	for {
		select {
		case <-ctx.Done():
			log.Info().Uint64("frames", frame).Msg("conductor stopped")
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			c.Rig.Update(dt)
			frame++
			if c.OnFrame != nil {
				c.OnFrame(frame, c.Rig.Snapshot())
			}
		}
	}
}

// Simulate advances r by a fixed dt for steps frames without waiting,
// calling fn after each one.
func Simulate(r *Rig, dt float64, steps int, fn func(step int, clock float64, s model.Snapshot)) {
	clock := 0.0
	for i := 1; i <= steps; i++ {
		r.Update(dt)
		clock += dt
		if fn != nil {
			fn(i, clock, r.Snapshot())
		}
	}
}
