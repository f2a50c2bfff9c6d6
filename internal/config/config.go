package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/motionrig/internal/effect"
	"github.com/coreman2200/motionrig/internal/model"
	"github.com/coreman2200/motionrig/internal/motion"
)

var ErrNoParameters = errors.New("config: no parameters declared")

type EyeBlink struct {
	effect.BlinkTiming `yaml:",inline"`
	Seed               int64 `yaml:"seed"`
}

type Preview struct {
	Addr string `yaml:"addr"` // e.g. :8080
}

type Config struct {
	FPS          int    `yaml:"fps"`
	LoopBehavior string `yaml:"loop_behavior"` // "seamless" | "restart"
	LoopFadeIn   bool   `yaml:"loop_fade_in"`
	IdleMotion   string `yaml:"idle_motion,omitempty"` // replayed whenever no motion is playing

	EyeBlinkIDs []string `yaml:"eye_blink_ids"`
	LipSyncIDs  []string `yaml:"lip_sync_ids"`

	Parameters []model.Parameter        `yaml:"parameters"`
	Parts      []string                 `yaml:"parts,omitempty"`
	Breath     []effect.BreathParameter `yaml:"breath,omitempty"`
	EyeBlink   EyeBlink                 `yaml:"eye_blink"`

	Preview Preview `yaml:"preview"`
}

// Default is a head-and-face rig with breath and blink enabled.
func Default() *Config {
	return &Config{
		FPS:          60,
		LoopBehavior: motion.LoopSeamless.String(),
		LoopFadeIn:   true,
		IdleMotion:   "idle",
		EyeBlinkIDs:  []string{"ParamEyeLOpen", "ParamEyeROpen"},
		LipSyncIDs:   []string{"ParamMouthOpenY"},
		Parameters: []model.Parameter{
			{ID: "ParamAngleX", Min: -30, Max: 30},
			{ID: "ParamAngleY", Min: -30, Max: 30},
			{ID: "ParamAngleZ", Min: -30, Max: 30},
			{ID: "ParamBodyAngleX", Min: -10, Max: 10},
			{ID: "ParamEyeLOpen", Min: 0, Max: 1, Default: 1},
			{ID: "ParamEyeROpen", Min: 0, Max: 1, Default: 1},
			{ID: "ParamEyeBallX", Min: -1, Max: 1},
			{ID: "ParamBrowLY", Min: -1, Max: 1},
			{ID: "ParamBrowRY", Min: -1, Max: 1},
			{ID: "ParamMouthForm", Min: -1, Max: 1},
			{ID: "ParamMouthOpenY", Min: 0, Max: 1},
			{ID: "ParamCheek", Min: 0, Max: 1},
			{ID: "ParamBreath", Min: 0, Max: 1},
			{ID: "ParamHairSpin", Min: 0, Max: 360, Repeat: true},
		},
		Parts: []string{"PartArmA", "PartArmB"},
		Breath: []effect.BreathParameter{
			{ID: "ParamAngleX", Offset: 0, Peak: 15, Cycle: 6.5345, Weight: 0.5},
			{ID: "ParamAngleY", Offset: 0, Peak: 8, Cycle: 3.5345, Weight: 0.5},
			{ID: "ParamAngleZ", Offset: 0, Peak: 10, Cycle: 5.5345, Weight: 0.5},
			{ID: "ParamBodyAngleX", Offset: 0, Peak: 4, Cycle: 15.5345, Weight: 0.5},
			{ID: "ParamBreath", Offset: 0.5, Peak: 0.5, Cycle: 3.2345, Weight: 1},
		},
		EyeBlink: EyeBlink{BlinkTiming: effect.DefaultBlinkTiming(), Seed: 1},
		Preview:  Preview{Addr: ":8080"},
	}
}

// Load reads path over Default, so keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(path, b, 0644)
}

// TickRate is FPS as a frequency.
func (c *Config) TickRate() physic.Frequency {
	return physic.Frequency(c.FPS) * physic.Hertz
}

// Behavior maps LoopBehavior to the motion setting. Empty means seamless.
func (c *Config) Behavior() (motion.LoopBehavior, error) {
	switch c.LoopBehavior {
	case "", motion.LoopSeamless.String():
		return motion.LoopSeamless, nil
	case motion.LoopRestart.String():
		return motion.LoopRestart, nil
	default:
		return motion.LoopSeamless, fmt.Errorf("config: unknown loop_behavior %q", c.LoopBehavior)
	}
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Parameters) == 0 {
		errs = append(errs, ErrNoParameters)
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("config: fps must be positive, got %d", c.FPS))
	}
	if _, err := c.Behavior(); err != nil {
		errs = append(errs, err)
	}
	if len(c.EyeBlinkIDs) > motion.MaxEffectTargets || len(c.LipSyncIDs) > motion.MaxEffectTargets {
		errs = append(errs, fmt.Errorf("config: at most %d eye blink and lip sync ids", motion.MaxEffectTargets))
	}
	for _, p := range c.Breath {
		if p.Cycle <= 0 {
			errs = append(errs, fmt.Errorf("config: breath %q: cycle must be positive", p.ID))
		}
	}
	if _, err := c.NewModel(); err != nil && len(c.Parameters) > 0 {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewModel builds an in-memory model from Parameters and Parts.
func (c *Config) NewModel() (*model.Model, error) {
	if len(c.Parameters) == 0 {
		return nil, ErrNoParameters
	}
	return model.New(c.Parameters, c.Parts)
}
