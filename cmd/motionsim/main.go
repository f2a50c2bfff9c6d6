// Command motionsim plays motions and expressions on a rig offline and
// prints the parameter trajectories as tab separated columns.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/motionrig/internal/app"
	"github.com/coreman2200/motionrig/internal/config"
	"github.com/coreman2200/motionrig/internal/model"
	"github.com/coreman2200/motionrig/internal/motion"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml (default rig when empty)")
		motionName = flag.String("motion", "", "motion to play at force priority")
		exprName   = flag.String("expression", "", "expression to set")
		calibrate  = flag.String("calibrate", "", "calibration to run: parameter_sweep | part_sweep | opacity_fade")
		seconds    = flag.Float64("seconds", 3, "simulated seconds")
		ids        = flag.String("ids", "", "comma separated parameter ids to print (all when empty)")
		every      = flag.Int("every", 1, "print every n-th frame")
		noIdle     = flag.Bool("no-idle", false, "do not auto-play the idle motion")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	rate := 30 * physic.Hertz
	flag.Var(&rate, "rate", "simulation rate, e.g. 30Hz")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	motion.SetLogger(&log.Logger)

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
		cfg = c
	}
	if *noIdle {
		cfg.IdleMotion = ""
	}

	lib, err := app.DemoLibrary()
	if err != nil {
		log.Fatal().Err(err).Msg("demo library")
	}
	rig, err := app.NewRig(cfg, lib)
	if err != nil {
		log.Fatal().Err(err).Msg("rig")
	}
	rig.SetEventSink(func(e string) { fmt.Fprintf(os.Stderr, "# event %s\n", e) })

	if *calibrate != "" {
		if _, err := rig.Calibrate(app.Calibration(*calibrate), 1); err != nil {
			log.Fatal().Err(err).Msg("calibrate")
		}
	}
	if *motionName != "" {
		if _, err := rig.StartMotion(*motionName, app.PriorityForce); err != nil {
			log.Fatal().Err(err).Strs("motions", lib.Clips()).Msg("start motion")
		}
	}
	if *exprName != "" {
		if _, err := rig.SetExpression(*exprName); err != nil {
			log.Fatal().Err(err).Strs("expressions", lib.Expressions()).Msg("set expression")
		}
	}

	columns := rig.Model.IDs()
	if *ids != "" {
		columns = strings.Split(*ids, ",")
	}
	if *every < 1 {
		*every = 1
	}
	period := rate.Period()
	if period <= 0 {
		log.Fatal().Str("rate", rate.String()).Msg("rate must be positive")
	}
	dt := period.Seconds()
	steps := int(*seconds / dt)

	fmt.Printf("t\t%s\topacity\n", strings.Join(columns, "\t"))
	app.Simulate(rig, dt, steps, func(step int, clock float64, s model.Snapshot) {
		if step%*every != 0 {
			return
		}
		row := make([]string, 0, len(columns)+2)
		row = append(row, fmt.Sprintf("%.3f", clock))
		for _, id := range columns {
			row = append(row, fmt.Sprintf("%.4f", s.Parameters[id]))
		}
		row = append(row, fmt.Sprintf("%.3f", s.Opacity))
		fmt.Println(strings.Join(row, "\t"))
	})
	log.Info().Int("frames", steps).Interface("status", rig.Status()).Msg("simulation done")
}
