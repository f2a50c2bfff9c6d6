// Command motionrig runs a rig in real time and serves the live preview.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/motionrig/internal/app"
	"github.com/coreman2200/motionrig/internal/config"
	"github.com/coreman2200/motionrig/internal/motion"
	"github.com/coreman2200/motionrig/internal/preview"
)

func main() {
	// ---- Flags (config.yaml overrides where set) ----
	var (
		addr       = flag.String("addr", "", "HTTP listen address (config preview.addr, else :8080)")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		writeCfg   = flag.Bool("write-config", false, "write the effective config to -config and exit")
		loop       = flag.String("loop", "", "loop behavior: seamless | restart")
		idle       = flag.String("idle", "", "idle motion name")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	var rate physic.Frequency
	flag.Var(&rate, "rate", "update rate, e.g. 60Hz (config fps when unset)")
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	motion.SetLogger(&log.Logger)

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	if *loop != "" {
		cfg.LoopBehavior = *loop
	}
	if *idle != "" {
		cfg.IdleMotion = *idle
	}
	if *addr != "" {
		cfg.Preview.Addr = *addr
	}
	if cfg.Preview.Addr == "" {
		cfg.Preview.Addr = ":8080"
	}
	if rate <= 0 {
		rate = cfg.TickRate()
	}
	if *writeCfg {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config save failed")
		}
		log.Info().Str("path", *configPath).Msg("config written")
		return
	}

	// ---- Rig ----
	lib, err := app.DemoLibrary()
	if err != nil {
		log.Fatal().Err(err).Msg("demo library")
	}
	if found := lib.Check(); len(found) > 0 {
		log.Warn().Str("findings", found.String()).Msg("clip check")
	}
	rig, err := app.NewRig(cfg, lib)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid rig config")
	}

	state := preview.NewState(rig)
	rig.SetEventSink(state.PushEvent)
	cond := app.NewConductor(rig, rate)
	cond.OnFrame = state.PublishFrame

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	state.Routes(mux)
	srv := &http.Server{
		Addr:         cfg.Preview.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run conductor & server ----
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = cond.Run(ctx)
	}()
	go func() {
		log.Info().Str("addr", cfg.Preview.Addr).Str("rate", rate.String()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	cancel()
	<-done
	shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
