package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/aminejml/permigo/internal/bootstrap"
	"github.com/aminejml/permigo/internal/pkg/logger"
)

// The sweep worker closes paid windows that lapsed and warns students
// whose window is about to lapse. It runs on cron schedules from the
// config, or once with -once for ad hoc runs and container jobs.
func main() {
	once := flag.Bool("once", false, "run both sweeps once and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, using environment variables")
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to setup database")
		os.Exit(1)
	}
	defer database.Close()

	deps, err := bootstrap.BuildDependencies(cfg, database, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to setup dependencies")
		os.Exit(1)
	}
	sweep := deps.SweepService

	runExpiry := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		expired, err := sweep.ExpireLapsed(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Subscription expiry sweep failed")
			return
		}
		lgr.Info().Int("expired", expired).Msg("Subscription expiry sweep finished")
	}

	runWarning := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		warned, err := sweep.WarnExpiring(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Expiry warning sweep failed")
			return
		}
		lgr.Info().Int("warned", warned).Msg("Expiry warning sweep finished")
	}

	if *once {
		runExpiry()
		runWarning()
		return
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Sweep.Schedule, runExpiry); err != nil {
		lgr.Error().Err(err).Str("schedule", cfg.Sweep.Schedule).Msg("Invalid expiry sweep schedule")
		os.Exit(1)
	}
	if _, err := scheduler.AddFunc(cfg.Sweep.WarningSchedule, runWarning); err != nil {
		lgr.Error().Err(err).Str("schedule", cfg.Sweep.WarningSchedule).Msg("Invalid warning sweep schedule")
		os.Exit(1)
	}

	scheduler.Start()
	lgr.Info().
		Str("expirySchedule", cfg.Sweep.Schedule).
		Str("warningSchedule", cfg.Sweep.WarningSchedule).
		Msg("Sweep worker started")

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-osSignals
	lgr.Info().Str("signal", sig.String()).Msg("Received OS signal, stopping sweep worker...")

	// Let an in-flight sweep finish before exiting
	<-scheduler.Stop().Done()
	lgr.Info().Msg("Sweep worker stopped.")
}
