// Command autoreg-weekly runs one weekly target adjustment pass and exits.
// It is the manual counterpart of the in-process scheduler, useful for
// catch-up runs and for cron-less deployments.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/meltforce/autoreg/internal/config"
	"github.com/meltforce/autoreg/internal/storage"
	"github.com/meltforce/autoreg/internal/weekly"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	history := flag.Int("history", 0, "print the last N journaled runs and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	journal, err := weekly.OpenJournal(cfg.Scheduler.JournalDir)
	if err != nil {
		log.Error("failed to open run journal", "error", err)
		os.Exit(1)
	}
	defer journal.Close()

	if *history > 0 {
		runs, err := journal.Recent(*history)
		if err != nil {
			log.Error("failed to read run journal", "error", err)
			os.Exit(1)
		}
		for _, r := range runs {
			fmt.Printf("%s  trigger=%s cycles=%d failed=%d adjusted=%d skipped=%d\n",
				r.StartedAt.Format(time.RFC3339), r.Trigger,
				r.CyclesProcessed, r.CyclesFailed, r.TargetsAdjusted, r.TargetsSkipped)
		}
		return
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	job := weekly.New(db, journal, cfg.Scheduler.Workers, log)
	report, err := job.Run(ctx, time.Now(), "manual")
	if err != nil {
		log.Error("weekly run failed", "error", err)
		os.Exit(1)
	}

	log.Info("weekly run complete",
		"cycles_processed", report.CyclesProcessed,
		"cycles_failed", report.CyclesFailed,
		"targets_adjusted", report.TargetsAdjusted,
		"targets_skipped", report.TargetsSkipped,
	)
	for _, res := range report.Results {
		if res.Err != "" {
			log.Warn("cycle failed", "cycle_id", res.CycleID, "week", res.Week, "error", res.Err)
		}
	}
	if report.CyclesFailed > 0 {
		os.Exit(1)
	}
}
