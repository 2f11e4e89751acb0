// Command worker runs queued reminder passes and, with scheduler.mode=external,
// the periodic enqueue of those passes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"party-invites/core/config"
	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/core/mailer"
	"party-invites/core/queue"
	"party-invites/modules/notification"
	"party-invites/modules/reminder"
	"party-invites/modules/reminder/job"

	"github.com/hibiken/asynq"
)

func main() {
	if err := run(); err != nil {
		logger.Error("run worker error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Init(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		Env:        cfg.App.Env,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(context.Background(), db); err != nil {
		return err
	}

	reminders := reminder.NewService(db, mailer.New(cfg.SMTP), notification.NewService(db), cfg)

	mux := asynq.NewServeMux()
	job.Register(mux, reminders)
	srv := queue.NewServer(cfg.Redis, cfg.Scheduler.Concurrency)
	if err := srv.Start(mux); err != nil {
		return err
	}
	defer srv.Shutdown()

	// cron mode runs passes inside the HTTP server, so only enqueue otherwise
	if cfg.Scheduler.Mode != "cron" {
		scheduler, err := queue.NewScheduler(cfg.Redis, cfg.Scheduler.Cron, cfg.Location())
		if err != nil {
			return err
		}
		if err := scheduler.Start(); err != nil {
			return err
		}
		defer scheduler.Shutdown()
	}

	logger.Info("Worker:Started", "concurrency", cfg.Scheduler.Concurrency, "mode", cfg.Scheduler.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Worker:Stopping")
	return nil
}
