package job

import (
	"context"
	"fmt"
	"time"

	"party-invites/core/logger"
	"party-invites/core/queue"
	"party-invites/modules/reminder/service"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

// Run executes one reminder pass and flattens the result into an error.
func Run(ctx context.Context, svc service.ReminderServiceInterface) error {
	summary, appErr := svc.ProcessReminders(ctx)
	if appErr != nil {
		return appErr
	}
	if len(summary.Errors) > 0 {
		logger.Warn("ReminderJob:Run:PartyErrors", "count", len(summary.Errors))
	}
	return nil
}

// Register mounts the reminder task on an asynq mux.
func Register(mux *asynq.ServeMux, svc service.ReminderServiceInterface) {
	mux.HandleFunc(queue.TypeProcessReminders, func(ctx context.Context, _ *asynq.Task) error {
		if err := Run(ctx, svc); err != nil {
			return fmt.Errorf("%s: %w", queue.TypeProcessReminders, err)
		}
		return nil
	})
}

// NewCron schedules in-process reminder passes on spec. SkipIfStillRunning
// keeps one pass at a time inside this process.
func NewCron(spec string, loc *time.Location, svc service.ReminderServiceInterface) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(spec, func() {
		if err := Run(context.Background(), svc); err != nil {
			logger.Error("ReminderJob:Cron:Error", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule reminders on %q: %w", spec, err)
	}
	return c, nil
}
