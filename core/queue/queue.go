package queue

import (
	"context"
	"fmt"
	"time"

	"party-invites/core/config"
	"party-invites/core/logger"

	"github.com/hibiken/asynq"
)

const (
	TypeProcessReminders = "reminders:process"

	QueueReminders = "reminders"
)

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewProcessRemindersTask builds the task for one reminder run. The next cron
// tick is the retry, so the task itself never retries.
func NewProcessRemindersTask() *asynq.Task {
	return asynq.NewTask(TypeProcessReminders, nil,
		asynq.Queue(QueueReminders),
		asynq.MaxRetry(0),
		asynq.Timeout(15*time.Minute),
	)
}

type Enqueuer interface {
	EnqueueProcessReminders(ctx context.Context) (string, error)
}

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

func (c *Client) EnqueueProcessReminders(ctx context.Context) (string, error) {
	info, err := c.client.EnqueueContext(ctx, NewProcessRemindersTask())
	if err != nil {
		logger.Error("Queue:EnqueueProcessReminders:Error", "error", err)
		return "", fmt.Errorf("enqueue %s: %w", TypeProcessReminders, err)
	}
	logger.Info("Queue:EnqueueProcessReminders:Enqueued", "task_id", info.ID, "queue", info.Queue)
	return info.ID, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func NewServer(cfg config.RedisConfig, concurrency int) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 1
	}
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueReminders: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:Task:Failed", "type", task.Type(), "error", err)
		}),
	})
}

// NewScheduler registers the periodic reminder run on spec, evaluated in loc.
func NewScheduler(cfg config.RedisConfig, spec string, loc *time.Location) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOpt(cfg), &asynq.SchedulerOpts{Location: loc})
	entryID, err := scheduler.Register(spec, NewProcessRemindersTask())
	if err != nil {
		return nil, fmt.Errorf("register %s on %q: %w", TypeProcessReminders, spec, err)
	}
	logger.Info("Queue:Scheduler:Registered", "entry_id", entryID, "cron", spec)
	return scheduler, nil
}
