package reminder

import (
	"party-invites/core/config"
	"party-invites/core/database"
	"party-invites/core/mailer"
	"party-invites/core/queue"
	"party-invites/modules/reminder/controller"
	"party-invites/modules/reminder/repository"
	"party-invites/modules/reminder/router"
	"party-invites/modules/reminder/service"

	"github.com/labstack/echo/v4"
)

// NewService wires the scheduler without HTTP routes, as the worker needs it.
func NewService(db database.IDatabase, m mailer.Mailer, notifier service.HostNotifier, cfg *config.Config) *service.ReminderService {
	loc := cfg.Location()
	repo := repository.NewReminderRepository(db)
	content := service.NewContentGenerator(loc, cfg.App.PublicURL)
	return service.NewReminderService(repo, m, content, loc, service.WithNotifier(notifier))
}

func Init(api *echo.Group, svc *service.ReminderService, enqueuer queue.Enqueuer, cfg *config.Config) {
	ctrl := controller.NewReminderController(svc, enqueuer)
	router.NewReminderRouter(ctrl).Register(api, cfg.Scheduler.TriggerSecret)
}
