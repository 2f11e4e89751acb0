package party

import (
	"party-invites/core/config"
	"party-invites/core/database"
	"party-invites/core/middleware"
	"party-invites/modules/party/controller"
	"party-invites/modules/party/repository"
	"party-invites/modules/party/router"
	"party-invites/modules/party/service"

	"github.com/labstack/echo/v4"
)

func NewService(db database.IDatabase, scheduler service.ReminderScheduler, templates service.TemplateProvider, cfg *config.Config) *service.PartyService {
	return service.NewPartyService(repository.NewPartyRepository(db), scheduler, templates, service.Options{
		PublicURL:           cfg.App.PublicURL,
		PhotoSharingPremium: cfg.Payment.PhotoSharingPremium,
	})
}

func Init(private *echo.Group, svc *service.PartyService, mw *middleware.Middleware) {
	router.NewPartyRouter(controller.NewPartyController(svc)).Register(private, mw)
}
