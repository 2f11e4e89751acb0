package guest

import (
	"party-invites/core/config"
	"party-invites/core/database"
	"party-invites/core/middleware"
	"party-invites/modules/guest/controller"
	"party-invites/modules/guest/repository"
	"party-invites/modules/guest/router"
	"party-invites/modules/guest/service"

	"github.com/labstack/echo/v4"
)

func NewService(db database.IDatabase, parties service.PartyLookup, notifier service.RSVPNotifier) *service.GuestService {
	return service.NewGuestService(repository.NewGuestRepository(db), parties, notifier)
}

func Init(public *echo.Group, private *echo.Group, svc *service.GuestService, mw *middleware.Middleware, cfg *config.Config) {
	ctrl := controller.NewGuestController(svc)
	router.NewGuestRouter(ctrl).Register(public, private, mw, cfg.RateLimit.RSVPPerMinute)
}
