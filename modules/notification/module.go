package notification

import (
	"party-invites/core/database"
	"party-invites/core/middleware"
	"party-invites/modules/notification/controller"
	"party-invites/modules/notification/repository"
	"party-invites/modules/notification/router"
	"party-invites/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func NewService(db database.IDatabase) *service.NotificationService {
	return service.NewNotificationService(repository.NewNotificationRepository(db))
}

func Init(private *echo.Group, svc *service.NotificationService, mw *middleware.Middleware) {
	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Register(private, mw)
}
