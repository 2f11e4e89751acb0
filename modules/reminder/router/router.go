package router

import (
	"party-invites/core/middleware"
	"party-invites/modules/reminder/controller"

	"github.com/labstack/echo/v4"
)

type ReminderRouter struct {
	controller *controller.ReminderController
}

func NewReminderRouter(controller *controller.ReminderController) *ReminderRouter {
	return &ReminderRouter{controller: controller}
}

func (r *ReminderRouter) Register(api *echo.Group, triggerSecret string) {
	group := api.Group("/cron", middleware.CronSecret(triggerSecret))
	group.GET("/reminders", r.controller.Trigger)
	group.POST("/reminders", r.controller.Trigger)
}
