package controller

import (
	"net/http"
	"strconv"

	"party-invites/core/controller"
	"party-invites/core/errors"
	"party-invites/core/queue"
	"party-invites/modules/reminder/dto"
	"party-invites/modules/reminder/service"

	"github.com/labstack/echo/v4"
)

type ReminderController struct {
	service  service.ReminderServiceInterface
	enqueuer queue.Enqueuer
	controller.BaseController
}

// NewReminderController builds the trigger handler. A nil enqueuer disables ?async=true.
func NewReminderController(service service.ReminderServiceInterface, enqueuer queue.Enqueuer) *ReminderController {
	return &ReminderController{
		service:        service,
		enqueuer:       enqueuer,
		BaseController: controller.NewBaseController(),
	}
}

// Trigger runs one reminder pass, or queues it when async=true.
func (c *ReminderController) Trigger(ctx echo.Context) error {
	async, _ := strconv.ParseBool(ctx.QueryParam("async"))
	if async {
		if c.enqueuer == nil {
			return c.BadRequest(errors.ErrInvalidRequestData, "async processing is not configured")
		}
		taskID, err := c.enqueuer.EnqueueProcessReminders(ctx.Request().Context())
		if err != nil {
			return c.InternalServerError(errors.ErrInternalServer, "failed to enqueue reminder run", err)
		}
		return ctx.JSON(http.StatusAccepted, controller.NewSuccessResponse(http.StatusAccepted,
			dto.TriggerResponse{Queued: true, TaskID: taskID}, "Reminder run queued"))
	}

	summary, appErr := c.service.ProcessReminders(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.TriggerResponse{Summary: summary}, "Reminders processed")
}
