package controller

import (
	"party-invites/core/controller"
	"party-invites/core/errors"
	"party-invites/core/params"
	"party-invites/modules/notification/dto"
	"party-invites/modules/notification/entity"
	"party-invites/modules/notification/service"

	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	service *service.NotificationService
	controller.BaseController
}

func NewNotificationController(service *service.NotificationService) *NotificationController {
	return &NotificationController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GetMyNotifications lists the host's notifications, newest first.
// Accepts ?type=rsvp_received|reminders_sent and ?unread=true.
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	filter := entity.NotificationFilter{
		Type:       entity.NotificationType(ctx.QueryParam("type")),
		UnreadOnly: ctx.QueryParam("unread") == "true",
	}
	result, appErr := c.service.GetMyNotifications(ctx.Request().Context(), userID, filter, *params.NewQueryParams(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Notifications retrieved successfully")
}

func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.MarkAsReadRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if len(req.IDs) == 0 {
		return c.BadRequest(errors.ErrInvalidInput, "ids is required", []controller.ValidationError{
			controller.NewValidationError("ids", "at least one id is required"),
		})
	}

	if appErr := c.service.MarkAsRead(ctx.Request().Context(), userID, req.IDs); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Marked as read successfully")
}

func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	if appErr := c.service.MarkAllAsRead(ctx.Request().Context(), userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Marked all as read successfully")
}

func (c *NotificationController) CountUnread(ctx echo.Context) error {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	byType, appErr := c.service.UnreadByType(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	resp := dto.UnreadCountResponse{ByType: make(map[string]int, len(byType))}
	for t, n := range byType {
		resp.ByType[string(t)] = n
		resp.Count += n
	}
	return c.SuccessResponse(ctx, resp, "Unread count retrieved")
}
