package controller

import (
	"party-invites/core/controller"
	"party-invites/core/errors"
	"party-invites/modules/guest/dto"
	"party-invites/modules/guest/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type GuestController struct {
	service *service.GuestService
	controller.BaseController
}

func NewGuestController(service *service.GuestService) *GuestController {
	return &GuestController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *GuestController) owner(ctx echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}
	partyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, c.BadRequest(errors.ErrInvalidInput, "invalid party id")
	}
	return userID, partyID, nil
}

func (c *GuestController) AddGuest(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}

	req := new(dto.AddGuestRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	guest, appErr := c.service.AddGuest(ctx.Request().Context(), userID, partyID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, guest, "Guest added successfully")
}

func (c *GuestController) ListGuests(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}

	guests, appErr := c.service.ListGuests(ctx.Request().Context(), userID, partyID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, guests, "Guests retrieved successfully")
}

func (c *GuestController) DeleteGuest(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}
	guestID, err := uuid.Parse(ctx.Param("guestId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid guest id")
	}

	if appErr := c.service.DeleteGuest(ctx.Request().Context(), userID, partyID, guestID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Guest removed successfully")
}

func (c *GuestController) ListRSVPs(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}

	rsvps, appErr := c.service.ListRSVPs(ctx.Request().Context(), userID, partyID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rsvps, "RSVPs retrieved successfully")
}

func (c *GuestController) GetInvitation(ctx echo.Context) error {
	invitation, appErr := c.service.GetInvitation(ctx.Request().Context(), ctx.Param("token"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, invitation, "Invitation retrieved successfully")
}

func (c *GuestController) SubmitRSVP(ctx echo.Context) error {
	req := new(dto.SubmitRSVPRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	rsvp, appErr := c.service.SubmitRSVP(ctx.Request().Context(), ctx.Param("token"), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rsvp, "RSVP saved successfully")
}
