package controller

import (
	"net/http"

	"party-invites/core/controller"
	"party-invites/core/errors"
	"party-invites/core/params"
	"party-invites/modules/party/dto"
	"party-invites/modules/party/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PartyController struct {
	service *service.PartyService
	controller.BaseController
}

func NewPartyController(service *service.PartyService) *PartyController {
	return &PartyController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// owner resolves the caller and the :id path parameter.
func (c *PartyController) owner(ctx echo.Context) (uuid.UUID, uuid.UUID, error) {
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

func (c *PartyController) CreateChild(ctx echo.Context) error {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.CreateChildRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	child, appErr := c.service.CreateChild(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, child, "Child created successfully")
}

func (c *PartyController) ListChildren(ctx echo.Context) error {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	children, appErr := c.service.ListChildren(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, children, "Children retrieved successfully")
}

func (c *PartyController) CreateParty(ctx echo.Context) error {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.CreatePartyRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	party, appErr := c.service.CreateParty(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, party, "Party created successfully")
}

func (c *PartyController) ListParties(ctx echo.Context) error {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	parties, appErr := c.service.ListParties(ctx.Request().Context(), userID, *params.NewQueryParams(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, parties, "Parties retrieved successfully")
}

func (c *PartyController) GetParty(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}

	party, appErr := c.service.GetParty(ctx.Request().Context(), userID, partyID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, party, "Party retrieved successfully")
}

func (c *PartyController) UpdateParty(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}

	req := new(dto.UpdatePartyRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	party, appErr := c.service.UpdateParty(ctx.Request().Context(), userID, partyID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, party, "Party updated successfully")
}

func (c *PartyController) DeleteParty(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}

	if appErr := c.service.DeleteParty(ctx.Request().Context(), userID, partyID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Party deleted successfully")
}

func (c *PartyController) SelectTemplate(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}

	req := new(dto.SelectTemplateRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	party, appErr := c.service.SelectTemplate(ctx.Request().Context(), userID, partyID, req.TemplateID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, party, "Template selected successfully")
}

func (c *PartyController) SetPhotoSharing(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}

	req := new(dto.PhotoSharingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	party, appErr := c.service.SetPhotoSharing(ctx.Request().Context(), userID, partyID, req.Enabled)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, party, "Photo sharing updated successfully")
}

func (c *PartyController) QRCode(ctx echo.Context) error {
	userID, partyID, err := c.owner(ctx)
	if err != nil {
		return err
	}

	png, appErr := c.service.QRCode(ctx.Request().Context(), userID, partyID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}
