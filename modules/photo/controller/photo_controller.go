package controller

import (
	"party-invites/core/controller"
	"party-invites/core/errors"
	"party-invites/modules/photo/dto"
	"party-invites/modules/photo/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PhotoController struct {
	service *service.PhotoService
	controller.BaseController
}

func NewPhotoController(service *service.PhotoService) *PhotoController {
	return &PhotoController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *PhotoController) Upload(ctx echo.Context) error {
	header, err := ctx.FormFile("file")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "file is required")
	}
	file, err := header.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "failed to read file")
	}
	defer file.Close()

	photo, appErr := c.service.Upload(ctx.Request().Context(), ctx.Param("token"), &dto.UploadPhotoInput{
		UploaderName: ctx.FormValue("uploaderName"),
		Filename:     header.Filename,
		Size:         header.Size,
		Body:         file,
	})
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, photo, "Photo uploaded successfully")
}

func (c *PhotoController) ListForGuests(ctx echo.Context) error {
	photos, appErr := c.service.ListForGuests(ctx.Request().Context(), ctx.Param("token"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, photos, "Get photos successfully")
}

func (c *PhotoController) ListForHost(ctx echo.Context) error {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}
	partyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid party id")
	}

	photos, appErr := c.service.ListForHost(ctx.Request().Context(), userID, partyID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, photos, "Get photos successfully")
}
