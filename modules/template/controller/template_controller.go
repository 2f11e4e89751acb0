package controller

import (
	"party-invites/core/controller"
	"party-invites/modules/template/service"

	"github.com/labstack/echo/v4"
)

type TemplateController struct {
	service *service.TemplateService
	controller.BaseController
}

func NewTemplateController(service *service.TemplateService) *TemplateController {
	return &TemplateController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *TemplateController) List(ctx echo.Context) error {
	return c.SuccessResponse(ctx, c.service.List(), "Templates retrieved successfully")
}
