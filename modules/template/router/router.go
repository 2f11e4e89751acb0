package router

import (
	"party-invites/modules/template/controller"

	"github.com/labstack/echo/v4"
)

type TemplateRouter struct {
	controller *controller.TemplateController
}

func NewTemplateRouter(controller *controller.TemplateController) *TemplateRouter {
	return &TemplateRouter{controller: controller}
}

func (r *TemplateRouter) Register(public *echo.Group) {
	public.GET("/templates", r.controller.List)
}
