package router

import (
	"party-invites/core/middleware"
	"party-invites/modules/party/controller"

	"github.com/labstack/echo/v4"
)

type PartyRouter struct {
	controller *controller.PartyController
}

func NewPartyRouter(controller *controller.PartyController) *PartyRouter {
	return &PartyRouter{controller: controller}
}

func (r *PartyRouter) Register(private *echo.Group, mw *middleware.Middleware) {
	children := private.Group("/children", mw.AuthMiddleware())
	children.POST("", r.controller.CreateChild)
	children.GET("", r.controller.ListChildren)

	parties := private.Group("/parties", mw.AuthMiddleware())
	parties.POST("", r.controller.CreateParty)
	parties.GET("", r.controller.ListParties)
	parties.GET("/:id", r.controller.GetParty)
	parties.PUT("/:id", r.controller.UpdateParty)
	parties.DELETE("/:id", r.controller.DeleteParty)
	parties.PUT("/:id/template", r.controller.SelectTemplate)
	parties.PUT("/:id/photo-sharing", r.controller.SetPhotoSharing)
	parties.GET("/:id/qr", r.controller.QRCode)
}
