package router

import (
	"time"

	"party-invites/core/middleware"
	"party-invites/modules/photo/controller"

	"github.com/labstack/echo/v4"
)

type PhotoRouter struct {
	controller *controller.PhotoController
}

func NewPhotoRouter(controller *controller.PhotoController) *PhotoRouter {
	return &PhotoRouter{controller: controller}
}

func (r *PhotoRouter) Register(public *echo.Group, private *echo.Group, mw *middleware.Middleware, uploadsPerMinute int) {
	guests := public.Group("/invitations/:token/photos", mw.RateLimit(uploadsPerMinute, time.Minute))
	guests.GET("", r.controller.ListForGuests)
	guests.POST("", r.controller.Upload)

	private.GET("/parties/:id/photos", r.controller.ListForHost, mw.AuthMiddleware())
}
