package router

import (
	"time"

	"party-invites/core/middleware"
	"party-invites/modules/guest/controller"

	"github.com/labstack/echo/v4"
)

type GuestRouter struct {
	controller *controller.GuestController
}

func NewGuestRouter(controller *controller.GuestController) *GuestRouter {
	return &GuestRouter{controller: controller}
}

func (r *GuestRouter) Register(public *echo.Group, private *echo.Group, mw *middleware.Middleware, rsvpPerMinute int) {
	parties := private.Group("/parties/:id", mw.AuthMiddleware())
	parties.POST("/guests", r.controller.AddGuest)
	parties.GET("/guests", r.controller.ListGuests)
	parties.DELETE("/guests/:guestId", r.controller.DeleteGuest)
	parties.GET("/rsvps", r.controller.ListRSVPs)

	invitations := public.Group("/invitations/:token", mw.RateLimit(rsvpPerMinute, time.Minute))
	invitations.GET("", r.controller.GetInvitation)
	invitations.POST("/rsvp", r.controller.SubmitRSVP)
}
