package router

import (
	"party-invites/core/middleware"
	"party-invites/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{controller: controller}
}

func (r *AuthRouter) Setup(api *echo.Group, private *echo.Group, mw *middleware.Middleware) {
	auth := api.Group("/auth")
	auth.POST("/register", r.controller.Register)
	auth.POST("/login", r.controller.Login)
	auth.POST("/refresh", r.controller.RefreshToken)
	auth.POST("/logout", r.controller.Logout)
	auth.GET("/google/login", r.controller.GoogleAuth)
	auth.GET("/google/callback", r.controller.GoogleCallback)

	private.GET("/me", r.controller.Me, mw.AuthMiddleware())
}
