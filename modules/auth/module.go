package auth

import (
	"party-invites/core/cache"
	"party-invites/core/config"
	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/core/middleware"
	"party-invites/modules/auth/controller"
	"party-invites/modules/auth/repository"
	"party-invites/modules/auth/router"
	"party-invites/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(api *echo.Group, private *echo.Group, db database.IDatabase, cache cache.Cache, mw *middleware.Middleware, cfg *config.Config) {
	authService := GetService(db, cache, cfg)
	ctrl := controller.NewAuthController(authService)

	if cfg.GoogleAPI.ClientID == "" {
		logger.Info("Auth:GoogleLogin:Disabled", "reason", "Google OAuth credentials not configured")
	}

	router.NewAuthRouter(ctrl).Setup(api, private, mw)
}

// GetService creates an AuthService for use by other modules.
func GetService(db database.IDatabase, cache cache.Cache, cfg *config.Config) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	return service.NewAuthService(repo, cache, cfg.GoogleAPI)
}
