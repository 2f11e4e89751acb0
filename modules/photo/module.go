package photo

import (
	"party-invites/core/config"
	"party-invites/core/database"
	"party-invites/core/middleware"
	"party-invites/core/storage"
	"party-invites/modules/photo/controller"
	"party-invites/modules/photo/repository"
	"party-invites/modules/photo/router"
	"party-invites/modules/photo/service"

	"github.com/labstack/echo/v4"
)

func Init(public *echo.Group, private *echo.Group, db database.IDatabase, parties service.PartyLookup, store storage.Storage, mw *middleware.Middleware, cfg *config.Config) {
	svc := service.NewPhotoService(repository.NewPhotoRepository(db), parties, store, cfg.Upload.MaxBytes)
	router.NewPhotoRouter(controller.NewPhotoController(svc)).Register(public, private, mw, cfg.RateLimit.RSVPPerMinute)
}
