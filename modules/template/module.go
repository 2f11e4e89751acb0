package template

import (
	"party-invites/core/config"
	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/modules/template/controller"
	"party-invites/modules/template/repository"
	"party-invites/modules/template/router"
	"party-invites/modules/template/service"

	"github.com/labstack/echo/v4"
)

func NewService(db database.IDatabase, cfg *config.Config) (*service.TemplateService, error) {
	templates, err := service.LoadCatalog(cfg.Templates.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Template:Catalog:Loaded", "templates", len(templates), "path", cfg.Templates.CatalogPath)
	return service.NewTemplateService(templates, repository.NewPurchaseRepository(db)), nil
}

func Init(public *echo.Group, svc *service.TemplateService) {
	router.NewTemplateRouter(controller.NewTemplateController(svc)).Register(public)
}
