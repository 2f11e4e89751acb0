package payment

import (
	"party-invites/core/config"
	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/modules/payment/controller"
	"party-invites/modules/payment/repository"
	"party-invites/modules/payment/router"
	"party-invites/modules/payment/service"

	"github.com/labstack/echo/v4"
)

func Init(api *echo.Group, db database.IDatabase, templates service.TemplatePurchaser, parties service.PhotoSharingPayer, cfg *config.Config) {
	if cfg.Payment.WebhookSecret == "" {
		logger.Warn("Payment:Webhook:NoSecret", "reason", "payment.webhook_secret is empty, every webhook will be rejected")
	}

	svc := service.NewPaymentService(repository.NewPaymentRepository(db), templates, parties, cfg.Payment.WebhookSecret)
	router.NewPaymentRouter(controller.NewPaymentController(svc)).Register(api)
}
