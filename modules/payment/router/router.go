package router

import (
	"party-invites/modules/payment/controller"

	"github.com/labstack/echo/v4"
)

type PaymentRouter struct {
	controller *controller.PaymentController
}

func NewPaymentRouter(controller *controller.PaymentController) *PaymentRouter {
	return &PaymentRouter{controller: controller}
}

func (r *PaymentRouter) Register(api *echo.Group) {
	api.POST("/webhooks/payments", r.controller.Webhook)
}
