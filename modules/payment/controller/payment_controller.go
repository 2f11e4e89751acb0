package controller

import (
	"io"

	"party-invites/core/controller"
	"party-invites/core/errors"
	"party-invites/modules/payment/service"

	"github.com/labstack/echo/v4"
)

const (
	SignatureHeader = "X-Signature"
	maxWebhookBody  = 1 << 20
)

type PaymentController struct {
	service *service.PaymentService
	controller.BaseController
}

func NewPaymentController(service *service.PaymentService) *PaymentController {
	return &PaymentController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *PaymentController) Webhook(ctx echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxWebhookBody))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "failed to read body")
	}

	resp, appErr := c.service.HandleWebhook(ctx.Request().Context(), body, ctx.Request().Header.Get(SignatureHeader))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Webhook processed")
}
