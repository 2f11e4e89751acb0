package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"party-invites/core/database/dbtest"
	"party-invites/core/errors"
	"party-invites/modules/payment/repository"
	"party-invites/modules/payment/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type noopParties struct{ calls int }

func (n *noopParties) MarkPhotoSharingPaid(context.Context, uuid.UUID) *errors.AppError {
	n.calls++
	return nil
}

func deliver(ctrl *PaymentController, body, signature string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := ctrl.Webhook(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestWebhookSignature(t *testing.T) {
	parties := &noopParties{}
	svc := service.NewPaymentService(repository.NewPaymentRepository(dbtest.New(t)), nil, parties, "s3cret")
	ctrl := NewPaymentController(svc)

	body := `{"id":"evt_1","type":"payment.succeeded","data":{"party_id":"` + uuid.NewString() + `","product":"photo_sharing"}}`

	rec := deliver(ctrl, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = deliver(ctrl, body, service.Sign([]byte("wrong"), []byte(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, parties.calls)

	rec = deliver(ctrl, body, service.Sign([]byte("s3cret"), []byte(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"applied":true`)
	assert.Equal(t, 1, parties.calls)
}
