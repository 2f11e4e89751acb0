package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"party-invites/core/errors"
	"party-invites/core/logger"
	"party-invites/modules/payment/dto"
	"party-invites/modules/payment/entity"
	"party-invites/modules/payment/repository"

	"github.com/google/uuid"
)

type TemplatePurchaser interface {
	RecordPurchase(ctx context.Context, partyID uuid.UUID, templateID, paymentRef string) *errors.AppError
}

type PhotoSharingPayer interface {
	MarkPhotoSharingPaid(ctx context.Context, partyID uuid.UUID) *errors.AppError
}

type PaymentService struct {
	repo      repository.PaymentRepositoryInterface
	templates TemplatePurchaser
	parties   PhotoSharingPayer
	secret    []byte
	now       func() time.Time
}

func NewPaymentService(repo repository.PaymentRepositoryInterface, templates TemplatePurchaser, parties PhotoSharingPayer, secret string) *PaymentService {
	return &PaymentService{
		repo:      repo,
		templates: templates,
		parties:   parties,
		secret:    []byte(secret),
		now:       time.Now,
	}
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature fails closed when no secret is configured.
func (s *PaymentService) VerifySignature(body []byte, signature string) bool {
	if len(s.secret) == 0 || signature == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(Sign(s.secret, body))
	return hmac.Equal(got, want)
}

// HandleWebhook verifies and applies a provider event. Events are idempotent
// by id and only payment.succeeded changes state. Applying a purchase is
// itself idempotent, so the event is recorded after it succeeds and a failed
// delivery can be retried.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (*dto.WebhookResponse, *errors.AppError) {
	if !s.VerifySignature(body, signature) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid webhook signature", nil)
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "invalid webhook payload", err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "event id and type are required", nil)
	}

	resp := &dto.WebhookResponse{EventID: event.ID}

	exists, err := s.repo.EventExists(ctx, event.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check payment event", err)
	}
	if exists {
		resp.Duplicate = true
		return resp, nil
	}

	record := &entity.PaymentEvent{
		EventID:     event.ID,
		Type:        event.Type,
		Product:     event.Data.Product,
		Reference:   event.Data.Reference,
		AmountCents: event.Data.AmountCents,
		ReceivedAt:  s.now().UTC(),
	}

	if event.Type == entity.EventPaymentSucceeded {
		partyID, appErr := s.apply(ctx, event)
		if appErr != nil {
			return nil, appErr
		}
		record.PartyID = &partyID
		resp.Applied = true
	} else {
		logger.Info("PaymentService:HandleWebhook:Ignored", "event_id", event.ID, "type", event.Type)
	}

	inserted, err := s.repo.RecordEvent(ctx, record)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to record payment event", err)
	}
	resp.Duplicate = !inserted
	return resp, nil
}

func (s *PaymentService) apply(ctx context.Context, event dto.WebhookEvent) (uuid.UUID, *errors.AppError) {
	partyID, err := uuid.Parse(event.Data.PartyID)
	if err != nil {
		return uuid.Nil, errors.NewAppError(errors.ErrInvalidInput, "invalid party_id", err)
	}

	switch event.Data.Product {
	case entity.ProductTemplate:
		if event.Data.TemplateID == "" {
			return uuid.Nil, errors.NewAppError(errors.ErrInvalidInput, "template_id is required", nil)
		}
		if appErr := s.templates.RecordPurchase(ctx, partyID, event.Data.TemplateID, event.Data.Reference); appErr != nil {
			return uuid.Nil, appErr
		}
	case entity.ProductPhotoSharing:
		if appErr := s.parties.MarkPhotoSharingPaid(ctx, partyID); appErr != nil {
			return uuid.Nil, appErr
		}
	default:
		return uuid.Nil, errors.NewAppError(errors.ErrInvalidInput, "unknown product: "+event.Data.Product, nil)
	}

	logger.Info("PaymentService:HandleWebhook:Applied",
		"event_id", event.ID,
		"party_id", partyID,
		"product", event.Data.Product,
		"amount_cents", event.Data.AmountCents,
	)
	return partyID, nil
}
