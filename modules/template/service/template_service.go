package service

import (
	"context"

	"party-invites/core/errors"
	"party-invites/modules/template/entity"
	"party-invites/modules/template/repository"

	"github.com/google/uuid"
)

type TemplateService struct {
	templates []entity.Template
	byID      map[string]entity.Template
	repo      repository.PurchaseRepositoryInterface
}

func NewTemplateService(templates []entity.Template, repo repository.PurchaseRepositoryInterface) *TemplateService {
	byID := make(map[string]entity.Template, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}
	return &TemplateService{templates: templates, byID: byID, repo: repo}
}

func (s *TemplateService) List() []entity.Template {
	return s.templates
}

func (s *TemplateService) Find(id string) (entity.Template, bool) {
	t, ok := s.byID[id]
	return t, ok
}

func (s *TemplateService) IsPurchased(ctx context.Context, partyID uuid.UUID, templateID string) (bool, error) {
	return s.repo.IsPurchased(ctx, partyID, templateID)
}

func (s *TemplateService) PaidTemplateIDs(ctx context.Context, partyID uuid.UUID) ([]string, error) {
	return s.repo.ListPurchasedIDs(ctx, partyID)
}

// RecordPurchase grants a party a template after a successful payment.
func (s *TemplateService) RecordPurchase(ctx context.Context, partyID uuid.UUID, templateID, paymentRef string) *errors.AppError {
	if _, ok := s.Find(templateID); !ok {
		return errors.NewAppError(errors.ErrInvalidInput, "unknown template: "+templateID, nil)
	}

	purchase := &entity.Purchase{PartyID: partyID, TemplateID: templateID, PaymentRef: paymentRef}
	if err := s.repo.RecordPurchase(ctx, purchase); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to record template purchase", err)
	}
	return nil
}
