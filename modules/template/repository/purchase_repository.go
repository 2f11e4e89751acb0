package repository

import (
	"context"
	"time"

	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/modules/template/entity"

	"github.com/google/uuid"
)

type PurchaseRepositoryInterface interface {
	RecordPurchase(ctx context.Context, purchase *entity.Purchase) error
	IsPurchased(ctx context.Context, partyID uuid.UUID, templateID string) (bool, error)
	ListPurchasedIDs(ctx context.Context, partyID uuid.UUID) ([]string, error)
}

type PurchaseRepository struct {
	db database.IDatabase
}

func NewPurchaseRepository(db database.IDatabase) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// RecordPurchase is a no-op when the party already owns the template.
func (r *PurchaseRepository) RecordPurchase(ctx context.Context, purchase *entity.Purchase) error {
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now().UTC()
	}
	query := r.db.Rebind(`
		INSERT INTO party_template_purchases (party_id, template_id, payment_ref, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (party_id, template_id) DO NOTHING
	`)
	if err := r.db.ExecContext(ctx, query, purchase.PartyID, purchase.TemplateID, purchase.PaymentRef, purchase.CreatedAt); err != nil {
		logger.Error("PurchaseRepository:RecordPurchase:Error:", err)
		return err
	}
	return nil
}

func (r *PurchaseRepository) IsPurchased(ctx context.Context, partyID uuid.UUID, templateID string) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM party_template_purchases WHERE party_id = ? AND template_id = ?`)
	if err := r.db.GetContext(ctx, &count, query, partyID, templateID); err != nil {
		logger.Error("PurchaseRepository:IsPurchased:Error:", err)
		return false, err
	}
	return count > 0, nil
}

func (r *PurchaseRepository) ListPurchasedIDs(ctx context.Context, partyID uuid.UUID) ([]string, error) {
	ids := []string{}
	query := r.db.Rebind(`SELECT template_id FROM party_template_purchases WHERE party_id = ? ORDER BY created_at, template_id`)
	if err := r.db.SelectContext(ctx, &ids, query, partyID); err != nil {
		logger.Error("PurchaseRepository:ListPurchasedIDs:Error:", err)
		return nil, err
	}
	return ids, nil
}
