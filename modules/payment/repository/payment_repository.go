package repository

import (
	"context"

	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/modules/payment/entity"
)

type PaymentRepositoryInterface interface {
	EventExists(ctx context.Context, eventID string) (bool, error)
	RecordEvent(ctx context.Context, event *entity.PaymentEvent) (bool, error)
}

type PaymentRepository struct {
	db database.IDatabase
}

func NewPaymentRepository(db database.IDatabase) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) EventExists(ctx context.Context, eventID string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM payment_events WHERE event_id = ?`), eventID); err != nil {
		logger.Error("PaymentRepository:EventExists:Error:", err)
		return false, err
	}
	return count > 0, nil
}

// RecordEvent reports false when the event id was already stored.
func (r *PaymentRepository) RecordEvent(ctx context.Context, event *entity.PaymentEvent) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO payment_events (event_id, type, party_id, product, reference, amount_cents, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING
	`)
	n, err := r.db.ExecRowsContext(ctx, query,
		event.EventID, event.Type, event.PartyID, event.Product, event.Reference, event.AmountCents, event.ReceivedAt)
	if err != nil {
		logger.Error("PaymentRepository:RecordEvent:Error:", err)
		return false, err
	}
	return n > 0, nil
}
