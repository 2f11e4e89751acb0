package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventPaymentSucceeded = "payment.succeeded"

	ProductTemplate     = "template"
	ProductPhotoSharing = "photo_sharing"
)

type PaymentEvent struct {
	EventID     string     `db:"event_id"`
	Type        string     `db:"type"`
	PartyID     *uuid.UUID `db:"party_id"`
	Product     string     `db:"product"`
	Reference   string     `db:"reference"`
	AmountCents int        `db:"amount_cents"`
	ReceivedAt  time.Time  `db:"received_at"`
}
