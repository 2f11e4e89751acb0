package entity

import (
	"time"

	"github.com/google/uuid"
)

type Template struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Premium    bool   `json:"premium"`
	PriceCents int    `json:"price_cents"`
	Preview    string `json:"preview"`
}

type Purchase struct {
	PartyID    uuid.UUID `db:"party_id" json:"party_id"`
	TemplateID string    `db:"template_id" json:"template_id"`
	PaymentRef string    `db:"payment_ref" json:"payment_ref"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
