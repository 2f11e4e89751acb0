package dto

type WebhookData struct {
	PartyID     string `json:"party_id"`
	Product     string `json:"product"`
	TemplateID  string `json:"template_id"`
	Reference   string `json:"reference"`
	AmountCents int    `json:"amount_cents"`
}

type WebhookEvent struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Data WebhookData `json:"data"`
}

type WebhookResponse struct {
	EventID   string `json:"event_id"`
	Applied   bool   `json:"applied"`
	Duplicate bool   `json:"duplicate"`
}
