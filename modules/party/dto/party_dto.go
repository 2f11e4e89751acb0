package dto

import (
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type CreateChildRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

type ChildResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date"`
}

type CreatePartyRequest struct {
	ChildID          uuid.UUID  `json:"child_id"`
	EventDatetime    time.Time  `json:"event_datetime"`
	EventEndDatetime *time.Time `json:"event_end_datetime"`
	Location         string     `json:"location"`
	Theme            *string    `json:"theme"`
	Notes            *string    `json:"notes"`
}

// UpdatePartyRequest changes only the fields that are present.
type UpdatePartyRequest struct {
	EventDatetime    *time.Time `json:"event_datetime"`
	EventEndDatetime *time.Time `json:"event_end_datetime"`
	Location         *string    `json:"location"`
	Theme            *string    `json:"theme"`
	Notes            *string    `json:"notes"`
}

type SelectTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

type PhotoSharingRequest struct {
	Enabled bool `json:"enabled"`
}

type PartyResponse struct {
	ID                  uuid.UUID  `json:"id"`
	ChildID             uuid.UUID  `json:"child_id"`
	ChildName           string     `json:"child_name"`
	EventDatetime       time.Time  `json:"event_datetime"`
	EventEndDatetime    *time.Time `json:"event_end_datetime,omitempty"`
	Location            string     `json:"location"`
	Theme               *string    `json:"theme,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	PublicRSVPToken     string     `json:"public_rsvp_token"`
	RSVPURL             string     `json:"rsvp_url"`
	TemplateID          string     `json:"template_id"`
	PaidTemplateIDs     []string   `json:"paid_template_ids,omitempty"`
	PhotoSharingEnabled bool       `json:"photo_sharing_enabled"`
	PhotoSharingPaid    bool       `json:"photo_sharing_paid"`
	CreatedAt           time.Time  `json:"created_at"`
}

type PaginatedPartyResponse struct {
	Items      []PartyResponse `json:"items"`
	TotalItems int             `json:"total_items"`
	PageNumber int             `json:"page_number"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}
