package entity

import (
	"time"

	"party-invites/core/entity"

	"github.com/google/uuid"
)

type Child struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	BirthDate time.Time `db:"birth_date" json:"birth_date"`
	entity.BaseEntity
}

type Party struct {
	UserID              uuid.UUID  `db:"user_id" json:"user_id"`
	ChildID             uuid.UUID  `db:"child_id" json:"child_id"`
	EventDatetime       time.Time  `db:"event_datetime" json:"event_datetime"`
	EventEndDatetime    *time.Time `db:"event_end_datetime" json:"event_end_datetime,omitempty"`
	Location            string     `db:"location" json:"location"`
	Theme               *string    `db:"theme" json:"theme,omitempty"`
	Notes               *string    `db:"notes" json:"notes,omitempty"`
	PublicRSVPToken     string     `db:"public_rsvp_token" json:"public_rsvp_token"`
	TemplateID          string     `db:"template_id" json:"template_id"`
	PhotoSharingEnabled bool       `db:"photo_sharing_enabled" json:"photo_sharing_enabled"`
	PhotoSharingPaid    bool       `db:"photo_sharing_paid" json:"photo_sharing_paid"`
	entity.BaseEntity
}

// PartyDetail is a party joined with its child.
type PartyDetail struct {
	Party
	ChildName      string    `db:"child_name" json:"child_name"`
	ChildBirthDate time.Time `db:"child_birth_date" json:"child_birth_date"`
}

type PaginatedPartyEntity = entity.Pagination[PartyDetail]
