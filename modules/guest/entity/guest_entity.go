package entity

import (
	"time"

	"party-invites/core/entity"

	"github.com/google/uuid"
)

type RSVPStatus string

const (
	RSVPYes   RSVPStatus = "YES"
	RSVPNo    RSVPStatus = "NO"
	RSVPMaybe RSVPStatus = "MAYBE"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return true
	}
	return false
}

type Guest struct {
	PartyID    uuid.UUID  `db:"party_id" json:"party_id"`
	UserID     *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	ParentName string     `db:"parent_name" json:"parent_name"`
	ChildName  string     `db:"child_name" json:"child_name"`
	Email      string     `db:"email" json:"email"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	entity.BaseEntity
}

type RSVP struct {
	GuestID       uuid.UUID  `db:"guest_id" json:"guest_id"`
	PartyID       uuid.UUID  `db:"party_id" json:"party_id"`
	Status        RSVPStatus `db:"status" json:"status"`
	ChildrenCount int        `db:"children_count" json:"children_count"`
	ParentStays   bool       `db:"parent_stays" json:"parent_stays"`
	Allergies     *string    `db:"allergies" json:"allergies,omitempty"`
	Message       *string    `db:"message" json:"message,omitempty"`
	entity.BaseEntity
}

// GuestWithRSVP is a guest row with its answer, if any.
type GuestWithRSVP struct {
	Guest
	RSVPStatus        *RSVPStatus `db:"rsvp_status"`
	RSVPChildrenCount *int        `db:"rsvp_children_count"`
	RSVPParentStays   *bool       `db:"rsvp_parent_stays"`
	RSVPAllergies     *string     `db:"rsvp_allergies"`
	RSVPMessage       *string     `db:"rsvp_message"`
	RSVPUpdatedAt     *time.Time  `db:"rsvp_updated_at"`
}
