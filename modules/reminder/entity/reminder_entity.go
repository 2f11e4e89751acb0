package entity

import (
	"time"

	"party-invites/core/entity"

	"github.com/google/uuid"
)

type ReminderType string

const (
	ReminderSevenDays ReminderType = "SEVEN_DAYS"
	ReminderTwoDays   ReminderType = "TWO_DAYS"
	ReminderSameDay   ReminderType = "SAME_DAY"
)

// Reminder is unsent while SentAt is nil. Once SentAt is set it never changes.
type Reminder struct {
	PartyID      uuid.UUID    `db:"party_id" json:"party_id"`
	Type         ReminderType `db:"type" json:"type"`
	ScheduledFor *time.Time   `db:"scheduled_for" json:"scheduled_for"`
	SentAt       *time.Time   `db:"sent_at" json:"sent_at"`
	entity.BaseEntity
}

func (r Reminder) IsSent() bool {
	return r.SentAt != nil
}

type Guest struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PartyID    uuid.UUID `db:"party_id" json:"party_id"`
	ParentName string    `db:"parent_name" json:"parent_name"`
	ChildName  string    `db:"child_name" json:"child_name"`
	Email      string    `db:"email" json:"email"`
}

// Party is the scheduler's view of a party with its child, guests and reminders.
type Party struct {
	ID               uuid.UUID  `db:"id"`
	UserID           uuid.UUID  `db:"user_id"`
	EventDatetime    time.Time  `db:"event_datetime"`
	EventEndDatetime *time.Time `db:"event_end_datetime"`
	Location         string     `db:"location"`
	Theme            *string    `db:"theme"`
	Notes            *string    `db:"notes"`
	PublicRSVPToken  string     `db:"public_rsvp_token"`
	ChildName        string     `db:"child_name"`
	ChildBirthDate   time.Time  `db:"child_birth_date"`

	Guests    []Guest    `db:"-"`
	Reminders []Reminder `db:"-"`
}

func (p Party) Reminder(t ReminderType) (Reminder, bool) {
	for _, r := range p.Reminders {
		if r.Type == t {
			return r, true
		}
	}
	return Reminder{}, false
}
