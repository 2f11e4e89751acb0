package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"party-invites/core/entity"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationRSVPReceived  NotificationType = "rsvp_received"
	NotificationRemindersSent NotificationType = "reminders_sent"
)

func (t NotificationType) Valid() bool {
	return t == NotificationRSVPReceived || t == NotificationRemindersSent
}

// NotificationFilter narrows a host's inbox. Zero values match everything.
type NotificationFilter struct {
	Type       NotificationType
	UnreadOnly bool
}

type Notification struct {
	UserID  uuid.UUID        `db:"user_id" json:"user_id"`
	Title   string           `db:"title" json:"title"`
	Message string           `db:"message" json:"message"`
	Type    NotificationType `db:"type" json:"type"`
	Data    JSONB            `db:"data" json:"data"`
	IsRead  bool             `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan accepts JSONB from Postgres ([]byte) and TEXT from SQLite (string).
func (a *JSONB) Scan(value any) error {
	var b []byte
	switch v := value.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB source %T", value)
	}
	return json.Unmarshal(b, a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
