package dto

import (
	"time"

	"party-invites/modules/reminder/entity"

	"github.com/google/uuid"
)

type GuestStatus string

const (
	GuestSent   GuestStatus = "sent"
	GuestFailed GuestStatus = "failed"
)

type GuestResult struct {
	GuestID uuid.UUID   `json:"guest_id"`
	Email   string      `json:"email"`
	Status  GuestStatus `json:"status"`
	Reason  string      `json:"reason,omitempty"`
}

type CheckpointSummary struct {
	PartyID        uuid.UUID           `json:"party_id"`
	Checkpoint     entity.ReminderType `json:"checkpoint"`
	DaysUntilEvent int                 `json:"days_until_event"`
	Sent           int                 `json:"sent"`
	Failed         int                 `json:"failed"`
	Guests         []GuestResult       `json:"guests"`
}

func (s *CheckpointSummary) Add(result GuestResult) {
	s.Guests = append(s.Guests, result)
	if result.Status == GuestSent {
		s.Sent++
	} else {
		s.Failed++
	}
}

type SkippedCheckpoint struct {
	PartyID    uuid.UUID           `json:"party_id"`
	Checkpoint entity.ReminderType `json:"checkpoint"`
	Reason     string              `json:"reason"`
}

type PartyError struct {
	PartyID uuid.UUID `json:"party_id"`
	Error   string    `json:"error"`
}

type RunSummary struct {
	StartedAt      time.Time           `json:"started_at"`
	FinishedAt     time.Time           `json:"finished_at"`
	PartiesScanned int                 `json:"parties_scanned"`
	EmailsSent     int                 `json:"emails_sent"`
	EmailsFailed   int                 `json:"emails_failed"`
	Checkpoints    []CheckpointSummary `json:"checkpoints"`
	Skipped        []SkippedCheckpoint `json:"skipped"`
	Errors         []PartyError        `json:"errors"`
}

func NewRunSummary(startedAt time.Time) *RunSummary {
	return &RunSummary{
		StartedAt:   startedAt,
		Checkpoints: []CheckpointSummary{},
		Skipped:     []SkippedCheckpoint{},
		Errors:      []PartyError{},
	}
}

func (r *RunSummary) AddCheckpoint(s CheckpointSummary) {
	r.Checkpoints = append(r.Checkpoints, s)
	r.EmailsSent += s.Sent
	r.EmailsFailed += s.Failed
}

type TriggerResponse struct {
	Queued  bool        `json:"queued"`
	TaskID  string      `json:"task_id,omitempty"`
	Summary *RunSummary `json:"summary,omitempty"`
}
