package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/modules/reminder/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ReminderRepositoryInterface interface {
	GetPartyEventTime(ctx context.Context, partyID uuid.UUID) (*time.Time, error)
	UpsertReminder(ctx context.Context, reminder *entity.Reminder) error
	ListReminders(ctx context.Context, partyID uuid.UUID) ([]entity.Reminder, error)
	FindPartiesByEventRange(ctx context.Context, from, to time.Time) ([]entity.Party, error)
	ListGuests(ctx context.Context, partyID uuid.UUID) ([]entity.Guest, error)
	// ClaimReminder marks (partyID, type) sent at now. It reports false when
	// another run already holds the checkpoint.
	ClaimReminder(ctx context.Context, partyID uuid.UUID, reminderType entity.ReminderType, now time.Time) (bool, error)
}

type ReminderRepository struct {
	db database.IDatabase
}

func NewReminderRepository(db database.IDatabase) *ReminderRepository {
	return &ReminderRepository{db: db}
}

var _ ReminderRepositoryInterface = (*ReminderRepository)(nil)

func (r *ReminderRepository) GetPartyEventTime(ctx context.Context, partyID uuid.UUID) (*time.Time, error) {
	var eventTime time.Time
	err := r.db.GetContext(ctx, &eventTime, r.db.Rebind(`SELECT event_datetime FROM parties WHERE id = ?`), partyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Error("ReminderRepository:GetPartyEventTime:Error:", err)
		return nil, err
	}
	return &eventTime, nil
}

// UpsertReminder keeps one row per (party, type). Sent rows are left untouched.
func (r *ReminderRepository) UpsertReminder(ctx context.Context, reminder *entity.Reminder) error {
	reminder.Touch(time.Now())
	query := `
		INSERT INTO reminders (id, party_id, type, scheduled_for, sent_at, created_at, updated_at)
		VALUES (:id, :party_id, :type, :scheduled_for, NULL, :created_at, :updated_at)
		ON CONFLICT (party_id, type) DO UPDATE
		SET scheduled_for = excluded.scheduled_for, updated_at = excluded.updated_at
		WHERE reminders.sent_at IS NULL
	`
	if _, err := r.db.NamedExecContext(ctx, query, reminder); err != nil {
		logger.Error("ReminderRepository:UpsertReminder:Error:", err)
		return err
	}
	return nil
}

func (r *ReminderRepository) ListReminders(ctx context.Context, partyID uuid.UUID) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	query := r.db.Rebind(`SELECT * FROM reminders WHERE party_id = ? ORDER BY scheduled_for`)
	if err := r.db.SelectContext(ctx, &reminders, query, partyID); err != nil {
		logger.Error("ReminderRepository:ListReminders:Error:", err)
		return nil, err
	}
	return reminders, nil
}

// FindPartiesByEventRange loads parties with from <= event_datetime <= to,
// including child, guests and reminders.
func (r *ReminderRepository) FindPartiesByEventRange(ctx context.Context, from, to time.Time) ([]entity.Party, error) {
	query := r.db.Rebind(`
		SELECT p.id, p.user_id, p.event_datetime, p.event_end_datetime, p.location, p.theme, p.notes,
			p.public_rsvp_token, c.name AS child_name, c.birth_date AS child_birth_date
		FROM parties p
		JOIN children c ON c.id = p.child_id
		WHERE p.event_datetime >= ? AND p.event_datetime <= ?
		ORDER BY p.event_datetime, p.id
	`)

	var parties []entity.Party
	if err := r.db.SelectContext(ctx, &parties, query, from.UTC(), to.UTC()); err != nil {
		logger.Error("ReminderRepository:FindPartiesByEventRange:Select:Error:", err)
		return nil, err
	}
	if len(parties) == 0 {
		return parties, nil
	}

	ids := make([]uuid.UUID, len(parties))
	index := make(map[uuid.UUID]int, len(parties))
	for i, p := range parties {
		ids[i] = p.ID
		index[p.ID] = i
	}

	var guests []entity.Guest
	if err := r.selectIn(ctx, &guests, `SELECT id, party_id, parent_name, child_name, email FROM guests WHERE party_id IN (?) ORDER BY created_at, id`, ids); err != nil {
		logger.Error("ReminderRepository:FindPartiesByEventRange:Guests:Error:", err)
		return nil, err
	}
	for _, g := range guests {
		i := index[g.PartyID]
		parties[i].Guests = append(parties[i].Guests, g)
	}

	var reminders []entity.Reminder
	if err := r.selectIn(ctx, &reminders, `SELECT * FROM reminders WHERE party_id IN (?)`, ids); err != nil {
		logger.Error("ReminderRepository:FindPartiesByEventRange:Reminders:Error:", err)
		return nil, err
	}
	for _, rem := range reminders {
		i := index[rem.PartyID]
		parties[i].Reminders = append(parties[i].Reminders, rem)
	}

	return parties, nil
}

func (r *ReminderRepository) selectIn(ctx context.Context, dest any, query string, ids []uuid.UUID) error {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	return r.db.SelectContext(ctx, dest, r.db.Rebind(q), args...)
}

func (r *ReminderRepository) ListGuests(ctx context.Context, partyID uuid.UUID) ([]entity.Guest, error) {
	var guests []entity.Guest
	query := r.db.Rebind(`SELECT id, party_id, parent_name, child_name, email FROM guests WHERE party_id = ? ORDER BY created_at, id`)
	if err := r.db.SelectContext(ctx, &guests, query, partyID); err != nil {
		logger.Error("ReminderRepository:ListGuests:Error:", err)
		return nil, err
	}
	return guests, nil
}

func (r *ReminderRepository) ClaimReminder(ctx context.Context, partyID uuid.UUID, reminderType entity.ReminderType, now time.Time) (bool, error) {
	now = now.UTC()

	updated, err := r.db.ExecRowsContext(ctx, r.db.Rebind(`
		UPDATE reminders SET sent_at = ?, updated_at = ?
		WHERE party_id = ? AND type = ? AND sent_at IS NULL
	`), now, now, partyID, reminderType)
	if err != nil {
		logger.Error("ReminderRepository:ClaimReminder:Update:Error:", err)
		return false, err
	}
	if updated == 1 {
		return true, nil
	}

	// no unsent row: either it was never scheduled or someone else sent it
	inserted, err := r.db.ExecRowsContext(ctx, r.db.Rebind(`
		INSERT INTO reminders (id, party_id, type, scheduled_for, sent_at, created_at, updated_at)
		VALUES (?, ?, ?, NULL, ?, ?, ?)
		ON CONFLICT (party_id, type) DO NOTHING
	`), uuid.New(), partyID, reminderType, now, now, now)
	if err != nil {
		logger.Error("ReminderRepository:ClaimReminder:Insert:Error:", err)
		return false, err
	}
	return inserted == 1, nil
}
