package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/modules/guest/entity"

	"github.com/google/uuid"
)

type GuestRepositoryInterface interface {
	CreateGuest(ctx context.Context, guest *entity.Guest) (bool, error)
	UpsertGuest(ctx context.Context, guest *entity.Guest) (uuid.UUID, error)
	GetGuest(ctx context.Context, id uuid.UUID) (*entity.Guest, error)
	ListGuests(ctx context.Context, partyID uuid.UUID) ([]entity.GuestWithRSVP, error)
	DeleteGuest(ctx context.Context, id uuid.UUID) error
	UpsertRSVP(ctx context.Context, rsvp *entity.RSVP) error
	FindUserIDByEmail(ctx context.Context, email string) (*uuid.UUID, error)
}

type GuestRepository struct {
	db database.IDatabase
}

var _ GuestRepositoryInterface = (*GuestRepository)(nil)

func NewGuestRepository(db database.IDatabase) *GuestRepository {
	return &GuestRepository{db: db}
}

// CreateGuest reports false when the party already has a guest with the email.
func (r *GuestRepository) CreateGuest(ctx context.Context, guest *entity.Guest) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO guests (id, party_id, user_id, parent_name, child_name, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (party_id, email) DO NOTHING
	`)
	n, err := r.db.ExecRowsContext(ctx, query,
		guest.ID, guest.PartyID, guest.UserID, guest.ParentName, guest.ChildName, guest.Email, guest.Phone,
		guest.CreatedAt, guest.UpdatedAt)
	if err != nil {
		logger.Error("GuestRepository:CreateGuest:Error:", err)
		return false, err
	}
	return n > 0, nil
}

// UpsertGuest inserts or refreshes the guest keyed by (party, email) and
// returns the stored id. Empty names keep the stored value and an existing
// user link is never replaced.
func (r *GuestRepository) UpsertGuest(ctx context.Context, guest *entity.Guest) (uuid.UUID, error) {
	query := r.db.Rebind(`
		INSERT INTO guests (id, party_id, user_id, parent_name, child_name, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (party_id, email) DO UPDATE SET
			parent_name = CASE WHEN excluded.parent_name <> '' THEN excluded.parent_name ELSE guests.parent_name END,
			child_name = CASE WHEN excluded.child_name <> '' THEN excluded.child_name ELSE guests.child_name END,
			user_id = COALESCE(guests.user_id, excluded.user_id),
			updated_at = excluded.updated_at
	`)
	err := r.db.ExecContext(ctx, query,
		guest.ID, guest.PartyID, guest.UserID, guest.ParentName, guest.ChildName, guest.Email, guest.Phone,
		guest.CreatedAt, guest.UpdatedAt)
	if err != nil {
		logger.Error("GuestRepository:UpsertGuest:Error:", err)
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.db.GetContext(ctx, &id, r.db.Rebind(`SELECT id FROM guests WHERE party_id = ? AND email = ?`), guest.PartyID, guest.Email)
	if err != nil {
		logger.Error("GuestRepository:UpsertGuest:Select:Error:", err)
		return uuid.Nil, err
	}
	return id, nil
}

func (r *GuestRepository) GetGuest(ctx context.Context, id uuid.UUID) (*entity.Guest, error) {
	var guest entity.Guest
	query := r.db.Rebind(`
		SELECT id, party_id, user_id, parent_name, child_name, email, phone, created_at, updated_at
		FROM guests WHERE id = ?
	`)
	if err := r.db.GetContext(ctx, &guest, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("GuestRepository:GetGuest:Error:", err)
		return nil, err
	}
	return &guest, nil
}

func (r *GuestRepository) ListGuests(ctx context.Context, partyID uuid.UUID) ([]entity.GuestWithRSVP, error) {
	guests := []entity.GuestWithRSVP{}
	query := r.db.Rebind(`
		SELECT g.id, g.party_id, g.user_id, g.parent_name, g.child_name, g.email, g.phone, g.created_at, g.updated_at,
			r.status AS rsvp_status, r.children_count AS rsvp_children_count, r.parent_stays AS rsvp_parent_stays,
			r.allergies AS rsvp_allergies, r.message AS rsvp_message, r.updated_at AS rsvp_updated_at
		FROM guests g
		LEFT JOIN rsvps r ON r.guest_id = g.id
		WHERE g.party_id = ?
		ORDER BY g.created_at, g.id
	`)
	if err := r.db.SelectContext(ctx, &guests, query, partyID); err != nil {
		logger.Error("GuestRepository:ListGuests:Error:", err)
		return nil, err
	}
	return guests, nil
}

func (r *GuestRepository) DeleteGuest(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM guests WHERE id = ?`), id); err != nil {
		logger.Error("GuestRepository:DeleteGuest:Error:", err)
		return err
	}
	return nil
}

// UpsertRSVP stores the guest's answer. A resubmission overwrites it.
func (r *GuestRepository) UpsertRSVP(ctx context.Context, rsvp *entity.RSVP) error {
	query := r.db.Rebind(`
		INSERT INTO rsvps (id, guest_id, party_id, status, children_count, parent_stays, allergies, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (guest_id) DO UPDATE SET
			status = excluded.status,
			children_count = excluded.children_count,
			parent_stays = excluded.parent_stays,
			allergies = excluded.allergies,
			message = excluded.message,
			updated_at = excluded.updated_at
	`)
	err := r.db.ExecContext(ctx, query,
		rsvp.ID, rsvp.GuestID, rsvp.PartyID, rsvp.Status, rsvp.ChildrenCount, rsvp.ParentStays,
		rsvp.Allergies, rsvp.Message, rsvp.CreatedAt, rsvp.UpdatedAt)
	if err != nil {
		logger.Error("GuestRepository:UpsertRSVP:Error:", err)
		return err
	}
	return nil
}

func (r *GuestRepository) FindUserIDByEmail(ctx context.Context, email string) (*uuid.UUID, error) {
	var id uuid.UUID
	if err := r.db.GetContext(ctx, &id, r.db.Rebind(`SELECT id FROM users WHERE email = ?`), email); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("GuestRepository:FindUserIDByEmail:Error:", err)
		return nil, err
	}
	return &id, nil
}
