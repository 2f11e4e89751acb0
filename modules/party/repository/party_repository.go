package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/core/params"
	"party-invites/modules/party/entity"

	"github.com/google/uuid"
)

type PartyRepositoryInterface interface {
	CreateChild(ctx context.Context, child *entity.Child) error
	GetChild(ctx context.Context, id uuid.UUID) (*entity.Child, error)
	ListChildren(ctx context.Context, userID uuid.UUID) ([]entity.Child, error)

	CreateParty(ctx context.Context, party *entity.Party) error
	GetParty(ctx context.Context, id uuid.UUID) (*entity.PartyDetail, error)
	GetPartyByToken(ctx context.Context, token string) (*entity.PartyDetail, error)
	ListParties(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedPartyEntity, error)
	UpdateParty(ctx context.Context, party *entity.Party) error
	DeleteParty(ctx context.Context, id uuid.UUID) error
	SetTemplate(ctx context.Context, id uuid.UUID, templateID string) error
	SetPhotoSharing(ctx context.Context, id uuid.UUID, enabled bool) error
	MarkPhotoSharingPaid(ctx context.Context, id uuid.UUID) (bool, error)
}

type PartyRepository struct {
	db database.IDatabase
}

var _ PartyRepositoryInterface = (*PartyRepository)(nil)

func NewPartyRepository(db database.IDatabase) *PartyRepository {
	return &PartyRepository{db: db}
}

const partyDetailSelect = `
	SELECT p.id, p.user_id, p.child_id, p.event_datetime, p.event_end_datetime, p.location,
		p.theme, p.notes, p.public_rsvp_token, p.template_id, p.photo_sharing_enabled,
		p.photo_sharing_paid, p.created_at, p.updated_at,
		c.name AS child_name, c.birth_date AS child_birth_date
	FROM parties p
	JOIN children c ON c.id = p.child_id
`

func (r *PartyRepository) CreateChild(ctx context.Context, child *entity.Child) error {
	query := `
		INSERT INTO children (id, user_id, name, birth_date, created_at, updated_at)
		VALUES (:id, :user_id, :name, :birth_date, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, child); err != nil {
		logger.Error("PartyRepository:CreateChild:Error:", err)
		return err
	}
	return nil
}

func (r *PartyRepository) GetChild(ctx context.Context, id uuid.UUID) (*entity.Child, error) {
	var child entity.Child
	query := r.db.Rebind(`SELECT id, user_id, name, birth_date, created_at, updated_at FROM children WHERE id = ?`)
	if err := r.db.GetContext(ctx, &child, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("PartyRepository:GetChild:Error:", err)
		return nil, err
	}
	return &child, nil
}

func (r *PartyRepository) ListChildren(ctx context.Context, userID uuid.UUID) ([]entity.Child, error) {
	children := []entity.Child{}
	query := r.db.Rebind(`
		SELECT id, user_id, name, birth_date, created_at, updated_at
		FROM children WHERE user_id = ? ORDER BY birth_date, name
	`)
	if err := r.db.SelectContext(ctx, &children, query, userID); err != nil {
		logger.Error("PartyRepository:ListChildren:Error:", err)
		return nil, err
	}
	return children, nil
}

func (r *PartyRepository) CreateParty(ctx context.Context, party *entity.Party) error {
	query := `
		INSERT INTO parties (id, user_id, child_id, event_datetime, event_end_datetime, location, theme, notes,
			public_rsvp_token, template_id, photo_sharing_enabled, photo_sharing_paid, created_at, updated_at)
		VALUES (:id, :user_id, :child_id, :event_datetime, :event_end_datetime, :location, :theme, :notes,
			:public_rsvp_token, :template_id, :photo_sharing_enabled, :photo_sharing_paid, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, party); err != nil {
		logger.Error("PartyRepository:CreateParty:Error:", err)
		return err
	}
	return nil
}

func (r *PartyRepository) getParty(ctx context.Context, where string, arg any) (*entity.PartyDetail, error) {
	var party entity.PartyDetail
	if err := r.db.GetContext(ctx, &party, r.db.Rebind(partyDetailSelect+" WHERE "+where), arg); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &party, nil
}

func (r *PartyRepository) GetParty(ctx context.Context, id uuid.UUID) (*entity.PartyDetail, error) {
	party, err := r.getParty(ctx, "p.id = ?", id)
	if err != nil {
		logger.Error("PartyRepository:GetParty:Error:", err)
	}
	return party, err
}

func (r *PartyRepository) GetPartyByToken(ctx context.Context, token string) (*entity.PartyDetail, error) {
	party, err := r.getParty(ctx, "p.public_rsvp_token = ?", token)
	if err != nil {
		logger.Error("PartyRepository:GetPartyByToken:Error:", err)
	}
	return party, err
}

func (r *PartyRepository) ListParties(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedPartyEntity, error) {
	var totalItems int
	err := r.db.GetContext(ctx, &totalItems, r.db.Rebind(`SELECT COUNT(*) FROM parties WHERE user_id = ?`), userID)
	if err != nil {
		logger.Error("PartyRepository:ListParties:Count:Error:", err)
		return nil, err
	}

	parties := []entity.PartyDetail{}
	query := r.db.Rebind(partyDetailSelect + ` WHERE p.user_id = ? ORDER BY p.event_datetime DESC, p.id LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &parties, query, userID, params.PageSize, params.Offset()); err != nil {
		logger.Error("PartyRepository:ListParties:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedPartyEntity{
		Items:      parties,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

// UpdateParty writes the editable event fields. The RSVP token is never touched.
func (r *PartyRepository) UpdateParty(ctx context.Context, party *entity.Party) error {
	query := `
		UPDATE parties SET event_datetime = :event_datetime, event_end_datetime = :event_end_datetime,
			location = :location, theme = :theme, notes = :notes, updated_at = :updated_at
		WHERE id = :id
	`
	if _, err := r.db.NamedExecContext(ctx, query, party); err != nil {
		logger.Error("PartyRepository:UpdateParty:Error:", err)
		return err
	}
	return nil
}

func (r *PartyRepository) DeleteParty(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM parties WHERE id = ?`), id); err != nil {
		logger.Error("PartyRepository:DeleteParty:Error:", err)
		return err
	}
	return nil
}

func (r *PartyRepository) SetTemplate(ctx context.Context, id uuid.UUID, templateID string) error {
	query := r.db.Rebind(`UPDATE parties SET template_id = ?, updated_at = ? WHERE id = ?`)
	if err := r.db.ExecContext(ctx, query, templateID, time.Now().UTC(), id); err != nil {
		logger.Error("PartyRepository:SetTemplate:Error:", err)
		return err
	}
	return nil
}

func (r *PartyRepository) SetPhotoSharing(ctx context.Context, id uuid.UUID, enabled bool) error {
	query := r.db.Rebind(`UPDATE parties SET photo_sharing_enabled = ?, updated_at = ? WHERE id = ?`)
	if err := r.db.ExecContext(ctx, query, enabled, time.Now().UTC(), id); err != nil {
		logger.Error("PartyRepository:SetPhotoSharing:Error:", err)
		return err
	}
	return nil
}

// MarkPhotoSharingPaid reports false when no party has the id.
func (r *PartyRepository) MarkPhotoSharingPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	query := r.db.Rebind(`UPDATE parties SET photo_sharing_paid = TRUE, updated_at = ? WHERE id = ?`)
	n, err := r.db.ExecRowsContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		logger.Error("PartyRepository:MarkPhotoSharingPaid:Error:", err)
		return false, err
	}
	return n > 0, nil
}
