package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/modules/auth/entity"

	"github.com/google/uuid"
)

type AuthRepository struct {
	db database.IDatabase
}

func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{db: db}
}

type AuthRepositoryInterface interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) error
	LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error
}

var _ AuthRepositoryInterface = (*AuthRepository)(nil)

func (r *AuthRepository) getUser(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := r.db.Rebind(`
		SELECT id, email, name, password_hash, google_id, is_active, created_at, updated_at
		FROM users WHERE ` + where)

	var user entity.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := r.getUser(ctx, "email = ?", email)
	if err != nil {
		logger.Error("AuthRepository:GetUserByEmail:Error:", err)
	}
	return user, err
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := r.getUser(ctx, "id = ?", id)
	if err != nil {
		logger.Error("AuthRepository:GetUserByID:Error:", err)
	}
	return user, err
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, google_id, is_active, created_at, updated_at)
		VALUES (:id, :email, :name, :password_hash, :google_id, :is_active, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		logger.Error("AuthRepository:CreateUser:Error:", err)
		return err
	}
	return nil
}

func (r *AuthRepository) LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error {
	query := r.db.Rebind(`UPDATE users SET google_id = ?, updated_at = ? WHERE id = ?`)
	if err := r.db.ExecContext(ctx, query, googleID, time.Now().UTC(), userID); err != nil {
		logger.Error("AuthRepository:LinkGoogleID:Error:", err)
		return err
	}
	return nil
}
