package repository

import (
	"context"

	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/modules/photo/entity"

	"github.com/google/uuid"
)

type PhotoRepositoryInterface interface {
	CreatePhoto(ctx context.Context, photo *entity.Photo) error
	ListPhotos(ctx context.Context, partyID uuid.UUID) ([]entity.Photo, error)
}

type PhotoRepository struct {
	db database.IDatabase
}

func NewPhotoRepository(db database.IDatabase) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) CreatePhoto(ctx context.Context, photo *entity.Photo) error {
	query := `
		INSERT INTO photos (id, party_id, uploader_name, object_key, content_type, size_bytes, created_at, updated_at)
		VALUES (:id, :party_id, :uploader_name, :object_key, :content_type, :size_bytes, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, photo); err != nil {
		logger.Error("PhotoRepository:CreatePhoto:Error:", err)
		return err
	}
	return nil
}

func (r *PhotoRepository) ListPhotos(ctx context.Context, partyID uuid.UUID) ([]entity.Photo, error) {
	photos := []entity.Photo{}
	query := r.db.Rebind(`
		SELECT id, party_id, uploader_name, object_key, content_type, size_bytes, created_at, updated_at
		FROM photos
		WHERE party_id = ?
		ORDER BY created_at DESC
	`)
	if err := r.db.SelectContext(ctx, &photos, query, partyID); err != nil {
		logger.Error("PhotoRepository:ListPhotos:Error:", err)
		return nil, err
	}
	return photos, nil
}
