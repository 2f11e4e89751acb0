package service

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"party-invites/core/errors"
	"party-invites/core/logger"
	"party-invites/core/metrics"
	"party-invites/core/storage"
	"party-invites/core/utils"
	partyentity "party-invites/modules/party/entity"
	"party-invites/modules/photo/dto"
	"party-invites/modules/photo/entity"
	"party-invites/modules/photo/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxUploaderName = 100

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

type PartyLookup interface {
	GetOwnedParty(ctx context.Context, userID, partyID uuid.UUID) (*partyentity.PartyDetail, *errors.AppError)
	GetPartyByToken(ctx context.Context, token string) (*partyentity.PartyDetail, *errors.AppError)
}

type PhotoService struct {
	repo     repository.PhotoRepositoryInterface
	parties  PartyLookup
	storage  storage.Storage
	maxBytes int64
	now      func() time.Time
}

func NewPhotoService(repo repository.PhotoRepositoryInterface, parties PartyLookup, store storage.Storage, maxBytes int64) *PhotoService {
	return &PhotoService{
		repo:     repo,
		parties:  parties,
		storage:  store,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

func (s *PhotoService) sharedParty(ctx context.Context, token string) (*partyentity.PartyDetail, *errors.AppError) {
	party, appErr := s.parties.GetPartyByToken(ctx, token)
	if appErr != nil {
		return nil, appErr
	}
	if !party.PhotoSharingEnabled {
		return nil, errors.NewAppError(errors.ErrForbidden, "photo sharing is not enabled for this party", nil)
	}
	return party, nil
}

// Upload stores a guest photo. The content type is sniffed from the file
// itself, not taken from the request.
func (s *PhotoService) Upload(ctx context.Context, token string, in *dto.UploadPhotoInput) (*dto.PhotoResponse, *errors.AppError) {
	party, appErr := s.sharedParty(ctx, token)
	if appErr != nil {
		return nil, appErr
	}

	if in.Size <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "file is empty", nil)
	}
	if s.maxBytes > 0 && in.Size > s.maxBytes {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("file exceeds %d bytes", s.maxBytes), nil)
	}

	uploader := strings.TrimSpace(in.UploaderName)
	if len(uploader) > maxUploaderName {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "uploaderName is too long", nil)
	}

	body := bufio.NewReaderSize(in.Body, 512)
	head, _ := body.Peek(512)
	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		metrics.PhotoUploads.WithLabelValues("rejected").Inc()
		return nil, errors.NewAppError(errors.ErrInvalidInput, "file must be an image", nil)
	}

	photo := &entity.Photo{
		PartyID:      party.ID,
		UploaderName: uploader,
		ObjectKey:    objectKey(party.ID, in.Filename, ext),
		ContentType:  contentType,
		SizeBytes:    in.Size,
	}
	photo.Touch(s.now())

	if err := s.storage.Put(ctx, photo.ObjectKey, contentType, body, in.Size); err != nil {
		metrics.PhotoUploads.WithLabelValues("failed").Inc()
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to store photo", err)
	}
	if err := s.repo.CreatePhoto(ctx, photo); err != nil {
		metrics.PhotoUploads.WithLabelValues("failed").Inc()
		if delErr := s.storage.Delete(ctx, photo.ObjectKey); delErr != nil {
			logger.Error("PhotoService:Upload:DeleteOrphan:Error", "key", photo.ObjectKey, "error", delErr)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save photo", err)
	}

	metrics.PhotoUploads.WithLabelValues("stored").Inc()
	logger.Info("PhotoService:Upload", "party_id", party.ID, "key", photo.ObjectKey, "bytes", in.Size)
	return s.toResponse(ctx, photo)
}

func (s *PhotoService) ListForGuests(ctx context.Context, token string) ([]dto.PhotoResponse, *errors.AppError) {
	party, appErr := s.sharedParty(ctx, token)
	if appErr != nil {
		return nil, appErr
	}
	return s.list(ctx, party.ID)
}

func (s *PhotoService) ListForHost(ctx context.Context, userID, partyID uuid.UUID) ([]dto.PhotoResponse, *errors.AppError) {
	if _, appErr := s.parties.GetOwnedParty(ctx, userID, partyID); appErr != nil {
		return nil, appErr
	}
	return s.list(ctx, partyID)
}

func (s *PhotoService) list(ctx context.Context, partyID uuid.UUID) ([]dto.PhotoResponse, *errors.AppError) {
	photos, err := s.repo.ListPhotos(ctx, partyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list photos", err)
	}

	out := make([]dto.PhotoResponse, 0, len(photos))
	for i := range photos {
		resp, appErr := s.toResponse(ctx, &photos[i])
		if appErr != nil {
			return nil, appErr
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *PhotoService) toResponse(ctx context.Context, photo *entity.Photo) (*dto.PhotoResponse, *errors.AppError) {
	url, err := s.storage.URL(ctx, photo.ObjectKey)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve photo url", err)
	}
	return &dto.PhotoResponse{
		ID:           photo.ID,
		UploaderName: photo.UploaderName,
		URL:          url,
		ContentType:  photo.ContentType,
		SizeBytes:    photo.SizeBytes,
		CreatedAt:    photo.CreatedAt,
	}, nil
}

// objectKey builds parties/<party>/<slugged name>-<id><ext>.
func objectKey(partyID uuid.UUID, filename, ext string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name := slug.Make(strings.TrimSuffix(base, path.Ext(base)))
	if name == "" || name == "." {
		name = "photo"
	}
	if len(name) > 40 {
		name = strings.Trim(name[:40], "-")
	}
	return fmt.Sprintf("parties/%s/%s-%s%s", partyID, name, utils.GenerateID(), ext)
}
