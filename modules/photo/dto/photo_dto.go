package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// UploadPhotoInput is a single uploaded file as read from a multipart form.
type UploadPhotoInput struct {
	UploaderName string
	Filename     string
	Size         int64
	Body         io.Reader
}

type PhotoResponse struct {
	ID           uuid.UUID `json:"id"`
	UploaderName string    `json:"uploader_name"`
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}
