package entity

import (
	"party-invites/core/entity"

	"github.com/google/uuid"
)

type Photo struct {
	PartyID      uuid.UUID `db:"party_id" json:"party_id"`
	UploaderName string    `db:"uploader_name" json:"uploader_name"`
	ObjectKey    string    `db:"object_key" json:"object_key"`
	ContentType  string    `db:"content_type" json:"content_type"`
	SizeBytes    int64     `db:"size_bytes" json:"size_bytes"`
	entity.BaseEntity
}
