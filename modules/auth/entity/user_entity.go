package entity

import (
	"party-invites/core/entity"
)

type User struct {
	Email        string  `db:"email" json:"email"`
	Name         string  `db:"name" json:"name"`
	PasswordHash *string `db:"password_hash" json:"-"`
	GoogleID     *string `db:"google_id" json:"-"`
	IsActive     bool    `db:"is_active" json:"is_active"`
	entity.BaseEntity
}
