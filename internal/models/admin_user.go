package models

import (
	"time"

	"greendrake/storefront/internal/utils"
)

// AdminUser is a back-office account. Email is unique.
type AdminUser struct {
	ID           utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string      `bson:"email" json:"email"`
	Name         string      `bson:"name" json:"name"`
	PasswordHash string      `bson:"password_hash" json:"-"`
	IsActive     bool        `bson:"is_active" json:"isActive"`
	CreatedAt    time.Time   `bson:"created_at" json:"createdAt"`
}
