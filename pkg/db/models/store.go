package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents the tenant boundary. Every catalog entity hangs off
// exactly one store, and a store is owned by exactly one user identity.
type Store struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
