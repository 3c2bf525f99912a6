package models

import (
	"time"

	"github.com/google/uuid"
)

// Billboard is a hero banner shown for a category landing page.
type Billboard struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	Label     string    `gorm:"column:label;not null"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Category groups products and points at the billboard used to present it.
type Category struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID  `gorm:"column:store_id;type:uuid;not null"`
	BillboardID uuid.UUID  `gorm:"column:billboard_id;type:uuid;not null"`
	Name        string     `gorm:"column:name;not null"`
	Billboard   *Billboard `gorm:"foreignKey:BillboardID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// Size is a selectable product attribute (e.g. "Large" / "L").
type Size struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	Name      string    `gorm:"column:name;not null"`
	Value     string    `gorm:"column:value;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Color is a selectable product attribute whose value is a #rrggbb string.
type Color struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	Name      string    `gorm:"column:name;not null"`
	Value     string    `gorm:"column:value;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
