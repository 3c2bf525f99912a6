package models

import (
	"time"

	"github.com/google/uuid"
)

// Discount is a named percentage-off rule scoped to one store, optionally
// restricted to an explicit set of products. A product carries at most one
// discount at a time, so the association lives on the product row.
type Discount struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	Name        string    `gorm:"column:name;not null"`
	Percentage  float64   `gorm:"column:percentage;type:numeric(5,2);not null"`
	Description *string   `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	Products    []Product `gorm:"foreignKey:DiscountID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
