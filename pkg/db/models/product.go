package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a storefront listing. DiscountID is the nullable
// back-reference maintained exclusively by the discount association code.
type Product struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID       `gorm:"column:store_id;type:uuid;not null"`
	CategoryID uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	SizeID     uuid.UUID       `gorm:"column:size_id;type:uuid;not null"`
	ColorID    uuid.UUID       `gorm:"column:color_id;type:uuid;not null"`
	DiscountID *uuid.UUID      `gorm:"column:discount_id;type:uuid"`
	Name       string          `gorm:"column:name;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsFeatured bool            `gorm:"column:is_featured;not null;default:false"`
	IsArchived bool            `gorm:"column:is_archived;not null;default:false"`
	Images     []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Category   *Category       `gorm:"foreignKey:CategoryID"`
	Size       *Size           `gorm:"foreignKey:SizeID"`
	Color      *Color          `gorm:"foreignKey:ColorID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductImage stores an externally hosted image URL for a product.
// Uploads happen client-side against the media CDN; this service only
// keeps the resulting URLs and their display order.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	URL       string    `gorm:"column:url;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
