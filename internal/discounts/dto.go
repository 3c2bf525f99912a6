package discounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
)

// DiscountProductDTO is the slim product shape embedded in discount reads.
type DiscountProductDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// DiscountDTO exposes a discount in API responses. ProductCount is always the
// live count at query time; Products is populated on single-entity reads only.
type DiscountDTO struct {
	ID           uuid.UUID            `json:"id"`
	StoreID      uuid.UUID            `json:"storeId"`
	Name         string               `json:"name"`
	Percentage   float64              `json:"percentage"`
	Description  *string              `json:"description,omitempty"`
	IsActive     bool                 `json:"isActive"`
	ProductCount int64                `json:"productCount"`
	Products     []DiscountProductDTO `json:"products,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// CreateDiscountInput captures creation-time discount data. IsActive is a
// pointer so an explicit false is distinguishable from an omitted field.
type CreateDiscountInput struct {
	Name        string
	Percentage  float64
	Description *string
	IsActive    *bool
	ProductIDs  []uuid.UUID
}

// UpdateDiscountInput fully replaces the discount's mutable attributes and
// its association set. A nil or empty ProductIDs clears every association.
type UpdateDiscountInput struct {
	Name        string
	Percentage  float64
	Description *string
	IsActive    *bool
	ProductIDs  []uuid.UUID
}

// FromModel maps the persisted discount into a DTO.
func FromModel(m *models.Discount, productCount int64) *DiscountDTO {
	if m == nil {
		return nil
	}
	return &DiscountDTO{
		ID:           m.ID,
		StoreID:      m.StoreID,
		Name:         m.Name,
		Percentage:   m.Percentage,
		Description:  m.Description,
		IsActive:     m.IsActive,
		ProductCount: productCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func productDTOs(products []models.Product) []DiscountProductDTO {
	out := make([]DiscountProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, DiscountProductDTO{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return out
}
