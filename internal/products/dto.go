package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
	"github.com/ojvaldez/storefront-admin-backend/pkg/pagination"
)

// ProductImageDTO is one externally hosted image URL with display order.
type ProductImageDTO struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
}

// ProductDTO exposes a product in API responses.
type ProductDTO struct {
	ID         uuid.UUID         `json:"id"`
	StoreID    uuid.UUID         `json:"storeId"`
	CategoryID uuid.UUID         `json:"categoryId"`
	SizeID     uuid.UUID         `json:"sizeId"`
	ColorID    uuid.UUID         `json:"colorId"`
	DiscountID *uuid.UUID        `json:"discountId,omitempty"`
	Name       string            `json:"name"`
	Price      decimal.Decimal   `json:"price"`
	IsFeatured bool              `json:"isFeatured"`
	IsArchived bool              `json:"isArchived"`
	Images     []ProductImageDTO `json:"images"`
	Category   *string           `json:"category,omitempty"`
	Size       *string           `json:"size,omitempty"`
	Color      *string           `json:"color,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// CreateProductInput captures creation-time product data.
type CreateProductInput struct {
	Name       string
	Price      decimal.Decimal
	CategoryID uuid.UUID
	SizeID     uuid.UUID
	ColorID    uuid.UUID
	ImageURLs  []string
	IsFeatured bool
	IsArchived bool
}

// UpdateProductInput fully replaces the product's mutable attributes and its
// image set.
type UpdateProductInput struct {
	Name       string
	Price      decimal.Decimal
	CategoryID uuid.UUID
	SizeID     uuid.UUID
	ColorID    uuid.UUID
	ImageURLs  []string
	IsFeatured *bool
	IsArchived *bool
}

// ListFilters describe the supported filter knobs for the product list.
type ListFilters struct {
	CategoryID *uuid.UUID
	SizeID     *uuid.UUID
	ColorID    *uuid.UUID
	DiscountID *uuid.UUID
	IsFeatured *bool
	IsArchived *bool
}

// ListInput captures the inputs needed to paginate and filter products.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ProductPage is one page of the cursor-paginated product list.
type ProductPage struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// FromModel maps the persisted product into a DTO.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:         m.ID,
		StoreID:    m.StoreID,
		CategoryID: m.CategoryID,
		SizeID:     m.SizeID,
		ColorID:    m.ColorID,
		DiscountID: m.DiscountID,
		Name:       m.Name,
		Price:      m.Price,
		IsFeatured: m.IsFeatured,
		IsArchived: m.IsArchived,
		Images:     make([]ProductImageDTO, 0, len(m.Images)),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	for _, img := range m.Images {
		dto.Images = append(dto.Images, ProductImageDTO{ID: img.ID, URL: img.URL, Position: img.Position})
	}
	if m.Category != nil {
		dto.Category = &m.Category.Name
	}
	if m.Size != nil {
		dto.Size = &m.Size.Name
	}
	if m.Color != nil {
		dto.Color = &m.Color.Name
	}
	return dto
}
