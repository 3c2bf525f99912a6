package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
)

// StoreDTO exposes tenant data in API responses.
type StoreDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:        m.ID,
		Name:      m.Name,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a slice of stores.
func FromModels(ms []models.Store) []StoreDTO {
	out := make([]StoreDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}
