package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thihanaing/minpos-backend/pkg/db/models"
)

// ItemDTO is the API-facing shape of a catalog item.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateItemDTO carries the fields needed to add a catalog item.
type CreateItemDTO struct {
	Name  string
	Price decimal.Decimal
}

// UpdateItemDTO carries a partial item mutation. Nil fields stay untouched.
type UpdateItemDTO struct {
	Name  *string
	Price *decimal.Decimal
}

// FromModel maps a persistence model into the item DTO.
func FromModel(item *models.Item) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:        item.ID,
		Name:      item.Name,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
