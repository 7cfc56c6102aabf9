package profiles

import (
	"time"

	"github.com/thihanaing/minpos-backend/pkg/db/models"
)

// ProfileDTO is the API-facing shape of the merchant profile.
type ProfileDTO struct {
	ShopName    string     `json:"shop_name"`
	Address     string     `json:"address"`
	Salesperson string     `json:"salesperson"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// UpdateProfileDTO carries a partial profile mutation. Nil fields stay
// untouched.
type UpdateProfileDTO struct {
	ShopName    *string
	Address     *string
	Salesperson *string
}

// FromModel maps a persistence model into the profile DTO.
func FromModel(profile *models.MerchantProfile) *ProfileDTO {
	if profile == nil {
		return &ProfileDTO{}
	}
	updatedAt := profile.UpdatedAt
	return &ProfileDTO{
		ShopName:    profile.ShopName,
		Address:     profile.Address,
		Salesperson: profile.Salesperson,
		PhotoURL:    profile.PhotoURL,
		UpdatedAt:   &updatedAt,
	}
}
