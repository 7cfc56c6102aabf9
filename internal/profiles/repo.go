package profiles

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/thihanaing/minpos-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles merchant profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to profile operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUserID loads the user's merchant profile.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error) {
	var profile models.MerchantProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveWithTx upserts the profile inside the provided transaction. Each user
// owns at most one profile row, keyed by user_id.
func (r *Repository) SaveWithTx(tx *gorm.DB, profile *models.MerchantProfile) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if profile == nil {
		return fmt.Errorf("profile is required")
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"shop_name", "address", "salesperson", "photo_url", "updated_at"}),
	}).Create(profile).Error
}
