package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thihanaing/minpos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles sale persistence. Sales are append-only; there is no
// update or delete path.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to sales operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts the sale and its lines inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, sale *models.Sale) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if sale == nil {
		return fmt.Errorf("sale is required")
	}
	return tx.Create(sale).Error
}

// FindByID loads a sale with its lines, scoped to the owning user.
func (r *Repository) FindByID(ctx context.Context, userID, saleID uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ? AND user_id = ?", saleID, userID).
		First(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindRange returns the user's sales with sold_at inside [start, end),
// newest first.
func (r *Repository) FindRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ? AND sold_at >= ? AND sold_at < ?", userID, start, end).
		Order("sold_at DESC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
