package models

import (
	"time"

	"github.com/google/uuid"
)

// MerchantProfile carries the shop identity stamped onto receipts.
type MerchantProfile struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ShopName    string    `gorm:"column:shop_name;not null;default:''"`
	Address     string    `gorm:"column:address;not null;default:''"`
	Salesperson string    `gorm:"column:salesperson;not null;default:''"`
	PhotoURL    *string   `gorm:"column:photo_url"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
