package payloads

import (
	"time"

	"github.com/google/uuid"
)

// SaleRecordedEvent is emitted when a checkout finishes and a sale is persisted.
type SaleRecordedEvent struct {
	SaleID    uuid.UUID `json:"sale_id"`
	UserID    uuid.UUID `json:"user_id"`
	Total     string    `json:"total"`
	LineCount int       `json:"line_count"`
	SoldAt    time.Time `json:"sold_at"`
}

// ProfileUpdatedEvent is emitted when merchant profile details change.
type ProfileUpdatedEvent struct {
	UserID   uuid.UUID `json:"user_id"`
	ShopName string    `json:"shop_name"`
	PhotoSet bool      `json:"photo_set"`
}
