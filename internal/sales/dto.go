package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thihanaing/minpos-backend/pkg/db/models"
)

// SaleLineDTO is one snapshotted line of a recorded sale.
type SaleLineDTO struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Position  int             `json:"position"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleDTO is the API-facing shape of a recorded sale.
type SaleDTO struct {
	ID          uuid.UUID       `json:"id"`
	Total       decimal.Decimal `json:"total"`
	ShopName    string          `json:"shop_name"`
	Address     string          `json:"address"`
	Salesperson string          `json:"salesperson"`
	SoldAt      time.Time       `json:"sold_at"`
	Lines       []SaleLineDTO   `json:"lines"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ReportDTO aggregates the sales inside an inclusive date range.
type ReportDTO struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Revenue   decimal.Decimal `json:"revenue"`
	SaleCount int             `json:"sale_count"`
	Sales     []SaleDTO       `json:"sales"`
}

// FromModel maps a persistence model into the sale DTO.
func FromModel(sale *models.Sale) *SaleDTO {
	if sale == nil {
		return nil
	}
	lines := make([]SaleLineDTO, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		lines = append(lines, SaleLineDTO{
			ItemID:    line.ItemID,
			Position:  line.Position,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.UnitPrice.Mul(qty),
		})
	}
	return &SaleDTO{
		ID:          sale.ID,
		Total:       sale.Total,
		ShopName:    sale.ShopName,
		Address:     sale.Address,
		Salesperson: sale.Salesperson,
		SoldAt:      sale.SoldAt,
		Lines:       lines,
		CreatedAt:   sale.CreatedAt,
	}
}
