package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart entry holding the item snapshot taken when it was added.
type Line struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Cart is the open order for a single merchant. Line order is preserved
// in the order items were first added.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add merges the item into the cart: an existing line gains one unit,
// otherwise a new line with quantity one is appended.
func (c *Cart) Add(itemID uuid.UUID, name string, unitPrice decimal.Decimal) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ItemID:    itemID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
}

// SetQuantity replaces the quantity of the matching line. Quantities below
// one remove the line. Returns false when the item is not in the cart.
func (c *Cart) SetQuantity(itemID uuid.UUID, quantity int) bool {
	for i := range c.Lines {
		if c.Lines[i].ItemID != itemID {
			continue
		}
		if quantity < 1 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
		c.Lines[i].Quantity = quantity
		return true
	}
	return false
}

// Remove drops the matching line. Returns false when the item is not present.
func (c *Cart) Remove(itemID uuid.UUID) bool {
	return c.SetQuantity(itemID, 0)
}

// Total sums unit price times quantity across all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.Lines = nil
}
