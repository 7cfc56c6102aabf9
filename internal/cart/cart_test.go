package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestAddMergesExistingLine(t *testing.T) {
	var c Cart
	itemID := uuid.New()
	price := decimal.NewFromInt(1000)

	c.Add(itemID, "Tea", price)
	c.Add(itemID, "Tea", price)

	if len(c.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(c.Lines))
	}
	if c.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", c.Lines[0].Quantity)
	}
}

func TestAddAppendsNewLines(t *testing.T) {
	var c Cart
	first := uuid.New()
	second := uuid.New()

	c.Add(first, "Tea", decimal.NewFromInt(1000))
	c.Add(second, "Coffee", decimal.NewFromInt(500))

	if len(c.Lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(c.Lines))
	}
	if c.Lines[0].ItemID != first || c.Lines[1].ItemID != second {
		t.Fatalf("expected insertion order preserved")
	}
	if c.Lines[1].Quantity != 1 {
		t.Fatalf("new line should start at quantity 1, got %d", c.Lines[1].Quantity)
	}
}

func TestSetQuantityBelowOneRemovesLine(t *testing.T) {
	var c Cart
	itemID := uuid.New()
	c.Add(itemID, "Tea", decimal.NewFromInt(1000))

	if !c.SetQuantity(itemID, 0) {
		t.Fatalf("expected item to be found")
	}
	if !c.IsEmpty() {
		t.Fatalf("expected cart to be empty after removal")
	}
}

func TestSetQuantityUnknownItem(t *testing.T) {
	var c Cart
	c.Add(uuid.New(), "Tea", decimal.NewFromInt(1000))

	if c.SetQuantity(uuid.New(), 3) {
		t.Fatalf("expected unknown item to report false")
	}
	if len(c.Lines) != 1 {
		t.Fatalf("cart should be unchanged")
	}
}

func TestTotalSumsLines(t *testing.T) {
	var c Cart
	tea := uuid.New()
	coffee := uuid.New()

	c.Add(tea, "Tea", decimal.NewFromInt(1000))
	c.Add(tea, "Tea", decimal.NewFromInt(1000))
	c.Add(coffee, "Coffee", decimal.NewFromInt(500))

	want := decimal.NewFromInt(2500)
	if got := c.Total(); !got.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, got)
	}
}

func TestTotalEmptyCartIsZero(t *testing.T) {
	var c Cart
	if got := c.Total(); !got.IsZero() {
		t.Fatalf("expected zero total, got %s", got)
	}
}
