package receipts

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thihanaing/minpos-backend/internal/sales"
)

func sampleSale() *sales.SaleDTO {
	return &sales.SaleDTO{
		ID:          uuid.New(),
		Total:       decimal.NewFromInt(2500),
		ShopName:    "Shwe Coffee",
		Address:     "12 Bogyoke Road",
		Salesperson: "Thiha",
		SoldAt:      time.Date(2026, 1, 10, 14, 30, 0, 0, time.UTC),
		Lines: []sales.SaleLineDTO{
			{Name: "Latte", UnitPrice: decimal.NewFromInt(1000), Quantity: 2, LineTotal: decimal.NewFromInt(2000)},
			{Name: "Scone", UnitPrice: decimal.NewFromInt(500), Quantity: 1, LineTotal: decimal.NewFromInt(500)},
		},
	}
}

func TestFormatBuildsStructuredReceipt(t *testing.T) {
	sale := sampleSale()
	receipt := NewFormatter().Format(sale, time.UTC)

	if receipt.ShopName != "Shwe Coffee" || receipt.Salesperson != "Thiha" {
		t.Fatalf("unexpected header fields: %+v", receipt)
	}
	if len(receipt.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(receipt.Lines))
	}
	if receipt.Lines[0].Name != "Latte" || receipt.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected first line: %+v", receipt.Lines[0])
	}
	if !receipt.Lines[0].Subtotal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected subtotal: %s", receipt.Lines[0].Subtotal)
	}
	if !receipt.Total.Equal(sale.Total) {
		t.Fatalf("expected total %s, got %s", sale.Total, receipt.Total)
	}
	if !receipt.SoldAt.Equal(sale.SoldAt) {
		t.Fatalf("expected sold_at %s, got %s", sale.SoldAt, receipt.SoldAt)
	}
}

func TestFormatNilSale(t *testing.T) {
	receipt := NewFormatter().Format(nil, time.UTC)
	if len(receipt.Lines) != 0 || !receipt.Total.IsZero() {
		t.Fatalf("expected empty receipt, got %+v", receipt)
	}
}

func TestRenderContainsHeaderLinesAndTotal(t *testing.T) {
	text := NewFormatter().Render(sampleSale(), time.UTC)

	for _, want := range []string{
		"Shwe Coffee",
		"12 Bogyoke Road",
		"ရက်စွဲ: 10/01/2026, 14:30:00",
		"အရောင်းဝန်ထမ်း: Thiha",
		"Latte",
		"Scone",
		"စုစုပေါင်း: 2,500 Ks",
		"ကျေးဇူးတင်ပါသည်",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("receipt missing %q:\n%s", want, text)
		}
	}
}

func TestRenderShowsSoldAtInLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Yangon")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	text := NewFormatter().Render(sampleSale(), loc)
	// 14:30 UTC is 21:00 in Yangon (UTC+6:30).
	if !strings.Contains(text, "10/01/2026, 21:00:00") {
		t.Fatalf("expected Yangon local time on receipt:\n%s", text)
	}
}

func TestRenderNilSaleIsEmpty(t *testing.T) {
	if out := NewFormatter().Render(nil, time.UTC); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestFormatAmountGroupsThousands(t *testing.T) {
	cases := map[string]decimal.Decimal{
		"500":       decimal.NewFromInt(500),
		"2,500":     decimal.NewFromInt(2500),
		"1,234,567": decimal.NewFromInt(1234567),
		"1,500.50":  decimal.RequireFromString("1500.5"),
		"-2,000":    decimal.NewFromInt(-2000),
	}
	for want, value := range cases {
		if got := formatAmount(value); got != want {
			t.Fatalf("formatAmount(%s) = %q, want %q", value, got, want)
		}
	}
}
