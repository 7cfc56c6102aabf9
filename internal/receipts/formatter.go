package receipts

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thihanaing/minpos-backend/internal/sales"
)

const (
	receiptWidth = 40
	nameColumn   = 20
	qtyColumn    = 5
	dateLayout   = "02/01/2006, 15:04:05"
)

// Line is one printed receipt row.
type Line struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Receipt is the structured form of a sale receipt: header, metadata,
// line table and grand total, independent of any print layout.
type Receipt struct {
	ShopName    string          `json:"shop_name"`
	Address     string          `json:"address,omitempty"`
	Salesperson string          `json:"salesperson,omitempty"`
	SoldAt      time.Time       `json:"sold_at"`
	Lines       []Line          `json:"lines"`
	Total       decimal.Decimal `json:"total"`
}

// Formatter turns a recorded sale into a receipt value and renders the
// plain-text form suitable for thermal printers and print dialogs.
type Formatter struct{}

// NewFormatter builds a receipt formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format produces the structured receipt for a sale. SoldAt is converted
// to the provided location.
func (f *Formatter) Format(sale *sales.SaleDTO, loc *time.Location) Receipt {
	if sale == nil {
		return Receipt{Lines: []Line{}, Total: decimal.Zero}
	}
	if loc == nil {
		loc = time.UTC
	}

	lines := make([]Line, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		lines = append(lines, Line{
			Name:     line.Name,
			Quantity: line.Quantity,
			Subtotal: line.LineTotal,
		})
	}

	return Receipt{
		ShopName:    sale.ShopName,
		Address:     sale.Address,
		Salesperson: sale.Salesperson,
		SoldAt:      sale.SoldAt.In(loc),
		Lines:       lines,
		Total:       sale.Total,
	}
}

// Render produces the receipt text for a sale. SoldAt is shown in the
// provided location.
func (f *Formatter) Render(sale *sales.SaleDTO, loc *time.Location) string {
	if sale == nil {
		return ""
	}
	receipt := f.Format(sale, loc)

	var b strings.Builder
	divider := strings.Repeat("-", receiptWidth)

	writeCentered(&b, receipt.ShopName)
	if receipt.Address != "" {
		writeCentered(&b, receipt.Address)
	}
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "ရက်စွဲ: %s\n", receipt.SoldAt.Format(dateLayout))
	if receipt.Salesperson != "" {
		fmt.Fprintf(&b, "အရောင်းဝန်ထမ်း: %s\n", receipt.Salesperson)
	}
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "%-*s %*s %s\n", nameColumn, "ပစ္စည်း", qtyColumn, "အရေအတွက်", "ကျသင့်ငွေ")
	for _, line := range receipt.Lines {
		amount := formatAmount(line.Subtotal)
		fmt.Fprintf(&b, "%-*s %*d %*s\n",
			nameColumn, line.Name,
			qtyColumn, line.Quantity,
			receiptWidth-nameColumn-qtyColumn-2, amount)
	}
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "%*s\n", receiptWidth, fmt.Sprintf("စုစုပေါင်း: %s Ks", formatAmount(receipt.Total)))
	b.WriteString("\n")
	writeCentered(&b, "*** ဝယ်ယူအားပေးမှုအတွက် ကျေးဇူးတင်ပါသည် ***")

	return b.String()
}

func writeCentered(b *strings.Builder, text string) {
	runes := len([]rune(text))
	pad := (receiptWidth - runes) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + text + "\n")
}

// formatAmount prints a kyat amount with thousands separators, dropping the
// fraction when it is zero.
func formatAmount(value decimal.Decimal) string {
	text := value.StringFixed(2)
	text = strings.TrimSuffix(text, ".00")

	intPart, fracPart, hasFrac := strings.Cut(text, ".")
	negative := strings.HasPrefix(intPart, "-")
	if negative {
		intPart = intPart[1:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ",")
	if negative {
		out = "-" + out
	}
	if hasFrac {
		out += "." + fracPart
	}
	return out
}
