package order

import "github.com/xraph/tab/types"

// DefaultTaxRateBP is the default tax rate in basis points (10%).
const DefaultTaxRateBP = 1000

// Totals is the monetary summary of an order.
// Invariant: Total = Subtotal + TaxAmount - Discount, never negative.
type Totals struct {
	Subtotal  types.Money
	TaxAmount types.Money
	Discount  types.Money
	Total     types.Money
}

// ComputeTotals is the single source of truth for order totals.
// It is pure and deterministic:
//
//	subtotal = Σ price × quantity
//	tax      = round-half-up(subtotal × rate)
//	total    = subtotal + tax − discount
//
// The discount is capped at subtotal + tax so the total never goes
// negative. currency seeds the zero values when the item list is empty.
func ComputeTotals(items []Item, discount types.Money, taxRateBP int64, currency string) Totals {
	subtotal := types.Zero(currency)
	for _, it := range items {
		subtotal = subtotal.Add(it.Price.Multiply(it.Quantity))
	}

	tax := subtotal.PercentOf(taxRateBP)

	if discount.Currency == "" {
		discount = types.Zero(subtotal.Currency)
	}
	gross := subtotal.Add(tax)
	if discount.GreaterThan(gross) {
		discount = gross
	}

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Discount:  discount,
		Total:     gross.Subtract(discount),
	}
}

// ApplyTotals writes a computed Totals onto the order.
func (o *Order) ApplyTotals(t Totals) {
	o.Subtotal = t.Subtotal
	o.TaxAmount = t.TaxAmount
	o.Discount = t.Discount
	o.Total = t.Total
}
