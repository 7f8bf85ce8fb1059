// Package sale derives the sales ledger — the deduplicated record of
// settled orders — and answers revenue aggregation queries over it.
package sale

import (
	"strings"
	"time"

	"github.com/xraph/tab/order"
	"github.com/xraph/tab/types"
)

// Sale is one settled order as recorded in the ledger. Its ID is the
// source order's ID, which is what the ledger deduplicates on.
type Sale struct {
	ID          string              `json:"id"`
	Date        time.Time           `json:"date"`
	Total       types.Money         `json:"total"`
	Method      order.PaymentMethod `json:"payment_method"`
	Items       []order.Item        `json:"items"`
	TableID     string              `json:"table_id,omitempty"`
	CustomerKey string              `json:"customer_key,omitempty"`
}

// Settled reports whether an order belongs in the sales ledger:
// terminally paid, or carrying the legacy "completed" status from older
// records together with a payment method.
func Settled(o *order.Order) bool {
	if o.Status == order.StatusPaid && o.Paid {
		return true
	}
	return o.Status == order.LegacyStatusCompleted && o.Method != ""
}

// FromOrder maps a settled order to its ledger entry.
func FromOrder(o *order.Order) *Sale {
	total := o.Total
	if total.Currency == "" && len(o.Items) > 0 {
		// Older records may lack a stored total; recompute from items.
		// A stored total of zero (fully comped order) is kept as-is.
		total = types.Zero(o.Items[0].Price.Currency)
		for _, it := range o.Items {
			total = total.Add(it.Price.Multiply(it.Quantity))
		}
	}

	return &Sale{
		ID:          o.ID.String(),
		Date:        saleDate(o),
		Total:       total,
		Method:      o.Method,
		Items:       append([]order.Item(nil), o.Items...),
		TableID:     o.TableID,
		CustomerKey: strings.ToLower(strings.TrimSpace(o.CustomerName)),
	}
}

// saleDate picks the first present timestamp in preference order:
// paid time, completion time, last update, order date, creation time.
func saleDate(o *order.Order) time.Time {
	switch {
	case o.PaidAt != nil && !o.PaidAt.IsZero():
		return *o.PaidAt
	case o.CompletedAt != nil && !o.CompletedAt.IsZero():
		return *o.CompletedAt
	case !o.UpdatedAt.IsZero():
		return o.UpdatedAt
	case !o.OrderDate.IsZero():
		return o.OrderDate
	default:
		return o.CreatedAt
	}
}
