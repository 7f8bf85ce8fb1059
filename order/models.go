// Package order defines the order and order-item data model for Tab,
// the shared status vocabulary, and the totals calculator.
package order

import (
	"time"

	"github.com/xraph/tab/id"
	"github.com/xraph/tab/types"
)

// PaymentMethod identifies how an order was (or will be) paid.
type PaymentMethod string

// Payment method vocabulary.
const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "creditCard"
	PaymentDebitCard  PaymentMethod = "debitCard"
	PaymentQRCode     PaymentMethod = "qrCode"
	PaymentElectronic PaymentMethod = "electronic"
	PaymentInvoice    PaymentMethod = "invoice"
)

// Order is a customer's set of requested items plus monetary and status
// metadata. Orders are created and mutated through the engine, never by
// direct store writes; totals are always the output of ComputeTotals.
type Order struct {
	types.Entity
	ID           id.OrderID    `json:"id"`
	Number       string        `json:"number"` // "<YYYYMMDD>-<NNN>", unique per day
	TableID      string        `json:"table_id,omitempty"`
	CustomerName string        `json:"customer_name"`
	Status       Status        `json:"status"`
	Items        []Item        `json:"items"`
	Subtotal     types.Money   `json:"subtotal"`
	TaxAmount    types.Money   `json:"tax_amount"`
	Discount     types.Money   `json:"discount"`
	Total        types.Money   `json:"total"`
	Method       PaymentMethod `json:"payment_method,omitempty"`
	Paid         bool          `json:"paid"`
	PaidAt       *time.Time    `json:"paid_at,omitempty"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	OrderDate    time.Time     `json:"order_date"`
}

// Item is one line within an order: a menu item reference, quantity,
// customization choices, and its own status.
type Item struct {
	ID         id.ItemID         `json:"id"`
	MenuItemID string            `json:"menu_item_id"`
	Name       string            `json:"name"`
	Category   string            `json:"category,omitempty"`
	Price      types.Money       `json:"price"` // per unit
	Quantity   int64             `json:"quantity"`
	Options    map[string]string `json:"options,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Status     Status            `json:"status"`
}

// ItemPatch carries the mutable fields of an Item for partial updates.
// Nil pointer fields are left unchanged.
type ItemPatch struct {
	Name     *string
	Price    *types.Money
	Quantity *int64
	Options  map[string]string
	Notes    *string
}

// Apply copies the non-nil patch fields onto the item.
func (p ItemPatch) Apply(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.Options != nil {
		it.Options = p.Options
	}
	if p.Notes != nil {
		it.Notes = *p.Notes
	}
}

// FindItem returns a pointer to the item with the given ID, or nil.
func (o *Order) FindItem(itemID id.ItemID) *Item {
	for i := range o.Items {
		if o.Items[i].ID.String() == itemID.String() {
			return &o.Items[i]
		}
	}
	return nil
}

// RemoveItem deletes the item with the given ID, preserving insertion
// order of the rest. Returns false if no such item exists.
func (o *Order) RemoveItem(itemID id.ItemID) bool {
	for i := range o.Items {
		if o.Items[i].ID.String() == itemID.String() {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return true
		}
	}
	return false
}

// ListOpts filters ListOrders results.
type ListOpts struct {
	Status  Status
	TableID string
	Start   time.Time // order date window, inclusive
	End     time.Time // order date window, exclusive
	Limit   int
	Offset  int
}
