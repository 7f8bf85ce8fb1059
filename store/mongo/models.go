package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/tab/id"
	"github.com/xraph/tab/order"
	"github.com/xraph/tab/types"
)

// ==================== Order models ====================

type orderModel struct {
	grove.BaseModel `grove:"table:pos_orders"`

	ID            string      `grove:"id,pk"          bson:"_id"`
	Number        string      `grove:"number"         bson:"number"`
	TableID       string      `grove:"table_id"       bson:"table_id"`
	CustomerName  string      `grove:"customer_name"  bson:"customer_name"`
	Status        string      `grove:"status"         bson:"status"`
	Items         []itemModel `grove:"items"          bson:"items"`
	SubtotalCents int64       `grove:"subtotal_cents" bson:"subtotal_cents"`
	TaxCents      int64       `grove:"tax_cents"      bson:"tax_cents"`
	DiscountCents int64       `grove:"discount_cents" bson:"discount_cents"`
	TotalCents    int64       `grove:"total_cents"    bson:"total_cents"`
	Currency      string      `grove:"currency"       bson:"currency"`
	Method        string      `grove:"method"         bson:"method"`
	Paid          bool        `grove:"paid"           bson:"paid"`
	PaidAt        *time.Time  `grove:"paid_at"        bson:"paid_at,omitempty"`
	CompletedAt   *time.Time  `grove:"completed_at"   bson:"completed_at,omitempty"`
	Notes         string      `grove:"notes"          bson:"notes"`
	OrderDate     time.Time   `grove:"order_date"     bson:"order_date"`
	CreatedAt     time.Time   `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time   `grove:"updated_at"     bson:"updated_at"`
}

type itemModel struct {
	ID         string            `bson:"id"`
	MenuItemID string            `bson:"menu_item_id"`
	Name       string            `bson:"name"`
	Category   string            `bson:"category,omitempty"`
	PriceCents int64             `bson:"price_cents"`
	Currency   string            `bson:"currency"`
	Quantity   int64             `bson:"quantity"`
	Options    map[string]string `bson:"options,omitempty"`
	Notes      string            `bson:"notes,omitempty"`
	Status     string            `bson:"status"`
}

func toOrderModel(o *order.Order) *orderModel {
	items := make([]itemModel, len(o.Items))
	for i, it := range o.Items {
		items[i] = itemModel{
			ID:         it.ID.String(),
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Category:   it.Category,
			PriceCents: it.Price.Amount,
			Currency:   it.Price.Currency,
			Quantity:   it.Quantity,
			Options:    it.Options,
			Notes:      it.Notes,
			Status:     string(it.Status),
		}
	}

	return &orderModel{
		ID:            o.ID.String(),
		Number:        o.Number,
		TableID:       o.TableID,
		CustomerName:  o.CustomerName,
		Status:        string(o.Status),
		Items:         items,
		SubtotalCents: o.Subtotal.Amount,
		TaxCents:      o.TaxAmount.Amount,
		DiscountCents: o.Discount.Amount,
		TotalCents:    o.Total.Amount,
		Currency:      o.Total.Currency,
		Method:        string(o.Method),
		Paid:          o.Paid,
		PaidAt:        o.PaidAt,
		CompletedAt:   o.CompletedAt,
		Notes:         o.Notes,
		OrderDate:     o.OrderDate,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func fromOrderModel(m *orderModel) (*order.Order, error) {
	orderID, err := id.ParseOrderID(m.ID)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, len(m.Items))
	for i, im := range m.Items {
		itemID, err := id.ParseItemID(im.ID)
		if err != nil {
			return nil, err
		}
		items[i] = order.Item{
			ID:         itemID,
			MenuItemID: im.MenuItemID,
			Name:       im.Name,
			Category:   im.Category,
			Price:      types.In(im.PriceCents, im.Currency),
			Quantity:   im.Quantity,
			Options:    im.Options,
			Notes:      im.Notes,
			Status:     order.Status(im.Status),
		}
	}

	return &order.Order{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           orderID,
		Number:       m.Number,
		TableID:      m.TableID,
		CustomerName: m.CustomerName,
		Status:       order.Status(m.Status),
		Items:        items,
		Subtotal:     types.In(m.SubtotalCents, m.Currency),
		TaxAmount:    types.In(m.TaxCents, m.Currency),
		Discount:     types.In(m.DiscountCents, m.Currency),
		Total:        types.In(m.TotalCents, m.Currency),
		Method:       order.PaymentMethod(m.Method),
		Paid:         m.Paid,
		PaidAt:       m.PaidAt,
		CompletedAt:  m.CompletedAt,
		Notes:        m.Notes,
		OrderDate:    m.OrderDate,
	}, nil
}

// ==================== Flag models ====================

type flagModel struct {
	grove.BaseModel `grove:"table:pos_flags"`

	Name      string    `grove:"name,pk"    bson:"_id"`
	Value     bool      `grove:"value"      bson:"value"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
}
