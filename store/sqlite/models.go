package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/tab/id"
	"github.com/xraph/tab/order"
	"github.com/xraph/tab/types"
)

// ==================== Order models ====================

type orderModel struct {
	grove.BaseModel `grove:"table:pos_orders"`

	ID            string          `grove:"id,pk"`
	Number        string          `grove:"number"`
	TableID       string          `grove:"table_id"`
	CustomerName  string          `grove:"customer_name"`
	Status        string          `grove:"status"`
	Items         json.RawMessage `grove:"items"`
	SubtotalCents int64           `grove:"subtotal_cents"`
	TaxCents      int64           `grove:"tax_cents"`
	DiscountCents int64           `grove:"discount_cents"`
	TotalCents    int64           `grove:"total_cents"`
	Currency      string          `grove:"currency"`
	Method        string          `grove:"method"`
	Paid          bool            `grove:"paid"`
	PaidAt        *time.Time      `grove:"paid_at"`
	CompletedAt   *time.Time      `grove:"completed_at"`
	Notes         string          `grove:"notes"`
	OrderDate     time.Time       `grove:"order_date"`
	CreatedAt     time.Time       `grove:"created_at"`
	UpdatedAt     time.Time       `grove:"updated_at"`
}

func toOrderModel(o *order.Order) *orderModel {
	items, _ := json.Marshal(o.Items) //nolint:errcheck // best-effort

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

	var items []order.Item
	if len(m.Items) > 0 {
		_ = json.Unmarshal(m.Items, &items) //nolint:errcheck // best-effort
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

	Name      string    `grove:"name,pk"`
	Value     bool      `grove:"value"`
	UpdatedAt time.Time `grove:"updated_at"`
}
