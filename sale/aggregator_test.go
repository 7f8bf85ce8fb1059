package sale

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/tab/id"
	"github.com/xraph/tab/notify"
	"github.com/xraph/tab/order"
	"github.com/xraph/tab/store/memory"
	"github.com/xraph/tab/types"
)

func settledOrder(t *testing.T, st *memory.Store, date time.Time, method order.PaymentMethod, cents int64, items ...order.Item) *order.Order {
	t.Helper()

	paidAt := date
	o := &order.Order{
		Entity:    types.EntityAt(date),
		ID:        id.NewOrderID(),
		Number:    date.Format("20060102") + "-001",
		Status:    order.StatusPaid,
		Items:     items,
		Total:     types.USD(cents),
		Method:    method,
		Paid:      true,
		PaidAt:    &paidAt,
		OrderDate: date,
	}
	if err := st.CreateOrder(context.Background(), o); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return o
}

func openOrder(t *testing.T, st *memory.Store, date time.Time) *order.Order {
	t.Helper()

	o := &order.Order{
		Entity:    types.EntityAt(date),
		ID:        id.NewOrderID(),
		Status:    order.StatusNew,
		Items:     []order.Item{{ID: id.NewItemID(), Name: "Coffee", Price: types.USD(300), Quantity: 1, Status: order.StatusNew}},
		Total:     types.USD(330),
		OrderDate: date,
	}
	if err := st.CreateOrder(context.Background(), o); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return o
}

func TestSettled(t *testing.T) {
	tests := []struct {
		name string
		o    order.Order
		want bool
	}{
		{"paid with flag", order.Order{Status: order.StatusPaid, Paid: true}, true},
		{"paid status without flag", order.Order{Status: order.StatusPaid}, false},
		{"legacy completed with method", order.Order{Status: order.LegacyStatusCompleted, Method: order.PaymentCash}, true},
		{"legacy completed without method", order.Order{Status: order.LegacyStatusCompleted}, false},
		{"open order", order.Order{Status: order.StatusNew}, false},
		{"canceled", order.Order{Status: order.StatusCanceled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Settled(&tt.o); got != tt.want {
				t.Errorf("Settled: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromOrderRecomputesMissingTotal(t *testing.T) {
	o := &order.Order{
		ID:     id.NewOrderID(),
		Status: order.LegacyStatusCompleted,
		Method: order.PaymentCash,
		Items: []order.Item{
			{Price: types.USD(850), Quantity: 2},
			{Price: types.USD(450), Quantity: 1},
		},
	}

	s := FromOrder(o)
	if s.Total.Amount != 2150 {
		t.Errorf("recomputed total: got %d, want 2150", s.Total.Amount)
	}
}

func TestFromOrderKeepsCompedZeroTotal(t *testing.T) {
	// Fully discounted order: the stored total is a genuine zero, not a
	// missing value, and must not be recomputed from the items.
	o := &order.Order{
		ID:       id.NewOrderID(),
		Status:   order.StatusPaid,
		Paid:     true,
		Method:   order.PaymentCash,
		Items:    []order.Item{{Price: types.USD(850), Quantity: 2}},
		Subtotal: types.USD(1700),
		Discount: types.USD(1870),
		Total:    types.USD(0),
	}

	s := FromOrder(o)
	if !s.Total.IsZero() {
		t.Errorf("comped order total: got %d, want 0", s.Total.Amount)
	}
	if s.Total.Currency != "usd" {
		t.Errorf("Currency: got %q, want usd", s.Total.Currency)
	}
}

func TestFromOrderCustomerKey(t *testing.T) {
	o := &order.Order{
		ID:           id.NewOrderID(),
		CustomerName: "  Rivera ",
		Total:        types.USD(100),
	}
	if got := FromOrder(o).CustomerKey; got != "rivera" {
		t.Errorf("CustomerKey: got %q, want %q", got, "rivera")
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	day := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	settledOrder(t, st, day, order.PaymentCash, 2365)
	settledOrder(t, st, day, order.PaymentCreditCard, 1200)
	openOrder(t, st, day)

	a := NewAggregator(st, notify.New())

	if err := a.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if a.Len() != 2 {
		t.Fatalf("entries after first rebuild: got %d, want 2", a.Len())
	}

	// Unchanged collection: second rebuild adds nothing.
	if err := a.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if a.Len() != 2 {
		t.Errorf("entries after second rebuild: got %d, want 2", a.Len())
	}
}

func TestAggregatorReactsToEvents(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	n := notify.New()

	day := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	settledOrder(t, st, day, order.PaymentCash, 2365)

	a := NewAggregator(st, n)
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer a.Stop()

	if a.Len() != 1 {
		t.Fatalf("entries after start: got %d, want 1", a.Len())
	}

	// Settle another order, then signal the change.
	o := settledOrder(t, st, day.Add(time.Hour), order.PaymentQRCode, 1100)
	n.Publish(notify.TopicOrders, notify.Event{Kind: notify.KindOrderSettled, OrderID: o.ID.String()})

	deadline := time.Now().Add(2 * time.Second)
	for a.Len() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("ledger never picked up the new sale, entries=%d", a.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	// Monday June 10 2024 at noon and 7pm, plus one sale the previous week.
	mon := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	settledOrder(t, st, mon, order.PaymentCash, 2365, order.Item{
		Name: "Burger", Category: "mains", Price: types.USD(850), Quantity: 2,
	}, order.Item{
		Name: "Fries", Category: "sides", Price: types.USD(450), Quantity: 1,
	})
	settledOrder(t, st, mon.Add(7*time.Hour), order.PaymentCreditCard, 1200, order.Item{
		Name: "Pizza", Price: types.USD(1200), Quantity: 1,
	})
	settledOrder(t, st, mon.AddDate(0, 0, -7), order.PaymentCash, 999)

	a := NewAggregator(st, notify.New())
	if err := a.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	t.Run("ByDay", func(t *testing.T) {
		got := a.ByDay(mon)
		if got.Count != 2 || got.Gross.Amount != 3565 {
			t.Errorf("got %+v, want count 2 gross 3565", got)
		}
	})

	t.Run("ByWeek", func(t *testing.T) {
		got := a.ByWeek(mon)
		if got.Count != 2 || got.Gross.Amount != 3565 {
			t.Errorf("got %+v, want count 2 gross 3565", got)
		}

		prev := a.ByWeek(mon.AddDate(0, 0, -7))
		if prev.Count != 1 || prev.Gross.Amount != 999 {
			t.Errorf("previous week: got %+v, want count 1 gross 999", prev)
		}
	})

	t.Run("ByMonth", func(t *testing.T) {
		got := a.ByMonth(2024, time.June)
		if got.Count != 3 || got.Gross.Amount != 4564 {
			t.Errorf("got %+v, want count 3 gross 4564", got)
		}

		empty := a.ByMonth(2024, time.January)
		if empty.Count != 0 || !empty.Gross.IsZero() {
			t.Errorf("empty month: got %+v", empty)
		}
	})

	t.Run("ByPaymentMethod", func(t *testing.T) {
		got := a.ByPaymentMethod()
		if got[order.PaymentCash].Amount != 3364 {
			t.Errorf("cash: got %d, want 3364", got[order.PaymentCash].Amount)
		}
		if got[order.PaymentCreditCard].Amount != 1200 {
			t.Errorf("creditCard: got %d, want 1200", got[order.PaymentCreditCard].Amount)
		}
	})

	t.Run("ByCategory", func(t *testing.T) {
		got := a.ByCategory()
		if got["mains"].Amount != 1700 {
			t.Errorf("mains: got %d, want 1700", got["mains"].Amount)
		}
		if got["sides"].Amount != 450 {
			t.Errorf("sides: got %d, want 450", got["sides"].Amount)
		}
		if got["uncategorized"].Amount != 1200 {
			t.Errorf("uncategorized: got %d, want 1200", got["uncategorized"].Amount)
		}
	})

	t.Run("ByHour", func(t *testing.T) {
		got := a.ByHour(mon)
		if got[12].Count != 1 || got[12].Gross.Amount != 2365 {
			t.Errorf("hour 12: got %+v", got[12])
		}
		if got[19].Count != 1 || got[19].Gross.Amount != 1200 {
			t.Errorf("hour 19: got %+v", got[19])
		}
		if got[0].Count != 0 {
			t.Errorf("hour 0 should be empty: %+v", got[0])
		}
	})
}
