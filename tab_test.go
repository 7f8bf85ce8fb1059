package tab_test

import (
	"context"
	"errors"
	"testing"
	"time"

	tab "github.com/xraph/tab"
	"github.com/xraph/tab/id"
	"github.com/xraph/tab/notify"
	"github.com/xraph/tab/order"
	"github.com/xraph/tab/store/memory"
	"github.com/xraph/tab/types"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func draft() *order.Order {
	return &order.Order{
		TableID: "t1",
		Items: []order.Item{
			{Name: "Burger", Category: "mains", Price: types.USD(850), Quantity: 2},
			{Name: "Fries", Category: "sides", Price: types.USD(450), Quantity: 1},
		},
	}
}

func newEngine(opts ...tab.Option) *tab.Tab {
	return tab.New(memory.New(), opts...)
}

func TestCreateOrderComputesTotalsAndIdentity(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	e := newEngine(tab.WithClock(fixedClock(day)))

	o, err := e.CreateOrder(ctx, draft())
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if o.ID.IsNil() {
		t.Error("order should have an ID")
	}
	if o.Status != order.StatusNew {
		t.Errorf("Status: got %s, want new", o.Status)
	}
	if o.Number != "20240610-001" {
		t.Errorf("Number: got %q, want 20240610-001", o.Number)
	}
	for _, it := range o.Items {
		if it.ID.IsNil() {
			t.Error("items should be assigned IDs")
		}
		if it.Status != order.StatusNew {
			t.Errorf("item status: got %s, want new", it.Status)
		}
	}

	// 850*2 + 450 = 2150, 10% tax 215, total 2365.
	if o.Subtotal.Amount != 2150 || o.TaxAmount.Amount != 215 || o.Total.Amount != 2365 {
		t.Errorf("totals: subtotal=%d tax=%d total=%d, want 2150/215/2365",
			o.Subtotal.Amount, o.TaxAmount.Amount, o.Total.Amount)
	}

	got, err := e.GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if !got.Total.Equal(o.Total) {
		t.Errorf("persisted total %v != returned total %v", got.Total, o.Total)
	}
}

func TestOrderNumbersAreSequentialPerDay(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	clock := day
	e := newEngine(tab.WithClock(func() time.Time { return clock }))

	for i, want := range []string{"20240610-001", "20240610-002", "20240610-003"} {
		o, err := e.CreateOrder(ctx, draft())
		if err != nil {
			t.Fatalf("CreateOrder %d: %v", i, err)
		}
		if o.Number != want {
			t.Errorf("order %d: Number got %q, want %q", i, o.Number, want)
		}
	}

	// Numbering restarts the next calendar day.
	clock = day.AddDate(0, 0, 1)
	o, err := e.CreateOrder(ctx, draft())
	if err != nil {
		t.Fatalf("CreateOrder next day: %v", err)
	}
	if o.Number != "20240611-001" {
		t.Errorf("next day Number: got %q, want 20240611-001", o.Number)
	}
}

func TestOrderNumbersContinueAfterDemoSeed(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)
	e := newEngine(tab.WithClock(fixedClock(day)), tab.WithDemoSeed())

	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Seeding leaves one open order dated today; user orders continue
	// the day's sequence rather than restarting or colliding.
	for i, want := range []string{"20240610-002", "20240610-003", "20240610-004"} {
		o, err := e.CreateOrder(ctx, draft())
		if err != nil {
			t.Fatalf("CreateOrder %d: %v", i, err)
		}
		if o.Number != want {
			t.Errorf("order %d: Number got %q, want %q", i, o.Number, want)
		}
	}

	all, err := e.ListOrders(ctx, order.ListOpts{})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	byDay := make(map[string]bool)
	for _, o := range all {
		key := o.OrderDate.Format("20060102") + "/" + o.Number
		if byDay[key] {
			t.Errorf("duplicate order number within a day: %s", key)
		}
		byDay[key] = true
	}
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	tests := []struct {
		name  string
		draft *order.Order
	}{
		{"nil draft", nil},
		{"no items", &order.Order{}},
		{"zero quantity", &order.Order{Items: []order.Item{{Name: "Burger", Price: types.USD(850)}}}},
		{"negative quantity", &order.Order{Items: []order.Item{{Name: "Burger", Price: types.USD(850), Quantity: -1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.CreateOrder(ctx, tt.draft)
			if !tab.IsValidation(err) {
				t.Errorf("got %v, want a validation error", err)
			}
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	e := newEngine(tab.WithClock(fixedClock(now)))

	o, _ := e.CreateOrder(ctx, draft())

	got, err := e.UpdateOrderStatus(ctx, o.ID, order.StatusInProgress)
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if got.Status != order.StatusInProgress {
		t.Errorf("Status: got %s, want inProgress", got.Status)
	}
	if got.CompletedAt != nil {
		t.Error("CompletedAt should not be set for inProgress")
	}

	got, err = e.UpdateOrderStatus(ctx, o.ID, order.StatusDelivered)
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if got.CompletedAt == nil {
		t.Error("delivered should stamp CompletedAt")
	}
}

func TestUpdateOrderStatusToPaidMarksPaid(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	got, err := e.UpdateOrderStatus(ctx, o.ID, order.StatusPaid)
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if !got.Paid || got.PaidAt == nil || got.CompletedAt == nil {
		t.Errorf("paid invariants broken: paid=%v paidAt=%v completedAt=%v",
			got.Paid, got.PaidAt, got.CompletedAt)
	}
	if got.Method != order.PaymentCash {
		t.Errorf("missing method should fall back to cash, got %s", got.Method)
	}
}

func TestItemStatusRollup(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	// First item delivered: order status must not move.
	got, err := e.UpdateItemStatus(ctx, o.ID, o.Items[0].ID, order.StatusDelivered)
	if err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	if got.Status != order.StatusNew {
		t.Errorf("partial rollup moved order status to %s", got.Status)
	}
	if got.CompletedAt != nil {
		t.Error("partial rollup should not stamp CompletedAt")
	}

	// Second item delivered: unanimous, order follows.
	got, err = e.UpdateItemStatus(ctx, o.ID, o.Items[1].ID, order.StatusDelivered)
	if err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	if got.Status != order.StatusDelivered {
		t.Errorf("unanimous rollup: got %s, want delivered", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("unanimous delivered should stamp CompletedAt")
	}
}

func TestUpdateItemStatusUnknownItem(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	_, err := e.UpdateItemStatus(ctx, o.ID, id.NewItemID(), order.StatusReady)
	if !errors.Is(err, tab.ErrItemNotFound) {
		t.Errorf("got %v, want ErrItemNotFound", err)
	}
}

func TestAddItemRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	got, err := e.AddItem(ctx, o.ID, order.Item{Name: "Cola", Price: types.USD(250), Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("items: got %d, want 3", len(got.Items))
	}
	// 2150 + 500 = 2650, tax 265, total 2915.
	if got.Total.Amount != 2915 {
		t.Errorf("Total: got %d, want 2915", got.Total.Amount)
	}
	if got.Items[2].Status != order.StatusNew {
		t.Errorf("new item should inherit order status, got %s", got.Items[2].Status)
	}

	if _, err := e.AddItem(ctx, o.ID, order.Item{Name: "Bad", Price: types.USD(100)}); !tab.IsValidation(err) {
		t.Errorf("zero quantity: got %v, want validation error", err)
	}
}

func TestUpdateItemRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	qty := int64(3)
	got, err := e.UpdateItem(ctx, o.ID, o.Items[0].ID, order.ItemPatch{Quantity: &qty})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	// 850*3 + 450 = 3000, tax 300, total 3300.
	if got.Total.Amount != 3300 {
		t.Errorf("Total: got %d, want 3300", got.Total.Amount)
	}

	bad := int64(0)
	if _, err := e.UpdateItem(ctx, o.ID, o.Items[0].ID, order.ItemPatch{Quantity: &bad}); !tab.IsValidation(err) {
		t.Errorf("zero quantity patch: got %v, want validation error", err)
	}
}

func TestRemoveItemRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	got, err := e.RemoveItem(ctx, o.ID, o.Items[1].ID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	// 850*2 = 1700, tax 170, total 1870.
	if len(got.Items) != 1 || got.Total.Amount != 1870 {
		t.Errorf("got %d items total %d, want 1 item total 1870", len(got.Items), got.Total.Amount)
	}

	if _, err := e.RemoveItem(ctx, o.ID, id.NewItemID()); !errors.Is(err, tab.ErrItemNotFound) {
		t.Errorf("unknown item: got %v, want ErrItemNotFound", err)
	}
}

func TestApplyDiscount(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	got, err := e.ApplyDiscount(ctx, o.ID, types.USD(365))
	if err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}
	if got.Total.Amount != 2000 {
		t.Errorf("Total after discount: got %d, want 2000", got.Total.Amount)
	}

	// Oversized discount is capped so the total floors at zero.
	got, err = e.ApplyDiscount(ctx, o.ID, types.USD(99999))
	if err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}
	if got.Total.Amount != 0 {
		t.Errorf("capped Total: got %d, want 0", got.Total.Amount)
	}

	if _, err := e.ApplyDiscount(ctx, o.ID, types.USD(-1)); !tab.IsValidation(err) {
		t.Errorf("negative discount: got %v, want validation error", err)
	}
}

func TestSettleCashComputesChange(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	rcpt, err := e.Settle(ctx, o.ID, order.PaymentCash, types.USD(2500))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if rcpt.Change.Amount != 135 {
		t.Errorf("Change: got %d, want 135", rcpt.Change.Amount)
	}
	if !rcpt.Order.Paid || rcpt.Order.Status != order.StatusPaid {
		t.Errorf("order not in paid state: paid=%v status=%s", rcpt.Order.Paid, rcpt.Order.Status)
	}
	if rcpt.Order.Method != order.PaymentCash {
		t.Errorf("Method: got %s, want cash", rcpt.Order.Method)
	}
	if rcpt.Order.PaidAt == nil || rcpt.Order.CompletedAt == nil {
		t.Error("settlement should stamp PaidAt and CompletedAt")
	}
}

func TestSettleCashRejections(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	if _, err := e.Settle(ctx, o.ID, order.PaymentCash); !errors.Is(err, tab.ErrTenderRequired) {
		t.Errorf("no tender: got %v, want ErrTenderRequired", err)
	}

	_, err := e.Settle(ctx, o.ID, order.PaymentCash, types.USD(2000))
	if !errors.Is(err, tab.ErrInsufficientPayment) {
		t.Errorf("short tender: got %v, want ErrInsufficientPayment", err)
	}

	// A rejected settlement must not mutate the order.
	got, _ := e.GetOrder(ctx, o.ID)
	if got.Paid || got.Status != order.StatusNew {
		t.Errorf("rejected settlement mutated order: paid=%v status=%s", got.Paid, got.Status)
	}
}

func TestSettleIsOnceOnly(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	if _, err := e.Settle(ctx, o.ID, order.PaymentCreditCard); err != nil {
		t.Fatalf("first Settle: %v", err)
	}

	_, err := e.Settle(ctx, o.ID, order.PaymentCash, types.USD(5000))
	if !errors.Is(err, tab.ErrOrderAlreadySettled) {
		t.Errorf("second Settle: got %v, want ErrOrderAlreadySettled", err)
	}
}

func TestSettleNonCashSettlesExactly(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	rcpt, err := e.Settle(ctx, o.ID, order.PaymentQRCode)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !rcpt.Change.IsZero() {
		t.Errorf("non-cash change: got %v, want zero", rcpt.Change)
	}
	if rcpt.Order.Method != order.PaymentQRCode {
		t.Errorf("Method: got %s, want qrCode", rcpt.Order.Method)
	}
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	o, _ := e.CreateOrder(ctx, draft())

	if err := e.DeleteOrder(ctx, o.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if _, err := e.GetOrder(ctx, o.ID); !tab.IsNotFound(err) {
		t.Errorf("after delete: got %v, want a not-found error", err)
	}
}

func TestMutationsPublishChangeEvents(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	sub := e.Notifier().Subscribe(notify.TopicOrders)
	defer sub.Unsubscribe()

	o, _ := e.CreateOrder(ctx, draft())
	_, _ = e.UpdateOrderStatus(ctx, o.ID, order.StatusReady)
	_, _ = e.Settle(ctx, o.ID, order.PaymentCash, types.USD(5000))

	want := []notify.Kind{notify.KindOrderCreated, notify.KindOrderUpdated, notify.KindOrderSettled}
	for i, kind := range want {
		select {
		case ev := <-sub.C:
			if ev.Kind != kind {
				t.Errorf("event %d: Kind got %q, want %q", i, ev.Kind, kind)
			}
			if ev.OrderID != o.ID.String() {
				t.Errorf("event %d: OrderID got %q, want %q", i, ev.OrderID, o.ID.String())
			}
		case <-time.After(time.Second):
			t.Fatalf("event %d (%s) never arrived", i, kind)
		}
	}
}

func TestCustomTaxRateAndCurrency(t *testing.T) {
	ctx := context.Background()
	e := newEngine(tab.WithTaxRate(700), tab.WithCurrency("thb"))

	o, err := e.CreateOrder(ctx, &order.Order{
		Items: []order.Item{{Name: "Pad Thai", Price: types.In(12000, "thb"), Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if o.TaxAmount.Amount != 840 {
		t.Errorf("TaxAmount at 7%%: got %d, want 840", o.TaxAmount.Amount)
	}
	if o.Total.Currency != "thb" {
		t.Errorf("Currency: got %q, want thb", o.Total.Currency)
	}
}

func TestStartSeedsDemoOrdersOnce(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	e := tab.New(st, tab.WithDemoSeed())

	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	first, err := e.ListOrders(ctx, order.ListOpts{})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("demo seed produced no orders")
	}

	// Restarting against the same store must not seed again.
	e2 := tab.New(st, tab.WithDemoSeed())
	if err := e2.Start(ctx); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	second, _ := e2.ListOrders(ctx, order.ListOpts{})
	if len(second) != len(first) {
		t.Errorf("reseeded: got %d orders, want %d", len(second), len(first))
	}
}
