package tab

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/tab/id"
	"github.com/xraph/tab/order"
	"github.com/xraph/tab/types"
)

// seedFlag guards demo seeding so it runs at most once per database.
const seedFlag = "orders_seeded"

// seedDemoOrders writes a small set of demo orders directly to the
// store: a few settled orders spread over recent days to light up the
// sales ledger, plus one open order. Skipped when the guard flag is
// already set.
func (t *Tab) seedDemoOrders(ctx context.Context) error {
	done, err := t.store.GetFlag(ctx, seedFlag)
	if err != nil {
		return fmt.Errorf("read seed flag: %w", err)
	}
	if done {
		return nil
	}

	now := t.now()

	type seedItem struct {
		name     string
		category string
		price    int64
		qty      int64
	}
	seeds := []struct {
		daysAgo  int
		hour     int
		table    string
		customer string
		method   order.PaymentMethod
		settled  bool
		items    []seedItem
	}{
		{2, 12, "t1", "walk-in", order.PaymentCash, true, []seedItem{
			{"Burger", "mains", 850, 2},
			{"Fries", "sides", 450, 1},
		}},
		{2, 19, "t4", "Rivera", order.PaymentCreditCard, true, []seedItem{
			{"Margherita", "mains", 1200, 1},
			{"Tiramisu", "desserts", 650, 2},
		}},
		{1, 13, "t2", "walk-in", order.PaymentQRCode, true, []seedItem{
			{"Ramen", "mains", 1100, 1},
			{"Green Tea", "drinks", 300, 2},
		}},
		{0, 0, "t7", "Okafor", "", false, []seedItem{
			{"Caesar Salad", "starters", 750, 1},
			{"Steak Frites", "mains", 2200, 1},
		}},
	}

	for i, s := range seeds {
		at := now.AddDate(0, 0, -s.daysAgo)
		if s.daysAgo > 0 {
			at = time.Date(at.Year(), at.Month(), at.Day(), s.hour, 15, 0, 0, at.Location())
		}

		number, err := t.nextOrderNumber(ctx, at)
		if err != nil {
			return fmt.Errorf("seed order %d: %w", i, err)
		}

		o := &order.Order{
			Entity:       types.EntityAt(at),
			ID:           id.NewOrderID(),
			Number:       number,
			TableID:      s.table,
			CustomerName: s.customer,
			Status:       order.StatusNew,
			OrderDate:    at,
		}
		for _, si := range s.items {
			o.Items = append(o.Items, order.Item{
				ID:       id.NewItemID(),
				Name:     si.name,
				Category: si.category,
				Price:    types.In(si.price, t.currency),
				Quantity: si.qty,
				Status:   order.StatusNew,
			})
		}
		t.recalculate(o)

		if s.settled {
			ts := at.UTC()
			o.Status = order.StatusPaid
			o.Method = s.method
			o.Paid = true
			o.PaidAt = &ts
			o.CompletedAt = &ts
			for j := range o.Items {
				o.Items[j].Status = order.StatusPaid
			}
		}

		if err := t.store.CreateOrder(ctx, o); err != nil {
			return fmt.Errorf("seed order %d: %w", i, err)
		}
	}

	if err := t.store.SetFlag(ctx, seedFlag, true); err != nil {
		return fmt.Errorf("set seed flag: %w", err)
	}

	t.logger.Info("demo orders seeded", "count", len(seeds))

	return nil
}
