// Package tab is an embeddable point-of-sale order engine for
// restaurants. It manages the full order lifecycle (creation, item and
// order status tracking, structural edits), keeps monetary totals
// consistent with integer arithmetic, settles payments with change
// calculation, and feeds a sales ledger through typed change events.
//
// # Quick Start
//
//	st := memory.New()
//	engine := tab.New(st, tab.WithTaxRate(1000))
//	if err := engine.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Stop()
//
//	o, err := engine.CreateOrder(ctx, &order.Order{
//		TableID: "t5",
//		Items: []order.Item{
//			{Name: "Burger", Price: tab.USD(850), Quantity: 2},
//			{Name: "Fries", Price: tab.USD(450), Quantity: 1},
//		},
//	})
//
//	receipt, err := engine.Settle(ctx, o.ID, order.PaymentCash, tab.USD(2500))
//
// # Storage
//
// Storage backends live under store/: memory for tests and demos,
// sqlite and postgres on grove, and mongo on the official driver. All
// satisfy store.Store.
//
// # Sales Ledger
//
// The sale package derives an in-memory sales ledger from settled
// orders. An Aggregator subscribes to the engine's notifier and
// rebuilds on every change, exposing daily, weekly, monthly,
// per-method, per-category and per-hour rollups.
package tab
