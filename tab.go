package tab

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/tab/id"
	"github.com/xraph/tab/notify"
	"github.com/xraph/tab/order"
	"github.com/xraph/tab/plugin"
	"github.com/xraph/tab/store"
	"github.com/xraph/tab/types"
)

// Tab is the point-of-sale order engine. It owns the order and item
// state machines, recomputes totals under every mutation, settles
// payments, and publishes a change event after each successful persist.
//
// Every mutating operation computes a full next version of the order in
// memory before writing, so the persisted collection never holds a
// partially-updated record. The engine itself performs read-modify-write
// without cross-order locking; concurrent mutations of the same order
// from multiple goroutines need coordination by the caller or an
// optimistic-versioning store.
type Tab struct {
	store    store.Store
	notifier *notify.Notifier
	plugins  *plugin.Registry
	logger   *slog.Logger

	// Configuration
	taxRateBP int64
	currency  string
	now       func() time.Time
	seedDemo  bool
}

// New creates a new Tab engine instance.
func New(s store.Store, opts ...Option) *Tab {
	t := &Tab{
		store:     s,
		notifier:  notify.New(),
		plugins:   plugin.NewRegistry(),
		logger:    slog.Default(),
		taxRateBP: order.DefaultTaxRateBP,
		currency:  "usd",
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Option configures a Tab instance.
type Option func(*Tab)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tab) {
		t.logger = logger
		t.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(t *Tab) {
		_ = t.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithTaxRate sets the tax rate in basis points (default 1000 = 10%).
func WithTaxRate(basisPoints int64) Option {
	return func(t *Tab) { t.taxRateBP = basisPoints }
}

// WithCurrency sets the working currency code (default "usd").
func WithCurrency(code string) Option {
	return func(t *Tab) { t.currency = code }
}

// WithClock overrides the engine's time source. Order numbers, payment
// stamps and completion stamps all derive from it.
func WithClock(now func() time.Time) Option {
	return func(t *Tab) { t.now = now }
}

// WithDemoSeed enables one-time demo order seeding on Start, guarded by
// a store flag so it runs at most once per database.
func WithDemoSeed() Option {
	return func(t *Tab) { t.seedDemo = true }
}

// Notifier returns the engine's change notifier. Subscribers (such as
// the sales ledger aggregator) attach here.
func (t *Tab) Notifier() *notify.Notifier { return t.notifier }

// Start migrates the store, runs demo seeding if enabled, and
// initializes plugins.
func (t *Tab) Start(ctx context.Context) error {
	if err := t.store.Migrate(ctx); err != nil {
		return err
	}

	if t.seedDemo {
		if err := t.seedDemoOrders(ctx); err != nil {
			return err
		}
	}

	t.plugins.EmitInit(ctx, t)

	t.logger.Info("tab engine started",
		"tax_rate_bp", t.taxRateBP,
		"currency", t.currency,
	)

	return nil
}

// Stop shuts down the engine.
func (t *Tab) Stop() error {
	t.plugins.EmitShutdown(context.Background())
	return t.store.Close()
}

// ──────────────────────────────────────────────────
// Order lifecycle
// ──────────────────────────────────────────────────

// CreateOrder validates a draft, assigns identity, numbering and
// timestamps where absent, computes totals, and persists the order.
// The stored order is returned.
func (t *Tab) CreateOrder(ctx context.Context, draft *order.Order) (*order.Order, error) {
	if err := t.validateDraft(draft); err != nil {
		return nil, err
	}

	now := t.now()

	if draft.ID.IsNil() {
		draft.ID = id.NewOrderID()
	}
	if draft.Status == "" {
		draft.Status = order.StatusNew
	}
	if draft.OrderDate.IsZero() {
		draft.OrderDate = now
	}
	draft.Entity = types.EntityAt(now)

	if draft.Number == "" {
		number, err := t.nextOrderNumber(ctx, draft.OrderDate)
		if err != nil {
			return nil, err
		}
		draft.Number = number
	}

	for i := range draft.Items {
		t.normalizeItem(&draft.Items[i], draft.Status)
	}

	t.recalculate(draft)

	if err := t.store.CreateOrder(ctx, draft); err != nil {
		return nil, err
	}

	t.publish(notify.KindOrderCreated, draft.ID)
	t.plugins.EmitOrderCreated(ctx, draft)

	t.logger.Info("order created",
		"order_id", draft.ID.String(),
		"number", draft.Number,
		"items", len(draft.Items),
		"total", draft.Total.String(),
	)

	return draft, nil
}

// GetOrder retrieves an order by ID.
func (t *Tab) GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error) {
	return t.store.GetOrder(ctx, orderID)
}

// ListOrders lists orders matching the filter options.
func (t *Tab) ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error) {
	return t.store.ListOrders(ctx, opts)
}

// UpdateOrderStatus sets an order's status. Moving to paid marks the
// order paid (with a cash fallback payment method); moving to delivered
// or canceled stamps the completion time. Jumps off the recommended
// path are not rejected here.
func (t *Tab) UpdateOrderStatus(ctx context.Context, orderID id.OrderID, newStatus order.Status) (*order.Order, error) {
	o, err := t.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	oldStatus := o.Status
	now := t.now()

	o.Status = newStatus
	o.TouchAt(now)

	switch {
	case newStatus == order.StatusPaid:
		t.markPaid(o, now)
	case newStatus.IsCompleting():
		completed := now.UTC()
		o.CompletedAt = &completed
	}

	if err := t.store.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}

	t.publish(notify.KindOrderUpdated, o.ID)
	t.plugins.EmitOrderStatusChanged(ctx, o, string(oldStatus), string(newStatus))

	return o, nil
}

// UpdateItemStatus sets one item's status, then applies the rollup rule:
// when every item in the order shares one status, the order's own status
// follows it. Partial convergence never changes order status.
func (t *Tab) UpdateItemStatus(ctx context.Context, orderID id.OrderID, itemID id.ItemID, newStatus order.Status) (*order.Order, error) {
	o, err := t.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	it := o.FindItem(itemID)
	if it == nil {
		return nil, fmt.Errorf("%w: %s in order %s", ErrItemNotFound, itemID.String(), orderID.String())
	}

	now := t.now()
	it.Status = newStatus
	o.TouchAt(now)

	if unanimous, ok := order.Rollup(o.Items); ok {
		o.Status = unanimous
		if unanimous == order.StatusPaid {
			t.markPaid(o, now)
		} else if unanimous.IsCompleting() {
			completed := now.UTC()
			o.CompletedAt = &completed
		}
	}

	if err := t.store.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}

	t.publish(notify.KindOrderUpdated, o.ID)
	t.plugins.EmitItemStatusChanged(ctx, o, itemID.String(), string(newStatus))

	return o, nil
}

// AddItem appends an item to an order. The item inherits the order's
// current status unless it carries one, and totals are recomputed.
func (t *Tab) AddItem(ctx context.Context, orderID id.OrderID, item order.Item) (*order.Order, error) {
	if item.Quantity <= 0 {
		return nil, ValidationError{Field: "quantity", Message: "must be positive"}
	}

	o, err := t.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	t.normalizeItem(&item, o.Status)
	o.Items = append(o.Items, item)

	return t.saveMutation(ctx, o)
}

// UpdateItem applies a partial update to an item and recomputes totals.
func (t *Tab) UpdateItem(ctx context.Context, orderID id.OrderID, itemID id.ItemID, patch order.ItemPatch) (*order.Order, error) {
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, ValidationError{Field: "quantity", Message: "must be positive"}
	}

	o, err := t.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	it := o.FindItem(itemID)
	if it == nil {
		return nil, fmt.Errorf("%w: %s in order %s", ErrItemNotFound, itemID.String(), orderID.String())
	}

	patch.Apply(it)

	return t.saveMutation(ctx, o)
}

// RemoveItem deletes an item from an order and recomputes totals.
func (t *Tab) RemoveItem(ctx context.Context, orderID id.OrderID, itemID id.ItemID) (*order.Order, error) {
	o, err := t.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.RemoveItem(itemID) {
		return nil, fmt.Errorf("%w: %s in order %s", ErrItemNotFound, itemID.String(), orderID.String())
	}

	return t.saveMutation(ctx, o)
}

// ApplyDiscount sets the order's discount and recomputes totals. The
// effective discount is capped so the total never goes negative.
func (t *Tab) ApplyDiscount(ctx context.Context, orderID id.OrderID, discount types.Money) (*order.Order, error) {
	if discount.IsNegative() {
		return nil, ValidationError{Field: "discount", Message: "must not be negative"}
	}

	o, err := t.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.Discount = discount

	return t.saveMutation(ctx, o)
}

// DeleteOrder physically removes an order from the store.
func (t *Tab) DeleteOrder(ctx context.Context, orderID id.OrderID) error {
	if err := t.store.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	t.publish(notify.KindOrderDeleted, orderID)
	t.plugins.EmitOrderDeleted(ctx, orderID.String())

	return nil
}

// ──────────────────────────────────────────────────
// Payment settlement
// ──────────────────────────────────────────────────

// Receipt is the result of a successful settlement.
type Receipt struct {
	Order  *order.Order `json:"order"`
	Change types.Money  `json:"change"`
}

// Settle records payment for an order and transitions it to its terminal
// paid state. For cash tender it verifies the tendered amount covers the
// total and computes change; other methods settle exactly. Settlement is
// strictly once-only: settling an already-paid order fails with
// ErrOrderAlreadySettled.
func (t *Tab) Settle(ctx context.Context, orderID id.OrderID, method order.PaymentMethod, tendered ...types.Money) (*Receipt, error) {
	o, err := t.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Paid {
		return nil, fmt.Errorf("%w: %s", ErrOrderAlreadySettled, orderID.String())
	}

	change := types.Zero(o.Total.Currency)
	if method == order.PaymentCash {
		if len(tendered) == 0 {
			return nil, ErrTenderRequired
		}
		cash := tendered[0]
		if cash.LessThan(o.Total) {
			return nil, fmt.Errorf("%w: tendered %s, total %s",
				ErrInsufficientPayment, cash.String(), o.Total.String())
		}
		change = cash.Subtract(o.Total)
	}

	now := t.now()
	o.Method = method
	o.Status = order.StatusPaid
	t.markPaid(o, now)
	o.TouchAt(now)

	if err := t.store.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}

	t.publish(notify.KindOrderSettled, o.ID)
	t.plugins.EmitOrderSettled(ctx, o, string(method))

	t.logger.Info("order settled",
		"order_id", o.ID.String(),
		"method", string(method),
		"total", o.Total.String(),
		"change", change.String(),
	)

	return &Receipt{Order: o, Change: change}, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// validateDraft rejects malformed draft orders before any identity or
// numbering is assigned.
func (t *Tab) validateDraft(draft *order.Order) error {
	if draft == nil {
		return ValidationError{Field: "order", Message: "nil draft"}
	}
	if len(draft.Items) == 0 {
		return ValidationError{Field: "items", Message: "order needs at least one item"}
	}
	for i := range draft.Items {
		if draft.Items[i].Quantity <= 0 {
			return ValidationError{Field: "quantity", Message: "must be positive"}
		}
	}
	return nil
}

// normalizeItem assigns identity, currency and a default status to a new
// item. New items inherit the order's current status.
func (t *Tab) normalizeItem(it *order.Item, orderStatus order.Status) {
	if it.ID.IsNil() {
		it.ID = id.NewItemID()
	}
	if it.Price.Currency == "" {
		it.Price.Currency = t.currency
	}
	if it.Status == "" {
		it.Status = orderStatus
	}
}

// recalculate reruns the totals calculator over the order's current
// items and discount. No code path sets totals any other way.
func (t *Tab) recalculate(o *order.Order) {
	o.ApplyTotals(order.ComputeTotals(o.Items, o.Discount, t.taxRateBP, t.currency))
}

// saveMutation is the shared tail of every structural item mutation:
// recompute totals, stamp, persist, notify.
func (t *Tab) saveMutation(ctx context.Context, o *order.Order) (*order.Order, error) {
	t.recalculate(o)
	o.TouchAt(t.now())

	if err := t.store.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}

	t.publish(notify.KindOrderUpdated, o.ID)

	return o, nil
}

// markPaid applies the paid-state invariants: the paid flag, payment and
// completion stamps, and the cash fallback for a missing method.
func (t *Tab) markPaid(o *order.Order, now time.Time) {
	ts := now.UTC()
	o.Paid = true
	o.PaidAt = &ts
	o.CompletedAt = &ts
	if o.Method == "" {
		o.Method = order.PaymentCash
	}
}

// nextOrderNumber derives the human-facing daily order number:
// "<YYYYMMDD>-<NNN>" where NNN counts that day's existing orders plus
// one. The count is taken from the store, not a persisted counter, so
// numbering restarts naturally each calendar day.
func (t *Tab) nextOrderNumber(ctx context.Context, day time.Time) (string, error) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	count, err := t.store.CountOrdersBetween(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("count today's orders: %w", err)
	}

	return fmt.Sprintf("%s-%03d", start.Format("20060102"), count+1), nil
}

// publish emits a typed change event on the orders topic.
func (t *Tab) publish(kind notify.Kind, orderID id.OrderID) {
	t.notifier.Publish(notify.TopicOrders, notify.Event{
		Kind:    kind,
		OrderID: orderID.String(),
		At:      t.now().UTC(),
	})
}
