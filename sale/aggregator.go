package sale

import (
	"context"
	"log/slog"
	"sync"

	"github.com/xraph/tab/notify"
	"github.com/xraph/tab/order"
)

// Aggregator maintains the sales ledger as a derived read-model of the
// order store. It rescans the full collection on every change signal and
// deduplicates by order ID, so rescans are idempotent.
type Aggregator struct {
	store    order.Store
	notifier *notify.Notifier
	logger   *slog.Logger

	mu    sync.RWMutex
	sales []*Sale
	seen  map[string]struct{}

	sub      *notify.Subscription
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// NewAggregator creates a sales ledger aggregator over the given order
// store, reacting to change events from the notifier.
func NewAggregator(store order.Store, notifier *notify.Notifier, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:    store,
		notifier: notifier,
		logger:   slog.Default(),
		seen:     make(map[string]struct{}),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start performs an initial rebuild, subscribes to order changes, and
// begins the background refresh worker.
func (a *Aggregator) Start(ctx context.Context) error {
	if err := a.Rebuild(ctx); err != nil {
		return err
	}

	a.sub = a.notifier.Subscribe(notify.TopicOrders)

	a.wg.Add(1)
	go a.refreshWorker()

	a.logger.Info("sales ledger started", "entries", a.Len())
	return nil
}

// Stop shuts down the background worker.
func (a *Aggregator) Stop() {
	close(a.stopChan)
	if a.sub != nil {
		a.sub.Unsubscribe()
	}
	a.wg.Wait()
}

// refreshWorker rebuilds the ledger whenever the order collection
// changes. Any event triggers a full rescan; the payload is only logged.
func (a *Aggregator) refreshWorker() {
	defer a.wg.Done()

	for {
		select {
		case <-a.stopChan:
			return

		case ev, ok := <-a.sub.C:
			if !ok {
				return
			}
			if err := a.Rebuild(context.Background()); err != nil {
				a.logger.Error("sales ledger rebuild failed",
					"error", err,
					"kind", ev.Kind,
					"order_id", ev.OrderID,
				)
			}
		}
	}
}

// Rebuild rescans the order collection and appends any settled orders
// not yet in the ledger. Already-recorded sales are never duplicated,
// so running Rebuild twice on an unchanged collection is a no-op.
func (a *Aggregator) Rebuild(ctx context.Context) error {
	orders, err := a.store.ListOrders(ctx, order.ListOpts{})
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	added := 0
	for _, o := range orders {
		if !Settled(o) {
			continue
		}
		key := o.ID.String()
		if _, ok := a.seen[key]; ok {
			continue
		}
		a.seen[key] = struct{}{}
		a.sales = append(a.sales, FromOrder(o))
		added++
	}

	if added > 0 {
		a.logger.Debug("sales ledger updated", "added", added, "entries", len(a.sales))
	}
	return nil
}

// Sales returns a snapshot of the ledger entries.
func (a *Aggregator) Sales() []*Sale {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*Sale, len(a.sales))
	copy(out, a.sales)
	return out
}

// Len returns the number of ledger entries.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.sales)
}
