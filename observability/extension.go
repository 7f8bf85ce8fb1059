// Package observability provides a metrics extension for Tab that records
// order lifecycle counts and settlement figures via a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/tab/order"
	"github.com/xraph/tab/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin               = (*MetricsExtension)(nil)
	_ plugin.OnInit               = (*MetricsExtension)(nil)
	_ plugin.OnOrderCreated       = (*MetricsExtension)(nil)
	_ plugin.OnOrderStatusChanged = (*MetricsExtension)(nil)
	_ plugin.OnItemStatusChanged  = (*MetricsExtension)(nil)
	_ plugin.OnOrderSettled       = (*MetricsExtension)(nil)
	_ plugin.OnOrderDeleted       = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records order lifecycle metrics.
// Register it as a Tab plugin to automatically track POS activity.
type MetricsExtension struct {
	factory MetricFactory

	// Order metrics
	OrdersCreated  Counter
	OrdersSettled  Counter
	OrdersCanceled Counter
	OrdersDeleted  Counter
	StatusChanges  Counter
	ItemChanges    Counter

	// Settlement metrics
	RevenueCents   Histogram
	OrderItemCount Histogram

	// Per-method settlement counters
	SettledCash       Counter
	SettledCreditCard Counter
	SettledOther      Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Order metrics
		OrdersCreated:  factory.Counter("tab.order.created"),
		OrdersSettled:  factory.Counter("tab.order.settled"),
		OrdersCanceled: factory.Counter("tab.order.canceled"),
		OrdersDeleted:  factory.Counter("tab.order.deleted"),
		StatusChanges:  factory.Counter("tab.order.status_changes"),
		ItemChanges:    factory.Counter("tab.item.status_changes"),

		// Settlement metrics
		RevenueCents:   factory.Histogram("tab.settlement.total_cents"),
		OrderItemCount: factory.Histogram("tab.order.item_count"),

		// Per-method settlement counters
		SettledCash:       factory.Counter("tab.settlement.cash"),
		SettledCreditCard: factory.Counter("tab.settlement.credit_card"),
		SettledOther:      factory.Counter("tab.settlement.other"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// OnOrderCreated implements plugin.OnOrderCreated.
func (m *MetricsExtension) OnOrderCreated(_ context.Context, o interface{}) error {
	m.OrdersCreated.Inc()
	if ord, ok := o.(*order.Order); ok {
		m.OrderItemCount.Observe(float64(len(ord.Items)))
	}
	return nil
}

// OnOrderStatusChanged implements plugin.OnOrderStatusChanged.
func (m *MetricsExtension) OnOrderStatusChanged(_ context.Context, _ interface{}, _, newStatus string) error {
	m.StatusChanges.Inc()
	if newStatus == string(order.StatusCanceled) {
		m.OrdersCanceled.Inc()
	}
	return nil
}

// OnItemStatusChanged implements plugin.OnItemStatusChanged.
func (m *MetricsExtension) OnItemStatusChanged(_ context.Context, _ interface{}, _, _ string) error {
	m.ItemChanges.Inc()
	return nil
}

// OnOrderSettled implements plugin.OnOrderSettled.
func (m *MetricsExtension) OnOrderSettled(_ context.Context, o interface{}, method string) error {
	m.OrdersSettled.Inc()

	switch order.PaymentMethod(method) {
	case order.PaymentCash:
		m.SettledCash.Inc()
	case order.PaymentCreditCard:
		m.SettledCreditCard.Inc()
	default:
		m.SettledOther.Inc()
	}

	if ord, ok := o.(*order.Order); ok {
		m.RevenueCents.Observe(float64(ord.Total.Amount))
	}
	return nil
}

// OnOrderDeleted implements plugin.OnOrderDeleted.
func (m *MetricsExtension) OnOrderDeleted(_ context.Context, _ string) error {
	m.OrdersDeleted.Inc()
	return nil
}
