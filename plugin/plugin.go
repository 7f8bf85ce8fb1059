// Package plugin provides an extensible plugin system for Tab.
// Plugins can hook into order lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, t interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Order lifecycle hooks
// ──────────────────────────────────────────────────

// OnOrderCreated is called when a new order is created.
type OnOrderCreated interface {
	Plugin
	OnOrderCreated(ctx context.Context, o interface{}) error
}

// OnOrderStatusChanged is called when an order's status changes.
type OnOrderStatusChanged interface {
	Plugin
	OnOrderStatusChanged(ctx context.Context, o interface{}, oldStatus, newStatus string) error
}

// OnItemStatusChanged is called when an item's status changes.
type OnItemStatusChanged interface {
	Plugin
	OnItemStatusChanged(ctx context.Context, o interface{}, itemID, newStatus string) error
}

// OnOrderSettled is called when payment settles an order.
type OnOrderSettled interface {
	Plugin
	OnOrderSettled(ctx context.Context, o interface{}, method string) error
}

// OnOrderDeleted is called when an order is deleted.
type OnOrderDeleted interface {
	Plugin
	OnOrderDeleted(ctx context.Context, orderID string) error
}
