// Package store defines the unified storage interface for Tab.
package store

import (
	"context"
	"time"

	"github.com/xraph/tab/id"
	"github.com/xraph/tab/order"
)

// Store is the unified storage interface consumed by the engine and the
// sales ledger aggregator. Backends live in the subpackages (memory,
// sqlite, postgres, mongo).
type Store interface {
	// Order methods
	CreateOrder(ctx context.Context, o *order.Order) error
	GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error)
	ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error)
	UpdateOrder(ctx context.Context, o *order.Order) error
	DeleteOrder(ctx context.Context, orderID id.OrderID) error
	CountOrdersBetween(ctx context.Context, start, end time.Time) (int, error)

	// Flag methods. Flags are one-shot booleans, e.g. the guard that
	// makes demo seeding run exactly once per database.
	GetFlag(ctx context.Context, name string) (bool, error)
	SetFlag(ctx context.Context, name string, value bool) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
