package order

import (
	"context"
	"time"

	"github.com/xraph/tab/id"
)

// Store is the order-facing slice of the storage interface.
// The unified store.Store satisfies it; backends assert so at compile time.
type Store interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, orderID id.OrderID) (*Order, error)
	ListOrders(ctx context.Context, opts ListOpts) ([]*Order, error)
	UpdateOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, orderID id.OrderID) error
	CountOrdersBetween(ctx context.Context, start, end time.Time) (int, error)
}
