// Package memory provides an in-memory store for testing and demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xraph/tab"
	"github.com/xraph/tab/id"
	"github.com/xraph/tab/order"
	"github.com/xraph/tab/store"
)

// Store is an in-memory implementation of store.Store. Orders are
// deep-copied on the way in and out so callers can't mutate stored
// state behind the lock.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
	flags  map[string]bool
	closed bool
}

var _ store.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		orders: make(map[string]*order.Order),
		flags:  make(map[string]bool),
	}
}

func (s *Store) CreateOrder(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tab.ErrStoreClosed
	}

	key := o.ID.String()
	if _, ok := s.orders[key]; ok {
		return fmt.Errorf("%w: order %s", tab.ErrAlreadyExists, key)
	}

	s.orders[key] = cloneOrder(o)

	return nil
}

func (s *Store) GetOrder(_ context.Context, orderID id.OrderID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, tab.ErrStoreClosed
	}

	o, ok := s.orders[orderID.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", tab.ErrOrderNotFound, orderID.String())
	}

	return cloneOrder(o), nil
}

func (s *Store) ListOrders(_ context.Context, opts order.ListOpts) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, tab.ErrStoreClosed
	}

	matched := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if matches(o, opts) {
			matched = append(matched, o)
		}
	}

	// Newest first, stable across runs.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].OrderDate.Equal(matched[j].OrderDate) {
			return matched[i].OrderDate.After(matched[j].OrderDate)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []*order.Order{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	out := make([]*order.Order, len(matched))
	for i, o := range matched {
		out[i] = cloneOrder(o)
	}

	return out, nil
}

func (s *Store) UpdateOrder(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tab.ErrStoreClosed
	}

	key := o.ID.String()
	if _, ok := s.orders[key]; !ok {
		return fmt.Errorf("%w: %s", tab.ErrOrderNotFound, key)
	}

	s.orders[key] = cloneOrder(o)

	return nil
}

func (s *Store) DeleteOrder(_ context.Context, orderID id.OrderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tab.ErrStoreClosed
	}

	key := orderID.String()
	if _, ok := s.orders[key]; !ok {
		return fmt.Errorf("%w: %s", tab.ErrOrderNotFound, key)
	}

	delete(s.orders, key)

	return nil
}

func (s *Store) CountOrdersBetween(_ context.Context, start, end time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, tab.ErrStoreClosed
	}

	count := 0
	for _, o := range s.orders {
		if !o.OrderDate.Before(start) && o.OrderDate.Before(end) {
			count++
		}
	}

	return count, nil
}

func (s *Store) GetFlag(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, tab.ErrStoreClosed
	}

	return s.flags[name], nil
}

func (s *Store) SetFlag(_ context.Context, name string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tab.ErrStoreClosed
	}

	s.flags[name] = value

	return nil
}

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return tab.ErrStoreClosed
	}

	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

func matches(o *order.Order, opts order.ListOpts) bool {
	if opts.Status != "" && o.Status != opts.Status {
		return false
	}
	if opts.TableID != "" && o.TableID != opts.TableID {
		return false
	}
	if !opts.Start.IsZero() && o.OrderDate.Before(opts.Start) {
		return false
	}
	if !opts.End.IsZero() && !o.OrderDate.Before(opts.End) {
		return false
	}
	return true
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o

	cp.Items = make([]order.Item, len(o.Items))
	copy(cp.Items, o.Items)
	for i := range cp.Items {
		if o.Items[i].Options != nil {
			opts := make(map[string]string, len(o.Items[i].Options))
			for k, v := range o.Items[i].Options {
				opts[k] = v
			}
			cp.Items[i].Options = opts
		}
	}

	if o.PaidAt != nil {
		ts := *o.PaidAt
		cp.PaidAt = &ts
	}
	if o.CompletedAt != nil {
		ts := *o.CompletedAt
		cp.CompletedAt = &ts
	}

	return &cp
}
