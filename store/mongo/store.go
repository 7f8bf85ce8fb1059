// Package mongo implements the Tab store on MongoDB via Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	tab "github.com/xraph/tab"
	"github.com/xraph/tab/id"
	"github.com/xraph/tab/order"
	tabstore "github.com/xraph/tab/store"
)

// Collection name constants.
const (
	colOrders = "pos_orders"
	colFlags  = "pos_flags"
)

// compile-time interface check
var _ tabstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all tab collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("tab/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Order Store ====================

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	m := toOrderModel(o)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("tab/mongo: create order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error) {
	var m orderModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": orderID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, tab.ErrOrderNotFound
		}
		return nil, fmt.Errorf("tab/mongo: get order: %w", err)
	}
	return fromOrderModel(&m)
}

func (s *Store) ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error) {
	var models []orderModel

	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if opts.TableID != "" {
		filter["table_id"] = opts.TableID
	}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		window := bson.M{}
		if !opts.Start.IsZero() {
			window["$gte"] = opts.Start
		}
		if !opts.End.IsZero() {
			window["$lt"] = opts.End
		}
		filter["order_date"] = window
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "order_date", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("tab/mongo: list orders: %w", err)
	}

	result := make([]*order.Order, len(models))
	for i := range models {
		o, err := fromOrderModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = o
	}
	return result, nil
}

func (s *Store) UpdateOrder(ctx context.Context, o *order.Order) error {
	m := toOrderModel(o)

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tab/mongo: update order: %w", err)
	}
	if res.MatchedCount() == 0 {
		return tab.ErrOrderNotFound
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, orderID id.OrderID) error {
	res, err := s.mdb.NewDelete((*orderModel)(nil)).
		Filter(bson.M{"_id": orderID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tab/mongo: delete order: %w", err)
	}
	if res.DeletedCount() == 0 {
		return tab.ErrOrderNotFound
	}
	return nil
}

func (s *Store) CountOrdersBetween(ctx context.Context, start, end time.Time) (int, error) {
	count, err := s.mdb.Collection(colOrders).CountDocuments(ctx, bson.M{
		"order_date": bson.M{"$gte": start, "$lt": end},
	})
	if err != nil {
		return 0, fmt.Errorf("tab/mongo: count orders: %w", err)
	}
	return int(count), nil
}

// ==================== Flag Store ====================

func (s *Store) GetFlag(ctx context.Context, name string) (bool, error) {
	var m flagModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": name}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return false, nil
		}
		return false, fmt.Errorf("tab/mongo: get flag: %w", err)
	}
	return m.Value, nil
}

func (s *Store) SetFlag(ctx context.Context, name string, value bool) error {
	_, err := s.mdb.NewUpdate((*flagModel)(nil)).
		Filter(bson.M{"_id": name}).
		Set("value", value).
		Set("updated_at", now()).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tab/mongo: set flag: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all tab collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colOrders: {
			{Keys: bson.D{{Key: "order_date", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "order_date", Value: -1}}},
			{Keys: bson.D{{Key: "table_id", Value: 1}}},
			{
				Keys:    bson.D{{Key: "number", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colFlags: {},
	}
}
