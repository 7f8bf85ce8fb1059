package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Tab store (SQLite).
var Migrations = migrate.NewGroup("tab")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_pos_orders",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS pos_orders (
    id             TEXT PRIMARY KEY,
    number         TEXT NOT NULL DEFAULT '',
    table_id       TEXT NOT NULL DEFAULT '',
    customer_name  TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'new',
    items          TEXT NOT NULL DEFAULT '[]',
    subtotal_cents INTEGER NOT NULL DEFAULT 0,
    tax_cents      INTEGER NOT NULL DEFAULT 0,
    discount_cents INTEGER NOT NULL DEFAULT 0,
    total_cents    INTEGER NOT NULL DEFAULT 0,
    currency       TEXT NOT NULL DEFAULT '',
    method         TEXT NOT NULL DEFAULT '',
    paid           INTEGER NOT NULL DEFAULT 0,
    paid_at        TEXT,
    completed_at   TEXT,
    notes          TEXT NOT NULL DEFAULT '',
    order_date     TEXT NOT NULL DEFAULT (datetime('now')),
    created_at     TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at     TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_pos_orders_order_date ON pos_orders (order_date);
CREATE INDEX IF NOT EXISTS idx_pos_orders_status ON pos_orders (status);
CREATE INDEX IF NOT EXISTS idx_pos_orders_table ON pos_orders (table_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_pos_orders_number ON pos_orders (number);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS pos_orders`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_pos_flags",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS pos_flags (
    name       TEXT PRIMARY KEY,
    value      INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS pos_flags`)
				return err
			},
		},
	)
}
