package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Tab store (PostgreSQL).
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
    items          JSONB NOT NULL DEFAULT '[]',
    subtotal_cents BIGINT NOT NULL DEFAULT 0,
    tax_cents      BIGINT NOT NULL DEFAULT 0,
    discount_cents BIGINT NOT NULL DEFAULT 0,
    total_cents    BIGINT NOT NULL DEFAULT 0,
    currency       TEXT NOT NULL DEFAULT '',
    method         TEXT NOT NULL DEFAULT '',
    paid           BOOLEAN NOT NULL DEFAULT FALSE,
    paid_at        TIMESTAMPTZ,
    completed_at   TIMESTAMPTZ,
    notes          TEXT NOT NULL DEFAULT '',
    order_date     TIMESTAMPTZ NOT NULL DEFAULT now(),
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
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
    value      BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
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
