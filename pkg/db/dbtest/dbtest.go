// Package dbtest opens throwaway in-memory SQLite databases carrying the
// application schema for repository and service tests. The DDL mirrors the
// Postgres migrations with SQLite-friendly types; money columns are TEXT so
// decimals round-trip without float coercion.
package dbtest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/pkg/db"
)

const schema = `
CREATE TABLE users (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	phone TEXT,
	role TEXT NOT NULL DEFAULT 'vendor',
	business_name TEXT,
	business_type TEXT,
	city TEXT,
	area TEXT,
	is_active INTEGER NOT NULL DEFAULT 1,
	last_login_at DATETIME,
	created_at DATETIME,
	updated_at DATETIME
);

CREATE TABLE supplier_profiles (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	user_id TEXT NOT NULL UNIQUE,
	company_name TEXT NOT NULL,
	description TEXT,
	rating TEXT NOT NULL DEFAULT '0',
	total_orders INTEGER NOT NULL DEFAULT 0,
	is_verified INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME,
	updated_at DATETIME
);

CREATE TABLE groups (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	name TEXT NOT NULL,
	description TEXT,
	city TEXT NOT NULL,
	area TEXT NOT NULL,
	delivery_radius_km INTEGER NOT NULL DEFAULT 5,
	min_members INTEGER NOT NULL DEFAULT 2,
	max_members INTEGER NOT NULL DEFAULT 20,
	status TEXT NOT NULL DEFAULT 'ACTIVE',
	expires_at DATETIME,
	created_by TEXT NOT NULL,
	created_at DATETIME,
	updated_at DATETIME
);

CREATE TABLE group_members (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	group_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'member',
	joined_at DATETIME,
	created_at DATETIME,
	UNIQUE (group_id, user_id)
);

CREATE TABLE products (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	name TEXT NOT NULL,
	description TEXT,
	category TEXT NOT NULL,
	unit TEXT NOT NULL,
	base_price TEXT NOT NULL,
	image_url TEXT,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME,
	updated_at DATETIME
);

CREATE TABLE product_orders (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	group_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	vendor_id TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	unit_price TEXT NOT NULL,
	total_price TEXT NOT NULL,
	note TEXT,
	created_at DATETIME,
	updated_at DATETIME,
	UNIQUE (group_id, product_id, vendor_id)
);

CREATE TABLE supplier_listings (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	supplier_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	price_per_unit TEXT NOT NULL,
	min_order_quantity INTEGER NOT NULL DEFAULT 1,
	max_order_quantity INTEGER,
	is_available INTEGER NOT NULL DEFAULT 1,
	delivery_time_hours INTEGER NOT NULL DEFAULT 24,
	created_at DATETIME,
	updated_at DATETIME,
	UNIQUE (supplier_id, product_id)
);

CREATE TABLE listing_discount_tiers (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	listing_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	min_quantity INTEGER NOT NULL,
	price_per_unit TEXT NOT NULL,
	created_at DATETIME
);

CREATE TABLE orders (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	group_id TEXT NOT NULL UNIQUE,
	supplier_id TEXT NOT NULL,
	order_number TEXT NOT NULL UNIQUE,
	subtotal TEXT NOT NULL,
	delivery_charge TEXT NOT NULL,
	tax TEXT NOT NULL,
	discount TEXT NOT NULL DEFAULT '0',
	total_amount TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'PENDING',
	payment_status TEXT NOT NULL DEFAULT 'UNPAID',
	delivery_address TEXT NOT NULL,
	delivery_notes TEXT,
	estimated_delivery DATETIME,
	created_at DATETIME,
	updated_at DATETIME
);

CREATE TABLE outbox_events (
	id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
	event_type TEXT NOT NULL,
	aggregate_type TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at DATETIME,
	published_at DATETIME,
	attempt_count INTEGER NOT NULL DEFAULT 0,
	last_error TEXT
);
`

// New opens a fresh in-memory database with the schema applied and wraps it
// in a db.Client. The pool is pinned to a single connection so the memory
// database survives for the whole test.
func New(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.Exec(schema).Error; err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db.NewWithConn(conn)
}
