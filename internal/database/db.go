package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/wefi-dex/munchclub-admin/internal/config"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// Database represents a database connection
type Database struct {
	DB     *sqlx.DB
	logger logger.Logger
}

// New creates a new database connection
func New(cfg *config.Config, logger logger.Logger) (*Database, error) {
	db, err := sqlx.Connect("postgres", cfg.GetDBConnString())

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("Connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	return Wrap(db, logger), nil
}

// Wrap adopts an already opened connection pool
func Wrap(db *sqlx.DB, logger logger.Logger) *Database {
	return &Database{
		DB:     db,
		logger: logger,
	}
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.DB.Close()
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := d.DB.BeginTxx(ctx, nil)

	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				d.logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RunMigrations creates the schema if it does not exist yet
func (d *Database) RunMigrations() error {
	_, err := d.DB.Exec(schema)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(50) PRIMARY KEY,
	name VARCHAR(255) NOT NULL DEFAULT '',
	email VARCHAR(255) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS books (
	id VARCHAR(50) PRIMARY KEY,
	user_id VARCHAR(50) REFERENCES users(id) ON DELETE SET NULL,
	title VARCHAR(255) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS recipes (
	id VARCHAR(50) PRIMARY KEY,
	book_id VARCHAR(50) REFERENCES books(id) ON DELETE CASCADE,
	title VARCHAR(255) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_recipes_book_id ON recipes(book_id);

CREATE TABLE IF NOT EXISTS type_prices (
	id VARCHAR(50) PRIMARY KEY,
	type VARCHAR(50) NOT NULL,
	price NUMERIC(10, 2) NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id VARCHAR(50) PRIMARY KEY,
	user_id VARCHAR(50) NOT NULL,
	status TEXT NOT NULL,
	printer_order_ids TEXT[] NOT NULL DEFAULT '{}',
	printer_status TEXT,
	tracking_number TEXT,
	estimated_delivery TIMESTAMP,
	printer_error TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

CREATE TABLE IF NOT EXISTS basket_items (
	id VARCHAR(50) PRIMARY KEY,
	order_id VARCHAR(50) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	book_id VARCHAR(50) REFERENCES books(id) ON DELETE SET NULL,
	type_price_id VARCHAR(50) REFERENCES type_prices(id) ON DELETE SET NULL,
	quantity INT NOT NULL DEFAULT 1,
	item_type VARCHAR(50)
);

CREATE INDEX IF NOT EXISTS idx_basket_items_order_id ON basket_items(order_id);

CREATE TABLE IF NOT EXISTS payments (
	id VARCHAR(50) PRIMARY KEY,
	order_id VARCHAR(50) UNIQUE REFERENCES orders(id) ON DELETE CASCADE,
	amount NUMERIC(10, 2) NOT NULL,
	processor_id VARCHAR(255) NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS shipping_addresses (
	id VARCHAR(50) PRIMARY KEY,
	user_id VARCHAR(50),
	full_name TEXT,
	address_line1 TEXT,
	address_line2 TEXT,
	city TEXT,
	state TEXT,
	postal_code TEXT,
	country TEXT,
	phone TEXT
);

CREATE TABLE IF NOT EXISTS order_shipping (
	id SERIAL PRIMARY KEY,
	order_id VARCHAR(50) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	shipping_address_id VARCHAR(50) NOT NULL REFERENCES shipping_addresses(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_order_shipping_order_id ON order_shipping(order_id);

CREATE TABLE IF NOT EXISTS status_history (
	id SERIAL PRIMARY KEY,
	order_id VARCHAR(50) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	status TEXT NOT NULL,
	message JSONB,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_status_history_order ON status_history(order_id, created_at DESC);

ALTER TABLE orders ALTER COLUMN status TYPE TEXT;
ALTER TABLE status_history ALTER COLUMN status TYPE TEXT;

CREATE TABLE IF NOT EXISTS outbox_messages (
	id SERIAL PRIMARY KEY,
	aggregate_type VARCHAR(50) NOT NULL,
	aggregate_id VARCHAR(50) NOT NULL,
	event_type VARCHAR(50) NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	processed_at TIMESTAMP,
	processing_attempts INT NOT NULL DEFAULT 0,
	last_error TEXT,
	status VARCHAR(20) NOT NULL DEFAULT 'pending'
);

CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox_messages(status);
CREATE INDEX IF NOT EXISTS idx_outbox_aggregate ON outbox_messages(aggregate_type, aggregate_id);
`
