package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements DDL idempotente: tablas base más las columnas que en la
// versión anterior del sistema se agregaban con scripts sueltos
// (payment_method, dirección/geo, blob de imagen).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role          VARCHAR(20) NOT NULL DEFAULT 'customer',
		phone_number  VARCHAR(20),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`,

	`CREATE TABLE IF NOT EXISTS products (
		id              UUID PRIMARY KEY,
		name            TEXT NOT NULL,
		price           NUMERIC(12,2) NOT NULL DEFAULT 0,
		stock           INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		description     TEXT,
		category        VARCHAR(50) DEFAULT 'Vegetables',
		unit_measure    VARCHAR(20) DEFAULT 'kg',
		image_url       TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS image_blob BYTEA`,
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS image_mime_type VARCHAR(50)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id          UUID PRIMARY KEY,
		customer_id UUID NOT NULL REFERENCES users(id),
		total_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		status      VARCHAR(20) NOT NULL DEFAULT 'pending',
		latitude    DOUBLE PRECISION,
		longitude   DOUBLE PRECISION,
		address     TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS payment_method VARCHAR(50) DEFAULT 'cod'`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id         UUID PRIMARY KEY,
		order_id   UUID NOT NULL REFERENCES orders(id),
		product_id UUID NOT NULL REFERENCES products(id),
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		price      NUMERIC(12,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id)`,

	`CREATE TABLE IF NOT EXISTS delivery_tasks (
		id                 UUID PRIMARY KEY,
		order_id           UUID NOT NULL REFERENCES orders(id),
		delivery_person_id UUID NOT NULL REFERENCES users(id),
		status             VARCHAR(20) NOT NULL DEFAULT 'assigned',
		assigned_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS delivery_tasks_person_idx ON delivery_tasks (delivery_person_id)`,
	// Una tarea por pedido, también ante asignaciones concurrentes.
	`CREATE UNIQUE INDEX IF NOT EXISTS delivery_tasks_order_id_key ON delivery_tasks (order_id)`,
}

// EnsureSchema aplica el DDL idempotente al arrancar.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
