//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"fmt"

	"github.com/retailops/retail-insights/internal/logging"
)

// The cleaning stage rebuilds each normalized table from staging by
// grouping on natural keys and taking MIN() as the deterministic
// representative for conflicting attribute values. All derived tables
// are dropped and recreated on every run.
//
// Rows with a null customer id are excluded from customers and orders
// but still reach products and order_items: anonymous transactions
// count toward product and item analytics, not customer analytics.
var cleanStatements = []struct {
	name string
	sql  string
}{
	{"drop customer_segments", `DROP TABLE IF EXISTS customer_segments`},
	{"drop customer_rfm_scored", `DROP TABLE IF EXISTS customer_rfm_scored`},
	{"drop customer_rfm", `DROP TABLE IF EXISTS customer_rfm`},
	{"drop order_items", `DROP TABLE IF EXISTS order_items`},
	{"drop orders", `DROP TABLE IF EXISTS orders`},
	{"drop products", `DROP TABLE IF EXISTS products`},
	{"drop customers", `DROP TABLE IF EXISTS customers`},

	{"create customers", `
        CREATE TABLE customers AS
        SELECT customer_id,
               MIN(country) AS country
        FROM staging_transactions
        WHERE customer_id IS NOT NULL
        GROUP BY customer_id`},
	{"customers pkey", `ALTER TABLE customers ADD PRIMARY KEY (customer_id)`},

	{"create products", `
        CREATE TABLE products AS
        SELECT stock_code AS product_id,
               MIN(description) AS product_name
        FROM staging_transactions
        WHERE stock_code IS NOT NULL
        GROUP BY stock_code`},
	{"products pkey", `ALTER TABLE products ADD PRIMARY KEY (product_id)`},

	{"create orders", `
        CREATE TABLE orders AS
        SELECT invoice_no AS order_id,
               customer_id,
               MIN(invoice_date) AS order_date
        FROM staging_transactions
        WHERE customer_id IS NOT NULL
        GROUP BY invoice_no, customer_id`},
	{"orders pkey", `ALTER TABLE orders ADD PRIMARY KEY (order_id, customer_id)`},

	{"create order_items", `
        CREATE TABLE order_items AS
        SELECT invoice_no AS order_id,
               stock_code AS product_id,
               quantity,
               unit_price
        FROM staging_transactions
        WHERE quantity > 0 AND unit_price > 0
        GROUP BY invoice_no, stock_code, quantity, unit_price`},
}

// BuildStarSchema rebuilds the cleaned star schema (customers, products,
// orders, order_items) from the staging table.
func BuildStarSchema(ctx context.Context, db DB) error {
	for _, stmt := range cleanStatements {
		if _, err := db.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("cleaning stage (%s): %w", stmt.name, err)
		}
	}

	for _, table := range []string{"customers", "products", "orders", "order_items"} {
		var n int64
		if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		logging.Info().
			Str("table", table).
			Int64("rows", n).
			Msg("Rebuilt table")
	}

	return nil
}
