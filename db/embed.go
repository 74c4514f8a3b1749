// Package db embeds the PostgreSQL schema of the catalog and the customer
// order history.
package db

import _ "embed"

// Schema creates the products, customers, orders and order_lines tables.
// Every statement is idempotent.
//
//go:embed migrations/001_schema.sql
var Schema string
