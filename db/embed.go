// Package db embeds the PostgreSQL schema applied at startup.
package db

import _ "embed"

// Schema creates the kv_store and products tables. Every statement is
// idempotent, so it is safe to run on each start.
//
//go:embed migrations/001_schema.sql
var Schema string
