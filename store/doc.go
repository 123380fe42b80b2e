// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store reads and writes questions and choices.

	st := store.New(conn, db.DialectSQLite)

Queries are written with ? placeholders and rewritten to $n for Postgres.
Times are bound in UTC so SQLite's text comparison of pub_date stays
chronological.

Missing rows are reported as ErrNotFound. Vote increments in a single
UPDATE, so there is no read-modify-write window between concurrent votes.
*/
package store
