// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables for the given dialect:

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - polls_question: Question text and publication date
  - polls_choice: Choices per question with their vote counter

# Relationships

	polls_question 1──* polls_choice

Choices are deleted with their question (ON DELETE CASCADE). On SQLite the
foreign_keys pragma is switched on by the schema script itself, which only
affects the connection that ran it; callers that pool connections should
also pass _pragma=foreign_keys(1) in the DSN.

# Indexes

  - polls_question.pub_date (listing order)
  - polls_choice.question_id
*/
package db
