// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the polls web app.

Polls lists recently published questions, shows a question with its
choices, accepts a vote and displays the results. Pages are server-rendered
HTML.

# Starting the Server

The server reads flags, environment variables and an optional .env file:

	CSRF_SECRET=change-me go run .

Or with flags and Postgres:

	go run . -p 3318 -t postgres -d "postgres://..." -csrf-secret change-me

# Configuration

Required settings:

  - CSRF_SECRET (-csrf-secret): Secret for CSRF token HMAC
  - DATABASE_URL (-d): Only when DATABASE_TYPE is postgres

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - POLLS_PREFIX (-prefix): Mount point (default: /polls/)

# Pages

	GET  /polls/                      - Latest five published questions
	GET  /polls/{question_id}/        - Question with a voting form
	GET  /polls/{question_id}/results/ - Vote counts
	POST /polls/{question_id}/vote/   - Record a vote, redirect to results

# Architecture

  - urls: Ordered route table with reverse lookup
  - handlers: Index, Detail, Results and Vote
  - store: Questions and choices over database/sql
  - render, templates: HTML pages
  - middleware: Logging, panic recovery, CSRF
  - router: Wires everything together
  - db: Schema creation
  - cliparse: Configuration parsing

Questions and choices are created outside this app, directly in the
database.
*/
package main
