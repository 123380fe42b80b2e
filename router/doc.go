// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the polls app together.

# Route Registration

NewRouter builds the store, templates, handlers and middleware chain:

	handler, err := router.NewRouter(db, cfg)

New does the same around any handlers.Store and clock, which is what the
tests use.

# Endpoints

Health:

	GET /health

Polls, relative to cfg.Prefix (default /polls/), namespace "polls":

	GET  /                       index
	GET  /{question_id}/         detail
	GET  /{question_id}/results/ results
	POST /{question_id}/vote/    vote

GET / redirects to the prefix when the app is not mounted at the root.

# Middleware

Every request passes WithLogging and Recover. Everything except /health
also passes CSRF.
*/
package router
