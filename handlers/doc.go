// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the page handlers of the polls app.

# Handler Type

QuestionHandler holds its collaborators explicitly:

	h := handlers.NewQuestionHandler(store, renderer, resolver)

  - Store: reads questions and choices, records votes
  - Renderer: executes a named page template
  - Reverser: resolves route names such as "polls:results" to paths

# Results Instead of Writes

Each page is a HandlerFunc returning a Result (template plus data, or a
redirect target) and an error. Serve turns that into a response:

	ErrNotFound     → 404
	other error     → 500, logged
	RedirectTo set  → 302
	otherwise       → 200 with the rendered template

# Pages

	Index   → latest five published questions, newest first
	Detail  → published question with its choices, else 404
	Results → any existing question with vote counts, else 404
	Vote    → published question; a missing or foreign choice re-renders
	          the detail page with "You didn't select a choice." (200),
	          a valid one adds a vote and redirects to the results page

Results deliberately skips the publication check that Detail applies.

# Concurrency

Votes are a single increment statement in the store, so simultaneous votes
for the same choice are all counted. Handlers keep no state between requests.
*/
package handlers
