// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package urls maps request paths to handlers and route names back to paths.

	rs := urls.New("/polls/", "polls")
	rs.Handle("{question_id:int}/", "detail", detail, http.MethodGet)
	path, err := rs.Reverse("polls:detail", 7) // "/polls/7/"

Routes are matched in registration order; the first match wins. Captures
are set on the request and read with r.PathValue or PathInt. An int capture
only accepts digits, so malformed ids never reach a handler.
*/
package urls
