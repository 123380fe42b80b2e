// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	handler := middleware.WithLogging(mux.ServeHTTP)

Logs request start (request_id, method, path, remote) and completion
(status, duration_ms). An incoming X-Request-ID is kept, otherwise a UUID is
generated; either way it is echoed in the response and available through
RequestID(ctx).

# Panic Recovery

Recover converts a panic into a logged 500 so one bad request does not take
the server down.

# CSRF Protection

CSRF(secret) guards POST and other unsafe methods with a double-submit
token. The csrftoken cookie holds a random nonce; forms echo its HMAC in the
csrfmiddlewaretoken field. Templates read the value through CSRFToken(ctx).

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
