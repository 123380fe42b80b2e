// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the token primitives behind CSRF protection.

# Nonces

GenerateNonce returns 192 random bits, URL-safe base64 without padding:

	nonce, err := auth.GenerateNonce()

The nonce is stored in the csrftoken cookie.

# Form Tokens

SignNonce derives the value forms must echo back, an HMAC-SHA256 of the
nonce keyed with the configured CSRF secret:

	token := auth.SignNonce(nonce, cfg.CSRFSecret)

ValidateToken compares in constant time and returns ErrInvalidToken on
mismatch. Because the token is derived, no server-side state is kept.
*/
package auth
