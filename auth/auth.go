// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidToken = errors.New("invalid token")

// nonce length in bytes; 24 bytes = 192 bits of entropy
const nonceBytes = 24

// GenerateNonce creates a random URL-safe token
func GenerateNonce() (string, error) {
	b := make([]byte, nonceBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// SignNonce derives the form token for a cookie nonce.
// Deterministic, so the server keeps no token state.
func SignNonce(nonce, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(nonce))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateToken checks that token was signed from nonce with secret
func ValidateToken(nonce, token, secret string) error {
	if nonce == "" || token == "" {
		return ErrInvalidToken
	}
	expected := SignNonce(nonce, secret)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidToken
	}
	return nil
}
